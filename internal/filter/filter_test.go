package filter

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"matchday/internal/model"
)

func scenarioGames() []model.Game {
	return []model.Game{
		{TimeLocal: "2024-01-01T20:00", TeamsDisplay: "A vs B", Channels: model.StringList{"DAZN"}},
		{TimeLocal: "2024-01-01T18:00", TeamsDisplay: "C vs D", Channels: model.StringList{"SKY SPORT"}},
	}
}

func teams(games []model.Game) []string {
	out := make([]string, len(games))
	for i, g := range games {
		out[i] = g.TeamsDisplay
	}
	return out
}

func TestScenarioAllSortsByTime(t *testing.T) {
	got := Apply(scenarioGames(), Criteria{Chip: ChipAll})
	require.Equal(t, []string{"C vs D", "A vs B"}, teams(got))
}

func TestScenarioDAZNChip(t *testing.T) {
	got := Apply(scenarioGames(), Criteria{Chip: ChipDAZN})
	require.Equal(t, []string{"A vs B"}, teams(got))
}

func TestScenarioQuery(t *testing.T) {
	got := Apply(scenarioGames(), Criteria{Chip: ChipAll, Query: "c vs"})
	require.Equal(t, []string{"C vs D"}, teams(got))
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	in := scenarioGames()
	_ = Apply(in, Criteria{Chip: ChipAll})
	require.Equal(t, "A vs B", in[0].TeamsDisplay)
}

func TestEmptyInput(t *testing.T) {
	for _, c := range Chips {
		for _, q := range []string{"", "x", " , "} {
			got := Apply(nil, Criteria{Chip: c, Query: q})
			require.NotNil(t, got)
			require.Empty(t, got)
		}
	}
}

func TestTerms(t *testing.T) {
	require.Equal(t, []string{"juve", "dazn"}, Terms("  Juve,, DAZN \t"))
	require.Empty(t, Terms(" ,  , "))
	require.Empty(t, Terms(""))
}

func TestTermsMatchAcrossFields(t *testing.T) {
	g := model.Game{
		TeamsDisplay: "Juventus vs Inter",
		Competition:  "Serie A",
		Channels:     model.StringList{"DAZN 1", "Sky Sport Uno"},
		Sources:      model.StringList{"LiveOnSat"},
	}
	require.True(t, MatchTerms(g, Terms("juve serie liveonsat")))
	require.True(t, MatchTerms(g, Terms("uno,dazn")))
	require.False(t, MatchTerms(g, Terms("juve bundesliga")))
	require.True(t, MatchTerms(g, nil))
}

func TestChipMatchesSubstringCaseInsensitive(t *testing.T) {
	g := model.Game{Channels: model.StringList{"sky sport arena"}}
	require.True(t, MatchChip(g, ChipSkySport))
	require.False(t, MatchChip(g, ChipDAZN))
	require.True(t, MatchChip(model.Game{}, ChipAll))
	require.False(t, MatchChip(model.Game{}, ChipDAZN))
}

func TestTieBreakByTeams(t *testing.T) {
	games := []model.Game{
		{TimeLocal: "2024-01-01 20:00", TeamsDisplay: "Zeta vs Y"},
		{TimeLocal: "2024-01-01 20:00", TeamsDisplay: "Alpha vs B"},
		{TimeLocal: "2024-01-01 19:00", TeamsDisplay: "Mid vs M"},
	}
	require.Equal(t, []string{"Mid vs M", "Alpha vs B", "Zeta vs Y"}, teams(Apply(games, Criteria{})))
}

var channelPool = []string{"DAZN 1", "dazn 2", "Sky Sport Uno", "SKY SPORT 24", "ORF 1", "Canal+", "SportDigital"}
var teamPool = []string{"Rapid vs Austria", "Sturm vs LASK", "Inter vs Milan", "PSG vs OM", "Bayern vs BVB"}

func randomGames(r *rand.Rand, n int) []model.Game {
	out := make([]model.Game, n)
	for i := range out {
		chans := model.StringList{}
		for k := r.Intn(3); k > 0; k-- {
			chans = append(chans, channelPool[r.Intn(len(channelPool))])
		}
		out[i] = model.Game{
			TeamsDisplay: teamPool[r.Intn(len(teamPool))],
			Competition:  []string{"Bundesliga", "Serie A", "Ligue 1"}[r.Intn(3)],
			TimeLocal:    []string{"2024-01-01 18:00", "2024-01-01 20:30", "2024-01-01 15:00"}[r.Intn(3)],
			Channels:     chans,
			Sources:      model.StringList{"LiveOnSat"},
		}
	}
	return out
}

func TestPropertiesOverRandomDatasets(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	queries := []string{"", "vs", "serie a", "dazn, inter", "bundesliga rapid", "nothing-matches"}
	for iter := 0; iter < 200; iter++ {
		games := randomGames(r, r.Intn(12))
		for _, c := range Chips {
			for _, q := range queries {
				crit := Criteria{Chip: c, Query: q}
				out := Apply(games, crit)

				// soundness and completeness
				terms := Terms(q)
				want := 0
				for _, g := range games {
					if MatchChip(g, c) && MatchTerms(g, terms) {
						want++
					}
				}
				require.Len(t, out, want)
				for _, g := range out {
					require.True(t, MatchChip(g, c))
					for _, term := range terms {
						require.True(t, strings.Contains(Haystack(g), term))
					}
				}

				// sort order
				for i := 1; i < len(out); i++ {
					a, b := out[i-1], out[i]
					require.True(t, a.TimeLocal <= b.TimeLocal)
					if a.TimeLocal == b.TimeLocal {
						require.True(t, a.TeamsDisplay <= b.TeamsDisplay)
					}
				}

				// idempotence
				require.Equal(t, out, Apply(out, crit))
			}
		}
	}
}

func TestExpressionFilter(t *testing.T) {
	games := []model.Game{
		{TeamsDisplay: "A vs B", Competition: "Serie A", TimeLocal: "2024-01-01 20:00", Channels: model.StringList{"DAZN", "ORF"}},
		{TeamsDisplay: "C vs D", Competition: "Bundesliga", TimeLocal: "2024-01-01 18:00", Channels: model.StringList{"ORF"}},
	}
	ev, err := NewEvaluator(Criteria{Expr: "channels >= 2 && highlight"})
	require.NoError(t, err)
	got := ev.Apply(games, Criteria{Chip: ChipAll, Expr: "channels >= 2 && highlight"})
	require.Equal(t, []string{"A vs B"}, teams(got))

	got = Apply(games, Criteria{Expr: "competition == 'Bundesliga'"})
	require.Equal(t, []string{"C vs D"}, teams(got))

	_, err = NewEvaluator(Criteria{Expr: "channels >="})
	require.Error(t, err)
}

func TestParseChip(t *testing.T) {
	for in, want := range map[string]Chip{"": ChipAll, "*": ChipAll, "dazn": ChipDAZN, "Sky Sport": ChipSkySport, "sky": ChipSkySport} {
		got, err := ParseChip(in)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
	_, err := ParseChip("eurosport")
	require.Error(t, err)
	require.Equal(t, ChipDAZN, ChipAll.Next())
	require.Equal(t, ChipAll, ChipSkySport.Next())
}
