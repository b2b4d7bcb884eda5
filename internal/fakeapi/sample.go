package fakeapi

import (
	"context"
	"fmt"
	"hash/fnv"
	"math/rand"
	"sort"

	"matchday/internal/model"
)

// Scraper produces the schedule for one YYYY-MM-DD date.
type Scraper func(ctx context.Context, date string) (*model.Dataset, error)

var (
	sampleTeams = []string{
		"Rapid Wien", "Austria Wien", "Sturm Graz", "Red Bull Salzburg", "LASK", "Wolfsberger AC",
		"Bayern München", "Borussia Dortmund", "RB Leipzig", "Bayer Leverkusen",
		"Inter", "Milan", "Juventus", "Napoli", "Real Madrid", "Barcelona", "Arsenal", "Liverpool",
	}
	sampleCompetitions = []string{"Bundesliga", "2. Bundesliga", "Serie A", "LaLiga", "Premier League", "Champions League", "ÖFB Cup"}
	sampleChannels     = []string{"DAZN", "SKY SPORT AUSTRIA 1", "Sky Sport Bundesliga", "ORF 1", "ServusTV", "Canal+ Action", "Sportdigital", "beIN Sports"}
	sampleSources      = []string{"LiveOnSat", "SportEventz"}
)

// SampleSchedule is a deterministic fake scrape: the same date always yields the same games.
func SampleSchedule(_ context.Context, date string) (*model.Dataset, error) {
	h := fnv.New64a()
	_, _ = h.Write([]byte(date))
	rng := rand.New(rand.NewSource(int64(h.Sum64())))

	n := 4 + rng.Intn(9)
	games := make([]model.Game, 0, n)
	var los, se int
	for i := 0; i < n; i++ {
		home := rng.Intn(len(sampleTeams))
		away := (home + 1 + rng.Intn(len(sampleTeams)-1)) % len(sampleTeams)
		hour, minute := 12+rng.Intn(10), 15*rng.Intn(4)

		g := model.Game{
			TeamsDisplay: sampleTeams[home] + " vs " + sampleTeams[away],
			Competition:  sampleCompetitions[rng.Intn(len(sampleCompetitions))],
			TimeLocal:    fmt.Sprintf("%sT%02d:%02d", date, hour, minute),
			Channels:     pick(rng, sampleChannels, rng.Intn(4)),
			Sources:      pick(rng, sampleSources, 1+rng.Intn(2)),
		}
		for _, s := range g.Sources {
			switch s {
			case "LiveOnSat":
				los++
			case "SportEventz":
				se++
			}
		}
		games = append(games, g)
	}
	total := len(games)
	return &model.Dataset{
		Date:     date,
		Games:    games,
		Counters: model.Counters{LiveOnSat: los, SportEventz: se, Total: &total},
	}, nil
}

// pick returns k distinct items from src in src order.
func pick(rng *rand.Rand, src []string, k int) model.StringList {
	idx := rng.Perm(len(src))[:k]
	sort.Ints(idx)
	out := make(model.StringList, 0, k)
	for _, i := range idx {
		out = append(out, src[i])
	}
	return out
}
