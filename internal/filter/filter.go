package filter

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/Knetic/govaluate"

	"matchday/internal/model"
)

// Chip is a broadcaster filter control.
type Chip string

const (
	ChipAll      Chip = "*"
	ChipDAZN     Chip = "DAZN"
	ChipSkySport Chip = "SKY SPORT"
)

// Chips lists the chips in display order.
var Chips = []Chip{ChipAll, ChipDAZN, ChipSkySport}

// ParseChip accepts a chip id case-insensitively; "" and "all" mean ChipAll.
func ParseChip(s string) (Chip, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "*", "ALL":
		return ChipAll, nil
	case "DAZN":
		return ChipDAZN, nil
	case "SKY SPORT", "SKY", "SKYSPORT", "SKY_SPORT":
		return ChipSkySport, nil
	}
	return ChipAll, fmt.Errorf("unknown filter %q (want *, DAZN or SKY SPORT)", s)
}

// Next cycles through Chips.
func (c Chip) Next() Chip {
	for i, ch := range Chips {
		if ch == c {
			return Chips[(i+1)%len(Chips)]
		}
	}
	return ChipAll
}

func (c Chip) Label() string {
	if c == ChipAll || c == "" {
		return "All"
	}
	return string(c)
}

type Criteria struct {
	Chip  Chip
	Query string // whitespace/comma separated terms, all must match
	Expr  string // govaluate expression over game fields
}

type Evaluator struct {
	expr *govaluate.EvaluableExpression
}

func NewEvaluator(c Criteria) (*Evaluator, error) {
	var expr *govaluate.EvaluableExpression
	var err error
	if strings.TrimSpace(c.Expr) != "" {
		expr, err = govaluate.NewEvaluableExpression(c.Expr)
		if err != nil {
			return nil, err
		}
	}
	return &Evaluator{expr: expr}, nil
}

var reTermSep = regexp.MustCompile(`[,\s]+`)

// Terms normalizes a free-text query into lowercase search terms.
func Terms(query string) []string {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	parts := reTermSep.Split(q, -1)
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// MatchChip reports whether g passes the broadcaster chip.
func MatchChip(g model.Game, c Chip) bool {
	if c != ChipDAZN && c != ChipSkySport {
		return true
	}
	needle := string(c)
	for _, ch := range g.Channels {
		if strings.Contains(strings.ToUpper(ch), needle) {
			return true
		}
	}
	return false
}

// Haystack is the lowercased searchable text of a game.
func Haystack(g model.Game) string {
	parts := make([]string, 0, 2+len(g.Channels)+len(g.Sources))
	parts = append(parts, g.TeamsDisplay, g.Competition)
	parts = append(parts, g.Channels...)
	parts = append(parts, g.Sources...)
	return strings.ToLower(strings.Join(parts, " | "))
}

// MatchTerms reports whether every term occurs in the game's haystack. No terms match everything.
func MatchTerms(g model.Game, terms []string) bool {
	if len(terms) == 0 {
		return true
	}
	hay := Haystack(g)
	for _, t := range terms {
		if !strings.Contains(hay, t) {
			return false
		}
	}
	return true
}

func (e *Evaluator) Match(g model.Game, c Criteria, terms []string) bool {
	if !MatchChip(g, c.Chip) {
		return false
	}
	if !MatchTerms(g, terms) {
		return false
	}
	if e != nil && e.expr != nil {
		params := map[string]any{
			"teams":       g.TeamsDisplay,
			"competition": g.Competition,
			"time":        g.TimeLocal,
			"channels":    float64(len(g.Channels)),
			"sources":     float64(len(g.Sources)),
			"highlight":   g.HasHighlight(),
		}
		result, err := e.expr.Evaluate(params)
		if err != nil {
			return false
		}
		b, ok := result.(bool)
		if !ok || !b {
			return false
		}
	}
	return true
}

// Apply filters games by c and sorts them by (time_local, teams_display).
// The input slice is not modified.
func (e *Evaluator) Apply(games []model.Game, c Criteria) []model.Game {
	terms := Terms(c.Query)
	out := make([]model.Game, 0, len(games))
	for _, g := range games {
		if e.Match(g, c, terms) {
			out = append(out, g)
		}
	}
	Sort(out)
	return out
}

// Apply builds an evaluator for c and applies it. An expression that does not
// compile is ignored; callers validate expressions up front with NewEvaluator.
func Apply(games []model.Game, c Criteria) []model.Game {
	var e *Evaluator
	if strings.TrimSpace(c.Expr) != "" {
		if ev, err := NewEvaluator(c); err == nil {
			e = ev
		}
	}
	return e.Apply(games, c)
}

// Sort orders games in place by time_local then teams_display.
func Sort(games []model.Game) {
	sort.SliceStable(games, func(i, j int) bool {
		a, b := games[i], games[j]
		if a.TimeLocal != b.TimeLocal {
			return a.TimeLocal < b.TimeLocal
		}
		return a.TeamsDisplay < b.TeamsDisplay
	})
}
