package model

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Game is one broadcast listing as served by /api/games.
type Game struct {
	TeamsDisplay string     `json:"teams_display"`
	Competition  string     `json:"competition"`
	TimeLocal    string     `json:"time_local"`
	TimeDisplay  string     `json:"time_display,omitempty"`
	Channels     StringList `json:"channels"`
	Sources      StringList `json:"sources"`
}

// Counters are the per-source totals reported by the backend.
type Counters struct {
	LiveOnSat   int  `json:"LiveOnSat"`
	SportEventz int  `json:"SportEventz"`
	Total       *int `json:"Total,omitempty"`
}

// Meta is the backend's bookkeeping for the scrape that produced a dataset.
type Meta struct {
	Elapsed float64 `json:"elapsed"`
	Status  string  `json:"status"`
	Stderr  string  `json:"stderr"`
}

// Dataset is the result of one fetch. It is replaced wholesale, never merged.
type Dataset struct {
	Date        string   `json:"date,omitempty"`
	GeneratedAt string   `json:"generated_at,omitempty"`
	Timezone    string   `json:"timezone,omitempty"`
	Games       []Game   `json:"games"`
	Counters    Counters `json:"counters"`
	Meta        *Meta    `json:"_meta,omitempty"`
}

// Totals returns the display counters, falling back to len(Games) for a missing Total.
func (d *Dataset) Totals() (los, se, total int) {
	if d == nil {
		return 0, 0, 0
	}
	total = len(d.Games)
	if d.Counters.Total != nil {
		total = *d.Counters.Total
	}
	return d.Counters.LiveOnSat, d.Counters.SportEventz, total
}

// UnmarshalJSON tolerates missing or mistyped fields: games that are not an
// array become empty and non-object entries are skipped.
func (d *Dataset) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*d = Dataset{
		Date:        looseString(raw["date"]),
		GeneratedAt: looseString(raw["generated_at"]),
		Timezone:    looseString(raw["timezone"]),
		Games:       []Game{},
	}
	var items []json.RawMessage
	if json.Unmarshal(raw["games"], &items) == nil {
		for _, it := range items {
			if !isObject(it) {
				continue
			}
			var g Game
			if err := json.Unmarshal(it, &g); err == nil {
				d.Games = append(d.Games, g)
			}
		}
	}
	var counters map[string]json.RawMessage
	if json.Unmarshal(raw["counters"], &counters) == nil {
		d.Counters.LiveOnSat, _ = looseInt(counters["LiveOnSat"])
		d.Counters.SportEventz, _ = looseInt(counters["SportEventz"])
		if n, ok := looseInt(counters["Total"]); ok {
			d.Counters.Total = &n
		}
	}
	if isObject(raw["_meta"]) {
		var m Meta
		if json.Unmarshal(raw["_meta"], &m) == nil {
			d.Meta = &m
		}
	}
	return nil
}

func (g *Game) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*g = Game{
		TeamsDisplay: looseString(raw["teams_display"]),
		Competition:  looseString(raw["competition"]),
		TimeLocal:    looseString(raw["time_local"]),
		TimeDisplay:  looseString(raw["time_display"]),
	}
	_ = g.Channels.UnmarshalJSON(raw["channels"])
	_ = g.Sources.UnmarshalJSON(raw["sources"])
	return nil
}

// StringList decodes any JSON value into a list of strings. Values that are
// not arrays decode to an empty list; non-string items are dropped.
type StringList []string

func (l *StringList) UnmarshalJSON(b []byte) error {
	*l = StringList{}
	var items []json.RawMessage
	if len(b) == 0 || json.Unmarshal(b, &items) != nil {
		return nil
	}
	for _, it := range items {
		var s string
		if string(bytes.TrimSpace(it)) != "null" && json.Unmarshal(it, &s) == nil {
			*l = append(*l, s)
		}
	}
	return nil
}

// CoerceList applies the StringList rule to an already decoded value.
func CoerceList(v any) []string {
	switch t := v.(type) {
	case []string:
		return t
	case StringList:
		return t
	case []any:
		out := make([]string, 0, len(t))
		for _, it := range t {
			if s, ok := it.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return []string{}
}

func looseString(b json.RawMessage) string {
	if len(b) == 0 {
		return ""
	}
	var s string
	if json.Unmarshal(b, &s) == nil {
		return s
	}
	var n json.Number
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	if dec.Decode(&n) == nil {
		return n.String()
	}
	return ""
}

func looseInt(b json.RawMessage) (int, bool) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		return 0, false
	}
	var f float64
	if json.Unmarshal(b, &f) == nil {
		return int(f), true
	}
	var s string
	if json.Unmarshal(b, &s) == nil {
		if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return n, true
		}
	}
	return 0, false
}

func isObject(b json.RawMessage) bool {
	b = bytes.TrimSpace(b)
	return len(b) > 0 && b[0] == '{'
}
