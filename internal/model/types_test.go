package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDatasetDecodeTolerant(t *testing.T) {
	body := `{
		"date": "2024-01-01",
		"counters": {"LiveOnSat": 3, "SportEventz": "2"},
		"games": [
			{"teams_display": "A vs B", "competition": "Serie A", "time_local": "2024-01-01 20:00", "channels": ["DAZN", 4, null], "sources": "LiveOnSat"},
			null,
			"junk",
			{"teams_display": 12, "time_local": "2024-01-01 18:00"}
		]
	}`
	var d Dataset
	require.NoError(t, json.Unmarshal([]byte(body), &d))
	require.Len(t, d.Games, 2)

	g := d.Games[0]
	require.Equal(t, StringList{"DAZN"}, g.Channels, "channels not coerced")
	require.NotNil(t, g.Sources)
	require.Empty(t, g.Sources)
	require.Equal(t, "12", d.Games[1].TeamsDisplay)
	require.NotNil(t, d.Games[1].Channels)

	los, se, total := d.Totals()
	require.Equal(t, []int{3, 2, 2}, []int{los, se, total})
}

func TestDatasetTotalOverridesLength(t *testing.T) {
	var d Dataset
	require.NoError(t, json.Unmarshal([]byte(`{"games": {}, "counters": {"Total": 9}}`), &d))
	require.Empty(t, d.Games, "non-array games should decode empty")
	_, _, total := d.Totals()
	require.Equal(t, 9, total)

	var n *Dataset
	a, b, c := n.Totals()
	require.Zero(t, a+b+c, "nil dataset totals should be zero")
}

func TestDatasetNullTotalFallsBack(t *testing.T) {
	var d Dataset
	require.NoError(t, json.Unmarshal([]byte(`{"games": [{}], "counters": {"Total": null}}`), &d))
	_, _, total := d.Totals()
	require.Equal(t, 1, total)
}

func TestDatasetRejectsNonObject(t *testing.T) {
	var d Dataset
	require.Error(t, json.Unmarshal([]byte(`[1,2]`), &d))
}

func TestDisplayTime(t *testing.T) {
	cases := []struct {
		g    Game
		want string
	}{
		{Game{TimeDisplay: "21:45", TimeLocal: "2024-01-01 20:00"}, "21:45"},
		{Game{TimeLocal: "2024-01-01T20:00"}, "20:00"},
		{Game{TimeLocal: "2024-01-01 20:00:00"}, "20:00"},
		{Game{TimeLocal: "2024-01-01 2"}, "2"},
		{Game{TimeLocal: "20:00"}, ""},
		{Game{}, ""},
	}
	for _, c := range cases {
		require.Equal(t, c.want, DisplayTime(c.g), "DisplayTime(%+v)", c.g)
	}
}

func TestIsHighlightChannel(t *testing.T) {
	for _, name := range []string{"DAZN 1", "Sky Sport Bundesliga", "canal + action", "SportDigital Fussball", "Canal Plus Action"} {
		require.True(t, IsHighlightChannel(name), "%q should be highlighted", name)
	}
	for _, name := range []string{"", "ORF 1", "Sky Cinema", "Canal+"} {
		require.False(t, IsHighlightChannel(name), "%q should not be highlighted", name)
	}
}

func TestCoerceList(t *testing.T) {
	got := CoerceList(nil)
	require.NotNil(t, got)
	require.Empty(t, got)
	require.Empty(t, CoerceList("DAZN"))
	require.Equal(t, []string{"a", "b"}, CoerceList([]any{"a", 1, "b"}))
}

func TestLineRing(t *testing.T) {
	r := NewLineRing(3)
	for _, l := range []string{"a", "b", "c", "d"} {
		r.Push(l)
	}
	lines, total, dropped := r.Snapshot()
	require.Equal(t, []string{"b", "c", "d"}, lines)
	require.Equal(t, uint64(4), total)
	require.Equal(t, uint64(1), dropped)

	r.Replace("x\ny\n")
	require.Equal(t, "x\ny", r.String())
	r.Replace("")
	require.Zero(t, r.Len(), "empty replace should clear")
}
