package model

import "strings"

// HighlightChannels are the broadcaster name fragments whose badges are emphasized.
var HighlightChannels = []string{"DAZN", "SKY SPORT", "CANAL PLUS ACTION", "CANAL + ACTION", "SPORTDIGITAL"}

// IsHighlightChannel reports whether name contains one of HighlightChannels, ignoring case.
func IsHighlightChannel(name string) bool {
	u := strings.ToUpper(name)
	for _, frag := range HighlightChannels {
		if strings.Contains(u, frag) {
			return true
		}
	}
	return false
}

// DisplayTime returns time_display when set, else the HH:MM part of time_local.
func DisplayTime(g Game) string {
	if g.TimeDisplay != "" {
		return g.TimeDisplay
	}
	if len(g.TimeLocal) >= 16 {
		return g.TimeLocal[11:16]
	}
	if len(g.TimeLocal) > 11 {
		return g.TimeLocal[11:]
	}
	return ""
}

// HasHighlight reports whether any of the game's channels is a highlight channel.
func (g Game) HasHighlight() bool {
	for _, c := range g.Channels {
		if IsHighlightChannel(c) {
			return true
		}
	}
	return false
}

// SourceLabel joins the provenance tags the way the list shows them.
func (g Game) SourceLabel() string {
	return strings.Join(g.Sources, " + ")
}
