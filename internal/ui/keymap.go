package ui

import tea "github.com/charmbracelet/bubbletea"

type KeyMap struct {
	ChipAll   tea.Key
	ChipDAZN  tea.Key
	ChipSky   tea.Key
	CycleChip tea.Key
	Search    tea.Key
	EditDate  tea.Key
	PrevDay   tea.Key
	NextDay   tea.Key
	Reload    tea.Key
	ToggleLog tea.Key
	AppLogs   tea.Key
	Export    tea.Key
	Copy      tea.Key
	Digest    tea.Key
	Help      tea.Key
	Quit      tea.Key
	Top       tea.Key
	Bottom    tea.Key
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		ChipAll:   tea.Key{Type: tea.KeyRunes, Runes: []rune{'1'}},
		ChipDAZN:  tea.Key{Type: tea.KeyRunes, Runes: []rune{'2'}},
		ChipSky:   tea.Key{Type: tea.KeyRunes, Runes: []rune{'3'}},
		CycleChip: tea.Key{Type: tea.KeyRunes, Runes: []rune{'c'}},
		Search:    tea.Key{Type: tea.KeyRunes, Runes: []rune{'/'}},
		EditDate:  tea.Key{Type: tea.KeyRunes, Runes: []rune{'d'}},
		PrevDay:   tea.Key{Type: tea.KeyRunes, Runes: []rune{'<'}},
		NextDay:   tea.Key{Type: tea.KeyRunes, Runes: []rune{'>'}},
		Reload:    tea.Key{Type: tea.KeyRunes, Runes: []rune{'r'}},
		ToggleLog: tea.Key{Type: tea.KeyRunes, Runes: []rune{'L'}},
		AppLogs:   tea.Key{Type: tea.KeyRunes, Runes: []rune{'A'}},
		Export:    tea.Key{Type: tea.KeyRunes, Runes: []rune{'e'}},
		Copy:      tea.Key{Type: tea.KeyRunes, Runes: []rune{'y'}},
		Digest:    tea.Key{Type: tea.KeyRunes, Runes: []rune{'i'}},
		Help:      tea.Key{Type: tea.KeyRunes, Runes: []rune{'?'}},
		Quit:      tea.Key{Type: tea.KeyRunes, Runes: []rune{'q'}},
		Top:       tea.Key{Type: tea.KeyRunes, Runes: []rune{'g'}},
		Bottom:    tea.Key{Type: tea.KeyRunes, Runes: []rune{'G'}},
	}
}

func keyMatches(msg tea.KeyMsg, k tea.Key) bool {
	if k.Type != tea.KeyRunes {
		return msg.Type == k.Type
	}
	if len(k.Runes) > 0 {
		return msg.String() == string(k.Runes)
	}
	return false
}
