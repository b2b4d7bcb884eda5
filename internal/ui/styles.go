package ui

import "github.com/charmbracelet/lipgloss"

type Styles struct {
	Base        lipgloss.Style
	Header      lipgloss.Style
	Counter     lipgloss.Style
	Status      lipgloss.Style
	Help        lipgloss.Style
	ChipActive  lipgloss.Style
	ChipIdle    lipgloss.Style
	Button      lipgloss.Style
	ButtonBusy  lipgloss.Style
	Time        lipgloss.Style
	Teams       lipgloss.Style
	Competition lipgloss.Style
	Source      lipgloss.Style
	Channel     lipgloss.Style
	ChannelHot  lipgloss.Style
	Empty       lipgloss.Style
	LogPane     lipgloss.Style
	LogWarn     lipgloss.Style
	LogError    lipgloss.Style
	PopupBox    lipgloss.Style
	PopupTitle  lipgloss.Style
	AlertBox    lipgloss.Style
}

func NewStyles(dark bool) Styles {
	s := Styles{}
	if dark {
		s.Base = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
		s.Header = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
		s.Counter = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
		s.Status = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
		s.Help = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
		s.ChipActive = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("81")).Padding(0, 1)
		s.ChipIdle = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Padding(0, 1)
		s.Button = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("42")).Padding(0, 1)
		s.ButtonBusy = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Background(lipgloss.Color("238")).Padding(0, 1)
		s.Time = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("220"))
		s.Teams = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
		s.Competition = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
		s.Source = lipgloss.NewStyle().Foreground(lipgloss.Color("109"))
		s.Channel = lipgloss.NewStyle().Foreground(lipgloss.Color("250")).Background(lipgloss.Color("236"))
		s.ChannelHot = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("214"))
		s.Empty = lipgloss.NewStyle().Foreground(lipgloss.Color("247")).Padding(1, 2)
		s.LogPane = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
		s.LogWarn = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
		s.LogError = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203"))
		s.PopupBox = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("60")).Padding(1, 2)
		s.PopupTitle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
		s.AlertBox = lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).BorderForeground(lipgloss.Color("196")).Padding(1, 2)
	} else {
		s.Base = lipgloss.NewStyle()
		s.Header = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("27"))
		s.Counter = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
		s.Status = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
		s.Help = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
		s.ChipActive = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("27")).Padding(0, 1)
		s.ChipIdle = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Padding(0, 1)
		s.Button = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("28")).Padding(0, 1)
		s.ButtonBusy = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Background(lipgloss.Color("252")).Padding(0, 1)
		s.Time = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("130"))
		s.Teams = lipgloss.NewStyle().Foreground(lipgloss.Color("0"))
		s.Competition = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
		s.Source = lipgloss.NewStyle().Foreground(lipgloss.Color("24"))
		s.Channel = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("254"))
		s.ChannelHot = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("214"))
		s.Empty = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Padding(1, 2)
		s.LogPane = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
		s.LogWarn = lipgloss.NewStyle().Foreground(lipgloss.Color("130"))
		s.LogError = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
		s.PopupBox = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("12")).Padding(1, 2)
		s.PopupTitle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("27"))
		s.AlertBox = lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).BorderForeground(lipgloss.Color("9")).Padding(1, 2)
	}
	return s
}

// PlainStyles renders without colour or padding, for --print and clipboard text.
func PlainStyles() Styles {
	p := lipgloss.NewStyle()
	return Styles{
		Base: p, Header: p, Counter: p, Status: p, Help: p,
		ChipActive: p, ChipIdle: p, Button: p, ButtonBusy: p,
		Time: p, Teams: p, Competition: p, Source: p,
		Channel: p, ChannelHot: p, Empty: p,
		LogPane: p, LogWarn: p, LogError: p,
		PopupBox: p, PopupTitle: p, AlertBox: p,
	}
}
