package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"

	"matchday/internal/filter"
	"matchday/internal/model"
	"matchday/internal/util"
	"matchday/internal/util/logx"
)

// EmptyPlaceholder is painted instead of rows when nothing passes the filters.
const EmptyPlaceholder = "No games for the current filters."

type badge struct {
	text      string
	highlight bool
}

type row struct {
	time        string
	teams       string
	competition string
	source      string
	channels    []badge
}

func buildRows(games []model.Game) []row {
	rows := make([]row, 0, len(games))
	for _, g := range games {
		r := row{
			time:        model.DisplayTime(g),
			teams:       g.TeamsDisplay,
			competition: g.Competition,
			source:      g.SourceLabel(),
		}
		for _, c := range g.Channels {
			r.channels = append(r.channels, badge{text: c, highlight: model.IsHighlightChannel(c)})
		}
		rows = append(rows, r)
	}
	return rows
}

// paintList renders the complete list. Nothing from a previous paint survives.
func paintList(rows []row, width int, st Styles) string {
	if len(rows) == 0 {
		return st.Empty.Render(EmptyPlaceholder)
	}
	if width < 40 {
		width = 40
	}
	teamsW := clampInt(width*34/100, 16, 48)
	compW := clampInt(width*22/100, 10, 32)
	const timeW = 5
	var b strings.Builder
	for i, r := range rows {
		if i > 0 {
			b.WriteByte('\n')
		}
		line := st.Time.Render(fit(r.time, timeW)) + "  " +
			st.Teams.Render(fit(r.teams, teamsW)) + "  " +
			st.Competition.Render(fit(r.competition, compW))
		used := timeW + 2 + teamsW + 2 + compW
		if r.source != "" {
			src := "[" + r.source + "]"
			if used+1+cellWidth(src) <= width {
				line += " " + st.Source.Render(src)
				used += 1 + cellWidth(src)
			}
		}
		for j, c := range r.channels {
			w := cellWidth(c.text) + 2
			more := len(r.channels) - j - 1
			reserve := 0
			if more > 0 {
				reserve = len(fmt.Sprintf(" +%d", more))
			}
			if used+1+w+reserve > width {
				line += st.Help.Render(fmt.Sprintf(" +%d", len(r.channels)-j))
				break
			}
			style := st.Channel
			if c.highlight {
				style = st.ChannelHot
			}
			line += " " + style.Render(" "+c.text+" ")
			used += 1 + w
		}
		b.WriteString(line)
	}
	return b.String()
}

func (m *Model) View() string {
	v := m.renderMain()
	if m.modalActive {
		dimmed := lipgloss.NewStyle().Faint(true).Render(v)
		v = overlay(dimmed, m.renderModal())
	}
	return v
}

func (m *Model) renderMain() string {
	parts := []string{m.renderHeader(), m.renderControls(), m.list.View()}
	if m.showLog {
		rule := m.styles.Status.Render(strings.Repeat("─", max(m.width(), 10)))
		parts = append(parts, rule, m.styles.LogPane.Render(m.logPane.View()))
	}
	parts = append(parts, m.renderStatus())
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m *Model) renderHeader() string {
	los, se, total := m.state.Dataset.Totals()
	title := m.styles.Header.Render("matchday")
	date := m.styles.Base.Render(util.FormatDate(m.state.SelectedDate))
	counters := m.styles.Counter.Render(fmt.Sprintf("LiveOnSat %d · SportEventz %d · Total %d", los, se, total))
	btn := m.styles.Button.Render(m.reload.label)
	if m.reload.disabled {
		btn = m.styles.ButtonBusy.Render(m.spin.View() + " " + m.reload.label)
	}
	return strings.Join([]string{title, date, counters, btn}, "  ")
}

func (m *Model) renderControls() string {
	chips := make([]string, 0, len(filter.Chips))
	for _, c := range filter.Chips {
		st := m.styles.ChipIdle
		if c == m.state.Chip {
			st = m.styles.ChipActive
		}
		chips = append(chips, st.Render(c.Label()))
	}
	search := m.search.View()
	if m.mode != inputSearch && m.search.Value() == "" {
		search = m.styles.Help.Render("/ search")
	}
	date := m.styles.Help.Render("d date: ") + m.dateInput.View()
	return strings.Join(chips, " ") + "   " + search + "   " + date
}

func (m *Model) renderStatus() string {
	hint := "[?]=help [r]=reload [1/2/3]=filter [/]=search [d]=date [q]=quit"
	switch m.mode {
	case inputSearch:
		hint = "[enter/esc]=done"
	case inputDate:
		hint = "[enter]=apply [esc]=cancel"
	}
	n := len(m.visible)
	all := 0
	if m.state.Dataset != nil {
		all = len(m.state.Dataset.Games)
	}
	status := fmt.Sprintf("%d/%d games | %s | %s", n, all, hint, m.lastMsg)
	if m.netBusy {
		status = m.spin.View() + " " + status
	}
	return m.styles.Status.Render(truncate(status, max(m.width(), 20)))
}

func (m *Model) renderHelp() string {
	if len(m.helpItems) == 0 {
		m.helpItems = m.buildHelpItems()
	}
	m.helpSel = clampInt(m.helpSel, 0, len(m.helpItems)-1)
	lines := []string{"Shortcuts:"}
	currentGroup := ""
	lineIndexOfSel := 0
	for i, it := range m.helpItems {
		if it.group != currentGroup {
			currentGroup = it.group
			lines = append(lines, "", currentGroup+":")
		}
		prefix := "  "
		if i == m.helpSel {
			prefix = "> "
			lineIndexOfSel = len(lines)
		}
		lines = append(lines, fmt.Sprintf("%s[%s] %s", prefix, keyLabel(it.key), it.text))
	}
	// keep the selection visible
	if m.modalVP.Height > 0 {
		top := m.modalVP.YOffset
		bottom := top + m.modalVP.Height - 1
		if lineIndexOfSel <= top {
			m.modalVP.YOffset = max(lineIndexOfSel-1, 0)
		} else if lineIndexOfSel >= bottom {
			m.modalVP.YOffset = max(lineIndexOfSel-m.modalVP.Height+2, 0)
		}
	}
	return m.styles.Help.Render(strings.Join(lines, "\n"))
}

func (m *Model) openHelpModal() {
	m.modalActive = true
	m.modalKind = modalHelp
	m.modalTitle = "Help"
	m.helpItems = m.buildHelpItems()
	m.helpSel = 0
	m.modalBody = m.renderHelp()
	m.resizeModal()
}

func (m *Model) openAppLogsModal() {
	m.modalActive = true
	m.modalKind = modalLogs
	m.modalTitle = "Application Logs"
	m.modalBody = logx.Dump()
	m.resizeModal()
	m.modalVP.GotoBottom()
}

// openAlert raises the blocking alert. Keys other than enter/esc are ignored until it is dismissed.
func (m *Model) openAlert(text string) {
	m.alerts++
	m.modalActive = true
	m.modalKind = modalAlert
	m.modalTitle = "Error"
	m.modalBody = text
	m.resizeModal()
}

func (m *Model) openDigestModal(body string) {
	m.modalActive = true
	m.modalKind = modalDigest
	m.modalTitle = "Digest " + util.FormatDate(m.state.SelectedDate)
	m.modalBody = body
	m.resizeModal()
}

func (m *Model) resizeModal() {
	w := max(m.width()-6, 20)
	h := max(m.height()-6, 5)
	if m.modalKind == modalAlert {
		w = min(w, 60)
		h = 7
	}
	m.modalVP = viewport.New(w-4, h-4)
	if m.modalKind == modalHelp {
		m.modalVP.SetContent(m.renderHelp())
		return
	}
	m.modalVP.SetContent(m.modalBody)
}

func (m *Model) renderModal() string {
	var content string
	box := m.styles.PopupBox
	boxW := max(m.width()-6, 20)
	switch m.modalKind {
	case modalHelp:
		m.modalVP.SetContent(m.renderHelp())
		content = m.modalVP.View() + "\n[esc]=close  [enter]=run"
	case modalAlert:
		box = m.styles.AlertBox
		boxW = min(boxW, 60)
		content = m.modalBody + "\n\n[enter]=OK"
	case modalLogs:
		header := []string{
			"Status:",
			fmt.Sprintf("api: %s  date: %s  filter: %s", util.Redact(m.cfg.APIBaseURL), util.FormatDate(m.state.SelectedDate), m.state.Chip.Label()),
			fmt.Sprintf("visible: %d  draws: %d  alerts: %d  log lines: %d", len(m.visible), m.draws, m.alerts, m.sink.Len()),
		}
		content = m.styles.Help.Render(strings.Join(header, "\n")) + "\n" + m.modalVP.View() + "\n[esc/enter]=close  [c]=copy"
	case modalDigest:
		content = m.modalVP.View() + "\n[esc/enter]=close  [c]=copy"
	default:
		content = m.modalVP.View() + "\n[esc/enter]=close"
	}
	title := m.styles.PopupTitle.Render(m.modalTitle)
	body := box.Width(boxW).Render(title + "\n" + content)
	return lipgloss.Place(m.width(), m.height(), lipgloss.Center, lipgloss.Center, body)
}

func (m *Model) width() int {
	if m.termWidth > 0 {
		return m.termWidth
	}
	return defaultWidth
}

func (m *Model) height() int {
	if m.termHeight > 0 {
		return m.termHeight
	}
	return defaultHeight
}
