package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"matchday/internal/filter"
	"matchday/internal/util"
	"matchday/internal/util/logx"
)

const searchDebounce = 200 * time.Millisecond

type searchTickMsg struct{ seq int }

func (m *Model) buildHelpItems() []helpItem {
	km := m.keymap
	return []helpItem{
		{group: "Filter", text: "All broadcasters", key: km.ChipAll},
		{group: "Filter", text: "DAZN only", key: km.ChipDAZN},
		{group: "Filter", text: "SKY SPORT only", key: km.ChipSky},
		{group: "Filter", text: "Cycle filter", key: km.CycleChip},
		{group: "Filter", text: "Search", key: km.Search},

		{group: "Date", text: "Edit date", key: km.EditDate},
		{group: "Date", text: "Previous day", key: km.PrevDay},
		{group: "Date", text: "Next day", key: km.NextDay},

		{group: "Navigation", text: "Scroll up", key: tea.Key{Type: tea.KeyUp}},
		{group: "Navigation", text: "Scroll down", key: tea.Key{Type: tea.KeyDown}},
		{group: "Navigation", text: "Page up", key: tea.Key{Type: tea.KeyPgUp}},
		{group: "Navigation", text: "Page down", key: tea.Key{Type: tea.KeyPgDown}},
		{group: "Navigation", text: "Go to top", key: km.Top},
		{group: "Navigation", text: "Go to bottom", key: km.Bottom},

		{group: "Views", text: "Toggle log pane", key: km.ToggleLog},
		{group: "Views", text: "Application logs", key: km.AppLogs},

		{group: "Control", text: "Reload from backend", key: km.Reload},
		{group: "Control", text: "Export visible list", key: km.Export},
		{group: "Control", text: "Copy visible list", key: km.Copy},
		{group: "Control", text: "Help", key: km.Help},
		{group: "Control", text: "Quit", key: km.Quit},

		{group: "AI", text: "Digest of visible games (OpenAI)", key: km.Digest},
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.termWidth, m.termHeight = msg.Width, msg.Height
		m.layout()
		m.redraw()
		m.syncLogPane()
		if m.modalActive {
			m.resizeModal()
		}
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.modalActive {
			return m, m.handleModalKey(msg)
		}
		switch m.mode {
		case inputSearch:
			return m, m.handleSearchKey(msg)
		case inputDate:
			return m, m.handleDateKey(msg)
		}
		return m, m.handleShortcut(msg)
	case searchTickMsg:
		if msg.seq != m.searchSeq {
			return m, nil
		}
		m.applyQuery(m.search.Value())
		return m, nil
	case gamesLoadedMsg:
		m.handleGamesLoaded(msg)
		return m, nil
	case logLoadedMsg:
		return m, m.handleLogLoaded(msg)
	case reloadDoneMsg:
		return m, m.handleReloadDone(msg)
	case refreshTickMsg:
		return m, m.handleRefreshTick()
	case serverLineMsg:
		m.sink.Append(msg.line.Text)
		m.syncLogPane()
		return m, m.waitForServerLine()
	case serverLogErrMsg:
		logx.Errorf("follow: %v", msg.err)
		return m, m.waitForServerLine()
	case serverLogClosedMsg:
		logx.Infof("follow: stopped")
		m.serverLines, m.serverErrs = nil, nil
		return m, nil
	case digestStartMsg:
		m.netBusy = true
		m.lastMsg = "📡 OpenAI: writing digest..."
		logx.Infof("openai: digest for %d games", len(m.visible))
		return m, nil
	case digestDoneMsg:
		m.handleDigestDone(msg)
		return m, nil
	case toastMsg:
		m.lastMsg = msg.text
		return m, nil
	case spinner.TickMsg:
		if !m.loading && !m.netBusy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleModalKey(msg tea.KeyMsg) tea.Cmd {
	switch m.modalKind {
	case modalAlert:
		// blocking: only an explicit dismiss closes it
		if msg.Type == tea.KeyEnter || msg.Type == tea.KeyEsc {
			m.modalActive = false
		}
		return nil
	case modalHelp:
		switch {
		case msg.Type == tea.KeyUp:
			if m.helpSel > 0 {
				m.helpSel--
			}
		case msg.Type == tea.KeyDown:
			if m.helpSel+1 < len(m.helpItems) {
				m.helpSel++
			}
		case msg.Type == tea.KeyEnter:
			m.modalActive = false
			if len(m.helpItems) > 0 {
				return keyCmd(m.helpItems[m.helpSel].key)
			}
		case msg.Type == tea.KeyEsc || msg.String() == "q" || msg.String() == "?":
			m.modalActive = false
		}
		return nil
	}
	if msg.Type == tea.KeyEsc || msg.Type == tea.KeyEnter {
		m.modalActive = false
		return nil
	}
	if msg.String() == "c" || msg.String() == "C" {
		body := m.modalBody
		return func() tea.Msg {
			if err := copyToClipboard(body); err != nil {
				return toastMsg{text: "copy failed: " + err.Error()}
			}
			return toastMsg{text: "copied to clipboard"}
		}
	}
	var cmd tea.Cmd
	m.modalVP, cmd = m.modalVP.Update(msg)
	return cmd
}

// handleSearchKey edits the query. Each edit re-arms a short debounce; only
// the last tick of a burst applies the query.
func (m *Model) handleSearchKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc, tea.KeyEnter:
		m.mode = inputNone
		m.search.Blur()
		m.searchSeq++
		m.applyQuery(m.search.Value())
		return nil
	}
	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if m.search.Value() == before {
		return cmd
	}
	m.searchSeq++
	seq := m.searchSeq
	return tea.Batch(cmd, m.after(searchDebounce, func() tea.Msg { return searchTickMsg{seq: seq} }))
}

func (m *Model) applyQuery(q string) {
	if q == m.state.Query {
		return
	}
	m.state.Query = q
	m.list.GotoTop()
	m.redraw()
}

func (m *Model) handleDateKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = inputNone
		m.dateInput.Blur()
		m.dateInput.SetValue(util.FormatDate(m.state.SelectedDate))
		return nil
	case tea.KeyEnter:
		m.mode = inputNone
		m.dateInput.Blur()
		return m.applyDate(m.dateInput.Value())
	}
	var cmd tea.Cmd
	m.dateInput, cmd = m.dateInput.Update(msg)
	return cmd
}

// applyDate selects a typed date and loads it without a server refresh.
// Invalid input leaves the state untouched.
func (m *Model) applyDate(v string) tea.Cmd {
	v = strings.TrimSpace(v)
	d, err := util.ParseDate(v)
	if !util.IsDateString(v) || err != nil {
		m.lastMsg = fmt.Sprintf("invalid date %q (want YYYY-MM-DD)", v)
		m.dateInput.SetValue(util.FormatDate(m.state.SelectedDate))
		return nil
	}
	return m.selectDate(d)
}

func (m *Model) selectDate(d time.Time) tea.Cmd {
	m.state.SelectedDate = d
	date := util.FormatDate(d)
	m.dateInput.SetValue(date)
	m.lastMsg = "date " + date
	return m.loadGames(date, false)
}

func (m *Model) setChip(c filter.Chip) {
	if c == m.state.Chip {
		return
	}
	m.state.Chip = c
	m.list.GotoTop()
	m.redraw()
}

func (m *Model) handleShortcut(msg tea.KeyMsg) tea.Cmd {
	km := m.keymap
	switch {
	case keyMatches(msg, km.Quit):
		return tea.Quit
	case keyMatches(msg, km.ChipAll):
		m.setChip(filter.ChipAll)
	case keyMatches(msg, km.ChipDAZN):
		m.setChip(filter.ChipDAZN)
	case keyMatches(msg, km.ChipSky):
		m.setChip(filter.ChipSkySport)
	case keyMatches(msg, km.CycleChip):
		m.setChip(m.state.Chip.Next())
	case keyMatches(msg, km.Search):
		m.mode = inputSearch
		m.search.Focus()
	case keyMatches(msg, km.EditDate):
		m.mode = inputDate
		m.dateInput.Focus()
		m.dateInput.CursorEnd()
	case keyMatches(msg, km.PrevDay):
		return m.selectDate(util.AddDays(m.state.SelectedDate, -1))
	case keyMatches(msg, km.NextDay):
		return m.selectDate(util.AddDays(m.state.SelectedDate, 1))
	case keyMatches(msg, km.Reload):
		if m.reload.disabled {
			m.lastMsg = "reload already running"
			return nil
		}
		return m.beginReload("manual")
	case keyMatches(msg, km.ToggleLog):
		m.showLog = !m.showLog
		m.layout()
		m.syncLogPane()
	case keyMatches(msg, km.AppLogs):
		m.openAppLogsModal()
	case keyMatches(msg, km.Export):
		return m.exportVisible()
	case keyMatches(msg, km.Copy):
		return m.copyVisible()
	case keyMatches(msg, km.Digest):
		return m.startDigest()
	case keyMatches(msg, km.Help):
		m.openHelpModal()
	case keyMatches(msg, km.Top):
		m.list.GotoTop()
	case keyMatches(msg, km.Bottom):
		m.list.GotoBottom()
	default:
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return cmd
	}
	return nil
}
