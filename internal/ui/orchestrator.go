package ui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"matchday/internal/api"
	"matchday/internal/model"
	"matchday/internal/util"
	"matchday/internal/util/logx"
)

const reloadAlert = "Reload error. See the log."

type gamesLoadedMsg struct {
	date       string
	ds         *model.Dataset
	err        error
	fromReload bool
}

type logLoadedMsg struct {
	text       string
	err        error
	fromReload bool
}

type reloadDoneMsg struct {
	date string
	res  api.ReloadResult
	err  error
}

type refreshTickMsg struct{}

// resolveDate is the date a request should use right now: the editor value
// when it holds a date, else the selected date.
func (m *Model) resolveDate() string {
	return util.ResolveDate(m.dateInput.Value(), m.state.SelectedDate)
}

// loadGames fetches the games for date, or for resolveDate() when date is empty.
func (m *Model) loadGames(date string, fromReload bool) tea.Cmd {
	if date == "" {
		date = m.resolveDate()
	}
	ctx, backend := m.ctx, m.backend
	logx.Debugf("games: fetching %s", date)
	return func() tea.Msg {
		ds, err := backend.FetchGames(ctx, date)
		return gamesLoadedMsg{date: date, ds: ds, err: err, fromReload: fromReload}
	}
}

func (m *Model) loadLog(fromReload bool) tea.Cmd {
	ctx, backend := m.ctx, m.backend
	return func() tea.Msg {
		text, err := backend.FetchLog(ctx)
		return logLoadedMsg{text: text, err: err, fromReload: fromReload}
	}
}

// beginReload disables the reload control and posts /api/reload. It is a
// no-op while a reload is already in flight.
func (m *Model) beginReload(reason string) tea.Cmd {
	if m.loading {
		logx.Infof("reload: %s ignored, reload in flight", reason)
		return nil
	}
	m.loading = true
	m.reload = reloadControl{disabled: true, label: labelLoading}
	date := m.resolveDate()
	logx.Infof("reload: %s date=%s", reason, date)
	ctx, backend := m.ctx, m.backend
	return tea.Batch(m.spin.Tick, func() tea.Msg {
		res, err := backend.Reload(ctx, date)
		return reloadDoneMsg{date: date, res: res, err: err}
	})
}

// finishReload restores the control in every outcome.
func (m *Model) finishReload() {
	m.loading = false
	m.reload = reloadControl{label: labelReload}
}

func (m *Model) handleReloadDone(msg reloadDoneMsg) tea.Cmd {
	if msg.err != nil {
		logx.Warnf("reload: %v", msg.err)
		m.sink.Append("[UI] Reload error: " + msg.err.Error())
		m.syncLogPane()
		m.finishReload()
		m.openAlert(reloadAlert)
		return nil
	}
	m.sink.Append(fmt.Sprintf("[UI] Reload %s in %.2fs", msg.res.Label(), msg.res.Elapsed.Seconds()))
	m.syncLogPane()
	if msg.res.Stderr != "" {
		logx.Warnf("reload: backend stderr: %s", oneLine(msg.res.Stderr))
	}
	return m.loadLog(true)
}

func (m *Model) handleLogLoaded(msg logLoadedMsg) tea.Cmd {
	if msg.err != nil {
		logx.Debugf("log: %v", msg.err)
	} else if msg.text != "" {
		m.sink.Replace(msg.text)
		m.syncLogPane()
	}
	if msg.fromReload {
		// the date is resolved again here, after the log refresh
		return m.loadGames("", true)
	}
	return nil
}

func (m *Model) handleGamesLoaded(msg gamesLoadedMsg) {
	if msg.fromReload {
		defer m.finishReload()
	}
	if msg.err != nil {
		logx.Warnf("games: %s: %v", msg.date, msg.err)
		m.sink.Append("[UI] loadGames error: " + msg.err.Error())
		m.syncLogPane()
		return
	}
	ds := msg.ds
	if ds == nil {
		ds = &model.Dataset{Games: []model.Game{}}
	}
	if want := util.FormatDate(m.state.SelectedDate); msg.date != want {
		logx.Debugf("games: applying response for %s while %s is selected", msg.date, want)
	}
	m.state.Dataset = ds
	m.redraw()
}

func (m *Model) scheduleRefresh() tea.Cmd {
	return m.after(m.cfg.RefreshInterval, func() tea.Msg { return refreshTickMsg{} })
}

func (m *Model) handleRefreshTick() tea.Cmd {
	next := m.scheduleRefresh()
	if m.loading {
		logx.Infof("refresh: skipped, reload in flight")
		return next
	}
	return tea.Batch(next, m.beginReload("auto refresh"))
}

func teaAfter(d time.Duration, fn func() tea.Msg) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return fn() })
}
