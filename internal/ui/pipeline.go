package ui

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"matchday/internal/ai"
	"matchday/internal/export"
	"matchday/internal/ingest"
	"matchday/internal/model"
	"matchday/internal/util"
	"matchday/internal/util/logx"
)

type serverLineMsg struct{ line ingest.Line }
type serverLogErrMsg struct{ err error }
type serverLogClosedMsg struct{}
type digestStartMsg struct{}
type digestDoneMsg struct {
	text string
	err  error
}

// Simple UI toast/status message
type toastMsg struct{ text string }

// followServerLog tails --server-log into the log pane.
func (m *Model) followServerLog() tea.Cmd {
	if strings.TrimSpace(m.cfg.ServerLog) == "" {
		return nil
	}
	m.serverLines, m.serverErrs = ingest.Follow(m.ctx, ingest.Options{Path: m.cfg.ServerLog, Poll: true})
	logx.Infof("follow: tailing %s", m.cfg.ServerLog)
	return m.waitForServerLine()
}

func (m *Model) waitForServerLine() tea.Cmd {
	lines, errs := m.serverLines, m.serverErrs
	if lines == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case l, ok := <-lines:
			if !ok {
				return serverLogClosedMsg{}
			}
			return serverLineMsg{line: l}
		case err, ok := <-errs:
			if !ok {
				return serverLogClosedMsg{}
			}
			return serverLogErrMsg{err: err}
		}
	}
}

func (m *Model) startDigest() tea.Cmd {
	if m.cfg.Offline || m.digester == nil {
		return func() tea.Msg { return toastMsg{text: "Digest (OpenAI) unavailable in offline mode"} }
	}
	if len(m.visible) == 0 {
		return func() tea.Msg { return toastMsg{text: "nothing to summarize"} }
	}
	games := append([]model.Game(nil), m.visible...)
	date := util.FormatDate(m.state.SelectedDate)
	ctx, d := m.ctx, m.digester
	return tea.Batch(
		func() tea.Msg { return digestStartMsg{} },
		m.spin.Tick,
		func() tea.Msg {
			text, err := d.Digest(ctx, date, games)
			return digestDoneMsg{text: text, err: err}
		},
	)
}

func (m *Model) handleDigestDone(msg digestDoneMsg) {
	m.netBusy = false
	if msg.err != nil {
		if errors.Is(msg.err, ai.ErrDisabled) {
			m.lastMsg = "Digest unavailable: set OPENAI_API_KEY"
		} else {
			m.lastMsg = fmt.Sprintf("⚠️ OpenAI failed: %v", msg.err)
		}
		logx.Warnf("openai: digest failed: %v", msg.err)
		return
	}
	logx.Infof("openai: digest ready (%d chars)", len(msg.text))
	m.lastMsg = ""
	m.openDigestModal(msg.text)
}

// exportVisible writes the visible list to --out, or to matchday-<date>.csv.
func (m *Model) exportVisible() tea.Cmd {
	format, out := m.cfg.ExportFormat, m.cfg.ExportOut
	if format == "" || out == "" {
		format = "csv"
		out = fmt.Sprintf("matchday-%s.csv", util.FormatDate(m.state.SelectedDate))
	}
	games := append([]model.Game(nil), m.visible...)
	return func() tea.Msg {
		if err := export.ToFile(format, out, games); err != nil {
			logx.Warnf("export: %v", err)
			return toastMsg{text: "export failed: " + err.Error()}
		}
		logx.Infof("export: wrote %d games to %s (%s)", len(games), out, format)
		return toastMsg{text: fmt.Sprintf("exported %d games to %s (%s)", len(games), out, format)}
	}
}

func (m *Model) copyVisible() tea.Cmd {
	var buf bytes.Buffer
	_ = Print(&buf, m.state.Dataset, m.visible, m.width())
	text := buf.String()
	n := len(m.visible)
	return func() tea.Msg {
		if err := copyToClipboard(text); err != nil {
			logx.Warnf("clipboard: %v", err)
			return toastMsg{text: "copy failed: " + err.Error()}
		}
		return toastMsg{text: fmt.Sprintf("copied %d games to clipboard", n)}
	}
}
