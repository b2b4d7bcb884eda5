package ui

import (
	"strings"

	"matchday/internal/model"
	"matchday/internal/util/logx"
)

const (
	defaultWidth  = 100
	defaultHeight = 30
	logPaneHeight = 8
	// header, controls, status
	chromeLines = 3
)

// redraw recomputes the visible list from (dataset, chip, query) and repaints it.
func (m *Model) redraw() {
	var games []model.Game
	if m.state.Dataset != nil {
		games = m.state.Dataset.Games
	}
	m.visible = m.eval.Apply(games, m.state.Criteria(m.cfg.Where))
	m.list.SetContent(paintList(buildRows(m.visible), m.list.Width, m.styles))
	m.draws++
	logx.Debugf("render: %d/%d games chip=%s query=%q", len(m.visible), len(games), m.state.Chip.Label(), m.state.Query)
}

// syncLogPane shows the sink content scrolled to the newest line.
func (m *Model) syncLogPane() {
	lines := m.sink.Lines()
	var b strings.Builder
	for i, l := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(m.paintLogLine(l))
	}
	m.logPane.SetContent(b.String())
	m.logPane.GotoBottom()
}

func (m *Model) paintLogLine(line string) string {
	switch m.logParser.Parse(line).Level {
	case "ERROR", "FATAL":
		return m.styles.LogError.Render(line)
	case "WARN":
		return m.styles.LogWarn.Render(line)
	}
	return line
}

func (m *Model) layout() {
	w, h := m.width(), m.height()
	listH := h - chromeLines
	if m.showLog {
		listH -= logPaneHeight + 1
	}
	m.list.Width = w
	m.list.Height = max(listH, 3)
	m.logPane.Width = w
	m.logPane.Height = logPaneHeight
	m.search.Width = clampInt(w/4, 12, 40)
}
