package ui

import (
	"strings"

	"matchday/internal/model"
)

const logSinkLines = 2000

// logSink is the user-facing log panel: the backend log plus client lines.
type logSink struct {
	ring    *model.LineRing
	appends int
}

func newLogSink(capacity int) *logSink {
	return &logSink{ring: model.NewLineRing(capacity)}
}

// Append adds one line. Embedded newlines are flattened so a call is always one line.
func (s *logSink) Append(line string) {
	line = strings.ReplaceAll(strings.TrimRight(line, "\r\n"), "\n", " ")
	s.ring.Push(line)
	s.appends++
}

// Replace swaps the whole content, as when the backend log is reloaded.
func (s *logSink) Replace(text string) { s.ring.Replace(text) }

func (s *logSink) Lines() []string {
	lines, _, _ := s.ring.Snapshot()
	return lines
}

func (s *logSink) Len() int { return s.ring.Len() }

func (s *logSink) String() string { return s.ring.String() }
