// Package logx keeps matchday's own diagnostics in memory for the in-app
// diagnostics view. Writing to stderr is opt-in because it would tear the
// alt-screen UI.
package logx

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"matchday/internal/model"
)

type Level int

const (
	Debug Level = iota
	Info
	Warn
	Error
)

func (l Level) String() string {
	switch l {
	case Debug:
		return "DEBUG"
	case Warn:
		return "WARN"
	case Error:
		return "ERROR"
	}
	return "INFO"
}

const maxLines = 500

var (
	mu    sync.Mutex
	level = Info
	ring  = model.NewLineRing(maxLines)
	out   io.Writer // nil keeps lines in memory only
	clock = time.Now
)

func SetLevel(l Level) {
	mu.Lock()
	level = l
	mu.Unlock()
}

// SetStderr mirrors every kept line to stderr. Useful with --print.
func SetStderr(on bool) {
	if on {
		setOutput(os.Stderr)
		return
	}
	setOutput(nil)
}

func setOutput(w io.Writer) {
	mu.Lock()
	out = w
	mu.Unlock()
}

// ParseLevel accepts debug, info, warn/warning and error in any case.
func ParseLevel(s string) (Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return Debug, true
	case "info":
		return Info, true
	case "warn", "warning":
		return Warn, true
	case "error":
		return Error, true
	}
	return Info, false
}

// SetLevelFromEnv reads MATCHDAY_LOG_LEVEL and MATCHDAY_LOG_STDERR.
func SetLevelFromEnv() {
	if l, ok := ParseLevel(os.Getenv("MATCHDAY_LOG_LEVEL")); ok {
		SetLevel(l)
	}
	switch strings.ToLower(strings.TrimSpace(os.Getenv("MATCHDAY_LOG_STDERR"))) {
	case "":
	case "0", "false", "no":
		SetStderr(false)
	default:
		SetStderr(true)
	}
}

func Debugf(format string, a ...any) { record(Debug, format, a) }
func Infof(format string, a ...any)  { record(Info, format, a) }
func Warnf(format string, a ...any)  { record(Warn, format, a) }
func Errorf(format string, a ...any) { record(Error, format, a) }

func record(l Level, format string, a []any) {
	mu.Lock()
	defer mu.Unlock()
	if l < level {
		return
	}
	line := fmt.Sprintf("%s %-5s %s", clock().Format("2006-01-02T15:04:05.000Z07:00"), l, fmt.Sprintf(format, a...))
	ring.Push(line)
	if out != nil {
		fmt.Fprintln(out, line)
	}
}

// Dump returns the kept lines, oldest first, newline separated.
func Dump() string { return ring.String() }

func Lines() []string {
	lines, _, _ := ring.Snapshot()
	return lines
}

// Reset drops kept lines, restores the Info level and stops mirroring.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	ring.Replace("")
	level = Info
	out = nil
}
