// Package parse classifies the lines of the backend reload log and the
// client's own log lines so the log pane can highlight failures.
package parse

import (
	"regexp"
	"strings"
	"time"
)

// StampLayout is the timestamp inside "[...]" on backend reload log lines.
const StampLayout = "2006-01-02 15:04:05"

// Origin tells who wrote a line.
type Origin string

const (
	OriginBackend Origin = "backend"
	OriginClient  Origin = "client"
	OriginService Origin = "service"
	OriginUnknown Origin = ""
)

type Entry struct {
	Raw       string
	Origin    Origin
	Timestamp *time.Time
	Level     string
	Message   string
	Fields    map[string]string
}

type Parser interface {
	Parse(line string) Entry
}

// NewParser returns the chain used for log lines: stamped backend lines,
// "[UI]" client lines, then logfmt service output. loc is the zone of the
// backend stamps; nil means UTC.
func NewParser(loc *time.Location) Parser {
	if loc == nil {
		loc = time.UTC
	}
	return chain{
		&RegexParser{origin: OriginBackend, re: reBackend, layout: StampLayout, loc: loc},
		&RegexParser{origin: OriginClient, re: reClient},
		&LogfmtParser{},
	}
}

type chain []Parser

func (c chain) Parse(line string) Entry {
	for _, p := range c {
		if e := p.Parse(line); e.Origin != OriginUnknown {
			return e
		}
	}
	return Entry{Raw: line, Message: line, Level: inferLevel(line)}
}

var (
	reBackend = regexp.MustCompile(`^\[(?P<ts>\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2})\]\s?(?P<msg>.*)$`)
	reClient  = regexp.MustCompile(`^\[UI\]\s?(?P<msg>.*)$`)
)

// RegexParser matches a line against named groups "ts" and "msg".
type RegexParser struct {
	origin Origin
	re     *regexp.Regexp
	layout string
	loc    *time.Location
}

func (p *RegexParser) Parse(line string) Entry {
	e := Entry{Raw: line, Fields: map[string]string{}}
	m := p.re.FindStringSubmatch(line)
	if m == nil {
		return e
	}
	e.Origin = p.origin
	for i, name := range p.re.SubexpNames() {
		if i == 0 || name == "" {
			continue
		}
		e.Fields[name] = m[i]
		switch name {
		case "ts":
			if t, err := time.ParseInLocation(p.layout, m[i], p.loc); err == nil {
				e.Timestamp = &t
			}
		case "msg":
			e.Message = m[i]
		}
	}
	e.Level = inferLevel(e.Message)
	return e
}

// LogfmtParser reads key=value lines such as slog text output. Lines without
// both a level and a msg key are not logfmt.
type LogfmtParser struct{}

func (p *LogfmtParser) Parse(line string) Entry {
	e := Entry{Raw: line}
	parts := splitLogfmt(line)
	lvl, okLvl := parts["level"]
	msg, okMsg := parts["msg"]
	if !okLvl || !okMsg {
		return e
	}
	e.Origin = OriginService
	e.Fields = parts
	e.Message = msg
	e.Level = normalizeLevel(lvl)
	if ts := pick(parts, "time", "ts", "timestamp"); ts != "" {
		if t, err := time.Parse(time.RFC3339Nano, ts); err == nil {
			e.Timestamp = &t
		}
	}
	return e
}

func pick(m map[string]string, keys ...string) string {
	for _, k := range keys {
		if v, ok := m[k]; ok {
			return v
		}
	}
	return ""
}

func splitLogfmt(s string) map[string]string {
	res := map[string]string{}
	var cur strings.Builder
	inQuote := false
	key := ""
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '"' {
			inQuote = !inQuote
			continue
		}
		if !inQuote && (c == ' ' || c == '\t') {
			if key != "" {
				res[key] = cur.String()
				key = ""
			}
			cur.Reset()
			continue
		}
		if !inQuote && c == '=' && key == "" {
			key = cur.String()
			cur.Reset()
			continue
		}
		cur.WriteByte(c)
	}
	if key != "" {
		res[key] = cur.String()
	}
	return res
}

func normalizeLevel(lvl string) string {
	l := strings.ToUpper(strings.TrimSpace(lvl))
	switch l {
	case "WARN", "WARNING":
		return "WARN"
	case "ERROR", "ERR":
		return "ERROR"
	case "FATAL", "CRITICAL":
		return "FATAL"
	}
	return l
}

// inferLevel guesses a level for free text from the words backend and client use for failures.
func inferLevel(msg string) string {
	l := strings.ToLower(msg)
	switch {
	case strings.Contains(l, "error"), strings.Contains(l, "exception"), strings.Contains(l, "traceback"), strings.Contains(l, "failed"):
		return "ERROR"
	case strings.Contains(l, "warn"):
		return "WARN"
	}
	return "INFO"
}
