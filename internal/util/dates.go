package util

import (
	"regexp"
	"strings"
	"time"
)

// DateLayout is the wire format for schedule dates (YYYY-MM-DD).
const DateLayout = "2006-01-02"

var reDate = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// IsDateString reports whether s has the YYYY-MM-DD shape. It does not check the calendar.
func IsDateString(s string) bool {
	return reDate.MatchString(s)
}

// FormatDate formats t as YYYY-MM-DD in its own location.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses a YYYY-MM-DD string as a local calendar date.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, strings.TrimSpace(s), time.Local)
}

// ResolveDate returns the picker value when it looks like a date, otherwise selected as YYYY-MM-DD.
func ResolveDate(picker string, selected time.Time) string {
	v := strings.TrimSpace(picker)
	if IsDateString(v) {
		return v
	}
	if selected.IsZero() {
		selected = time.Now()
	}
	return FormatDate(selected)
}

// AddDays shifts a calendar date, keeping the wall clock at midnight.
func AddDays(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d+n, 0, 0, 0, 0, t.Location())
}
