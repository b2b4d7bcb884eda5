package util

import "regexp"

var (
	reURLUserinfo = regexp.MustCompile(`(?i)(https?://)[^/@\s]+@`)
	reToken       = regexp.MustCompile(`(?i)((?:api[_-]?key|secret|token|key)[=:]\s*)([A-Za-z0-9-_]{8,})`)
)

// Redact masks credentials embedded in URLs and key=value tokens so they can be logged.
func Redact(s string) string {
	s = reURLUserinfo.ReplaceAllString(s, "${1}[redacted]@")
	s = reToken.ReplaceAllString(s, "${1}[redacted]")
	return s
}
