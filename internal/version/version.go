package version

import "fmt"

// These variables are populated at build time via -ldflags.
var (
	Version = "dev"
	Commit  = ""
	Date    = ""
)

func String() string {
	base := Version
	if Commit != "" {
		base += fmt.Sprintf(" (%s)", Commit)
	}
	if Date != "" {
		base += fmt.Sprintf(" %s", Date)
	}
	return base
}

// UserAgent is sent on every request to the schedule backend.
func UserAgent() string {
	if Commit != "" {
		return fmt.Sprintf("matchday/%s+%s", Version, Commit)
	}
	return "matchday/" + Version
}
