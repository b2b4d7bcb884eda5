package export

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"matchday/internal/model"
)

var columns = []string{"time", "time_local", "teams", "competition", "channels", "sources"}

// ErrEmpty is returned when there is nothing to export.
var ErrEmpty = errors.New("no games")

// ToFile writes games to path in the given format ("csv" or "json").
func ToFile(format, path string, games []model.Game) error {
	switch format {
	case "csv":
		return ToCSV(path, games)
	case "json", "ndjson":
		return ToNDJSON(path, games)
	}
	return fmt.Errorf("unknown export format %q", format)
}

func ToCSV(path string, games []model.Game) error {
	if len(games) == 0 {
		return ErrEmpty
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := WriteCSV(f, games); err != nil {
		return err
	}
	return f.Close()
}

// WriteCSV writes a header row and one row per game; list fields are joined with "; ".
func WriteCSV(w io.Writer, games []model.Game) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return err
	}
	for _, g := range games {
		row := []string{
			model.DisplayTime(g),
			g.TimeLocal,
			g.TeamsDisplay,
			g.Competition,
			strings.Join(g.Channels, "; "),
			strings.Join(g.Sources, "; "),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func ToNDJSON(path string, games []model.Game) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := WriteNDJSON(f, games); err != nil {
		return err
	}
	return f.Close()
}

// WriteNDJSON writes one JSON object per line in the backend's field names.
func WriteNDJSON(w io.Writer, games []model.Game) error {
	bw := bufio.NewWriter(w)
	for _, g := range games {
		b, err := json.Marshal(g)
		if err != nil {
			return err
		}
		if _, err := bw.Write(append(b, '\n')); err != nil {
			return err
		}
	}
	return bw.Flush()
}
