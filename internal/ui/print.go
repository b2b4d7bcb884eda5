package ui

import (
	"context"
	"fmt"
	"io"
	"time"

	"matchday/internal/config"
	"matchday/internal/export"
	"matchday/internal/filter"
	"matchday/internal/model"
	"matchday/internal/util"
	"matchday/internal/util/logx"
)

// Print writes the counters line and the rendered list without colour.
func Print(w io.Writer, ds *model.Dataset, games []model.Game, width int) error {
	los, se, total := ds.Totals()
	date := ""
	if ds != nil && ds.Date != "" {
		date = ds.Date + "  "
	}
	if _, err := fmt.Fprintf(w, "%sLiveOnSat %d · SportEventz %d · Total %d\n", date, los, se, total); err != nil {
		return err
	}
	body := paintList(buildRows(games), width, PlainStyles())
	_, err := fmt.Fprintln(w, body)
	return err
}

// RunHeadless fetches one dataset, filters it and prints or exports it.
// Unlike the TUI, a fetch failure is returned to the caller.
func RunHeadless(ctx context.Context, cfg *config.Config, backend Backend, out io.Writer) error {
	date := util.ResolveDate(cfg.Date, time.Now())
	ds, err := backend.FetchGames(ctx, date)
	if err != nil {
		return fmt.Errorf("load games for %s: %w", date, err)
	}
	ev, err := filter.NewEvaluator(cfg.Criteria())
	if err != nil {
		return err
	}
	games := ev.Apply(ds.Games, cfg.Criteria())
	logx.Infof("headless: %d/%d games for %s", len(games), len(ds.Games), date)
	if cfg.ExportFormat != "" {
		if err := export.ToFile(cfg.ExportFormat, cfg.ExportOut, games); err != nil {
			return fmt.Errorf("export: %w", err)
		}
		_, err := fmt.Fprintf(out, "exported %d games to %s (%s)\n", len(games), cfg.ExportOut, cfg.ExportFormat)
		return err
	}
	return Print(out, ds, games, 120)
}
