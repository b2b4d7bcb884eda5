package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"matchday/internal/fakeapi"
	"matchday/internal/model"
)

func main() {
	var (
		addr     string
		logPath  string
		zone     string
		delayStr string
		fail     bool
	)
	flag.StringVar(&addr, "addr", "127.0.0.1:5000", "Listen address")
	flag.StringVar(&logPath, "log", "data/reload.log", "Reload log file served by /api/log")
	flag.StringVar(&zone, "zone", "Europe/Vienna", "Time zone for the default date and log stamps")
	flag.StringVar(&delayStr, "delay", "", "Simulated scrape duration (e.g. 1.5s)")
	flag.BoolVar(&fail, "fail", false, "Make every scrape fail, to exercise client error paths")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	var delay time.Duration
	if delayStr != "" {
		d, err := time.ParseDuration(delayStr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid delay: %v\n", err)
			os.Exit(2)
		}
		delay = d
	}

	scrape := func(ctx context.Context, date string) (*model.Dataset, error) {
		if delay > 0 {
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
		if fail {
			return nil, errors.New("scraper failed (--fail)")
		}
		return fakeapi.SampleSchedule(ctx, date)
	}

	srv, err := fakeapi.New(fakeapi.Options{LogPath: logPath, Zone: zone, Scrape: scrape, Logger: logger})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	hs := &http.Server{Addr: addr, Handler: srv.Handler(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
		defer stop()
		_ = hs.Shutdown(shutdownCtx)
	}()

	logger.Info("fakeapi listening", slog.String("addr", addr), slog.String("log", logPath))
	if err := hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server stopped", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
