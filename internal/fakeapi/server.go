// Package fakeapi is a demo schedule backend serving /api/games, /api/log
// and /api/reload with generated data.
package fakeapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
	_ "time/tzdata"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"matchday/internal/ingest"
	"matchday/internal/model"
	"matchday/internal/util"
)

const (
	defaultZone    = "Europe/Vienna"
	logTailBytes   = 10000
	errInvalidDate = "Invalid date format. Use YYYY-MM-DD."
	logStampLayout = "2006-01-02 15:04:05"
)

type Options struct {
	// LogPath is the reload log appended to by every scrape.
	LogPath string
	Zone    string
	Scrape  Scraper
	Logger  *slog.Logger
	Now     func() time.Time
	MaxBody int64
}

type Server struct {
	logPath string
	loc     *time.Location
	scrape  Scraper
	logger  *slog.Logger
	now     func() time.Time
	maxBody int64

	mu     sync.Mutex // guards latest and log appends
	latest *model.Dataset
}

func New(opt Options) (*Server, error) {
	if strings.TrimSpace(opt.LogPath) == "" {
		return nil, errors.New("fakeapi: log path is required")
	}
	zone := opt.Zone
	if zone == "" {
		zone = defaultZone
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return nil, fmt.Errorf("fakeapi: zone %q: %w", zone, err)
	}
	if err := os.MkdirAll(filepath.Dir(opt.LogPath), 0o755); err != nil {
		return nil, fmt.Errorf("fakeapi: %w", err)
	}
	s := &Server{
		logPath: opt.LogPath,
		loc:     loc,
		scrape:  opt.Scrape,
		logger:  opt.Logger,
		now:     opt.Now,
		maxBody: opt.MaxBody,
	}
	if s.scrape == nil {
		s.scrape = SampleSchedule
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.maxBody <= 0 {
		s.maxBody = 1 << 16
	}
	return s, nil
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(s.logger))
	r.Use(noStore)

	r.Get("/api/games", s.handleGames)
	r.Get("/api/log", s.handleLog)
	r.Get("/api/reload", s.handleReload)
	r.Post("/api/reload", s.handleReload)
	return r
}

// today is the current calendar date in the server zone.
func (s *Server) today() string {
	return s.now().In(s.loc).Format(util.DateLayout)
}

func (s *Server) timezoneLabel() string {
	_, off := s.now().In(s.loc).Zone()
	return fmt.Sprintf("%s (GMT%+d)", s.loc.String(), off/3600)
}

// appendLog writes one "[YYYY-MM-DD HH:MM:SS] msg" line to the reload log.
// Failures are logged and otherwise ignored.
func (s *Server) appendLog(msg string) {
	line := fmt.Sprintf("[%s] %s\n", s.now().In(s.loc).Format(logStampLayout), msg)
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := os.OpenFile(s.logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		s.logger.Warn("reload log unavailable", slog.String("error", err.Error()))
		return
	}
	defer f.Close()
	if _, err := f.WriteString(line); err != nil {
		s.logger.Warn("reload log write failed", slog.String("error", err.Error()))
	}
}

func validDate(v string) bool {
	if !util.IsDateString(v) {
		return false
	}
	_, err := time.Parse(util.DateLayout, v)
	return err == nil
}

func (s *Server) handleGames(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		writeJSON(w, http.StatusOK, s.latestOrSeed())
		return
	}
	if !validDate(date) {
		writeError(w, http.StatusBadRequest, errInvalidDate)
		return
	}

	s.appendLog("Scrape requested via /api/games for " + date)
	start := time.Now()
	ds, err := s.scrape(r.Context(), date)
	elapsed := roundSeconds(time.Since(start))
	if err != nil {
		s.appendLog("Scraper exception: " + err.Error())
		s.logger.Error("scrape failed", slog.String(FieldDate, date), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"date":         date,
			"generated_at": s.now().In(s.loc).Format(time.RFC3339),
			"error":        err.Error(),
			"games":        []model.Game{},
			"_meta":        model.Meta{Elapsed: elapsed, Status: "error", Stderr: err.Error()},
		})
		return
	}
	s.stamp(ds, date)
	ds.Meta = &model.Meta{Elapsed: elapsed, Status: "ok"}
	s.logger.Info("games served", slog.String(FieldDate, date), slog.Int(FieldCount, len(ds.Games)))
	writeJSON(w, http.StatusOK, ds)
}

func (s *Server) handleLog(w http.ResponseWriter, _ *http.Request) {
	text, err := ingest.TailText(s.logPath, logTailBytes)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"log": text})
}

type reloadRequest struct {
	Date string `json:"date"`
}

type reloadResponse struct {
	Status  string  `json:"status"`
	Elapsed float64 `json:"elapsed"`
	Stderr  string  `json:"stderr"`
}

// handleReload takes the date from ?date=, then from a JSON body, then
// defaults to today in the server zone.
func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" && r.Body != nil {
		var req reloadRequest
		if err := json.NewDecoder(io.LimitReader(r.Body, s.maxBody)).Decode(&req); err == nil {
			date = req.Date
		}
	}
	if date == "" {
		date = s.today()
	}
	if !validDate(date) {
		writeError(w, http.StatusBadRequest, errInvalidDate)
		return
	}

	s.appendLog("Reload requested for " + date)
	start := time.Now()
	ds, err := s.scrape(r.Context(), date)
	elapsed := roundSeconds(time.Since(start))
	if err != nil {
		s.appendLog(fmt.Sprintf("Reload error for %s: %v", date, err))
		s.logger.Error("reload failed", slog.String(FieldDate, date), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, reloadResponse{Status: "error", Elapsed: elapsed, Stderr: err.Error()})
		return
	}
	s.stamp(ds, date)
	s.mu.Lock()
	s.latest = ds
	s.mu.Unlock()
	s.appendLog(fmt.Sprintf("Reload OK for %s in %.2fs", date, elapsed))
	s.logger.Info("reload ok", slog.String(FieldDate, date), slog.Int(FieldCount, len(ds.Games)))
	writeJSON(w, http.StatusOK, reloadResponse{Status: "ok", Elapsed: elapsed})
}

func (s *Server) stamp(ds *model.Dataset, date string) {
	if ds.Date == "" {
		ds.Date = date
	}
	if ds.GeneratedAt == "" {
		ds.GeneratedAt = s.now().In(s.loc).Format(time.RFC3339)
	}
	if ds.Timezone == "" {
		ds.Timezone = s.timezoneLabel()
	}
	if ds.Games == nil {
		ds.Games = []model.Game{}
	}
}

// latestOrSeed is the last reloaded dataset, or an empty one before any reload.
func (s *Server) latestOrSeed() *model.Dataset {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.latest != nil {
		return s.latest
	}
	zero := 0
	return &model.Dataset{
		Timezone: s.timezoneLabel(),
		Games:    []model.Game{},
		Counters: model.Counters{Total: &zero},
	}
}

func roundSeconds(d time.Duration) float64 {
	return math.Round(d.Seconds()*100) / 100
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
