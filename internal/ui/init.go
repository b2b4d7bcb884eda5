package ui

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"matchday/internal/ai"
	"matchday/internal/api"
	"matchday/internal/config"
	"matchday/internal/filter"
	"matchday/internal/parse"
	"matchday/internal/util"
	"matchday/internal/util/logx"
)

func initialModel(ctx context.Context, cfg *config.Config, backend Backend, digester Digester) *Model {
	m := &Model{
		ctx:       ctx,
		cfg:       cfg,
		backend:   backend,
		digester:  digester,
		after:     teaAfter,
		now:       time.Now,
		sink:      newLogSink(logSinkLines),
		logParser: parse.NewParser(nil),
		reload:    reloadControl{label: labelReload},
		styles:    NewStyles(cfg.Theme != config.ThemeLight),
		keymap:    DefaultKeyMap(),
		search:    textinput.New(),
		spin:      spinner.New(),
		showLog:   true,
	}
	if ev, err := filter.NewEvaluator(cfg.Criteria()); err == nil {
		m.eval = ev
	} else {
		logx.Warnf("filter: ignoring --where: %v", err)
	}

	m.state = State{Chip: cfg.Chip, Query: cfg.Query, SelectedDate: util.AddDays(m.now(), 0)}
	if cfg.Date != "" {
		if d, err := util.ParseDate(cfg.Date); err == nil {
			m.state.SelectedDate = d
		}
	}

	m.spin.Spinner = spinner.Dot
	m.search.Placeholder = "search teams, competition, channels..."
	m.search.CharLimit = 256
	m.search.Prompt = "/"
	m.search.SetValue(cfg.Query)
	m.search.Cursor.SetMode(cursor.CursorStatic)

	m.dateInput = textinput.New()
	m.dateInput.Prompt = ""
	m.dateInput.CharLimit = len(util.DateLayout)
	m.dateInput.Width = len(util.DateLayout) + 1
	m.dateInput.Placeholder = util.DateLayout
	m.dateInput.SetValue(util.FormatDate(m.state.SelectedDate))
	m.dateInput.Cursor.SetMode(cursor.CursorStatic)

	m.list = viewport.New(defaultWidth, defaultHeight-chromeLines)
	m.logPane = viewport.New(defaultWidth, logPaneHeight)
	m.layout()
	m.redraw()
	return m
}

// NewBackend builds the API client described by cfg.
func NewBackend(cfg *config.Config) *api.Client {
	return api.NewClient(api.Config{
		BaseURL:       cfg.APIBaseURL,
		Timeout:       cfg.HTTPTimeout,
		ScrapeTimeout: cfg.ScrapeTimeout,
		Retries:       cfg.Retries,
	})
}

// Run starts the TUI against the configured backend.
func Run(ctx context.Context, cfg *config.Config) error {
	client := NewBackend(cfg)
	var digester Digester
	if !cfg.Offline && cfg.OpenAIKey() != "" {
		digester = ai.NewOpenAIClient(cfg.OpenAIKey(), cfg.OpenAIBase, cfg.OpenAIModel, time.Duration(cfg.OpenAITimeoutSec)*time.Second)
	}
	m := initialModel(ctx, cfg, client, digester)
	p := tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen())
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// Init issues the startup log and games loads together and arms the refresh timer.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.loadLog(false),
		m.loadGames("", false),
		m.scheduleRefresh(),
		m.followServerLog(),
	)
}
