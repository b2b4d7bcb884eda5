package ui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"matchday/internal/api"
	"matchday/internal/config"
	"matchday/internal/filter"
	"matchday/internal/ingest"
	"matchday/internal/model"
	"matchday/internal/parse"
)

// Backend is the schedule API the orchestrator talks to.
type Backend interface {
	FetchGames(ctx context.Context, date string) (*model.Dataset, error)
	FetchLog(ctx context.Context) (string, error)
	Reload(ctx context.Context, date string) (api.ReloadResult, error)
}

// Digester summarizes the visible games.
type Digester interface {
	Digest(ctx context.Context, date string, games []model.Game) (string, error)
}

// State is everything the list is derived from. It is only mutated inside Update.
type State struct {
	Dataset      *model.Dataset
	Chip         filter.Chip
	Query        string
	SelectedDate time.Time
}

func (s State) Criteria(expr string) filter.Criteria {
	return filter.Criteria{Chip: s.Chip, Query: s.Query, Expr: expr}
}

type modalKind int

const (
	modalNone modalKind = iota
	modalHelp
	modalLogs
	modalAlert
	modalDigest
)

type inputMode int

const (
	inputNone inputMode = iota
	inputSearch
	inputDate
)

// reloadControl mirrors the reload button: disabled with a "Loading..." label while in flight.
type reloadControl struct {
	disabled bool
	label    string
}

const (
	labelReload  = "Reload"
	labelLoading = "Loading..."
)

type Model struct {
	ctx      context.Context
	cfg      *config.Config
	backend  Backend
	digester Digester
	eval     *filter.Evaluator

	// after schedules fn once d has elapsed; tests replace it to control time.
	after func(d time.Duration, fn func() tea.Msg) tea.Cmd
	now   func() time.Time

	state     State
	visible   []model.Game
	sink      *logSink
	logParser parse.Parser

	// Reload
	loading bool
	reload  reloadControl

	// Server log follow
	serverLines <-chan ingest.Line
	serverErrs  <-chan error

	// UI
	styles     Styles
	keymap     KeyMap
	list       viewport.Model
	logPane    viewport.Model
	showLog    bool
	search     textinput.Model
	dateInput  textinput.Model
	spin       spinner.Model
	mode       inputMode
	searchSeq  int
	termWidth  int
	termHeight int
	netBusy    bool
	lastMsg    string

	// Diagnostics shown in the app logs modal.
	draws  int
	alerts int

	// Modal popup
	modalActive bool
	modalKind   modalKind
	modalVP     viewport.Model
	modalTitle  string
	modalBody   string

	// Help menu state
	helpItems []helpItem
	helpSel   int
}

type helpItem struct {
	group string
	text  string
	key   tea.Key
}

func keyCmd(k tea.Key) tea.Cmd {
	return func() tea.Msg {
		if k.Type == tea.KeyRunes {
			return tea.KeyMsg{Type: k.Type, Runes: k.Runes}
		}
		return tea.KeyMsg{Type: k.Type}
	}
}

func keyLabel(k tea.Key) string {
	switch k.Type {
	case tea.KeyRunes:
		if len(k.Runes) == 1 {
			r := k.Runes[0]
			if r == ' ' {
				return "space"
			}
			return string(r)
		}
		return strings.ToLower(string(k.Runes))
	case tea.KeyEnter:
		return "enter"
	case tea.KeyEsc:
		return "esc"
	case tea.KeyUp:
		return "up"
	case tea.KeyDown:
		return "down"
	case tea.KeyPgUp:
		return "pgup"
	case tea.KeyPgDown:
		return "pgdown"
	case tea.KeyCtrlC:
		return "ctrl+c"
	default:
		return strings.ToLower(k.String())
	}
}
