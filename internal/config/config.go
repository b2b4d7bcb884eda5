package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"matchday/internal/filter"
	"matchday/internal/util"
)

type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

const (
	DefaultAPIBaseURL = "http://127.0.0.1:5000"
	DefaultRefresh    = time.Hour
	// DefaultTimeout bounds log and stored-data reads. Scrape-backed requests
	// (reload, dated games) have no default limit.
	DefaultTimeout = 30 * time.Second
)

type Config struct {
	ConfigPath       string
	APIBaseURL       string
	Date             string
	Chip             filter.Chip
	Query            string
	Where            string
	RefreshInterval  time.Duration
	HTTPTimeout      time.Duration
	ScrapeTimeout    time.Duration
	Retries          int
	Theme            Theme
	ServerLog        string
	ExportFormat     string
	ExportOut        string
	Print            bool
	Offline          bool
	OpenAIModel      string
	OpenAIBase       string
	OpenAITimeoutSec int
	LogLevel         string
	ShowVersion      bool
}

// fileConfig is the YAML shape of --config. Zero values leave defaults alone.
type fileConfig struct {
	API struct {
		BaseURL string `yaml:"base_url"`
		Timeout       string `yaml:"timeout"`
		ScrapeTimeout string `yaml:"scrape_timeout"`
		Retries       *int   `yaml:"retries"`
	} `yaml:"api"`
	UI struct {
		Filter  string `yaml:"filter"`
		Query   string `yaml:"query"`
		Where   string `yaml:"where"`
		Theme   string `yaml:"theme"`
		Refresh string `yaml:"refresh"`
	} `yaml:"ui"`
	ServerLog string `yaml:"server_log"`
	LogLevel  string `yaml:"log_level"`
	OpenAI    struct {
		Model      string `yaml:"model"`
		BaseURL    string `yaml:"base_url"`
		TimeoutSec int    `yaml:"timeout_sec"`
	} `yaml:"openai"`
}

// Load builds the configuration from defaults, environment, an optional YAML
// file and finally the command line, each overriding the previous.
func Load(args []string) (*Config, error) {
	return LoadWithUsage(args, os.Stderr)
}

// LoadWithUsage is Load with flag usage and parse errors written to out.
// -h and --help return flag.ErrHelp.
func LoadWithUsage(args []string, out io.Writer) (*Config, error) {
	cfg := defaults()

	path := configPath(args)
	if path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, err
		}
		cfg.ConfigPath = path
	}

	fs := flag.NewFlagSet("matchday", flag.ContinueOnError)
	fs.SetOutput(out)

	fs.StringVar(&cfg.ConfigPath, "config", cfg.ConfigPath, "YAML config file (env MATCHDAY_CONFIG)")
	fs.StringVar(&cfg.APIBaseURL, "api", cfg.APIBaseURL, "schedule backend base URL (env MATCHDAY_API_URL)")
	fs.StringVar(&cfg.Date, "date", "", "initial date YYYY-MM-DD (default: today)")
	chip := string(cfg.Chip)
	fs.StringVar(&chip, "filter", chip, "broadcaster filter: *|DAZN|SKY SPORT")
	fs.StringVar(&cfg.Query, "query", cfg.Query, "initial search terms")
	fs.StringVar(&cfg.Where, "where", cfg.Where, "expression filter, e.g. \"channels >= 2 && highlight\"")
	fs.DurationVar(&cfg.RefreshInterval, "refresh", cfg.RefreshInterval, "auto reload interval (env MATCHDAY_REFRESH)")
	fs.DurationVar(&cfg.HTTPTimeout, "timeout", cfg.HTTPTimeout, "timeout for /api/log and undated /api/games")
	fs.DurationVar(&cfg.ScrapeTimeout, "scrape-timeout", cfg.ScrapeTimeout, "timeout for /api/reload and dated /api/games; 0 waits for the backend (env MATCHDAY_SCRAPE_TIMEOUT)")
	fs.IntVar(&cfg.Retries, "retries", cfg.Retries, "extra attempts on connection errors and 5xx")
	theme := string(cfg.Theme)
	fs.StringVar(&theme, "theme", theme, "theme: dark|light")
	fs.StringVar(&cfg.ServerLog, "server-log", cfg.ServerLog, "follow a local backend log file into the log pane")
	fs.StringVar(&cfg.ExportFormat, "export", "", "export the filtered list and exit: csv|json")
	fs.StringVar(&cfg.ExportOut, "out", "", "output path for export")
	fs.BoolVar(&cfg.Print, "print", false, "print the filtered list to stdout and exit")
	fs.BoolVar(&cfg.Offline, "offline", false, "disable OpenAI features")
	fs.StringVar(&cfg.OpenAIModel, "openai-model", cfg.OpenAIModel, "OpenAI model override")
	fs.StringVar(&cfg.OpenAIBase, "openai-base-url", cfg.OpenAIBase, "OpenAI base URL override")
	fs.IntVar(&cfg.OpenAITimeoutSec, "openai-timeout-sec", cfg.OpenAITimeoutSec, "OpenAI request timeout in seconds")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "diagnostic log level: debug|info|warn|error")
	fs.BoolVar(&cfg.ShowVersion, "version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}
	cfg.Theme = Theme(strings.ToLower(strings.TrimSpace(theme)))

	c, err := filter.ParseChip(chip)
	if err != nil {
		return nil, err
	}
	cfg.Chip = c

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		ConfigPath:       os.Getenv("MATCHDAY_CONFIG"),
		APIBaseURL:       getenvDefault("MATCHDAY_API_URL", DefaultAPIBaseURL),
		Chip:             filter.ChipAll,
		RefreshInterval:  getenvDefaultDuration("MATCHDAY_REFRESH", DefaultRefresh),
		HTTPTimeout:      DefaultTimeout,
		ScrapeTimeout:    getenvDefaultDuration("MATCHDAY_SCRAPE_TIMEOUT", 0),
		Theme:            ThemeDark,
		OpenAIModel:      getenvDefault("MATCHDAY_OPENAI_MODEL", "gpt-5-mini"),
		OpenAIBase:       getenvDefault("MATCHDAY_OPENAI_BASE_URL", ""),
		OpenAITimeoutSec: getenvDefaultInt("MATCHDAY_OPENAI_TIMEOUT_SEC", 120),
		LogLevel:         getenvDefault("MATCHDAY_LOG_LEVEL", ""),
	}
}

// configPath finds --config before the full flag set is parsed, since the
// file supplies defaults for the other flags.
func configPath(args []string) string {
	path := os.Getenv("MATCHDAY_CONFIG")
	for i := 0; i < len(args); i++ {
		a := args[i]
		if a == "--" {
			break
		}
		name := strings.TrimLeft(a, "-")
		if name == a {
			continue
		}
		if v, ok := strings.CutPrefix(name, "config="); ok {
			path = v
		} else if name == "config" && i+1 < len(args) {
			path = args[i+1]
			i++
		}
	}
	return path
}

func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	setString(&c.APIBaseURL, fc.API.BaseURL)
	if err := setDuration(&c.HTTPTimeout, fc.API.Timeout, "api.timeout"); err != nil {
		return err
	}
	if err := setDuration(&c.ScrapeTimeout, fc.API.ScrapeTimeout, "api.scrape_timeout"); err != nil {
		return err
	}
	if fc.API.Retries != nil {
		c.Retries = *fc.API.Retries
	}
	setString((*string)(&c.Chip), fc.UI.Filter)
	setString(&c.Query, fc.UI.Query)
	setString(&c.Where, fc.UI.Where)
	setString((*string)(&c.Theme), fc.UI.Theme)
	if err := setDuration(&c.RefreshInterval, fc.UI.Refresh, "ui.refresh"); err != nil {
		return err
	}
	setString(&c.ServerLog, fc.ServerLog)
	setString(&c.LogLevel, fc.LogLevel)
	setString(&c.OpenAIModel, fc.OpenAI.Model)
	setString(&c.OpenAIBase, fc.OpenAI.BaseURL)
	if fc.OpenAI.TimeoutSec > 0 {
		c.OpenAITimeoutSec = fc.OpenAI.TimeoutSec
	}
	return nil
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.APIBaseURL) == "" {
		return errors.New("--api must not be empty")
	}
	if c.Date != "" && !util.IsDateString(c.Date) {
		return fmt.Errorf("--date %q: want YYYY-MM-DD", c.Date)
	}
	if c.Date != "" {
		if _, err := util.ParseDate(c.Date); err != nil {
			return fmt.Errorf("--date %q: %w", c.Date, err)
		}
	}
	if c.RefreshInterval <= 0 {
		return errors.New("--refresh must be positive")
	}
	if c.HTTPTimeout <= 0 {
		return errors.New("--timeout must be positive")
	}
	if c.ScrapeTimeout < 0 {
		return errors.New("--scrape-timeout must not be negative")
	}
	if c.Retries < 0 {
		return errors.New("--retries must not be negative")
	}
	if c.Theme != ThemeDark && c.Theme != ThemeLight {
		return fmt.Errorf("--theme %q: want dark or light", c.Theme)
	}
	switch c.ExportFormat {
	case "", "csv", "json":
	default:
		return fmt.Errorf("--export %q: want csv or json", c.ExportFormat)
	}
	if c.ExportFormat != "" && c.ExportOut == "" {
		return errors.New("--export requires --out path")
	}
	if _, err := filter.NewEvaluator(filter.Criteria{Expr: c.Where}); err != nil {
		return fmt.Errorf("--where: %w", err)
	}
	if c.OpenAITimeoutSec <= 0 {
		c.OpenAITimeoutSec = 120
	}
	return nil
}

// Headless reports whether the run produces output and exits without the TUI.
func (c *Config) Headless() bool { return c.Print || c.ExportFormat != "" }

// Criteria is the initial filter state.
func (c *Config) Criteria() filter.Criteria {
	return filter.Criteria{Chip: c.Chip, Query: c.Query, Expr: c.Where}
}

func setString(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v, key string) error {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(v))
	if err != nil {
		return fmt.Errorf("config %s: %w", key, err)
	}
	*dst = d
	return nil
}

func getenvDefault(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getenvDefaultInt(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return d
}

func getenvDefaultDuration(k string, d time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if n, err := time.ParseDuration(v); err == nil {
			return n
		}
	}
	return d
}

func (c *Config) OpenAIKey() string { return os.Getenv("OPENAI_API_KEY") }

func (c *Config) String() string {
	return fmt.Sprintf("api=%s date=%s filter=%s refresh=%s retries=%d theme=%s offline=%v",
		util.Redact(c.APIBaseURL), c.Date, c.Chip.Label(), c.RefreshInterval, c.Retries, c.Theme, c.Offline)
}
