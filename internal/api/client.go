package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"

	"matchday/internal/model"
	"matchday/internal/util/logx"
	"matchday/internal/version"
)

// Config controls how the client reaches the schedule backend.
type Config struct {
	BaseURL string
	// Timeout bounds requests that only read stored data (/api/log, undated /api/games).
	Timeout time.Duration
	// ScrapeTimeout bounds requests the backend answers by scraping (/api/reload,
	// dated /api/games). Zero means no limit beyond the caller's context.
	ScrapeTimeout time.Duration
	// Retries is the number of extra attempts on connection errors and 5xx.
	// /api/reload is never retried.
	Retries    int
	HTTPClient *http.Client
}

// Client talks to the schedule backend.
type Client struct {
	baseURL       string
	http          *retryablehttp.Client
	timeout       time.Duration
	scrapeTimeout time.Duration
	now           func() time.Time
	newID         func() string
}

type noRetryKey struct{}

// withoutRetry marks ctx so the request is attempted once.
func withoutRetry(ctx context.Context) context.Context {
	return context.WithValue(ctx, noRetryKey{}, true)
}

func checkRetry(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	if ctx.Value(noRetryKey{}) != nil {
		return false, nil
	}
	return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
}

// ReloadResult is the outcome of a POST /api/reload whose body was JSON.
type ReloadResult struct {
	Status        string
	HTTPStatus    int
	Elapsed       time.Duration
	ServerElapsed float64
	Stderr        string
}

// Label is what the reload log line reports: the backend status, else the HTTP code.
func (r ReloadResult) Label() string {
	if s := strings.TrimSpace(r.Status); s != "" {
		return s
	}
	return fmt.Sprintf("%d", r.HTTPStatus)
}

func NewClient(cfg Config) *Client {
	rc := retryablehttp.NewClient()
	rc.Logger = nil
	rc.RetryMax = max(cfg.Retries, 0)
	rc.RetryWaitMin = 200 * time.Millisecond
	rc.RetryWaitMax = 2 * time.Second
	// Hand non-2xx responses back to the caller instead of a "giving up" error.
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	rc.CheckRetry = checkRetry
	// deadlines are set per request, see Client.bound
	rc.HTTPClient = &http.Client{}
	if cfg.HTTPClient != nil {
		rc.HTTPClient = cfg.HTTPClient
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	return &Client{
		baseURL:       normalizeBaseURL(cfg.BaseURL),
		http:          rc,
		timeout:       timeout,
		scrapeTimeout: max(cfg.ScrapeTimeout, 0),
		now:           time.Now,
		newID:         func() string { return uuid.NewString() },
	}
}

// bound applies d to ctx; zero leaves ctx without a deadline.
func bound(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

func normalizeBaseURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		raw = defaultBaseURL
	}
	return strings.TrimSuffix(raw, "/")
}

// BaseURL returns the normalized backend address.
func (c *Client) BaseURL() string { return c.baseURL }

// FetchGames issues GET /api/games?date=. Non-2xx responses and bodies that
// are not a JSON object are errors. A dated request makes the backend scrape,
// so it runs under ScrapeTimeout rather than Timeout.
func (c *Client) FetchGames(ctx context.Context, date string) (*model.Dataset, error) {
	q := url.Values{}
	timeout := c.timeout
	if date != "" {
		q.Set("date", date)
		timeout = c.scrapeTimeout
	}
	ctx, cancel := bound(ctx, timeout)
	defer cancel()
	resp, err := c.do(ctx, http.MethodGet, pathGames, q, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if err := checkStatus(pathGames, resp); err != nil {
		return nil, err
	}
	var ds model.Dataset
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBody)).Decode(&ds); err != nil {
		return nil, fmt.Errorf("decode games: %w", err)
	}
	return &ds, nil
}

// FetchLog issues GET /api/log and returns the log text, which may be empty.
func (c *Client) FetchLog(ctx context.Context) (string, error) {
	ctx, cancel := bound(ctx, c.timeout)
	defer cancel()
	resp, err := c.do(ctx, http.MethodGet, pathLog, nil, nil)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if err := checkStatus(pathLog, resp); err != nil {
		return "", err
	}
	var payload struct {
		Log json.RawMessage `json:"log"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBody)).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode log: %w", err)
	}
	var text string
	if len(payload.Log) > 0 && json.Unmarshal(payload.Log, &text) != nil {
		text = ""
	}
	return text, nil
}

// Reload issues POST /api/reload {"date": date} once, without retries. Any
// HTTP status is accepted as long as the body is JSON; status, elapsed and
// stderr are read when the body is an object.
func (c *Client) Reload(ctx context.Context, date string) (ReloadResult, error) {
	body, err := json.Marshal(map[string]string{"date": date})
	if err != nil {
		return ReloadResult{}, err
	}
	ctx, cancel := bound(withoutRetry(ctx), c.scrapeTimeout)
	defer cancel()
	start := c.now()
	resp, err := c.do(ctx, http.MethodPost, pathReload, nil, body)
	if err != nil {
		return ReloadResult{}, err
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return ReloadResult{}, fmt.Errorf("read reload response: %w", err)
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return ReloadResult{}, fmt.Errorf("decode reload response (HTTP %d): %w", resp.StatusCode, err)
	}
	res := ReloadResult{HTTPStatus: resp.StatusCode, Elapsed: c.now().Sub(start)}
	if obj, ok := doc.(map[string]any); ok {
		res.Status, _ = obj["status"].(string)
		res.ServerElapsed, _ = obj["elapsed"].(float64)
		res.Stderr, _ = obj["stderr"].(string)
	}
	return res, nil
}

func (c *Client) do(ctx context.Context, method, path string, q url.Values, body []byte) (*http.Response, error) {
	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	var rdr io.Reader
	if body != nil {
		rdr = bytes.NewReader(body)
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, method, u, rdr)
	if err != nil {
		return nil, err
	}
	id := c.newID()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())
	req.Header.Set(headerRequestID, id)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	logx.Debugf("api: %s %s id=%s", method, path, id)
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	return resp, nil
}

func checkStatus(endpoint string, resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &StatusError{Endpoint: endpoint, Code: resp.StatusCode, Body: string(snippet)}
}
