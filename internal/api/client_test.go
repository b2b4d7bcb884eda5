package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) { return f(req) }

func jsonResponse(code int, body string) *http.Response {
	return &http.Response{
		StatusCode: code,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}
}

func TestFetchGamesSendsDateAndHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/games", r.URL.Path)
		require.Equal(t, "2024-05-01", r.URL.Query().Get("date"))
		require.Equal(t, "application/json", r.Header.Get("Accept"))
		require.NotEmpty(t, r.Header.Get("X-Request-ID"))
		require.True(t, strings.HasPrefix(r.Header.Get("User-Agent"), "matchday/"))
		_, _ = io.WriteString(w, `{"date":"2024-05-01","games":[{"teams_display":"A vs B","channels":["DAZN"],"sources":null}],"counters":{"LiveOnSat":1}}`)
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL + "/"})
	ds, err := c.FetchGames(context.Background(), "2024-05-01")
	require.NoError(t, err)
	require.Len(t, ds.Games, 1)
	require.Equal(t, []string{"DAZN"}, []string(ds.Games[0].Channels))
	require.Empty(t, ds.Games[0].Sources)
	los, se, total := ds.Totals()
	require.Equal(t, [3]int{1, 0, 1}, [3]int{los, se, total})
}

func TestFetchGamesStatusError(t *testing.T) {
	c := NewClient(Config{HTTPClient: &http.Client{Transport: roundTripperFunc(func(*http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusBadRequest, `{"error":"Invalid date format. Use YYYY-MM-DD."}`), nil
	})}})
	_, err := c.FetchGames(context.Background(), "bad")
	var se *StatusError
	require.True(t, errors.As(err, &se))
	require.Equal(t, http.StatusBadRequest, se.Code)
	require.Contains(t, err.Error(), "Invalid date format")
}

func TestFetchGamesRejectsNonJSON(t *testing.T) {
	c := NewClient(Config{HTTPClient: &http.Client{Transport: roundTripperFunc(func(*http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `<html>oops</html>`), nil
	})}})
	_, err := c.FetchGames(context.Background(), "2024-05-01")
	require.Error(t, err)
	require.Contains(t, err.Error(), "decode games")
}

func TestFetchLog(t *testing.T) {
	c := NewClient(Config{HTTPClient: &http.Client{Transport: roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		require.Equal(t, "/api/log", req.URL.Path)
		return jsonResponse(http.StatusOK, `{"log":"line 1\nline 2"}`), nil
	})}})
	text, err := c.FetchLog(context.Background())
	require.NoError(t, err)
	require.Equal(t, "line 1\nline 2", text)

	c = NewClient(Config{HTTPClient: &http.Client{Transport: roundTripperFunc(func(*http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{"log":42}`), nil
	})}})
	text, err = c.FetchLog(context.Background())
	require.NoError(t, err)
	require.Empty(t, text)
}

func TestReloadPostsDateAndMeasuresElapsed(t *testing.T) {
	var got map[string]string
	c := NewClient(Config{HTTPClient: &http.Client{Transport: roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		require.Equal(t, http.MethodPost, req.Method)
		require.Equal(t, "/api/reload", req.URL.Path)
		require.Equal(t, "application/json", req.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(req.Body).Decode(&got))
		return jsonResponse(http.StatusOK, `{"status":"ok","elapsed":1.5}`), nil
	})}})
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	calls := 0
	c.now = func() time.Time {
		calls++
		return base.Add(time.Duration(calls-1) * 1234 * time.Millisecond)
	}

	res, err := c.Reload(context.Background(), "2024-05-01")
	require.NoError(t, err)
	require.Equal(t, map[string]string{"date": "2024-05-01"}, got)
	require.Equal(t, "ok", res.Label())
	require.Equal(t, 1234*time.Millisecond, res.Elapsed)
	require.Equal(t, 1.5, res.ServerElapsed)
}

func TestReloadErrorStatusWithJSONIsReported(t *testing.T) {
	c := NewClient(Config{HTTPClient: &http.Client{Transport: roundTripperFunc(func(*http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusInternalServerError, `{"stderr":"scraper crashed"}`), nil
	})}})
	res, err := c.Reload(context.Background(), "2024-05-01")
	require.NoError(t, err)
	require.Equal(t, "500", res.Label())
	require.Equal(t, "scraper crashed", res.Stderr)
}

func TestReloadNonJSONIsError(t *testing.T) {
	c := NewClient(Config{HTTPClient: &http.Client{Transport: roundTripperFunc(func(*http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusBadGateway, `Bad Gateway`), nil
	})}})
	_, err := c.Reload(context.Background(), "2024-05-01")
	require.Error(t, err)
	require.Contains(t, err.Error(), "HTTP 502")
}

func TestReloadAcceptsNonObjectJSON(t *testing.T) {
	for _, body := range []string{`"queued"`, `[]`, `42`, `null`} {
		c := NewClient(Config{HTTPClient: &http.Client{Transport: roundTripperFunc(func(*http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusOK, body), nil
		})}})
		res, err := c.Reload(context.Background(), "2024-05-01")
		require.NoError(t, err, body)
		require.Equal(t, "200", res.Label(), body)
		require.Empty(t, res.Stderr, body)
	}
}

func TestReloadIgnoresMistypedFields(t *testing.T) {
	c := NewClient(Config{HTTPClient: &http.Client{Transport: roundTripperFunc(func(*http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{"status":1,"elapsed":"fast","stderr":["x"]}`), nil
	})}})
	res, err := c.Reload(context.Background(), "2024-05-01")
	require.NoError(t, err)
	require.Equal(t, "200", res.Label())
	require.Zero(t, res.ServerElapsed)
}

func TestReloadTransportError(t *testing.T) {
	c := NewClient(Config{HTTPClient: &http.Client{Transport: roundTripperFunc(func(*http.Request) (*http.Response, error) {
		return nil, errors.New("connection refused")
	})}})
	_, err := c.Reload(context.Background(), "2024-05-01")
	require.Error(t, err)
	require.Contains(t, err.Error(), "connection refused")
}

func TestRetriesOnServerError(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = io.WriteString(w, `{"log":"ok"}`)
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, Retries: 1})
	text, err := c.FetchLog(context.Background())
	require.NoError(t, err)
	require.Equal(t, "ok", text)
	require.Equal(t, int32(2), hits.Load())
}

func TestReloadIsNotRetried(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"status":"error","stderr":"scraper crashed"}`)
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, Retries: 3})
	res, err := c.Reload(context.Background(), "2024-05-01")
	require.NoError(t, err)
	require.Equal(t, "error", res.Label())
	require.Equal(t, int32(1), hits.Load())
}

// slowBackend answers every endpoint after delay, or gives up when the client does.
func slowBackend(t *testing.T, delay time.Duration) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(delay):
		case <-r.Context().Done():
			return
		}
		switch r.URL.Path {
		case "/api/reload":
			_, _ = io.WriteString(w, `{"status":"ok"}`)
		case "/api/log":
			_, _ = io.WriteString(w, `{"log":"done"}`)
		default:
			_, _ = io.WriteString(w, `{"games":[]}`)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestScrapeRequestsOutliveReadTimeout(t *testing.T) {
	srv := slowBackend(t, 300*time.Millisecond)
	c := NewClient(Config{BaseURL: srv.URL, Timeout: 50 * time.Millisecond})
	ctx := context.Background()

	res, err := c.Reload(ctx, "2024-05-01")
	require.NoError(t, err)
	require.Equal(t, "ok", res.Label())

	_, err = c.FetchGames(ctx, "2024-05-01")
	require.NoError(t, err)

	_, err = c.FetchLog(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	_, err = c.FetchGames(ctx, "")
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestScrapeTimeoutBoundsReload(t *testing.T) {
	srv := slowBackend(t, 300*time.Millisecond)
	c := NewClient(Config{BaseURL: srv.URL, Timeout: time.Second, ScrapeTimeout: 50 * time.Millisecond})
	_, err := c.Reload(context.Background(), "2024-05-01")
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRequestIDsAreUnique(t *testing.T) {
	seen := map[string]bool{}
	c := NewClient(Config{HTTPClient: &http.Client{Transport: roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		seen[req.Header.Get("X-Request-ID")] = true
		return jsonResponse(http.StatusOK, `{"log":""}`), nil
	})}})
	for i := 0; i < 3; i++ {
		_, err := c.FetchLog(context.Background())
		require.NoError(t, err)
	}
	require.Len(t, seen, 3)
}
