package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"matchday/internal/fakeapi"
)

func runArgs(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	t.Setenv("MATCHDAY_CONFIG", "")
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestHelpExitsCleanly(t *testing.T) {
	for _, arg := range []string{"-h", "--help"} {
		code, _, stderr := runArgs(t, arg)
		require.Equal(t, 0, code, arg)
		require.Contains(t, stderr, "-scrape-timeout")
		require.NotContains(t, stderr, "config error")
	}
}

func TestConfigErrorExitsOne(t *testing.T) {
	code, _, stderr := runArgs(t, "--date", "tomorrow")
	require.Equal(t, 1, code)
	require.Contains(t, stderr, "config error: --date")

	code, _, stderr = runArgs(t, "--no-such-flag")
	require.Equal(t, 1, code)
	require.Contains(t, stderr, "config error:")
}

func TestVersion(t *testing.T) {
	code, stdout, _ := runArgs(t, "--version")
	require.Equal(t, 0, code)
	require.Contains(t, stdout, "matchday ")
}

func TestPrintAgainstDemoBackend(t *testing.T) {
	srv, err := fakeapi.New(fakeapi.Options{LogPath: filepath.Join(t.TempDir(), "reload.log")})
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	code, stdout, stderr := runArgs(t, "--api", ts.URL, "--date", "2024-05-01", "--print")
	require.Equal(t, 0, code, stderr)
	require.Contains(t, stdout, "2024-05-01  LiveOnSat ")

	code, _, stderr = runArgs(t, "--api", ts.URL, "--date", "2024-05-01", "--print", "--timeout", "1s", "--scrape-timeout", "-1s")
	require.Equal(t, 1, code)
	require.Contains(t, stderr, "--scrape-timeout")
}
