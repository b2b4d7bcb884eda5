package api

import "time"

const (
	defaultBaseURL     = "http://127.0.0.1:5000"
	defaultHTTPTimeout = 30 * time.Second
	maxErrorBody       = 512
	maxBody            = 8 << 20

	pathGames  = "/api/games"
	pathLog    = "/api/log"
	pathReload = "/api/reload"

	headerRequestID = "X-Request-ID"
)
