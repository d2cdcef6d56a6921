package internal

import (
	"net/http"
	"time"
)

const apiBase = "https://api.ruguoapp.com"

// Config carries the fixed request surface shared by the authenticated
// client and the QR auth flow. Headers here are sent on every call; the
// per-call token headers are layered on top by the caller.
type Config struct {
	BaseURL        string
	Headers        map[string]string
	HTTPClient     *http.Client
	PollInterval   time.Duration
	PollTimeout    time.Duration
	RateLimitDelay time.Duration
}

// DefaultConfig returns the production settings for api.ruguoapp.com.
// The web client's headers are required: the API rejects calls without a
// browser-shaped Origin/User-Agent.
func DefaultConfig() Config {
	return Config{
		BaseURL: apiBase,
		Headers: map[string]string{
			"Origin": "https://web.okjike.com",
			"User-Agent": "Mozilla/5.0 (iPhone; CPU iPhone OS 18_5 like Mac OS X) " +
				"AppleWebKit/605.1.15 (KHTML, like Gecko) Version/18.5 " +
				"Mobile/15E148 Safari/604.1",
			"Accept": "application/json, text/plain, */*",
			"DNT":    "1",
		},
		HTTPClient:     &http.Client{},
		PollInterval:   1 * time.Second,
		PollTimeout:    180 * time.Second,
		RateLimitDelay: 500 * time.Millisecond,
	}
}

func (cfg Config) httpClient() *http.Client {
	if cfg.HTTPClient != nil {
		return cfg.HTTPClient
	}
	return http.DefaultClient
}

func (cfg Config) applyHeaders(req *http.Request) {
	for k, v := range cfg.Headers {
		req.Header.Set(k, v)
	}
}
