package ols

import (
	"time"

	"github.com/ZanzyTHEbar/mcp-ols-go/internal/olsapi"
)

// Config exposes a stable wrapper for client configuration in package
// mode. Zero values fall back to the internal defaults.
type Config struct {
	// BaseURL of the OLS deployment (default https://www.ebi.ac.uk/ols4).
	BaseURL string
	// Timeout per HTTP request.
	Timeout time.Duration
	// MaxRetries for idempotent GETs on timeout or 5xx.
	MaxRetries int
	// PageSize for paginated hierarchy fetches.
	PageSize int
	// EmbeddingsProvider selects the embeddings backend ("openai",
	// "ollama", "localai"); empty disables similarity scoring.
	EmbeddingsProvider string
}

func (c *Config) toInternal() *olsapi.Config {
	cfg := olsapi.NewConfig()
	if c.BaseURL != "" {
		cfg.BaseURL = c.BaseURL
	}
	if c.Timeout > 0 {
		cfg.Timeout = c.Timeout
	}
	if c.MaxRetries > 0 {
		cfg.MaxRetries = c.MaxRetries
	}
	if c.PageSize > 0 {
		cfg.PageSize = c.PageSize
	}
	return cfg
}
