package olsapi

import (
	"os"
	"time"
)

// DefaultBaseURL points at the public EBI OLS4 deployment.
const DefaultBaseURL = "https://www.ebi.ac.uk/ols4"

const (
	defaultTimeout    = 30 * time.Second
	defaultMaxRetries = 3
	defaultPageSize   = 20
)

// Config holds the OLS client configuration
type Config struct {
	// BaseURL is the root of the OLS deployment, without a trailing
	// slash (e.g. https://www.ebi.ac.uk/ols4).
	BaseURL string
	// Timeout applies per HTTP request.
	Timeout time.Duration
	// MaxRetries bounds retries of idempotent GETs on timeout or 5xx.
	MaxRetries int
	// PageSize is the page size used for paginated hierarchy fetches.
	PageSize int
}

// NewConfig creates a new Config from environment variables
func NewConfig() *Config {
	base := os.Getenv("OLS_BASE_URL")
	if base == "" {
		base = DefaultBaseURL
	}
	return &Config{
		BaseURL:    base,
		Timeout:    defaultTimeout,
		MaxRetries: defaultMaxRetries,
		PageSize:   defaultPageSize,
	}
}
