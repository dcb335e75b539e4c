package olsapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/mcp-ols-go/internal/metrics"
	"github.com/cenkalti/backoff/v5"
)

// Fixed endpoint allow-list. Every outbound request is built from one
// of these paths; nothing else is ever fetched.
const (
	epSearch     = "/api/search"
	epOntologies = "/api/v2/ontologies"
	epTerms      = "/api/terms"
)

// Relation names a hierarchy edge direction on the term relatives
// endpoint.
type Relation string

const (
	RelChildren Relation = "children"
	RelParents  Relation = "parents"
)

func (r Relation) valid() bool {
	return r == RelChildren || r == RelParents
}

// Client issues GET requests against an OLS deployment and decodes the
// responses into normalized records. It holds no mutable state and is
// safe for concurrent use.
type Client struct {
	cfg  *Config
	http *http.Client
}

// NewClient creates a new Client from the given config. A nil config
// falls back to NewConfig().
func NewClient(cfg *Config) *Client {
	if cfg == nil {
		cfg = NewConfig()
	}
	return &Client{cfg: cfg, http: &http.Client{Timeout: cfg.Timeout}}
}

// NewClientWithHTTP substitutes the HTTP client, for tests.
func NewClientWithHTTP(cfg *Config, h *http.Client) *Client {
	c := NewClient(cfg)
	if h != nil {
		c.http = h
	}
	return c
}

// Config returns the client configuration.
func (c *Client) Config() *Config { return c.cfg }

// encodeIRI double URL-encodes an IRI as the OLS v2 API requires for
// path segments.
func encodeIRI(iri string) string {
	once := strings.ReplaceAll(url.QueryEscape(iri), "+", "%20")
	return strings.ReplaceAll(url.QueryEscape(once), "+", "%20")
}

// get fetches an allow-listed endpoint, retrying timeouts and 5xx with
// exponential backoff. 4xx responses are never retried. name is the
// logical endpoint label used for metrics.
func (c *Client) get(ctx context.Context, name, endpoint string, params url.Values) ([]byte, error) {
	if !strings.HasPrefix(endpoint, "/api/") {
		return nil, fmt.Errorf("%w: endpoint %q not allowed", ErrValidation, endpoint)
	}
	reqURL := strings.TrimRight(c.cfg.BaseURL, "/") + endpoint
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	done := metrics.TimeUpstream(name)
	var success bool
	defer func() { done(success) }()

	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = 250 * time.Millisecond

	tries := c.cfg.MaxRetries
	if tries < 1 {
		tries = 1
	}

	body, err := backoff.Retry(ctx, func() ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, backoff.Permanent(err)
		}
		req.Header.Set("Accept", "application/json")
		resp, err := c.http.Do(req)
		if err != nil {
			// transport failure, retryable
			return nil, err
		}
		defer resp.Body.Close()
		switch {
		case resp.StatusCode == http.StatusNotFound:
			return nil, backoff.Permanent(fmt.Errorf("%w: %s", ErrNotFound, endpoint))
		case resp.StatusCode >= 500:
			return nil, fmt.Errorf("%w: status %s from %s", ErrUpstream, resp.Status, endpoint)
		case resp.StatusCode >= 400:
			return nil, backoff.Permanent(fmt.Errorf("%w: status %s from %s", ErrUpstream, resp.Status, endpoint))
		}
		b, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}
		return b, nil
	}, backoff.WithBackOff(exp), backoff.WithMaxTries(uint(tries)))
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrUpstream) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrNetwork, endpoint, err)
	}
	success = true
	return body, nil
}
