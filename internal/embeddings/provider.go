package embeddings

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
)

// Provider defines a simple embeddings provider interface.
// Implementations should be concurrency-safe.
type Provider interface {
	// Name returns the provider name (e.g., "openai", "ollama").
	Name() string
	// Dimensions returns the embedding dimensionality this provider produces.
	Dimensions() int
	// Embed returns one embedding per input string.
	Embed(ctx context.Context, inputs []string) ([][]float32, error)
}

// NewFromEnv constructs a provider based on environment variables.
// EMBEDDINGS_PROVIDER: "openai", "ollama", "localai", or empty for
// disabled. A nil return means similarity lookups degrade to lexical
// results; callers must tolerate it.
func NewFromEnv() Provider {
	return New(os.Getenv("EMBEDDINGS_PROVIDER"))
}

// New constructs a provider by name. Unknown or empty names return nil.
func New(name string) Provider {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "openai":
		return newOpenAIFromEnv()
	case "ollama":
		return newOllamaFromEnv()
	case "localai", "llamacpp", "llama.cpp":
		return newLocalAIFromEnv()
	default:
		return nil
	}
}

// postJSON posts a JSON payload and decodes the JSON response into out.
// Non-2xx statuses are reported with the upstream error message when
// the body carries one.
func postJSON(ctx context.Context, h *http.Client, url, bearer string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	resp, err := h.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var ep struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&ep)
		if ep.Error.Message != "" {
			return fmt.Errorf("embeddings error: %s", ep.Error.Message)
		}
		return fmt.Errorf("embeddings http status: %s", resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func f64to32(v []float64) []float32 {
	out := make([]float32, len(v))
	for i := range v {
		out[i] = float32(v[i])
	}
	return out
}
