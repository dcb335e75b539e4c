package embeddings

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path"
	"strconv"
	"strings"
	"time"
)

type ollamaProvider struct {
	host  string
	model string
	dims  int
	http  *http.Client
}

func newOllamaFromEnv() Provider {
	host := os.Getenv("OLLAMA_HOST")
	if host == "" {
		return nil
	}
	model := os.Getenv("OLLAMA_EMBEDDINGS_MODEL")
	if model == "" {
		model = "nomic-embed-text"
	}

	// Default 60s to tolerate cold model loads. OLLAMA_HTTP_TIMEOUT
	// accepts a Go duration ("60s") or plain seconds ("60").
	timeout := 60 * time.Second
	if v := strings.TrimSpace(os.Getenv("OLLAMA_HTTP_TIMEOUT")); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			timeout = d
		} else if n, err2 := strconv.Atoi(v); err2 == nil {
			timeout = time.Duration(n) * time.Second
		}
	}

	return &ollamaProvider{host: host, model: model, dims: 768, http: &http.Client{Timeout: timeout}}
}

func (p *ollamaProvider) Name() string    { return "ollama" }
func (p *ollamaProvider) Dimensions() int { return p.dims }

func (p *ollamaProvider) Embed(ctx context.Context, inputs []string) ([][]float32, error) {
	if len(inputs) == 0 {
		return [][]float32{}, nil
	}
	base, err := url.Parse(p.host)
	if err != nil {
		return nil, err
	}
	embedURL := *base
	embedURL.Path = path.Join(embedURL.Path, "/api/embed")

	payload := map[string]any{"model": p.model, "input": inputs}
	var out struct {
		Embeddings [][]float32 `json:"embeddings"`
		Error      string      `json:"error"`
	}
	if err := postJSON(ctx, p.http, embedURL.String(), "", payload, &out); err != nil {
		return nil, err
	}
	if out.Error != "" {
		return nil, fmt.Errorf("ollama error: %s", out.Error)
	}
	if len(out.Embeddings) != len(inputs) {
		return nil, fmt.Errorf("ollama returned %d embeddings for %d inputs", len(out.Embeddings), len(inputs))
	}
	return out.Embeddings, nil
}
