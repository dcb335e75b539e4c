package embeddings

import (
	"context"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"
	"time"
)

// LocalAI or any OpenAI-compatible /v1/embeddings endpoint.

type localAIProvider struct {
	baseURL string // e.g., http://localhost:8080/v1
	model   string
	dims    int
	http    *http.Client
	apiKey  string // optional
}

func newLocalAIFromEnv() Provider {
	base := strings.TrimSpace(os.Getenv("LOCALAI_BASE_URL"))
	if base == "" {
		base = "http://localhost:8080/v1"
	}
	model := strings.TrimSpace(os.Getenv("LOCALAI_EMBEDDINGS_MODEL"))
	if model == "" {
		model = "text-embedding-ada-002"
	}
	dims := 1536
	if strings.Contains(model, "large") {
		dims = 3072
	}
	return &localAIProvider{baseURL: base, model: model, dims: dims, http: &http.Client{Timeout: 15 * time.Second}, apiKey: os.Getenv("LOCALAI_API_KEY")}
}

func (p *localAIProvider) Name() string    { return "localai" }
func (p *localAIProvider) Dimensions() int { return p.dims }

func (p *localAIProvider) Embed(ctx context.Context, inputs []string) ([][]float32, error) {
	if len(inputs) == 0 {
		return [][]float32{}, nil
	}
	base, err := url.Parse(p.baseURL)
	if err != nil {
		return nil, err
	}
	embURL := *base
	embURL.Path = path.Join(embURL.Path, "/embeddings")
	payload := map[string]any{
		"model": p.model,
		"input": inputs,
	}
	var out struct {
		Data []struct {
			Embedding []float64 `json:"embedding"`
		} `json:"data"`
	}
	if err := postJSON(ctx, p.http, embURL.String(), p.apiKey, payload, &out); err != nil {
		return nil, err
	}
	res := make([][]float32, 0, len(out.Data))
	for _, d := range out.Data {
		res = append(res, f64to32(d.Embedding))
	}
	return res, nil
}
