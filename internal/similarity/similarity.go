package similarity

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/ZanzyTHEbar/mcp-ols-go/internal/apptype"
	"github.com/ZanzyTHEbar/mcp-ols-go/internal/embeddings"
	"github.com/ZanzyTHEbar/mcp-ols-go/internal/olsapi"
)

const (
	// DefaultTopK bounds the result list when the caller does not ask
	// for a size.
	DefaultTopK = 10
	// defaultPoolSize bounds the lexical candidate pool that gets
	// scored. Scoring a whole ontology is out of scope for a stateless
	// per-request design.
	defaultPoolSize = 50
)

// Searcher provides the lexical candidate pool. Implemented by
// *olsapi.Client; tests substitute a fake.
type Searcher interface {
	SearchTerms(ctx context.Context, q olsapi.TermSearchQuery) ([]apptype.SearchHit, int, error)
}

// Engine ranks ontology terms by embedding similarity to a query.
type Engine struct {
	search   Searcher
	embed    *embeddings.Cache // nil when no provider is configured
	poolSize int
}

// NewEngine creates a similarity engine. cache may be nil, in which
// case every lookup takes the degraded lexical-only path.
func NewEngine(search Searcher, cache *embeddings.Cache) *Engine {
	if cache != nil && cache.Provider() == nil {
		cache = nil
	}
	return &Engine{search: search, embed: cache, poolSize: defaultPoolSize}
}

// FindSimilar returns up to topK terms similar to the query text,
// ordered by non-increasing score; equal scores keep their lexical
// search rank. The boolean is true when embeddings were unavailable and
// the unscored lexical pool was returned instead.
func (e *Engine) FindSimilar(ctx context.Context, ontology, query string, topK int) ([]apptype.SimilarTerm, bool, error) {
	if strings.TrimSpace(query) == "" {
		return nil, false, fmt.Errorf("%w: query must not be empty", olsapi.ErrValidation)
	}
	if topK <= 0 {
		topK = DefaultTopK
	}

	hits, _, err := e.search.SearchTerms(ctx, olsapi.TermSearchQuery{
		Query:    query,
		Ontology: ontology,
		Rows:     e.poolSize,
	})
	if err != nil {
		return nil, false, err
	}
	if len(hits) == 0 {
		return []apptype.SimilarTerm{}, false, nil
	}

	if e.embed == nil {
		return lexicalFallback(hits, topK), true, nil
	}

	queryVec, err := e.embed.Embed(ctx, query)
	if err != nil {
		return lexicalFallback(hits, topK), true, nil
	}
	texts := make([]string, len(hits))
	for i, h := range hits {
		texts[i] = candidateText(h)
	}
	vecs, err := e.embed.EmbedBatch(ctx, texts)
	if err != nil {
		return lexicalFallback(hits, topK), true, nil
	}

	results := make([]apptype.SimilarTerm, len(hits))
	for i, h := range hits {
		results[i] = apptype.SimilarTerm{Term: h, Score: score(queryVec, vecs[i])}
	}
	// Stable sort keeps the lexical rank as tie-break.
	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if len(results) > topK {
		results = results[:topK]
	}
	return results, false, nil
}

// candidateText is the text a candidate is embedded as: label plus
// definition when present.
func candidateText(h apptype.SearchHit) string {
	if h.Description == "" {
		return h.Label
	}
	return h.Label + ". " + h.Description
}

func lexicalFallback(hits []apptype.SearchHit, topK int) []apptype.SimilarTerm {
	if len(hits) > topK {
		hits = hits[:topK]
	}
	out := make([]apptype.SimilarTerm, len(hits))
	for i, h := range hits {
		out[i] = apptype.SimilarTerm{Term: h}
	}
	return out
}

// score maps cosine similarity from [-1, 1] onto [0, 1].
func score(a, b []float32) float64 {
	c := cosine(a, b)
	s := (c + 1) / 2
	if s < 0 {
		return 0
	}
	if s > 1 {
		return 1
	}
	return s
}

func cosine(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, na, nb float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
