package ols

import (
	"context"
	"strings"

	"github.com/ZanzyTHEbar/mcp-ols-go/internal/apptype"
	"github.com/ZanzyTHEbar/mcp-ols-go/internal/embeddings"
	"github.com/ZanzyTHEbar/mcp-ols-go/internal/hierarchy"
	"github.com/ZanzyTHEbar/mcp-ols-go/internal/olsapi"
	"github.com/ZanzyTHEbar/mcp-ols-go/internal/similarity"
)

// Service provides a library-first API for ontology lookups without MCP
// transport.
type Service struct {
	client   *olsapi.Client
	walker   *hierarchy.Engine
	similar  *similarity.Engine
	provider string
}

// NewService constructs a Service with the provided config.
func NewService(cfg *Config) *Service {
	if cfg == nil {
		cfg = &Config{}
	}
	client := olsapi.NewClient(cfg.toInternal())
	provider := embeddings.NewFromEnv()
	if cfg.EmbeddingsProvider != "" {
		provider = embeddings.New(cfg.EmbeddingsProvider)
	}
	var cache *embeddings.Cache
	providerName := ""
	if provider != nil {
		cache = embeddings.NewCache(provider, 0)
		providerName = provider.Name()
	}
	return &Service{
		client:   client,
		walker:   hierarchy.NewEngine(client),
		similar:  similarity.NewEngine(client, cache),
		provider: providerName,
	}
}

// Client returns the underlying OLS client.
func (s *Service) Client() *olsapi.Client { return s.client }

// Walker returns the hierarchy traversal engine.
func (s *Service) Walker() *hierarchy.Engine { return s.walker }

// Similar returns the similarity engine.
func (s *Service) Similar() *similarity.Engine { return s.similar }

// EmbeddingsProvider returns the active provider name, or "" when
// similarity runs degraded.
func (s *Service) EmbeddingsProvider() string { return s.provider }

// SearchTerms performs a lexical term search.
func (s *Service) SearchTerms(ctx context.Context, query, ontology string, exact, includeObsolete bool, rows, start int) ([]apptype.SearchHit, int, error) {
	return s.client.SearchTerms(ctx, olsapi.TermSearchQuery{
		Query:           query,
		Ontology:        ontology,
		Exact:           exact,
		IncludeObsolete: includeObsolete,
		Rows:            rows,
		Start:           start,
	})
}

// SearchOntologies lists ontologies matching an optional query.
func (s *Service) SearchOntologies(ctx context.Context, query string, page, size int) ([]apptype.Ontology, int, bool, error) {
	return s.client.SearchOntologies(ctx, query, page, size)
}

// Ontology fetches metadata for one ontology.
func (s *Service) Ontology(ctx context.Context, id string) (*apptype.Ontology, error) {
	return s.client.GetOntology(ctx, id)
}

// Term resolves a term by IRI, short form or OBO curie.
func (s *Service) Term(ctx context.Context, ontology, id string) (*apptype.Term, error) {
	return s.client.GetTerm(ctx, ontology, id)
}

// Children walks child edges breadth-first up to maxDepth.
func (s *Service) Children(ctx context.Context, ontology, iri string, maxDepth int, includeObsolete bool) ([]apptype.TermNode, error) {
	return s.walker.Walk(ctx, ontology, iri, olsapi.RelChildren, maxDepth, includeObsolete)
}

// Ancestors walks parent edges breadth-first up to maxDepth.
func (s *Service) Ancestors(ctx context.Context, ontology, iri string, maxDepth int, includeObsolete bool) ([]apptype.TermNode, error) {
	return s.walker.Walk(ctx, ontology, iri, olsapi.RelParents, maxDepth, includeObsolete)
}

// FindSimilar ranks terms by embedding similarity to the query text.
func (s *Service) FindSimilar(ctx context.Context, ontology, query string, topK int) ([]apptype.SimilarTerm, bool, error) {
	return s.similar.FindSimilar(ctx, strings.TrimSpace(ontology), query, topK)
}
