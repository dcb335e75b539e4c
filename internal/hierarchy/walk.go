package hierarchy

import (
	"context"
	"errors"
	"fmt"

	"github.com/ZanzyTHEbar/mcp-ols-go/internal/apptype"
	"github.com/ZanzyTHEbar/mcp-ols-go/internal/olsapi"
	"golang.org/x/sync/errgroup"
)

// DefaultMaxDepth limits a walk to direct relatives unless the caller
// asks for more.
const DefaultMaxDepth = 1

// defaultConcurrency bounds parallel relative fetches within one level.
const defaultConcurrency = 4

// Source provides term lookups and paginated relative fetches. It is
// implemented by *olsapi.Client; tests substitute a fake.
type Source interface {
	GetTerm(ctx context.Context, ontology, id string) (*apptype.Term, error)
	Relatives(ctx context.Context, ontology, iri string, rel olsapi.Relation, page int, includeObsolete bool) ([]apptype.Term, bool, error)
}

// Engine walks parent or child edges breadth-first from a starting
// term. It is stateless across calls and safe for concurrent use.
type Engine struct {
	src         Source
	concurrency int
}

// NewEngine creates a traversal engine over the given source.
func NewEngine(src Source) *Engine {
	return &Engine{src: src, concurrency: defaultConcurrency}
}

// Walk returns the terms reachable from (ontology, iri) along rel
// edges, in breadth-first discovery order and bounded by maxDepth
// levels (<=0 means DefaultMaxDepth). Each term appears at most once,
// at its first-discovered depth, so cyclic or diamond-shaped graphs
// terminate. Ties within a level keep the upstream order.
//
// A missing start term fails with olsapi.ErrNotFound. Any failure
// mid-walk aborts the whole call with olsapi.ErrUpstream; no partial
// result is returned.
func (e *Engine) Walk(ctx context.Context, ontology, iri string, rel olsapi.Relation, maxDepth int, includeObsolete bool) ([]apptype.TermNode, error) {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	start, err := e.src.GetTerm(ctx, ontology, iri)
	if err != nil {
		return nil, err
	}

	visited := map[string]struct{}{start.IRI: {}}
	frontier := []string{start.IRI}
	out := make([]apptype.TermNode, 0)

	for depth := 1; depth <= maxDepth && len(frontier) > 0; depth++ {
		perNode, err := e.fetchLevel(ctx, ontology, frontier, rel, includeObsolete)
		if err != nil {
			if errors.Is(err, olsapi.ErrValidation) || errors.Is(err, context.Canceled) {
				return nil, err
			}
			return nil, fmt.Errorf("%w: traversal aborted at depth %d: %v", olsapi.ErrUpstream, depth, err)
		}
		next := make([]string, 0)
		for _, terms := range perNode {
			for _, t := range terms {
				if _, ok := visited[t.IRI]; ok {
					continue
				}
				visited[t.IRI] = struct{}{}
				out = append(out, apptype.TermNode{Term: t, Depth: depth})
				next = append(next, t.IRI)
			}
		}
		frontier = next
	}
	return out, nil
}

// fetchLevel fetches all pages of relatives for every frontier node.
// Nodes are fetched concurrently but results are merged back in
// frontier order, so output ordering is deterministic.
func (e *Engine) fetchLevel(ctx context.Context, ontology string, frontier []string, rel olsapi.Relation, includeObsolete bool) ([][]apptype.Term, error) {
	perNode := make([][]apptype.Term, len(frontier))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)
	for i, id := range frontier {
		g.Go(func() error {
			var all []apptype.Term
			for page := 0; ; page++ {
				terms, more, err := e.src.Relatives(gctx, ontology, id, rel, page, includeObsolete)
				if err != nil {
					return err
				}
				all = append(all, terms...)
				if !more {
					break
				}
			}
			perNode[i] = all
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return perNode, nil
}
