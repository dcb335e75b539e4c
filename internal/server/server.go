package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/mcp-ols-go/internal/apptype"
	"github.com/ZanzyTHEbar/mcp-ols-go/internal/buildinfo"
	"github.com/ZanzyTHEbar/mcp-ols-go/internal/hierarchy"
	"github.com/ZanzyTHEbar/mcp-ols-go/internal/metrics"
	"github.com/ZanzyTHEbar/mcp-ols-go/internal/olsapi"
	"github.com/ZanzyTHEbar/mcp-ols-go/internal/similarity"
	"github.com/modelcontextprotocol/go-sdk/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverName = "mcp-ols-go"

// MCPServer handles MCP protocol communication
type MCPServer struct {
	server            *mcp.Server
	ols               *olsapi.Client
	walker            *hierarchy.Engine
	similar           *similarity.Engine
	embeddingProvider string
}

// NewMCPServer creates a new MCP server over the given OLS client and
// engines. embeddingProvider is reported by health_check; empty means
// similarity runs degraded.
func NewMCPServer(ols *olsapi.Client, walker *hierarchy.Engine, similar *similarity.Engine, embeddingProvider string) *MCPServer {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    serverName,
		Version: buildinfo.Version,
	}, nil)

	s := &MCPServer{
		server:            server,
		ols:               ols,
		walker:            walker,
		similar:           similar,
		embeddingProvider: embeddingProvider,
	}

	// initialize metrics from env (no-op if disabled)
	metrics.InitFromEnv()
	s.setupToolHandlers()
	return s
}

// setupToolHandlers registers all MCP tools
func (s *MCPServer) setupToolHandlers() {
	searchTermsInputSchema, err := jsonschema.For[apptype.SearchTermsArgs]()
	if err != nil {
		panic(fmt.Sprintf("failed to create schema for SearchTermsArgs: %v", err))
	}
	searchTermsOutputSchema, err := jsonschema.For[apptype.SearchTermsResult]()
	if err != nil {
		panic(fmt.Sprintf("failed to create schema for SearchTermsResult: %v", err))
	}
	searchOntologiesInputSchema, err := jsonschema.For[apptype.SearchOntologiesArgs]()
	if err != nil {
		panic(fmt.Sprintf("failed to create schema for SearchOntologiesArgs: %v", err))
	}
	searchOntologiesOutputSchema, err := jsonschema.For[apptype.SearchOntologiesResult]()
	if err != nil {
		panic(fmt.Sprintf("failed to create schema for SearchOntologiesResult: %v", err))
	}
	getOntologyInputSchema, err := jsonschema.For[apptype.GetOntologyArgs]()
	if err != nil {
		panic(fmt.Sprintf("failed to create schema for GetOntologyArgs: %v", err))
	}
	getOntologyOutputSchema, err := jsonschema.For[apptype.Ontology]()
	if err != nil {
		panic(fmt.Sprintf("failed to create schema for Ontology: %v", err))
	}
	getTermInputSchema, err := jsonschema.For[apptype.GetTermArgs]()
	if err != nil {
		panic(fmt.Sprintf("failed to create schema for GetTermArgs: %v", err))
	}
	getTermOutputSchema, err := jsonschema.For[apptype.Term]()
	if err != nil {
		panic(fmt.Sprintf("failed to create schema for Term: %v", err))
	}
	childrenInputSchema, err := jsonschema.For[apptype.HierarchyArgs]()
	if err != nil {
		panic(fmt.Sprintf("failed to create schema for HierarchyArgs (children): %v", err))
	}
	childrenOutputSchema, err := jsonschema.For[apptype.HierarchyResult]()
	if err != nil {
		panic(fmt.Sprintf("failed to create schema for HierarchyResult (children): %v", err))
	}
	// Fresh schemas for ancestors to avoid re-resolving the same root
	ancestorsInputSchema, err := jsonschema.For[apptype.HierarchyArgs]()
	if err != nil {
		panic(fmt.Sprintf("failed to create schema for HierarchyArgs (ancestors): %v", err))
	}
	ancestorsOutputSchema, err := jsonschema.For[apptype.HierarchyResult]()
	if err != nil {
		panic(fmt.Sprintf("failed to create schema for HierarchyResult (ancestors): %v", err))
	}
	findSimilarInputSchema, err := jsonschema.For[apptype.FindSimilarArgs]()
	if err != nil {
		panic(fmt.Sprintf("failed to create schema for FindSimilarArgs: %v", err))
	}
	findSimilarOutputSchema, err := jsonschema.For[apptype.FindSimilarResult]()
	if err != nil {
		panic(fmt.Sprintf("failed to create schema for FindSimilarResult: %v", err))
	}
	healthInputSchema, err := jsonschema.For[apptype.HealthArgs]()
	if err != nil {
		panic(fmt.Sprintf("failed to create schema for HealthArgs: %v", err))
	}
	healthOutputSchema, err := jsonschema.For[apptype.HealthResult]()
	if err != nil {
		panic(fmt.Sprintf("failed to create schema for HealthResult: %v", err))
	}

	mcp.AddTool(s.server, &mcp.Tool{
		Name:         "search_terms",
		Title:        "Search Terms",
		Description:  "Search for terms across ontologies. Results are ordered by descending relevance score.",
		InputSchema:  searchTermsInputSchema,
		OutputSchema: searchTermsOutputSchema,
	}, s.handleSearchTerms)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:         "search_ontologies",
		Title:        "Search Ontologies",
		Description:  "List available ontologies, optionally filtered by a search query.",
		InputSchema:  searchOntologiesInputSchema,
		OutputSchema: searchOntologiesOutputSchema,
	}, s.handleSearchOntologies)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:         "get_ontology_info",
		Title:        "Get Ontology Info",
		Description:  "Get detailed information about a specific ontology (e.g. 'efo', 'go', 'mondo').",
		InputSchema:  getOntologyInputSchema,
		OutputSchema: getOntologyOutputSchema,
	}, s.handleGetOntology)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:         "get_term_info",
		Title:        "Get Term Info",
		Description:  "Get detailed information about a term by IRI, short form or OBO curie.",
		InputSchema:  getTermInputSchema,
		OutputSchema: getTermOutputSchema,
	}, s.handleGetTerm)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:         "get_term_children",
		Title:        "Get Term Children",
		Description:  "Get child terms of a term, breadth-first up to maxDepth (default 1 = direct children).",
		InputSchema:  childrenInputSchema,
		OutputSchema: childrenOutputSchema,
	}, s.handleGetChildren)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:         "get_term_ancestors",
		Title:        "Get Term Ancestors",
		Description:  "Get ancestor terms of a term, breadth-first up to maxDepth (default 1 = direct parents).",
		InputSchema:  ancestorsInputSchema,
		OutputSchema: ancestorsOutputSchema,
	}, s.handleGetAncestors)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:         "find_similar_terms",
		Title:        "Find Similar Terms",
		Description:  "Find terms semantically similar to a query using embeddings; falls back to lexical results (degraded=true) when no embeddings provider is configured.",
		InputSchema:  findSimilarInputSchema,
		OutputSchema: findSimilarOutputSchema,
	}, s.handleFindSimilar)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:         "health_check",
		Title:        "Health Check",
		Description:  "Returns server and configuration information.",
		InputSchema:  healthInputSchema,
		OutputSchema: healthOutputSchema,
	}, s.handleHealth)
}

// handleSearchTerms handles the search_terms tool call
func (s *MCPServer) handleSearchTerms(
	ctx context.Context,
	session *mcp.ServerSession,
	params *mcp.CallToolParamsFor[apptype.SearchTermsArgs],
) (*mcp.CallToolResultFor[apptype.SearchTermsResult], error) {
	done := metrics.TimeTool("search_terms")
	var success bool
	defer func() { done(success) }()
	args := params.Arguments

	hits, total, err := s.ols.SearchTerms(ctx, olsapi.TermSearchQuery{
		Query:           args.Query,
		Ontology:        args.Ontology,
		Exact:           args.Exact,
		IncludeObsolete: args.IncludeObsolete,
		Rows:            args.Rows,
		Start:           args.Start,
	})
	if err != nil {
		return nil, fmt.Errorf("search_terms failed: %w", err)
	}
	success = true

	return &mcp.CallToolResultFor[apptype.SearchTermsResult]{
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf("Found %d terms for %q (showing %d)", total, args.Query, len(hits))},
		},
		StructuredContent: apptype.SearchTermsResult{Hits: hits, Total: total},
	}, nil
}

// handleSearchOntologies handles the search_ontologies tool call
func (s *MCPServer) handleSearchOntologies(
	ctx context.Context,
	session *mcp.ServerSession,
	params *mcp.CallToolParamsFor[apptype.SearchOntologiesArgs],
) (*mcp.CallToolResultFor[apptype.SearchOntologiesResult], error) {
	done := metrics.TimeTool("search_ontologies")
	var success bool
	defer func() { done(success) }()
	args := params.Arguments

	ontologies, total, hasMore, err := s.ols.SearchOntologies(ctx, args.Query, args.Page, args.Size)
	if err != nil {
		return nil, fmt.Errorf("search_ontologies failed: %w", err)
	}
	success = true

	return &mcp.CallToolResultFor[apptype.SearchOntologiesResult]{
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf("Found %d ontologies (showing %d)", total, len(ontologies))},
		},
		StructuredContent: apptype.SearchOntologiesResult{Ontologies: ontologies, Total: total, HasMore: hasMore},
	}, nil
}

// handleGetOntology handles the get_ontology_info tool call
func (s *MCPServer) handleGetOntology(
	ctx context.Context,
	session *mcp.ServerSession,
	params *mcp.CallToolParamsFor[apptype.GetOntologyArgs],
) (*mcp.CallToolResultFor[apptype.Ontology], error) {
	done := metrics.TimeTool("get_ontology_info")
	var success bool
	defer func() { done(success) }()

	ontology, err := s.ols.GetOntology(ctx, params.Arguments.Ontology)
	if err != nil {
		return nil, fmt.Errorf("get_ontology_info failed: %w", err)
	}
	success = true

	return &mcp.CallToolResultFor[apptype.Ontology]{
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf("Ontology %s: %s", ontology.ID, ontology.Title)},
		},
		StructuredContent: *ontology,
	}, nil
}

// handleGetTerm handles the get_term_info tool call
func (s *MCPServer) handleGetTerm(
	ctx context.Context,
	session *mcp.ServerSession,
	params *mcp.CallToolParamsFor[apptype.GetTermArgs],
) (*mcp.CallToolResultFor[apptype.Term], error) {
	done := metrics.TimeTool("get_term_info")
	var success bool
	defer func() { done(success) }()

	term, err := s.ols.GetTerm(ctx, params.Arguments.Ontology, params.Arguments.ID)
	if err != nil {
		return nil, fmt.Errorf("get_term_info failed: %w", err)
	}
	success = true

	return &mcp.CallToolResultFor[apptype.Term]{
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf("Term %s (%s): %s", term.IRI, term.Ontology, term.Label)},
		},
		StructuredContent: *term,
	}, nil
}

func (s *MCPServer) handleGetChildren(
	ctx context.Context,
	session *mcp.ServerSession,
	params *mcp.CallToolParamsFor[apptype.HierarchyArgs],
) (*mcp.CallToolResultFor[apptype.HierarchyResult], error) {
	return s.walkHierarchy(ctx, "get_term_children", olsapi.RelChildren, params.Arguments)
}

func (s *MCPServer) handleGetAncestors(
	ctx context.Context,
	session *mcp.ServerSession,
	params *mcp.CallToolParamsFor[apptype.HierarchyArgs],
) (*mcp.CallToolResultFor[apptype.HierarchyResult], error) {
	return s.walkHierarchy(ctx, "get_term_ancestors", olsapi.RelParents, params.Arguments)
}

func (s *MCPServer) walkHierarchy(ctx context.Context, tool string, rel olsapi.Relation, args apptype.HierarchyArgs) (*mcp.CallToolResultFor[apptype.HierarchyResult], error) {
	done := metrics.TimeTool(tool)
	var success bool
	defer func() { done(success) }()

	if strings.TrimSpace(args.Ontology) == "" || strings.TrimSpace(args.TermIRI) == "" {
		return nil, fmt.Errorf("%s failed: %w: ontology and termIri are required", tool, olsapi.ErrValidation)
	}
	if args.MaxDepth < 0 {
		return nil, fmt.Errorf("%s failed: %w: maxDepth must not be negative", tool, olsapi.ErrValidation)
	}

	terms, err := s.walker.Walk(ctx, args.Ontology, args.TermIRI, rel, args.MaxDepth, args.IncludeObsolete)
	if err != nil {
		return nil, fmt.Errorf("%s failed: %w", tool, err)
	}
	success = true

	return &mcp.CallToolResultFor[apptype.HierarchyResult]{
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf("Found %d terms from %s", len(terms), args.TermIRI)},
		},
		StructuredContent: apptype.HierarchyResult{Terms: terms},
	}, nil
}

// handleFindSimilar handles the find_similar_terms tool call
func (s *MCPServer) handleFindSimilar(
	ctx context.Context,
	session *mcp.ServerSession,
	params *mcp.CallToolParamsFor[apptype.FindSimilarArgs],
) (*mcp.CallToolResultFor[apptype.FindSimilarResult], error) {
	done := metrics.TimeTool("find_similar_terms")
	var success bool
	defer func() { done(success) }()
	args := params.Arguments

	results, degraded, err := s.similar.FindSimilar(ctx, args.Ontology, args.Query, args.TopK)
	if err != nil {
		return nil, fmt.Errorf("find_similar_terms failed: %w", err)
	}
	success = true

	text := fmt.Sprintf("Found %d similar terms for %q", len(results), args.Query)
	if degraded {
		text += " (degraded: lexical ranking only, no embeddings provider)"
	}
	return &mcp.CallToolResultFor[apptype.FindSimilarResult]{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
		StructuredContent: apptype.FindSimilarResult{Results: results, Degraded: degraded},
	}, nil
}

// handleHealth returns basic server health information
func (s *MCPServer) handleHealth(
	ctx context.Context,
	session *mcp.ServerSession,
	params *mcp.CallToolParamsFor[apptype.HealthArgs],
) (*mcp.CallToolResultFor[apptype.HealthResult], error) {
	done := metrics.TimeTool("health_check")
	defer func() { done(true) }()
	res := apptype.HealthResult{
		Name:               serverName,
		Version:            buildinfo.Version,
		Revision:           buildinfo.Revision,
		BuildDate:          buildinfo.BuildDate,
		BaseURL:            s.ols.Config().BaseURL,
		EmbeddingsProvider: s.embeddingProvider,
	}
	return &mcp.CallToolResultFor[apptype.HealthResult]{
		Content:           []mcp.Content{&mcp.TextContent{Text: "ok"}},
		StructuredContent: res,
	}, nil
}

// Run starts the MCP server with stdio transport
func (s *MCPServer) Run(ctx context.Context) error {
	transport := mcp.NewStdioTransport()
	return s.server.Run(ctx, transport)
}

// RunSSE starts the MCP server over SSE at the given address and endpoint
func (s *MCPServer) RunSSE(ctx context.Context, addr string, endpoint string) error {
	handler := mcp.NewSSEHandler(func(r *http.Request) *mcp.Server { return s.server })
	mux := http.NewServeMux()
	mux.Handle(endpoint, handler)
	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Printf("SSE MCP server listening on %s%s", addr, endpoint)
	return srv.ListenAndServe()
}
