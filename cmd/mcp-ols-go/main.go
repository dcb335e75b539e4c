package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ZanzyTHEbar/mcp-ols-go/internal/embeddings"
	"github.com/ZanzyTHEbar/mcp-ols-go/internal/hierarchy"
	"github.com/ZanzyTHEbar/mcp-ols-go/internal/metrics"
	"github.com/ZanzyTHEbar/mcp-ols-go/internal/olsapi"
	"github.com/ZanzyTHEbar/mcp-ols-go/internal/server"
	"github.com/ZanzyTHEbar/mcp-ols-go/internal/similarity"
)

var (
	olsURL      = flag.String("ols-url", "", "OLS base URL (default: https://www.ebi.ac.uk/ols4)")
	timeout     = flag.Duration("timeout", 0, "Per-request HTTP timeout (default: 30s)")
	provider    = flag.String("embeddings-provider", "", "Embeddings provider: openai, ollama or localai (default: EMBEDDINGS_PROVIDER env, empty = degraded similarity)")
	transport   = flag.String("transport", "stdio", "Transport to use: stdio or sse")
	addr        = flag.String("addr", ":8080", "Address to listen on when using SSE transport")
	sseEndpoint = flag.String("sse-endpoint", "/sse", "SSE endpoint path when using SSE transport")
)

func main() {
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Println("Received shutdown signal, closing server...")
		cancel()
	}()

	// Initialize client configuration
	config := olsapi.NewConfig()

	// Initialize metrics (noop if disabled)
	metrics.InitFromEnv()

	// Override with command line flags if provided
	if *olsURL != "" {
		config.BaseURL = *olsURL
	}
	if *timeout > 0 {
		config.Timeout = *timeout
	}

	client := olsapi.NewClient(config)

	embedder := embeddings.NewFromEnv()
	if *provider != "" {
		embedder = embeddings.New(*provider)
		if embedder == nil {
			log.Fatalf("unknown or unconfigured embeddings provider: %s", *provider)
		}
	}
	var cache *embeddings.Cache
	providerName := ""
	if embedder != nil {
		cache = embeddings.NewCache(embedder, 0)
		providerName = embedder.Name()
		log.Printf("Embeddings provider: %s", providerName)
	} else {
		log.Println("No embeddings provider configured; find_similar_terms will return degraded lexical results")
	}

	mcpServer := server.NewMCPServer(
		client,
		hierarchy.NewEngine(client),
		similarity.NewEngine(client, cache),
		providerName,
	)

	// Run the server with selected transport
	log.Println("Starting OLS MCP server...")
	switch *transport {
	case "stdio":
		go func() {
			if err := mcpServer.Run(ctx); err != nil {
				log.Printf("Server error: %v", err)
			}
			cancel()
		}()
	case "sse":
		go func() {
			if err := mcpServer.RunSSE(ctx, *addr, *sseEndpoint); err != nil {
				log.Printf("SSE server error: %v", err)
			}
			cancel()
		}()
	default:
		log.Fatalf("unknown transport: %s (expected: stdio or sse)", *transport)
	}

	<-ctx.Done()

	// give the transport a beat to flush
	time.Sleep(50 * time.Millisecond)
	log.Println("Server stopped")
}
