package main

import (
	"fmt"
	"os"
	"time"

	"github.com/lydlabs/ragcli/internal/adapters/driven/embedding/fallback"
	"github.com/lydlabs/ragcli/internal/adapters/driven/embedding/mock"
	embeddingopenai "github.com/lydlabs/ragcli/internal/adapters/driven/embedding/openai"
	"github.com/lydlabs/ragcli/internal/adapters/driven/fetch"
	llmopenai "github.com/lydlabs/ragcli/internal/adapters/driven/llm/openai"
	"github.com/lydlabs/ragcli/internal/adapters/driven/pdf"
	"github.com/lydlabs/ragcli/internal/adapters/driven/rerank/cohere"
	"github.com/lydlabs/ragcli/internal/adapters/driven/storage/sqlite"
	"github.com/lydlabs/ragcli/internal/adapters/driven/supabase"
	"github.com/lydlabs/ragcli/internal/adapters/driving/cli"
	"github.com/lydlabs/ragcli/internal/config"
	"github.com/lydlabs/ragcli/internal/core/domain"
	"github.com/lydlabs/ragcli/internal/core/ports/driven"
	"github.com/lydlabs/ragcli/internal/core/services"
	"github.com/lydlabs/ragcli/internal/logger"
	"github.com/lydlabs/ragcli/internal/splitter"
)

// version is overridden at build time with -ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load("")
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	store, err := sqlite.NewStore(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("open vector store: %w", err)
	}
	defer store.Close()

	embedder := buildEmbedder(cfg)

	var catalog driven.ReportCatalog
	var acquire *services.AcquireService
	if cfg.Supabase.URL != "" {
		supaCfg := supabase.Config{
			URL:        cfg.Supabase.URL,
			ServiceKey: cfg.Supabase.ServiceKey,
			Table:      cfg.Supabase.Table,
		}
		supaCatalog, err := supabase.NewCatalog(supaCfg)
		if err != nil {
			return fmt.Errorf("configure report catalogue: %w", err)
		}
		storage, err := supabase.NewStorage(supaCfg)
		if err != nil {
			return fmt.Errorf("configure object storage: %w", err)
		}
		catalog = supaCatalog
		acquire = services.NewAcquireService(
			pdf.NewExtractor(),
			fetch.NewDirect(0),
			fetch.NewBearer(cfg.Supabase.ServiceKey, 0),
			fetch.NewStorageAPI(storage),
		)
	}

	retriever := services.NewRetriever(embedder, store)
	ask := services.NewAskService(
		retriever,
		buildLLM(cfg, cfg.OpenAI.OptimizerModel, 60*time.Second),
		buildReranker(cfg),
		buildLLM(cfg, cfg.OpenAI.ChatModel, 0),
		services.AskOptions{
			Limit:         cfg.Retrieval.Limit,
			MinSimilarity: cfg.Retrieval.MinSimilarity,
			TopN:          cfg.Retrieval.RerankTopN,
		},
	)

	wiring := cli.Services{
		Ask:     ask,
		Store:   store,
		Catalog: catalog,
	}
	if catalog != nil {
		wiring.Ingest = services.NewIngestService(
			catalog,
			acquire,
			splitter.New(
				splitter.WithChunkSize(cfg.Chunking.Size),
				splitter.WithOverlap(cfg.Chunking.Overlap),
			),
			embedder,
			store,
		)
	}

	cli.SetVersion(version)
	cli.SetServices(wiring)
	return cli.Execute()
}

// buildEmbedder returns the configured embedding service, falling
// back to deterministic mock vectors when OpenAI is unconfigured or
// mock mode is forced.
func buildEmbedder(cfg *config.Config) driven.EmbeddingService {
	mockSvc := mock.NewEmbeddingService(domain.EmbeddingDimensions)
	if cfg.Ingest.MockEmbeddings || cfg.OpenAI.APIKey == "" {
		if cfg.OpenAI.APIKey == "" {
			logger.Warn("No OpenAI API key, using %s vectors", mockSvc.ModelName())
		}
		return fallback.NewEmbeddingService(nil, mockSvc)
	}

	primary, err := embeddingopenai.NewEmbeddingService(embeddingopenai.Config{
		APIKey:     cfg.OpenAI.APIKey,
		BaseURL:    cfg.OpenAI.BaseURL,
		Model:      cfg.OpenAI.EmbeddingModel,
		Dimensions: domain.EmbeddingDimensions,
	})
	if err != nil {
		logger.Warn("Embedding service unavailable, using mock vectors: %v", err)
		return fallback.NewEmbeddingService(nil, mockSvc)
	}
	return fallback.NewEmbeddingService(primary, mockSvc)
}

// buildLLM returns a chat service for the given model, or nil when
// OpenAI is unconfigured.
func buildLLM(cfg *config.Config, model string, timeout time.Duration) driven.LLMService {
	if cfg.OpenAI.APIKey == "" {
		return nil
	}
	svc, err := llmopenai.NewLLMService(llmopenai.Config{
		APIKey:  cfg.OpenAI.APIKey,
		BaseURL: cfg.OpenAI.BaseURL,
		Model:   model,
		Timeout: timeout,
	})
	if err != nil {
		logger.Warn("LLM service unavailable: %v", err)
		return nil
	}
	return svc
}

// buildReranker returns the Cohere reranker, or nil when
// unconfigured. Without a reranker the similarity order stands.
func buildReranker(cfg *config.Config) driven.RerankService {
	if cfg.Cohere.APIKey == "" {
		return nil
	}
	svc, err := cohere.NewRerankService(cohere.Config{
		APIKey:  cfg.Cohere.APIKey,
		BaseURL: cfg.Cohere.BaseURL,
		Model:   cfg.Cohere.Model,
	})
	if err != nil {
		logger.Warn("Rerank service unavailable: %v", err)
		return nil
	}
	return svc
}
