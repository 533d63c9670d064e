package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/lydlabs/ragcli/internal/core/domain"
	"github.com/lydlabs/ragcli/internal/core/ports/driven"
	"github.com/lydlabs/ragcli/internal/logger"
)

// Retrieval defaults for interactive questions.
const (
	DefaultRetrievalLimit = 15
	DefaultMinSimilarity  = 0.4
)

// Retriever embeds a query and finds the most similar stored chunks.
type Retriever struct {
	embedder driven.EmbeddingService
	store    driven.VectorStore
}

// NewRetriever creates a new retriever.
func NewRetriever(embedder driven.EmbeddingService, store driven.VectorStore) *Retriever {
	return &Retriever{
		embedder: embedder,
		store:    store,
	}
}

// Retrieve returns up to limit chunks whose similarity to the query
// exceeds minSimilarity, most similar first. Non-positive limit and
// minSimilarity fall back to the defaults.
func (r *Retriever) Retrieve(ctx context.Context, query string, limit int, minSimilarity float64) ([]domain.RetrievalResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("empty query: %w", domain.ErrInvalidInput)
	}

	if limit <= 0 {
		limit = DefaultRetrievalLimit
	}
	if minSimilarity <= 0 {
		minSimilarity = DefaultMinSimilarity
	}

	embedding, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	logger.Debug("Query embedding: %d dimensions", len(embedding))

	results, err := r.store.Query(ctx, embedding, minSimilarity, limit)
	if err != nil {
		return nil, fmt.Errorf("query vector store: %w", err)
	}
	logger.Debug("Retrieved %d chunks above similarity %.2f", len(results), minSimilarity)

	return results, nil
}
