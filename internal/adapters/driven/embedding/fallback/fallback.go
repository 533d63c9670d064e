// Package fallback composes a primary embedding service with a mock
// one so that ingestion and retrieval keep working when the real
// backend is unconfigured or down.
package fallback

import (
	"context"

	"github.com/lydlabs/ragcli/internal/core/ports/driven"
	"github.com/lydlabs/ragcli/internal/logger"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// EmbeddingService tries the primary service first and falls back to
// the secondary on any error. A nil primary routes everything to the
// secondary without logging.
type EmbeddingService struct {
	primary   driven.EmbeddingService
	secondary driven.EmbeddingService
}

// NewEmbeddingService creates the composite service. The secondary
// must never be nil.
func NewEmbeddingService(primary, secondary driven.EmbeddingService) *EmbeddingService {
	return &EmbeddingService{primary: primary, secondary: secondary}
}

// Embed generates an embedding for the text, using the secondary
// service when the primary fails.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	if s.primary == nil {
		return s.secondary.Embed(ctx, text)
	}

	embedding, err := s.primary.Embed(ctx, text)
	if err != nil {
		logger.Warn("embedding backend failed, using %s: %v", s.secondary.ModelName(), err)
		return s.secondary.Embed(ctx, text)
	}
	return embedding, nil
}

// EmbedBatch generates embeddings for all texts, using the secondary
// service for the whole batch when the primary fails.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if s.primary == nil {
		return s.secondary.EmbedBatch(ctx, texts)
	}

	embeddings, err := s.primary.EmbedBatch(ctx, texts)
	if err != nil {
		logger.Warn("embedding backend failed, using %s: %v", s.secondary.ModelName(), err)
		return s.secondary.EmbedBatch(ctx, texts)
	}
	return embeddings, nil
}

// Dimensions returns the embedding vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.secondary.Dimensions()
}

// ModelName reports the primary model when one is configured.
func (s *EmbeddingService) ModelName() string {
	if s.primary != nil {
		return s.primary.ModelName()
	}
	return s.secondary.ModelName()
}
