// Package mock provides a deterministic embedding service for
// development and for the fallback path when no real backend is
// reachable. Vectors are pseudo-random but stable per input text, so
// repeated ingestion of the same chunk produces the same embedding.
package mock

import (
	"context"
	"hash/fnv"
	"math/rand"

	"github.com/lydlabs/ragcli/internal/core/domain"
	"github.com/lydlabs/ragcli/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// ModelName identifies mock vectors in logs and metadata.
const ModelName = "mock-embedding"

// EmbeddingService generates deterministic pseudo-random embeddings.
type EmbeddingService struct {
	dimensions int
}

// NewEmbeddingService creates a mock embedding service. A
// non-positive dimensions value falls back to the standard width.
func NewEmbeddingService(dimensions int) *EmbeddingService {
	if dimensions <= 0 {
		dimensions = domain.EmbeddingDimensions
	}
	return &EmbeddingService{dimensions: dimensions}
}

// Embed returns a deterministic vector derived from the text. It
// never fails; the values are uniform in [-1, 1) and the vector is
// not unit-normalised.
func (s *EmbeddingService) Embed(_ context.Context, text string) ([]float32, error) {
	h := fnv.New64a()
	h.Write([]byte(text))
	rng := rand.New(rand.NewSource(int64(h.Sum64())))

	embedding := make([]float32, s.dimensions)
	for i := range embedding {
		embedding[i] = float32(rng.Float64()*2 - 1)
	}
	return embedding, nil
}

// EmbedBatch returns one vector per input text, in order.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	embeddings := make([][]float32, len(texts))
	for i, text := range texts {
		embedding, err := s.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		embeddings[i] = embedding
	}
	return embeddings, nil
}

// Dimensions returns the embedding vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.dimensions
}

// ModelName returns the mock model identifier.
func (s *EmbeddingService) ModelName() string {
	return ModelName
}
