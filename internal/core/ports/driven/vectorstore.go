package driven

import (
	"context"

	"github.com/lydlabs/ragcli/internal/core/domain"
)

// VectorStore persists chunks with their embeddings and answers
// cosine-similarity queries over them. Writes are append-only inserts
// keyed by a fresh identifier per chunk; a reader never observes a
// half-written chunk.
type VectorStore interface {
	// Insert stores the chunks. A failed bulk write falls back to
	// per-item inserts so one malformed chunk does not discard the
	// batch; the returned count is how many actually committed.
	// domain.ErrStoreWrite is returned only when nothing committed.
	Insert(ctx context.Context, chunks []domain.Chunk) (int, error)

	// Query returns chunks whose similarity to the embedding exceeds
	// minSimilarity, ordered descending, truncated to limit.
	// Similarity is 1 - cosine distance.
	Query(ctx context.Context, embedding []float32, minSimilarity float64, limit int) ([]domain.RetrievalResult, error)

	// Count returns the number of stored chunks.
	Count(ctx context.Context) (int, error)

	// Close releases resources.
	Close() error
}
