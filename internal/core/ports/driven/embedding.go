package driven

import "context"

// EmbeddingService generates vector embeddings from text.
//
// Implementations may include:
//   - OpenAI (text-embedding-3-small pinned to 1536 dimensions)
//   - Deterministic mock vectors for running without credentials
//   - A fallback composite that substitutes mock vectors when the
//     primary backend errors
//
// EmbedBatch is length- and order-preserving: result i always
// corresponds to input i, whichever path produced it.
type EmbeddingService interface {
	// Embed generates a vector embedding for a single text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts. Oversized
	// input is split into sub-batches at the backend's limit and the
	// results concatenated in original order.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size. It must match
	// domain.EmbeddingDimensions for vectors to be storable.
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string
}
