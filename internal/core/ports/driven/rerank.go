package driven

import "context"

// RerankService rescores retrieval candidates with a cross-encoder
// model that sees the query and each candidate text together. This is
// an optional service - when nil, candidates keep their similarity
// ordering.
type RerankService interface {
	// Rerank scores (query, document) pairs and returns at most topN
	// hits ordered descending by relevance. Implementations must
	// return an empty slice for zero documents without calling the
	// remote model.
	Rerank(ctx context.Context, query string, documents []string, topN int) ([]RerankHit, error)

	// ModelName returns the name of the reranking model being used.
	ModelName() string
}

// RerankHit is a single reranking result.
type RerankHit struct {
	// Index is the position of the document in the input slice.
	// Callers use it to re-attach metadata; the reranker itself never
	// sees or invents metadata.
	Index int

	// RelevanceScore is the cross-encoder score, on the model's own
	// scale.
	RelevanceScore float64
}
