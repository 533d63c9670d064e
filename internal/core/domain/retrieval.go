package domain

// RetrievalResult is a similarity-search hit. It is a view over a
// stored chunk and exists only for the duration of one query.
type RetrievalResult struct {
	// Content is the chunk text.
	Content string

	// Metadata is the chunk's provenance.
	Metadata ChunkMetadata

	// Similarity is 1 - cosine distance between the query embedding
	// and the chunk embedding. Conceptually in [-1, 1]; retrieval
	// filters keep it above the configured minimum.
	Similarity float64
}

// RerankResult is a cross-encoder rescored candidate. Relevance scores
// are on the reranking model's own scale and are not comparable to
// similarity values.
type RerankResult struct {
	// Content is the candidate text.
	Content string

	// Metadata is carried through from the retrieval candidate by
	// index; it is never inferred or regenerated during reranking.
	Metadata ChunkMetadata

	// RelevanceScore is the cross-encoder's score for (query, content).
	RelevanceScore float64
}

// Source is a deduplicated reference presented alongside an answer.
type Source struct {
	// Title is the report title, or a generic label when unknown.
	Title string `json:"title"`

	// URL is the report's canonical page, falling back to the PDF.
	URL string `json:"url"`
}

// Answer is a grounded completion with the sources that informed it.
type Answer struct {
	// Text is the completion, or a user-facing fallback message when
	// the corpus held nothing relevant.
	Text string `json:"text"`

	// Sources lists the distinct reports the context came from.
	Sources []Source `json:"sources"`
}
