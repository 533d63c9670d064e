package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// Ingestion errors. These are fatal for a single catalogue item
	// only; the orchestrator records the failure and moves on.

	// ErrAcquisitionFailed indicates every download strategy for a
	// report PDF was exhausted.
	ErrAcquisitionFailed = errors.New("all download strategies failed")

	// ErrExtractionEmpty indicates the PDF downloaded but parsing it
	// produced no text. Distinct from acquisition failure.
	ErrExtractionEmpty = errors.New("extracted text is empty")

	// ErrStoreWrite indicates no chunk of a batch could be persisted,
	// even after falling back to per-item inserts.
	ErrStoreWrite = errors.New("vector store write failed")

	// ErrCatalogUnavailable indicates the source catalogue could not
	// be reached. Fatal for the whole ingestion run.
	ErrCatalogUnavailable = errors.New("report catalogue unavailable")

	// Query-time errors. The caller presents a graceful fallback
	// message rather than crashing.

	// ErrEmbeddingUnavailable indicates the embedding backend is not
	// configured. The pipeline substitutes mock embeddings instead of
	// surfacing this to ingestion.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrLLMUnavailable indicates no language model is configured.
	// Query optimisation degrades to the original query; answer
	// generation cannot proceed.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrRerankFailed indicates the reranking backend rejected the
	// call or could not be reached.
	ErrRerankFailed = errors.New("rerank failed")

	// ErrGenerationFailed indicates a transport-level failure while
	// generating the grounded answer.
	ErrGenerationFailed = errors.New("answer generation failed")
)
