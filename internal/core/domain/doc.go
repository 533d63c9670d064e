// Package domain defines the core business entities for the RAG pipeline.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Report: A catalogued policy-research publication (the ingestion unit)
//   - Chunk: A bounded passage of report text with its embedding
//   - ChunkMetadata: The typed provenance carried by every chunk
//   - RetrievalResult / RerankResult: Ephemeral query-time views over chunks
//   - Answer: A grounded completion with its deduplicated source list
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
