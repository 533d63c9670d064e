// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the pipeline to function:
//
//   - ReportCatalog: Paginated access to the source catalogue
//   - FetchStrategy: One way of downloading a report PDF
//   - ObjectStore: Storage-API download, the last fetch fallback
//   - TextExtractor: PDF bytes to raw text
//   - Splitter: Text to overlapping passages
//   - EmbeddingService: Text to fixed-dimension vectors
//   - VectorStore: Chunk persistence and similarity search
//
// # Optional Interfaces
//
// These can be nil - the pipeline degrades gracefully:
//
//   - LLMService: Query optimisation falls back to the raw query;
//     answer generation is unavailable without it.
//   - RerankService: Candidates keep their similarity ordering.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
