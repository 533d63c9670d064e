package domain

import "time"

// EmbeddingDimensions is the fixed width of every stored embedding.
// It matches the embedding model's configured output dimensionality;
// the vector store rejects chunks with any other width.
const EmbeddingDimensions = 1536

// ChunkMetadata is the provenance carried by every chunk, copied from
// the report that produced it. It travels unchanged through retrieval,
// reranking and answer generation; only ReportID is required.
type ChunkMetadata struct {
	// ReportID links back to the catalogue report.
	ReportID string `json:"reportId"`

	// Title is the report title.
	Title string `json:"title,omitempty"`

	// Theme is the policy area.
	Theme string `json:"theme,omitempty"`

	// PublicationDate is the report's publication date.
	PublicationDate string `json:"publicationDate,omitempty"`

	// Source is the publishing organisation.
	Source string `json:"source,omitempty"`

	// OriginalURL is the canonical landing page, preferred when
	// presenting sources to the user.
	OriginalURL string `json:"originalUrl,omitempty"`

	// PDFURL is the direct PDF location, the fallback source link.
	PDFURL string `json:"pdfUrl,omitempty"`
}

// SourceURL returns the link to present for this chunk's report:
// the canonical page when known, otherwise the PDF itself.
// Empty when the metadata carries neither.
func (m ChunkMetadata) SourceURL() string {
	if m.OriginalURL != "" {
		return m.OriginalURL
	}
	return m.PDFURL
}

// Chunk is a bounded-length passage of report text stored with its
// embedding and metadata. Chunks are created once during ingestion
// and never partially updated.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// Content is the sanitised text of the passage.
	Content string

	// Embedding is the vector representation, exactly
	// EmbeddingDimensions wide once persisted.
	Embedding []float32

	// Metadata is the provenance copied from the source report.
	Metadata ChunkMetadata

	// CreatedAt is when the chunk was stored.
	CreatedAt time.Time

	// UpdatedAt is when the chunk row was last written.
	UpdatedAt time.Time
}
