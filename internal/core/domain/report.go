package domain

import "time"

// Report represents a publication in the source catalogue.
// It is the unit of ingestion: one report yields many chunks.
// Reports are immutable once published upstream; reprocessing a
// report produces fresh chunks rather than mutating existing ones.
type Report struct {
	// ID is the catalogue identifier for the report.
	ID string `json:"id"`

	// Title is the publication title.
	Title string `json:"title"`

	// Theme is the policy area the report covers.
	Theme string `json:"theme"`

	// PublicationDate is the upstream publication date, as recorded
	// in the catalogue (free-form, may be empty).
	PublicationDate string `json:"publication_date"`

	// Source is the publishing organisation.
	Source string `json:"source"`

	// OriginalURL is the canonical landing page for the report.
	OriginalURL string `json:"original_url"`

	// PDFURL is the direct download location of the report PDF.
	PDFURL string `json:"pdf_url"`

	// CreatedAt is when the report entered the catalogue.
	CreatedAt time.Time `json:"created_at"`
}

// DefaultSource is recorded in chunk metadata when the catalogue
// does not name a publishing organisation.
const DefaultSource = "LYD"

// Metadata derives the chunk metadata for this report.
// Every chunk produced from the report carries a copy.
func (r Report) Metadata() ChunkMetadata {
	source := r.Source
	if source == "" {
		source = DefaultSource
	}
	return ChunkMetadata{
		ReportID:        r.ID,
		Title:           r.Title,
		Theme:           r.Theme,
		PublicationDate: r.PublicationDate,
		Source:          source,
		OriginalURL:     r.OriginalURL,
		PDFURL:          r.PDFURL,
	}
}
