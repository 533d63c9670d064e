package driven

import (
	"context"

	"github.com/lydlabs/ragcli/internal/core/domain"
)

// ReportCatalog provides paginated access to the upstream report
// catalogue, newest first. The ingestion orchestrator walks it with
// offset pagination and keeps its own processed-ID exclusion set, so
// the catalogue itself is stateless.
type ReportCatalog interface {
	// List returns up to limit reports starting at offset, ordered by
	// creation time descending. A short page signals the end of the
	// catalogue.
	List(ctx context.Context, offset, limit int) ([]domain.Report, error)

	// Count returns the total number of catalogued reports. Used for
	// progress and ETA reporting only.
	Count(ctx context.Context) (int, error)
}
