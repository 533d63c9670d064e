package driving

import (
	"context"
	"time"
)

// IngestOrchestrator drives the batch ingestion of catalogue reports
// into the vector store.
type IngestOrchestrator interface {
	// Run walks the catalogue in batches until it is exhausted or the
	// batch ceiling is reached, processing each report through the
	// acquire, split, embed and store stages. Per-item failures are
	// recorded and skipped; only catalogue connectivity failure
	// aborts the run.
	Run(ctx context.Context, opts IngestOptions) (*IngestSummary, error)

	// Status reports progress of the run in flight.
	Status() IngestStatus
}

// IngestOptions configures one ingestion run.
type IngestOptions struct {
	// BatchSize is the number of reports fetched per catalogue page.
	BatchSize int

	// MaxBatches caps the number of batches; zero means unlimited.
	MaxBatches int

	// Delay is the pause between batches, protecting rate-limited
	// backends.
	Delay time.Duration

	// ItemTimeout bounds the processing of a single report. A report
	// that exceeds it counts as failed and the run continues.
	ItemTimeout time.Duration

	// ProcessedIDs seeds the exclusion set, letting an interrupted
	// run resume without reprocessing completed reports.
	ProcessedIDs map[string]struct{}
}

// IngestSummary is the final accounting of a run.
type IngestSummary struct {
	// Processed is the number of reports fully ingested.
	Processed int

	// Failed is the number of reports that failed at some stage.
	Failed int

	// Skipped is the number of reports excluded as already processed.
	Skipped int

	// Chunks is the total number of chunks written.
	Chunks int

	// Batches is the number of catalogue pages walked.
	Batches int

	// ProcessedIDs holds every report ID attempted, including
	// failures, so a resumed run does not retry them forever.
	ProcessedIDs map[string]struct{}

	// Elapsed is the wall-clock duration of the run.
	Elapsed time.Duration
}

// IngestStatus is a point-in-time view of a running ingestion.
type IngestStatus struct {
	// Running indicates whether a run is in progress.
	Running bool

	// Batch is the current batch number, starting at 1.
	Batch int

	// Processed, Failed and Chunks mirror the summary counters.
	Processed int
	Failed    int
	Chunks    int

	// Remaining estimates time to completion from observed
	// throughput; zero when unknown.
	Remaining time.Duration
}
