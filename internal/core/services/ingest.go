package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/lydlabs/ragcli/internal/core/domain"
	"github.com/lydlabs/ragcli/internal/core/ports/driven"
	"github.com/lydlabs/ragcli/internal/core/ports/driving"
	"github.com/lydlabs/ragcli/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestOrchestrator = (*IngestService)(nil)

// Ingestion defaults.
const (
	DefaultBatchSize  = 20
	DefaultBatchDelay = 5 * time.Second
)

// IngestService walks the report catalogue and feeds every report
// through acquisition, splitting, embedding and storage.
type IngestService struct {
	catalog  driven.ReportCatalog
	acquire  *AcquireService
	splitter driven.Splitter
	embedder driven.EmbeddingService
	store    driven.VectorStore

	status ingestStatus
}

// ingestStatus holds the mutable progress counters behind a mutex so
// Status can be read from another goroutine.
type ingestStatus struct {
	mu        sync.Mutex
	running   bool
	batch     int
	processed int
	failed    int
	chunks    int
	remaining time.Duration
}

// NewIngestService creates a new ingestion orchestrator.
func NewIngestService(
	catalog driven.ReportCatalog,
	acquire *AcquireService,
	split driven.Splitter,
	embedder driven.EmbeddingService,
	store driven.VectorStore,
) *IngestService {
	return &IngestService{
		catalog:  catalog,
		acquire:  acquire,
		splitter: split,
		embedder: embedder,
		store:    store,
	}
}

// Run walks the catalogue in batches. Reports already in the
// exclusion set are skipped; per-item failures are recorded as
// attempted so a resumed run does not retry them forever.
func (s *IngestService) Run(ctx context.Context, opts driving.IngestOptions) (*driving.IngestSummary, error) {
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}
	if opts.Delay <= 0 {
		opts.Delay = DefaultBatchDelay
	}

	processedIDs := make(map[string]struct{}, len(opts.ProcessedIDs))
	for id := range opts.ProcessedIDs {
		processedIDs[id] = struct{}{}
	}

	total, err := s.catalog.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: count reports: %v", domain.ErrCatalogUnavailable, err)
	}
	logger.Section("Batch Ingestion")
	logger.Info("Catalogue holds %d reports, %d already processed", total, len(processedIDs))

	summary := &driving.IngestSummary{ProcessedIDs: processedIDs}
	start := time.Now()
	s.setRunning(true)
	defer func() {
		summary.Elapsed = time.Since(start)
		s.setRunning(false)
	}()

	// One batch per delay interval, first batch immediately.
	limiter := rate.NewLimiter(rate.Every(opts.Delay), 1)

	offset := 0
	attempted := 0
	for {
		if err := limiter.Wait(ctx); err != nil {
			return summary, err
		}

		page, err := s.catalog.List(ctx, offset, opts.BatchSize)
		if err != nil {
			return summary, fmt.Errorf("%w: list reports at offset %d: %v", domain.ErrCatalogUnavailable, offset, err)
		}
		if len(page) == 0 {
			break
		}

		summary.Batches++
		s.setBatch(summary.Batches)
		logger.Info("Batch %d: %d reports (offset %d)", summary.Batches, len(page), offset)

		for _, report := range page {
			if _, done := processedIDs[report.ID]; done {
				summary.Skipped++
				continue
			}

			count, err := s.processReport(ctx, report, opts.ItemTimeout)
			attempted++
			processedIDs[report.ID] = struct{}{}
			if err != nil {
				if ctx.Err() != nil {
					return summary, ctx.Err()
				}
				logger.Warn("Report %s failed: %v", report.ID, err)
				summary.Failed++
				s.recordFailure()
				continue
			}

			summary.Processed++
			summary.Chunks += count
			s.recordSuccess(count)
			logger.Debug("Report %s: %d chunks stored", report.ID, count)
		}

		s.updateRemaining(start, attempted, total-len(processedIDs))

		offset += len(page)
		// A short page means the catalogue is exhausted.
		if len(page) < opts.BatchSize {
			break
		}
		if opts.MaxBatches > 0 && summary.Batches >= opts.MaxBatches {
			logger.Info("Reached batch ceiling of %d", opts.MaxBatches)
			break
		}
	}

	logger.Info("Ingestion done: %d processed, %d failed, %d skipped, %d chunks in %s",
		summary.Processed, summary.Failed, summary.Skipped, summary.Chunks,
		time.Since(start).Round(time.Second))
	return summary, nil
}

// processReport runs one report through the full pipeline.
func (s *IngestService) processReport(ctx context.Context, report domain.Report, timeout time.Duration) (int, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	text, err := s.acquire.Text(ctx, report)
	if err != nil {
		return 0, err
	}

	parts, err := s.splitter.Split(text)
	if err != nil {
		return 0, fmt.Errorf("split text: %w", err)
	}
	if len(parts) == 0 {
		return 0, domain.ErrExtractionEmpty
	}

	embeddings, err := s.embedder.EmbedBatch(ctx, parts)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrEmbeddingUnavailable, err)
	}
	if len(embeddings) != len(parts) {
		return 0, fmt.Errorf("embedding count %d does not match chunk count %d", len(embeddings), len(parts))
	}

	metadata := report.Metadata()
	chunks := make([]domain.Chunk, len(parts))
	for i, part := range parts {
		chunks[i] = domain.Chunk{
			Content:   part,
			Embedding: embeddings[i],
			Metadata:  metadata,
		}
	}

	inserted, err := s.store.Insert(ctx, chunks)
	if err != nil {
		return 0, err
	}
	return inserted, nil
}

// Status reports progress of the run in flight.
func (s *IngestService) Status() driving.IngestStatus {
	s.status.mu.Lock()
	defer s.status.mu.Unlock()
	return driving.IngestStatus{
		Running:   s.status.running,
		Batch:     s.status.batch,
		Processed: s.status.processed,
		Failed:    s.status.failed,
		Chunks:    s.status.chunks,
		Remaining: s.status.remaining,
	}
}

func (s *IngestService) setRunning(running bool) {
	s.status.mu.Lock()
	defer s.status.mu.Unlock()
	s.status.running = running
	if running {
		s.status.batch = 0
		s.status.processed = 0
		s.status.failed = 0
		s.status.chunks = 0
		s.status.remaining = 0
	}
}

func (s *IngestService) setBatch(batch int) {
	s.status.mu.Lock()
	defer s.status.mu.Unlock()
	s.status.batch = batch
}

func (s *IngestService) recordSuccess(chunks int) {
	s.status.mu.Lock()
	defer s.status.mu.Unlock()
	s.status.processed++
	s.status.chunks += chunks
}

func (s *IngestService) recordFailure() {
	s.status.mu.Lock()
	defer s.status.mu.Unlock()
	s.status.failed++
}

// updateRemaining estimates time to completion from the throughput of
// this run. Only reports attempted since start count; pre-seeded
// exclusions would inflate the rate.
func (s *IngestService) updateRemaining(start time.Time, attempted, left int) {
	var remaining time.Duration
	if attempted > 0 && left > 0 {
		perReport := time.Since(start) / time.Duration(attempted)
		remaining = perReport * time.Duration(left)
	}

	s.status.mu.Lock()
	s.status.remaining = remaining
	s.status.mu.Unlock()

	if remaining > 0 {
		logger.Info("Progress: %d reports this run, %d left, about %s remaining",
			attempted, left, remaining.Round(time.Second))
	}
}
