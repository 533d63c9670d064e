package cli

import (
	"context"
	"errors"

	"github.com/lydlabs/ragcli/internal/core/domain"
	"github.com/lydlabs/ragcli/internal/core/ports/driving"
)

// mockAskService returns a fixed answer for every question.
type mockAskService struct{}

func (m *mockAskService) Ask(context.Context, string) (*domain.Answer, error) {
	return &domain.Answer{
		Text: "La reforma propone un nuevo sistema.",
		Sources: []domain.Source{
			{Title: "Reforma Previsional", URL: "https://lyd.org/tp-1"},
		},
	}, nil
}

func (m *mockAskService) Pipeline(context.Context, string) ([]domain.RerankResult, error) {
	return []domain.RerankResult{
		{
			Content:        "chunk about pensions",
			RelevanceScore: 0.91,
			Metadata: domain.ChunkMetadata{
				ReportID:    "r1",
				Title:       "Reforma Previsional",
				OriginalURL: "https://lyd.org/tp-1",
			},
		},
	}, nil
}

// mockAskServiceError fails every call.
type mockAskServiceError struct{}

func (m *mockAskServiceError) Ask(context.Context, string) (*domain.Answer, error) {
	return nil, errors.New("mock ask error")
}

func (m *mockAskServiceError) Pipeline(context.Context, string) ([]domain.RerankResult, error) {
	return nil, errors.New("mock pipeline error")
}

// mockIngestOrchestrator records the options it ran with.
type mockIngestOrchestrator struct {
	gotOpts driving.IngestOptions
	summary *driving.IngestSummary
	err     error
}

func (m *mockIngestOrchestrator) Run(_ context.Context, opts driving.IngestOptions) (*driving.IngestSummary, error) {
	m.gotOpts = opts
	if m.err != nil {
		return nil, m.err
	}
	if m.summary != nil {
		return m.summary, nil
	}
	return &driving.IngestSummary{
		Processed:    3,
		Chunks:       12,
		Batches:      1,
		ProcessedIDs: map[string]struct{}{"r1": {}, "r2": {}, "r3": {}},
	}, nil
}

func (m *mockIngestOrchestrator) Status() driving.IngestStatus {
	return driving.IngestStatus{}
}

// mockVectorStore only supports counting.
type mockVectorStore struct {
	count int
}

func (m *mockVectorStore) Insert(context.Context, []domain.Chunk) (int, error) { return 0, nil }

func (m *mockVectorStore) Query(context.Context, []float32, float64, int) ([]domain.RetrievalResult, error) {
	return nil, nil
}

func (m *mockVectorStore) Count(context.Context) (int, error) { return m.count, nil }

func (m *mockVectorStore) Close() error { return nil }

// mockCatalog reports a fixed catalogue size.
type mockCatalog struct {
	total int
}

func (m *mockCatalog) List(context.Context, int, int) ([]domain.Report, error) { return nil, nil }

func (m *mockCatalog) Count(context.Context) (int, error) { return m.total, nil }

// setupTestServices wires mock services and returns a cleanup that
// restores the previous wiring.
func setupTestServices() func() {
	oldAsk := askService
	oldIngest := ingestOrchestrator
	oldStore := vectorStore
	oldCatalog := reportCatalog

	SetServices(Services{
		Ask:     &mockAskService{},
		Ingest:  &mockIngestOrchestrator{},
		Store:   &mockVectorStore{count: 42},
		Catalog: &mockCatalog{total: 100},
	})

	return func() {
		askService = oldAsk
		ingestOrchestrator = oldIngest
		vectorStore = oldStore
		reportCatalog = oldCatalog
	}
}
