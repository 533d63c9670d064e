package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lydlabs/ragcli/internal/core/domain"
	"github.com/lydlabs/ragcli/internal/core/ports/driven"
)

type stubLLM struct {
	response string
	err      error
	messages []driven.ChatMessage
	opts     driven.ChatOptions
}

func (s *stubLLM) Chat(_ context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	s.messages = messages
	s.opts = opts
	return s.response, s.err
}

func (s *stubLLM) ModelName() string { return "stub" }

type stubReranker struct {
	hits    []driven.RerankHit
	err     error
	gotDocs []string
	gotTopN int
}

func (s *stubReranker) Rerank(_ context.Context, _ string, documents []string, topN int) ([]driven.RerankHit, error) {
	s.gotDocs = documents
	s.gotTopN = topN
	return s.hits, s.err
}

func (s *stubReranker) ModelName() string { return "stub-rerank" }

func retrievalFixture() []domain.RetrievalResult {
	return []domain.RetrievalResult{
		{
			Content:    "chunk about pensions",
			Similarity: 0.9,
			Metadata: domain.ChunkMetadata{
				ReportID:    "r1",
				Title:       "Reforma Previsional",
				OriginalURL: "https://lyd.org/tp-1",
			},
		},
		{
			Content:    "chunk about taxes",
			Similarity: 0.7,
			Metadata: domain.ChunkMetadata{
				ReportID: "r2",
				Title:    "Reforma Tributaria",
				PDFURL:   "https://lyd.org/tp-2.pdf",
			},
		},
		{
			Content:    "duplicate source chunk",
			Similarity: 0.6,
			Metadata: domain.ChunkMetadata{
				ReportID:    "r1",
				Title:       "Reforma Previsional",
				OriginalURL: "https://lyd.org/tp-1",
			},
		},
	}
}

func newAskFixture(store *stubVectorStore, optimiser, generator *stubLLM, reranker driven.RerankService) *AskService {
	retriever := NewRetriever(&stubEmbedder{embedding: []float32{1, 0}}, store)
	var opt, gen driven.LLMService
	if optimiser != nil {
		opt = optimiser
	}
	gen = generator
	return NewAskService(retriever, opt, reranker, gen, AskOptions{})
}

func TestAskFullPipeline(t *testing.T) {
	store := &stubVectorStore{results: retrievalFixture()}
	optimiser := &stubLLM{response: "pensions reform"}
	generator := &stubLLM{response: "La reforma previsional propone..."}
	reranker := &stubReranker{hits: []driven.RerankHit{
		{Index: 1, RelevanceScore: 0.95},
		{Index: 0, RelevanceScore: 0.80},
	}}

	svc := newAskFixture(store, optimiser, generator, reranker)
	answer, err := svc.Ask(context.Background(), "¿Qué propone la reforma previsional?")
	require.NoError(t, err)

	assert.Equal(t, "La reforma previsional propone...", answer.Text)
	require.Len(t, answer.Sources, 2)
	assert.Equal(t, "Reforma Tributaria", answer.Sources[0].Title)
	assert.Equal(t, "https://lyd.org/tp-2.pdf", answer.Sources[0].URL)
	assert.Equal(t, "https://lyd.org/tp-1", answer.Sources[1].URL)

	// Reranker saw all retrieved contents, in order
	assert.Equal(t, []string{
		"chunk about pensions", "chunk about taxes", "duplicate source chunk",
	}, reranker.gotDocs)
	assert.Equal(t, DefaultRerankTopN, reranker.gotTopN)

	// Generation is deterministic and grounded in the reranked chunks
	assert.Zero(t, generator.opts.Temperature)
	assert.Equal(t, 2000, generator.opts.MaxTokens)
	require.Len(t, generator.messages, 2)
	assert.Contains(t, generator.messages[0].Content, "chunk about taxes")
	assert.Equal(t, "¿Qué propone la reforma previsional?", generator.messages[1].Content)
}

func TestAskEmptyQuestion(t *testing.T) {
	svc := newAskFixture(&stubVectorStore{}, nil, &stubLLM{}, nil)

	_, err := svc.Ask(context.Background(), "  ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAskNoResultsReturnsFallbackMessage(t *testing.T) {
	svc := newAskFixture(&stubVectorStore{}, nil, &stubLLM{response: "unused"}, nil)

	answer, err := svc.Ask(context.Background(), "tema sin documentos")
	require.NoError(t, err)
	assert.Contains(t, answer.Text, "no he podido encontrar")
	assert.Empty(t, answer.Sources)
}

func TestAskOptimiserFailureFallsBackToOriginalQuery(t *testing.T) {
	store := &stubVectorStore{results: retrievalFixture()}
	optimiser := &stubLLM{err: errors.New("rate limit")}
	generator := &stubLLM{response: "respuesta"}

	svc := newAskFixture(store, optimiser, generator, nil)
	answer, err := svc.Ask(context.Background(), "pregunta original")
	require.NoError(t, err)
	assert.Equal(t, "respuesta", answer.Text)
}

func TestAskWithoutRerankerKeepsSimilarityOrder(t *testing.T) {
	store := &stubVectorStore{results: retrievalFixture()}
	generator := &stubLLM{response: "respuesta"}

	svc := newAskFixture(store, nil, generator, nil)
	answer, err := svc.Ask(context.Background(), "pregunta")
	require.NoError(t, err)

	// Sources follow the similarity order and deduplicate by URL
	require.Len(t, answer.Sources, 2)
	assert.Equal(t, "https://lyd.org/tp-1", answer.Sources[0].URL)

	// Context is built from the retrieved chunks in order
	assert.True(t, strings.Index(generator.messages[0].Content, "chunk about pensions") <
		strings.Index(generator.messages[0].Content, "chunk about taxes"))
}

func TestAskRerankerFailure(t *testing.T) {
	store := &stubVectorStore{results: retrievalFixture()}
	reranker := &stubReranker{err: errors.New("cohere down")}

	svc := newAskFixture(store, nil, &stubLLM{response: "unused"}, reranker)
	_, err := svc.Ask(context.Background(), "pregunta")
	assert.ErrorIs(t, err, domain.ErrRerankFailed)
}

func TestAskGenerationFailure(t *testing.T) {
	store := &stubVectorStore{results: retrievalFixture()}
	generator := &stubLLM{err: errors.New("model overloaded")}

	svc := newAskFixture(store, nil, generator, nil)
	_, err := svc.Ask(context.Background(), "pregunta")
	assert.ErrorIs(t, err, domain.ErrGenerationFailed)
}

func TestAskEmptyCompletionFallsBackToRetryMessage(t *testing.T) {
	store := &stubVectorStore{results: retrievalFixture()}
	generator := &stubLLM{response: "  \n"}

	svc := newAskFixture(store, nil, generator, nil)
	answer, err := svc.Ask(context.Background(), "pregunta")
	require.NoError(t, err)

	assert.Equal(t, emptyCompletionMessage, answer.Text)
	assert.NotEmpty(t, answer.Sources)
}

func TestAskWithoutGenerator(t *testing.T) {
	retriever := NewRetriever(&stubEmbedder{embedding: []float32{1}}, &stubVectorStore{})
	svc := NewAskService(retriever, nil, nil, nil, AskOptions{})

	_, err := svc.Ask(context.Background(), "pregunta")
	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
}

func TestPipelineReturnsRerankedChunks(t *testing.T) {
	store := &stubVectorStore{results: retrievalFixture()}
	reranker := &stubReranker{hits: []driven.RerankHit{
		{Index: 0, RelevanceScore: 0.9},
	}}

	svc := newAskFixture(store, nil, &stubLLM{response: "unused"}, reranker)
	reranked, err := svc.Pipeline(context.Background(), "reforma previsional")
	require.NoError(t, err)

	require.Len(t, reranked, 1)
	assert.Equal(t, "chunk about pensions", reranked[0].Content)
	assert.InDelta(t, 0.9, reranked[0].RelevanceScore, 1e-9)

	// Pipeline retrieves a wider net and cuts harder
	assert.Equal(t, pipelineLimit, store.gotLimit)
	assert.Equal(t, pipelineTopN, reranker.gotTopN)
}

func TestPipelineEmptyQuery(t *testing.T) {
	svc := newAskFixture(&stubVectorStore{}, nil, &stubLLM{}, nil)

	_, err := svc.Pipeline(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAskSourceTitleFallback(t *testing.T) {
	store := &stubVectorStore{results: []domain.RetrievalResult{
		{
			Content:    "untitled chunk",
			Similarity: 0.8,
			Metadata:   domain.ChunkMetadata{ReportID: "r3", PDFURL: "https://lyd.org/tp-3.pdf"},
		},
	}}

	svc := newAskFixture(store, nil, &stubLLM{response: "respuesta"}, nil)
	answer, err := svc.Ask(context.Background(), "pregunta")
	require.NoError(t, err)
	require.Len(t, answer.Sources, 1)
	assert.Equal(t, "Fuente", answer.Sources[0].Title)
}
