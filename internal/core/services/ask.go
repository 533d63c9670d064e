package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/lydlabs/ragcli/internal/core/domain"
	"github.com/lydlabs/ragcli/internal/core/ports/driven"
	"github.com/lydlabs/ragcli/internal/core/ports/driving"
	"github.com/lydlabs/ragcli/internal/logger"
)

// Ensure AskService implements the interface.
var _ driving.AskService = (*AskService)(nil)

// DefaultRerankTopN is how many chunks survive reranking for answer
// generation.
const DefaultRerankTopN = 7

// noResultsMessage is returned when retrieval finds nothing relevant.
const noResultsMessage = "Lo siento, no he podido encontrar información relevante en nuestra base de datos para responder a tu pregunta. ¿Podrías reformularla o preguntar sobre otro tema relacionado con políticas públicas o algún documento de Libertad y Desarrollo?"

// emptyCompletionMessage is returned when the model answers with no
// content at all.
const emptyCompletionMessage = "Lo siento, no pude generar una respuesta. Por favor, intenta nuevamente."

// optimiserSystemPrompt rewrites a user question into a compact
// retrieval query.
const optimiserSystemPrompt = `You are an AI assistant tasked with optimizing queries for a RAG (Retrieval-Augmented Generation) system. Your goal is to refine the original query to improve the retrieval of relevant information from the knowledge base.

Follow these guidelines to optimize the query:

1.Remove unnecessary words or phrases that don't contribute to the core meaning.

2.Identify and emphasize key concepts or entities.

3.Use more specific or technical terms if appropriate.

4.Ensure the query is clear and concise.

5.Maintain the original intent of the query.

Output only the refined query text, without any additional explanation or formatting, on a single line.

Example:

Original query: "What is the capital of France?"
Optimized query: "France capital"

Original query: "Explain the process of photosynthesis in plants."
Optimized query: "Photosynthesis in plants"

Original query: "What are the main features of the latest iPhone model?"
Optimized query: "iPhone latest model features"

Original query: "How to fix a broken window?"
Optimized query: "window repair"

Original query: "What are the benefits of using renewable energy sources?"
Optimized query: "renewable energy benefits"

Original query: "What is the main idea of the book '1984'?"
Optimized query: "1984 book main idea"
`

// generatorSystemPrompt grounds the answer in the retrieved context.
// The answer is always in Spanish regardless of the question's
// language.
const generatorSystemPrompt = `You are a specialized research assistant with expertise in Chilean public policy and access to Libertad y Desarrollo's research repository. Your task is to retrieve relevant information from LYD's publications on the context provided by the user.

When analyzing documents, consider:
1. The publication type (Temas Públicos, Serie Informe, etc.) and its typical depth/format
2. The publication date and potential contextual relevance to current conditions
4. The specific policy recommendations or critiques presented


- Summarize the key arguments and evidence presented
- Identify the main policy recommendations
- Note any distinctive analytical frameworks applied
- Extract relevant data, statistics or case examples

Important: Always reply in Spanish. Never make information up. If its not explicitly written in the documents, don't include it in your response.

Present your findings in a structured format similar to a high quality periodistic article. Maintain fidelity to the original content while organizing it for clarity.
    Context:
    %s
    `

// AskOptions tunes a single question.
type AskOptions struct {
	// Limit caps how many chunks retrieval returns before reranking.
	Limit int

	// MinSimilarity filters retrieval results.
	MinSimilarity float64

	// TopN caps how many chunks survive reranking.
	TopN int
}

// AskService answers questions grounded in the stored documents. The
// optimiser and reranker are optional; when absent the original query
// and the similarity order are used.
type AskService struct {
	retriever *Retriever
	optimiser driven.LLMService
	reranker  driven.RerankService
	generator driven.LLMService
	opts      AskOptions
}

// NewAskService creates a new ask service.
func NewAskService(
	retriever *Retriever,
	optimiser driven.LLMService,
	reranker driven.RerankService,
	generator driven.LLMService,
	opts AskOptions,
) *AskService {
	if opts.Limit <= 0 {
		opts.Limit = DefaultRetrievalLimit
	}
	if opts.MinSimilarity <= 0 {
		opts.MinSimilarity = DefaultMinSimilarity
	}
	if opts.TopN <= 0 {
		opts.TopN = DefaultRerankTopN
	}

	return &AskService{
		retriever: retriever,
		optimiser: optimiser,
		reranker:  reranker,
		generator: generator,
		opts:      opts,
	}
}

// Ask runs the full retrieval pipeline and generates a grounded
// answer. When nothing relevant is stored, the answer politely says
// so instead of failing.
func (s *AskService) Ask(ctx context.Context, question string) (*domain.Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("empty question: %w", domain.ErrInvalidInput)
	}
	if s.generator == nil {
		return nil, fmt.Errorf("no generation model configured: %w", domain.ErrLLMUnavailable)
	}

	logger.Section("Question Pipeline")
	query := s.optimise(ctx, question)

	results, err := s.retriever.Retrieve(ctx, query, s.opts.Limit, s.opts.MinSimilarity)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		logger.Info("No chunks above threshold, returning fallback answer")
		return &domain.Answer{Text: noResultsMessage}, nil
	}

	reranked, err := s.Rerank(ctx, query, results, s.opts.TopN)
	if err != nil {
		return nil, err
	}
	if len(reranked) == 0 {
		return &domain.Answer{Text: noResultsMessage}, nil
	}

	text, err := s.generate(ctx, question, reranked)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrGenerationFailed, err)
	}
	if strings.TrimSpace(text) == "" {
		logger.Warn("Model returned an empty completion, using fallback answer")
		text = emptyCompletionMessage
	}

	return &domain.Answer{
		Text:    text,
		Sources: collectSources(reranked),
	}, nil
}

// Pipeline retrieval parameters: a wider net than interactive asking,
// cut harder by the reranker.
const (
	pipelineLimit = 25
	pipelineTopN  = 5
)

// Pipeline runs optimisation, retrieval and reranking without answer
// generation and returns the reranked chunks.
func (s *AskService) Pipeline(ctx context.Context, query string) ([]domain.RerankResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("empty query: %w", domain.ErrInvalidInput)
	}

	logger.Section("Retrieval Pipeline")
	optimised := s.optimise(ctx, query)

	results, err := s.retriever.Retrieve(ctx, optimised, pipelineLimit, s.opts.MinSimilarity)
	if err != nil {
		return nil, err
	}
	logger.Info("Retrieved %d chunks", len(results))

	return s.Rerank(ctx, optimised, results, pipelineTopN)
}

// optimise rewrites the question into a retrieval query. Any failure
// falls back to the original question.
func (s *AskService) optimise(ctx context.Context, question string) string {
	if s.optimiser == nil {
		return question
	}

	optimised, err := s.optimiser.Chat(ctx, []driven.ChatMessage{
		{Role: "system", Content: optimiserSystemPrompt},
		{Role: "user", Content: question},
	}, driven.ChatOptions{})
	if err != nil {
		logger.Warn("Query optimisation failed, using original query: %v", err)
		return question
	}

	optimised = strings.TrimSpace(optimised)
	if optimised == "" {
		return question
	}

	logger.Debug("Optimised query: %q", optimised)
	return optimised
}

// Rerank scores the retrieved chunks against the query and keeps the
// topN most relevant. Without a reranker the similarity order stands.
func (s *AskService) Rerank(ctx context.Context, query string, results []domain.RetrievalResult, topN int) ([]domain.RerankResult, error) {
	if topN <= 0 {
		topN = s.opts.TopN
	}

	if s.reranker == nil {
		logger.Debug("No reranker configured, keeping similarity order")
		if topN > len(results) {
			topN = len(results)
		}
		reranked := make([]domain.RerankResult, topN)
		for i := 0; i < topN; i++ {
			reranked[i] = domain.RerankResult{
				Content:        results[i].Content,
				Metadata:       results[i].Metadata,
				RelevanceScore: results[i].Similarity,
			}
		}
		return reranked, nil
	}

	documents := make([]string, len(results))
	for i, result := range results {
		documents[i] = result.Content
	}

	hits, err := s.reranker.Rerank(ctx, query, documents, topN)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRerankFailed, err)
	}

	reranked := make([]domain.RerankResult, 0, len(hits))
	for _, hit := range hits {
		if hit.Index < 0 || hit.Index >= len(results) {
			continue
		}
		reranked = append(reranked, domain.RerankResult{
			Content:        results[hit.Index].Content,
			Metadata:       results[hit.Index].Metadata,
			RelevanceScore: hit.RelevanceScore,
		})
	}

	logger.Debug("Reranked %d chunks to %d", len(results), len(reranked))
	return reranked, nil
}

// generate asks the model for an answer grounded in the reranked
// chunks. Deterministic generation: explicit zero temperature.
func (s *AskService) generate(ctx context.Context, question string, reranked []domain.RerankResult) (string, error) {
	contextParts := make([]string, len(reranked))
	for i, result := range reranked {
		contextParts[i] = result.Content
	}

	return s.generator.Chat(ctx, []driven.ChatMessage{
		{Role: "system", Content: fmt.Sprintf(generatorSystemPrompt, strings.Join(contextParts, "\n\n"))},
		{Role: "user", Content: question},
	}, driven.ChatOptions{
		Temperature: 0,
		MaxTokens:   2000,
	})
}

// collectSources extracts unique source links from the reranked
// chunks, preserving rank order.
func collectSources(reranked []domain.RerankResult) []domain.Source {
	seen := make(map[string]bool)
	var sources []domain.Source

	for _, result := range reranked {
		url := result.Metadata.SourceURL()
		if url == "" || seen[url] {
			continue
		}
		seen[url] = true

		title := result.Metadata.Title
		if title == "" {
			title = "Fuente"
		}
		sources = append(sources, domain.Source{
			Title: title,
			URL:   url,
		})
	}

	return sources
}
