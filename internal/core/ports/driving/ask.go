package driving

import (
	"context"

	"github.com/lydlabs/ragcli/internal/core/domain"
)

// AskService answers natural-language questions grounded in the
// ingested corpus. It is the single entry point the chat surface
// calls: optimise, retrieve, rerank and generate run behind it.
type AskService interface {
	// Ask answers the question from corpus content. When nothing
	// relevant exists the returned Answer carries a user-facing
	// "no information found" message and no sources; an error is
	// returned only for transport-level failures, which the caller
	// turns into its own fallback message.
	Ask(ctx context.Context, question string) (*domain.Answer, error)

	// Pipeline runs optimisation, retrieval and reranking without
	// answer generation, returning the reranked chunks. It exists for
	// inspecting retrieval quality.
	Pipeline(ctx context.Context, query string) ([]domain.RerankResult, error)
}
