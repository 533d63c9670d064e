package driven

import "context"

// LLMService provides chat-completion operations for query
// optimisation and grounded answer generation. This is an optional
// service - when nil, optimisation is skipped and generation is
// unavailable.
type LLMService interface {
	// Chat produces a completion for the conversation. An empty
	// string with a nil error means the model returned no content;
	// callers substitute their own fallback rather than treating it
	// as a failure.
	Chat(ctx context.Context, messages []ChatMessage, opts ChatOptions) (string, error)

	// ModelName returns the name of the model being used.
	ModelName() string
}

// ChatMessage represents a single message in a conversation.
type ChatMessage struct {
	// Role is one of "system", "user", or "assistant".
	Role string

	// Content is the message text.
	Content string
}

// ChatOptions configures chat behaviour.
type ChatOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	// Zero leaves the backend default in place.
	MaxTokens int

	// Temperature controls randomness. Grounded generation pins it to
	// zero for reproducibility; the adapter must send it explicitly
	// rather than omitting zero values.
	Temperature float64
}
