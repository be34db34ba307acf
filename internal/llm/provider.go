// Package llm provides a provider-agnostic language model client interface
// and a chat-completions implementation used by the documentation generator.
package llm

import "context"

// Provider abstracts a language model API behind a single synchronous
// completion method. Implementations must respect context cancellation.
type Provider interface {
	Complete(ctx context.Context, req Request) (*Response, error)
}

// Request describes one completion call.
type Request struct {
	// SystemPrompt sets the system instruction for the completion.
	SystemPrompt string

	// Prompt is the user message to send.
	Prompt string

	// Temperature controls randomness.
	Temperature float64
}

// Response holds the result of a completion call.
type Response struct {
	// Content is the text returned by the model.
	Content string

	// Model is the model that served the request.
	Model string

	// Usage reports token consumption when the API provides it.
	Usage Usage
}

// Usage tracks token counts for a single request.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
}
