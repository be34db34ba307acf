package docgen

import (
	"context"
	"fmt"

	"github.com/docwright/docgen/internal/llm"
)

const defaultTemperature = 0.7

// Generator sends documentation requests to a model provider and parses the
// replies. It issues one call at a time and holds no mutable state between
// calls.
type Generator struct {
	provider    llm.Provider
	temperature float64
}

// Option customizes a Generator during construction.
type Option func(*Generator)

// WithTemperature overrides the sampling temperature sent with each request.
func WithTemperature(temperature float64) Option {
	return func(g *Generator) {
		g.temperature = temperature
	}
}

// NewGenerator wires a generator to a model provider.
func NewGenerator(provider llm.Provider, opts ...Option) *Generator {
	generator := &Generator{
		provider:    provider,
		temperature: defaultTemperature,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(generator)
		}
	}
	return generator
}

// GenerateDocumentation requests full documentation for the code and parses
// the reply into a Document. Provider failures are wrapped into an
// error-shaped document rather than returned; the only error this method
// returns is the input error for blank code, raised before any model call.
func (g *Generator) GenerateDocumentation(ctx context.Context, code, language string) (Document, error) {
	if err := ValidateCode(code); err != nil {
		return Document{}, err
	}
	system, user := BuildDocumentationPrompt(code, language)
	response, err := g.provider.Complete(ctx, llm.Request{
		SystemPrompt: system,
		Prompt:       user,
		Temperature:  g.temperature,
	})
	if err != nil {
		return ErrorDocument(fmt.Sprintf("Failed to generate documentation: %v", err)), nil
	}
	return ParseDocumentation(response.Content), nil
}

// GenerateDocstring requests a standalone docstring in the given style and
// returns the trimmed reply. Blank code is rejected before any model call.
func (g *Generator) GenerateDocstring(ctx context.Context, code, style string) (string, error) {
	if err := ValidateCode(code); err != nil {
		return "", err
	}
	system, user := BuildDocstringPrompt(code, style)
	response, err := g.provider.Complete(ctx, llm.Request{
		SystemPrompt: system,
		Prompt:       user,
		Temperature:  g.temperature,
	})
	if err != nil {
		return "", fmt.Errorf("generate docstring: %w", err)
	}
	return TrimDocstring(response.Content), nil
}
