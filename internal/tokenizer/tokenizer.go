// Package tokenizer estimates how many model tokens a piece of source code
// will consume, so the interface can warn before an oversized request.
package tokenizer

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

const fallbackEncoding = "cl100k_base"

// Counter reports the token count of a text for a particular model.
type Counter interface {
	Count(text string) (int, error)
}

type tiktokenCounter struct {
	encoding *tiktoken.Tiktoken
}

// NewCounter builds a Counter for the given model. Models the BPE tables
// don't know fall back to cl100k_base, which covers the GPT-4 family.
func NewCounter(model string) (Counter, error) {
	encoding, err := tiktoken.EncodingForModel(model)
	if err != nil {
		encoding, err = tiktoken.GetEncoding(fallbackEncoding)
		if err != nil {
			return nil, fmt.Errorf("tokenizer: load encoding for %s: %w", model, err)
		}
	}
	return &tiktokenCounter{encoding: encoding}, nil
}

func (c *tiktokenCounter) Count(text string) (int, error) {
	return len(c.encoding.Encode(text, nil, nil)), nil
}
