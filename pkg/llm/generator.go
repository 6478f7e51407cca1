// Package llm adapts external text-generation providers to the single
// operation the answering pipeline needs: turn a grounded prompt into an
// answer.
package llm

import (
	"context"
	"errors"
)

// ErrUnavailable is returned when the generation provider keeps failing
// after the retry policy is exhausted.
var ErrUnavailable = errors.New("generation capability unavailable")

// Generator produces text from a prompt.
type Generator interface {
	// Generate returns the model's completion for the prompt.
	Generate(ctx context.Context, prompt string) (string, error)

	// Close releases any resources held by the generator.
	Close() error
}
