package llm

import (
	"context"
	"errors"
	"strings"
)

// ErrEmptyResponse is returned when the model produced no usable text.
var ErrEmptyResponse = errors.New("llm: empty response from model")

// TextClient defines the interface for text-completion providers. The rest of
// the system depends only on this: send a prompt, receive prose back.
type TextClient interface {
	Name() string
	Close() error
	CountTokens(text string) int
	TokenCapacity() int
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// PermanentError indicates an error that will not resolve with retries.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string { return e.Err.Error() }
func (e *PermanentError) Unwrap() error { return e.Err }

func NewPermanentError(err error) error {
	return &PermanentError{Err: err}
}

// CountTokens is a rough shared heuristic for clients without an exact
// tokenizer: about four characters per token for English prose and code.
func CountTokens(text string) int {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0
	}
	n := len(text) / 4
	if n < 1 {
		n = 1
	}
	return n
}
