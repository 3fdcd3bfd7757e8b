// Package token estimates token counts using the GPT-family byte-pair
// encodings. Counts only need to be consistent within one process, not exact
// for any particular model.
package token

import (
	"fmt"
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

const (
	// PrimaryEncoding matches the gpt-4/3.5 model families.
	PrimaryEncoding = "cl100k_base"
	// FallbackEncoding is used when the primary encoding fails to load.
	FallbackEncoding = "p50k_base"
)

// Tokenizer wraps a tiktoken encoding. The zero value is not usable; obtain
// one from Load.
type Tokenizer struct {
	encoding string
	enc      *tiktoken.Tiktoken
}

var (
	sharedOnce sync.Once
	shared     *Tokenizer
	sharedErr  error
)

// Load returns the process-wide tokenizer, constructing it on first use.
// It tries the primary encoding first and falls back to the alternate;
// an error is returned only when both fail to load.
func Load() (*Tokenizer, error) {
	sharedOnce.Do(func() {
		shared, sharedErr = newTokenizer()
	})
	return shared, sharedErr
}

func newTokenizer() (*Tokenizer, error) {
	enc, err := tiktoken.GetEncoding(PrimaryEncoding)
	if err == nil {
		return &Tokenizer{encoding: PrimaryEncoding, enc: enc}, nil
	}

	enc, fallbackErr := tiktoken.GetEncoding(FallbackEncoding)
	if fallbackErr != nil {
		return nil, fmt.Errorf("no usable encoding: %s: %v; %s: %w",
			PrimaryEncoding, err, FallbackEncoding, fallbackErr)
	}
	return &Tokenizer{encoding: FallbackEncoding, enc: enc}, nil
}

// Count returns the number of tokens in text. Empty text counts as zero.
func (t *Tokenizer) Count(text string) int {
	if text == "" {
		return 0
	}
	return len(t.enc.Encode(text, nil, nil))
}

// Encode converts text to its token ID sequence.
func (t *Tokenizer) Encode(text string) []int {
	return t.enc.Encode(text, nil, nil)
}

// Decode converts a token ID sequence back to text.
func (t *Tokenizer) Decode(tokens []int) string {
	return t.enc.Decode(tokens)
}

// Encoding reports which encoding scheme is in use.
func (t *Tokenizer) Encoding() string {
	return t.encoding
}
