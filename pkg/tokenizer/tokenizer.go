// Package tokenizer counts model tokens so prompts can be kept inside a budget.
package tokenizer

import (
	"fmt"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"
)

// DefaultEncoding is the BPE encoding used by current OpenAI chat models.
const DefaultEncoding = "cl100k_base"

// runesPerToken approximates token counts when no encoding is available.
const runesPerToken = 4

// Counter counts tokens in a piece of text.
type Counter interface {
	Count(text string) int
}

// Tokenizer counts tokens with a tiktoken encoding, or estimates them from
// the rune count when the encoding could not be loaded.
type Tokenizer struct {
	enc *tiktoken.Tiktoken
}

// New loads DefaultEncoding. On failure it still returns a usable estimating
// Tokenizer along with the error.
func New() (*Tokenizer, error) {
	return NewWithEncoding(DefaultEncoding)
}

// NewWithEncoding loads the named encoding.
func NewWithEncoding(encoding string) (*Tokenizer, error) {
	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return &Tokenizer{}, fmt.Errorf("failed to load encoding %s: %w", encoding, err)
	}
	return &Tokenizer{enc: enc}, nil
}

// Estimating returns a Tokenizer that never touches tiktoken.
func Estimating() *Tokenizer {
	return &Tokenizer{}
}

// Exact reports whether counts come from a real encoding.
func (t *Tokenizer) Exact() bool {
	return t.enc != nil
}

// Count returns the number of tokens in text.
func (t *Tokenizer) Count(text string) int {
	if text == "" {
		return 0
	}
	if t.enc != nil {
		return len(t.enc.Encode(text, nil, nil))
	}
	n := utf8.RuneCountInString(text)
	return (n + runesPerToken - 1) / runesPerToken
}
