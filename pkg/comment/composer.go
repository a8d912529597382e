// Package comment writes short viewer comments grounded in transcript excerpts
// and retries until the history accepts one that was never used before.
package comment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/entrhq/engage/pkg/llm"
	"github.com/entrhq/engage/pkg/llm/parser"
	"github.com/entrhq/engage/pkg/tokenizer"
	"github.com/entrhq/engage/pkg/types"
)

const (
	// DefaultMaxTokens bounds the length of a generated comment.
	DefaultMaxTokens = 25

	// DefaultTemperature keeps generations varied between attempts.
	DefaultTemperature = 0.7
)

const promptTemplate = `Write a short, casual, positive YouTube comment (no explanation, no extra text) for a video titled '%s'.
Mention something specific from this context if possible: %s.
Use natural tone and emojis.
Comment:`

// ComposerOption configures a Composer.
type ComposerOption func(*Composer)

// WithMaxTokens sets the output token budget passed to the generator.
func WithMaxTokens(n int) ComposerOption {
	return func(c *Composer) {
		if n > 0 {
			c.maxTokens = n
		}
	}
}

// WithTemperature sets the sampling temperature passed to the generator.
func WithTemperature(t float64) ComposerOption {
	return func(c *Composer) {
		c.temperature = t
	}
}

// WithContextBudget caps the excerpt context to n tokens as measured by
// counter. The first excerpt is always kept. Zero disables the cap.
func WithContextBudget(n int, counter tokenizer.Counter) ComposerOption {
	return func(c *Composer) {
		c.contextBudget = n
		c.counter = counter
	}
}

// Composer builds prompts from transcript excerpts and asks the generator for a comment.
type Composer struct {
	gen           llm.Generator
	maxTokens     int
	temperature   float64
	contextBudget int
	counter       tokenizer.Counter
}

// NewComposer creates a composer that generates text with gen.
func NewComposer(gen llm.Generator, opts ...ComposerOption) *Composer {
	c := &Composer{
		gen:         gen,
		maxTokens:   DefaultMaxTokens,
		temperature: DefaultTemperature,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Timestamp renders an offset in seconds as MM:SS. Hours are not shown, so
// offsets of an hour or more wrap around.
func Timestamp(seconds float64) string {
	offset := time.Duration(seconds * float64(time.Second))
	return time.Unix(0, 0).UTC().Add(offset).Format("04:05")
}

// Context renders the selected excerpts as one block of text.
func (c *Composer) Context(excerpts types.SelectionResult) string {
	var b strings.Builder
	used := 0
	for i, u := range excerpts {
		line := fmt.Sprintf("At %s, they said: '%s'. ", Timestamp(u.Start), u.Text)
		if c.contextBudget > 0 && c.counter != nil {
			cost := c.counter.Count(line)
			if i > 0 && used+cost > c.contextBudget {
				break
			}
			used += cost
		}
		b.WriteString(line)
	}
	return strings.TrimSpace(b.String())
}

// Compose builds the generation prompt for a video title and its excerpts.
func (c *Composer) Compose(title string, excerpts types.SelectionResult) string {
	return fmt.Sprintf(promptTemplate, title, c.Context(excerpts))
}

// Generate asks the generator for one comment and cleans it up.
func (c *Composer) Generate(ctx context.Context, prompt string) (types.CommentCandidate, error) {
	text, err := c.gen.GenerateText(ctx, prompt, c.maxTokens, c.temperature)
	if err != nil {
		return types.CommentCandidate{}, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}
	return types.CommentCandidate{Text: Clean(text)}, nil
}

// Clean strips reasoning blocks, a leading "Comment:" label, wrapping quotes
// and surrounding whitespace from generated text.
func Clean(text string) string {
	text = strings.TrimSpace(parser.StripReasoning(text))
	if label := "Comment:"; len(text) >= len(label) && strings.EqualFold(text[:len(label)], label) {
		text = strings.TrimSpace(text[len(label):])
	}
	for _, q := range []string{`"`, `'`} {
		if len(text) >= 2 && strings.HasPrefix(text, q) && strings.HasSuffix(text, q) {
			text = strings.TrimSpace(text[1 : len(text)-1])
		}
	}
	return text
}
