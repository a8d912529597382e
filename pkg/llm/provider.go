// Package llm defines the text-generation capability used to write comments.
//
// Example usage:
//
//	provider, err := openai.NewProvider(
//	    os.Getenv("OPENAI_API_KEY"),
//	    openai.WithModel("gpt-4o-mini"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := provider.Init(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Shutdown()
//
//	text, err := provider.GenerateText(ctx, prompt, 25, 0.7)
package llm

import (
	"context"
	"errors"
)

// ErrNotInitialized is returned when a provider is used before Init or after Shutdown.
var ErrNotInitialized = errors.New("llm: provider not initialized")

// Generator turns a prompt into text.
//
// maxTokens bounds the length of the output and temperature controls
// sampling; with a non-zero temperature two calls with the same prompt may
// return different text.
type Generator interface {
	GenerateText(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, error)
}

// Provider is a Generator with an explicit lifecycle. Init must be called
// once before GenerateText; Shutdown releases any held resources.
type Provider interface {
	Generator

	// Init prepares the provider for use.
	Init(ctx context.Context) error

	// Shutdown releases resources. Calling it more than once is safe.
	Shutdown() error

	// GetModel returns the model name being used.
	GetModel() string

	// GetBaseURL returns the base URL being used for API requests.
	GetBaseURL() string
}
