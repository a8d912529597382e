package comment

import "errors"

var (
	// ErrGenerationFailed wraps any failure of the text generation capability.
	ErrGenerationFailed = errors.New("comment: generation failed")

	// ErrGenerationExhausted is returned when every allowed attempt produced
	// a comment that was empty or already used.
	ErrGenerationExhausted = errors.New("comment: generation attempts exhausted")
)
