package comment

import (
	"context"
	"fmt"

	"github.com/entrhq/engage/pkg/logging"
	"github.com/entrhq/engage/pkg/types"
)

// DefaultMaxAttempts caps the generation loop.
const DefaultMaxAttempts = 50

// CandidateSource produces comment candidates for a prompt.
type CandidateSource interface {
	Compose(title string, excerpts types.SelectionResult) string
	Generate(ctx context.Context, prompt string) (types.CommentCandidate, error)
}

// Acceptor decides whether a candidate may be used.
type Acceptor interface {
	Accept(ctx context.Context, candidate types.CommentCandidate) (bool, error)
}

// Loop generates comments until one is accepted.
type Loop struct {
	source      CandidateSource
	guard       Acceptor
	maxAttempts int
	logger      *logging.Logger
}

// NewLoop creates a generation loop. maxAttempts <= 0 means DefaultMaxAttempts.
func NewLoop(source CandidateSource, guard Acceptor, maxAttempts int, logger *logging.Logger) *Loop {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &Loop{source: source, guard: guard, maxAttempts: maxAttempts, logger: logger}
}

// Run returns the first generated comment the guard accepts. There is no
// backoff between attempts. Generation and guard errors end the loop.
func (l *Loop) Run(ctx context.Context, title string, excerpts types.SelectionResult) (string, error) {
	prompt := l.source.Compose(title, excerpts)
	l.logger.Debugf("prompt: %s", prompt)

	for attempt := 1; attempt <= l.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		candidate, err := l.source.Generate(ctx, prompt)
		if err != nil {
			return "", err
		}
		l.logger.Infof("attempt %d generated comment: %q", attempt, candidate.Text)

		if candidate.IsEmpty() {
			l.logger.Warnf("attempt %d produced an empty comment, generating again", attempt)
			continue
		}

		accepted, err := l.guard.Accept(ctx, candidate)
		if err != nil {
			return "", err
		}
		if accepted {
			return candidate.Text, nil
		}
		l.logger.Infof("attempt %d comment already used, generating again", attempt)
	}

	return "", fmt.Errorf("%w after %d attempts", ErrGenerationExhausted, l.maxAttempts)
}
