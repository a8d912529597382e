// Package history keeps the set of comments already posted so none is reused.
package history

import (
	"context"
	"fmt"
	"sync"

	"github.com/entrhq/engage/pkg/logging"
	"github.com/entrhq/engage/pkg/types"
)

// Guard accepts a comment only if it has never been accepted before.
// Every acceptance is persisted before Accept returns.
type Guard struct {
	store  Store
	logger *logging.Logger

	mu      sync.Mutex
	loaded  bool
	seen    map[string]struct{}
	entries []string
}

// NewGuard creates a guard over store. The history is loaded on first use.
func NewGuard(store Store, logger *logging.Logger) *Guard {
	return &Guard{store: store, logger: logger}
}

// Accept records candidate and returns true, or returns false without any
// change if the same text was accepted before. Load and save errors are returned.
func (g *Guard) Accept(ctx context.Context, candidate types.CommentCandidate) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.ensureLoaded(ctx); err != nil {
		return false, err
	}

	if _, dup := g.seen[candidate.Text]; dup {
		g.logger.Infof("comment already used: %q", candidate.Text)
		return false, nil
	}

	next := make([]string, len(g.entries), len(g.entries)+1)
	copy(next, g.entries)
	next = append(next, candidate.Text)
	if err := g.store.Save(ctx, next); err != nil {
		return false, fmt.Errorf("failed to persist comment history: %w", err)
	}

	g.entries = next
	g.seen[candidate.Text] = struct{}{}
	g.logger.Debugf("accepted comment, history size %d", len(g.entries))
	return true, nil
}

// Contains reports whether text has already been accepted.
func (g *Guard) Contains(ctx context.Context, text string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.ensureLoaded(ctx); err != nil {
		return false, err
	}
	_, ok := g.seen[text]
	return ok, nil
}

// Len returns the number of accepted comments.
func (g *Guard) Len(ctx context.Context) (int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.ensureLoaded(ctx); err != nil {
		return 0, err
	}
	return len(g.entries), nil
}

func (g *Guard) ensureLoaded(ctx context.Context) error {
	if g.loaded {
		return nil
	}

	stored, err := g.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load comment history: %w", err)
	}

	// Duplicates in a hand-edited file collapse to their first occurrence.
	g.seen = make(map[string]struct{}, len(stored))
	g.entries = make([]string, 0, len(stored))
	for _, c := range stored {
		if _, dup := g.seen[c]; dup {
			continue
		}
		g.seen[c] = struct{}{}
		g.entries = append(g.entries, c)
	}
	g.loaded = true
	g.logger.Debugf("loaded %d comments from history", len(g.entries))
	return nil
}
