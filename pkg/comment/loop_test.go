package comment

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/engage/pkg/history"
	"github.com/entrhq/engage/pkg/logging"
	"github.com/entrhq/engage/pkg/types"
)

// memoryStore is an in-memory history store.
type memoryStore struct {
	comments []string
}

func (m *memoryStore) Load(context.Context) ([]string, error) {
	return append([]string(nil), m.comments...), nil
}

func (m *memoryStore) Save(_ context.Context, comments []string) error {
	m.comments = append([]string(nil), comments...)
	return nil
}

type failingAcceptor struct{ err error }

func (f failingAcceptor) Accept(context.Context, types.CommentCandidate) (bool, error) {
	return false, f.err
}

func newLoop(gen *scriptedGenerator, store history.Store, maxAttempts int) *Loop {
	guard := history.NewGuard(store, logging.Discard())
	return NewLoop(NewComposer(gen), guard, maxAttempts, logging.Discard())
}

func TestLoop_RetriesPastDuplicate(t *testing.T) {
	store := &memoryStore{comments: []string{"Nice video! 😊"}}
	gen := &scriptedGenerator{outputs: []string{"Nice video! 😊", "That scream at the end 😱"}}

	got, err := newLoop(gen, store, 0).Run(context.Background(), "Title", nil)
	require.NoError(t, err)

	assert.Equal(t, "That scream at the end 😱", got)
	assert.Equal(t, 2, gen.calls, "duplicate must trigger a second attempt")
	assert.Equal(t, []string{"Nice video! 😊", "That scream at the end 😱"}, store.comments)
}

func TestLoop_NeverReturnsPreExistingComment(t *testing.T) {
	pre := []string{"a", "b", "c"}
	store := &memoryStore{comments: append([]string(nil), pre...)}
	gen := &scriptedGenerator{outputs: []string{"a", "b", "c", "a", "d"}}

	got, err := newLoop(gen, store, 0).Run(context.Background(), "Title", nil)
	require.NoError(t, err)
	assert.NotContains(t, pre, got)
	assert.Equal(t, "d", got)
	assert.Equal(t, 5, gen.calls)
}

func TestLoop_SkipsEmptyCandidates(t *testing.T) {
	store := &memoryStore{}
	gen := &scriptedGenerator{outputs: []string{"   ", "<think>only thoughts</think>", "Fresh one"}}

	got, err := newLoop(gen, store, 0).Run(context.Background(), "Title", nil)
	require.NoError(t, err)
	assert.Equal(t, "Fresh one", got)
	assert.Equal(t, []string{"Fresh one"}, store.comments)
}

func TestLoop_Exhausted(t *testing.T) {
	store := &memoryStore{comments: []string{"same"}}
	gen := &scriptedGenerator{outputs: []string{"same"}}

	_, err := newLoop(gen, store, 3).Run(context.Background(), "Title", nil)
	assert.ErrorIs(t, err, ErrGenerationExhausted)
	assert.Equal(t, 3, gen.calls)
}

func TestLoop_GenerationFailureStops(t *testing.T) {
	gen := &scriptedGenerator{err: errors.New("timeout")}
	_, err := newLoop(gen, &memoryStore{}, 0).Run(context.Background(), "Title", nil)
	assert.ErrorIs(t, err, ErrGenerationFailed)
	assert.Equal(t, 0, gen.calls)
}

func TestLoop_GuardFailureStops(t *testing.T) {
	boom := errors.New("history unwritable")
	gen := &scriptedGenerator{outputs: []string{"x"}}
	loop := NewLoop(NewComposer(gen), failingAcceptor{err: boom}, 0, logging.Discard())

	_, err := loop.Run(context.Background(), "Title", nil)
	assert.ErrorIs(t, err, boom)
}

func TestLoop_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	gen := &scriptedGenerator{outputs: []string{"x"}}
	_, err := newLoop(gen, &memoryStore{}, 0).Run(ctx, "Title", nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, gen.calls)
}

func TestLoop_PromptIncludesExcerpts(t *testing.T) {
	gen := &scriptedGenerator{outputs: []string{"ok"}}
	_, err := newLoop(gen, &memoryStore{}, 0).Run(context.Background(), "Night Shift", types.SelectionResult{
		{Text: "did you hear that?", Start: 95},
	})
	require.NoError(t, err)
	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "At 01:35, they said: 'did you hear that?'.")
}
