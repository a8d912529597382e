package history

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/engage/pkg/logging"
	"github.com/entrhq/engage/pkg/types"
)

// memoryStore is an in-memory Store that counts saves.
type memoryStore struct {
	comments []string
	saves    int
	loadErr  error
	saveErr  error
}

func (m *memoryStore) Load(context.Context) ([]string, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return append([]string(nil), m.comments...), nil
}

func (m *memoryStore) Save(_ context.Context, comments []string) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.comments = append([]string(nil), comments...)
	return nil
}

func candidate(text string) types.CommentCandidate {
	return types.CommentCandidate{Text: text}
}

func TestGuard_AcceptTwice(t *testing.T) {
	store := &memoryStore{}
	guard := NewGuard(store, logging.Discard())
	ctx := context.Background()

	ok, err := guard.Accept(ctx, candidate("Nice video! 😊"))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = guard.Accept(ctx, candidate("Nice video! 😊"))
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Equal(t, []string{"Nice video! 😊"}, store.comments)
	assert.Equal(t, 1, store.saves, "a rejection must not persist")
}

func TestGuard_PersistedSizeGrowsByOnePerUniqueAcceptance(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "used_comments.json"))
	guard := NewGuard(store, logging.Discard())
	ctx := context.Background()

	inputs := []string{"a", "b", "a", "c", "b", "d"}
	prev := 0
	for _, in := range inputs {
		_, err := guard.Accept(ctx, candidate(in))
		require.NoError(t, err)

		persisted, err := store.Load(ctx)
		require.NoError(t, err)
		assert.LessOrEqual(t, len(persisted)-prev, 1)
		prev = len(persisted)
	}

	persisted, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c", "d"}, persisted)
}

func TestGuard_SurvivesRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "used_comments.json")
	ctx := context.Background()

	first := NewGuard(NewFileStore(path), logging.Discard())
	ok, err := first.Accept(ctx, candidate("first run"))
	require.NoError(t, err)
	require.True(t, ok)

	second := NewGuard(NewFileStore(path), logging.Discard())
	ok, err = second.Accept(ctx, candidate("first run"))
	require.NoError(t, err)
	assert.False(t, ok)

	n, err := second.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestGuard_DuplicatesInStoreCollapse(t *testing.T) {
	store := &memoryStore{comments: []string{"x", "x", "y"}}
	guard := NewGuard(store, logging.Discard())
	ctx := context.Background()

	n, err := guard.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	ok, err := guard.Accept(ctx, candidate("z"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []string{"x", "y", "z"}, store.comments)
}

func TestGuard_Contains(t *testing.T) {
	guard := NewGuard(&memoryStore{comments: []string{"seen"}}, logging.Discard())
	ctx := context.Background()

	ok, err := guard.Contains(ctx, "seen")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = guard.Contains(ctx, "unseen")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGuard_LoadErrorIsReturned(t *testing.T) {
	boom := errors.New("disk on fire")
	guard := NewGuard(&memoryStore{loadErr: boom}, logging.Discard())

	_, err := guard.Accept(context.Background(), candidate("x"))
	assert.ErrorIs(t, err, boom)
}

func TestGuard_SaveErrorLeavesStateUnchanged(t *testing.T) {
	store := &memoryStore{saveErr: errors.New("read-only")}
	guard := NewGuard(store, logging.Discard())
	ctx := context.Background()

	ok, err := guard.Accept(ctx, candidate("x"))
	assert.Error(t, err)
	assert.False(t, ok)

	contains, err := guard.Contains(ctx, "x")
	require.NoError(t, err)
	assert.False(t, contains)
}
