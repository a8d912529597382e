package engage

import (
	"context"
	"errors"
	"math/rand/v2"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/engage/pkg/behavior"
	"github.com/entrhq/engage/pkg/comment"
	"github.com/entrhq/engage/pkg/excerpt"
	"github.com/entrhq/engage/pkg/history"
	"github.com/entrhq/engage/pkg/logging"
	"github.com/entrhq/engage/pkg/types"
)

type fakeTitles struct {
	title string
	calls int
}

func (f *fakeTitles) FetchTitle(_ context.Context, _ string) string {
	f.calls++
	return f.title
}

type fakeTranscripts struct {
	units     []types.TranscriptUnit
	calls     int
	languages []string
}

func (f *fakeTranscripts) FetchTranscript(_ context.Context, _ string, languages []string) []types.TranscriptUnit {
	f.calls++
	f.languages = languages
	return f.units
}

type fakeWriter struct {
	comment  string
	err      error
	title    string
	excerpts types.SelectionResult
	calls    int
}

func (f *fakeWriter) Run(_ context.Context, title string, excerpts types.SelectionResult) (string, error) {
	f.calls++
	f.title = title
	f.excerpts = excerpts
	return f.comment, f.err
}

type fakeWatcher struct {
	seen   *behavior.EngagementSession
	report *behavior.Report
	err    error
}

func (f *fakeWatcher) Run(_ context.Context, es *behavior.EngagementSession) (*behavior.Report, error) {
	f.seen = es
	es.Phase = behavior.PhaseClosed
	return f.report, f.err
}

// memStore is an in-memory history.Store.
type memStore struct {
	mu       sync.Mutex
	comments []string
	saves    int
}

func (m *memStore) Load(context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.comments...), nil
}

func (m *memStore) Save(_ context.Context, comments []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	m.comments = append([]string(nil), comments...)
	return nil
}

// scriptedGenerator returns its replies in order.
type scriptedGenerator struct {
	replies []string
	prompts []string
}

func (g *scriptedGenerator) GenerateText(_ context.Context, prompt string, _ int, _ float64) (string, error) {
	g.prompts = append(g.prompts, prompt)
	if len(g.replies) == 0 {
		return "", errors.New("script exhausted")
	}
	reply := g.replies[0]
	g.replies = g.replies[1:]
	return reply, nil
}

var transcript = []types.TranscriptUnit{
	{Text: "hello", Start: 1},
	{Text: "suno, koi hai wahan? andhera hai!", Start: 65},
	{Text: "ok", Start: 70},
	{Text: "chalo", Start: 80},
	{Text: "haan", Start: 90},
	{Text: "theek", Start: 95},
	{Text: "hmm", Start: 100},
}

func newSelector(seed uint64) *excerpt.Selector {
	return excerpt.NewSelector(excerpt.NewScorer(nil), rand.New(rand.NewPCG(seed, seed)))
}

func TestRun_InvalidURLStopsEverything(t *testing.T) {
	titles := &fakeTitles{title: "t"}
	transcripts := &fakeTranscripts{}
	writer := &fakeWriter{comment: "c"}
	watcher := &fakeWatcher{}

	r := NewRunner(titles, transcripts, newSelector(1), writer, logging.Discard(), WithWatcher(watcher))

	for _, url := range []string{"https://www.youtube.com/watch", "https://youtu.be/abc123", ""} {
		result, err := r.Run(context.Background(), url)
		require.ErrorIs(t, err, ErrInvalidURL)
		assert.Nil(t, result)
	}
	assert.Zero(t, titles.calls)
	assert.Zero(t, transcripts.calls)
	assert.Zero(t, writer.calls)
	assert.Nil(t, watcher.seen)
}

func TestRun_WithoutWatcher(t *testing.T) {
	titles := &fakeTitles{title: "Haunted Haveli"}
	transcripts := &fakeTranscripts{units: transcript}
	writer := &fakeWriter{comment: "Goosebumps at 01:05 😱"}

	r := NewRunner(titles, transcripts, newSelector(7), writer, logging.Discard(),
		WithLanguages([]string{"en"}), WithTopN(3))

	result, err := r.Run(context.Background(), "https://www.youtube.com/watch?v=abc123&t=5s")
	require.NoError(t, err)

	es := result.Session
	assert.Equal(t, "abc123", es.VideoID)
	assert.Equal(t, "https://www.youtube.com/watch?v=abc123&t=5s", es.VideoURL)
	assert.Equal(t, "Haunted Haveli", es.Title)
	assert.Equal(t, "Goosebumps at 01:05 😱", es.Comment)
	assert.Nil(t, result.Report)

	assert.Equal(t, []string{"en"}, transcripts.languages)
	assert.Equal(t, "Haunted Haveli", writer.title)
	// floor(7 * 0.3) = 2 candidates, both taken.
	require.Len(t, es.Context, 2)
	assert.Equal(t, writer.excerpts, es.Context)
	assert.Contains(t, es.Context.Texts(), "suno, koi hai wahan? andhera hai!")
}

func TestRun_EmptyTranscriptStillGenerates(t *testing.T) {
	writer := &fakeWriter{comment: "Loved it!"}
	r := NewRunner(&fakeTitles{title: "x"}, &fakeTranscripts{}, newSelector(1), writer, logging.Discard())

	result, err := r.Run(context.Background(), "https://example.com/watch?v=abc123")
	require.NoError(t, err)
	assert.Empty(t, result.Session.Context)
	assert.Equal(t, 1, writer.calls)
	assert.Equal(t, "Loved it!", result.Session.Comment)
}

func TestRun_GenerationErrorSkipsWatcher(t *testing.T) {
	writer := &fakeWriter{err: comment.ErrGenerationExhausted}
	watcher := &fakeWatcher{}
	r := NewRunner(&fakeTitles{}, &fakeTranscripts{}, newSelector(1), writer, logging.Discard(), WithWatcher(watcher))

	result, err := r.Run(context.Background(), "https://example.com/watch?v=abc123")
	require.ErrorIs(t, err, comment.ErrGenerationExhausted)
	require.NotNil(t, result)
	assert.Empty(t, result.Session.Comment)
	assert.Nil(t, watcher.seen)
}

func TestRun_WatcherReceivesPreparedSession(t *testing.T) {
	report := &behavior.Report{Phases: []behavior.Phase{behavior.PhaseOpening, behavior.PhaseClosed}}
	watcher := &fakeWatcher{report: report}
	r := NewRunner(&fakeTitles{title: "T"}, &fakeTranscripts{units: transcript}, newSelector(3),
		&fakeWriter{comment: "wow"}, logging.Discard(), WithWatcher(watcher))

	result, err := r.Run(context.Background(), "https://www.youtube.com/watch?v=abc123")
	require.NoError(t, err)
	require.NotNil(t, watcher.seen)
	assert.Same(t, result.Session, watcher.seen)
	assert.Equal(t, "wow", watcher.seen.Comment)
	assert.Equal(t, behavior.PhaseClosed, result.Session.Phase)
	assert.Same(t, report, result.Report)

	watcher.err = errors.New("navigation failed")
	result, err = r.Run(context.Background(), "https://www.youtube.com/watch?v=abc123")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "navigation failed")
	assert.Same(t, report, result.Report)
}

func TestRun_FullPipelineRejectsUsedComment(t *testing.T) {
	store := &memStore{comments: []string{"Scariest one yet 😱"}}
	guard := history.NewGuard(store, logging.Discard())
	gen := &scriptedGenerator{replies: []string{
		`"Scariest one yet 😱"`,
		"<think>they want short</think>That whisper at 01:05 gave me chills 👻",
	}}
	composer := comment.NewComposer(gen)
	loop := comment.NewLoop(composer, guard, 5, logging.Discard())

	r := NewRunner(&fakeTitles{title: "Haunted Haveli"}, &fakeTranscripts{units: transcript},
		newSelector(11), loop, logging.Discard())

	result, err := r.Run(context.Background(), "https://www.youtube.com/watch?v=abc123")
	require.NoError(t, err)

	assert.Equal(t, "That whisper at 01:05 gave me chills 👻", result.Session.Comment)
	assert.Equal(t, []string{"Scariest one yet 😱", "That whisper at 01:05 gave me chills 👻"}, store.comments)
	assert.Equal(t, 1, store.saves)

	require.Len(t, gen.prompts, 2)
	assert.Equal(t, gen.prompts[0], gen.prompts[1])
	assert.Contains(t, gen.prompts[0], "Haunted Haveli")
	assert.True(t, strings.Contains(gen.prompts[0], "At 01:05, they said: 'suno, koi hai wahan? andhera hai!'"))
}
