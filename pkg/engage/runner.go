// Package engage runs one engagement end to end: resolve the video, gather
// context, generate a fresh comment and optionally watch the video.
package engage

import (
	"context"
	"errors"
	"fmt"

	"github.com/entrhq/engage/pkg/behavior"
	"github.com/entrhq/engage/pkg/excerpt"
	"github.com/entrhq/engage/pkg/logging"
	"github.com/entrhq/engage/pkg/types"
	"github.com/entrhq/engage/pkg/youtube"
)

// ErrInvalidURL is returned when no video id can be read from the URL.
var ErrInvalidURL = errors.New("invalid YouTube URL")

// DefaultTopN is how many excerpts ground a comment.
const DefaultTopN = 2

// TitleFetcher returns a video's title, or a placeholder.
type TitleFetcher interface {
	FetchTitle(ctx context.Context, videoID string) string
}

// TranscriptFetcher returns a video's transcript, or nothing.
type TranscriptFetcher interface {
	FetchTranscript(ctx context.Context, videoID string, languages []string) []types.TranscriptUnit
}

// CommentWriter produces a comment that has not been used before.
type CommentWriter interface {
	Run(ctx context.Context, title string, excerpts types.SelectionResult) (string, error)
}

// Watcher plays out a browser session for a prepared engagement.
type Watcher interface {
	Run(ctx context.Context, es *behavior.EngagementSession) (*behavior.Report, error)
}

// Option configures a Runner.
type Option func(*Runner)

// WithWatcher enables the browser session after a comment is chosen.
func WithWatcher(w Watcher) Option {
	return func(r *Runner) {
		r.watcher = w
	}
}

// WithLanguages sets the caption language preference.
func WithLanguages(languages []string) Option {
	return func(r *Runner) {
		r.languages = languages
	}
}

// WithTopN sets how many excerpts are selected.
func WithTopN(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.topN = n
		}
	}
}

// WithResolver replaces the URL to video id resolution.
func WithResolver(resolve func(string) (string, bool)) Option {
	return func(r *Runner) {
		r.resolve = resolve
	}
}

// Runner wires the pipeline together.
type Runner struct {
	titles      TitleFetcher
	transcripts TranscriptFetcher
	selector    *excerpt.Selector
	comments    CommentWriter
	watcher     Watcher
	resolve     func(string) (string, bool)
	languages   []string
	topN        int
	logger      *logging.Logger
}

// NewRunner creates a runner. Without WithWatcher no browser is opened.
func NewRunner(titles TitleFetcher, transcripts TranscriptFetcher, selector *excerpt.Selector, comments CommentWriter, logger *logging.Logger, opts ...Option) *Runner {
	r := &Runner{
		titles:      titles,
		transcripts: transcripts,
		selector:    selector,
		comments:    comments,
		resolve:     youtube.ResolveVideoID,
		languages:   youtube.DefaultLanguages,
		topN:        DefaultTopN,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Result is what a run produced. Report is nil when no browser session ran.
type Result struct {
	Session *behavior.EngagementSession
	Report  *behavior.Report
}

// Run engages with the video at videoURL. An unresolvable URL stops the run
// before anything is fetched. Whatever was completed is returned alongside
// any error.
func (r *Runner) Run(ctx context.Context, videoURL string) (*Result, error) {
	videoID, ok := r.resolve(videoURL)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidURL, videoURL)
	}
	r.logger.Infof("video id: %s", videoID)

	es := &behavior.EngagementSession{
		VideoID:  videoID,
		VideoURL: videoURL,
	}
	result := &Result{Session: es}

	es.Title = r.titles.FetchTitle(ctx, videoID)
	r.logger.Infof("video title: %s", es.Title)

	units := r.transcripts.FetchTranscript(ctx, videoID, r.languages)
	if len(units) == 0 {
		r.logger.Warnf("no transcript available, generating without excerpts")
	}
	es.Context = r.selector.Select(units, r.topN)
	for _, u := range es.Context {
		r.logger.Debugf("excerpt at %.1fs: %s", u.Start, u.Text)
	}

	comment, err := r.comments.Run(ctx, es.Title, es.Context)
	if err != nil {
		return result, fmt.Errorf("failed to generate comment: %w", err)
	}
	es.Comment = comment
	r.logger.Infof("comment: %q", comment)

	if r.watcher == nil {
		return result, nil
	}

	report, err := r.watcher.Run(ctx, es)
	result.Report = report
	if err != nil {
		return result, fmt.Errorf("engagement session failed: %w", err)
	}
	return result, nil
}
