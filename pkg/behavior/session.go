package behavior

import (
	"context"
	"time"

	"github.com/entrhq/engage/pkg/types"
)

// Session is the browser automation surface the simulator drives.
// Implementations own one browser page; Close releases it.
type Session interface {
	Navigate(ctx context.Context, url string) error
	Wait(ctx context.Context, d time.Duration) error
	ClickLike(ctx context.Context) error
	Scroll(ctx context.Context, amountPx int) error
	OpenCommentBox(ctx context.Context) error
	TypeText(ctx context.Context, text string, perCharDelay time.Duration) error
	SubmitComment(ctx context.Context) error
	TogglePlayback(ctx context.Context) error
	SeekForward(ctx context.Context) error
	Close() error
}

// SessionOpener acquires a new browser session with cookies already injected.
type SessionOpener interface {
	Open(ctx context.Context, cookies []types.Cookie) (Session, error)
}

// EngagementSession is the state of one engagement against a single video.
type EngagementSession struct {
	VideoID  string
	VideoURL string
	Title    string
	Comment  string
	Context  types.SelectionResult
	Phase    Phase
}
