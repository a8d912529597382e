package behavior

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/entrhq/engage/pkg/types"
)

// fakeClock advances only when something sleeps on it.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
	return nil
}

// call is one recorded session interaction.
type call struct {
	action string
	at     time.Time
	arg    any
}

// fakeSession records every call against the fake clock and can be told to fail.
type fakeSession struct {
	clock *fakeClock
	fail  map[string]error
	calls []call
	// onCall runs after a call is recorded; tests use it to cancel mid-session.
	onCall func(action string)
	closed int
}

func newFakeSession(clock *fakeClock) *fakeSession {
	return &fakeSession{clock: clock, fail: map[string]error{}}
}

func (f *fakeSession) do(action string, arg any) error {
	f.calls = append(f.calls, call{action: action, at: f.clock.Now(), arg: arg})
	if f.onCall != nil {
		f.onCall(action)
	}
	return f.fail[action]
}

func (f *fakeSession) Navigate(_ context.Context, url string) error { return f.do("navigate", url) }
func (f *fakeSession) Wait(ctx context.Context, d time.Duration) error {
	if err := f.do("wait", d); err != nil {
		return err
	}
	return f.clock.Sleep(ctx, d)
}
func (f *fakeSession) ClickLike(context.Context) error           { return f.do("like", nil) }
func (f *fakeSession) Scroll(_ context.Context, amount int) error { return f.do("scroll", amount) }
func (f *fakeSession) OpenCommentBox(context.Context) error      { return f.do("open_comment", nil) }
func (f *fakeSession) TypeText(_ context.Context, text string, delay time.Duration) error {
	return f.do("type", [2]any{text, delay})
}
func (f *fakeSession) SubmitComment(context.Context) error  { return f.do("submit", nil) }
func (f *fakeSession) TogglePlayback(context.Context) error { return f.do("toggle", nil) }
func (f *fakeSession) SeekForward(context.Context) error    { return f.do("seek", nil) }
func (f *fakeSession) Close() error {
	f.closed++
	return f.fail["close"]
}

func (f *fakeSession) count(action string) int {
	n := 0
	for _, c := range f.calls {
		if c.action == action {
			n++
		}
	}
	return n
}

func (f *fakeSession) actions() []string {
	out := make([]string, 0, len(f.calls))
	for _, c := range f.calls {
		out = append(out, c.action)
	}
	return out
}

// fakeOpener hands out one fake session.
type fakeOpener struct {
	session *fakeSession
	err     error
	cookies []types.Cookie
	opened  int
}

func (o *fakeOpener) Open(_ context.Context, cookies []types.Cookie) (Session, error) {
	o.opened++
	o.cookies = cookies
	if o.err != nil {
		return nil, o.err
	}
	return o.session, nil
}

var errUI = errors.New("element not found")
