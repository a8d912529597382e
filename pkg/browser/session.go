package browser

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/entrhq/engage/pkg/logging"
)

// Session is one browser with a single page on the video.
// Playwright calls do not take a context, so ctx is checked before each one.
type Session struct {
	browser playwright.Browser
	context playwright.BrowserContext
	page    playwright.Page
	logger  *logging.Logger
}

// Navigate opens url and waits for the DOM to load.
func (s *Session) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := s.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
	})
	if err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}
	return nil
}

// Wait pauses for d or until ctx is done.
func (s *Session) Wait(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ClickLike presses the like button.
func (s *Session) ClickLike(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := s.page.Locator(LikeButtonSelector).Click(playwright.LocatorClickOptions{
		Timeout: playwright.Float(DefaultLikeTimeout),
	})
	if err != nil {
		return fmt.Errorf("like button: %w", err)
	}
	return nil
}

// Scroll turns the mouse wheel down by px pixels.
func (s *Session) Scroll(ctx context.Context, px int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.page.Mouse().Wheel(0, float64(px))
}

// OpenCommentBox brings the comment box into view and focuses it.
func (s *Session) OpenCommentBox(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	box := s.page.Locator(CommentBoxSelector).First()
	if err := box.ScrollIntoViewIfNeeded(); err != nil {
		return fmt.Errorf("comment box: %w", err)
	}
	if err := box.Click(); err != nil {
		return fmt.Errorf("comment box: %w", err)
	}
	return nil
}

// TypeText types text into the comment input one character at a time.
func (s *Session) TypeText(ctx context.Context, text string, perChar time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	input := s.page.Locator(CommentInputSelector).First()
	err := input.PressSequentially(text, playwright.LocatorPressSequentiallyOptions{
		Delay: playwright.Float(float64(perChar.Milliseconds())),
	})
	if err != nil {
		return fmt.Errorf("comment input: %w", err)
	}
	return nil
}

// SubmitComment clicks the comment submit button.
func (s *Session) SubmitComment(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.page.Locator(CommentSubmitSelector).First().Click(); err != nil {
		return fmt.Errorf("submit button: %w", err)
	}
	return nil
}

// TogglePlayback pauses or resumes the player.
func (s *Session) TogglePlayback(ctx context.Context) error {
	return s.press(ctx, PlaybackToggleKey)
}

// SeekForward skips ahead in the player.
func (s *Session) SeekForward(ctx context.Context) error {
	return s.press(ctx, SeekForwardKey)
}

func (s *Session) press(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.page.Keyboard().Press(key); err != nil {
		return fmt.Errorf("press %s: %w", key, err)
	}
	return nil
}

// Close releases the page, context and browser. Every close is attempted.
func (s *Session) Close() error {
	var errs []error
	if err := s.page.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := s.context.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := s.browser.Close(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		s.logger.Debugf("browser close reported %d errors", len(errs))
		return fmt.Errorf("errors closing session: %w", errors.Join(errs...))
	}
	return nil
}
