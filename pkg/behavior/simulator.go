package behavior

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/entrhq/engage/pkg/logging"
	"github.com/entrhq/engage/pkg/types"
)

// Rand is the random source behind every delay, count and coin flip.
// *math/rand/v2.Rand satisfies it.
type Rand interface {
	Float64() float64
	IntN(n int) int
}

// SimulatorOption configures a Simulator.
type SimulatorOption func(*Simulator)

// WithClock replaces the wall clock.
func WithClock(clock Clock) SimulatorOption {
	return func(s *Simulator) {
		s.clock = clock
	}
}

// WithRand replaces the random source.
func WithRand(rng Rand) SimulatorOption {
	return func(s *Simulator) {
		s.rng = rng
	}
}

// WithTiming replaces the default timing bounds.
func WithTiming(timing Timing) SimulatorOption {
	return func(s *Simulator) {
		s.timing = timing
	}
}

// WithCookies sets the cookies injected when the session is opened.
func WithCookies(cookies []types.Cookie) SimulatorOption {
	return func(s *Simulator) {
		s.cookies = cookies
	}
}

// Simulator runs engagement sessions. It is not safe for concurrent use;
// run one session at a time.
type Simulator struct {
	opener  SessionOpener
	cookies []types.Cookie
	clock   Clock
	rng     Rand
	timing  Timing
	logger  *logging.Logger
}

// NewSimulator creates a simulator that acquires sessions from opener.
func NewSimulator(opener SessionOpener, logger *logging.Logger, opts ...SimulatorOption) *Simulator {
	s := &Simulator{
		opener: opener,
		clock:  SystemClock{},
		rng:    rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		timing: DefaultTiming(),
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type step struct {
	phase Phase
	run   func(ctx context.Context, session Session, es *EngagementSession, report *Report) error
}

// Run drives es through every phase and returns what happened. The browser
// session is always released and es ends in PhaseClosed, even when Run
// returns an error. Only session acquisition, navigation and cancellation
// are fatal.
func (s *Simulator) Run(ctx context.Context, es *EngagementSession) (*Report, error) {
	report := &Report{}

	s.enter(es, report, PhaseOpening)
	session, err := s.opener.Open(ctx, s.cookies)
	if err != nil {
		s.enter(es, report, PhaseClosed)
		return report, fmt.Errorf("failed to open browser session: %w", err)
	}
	defer func() {
		if cerr := session.Close(); cerr != nil {
			s.logger.Warnf("failed to close browser session: %v", cerr)
		}
		s.enter(es, report, PhaseClosed)
		s.logger.Infof("session closed after %d phases, watched %s", len(report.Phases), report.Watched.Round(time.Second))
	}()

	s.logger.Infof("opening video: %s", es.VideoURL)
	if err := session.Navigate(ctx, es.VideoURL); err != nil {
		report.record(InteractionResult{Action: ActionNavigate, Err: err})
		return report, fmt.Errorf("failed to open video: %w", err)
	}
	if err := session.Wait(ctx, s.timing.SettleDelay); err != nil {
		return report, err
	}

	steps := []step{
		{PhasePreCommentWatch, s.preCommentWatch},
		{PhaseLiking, s.like},
		{PhaseScrolling, s.scroll},
		{PhaseCommenting, s.comment},
		{PhaseFreeWatch, s.freeWatch},
	}
	for _, st := range steps {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		s.enter(es, report, st.phase)
		if err := st.run(ctx, session, es, report); err != nil {
			return report, err
		}
	}
	return report, nil
}

func (s *Simulator) enter(es *EngagementSession, report *Report, phase Phase) {
	es.Phase = phase
	report.Phases = append(report.Phases, phase)
	s.logger.Debugf("phase %s", phase)
}

func (s *Simulator) preCommentWatch(ctx context.Context, _ Session, _ *EngagementSession, _ *Report) error {
	d := s.uniform(s.timing.PreCommentMin, s.timing.PreCommentMax)
	s.logger.Infof("watching %s before commenting", d.Round(time.Second))
	return s.clock.Sleep(ctx, d)
}

func (s *Simulator) like(ctx context.Context, session Session, _ *EngagementSession, report *Report) error {
	report.Like = report.record(InteractionResult{Action: ActionLike, Err: session.ClickLike(ctx)})
	if err := ctx.Err(); err != nil {
		return err
	}
	if report.Like.Succeeded() {
		s.logger.Infof("liked the video")
	} else {
		s.logger.Warnf("like failed, continuing: %v", report.Like.Err)
	}
	return nil
}

func (s *Simulator) scroll(ctx context.Context, session Session, _ *EngagementSession, report *Report) error {
	n := s.intBetween(s.timing.ScrollCountMin, s.timing.ScrollCountMax)
	for i := 0; i < n; i++ {
		amount := s.intBetween(s.timing.ScrollAmountMin, s.timing.ScrollAmountMax)
		if err := session.Scroll(ctx, amount); err != nil {
			report.record(InteractionResult{Action: ActionScroll, Err: err})
			s.logger.Warnf("scroll %d failed: %v", i+1, err)
		} else {
			report.Scrolls++
		}
		if err := s.clock.Sleep(ctx, s.uniform(s.timing.ScrollPauseMin, s.timing.ScrollPauseMax)); err != nil {
			return err
		}
	}
	return nil
}

func (s *Simulator) comment(ctx context.Context, session Session, es *EngagementSession, report *Report) error {
	err := s.postComment(ctx, session, es.Comment)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	report.Comment = report.record(InteractionResult{Action: ActionComment, Err: err})
	if err != nil {
		s.logger.Warnf("failed to post comment, continuing: %v", err)
	} else {
		s.logger.Infof("comment posted: %q", es.Comment)
	}
	return nil
}

func (s *Simulator) postComment(ctx context.Context, session Session, text string) error {
	if text == "" {
		return errors.New("no comment text")
	}
	if err := session.OpenCommentBox(ctx); err != nil {
		return fmt.Errorf("open comment box: %w", err)
	}
	delay := s.uniform(s.timing.TypeDelayMin, s.timing.TypeDelayMax)
	if err := session.TypeText(ctx, text, delay); err != nil {
		return fmt.Errorf("type comment: %w", err)
	}
	if err := s.clock.Sleep(ctx, s.uniform(s.timing.SubmitPauseMin, s.timing.SubmitPauseMax)); err != nil {
		return err
	}
	if err := session.SubmitComment(ctx); err != nil {
		return fmt.Errorf("submit comment: %w", err)
	}
	return nil
}

func (s *Simulator) freeWatch(ctx context.Context, session Session, _ *EngagementSession, report *Report) error {
	target := s.uniform(s.timing.WatchMin, s.timing.WatchMax)
	report.WatchTarget = target
	s.logger.Infof("watching for another %s", target.Round(100*time.Millisecond))

	start := s.clock.Now()
	for {
		report.Watched = s.clock.Now().Sub(start)
		if report.Watched >= target {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		if s.rng.Float64() < s.timing.PauseProbability {
			if err := s.pause(ctx, session, report); err != nil {
				return err
			}
		}
		// A pause can carry playback past the target; nothing new starts after it.
		if s.rng.Float64() < s.timing.SeekProbability && s.clock.Now().Sub(start) < target {
			if err := session.SeekForward(ctx); err != nil {
				report.record(InteractionResult{Action: ActionSeek, Err: err})
				s.logger.Warnf("seek failed: %v", err)
			} else {
				report.Seeks++
			}
		}

		if err := s.clock.Sleep(ctx, s.uniform(s.timing.TickMin, s.timing.TickMax)); err != nil {
			report.Watched = s.clock.Now().Sub(start)
			return err
		}
		report.Ticks++
	}
}

// pause stops playback for a random interval and resumes it. If playback
// could not be stopped, nothing further is attempted.
func (s *Simulator) pause(ctx context.Context, session Session, report *Report) error {
	if err := session.TogglePlayback(ctx); err != nil {
		report.record(InteractionResult{Action: ActionPause, Err: err})
		s.logger.Warnf("pause failed: %v", err)
		return nil
	}
	report.Pauses++
	if err := s.clock.Sleep(ctx, s.uniform(s.timing.PauseMin, s.timing.PauseMax)); err != nil {
		return err
	}
	if err := session.TogglePlayback(ctx); err != nil {
		report.record(InteractionResult{Action: ActionResume, Err: err})
		s.logger.Warnf("resume failed: %v", err)
	}
	return nil
}

// uniform draws a duration uniformly from [lo, hi].
func (s *Simulator) uniform(lo, hi time.Duration) time.Duration {
	if hi <= lo {
		return lo
	}
	return lo + time.Duration(s.rng.Float64()*float64(hi-lo))
}

// intBetween draws an integer uniformly from [lo, hi].
func (s *Simulator) intBetween(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + s.rng.IntN(hi-lo+1)
}
