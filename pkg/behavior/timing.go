package behavior

import (
	"fmt"
	"time"
)

// Timing holds every bound the simulator draws its delays and counts from.
type Timing struct {
	SettleDelay time.Duration

	PreCommentMin time.Duration
	PreCommentMax time.Duration

	ScrollCountMin  int
	ScrollCountMax  int
	ScrollAmountMin int
	ScrollAmountMax int
	ScrollPauseMin  time.Duration
	ScrollPauseMax  time.Duration

	TypeDelayMin   time.Duration
	TypeDelayMax   time.Duration
	SubmitPauseMin time.Duration
	SubmitPauseMax time.Duration

	TickMin          time.Duration
	TickMax          time.Duration
	PauseProbability float64
	PauseMin         time.Duration
	PauseMax         time.Duration
	SeekProbability  float64

	WatchMin time.Duration
	WatchMax time.Duration
}

// DefaultTiming returns the standard viewing cadence.
func DefaultTiming() Timing {
	return Timing{
		SettleDelay: 5 * time.Second,

		PreCommentMin: 60 * time.Second,
		PreCommentMax: 90 * time.Second,

		ScrollCountMin:  2,
		ScrollCountMax:  4,
		ScrollAmountMin: 300,
		ScrollAmountMax: 600,
		ScrollPauseMin:  1 * time.Second,
		ScrollPauseMax:  2 * time.Second,

		TypeDelayMin:   50 * time.Millisecond,
		TypeDelayMax:   120 * time.Millisecond,
		SubmitPauseMin: 1 * time.Second,
		SubmitPauseMax: 2 * time.Second,

		TickMin:          5 * time.Second,
		TickMax:          10 * time.Second,
		PauseProbability: 0.2,
		PauseMin:         2 * time.Second,
		PauseMax:         5 * time.Second,
		SeekProbability:  0.1,

		WatchMin: 180 * time.Second,
		WatchMax: 600 * time.Second,
	}
}

// Validate checks that every range is well formed.
func (t Timing) Validate() error {
	durations := []struct {
		name     string
		min, max time.Duration
	}{
		{"pre_comment", t.PreCommentMin, t.PreCommentMax},
		{"scroll_pause", t.ScrollPauseMin, t.ScrollPauseMax},
		{"type_delay", t.TypeDelayMin, t.TypeDelayMax},
		{"submit_pause", t.SubmitPauseMin, t.SubmitPauseMax},
		{"tick", t.TickMin, t.TickMax},
		{"pause", t.PauseMin, t.PauseMax},
		{"watch", t.WatchMin, t.WatchMax},
	}
	for _, d := range durations {
		if d.min < 0 || d.max < d.min {
			return fmt.Errorf("invalid %s range [%s, %s]", d.name, d.min, d.max)
		}
	}
	if t.SettleDelay < 0 {
		return fmt.Errorf("settle delay cannot be negative")
	}
	if t.TickMax <= 0 {
		return fmt.Errorf("tick range must be positive")
	}
	if t.ScrollCountMin < 0 || t.ScrollCountMax < t.ScrollCountMin {
		return fmt.Errorf("invalid scroll count range [%d, %d]", t.ScrollCountMin, t.ScrollCountMax)
	}
	if t.ScrollAmountMin < 0 || t.ScrollAmountMax < t.ScrollAmountMin {
		return fmt.Errorf("invalid scroll amount range [%d, %d]", t.ScrollAmountMin, t.ScrollAmountMax)
	}
	for name, p := range map[string]float64{"pause": t.PauseProbability, "seek": t.SeekProbability} {
		if p < 0 || p > 1 {
			return fmt.Errorf("%s probability %v outside [0, 1]", name, p)
		}
	}
	return nil
}
