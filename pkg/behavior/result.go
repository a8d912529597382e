package behavior

import "time"

// Action names a single browser interaction.
type Action string

const (
	ActionLike     Action = "like"
	ActionComment  Action = "comment"
	ActionScroll   Action = "scroll"
	ActionPause    Action = "pause"
	ActionResume   Action = "resume"
	ActionSeek     Action = "seek"
	ActionNavigate Action = "navigate"
)

// InteractionResult records whether a best-effort interaction succeeded.
// Err carries the failure reason.
type InteractionResult struct {
	Action Action
	Err    error
}

// Succeeded reports whether the interaction went through.
func (r InteractionResult) Succeeded() bool {
	return r.Err == nil
}

// Report summarizes what happened during a session.
type Report struct {
	Phases  []Phase
	Like    InteractionResult
	Comment InteractionResult
	Scrolls int

	WatchTarget time.Duration
	Watched     time.Duration
	Ticks       int
	Pauses      int
	Seeks       int

	// Failures lists every interaction that failed, in order.
	Failures []InteractionResult
}

func (r *Report) record(res InteractionResult) InteractionResult {
	if !res.Succeeded() {
		r.Failures = append(r.Failures, res)
	}
	return res
}
