package behavior

// Phase is a step of an engagement session.
type Phase int

const (
	PhaseOpening Phase = iota
	PhasePreCommentWatch
	PhaseLiking
	PhaseScrolling
	PhaseCommenting
	PhaseFreeWatch
	PhaseClosed
)

var phaseNames = map[Phase]string{
	PhaseOpening:         "opening",
	PhasePreCommentWatch: "pre_comment_watch",
	PhaseLiking:          "liking",
	PhaseScrolling:       "scrolling",
	PhaseCommenting:      "commenting",
	PhaseFreeWatch:       "free_watch",
	PhaseClosed:          "closed",
}

// String returns the phase name used in logs.
func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return "unknown"
}
