package types

import "strings"

// TranscriptUnit is one timestamped segment of a video's spoken-text transcript.
// Units are produced by a transcript fetcher and never mutated afterwards.
type TranscriptUnit struct {
	// Text is the spoken text of the segment.
	Text string `json:"text"`

	// Start is the offset of the segment from the beginning of the video, in seconds.
	Start float64 `json:"start"`
}

// IsBlank reports whether the unit carries no visible text.
func (u TranscriptUnit) IsBlank() bool {
	return strings.TrimSpace(u.Text) == ""
}

// ScoredUnit pairs a transcript unit with its interestingness score.
// Index is the unit's position in the transcript it was scored from.
type ScoredUnit struct {
	Unit  TranscriptUnit
	Score int
	Index int
}

// SelectionResult is an ordered set of transcript units chosen as comment context.
// Units appear in transcript order and at most once.
type SelectionResult []TranscriptUnit

// Texts returns the text of each selected unit.
func (s SelectionResult) Texts() []string {
	texts := make([]string, 0, len(s))
	for _, u := range s {
		texts = append(texts, u.Text)
	}
	return texts
}
