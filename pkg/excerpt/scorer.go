package excerpt

import (
	"strings"
	"unicode/utf8"

	"github.com/entrhq/engage/pkg/types"
)

const (
	keywordBonus     = 10
	punctuationBonus = 5
)

// Scorer assigns an interestingness score to transcript units.
type Scorer struct {
	keywords []string
}

// NewScorer returns a scorer for the given keyword set. A nil set means
// DefaultKeywords; pass an empty non-nil slice to disable the keyword bonus.
func NewScorer(keywords []string) *Scorer {
	if keywords == nil {
		keywords = DefaultKeywords
	}
	kw := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if k != "" {
			kw = append(kw, k)
		}
	}
	return &Scorer{keywords: kw}
}

// Score returns the unit's character count, plus 10 if it contains any
// keyword and 5 if it contains '!' or '?'.
func (s *Scorer) Score(unit types.TranscriptUnit) int {
	text := unit.Text
	score := utf8.RuneCountInString(text)
	if s.hasKeyword(text) {
		score += keywordBonus
	}
	if strings.ContainsAny(text, "!?") {
		score += punctuationBonus
	}
	return score
}

func (s *Scorer) hasKeyword(text string) bool {
	for _, k := range s.keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}
