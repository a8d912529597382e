package excerpt

import (
	"sort"

	"github.com/entrhq/engage/pkg/types"
)

// topStratum is the fraction of ranked units eligible for sampling.
const topStratum = 0.3

// Rand is the random source used for sampling. *math/rand/v2.Rand satisfies it.
type Rand interface {
	IntN(n int) int
}

// Selector picks comment context from a transcript.
type Selector struct {
	scorer *Scorer
	rng    Rand
}

// NewSelector creates a selector that ranks with scorer and samples with rng.
func NewSelector(scorer *Scorer, rng Rand) *Selector {
	return &Selector{scorer: scorer, rng: rng}
}

// Rank scores every unit and returns them sorted by descending score.
// Ties keep transcript order.
func (s *Selector) Rank(units []types.TranscriptUnit) []types.ScoredUnit {
	ranked := make([]types.ScoredUnit, len(units))
	for i, u := range units {
		ranked[i] = types.ScoredUnit{Unit: u, Score: s.scorer.Score(u), Index: i}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

// Cutoff returns the size of the sampling pool for n ranked units.
func Cutoff(n int) int {
	return max(1, int(float64(n)*topStratum))
}

// Select samples up to topN distinct units from the top-scoring 30% of units
// and returns them in transcript order.
func (s *Selector) Select(units []types.TranscriptUnit, topN int) types.SelectionResult {
	if len(units) == 0 || topN <= 0 {
		return types.SelectionResult{}
	}

	ranked := s.Rank(units)
	pool := ranked[:Cutoff(len(ranked))]
	k := min(topN, len(pool))

	// Partial Fisher-Yates over a copy of the pool.
	candidates := make([]types.ScoredUnit, len(pool))
	copy(candidates, pool)
	for i := 0; i < k; i++ {
		j := i + s.rng.IntN(len(candidates)-i)
		candidates[i], candidates[j] = candidates[j], candidates[i]
	}
	picked := candidates[:k]

	sort.Slice(picked, func(i, j int) bool {
		return picked[i].Index < picked[j].Index
	})

	result := make(types.SelectionResult, 0, k)
	for _, su := range picked {
		result = append(result, su.Unit)
	}
	return result
}
