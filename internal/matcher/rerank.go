package matcher

import (
	"sort"

	"github.com/Angeloac12/siigo-cotizador/internal/domain"
)

// Rerank rescores recalled candidates against the extracted spec and returns
// up to limit of them, best first, plus the best pick (nil when empty).
//
// The sort is stable and descending on final score, so candidates that no
// adjustment separates keep their recall order. When no candidate picks up
// any delta at all, the recall ordering is returned untouched.
func Rerank(originalQuery string, spec domain.MatchSpec, candidates []domain.Candidate, cfg *Config, limit int) ([]domain.ScoredCandidate, *domain.ScoredCandidate) {
	if len(candidates) == 0 {
		return []domain.ScoredCandidate{}, nil
	}

	scored := make([]domain.ScoredCandidate, 0, len(candidates))
	anyDelta := false
	for i := range candidates {
		c := candidates[i]
		flags := ExtractFlags(&c, cfg)
		d := adjust(spec, flags, &c, originalQuery, cfg)
		if d != 0 {
			anyDelta = true
		}
		scored = append(scored, domain.ScoredCandidate{
			Candidate:  c,
			Adjustment: d,
			FinalScore: c.BaseScore + d,
		})
	}

	if anyDelta {
		sort.SliceStable(scored, func(i, j int) bool {
			return scored[i].FinalScore > scored[j].FinalScore
		})
	}

	if limit > 0 && len(scored) > limit {
		scored = scored[:limit]
	}
	return scored, &scored[0]
}
