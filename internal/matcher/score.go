package matcher

import (
	"strings"

	"github.com/Angeloac12/siigo-cotizador/internal/domain"
	"github.com/Angeloac12/siigo-cotizador/internal/textfold"
)

// adjust computes the spec-agreement delta for one candidate. originalQuery is
// the request text before enrichment: a term the user actually typed is never
// treated as an avoid term, no matter what enrichment added.
func adjust(spec domain.MatchSpec, flags domain.CandidateFlags, cand *domain.Candidate, originalQuery string, cfg *Config) float64 {
	var delta float64

	if spec.Gauge != "" {
		switch {
		case flags.Gauge == spec.Gauge:
			delta += cfg.Weight(WeightGaugeMatchBonus)
		case flags.Gauge == "":
			delta -= cfg.Weight(WeightGaugeMissingPenalty)
		default:
			delta -= cfg.Weight(WeightGaugeMismatchPenalty)
		}
	}

	if spec.Amperage != "" {
		switch {
		case flags.Amperage == spec.Amperage:
			delta += cfg.Weight(WeightAmpMatchBonus)
		case flags.Amperage == "":
			delta -= cfg.Weight(WeightAmpMissingPenalty)
		default:
			delta -= cfg.Weight(WeightAmpMismatchPenalty)
		}
	}

	if spec.WantsInsulated {
		switch {
		case flags.HasBare:
			delta -= cfg.Weight(WeightInsulatedButBarePenalty)
		case flags.HasInsulated:
			delta += cfg.Weight(WeightInsulatedBonus)
		}
	}

	if spec.WantsBare {
		switch {
		case flags.HasInsulated:
			delta -= cfg.Weight(WeightBareButInsulatedPenalty)
		case flags.HasBare:
			delta += cfg.Weight(WeightBareBonus)
		}
	}

	if spec.WantsRoll && flags.HasRoll {
		delta += cfg.Weight(WeightRollBonus)
	}

	foldedCand := textfold.Fold(cand.SearchText())
	foldedQuery := textfold.Fold(originalQuery)

	if spec.Category != "" {
		for _, term := range cfg.AvoidTerms[spec.Category] {
			t := textfold.Fold(term)
			if t == "" || strings.Contains(foldedQuery, t) {
				continue
			}
			if strings.Contains(foldedCand, t) {
				delta -= cfg.Weight(WeightAvoidTermPenalty)
				break
			}
		}
		for _, term := range cfg.PreferredTerms[spec.Category] {
			t := textfold.Fold(term)
			if t != "" && strings.Contains(foldedCand, t) {
				delta += cfg.Weight(WeightPreferredTermBonus)
				break
			}
		}
	}

	return delta
}
