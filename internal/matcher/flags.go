package matcher

import (
	"github.com/Angeloac12/siigo-cotizador/internal/domain"
	"github.com/Angeloac12/siigo-cotizador/internal/textfold"
)

// ExtractFlags runs the same attribute extraction used for requests over a
// candidate's searchable text, so both sides of the comparison speak the same
// vocabulary.
func ExtractFlags(c *domain.Candidate, cfg *Config) domain.CandidateFlags {
	folded := textfold.Fold(c.SearchText())
	return domain.CandidateFlags{
		Gauge:        extractGauge(folded),
		Amperage:     extractAmperage(folded),
		HasInsulated: matchesGroup(folded, cfg.KeywordGroups[GroupInsulated]),
		HasBare:      matchesGroup(folded, cfg.KeywordGroups[GroupBare]),
		HasRoll:      matchesGroup(folded, cfg.KeywordGroups[GroupRoll]),
	}
}
