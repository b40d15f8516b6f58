package matcher

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/Angeloac12/siigo-cotizador/internal/domain"
	"github.com/Angeloac12/siigo-cotizador/internal/textfold"
)

// Gauge forms, in priority order. Ought sizes ("2/0") outrank AWG numbers so
// that "cable 2/0" never reads as gauge 2.
var (
	reGaugeOught = regexp.MustCompile(`(?:^|[^0-9])([1-4])\s*/\s*0(?:[^0-9]|$)`)
	reGaugeForms = []*regexp.Regexp{
		regexp.MustCompile(`#\s*([0-9]{1,2})\b`),
		regexp.MustCompile(`\bno\.?\s*([0-9]{1,2})\b`),
		regexp.MustCompile(`\b([0-9]{1,2})\s*awg\b`),
		regexp.MustCompile(`\bawg\s*([0-9]{1,2})\b`),
	}

	reAmperage = regexp.MustCompile(`\b([0-9]+)\s*(?:amperios?|amps?|a)\b`)
)

// ExtractSpecs derives the structured matching spec from a request text.
// All matching runs over the folded (lowercased, deaccented) form.
func ExtractSpecs(query string, cfg *Config) domain.MatchSpec {
	folded := textfold.Fold(query)
	spec := domain.MatchSpec{
		Category: detectCategory(folded, cfg),
		Gauge:    extractGauge(folded),
		Amperage: extractAmperage(folded),
	}

	spec.WantsInsulated = matchesGroup(folded, cfg.KeywordGroups[GroupInsulated])
	spec.WantsBare = matchesGroup(folded, cfg.KeywordGroups[GroupBare])
	spec.WantsRoll = matchesGroup(folded, cfg.KeywordGroups[GroupRoll])

	// Contradictory finish intent cancels out rather than guessing.
	if spec.WantsInsulated && spec.WantsBare {
		spec.WantsInsulated = false
		spec.WantsBare = false
		spec.Warnings = append(spec.Warnings, domain.WarnAmbiguousFinish)
	}
	return spec
}

func detectCategory(folded string, cfg *Config) string {
	for _, cat := range cfg.Categories {
		for _, kw := range cat.Keywords {
			if kw = textfold.Fold(kw); kw != "" && strings.Contains(folded, kw) {
				return cat.Name
			}
		}
	}
	return ""
}

// extractGauge returns a normalized gauge string ("2/0", "12") or "".
func extractGauge(folded string) string {
	if m := reGaugeOught.FindStringSubmatch(folded); m != nil {
		return m[1] + "/0"
	}
	for _, re := range reGaugeForms {
		m := re.FindStringSubmatch(folded)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil || n < 1 || n > 99 {
			continue
		}
		return strconv.Itoa(n)
	}
	return ""
}

// extractAmperage returns the first amperage mention ("20") or "".
func extractAmperage(folded string) string {
	m := reAmperage.FindStringSubmatch(folded)
	if m == nil {
		return ""
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n <= 0 {
		return ""
	}
	return strconv.Itoa(n)
}

// matchesGroup reports whether any keyword of the group appears in the folded
// text. Keywords of three characters or fewer only match as whole words, so
// "rol" stays quiet inside "control".
func matchesGroup(folded string, keywords []string) bool {
	for _, kw := range keywords {
		k := textfold.Fold(kw)
		if k == "" {
			continue
		}
		if len([]rune(k)) <= 3 {
			if textfold.ContainsWord(folded, k) {
				return true
			}
			continue
		}
		if strings.Contains(folded, k) {
			return true
		}
	}
	return false
}
