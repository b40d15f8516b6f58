package parser

import (
	"strings"

	"github.com/Angeloac12/siigo-cotizador/internal/domain"
)

// ParseBatch parses a multi-line text into normalized items. Empty lines are
// dropped before indexing and lines with no numeric or unit signal at all are
// discarded, so LineIndex reflects output order with no gaps. Processing
// stops with a truncation warning once maxItems is reached; maxItems <= 0
// means DefaultMaxItems.
func (p *Parser) ParseBatch(text string, maxItems int) domain.ParseResult {
	if maxItems <= 0 {
		maxItems = DefaultMaxItems
	}

	var result domain.ParseResult
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if len(result.Items) >= maxItems {
			result.Warnings = append(result.Warnings, domain.WarnTruncatedItems)
			break
		}

		item := p.ParseLine(line)
		if discardable(&item) {
			continue
		}
		item.LineIndex = len(result.Items)
		result.Items = append(result.Items, item)
	}
	return result
}

// discardable reports whether a parsed line is pure noise: both quantity and
// unit were inferred and confidence stayed below the cutoff.
func discardable(item *domain.NormalizedLine) bool {
	return item.Confidence < DiscardThreshold &&
		item.HasWarning(domain.WarnQtyInferred) &&
		item.HasWarning(domain.WarnUOMInferred)
}
