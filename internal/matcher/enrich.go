package matcher

import (
	"fmt"
	"strings"

	"github.com/Angeloac12/siigo-cotizador/internal/domain"
	"github.com/Angeloac12/siigo-cotizador/internal/textfold"
)

// EnrichQuery widens the recall query with terms implied by the extracted
// spec. The original query text always survives inside the enriched one;
// enrichment prepends and appends, it never rewrites.
//
// secondary is an optional second source of vocabulary (typically the raw
// request line when query is an edited description). At most one keyword is
// borrowed from it.
func EnrichQuery(query, secondary string, spec domain.MatchSpec, cfg *Config) string {
	enriched := query

	switch {
	case spec.Category == CategoryCable && spec.Gauge != "":
		enriched = fmt.Sprintf("cable %s awg %s", spec.Gauge, query)
	case spec.Category == CategoryBreaker && spec.Amperage != "":
		enriched = fmt.Sprintf("breaker %sa %s", spec.Amperage, query)
	}

	if kw := borrowKeyword(enriched, secondary, cfg); kw != "" {
		enriched = enriched + " " + kw
	}
	return enriched
}

// borrowKeyword finds the first configured category keyword, in config order,
// that appears in the secondary text but not yet in the enriched query.
func borrowKeyword(enriched, secondary string, cfg *Config) string {
	if strings.TrimSpace(secondary) == "" {
		return ""
	}
	foldedQuery := textfold.Fold(enriched)
	foldedSecondary := textfold.Fold(secondary)

	for _, cat := range cfg.Categories {
		for _, kw := range cat.Keywords {
			k := textfold.Fold(kw)
			if k == "" || strings.Contains(foldedQuery, k) {
				continue
			}
			if strings.Contains(foldedSecondary, k) {
				return k
			}
		}
	}
	return ""
}
