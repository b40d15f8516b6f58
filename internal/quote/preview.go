// Package quote builds quote previews from matched drafts. Previews are a
// dry run: nothing is sent to the invoicing provider.
package quote

import (
	"github.com/Angeloac12/siigo-cotizador/internal/domain"
)

// Warning tags attached to a preview.
const (
	WarnUnmatchedItems = "UNMATCHED_ITEMS"
	WarnZeroPrice      = "ZERO_PRICE_ITEMS"
)

// Line is one priced line of a quote preview.
type Line struct {
	LineIndex   int     `json:"line_index"`
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UOM         string  `json:"uom"`
	Code        string  `json:"code,omitempty"`
	ProductName string  `json:"product_name,omitempty"`
	UnitPrice   float64 `json:"unit_price"`
	Total       float64 `json:"total"`
	Matched     bool    `json:"matched"`
}

// Preview is the full dry-run quote for a draft.
type Preview struct {
	DraftID   string   `json:"draft_id"`
	Provider  string   `json:"provider"`
	Lines     []Line   `json:"lines"`
	Subtotal  float64  `json:"subtotal"`
	Unmatched int      `json:"unmatched"`
	Warnings  []string `json:"warnings,omitempty"`
}

// Build assembles a preview from a draft and its items. Unmatched items are
// listed with zero totals and counted, not dropped, so the caller sees the
// whole request.
func Build(draft *domain.Draft, items []domain.DraftItem) *Preview {
	p := &Preview{
		DraftID:  draft.ID.String(),
		Provider: draft.Provider,
		Lines:    make([]Line, 0, len(items)),
	}

	zeroPriced := 0
	for _, it := range items {
		line := Line{
			LineIndex:   it.LineIndex,
			Description: it.Description,
			Quantity:    it.Quantity,
			UOM:         string(it.UOM),
			Matched:     it.Matched(),
		}
		if it.Matched() {
			line.Code = it.MatchedCode
			line.ProductName = it.MatchedName
			line.UnitPrice = it.MatchedPrice
			line.Total = it.MatchedPrice * it.Quantity
			p.Subtotal += line.Total
			if it.MatchedPrice == 0 {
				zeroPriced++
			}
		} else {
			p.Unmatched++
		}
		p.Lines = append(p.Lines, line)
	}

	if p.Unmatched > 0 {
		p.Warnings = append(p.Warnings, WarnUnmatchedItems)
	}
	if zeroPriced > 0 {
		p.Warnings = append(p.Warnings, WarnZeroPrice)
	}
	return p
}
