package parser

import (
	"strings"

	"github.com/Angeloac12/siigo-cotizador/internal/domain"
	"github.com/Angeloac12/siigo-cotizador/internal/textfold"
)

// Table is tabular input (a spreadsheet sheet or CSV): one header row and the
// data rows below it.
type Table struct {
	Headers []string
	Rows    [][]string
}

// tableConfidence is the score for rows whose quantity and unit both came
// straight out of their own columns.
const tableConfidence = 0.7

// Header keyword lists for column detection. The first header containing any
// keyword wins, scanning columns left to right.
var (
	descHeaders = []string{"descripcion", "desc", "producto", "item", "material", "nombre", "description"}
	qtyHeaders  = []string{"cantidad", "cant", "qty", "quantity"}
	uomHeaders  = []string{"uom", "unidad", "unit"}
)

func findColumn(headers []string, keys []string) int {
	for i, h := range headers {
		folded := textfold.Fold(h)
		for _, k := range keys {
			if strings.Contains(folded, k) {
				return i
			}
		}
	}
	return -1
}

// ParseTable normalizes tabular input. Quantity and unit are read from their
// detected columns when possible; rows where either is missing or unusable are
// backfilled by re-running the single-line parser on the row's description
// cell (or the whole row when no description column was found).
func (p *Parser) ParseTable(table Table, maxItems int) domain.ParseResult {
	if maxItems <= 0 {
		maxItems = DefaultMaxItems
	}

	var result domain.ParseResult
	if len(table.Headers) == 0 && len(table.Rows) == 0 {
		result.Warnings = append(result.Warnings, domain.WarnEmptyTable)
		return result
	}

	descIdx := findColumn(table.Headers, descHeaders)
	qtyIdx := findColumn(table.Headers, qtyHeaders)
	uomIdx := findColumn(table.Headers, uomHeaders)
	if descIdx < 0 && qtyIdx < 0 && uomIdx < 0 {
		result.Warnings = append(result.Warnings, domain.WarnNoTableColumns)
	}

	for _, row := range table.Rows {
		if emptyRow(row) {
			continue
		}
		if len(result.Items) >= maxItems {
			result.Warnings = append(result.Warnings, domain.WarnTruncatedItems)
			break
		}

		cols := padRow(row, len(table.Headers))
		item := p.parseRow(cols, descIdx, qtyIdx, uomIdx)
		item.LineIndex = len(result.Items)
		result.Items = append(result.Items, item)
	}
	return result
}

func (p *Parser) parseRow(cols []string, descIdx, qtyIdx, uomIdx int) domain.NormalizedLine {
	raw := strings.TrimSpace(strings.Join(cols, " "))

	item := domain.NormalizedLine{RawText: raw}

	hasQty := false
	if qtyIdx >= 0 {
		if qty, ok := ParseQuantity(cols[qtyIdx]); ok {
			item.Quantity = qty
			hasQty = true
		}
	}

	hasUOM := false
	if uomIdx >= 0 && cols[uomIdx] != "" {
		item.UOMRaw = cols[uomIdx]
		if uom, ok := p.units.Resolve(cols[uomIdx]); ok {
			item.UOM = uom
			hasUOM = true
		}
	}

	if descIdx >= 0 {
		item.Description = strings.TrimSpace(cols[descIdx])
	} else {
		item.Description = joinNonEmpty(cols)
	}

	if hasQty && hasUOM {
		item.Confidence = tableConfidence
	} else {
		// Backfill from the description cell (or the whole row) using the
		// single-line strategies.
		source := item.Description
		if source == "" {
			source = raw
		}
		inferred := p.ParseLine(source)

		if !hasQty {
			item.Quantity = inferred.Quantity
			if inferred.HasWarning(domain.WarnQtyInferred) {
				item.Warnings = append(item.Warnings, domain.WarnQtyInferred)
			}
		}
		if !hasUOM {
			item.UOM = inferred.UOM
			if inferred.HasWarning(domain.WarnUOMInferred) {
				item.Warnings = append(item.Warnings, domain.WarnUOMInferred)
			}
			if item.UOMRaw == "" {
				item.UOMRaw = inferred.UOMRaw
			}
		}
		if item.Description == "" {
			item.Description = inferred.Description
			item.Warnings = append(item.Warnings, domain.WarnDescriptionFallback)
		}
		item.Confidence = inferred.Confidence
	}

	if item.Description == "" {
		item.Description = raw
		item.Warnings = append(item.Warnings, domain.WarnDescriptionFallback)
	}
	return item
}

func emptyRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func padRow(row []string, width int) []string {
	cols := make([]string, 0, max(len(row), width))
	for _, c := range row {
		cols = append(cols, strings.TrimSpace(c))
	}
	for len(cols) < width {
		cols = append(cols, "")
	}
	return cols
}

func joinNonEmpty(cols []string) string {
	var out []string
	for _, c := range cols {
		if c != "" {
			out = append(out, c)
		}
	}
	return strings.Join(out, " ")
}
