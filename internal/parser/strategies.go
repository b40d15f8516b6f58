package parser

import (
	"regexp"

	"github.com/Angeloac12/siigo-cotizador/internal/domain"
)

// parts is the partial result a strategy extracts from a line. Fields the
// strategy could not read stay unset and are defaulted (with warnings) by
// ParseLine.
type parts struct {
	quantity float64
	hasQty   bool
	uom      domain.UOM
	hasUOM   bool
	uomRaw   string
	desc     string
	// fixedConfidence overrides the inference-based calibration when > 0.
	// Only the structured-tag form uses it: that input comes from a trusted
	// upstream caller, not from inference.
	fixedConfidence float64
}

// A strategy inspects a cleaned line and either claims it (ok=true) or passes.
// Strategies are evaluated in strict order; the first claim wins.
type strategy struct {
	name  string
	apply func(p *Parser, line string) (parts, bool)
}

// Historical input conventions, most specific first. A later pattern never
// sees a line an earlier one claimed.
var strategies = []strategy{
	{"structured-tags", parseStructuredTags},
	{"trailing-qty-unit", parseTrailingQtyUnit},
	{"trailing-x-qty", parseTrailingXQty},
	{"leading-qty", parseLeadingQty},
}

var (
	reStructured      = regexp.MustCompile(`(?i)^QTY\s*=\s*([0-9]+(?:[.,][0-9]+)?)\s*\|\s*DESC\s*=\s*(.+)$`)
	reTrailingQtyUnit = regexp.MustCompile(`^(.*\S)\s*[-–—]\s*([0-9]+(?:[.,][0-9]+)?)\s*([\p{L}][\p{L}.]*)$`)
	reTrailingXQty    = regexp.MustCompile(`(?i)^(.*\S)\s+x\s*([0-9]+(?:[.,][0-9]+)?)$`)
	reLeadingQty      = regexp.MustCompile(`^([0-9]+(?:[.,][0-9]+)?)\s*(?:[xX]\s*)?([\p{L}.]+)?\s*(.*)$`)
)

// parseStructuredTags handles "QTY=<n> | DESC=<text>", the form produced by
// the upstream extraction service. Quantity and description are read verbatim.
func parseStructuredTags(_ *Parser, line string) (parts, bool) {
	m := reStructured.FindStringSubmatch(line)
	if m == nil {
		return parts{}, false
	}
	out := parts{desc: m[2], fixedConfidence: structuredConfidence}
	if qty, ok := ParseQuantity(m[1]); ok {
		out.quantity = qty
		out.hasQty = true
	}
	return out, true
}

// parseTrailingQtyUnit handles "<desc> - <n> <unit>". The trailing token must
// resolve through the alias table; otherwise the pattern rejects the line so
// a non-unit word is never swallowed as a unit.
func parseTrailingQtyUnit(p *Parser, line string) (parts, bool) {
	m := reTrailingQtyUnit.FindStringSubmatch(line)
	if m == nil {
		return parts{}, false
	}
	uom, ok := p.units.Resolve(m[3])
	if !ok {
		return parts{}, false
	}
	out := parts{desc: m[1], uom: uom, hasUOM: true, uomRaw: m[3]}
	if qty, qok := ParseQuantity(m[2]); qok {
		out.quantity = qty
		out.hasQty = true
	}
	return out, true
}

// parseTrailingXQty handles "<desc> x <n>" with no unit.
func parseTrailingXQty(_ *Parser, line string) (parts, bool) {
	m := reTrailingXQty.FindStringSubmatch(line)
	if m == nil {
		return parts{}, false
	}
	out := parts{desc: m[1]}
	if qty, ok := ParseQuantity(m[2]); ok {
		out.quantity = qty
		out.hasQty = true
	}
	return out, true
}

// parseLeadingQty handles "<n> [unit] <rest>". When the token after the
// number is not a known unit alias it belongs to the description and is
// reattached, not dropped.
func parseLeadingQty(p *Parser, line string) (parts, bool) {
	m := reLeadingQty.FindStringSubmatch(line)
	if m == nil {
		return parts{}, false
	}
	out := parts{}
	if qty, ok := ParseQuantity(m[1]); ok {
		out.quantity = qty
		out.hasQty = true
	}

	token, rest := m[2], m[3]
	if uom, ok := p.units.Resolve(token); ok {
		out.uom = uom
		out.hasUOM = true
		out.uomRaw = token
		out.desc = rest
		return out, true
	}
	if token != "" && rest != "" {
		out.desc = token + " " + rest
	} else {
		out.desc = token + rest
	}
	return out, true
}
