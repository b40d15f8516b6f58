// Package parser normalizes free-form procurement request lines into
// structured line items: quantity, unit of measure and description. It is a
// pure transform; malformed input degrades to defaults with warning tags and
// never produces an error.
package parser

import (
	"regexp"
	"strings"

	"github.com/Angeloac12/siigo-cotizador/internal/domain"
)

// Confidence calibration. The parser reports how much of the line it read
// versus inferred; downstream uses the score to decide what needs review.
const (
	baseConfidence       = 0.4  // one of quantity/unit inferred
	fullConfidence       = 0.78 // both read from the line
	inferredConfidence   = 0.35 // both inferred
	structuredConfidence = 0.85 // trusted structured-tag input
	// DiscardThreshold is the batch-mode cutoff: lines with no numeric or
	// unit signal at all score below it and are dropped as noise.
	DiscardThreshold = 0.5
)

// DefaultMaxItems caps how many lines a single batch emits.
const DefaultMaxItems = 200

var bulletPrefix = regexp.MustCompile(`^\s*[-*•]+\s*`)

// Parser turns raw text lines into NormalizedLines using a fixed unit alias
// table. It holds no other state and is safe for concurrent use.
type Parser struct {
	units UnitTable
}

// New creates a Parser. A nil table falls back to the built-in aliases.
func New(units UnitTable) *Parser {
	if units == nil {
		units = DefaultUnits()
	}
	return &Parser{units: units}
}

// ParseLine normalizes a single logical line. It never fails: when nothing is
// recoverable the whole line becomes the description with quantity 1 and the
// generic unit, and the warnings say so.
func (p *Parser) ParseLine(line string) domain.NormalizedLine {
	clean := bulletPrefix.ReplaceAllString(strings.TrimSpace(line), "")

	var got parts
	matched := false
	for _, s := range strategies {
		if out, ok := s.apply(p, clean); ok {
			got = out
			matched = true
			break
		}
	}
	if !matched {
		// Final fallback: the whole line is the description. That is the
		// defined no-match behavior, not a description inference, so no
		// fallback warning is recorded for it.
		got.desc = clean
	}

	return p.finalize(clean, got)
}

// finalize applies defaults, warnings and confidence to a strategy's partial
// result.
func (p *Parser) finalize(clean string, got parts) domain.NormalizedLine {
	out := domain.NormalizedLine{
		RawText:     clean,
		Description: strings.TrimSpace(got.desc),
		UOMRaw:      got.uomRaw,
	}

	qtyInferred := !got.hasQty
	if qtyInferred {
		out.Quantity = 1.0
		out.Warnings = append(out.Warnings, domain.WarnQtyInferred)
	} else {
		out.Quantity = got.quantity
	}

	uomInferred := !got.hasUOM
	if uomInferred {
		out.UOM = domain.UOMUnit
		if got.fixedConfidence == 0 {
			out.Warnings = append(out.Warnings, domain.WarnUOMInferred)
		}
	} else {
		out.UOM = got.uom
	}

	if out.Description == "" {
		out.Description = clean
		out.Warnings = append(out.Warnings, domain.WarnDescriptionFallback)
	}

	if got.fixedConfidence > 0 {
		out.Confidence = got.fixedConfidence
		return out
	}

	switch {
	case !qtyInferred && !uomInferred:
		out.Confidence = fullConfidence
	case qtyInferred && uomInferred:
		out.Confidence = inferredConfidence
		out.Warnings = append(out.Warnings, domain.WarnLowConfidence)
	default:
		out.Confidence = baseConfidence
	}
	return out
}
