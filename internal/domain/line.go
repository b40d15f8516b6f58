// Package domain holds the core data model shared by the parser, the matcher
// and the persistence layer.
package domain

// UOM is a canonical unit-of-measure code. Free-text unit tokens are aliased
// onto this closed set; anything unresolved stays UOMUnit.
type UOM string

const (
	UOMUnit  UOM = "UND" // generic "each"
	UOMMeter UOM = "M"
	UOMKilo  UOM = "KG"
	UOMRoll  UOM = "ROL"
	UOMEach  UOM = "EA"
	UOMBox   UOM = "BOX"
	UOMSet   UOM = "SET"
	UOMLiter UOM = "L"
	UOMGal   UOM = "GAL"
	UOMPack  UOM = "PACK"
)

// Warning tags attached to parsed lines. Machine-readable; every inference the
// parser makes is reported through one of these.
const (
	WarnQtyInferred         = "QTY_INFERRED"
	WarnUOMInferred         = "UOM_INFERRED"
	WarnDescriptionFallback = "DESCRIPTION_FALLBACK"
	WarnLowConfidence       = "LOW_CONFIDENCE"
	WarnTruncatedItems      = "TRUNCATED_ITEMS_MAX_ITEMS"
	WarnEmptyTable          = "EMPTY_TABLE"
	WarnNoTableColumns      = "NO_USABLE_COLUMNS"
)

// NormalizedLine is the parser's output for one request line: quantity, unit
// and description recovered from free text, plus how sure we are about each.
type NormalizedLine struct {
	LineIndex   int      `json:"line_index" db:"line_index"`
	RawText     string   `json:"raw_text" db:"raw_text"`
	Description string   `json:"description" db:"description"`
	Quantity    float64  `json:"quantity" db:"quantity"`
	UOM         UOM      `json:"uom" db:"uom"`
	UOMRaw      string   `json:"uom_raw,omitempty" db:"uom_raw"`
	Confidence  float64  `json:"confidence" db:"confidence"`
	Warnings    []string `json:"warnings,omitempty"`
}

// HasWarning reports whether the line carries the given warning tag.
func (l *NormalizedLine) HasWarning(tag string) bool {
	for _, w := range l.Warnings {
		if w == tag {
			return true
		}
	}
	return false
}

// ParseResult is a parsed batch: the emitted lines plus batch-level warnings
// (truncation, empty table).
type ParseResult struct {
	Items    []NormalizedLine `json:"items"`
	Warnings []string         `json:"warnings,omitempty"`
}
