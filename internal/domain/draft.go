package domain

import (
	"time"

	"github.com/google/uuid"
)

// Draft lifecycle states. Committed drafts are frozen: items can no longer be
// edited or rematched.
const (
	DraftStatusDraft     = "DRAFT"
	DraftStatusCommitted = "COMMITTED"
)

// Draft is one procurement request being worked into a quote.
type Draft struct {
	ID        uuid.UUID `json:"id" db:"id"`
	OrgID     string    `json:"org_id" db:"org_id"`
	Provider  string    `json:"provider" db:"provider"`
	Status    string    `json:"status" db:"status"`
	RawText   string    `json:"raw_text,omitempty" db:"raw_text"`
	Warnings  []string  `json:"warnings,omitempty" db:"warnings"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Committed reports whether the draft has been frozen into a quote.
func (d *Draft) Committed() bool {
	return d.Status == DraftStatusCommitted
}

// DraftItem is one normalized line of a draft, optionally carrying the
// catalog product picked for it.
type DraftItem struct {
	ID          uuid.UUID `json:"id" db:"id"`
	DraftID     uuid.UUID `json:"draft_id" db:"draft_id"`
	LineIndex   int       `json:"line_index" db:"line_index"`
	RawText     string    `json:"raw_text" db:"raw_text"`
	Description string    `json:"description" db:"description"`
	Quantity    float64   `json:"quantity" db:"quantity"`
	UOM         UOM       `json:"uom" db:"uom"`
	UOMRaw      string    `json:"uom_raw,omitempty" db:"uom_raw"`
	Confidence  float64   `json:"confidence" db:"confidence"`
	Warnings    []string  `json:"warnings,omitempty" db:"warnings"`

	MatchedCode  string  `json:"matched_code,omitempty" db:"matched_code"`
	MatchedName  string  `json:"matched_name,omitempty" db:"matched_name"`
	MatchedPrice float64 `json:"matched_price,omitempty" db:"matched_price"`
	MatchScore   float64 `json:"match_score,omitempty" db:"match_score"`
}

// Matched reports whether a catalog product has been applied to the item.
func (it *DraftItem) Matched() bool {
	return it.MatchedCode != ""
}

// ItemFromLine builds a draft item from a normalized line.
func ItemFromLine(draftID uuid.UUID, line NormalizedLine) DraftItem {
	return DraftItem{
		ID:          uuid.New(),
		DraftID:     draftID,
		LineIndex:   line.LineIndex,
		RawText:     line.RawText,
		Description: line.Description,
		Quantity:    line.Quantity,
		UOM:         line.UOM,
		UOMRaw:      line.UOMRaw,
		Confidence:  line.Confidence,
		Warnings:    line.Warnings,
	}
}
