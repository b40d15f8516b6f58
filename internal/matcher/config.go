// Package matcher ranks catalog candidates against a procurement request. It
// extracts a structured spec (category, wire gauge, amperage, finish intent)
// from the request text, enriches the recall query, and rescales lexically
// recalled candidates by how well their own extracted attributes agree.
package matcher

import (
	"encoding/json"
)

// Weight names. Every bonus and penalty the scorer applies is read from the
// config by one of these keys; absent keys read as 0 so an incomplete tenant
// config degrades instead of erroring.
const (
	WeightGaugeMatchBonus         = "gauge_match_bonus"
	WeightGaugeMissingPenalty     = "gauge_missing_penalty"
	WeightGaugeMismatchPenalty    = "gauge_mismatch_penalty"
	WeightAmpMatchBonus           = "amp_match_bonus"
	WeightAmpMissingPenalty       = "amp_missing_penalty"
	WeightAmpMismatchPenalty      = "amp_mismatch_penalty"
	WeightInsulatedButBarePenalty = "insulated_but_bare_penalty"
	WeightInsulatedBonus          = "insulated_bonus"
	WeightBareButInsulatedPenalty = "bare_but_insulated_penalty"
	WeightBareBonus               = "bare_bonus"
	WeightRollBonus               = "roll_bonus"
	WeightAvoidTermPenalty        = "avoid_term_penalty"
	WeightPreferredTermBonus      = "preferred_term_bonus"
)

// Keyword group names.
const (
	GroupInsulated = "insulated"
	GroupBare      = "bare"
	GroupRoll      = "roll"
)

// Categories with special query-enrichment behavior.
const (
	CategoryCable   = "cable"
	CategoryBreaker = "breaker"
)

// Category is one entry of the ordered category list. Order matters: the
// first category whose any keyword appears in the request wins.
type Category struct {
	Name     string   `json:"name"`
	Keywords []string `json:"keywords"`
}

// Config is the per-tenant matching configuration, merged over Default().
type Config struct {
	Categories       []Category          `json:"categories"`
	KeywordGroups    map[string][]string `json:"keyword_groups"`
	AvoidTerms       map[string][]string `json:"avoid_terms"`
	PreferredTerms   map[string][]string `json:"preferred_terms"`
	Weights          map[string]float64  `json:"weights"`
	RecallMultiplier int                 `json:"recall_multiplier"`

	// Raw carries the merged configuration as decoded JSON, including any
	// tenant keys this version does not model. Unknown keys ride along
	// instead of being rejected.
	Raw map[string]any `json:"-"`
}

// Default returns the built-in matching configuration. It is rebuilt on every
// call so merges never mutate shared state.
func Default() *Config {
	return &Config{
		Categories: []Category{
			{Name: CategoryCable, Keywords: []string{"cable", "alambre", "thhn", "thwn", "awg", "conductor"}},
			{Name: CategoryBreaker, Keywords: []string{"breaker", "taco", "interruptor", "disyuntor"}},
			{Name: "tuberia", Keywords: []string{"tubo", "tuberia", "conduit", "emt", "pvc"}},
			{Name: "iluminacion", Keywords: []string{"lampara", "bombillo", "luminaria", "reflector"}},
		},
		KeywordGroups: map[string][]string{
			GroupInsulated: {"aislado", "aislada", "forrado", "forrada", "thhn", "thwn", "encauchetado"},
			GroupBare:      {"desnudo", "desnuda"},
			GroupRoll:      {"rol", "rollo", "carrete"},
		},
		AvoidTerms: map[string][]string{
			CategoryCable:   {"utp", "coaxial", "telefonico"},
			CategoryBreaker: {"gabinete", "caja"},
		},
		PreferredTerms: map[string][]string{
			CategoryCable: {"thhn", "thwn", "encauchetado"},
		},
		Weights: map[string]float64{
			WeightGaugeMatchBonus:         0.6,
			WeightGaugeMissingPenalty:     0.25,
			WeightGaugeMismatchPenalty:    0.45,
			WeightAmpMatchBonus:           0.5,
			WeightAmpMissingPenalty:       0.2,
			WeightAmpMismatchPenalty:      0.4,
			WeightInsulatedButBarePenalty: 0.5,
			WeightInsulatedBonus:          0.25,
			WeightBareButInsulatedPenalty: 0.5,
			WeightBareBonus:               0.25,
			WeightRollBonus:               0.15,
			WeightAvoidTermPenalty:        0.3,
			WeightPreferredTermBonus:      0.2,
		},
		RecallMultiplier: 4,
	}
}

// Weight reads a named weight, defaulting to 0 when absent.
func (c *Config) Weight(name string) float64 {
	if c.Weights == nil {
		return 0
	}
	return c.Weights[name]
}

// RecallLimit is the fetch size handed to lexical recall for a requested
// result limit: max(limit × multiplier, limit).
func (c *Config) RecallLimit(limit int) int {
	if c.RecallMultiplier <= 1 {
		return limit
	}
	return limit * c.RecallMultiplier
}

// WithOverride deep-merges a tenant JSON override onto c and returns the
// merged config. Override values win key-by-key, recursing into nested
// objects; non-object values (including the category list) are replaced
// wholesale. Malformed JSON is ignored: the base config is returned as-is.
func (c *Config) WithOverride(raw []byte) *Config {
	if len(raw) == 0 {
		return c
	}
	var override map[string]any
	if err := json.Unmarshal(raw, &override); err != nil {
		return c
	}

	base := c.toMap()
	merged := deepMerge(base, override)

	out := &Config{}
	if buf, err := json.Marshal(merged); err == nil {
		if err := json.Unmarshal(buf, out); err != nil {
			return c
		}
	}
	out.Raw = merged
	if out.RecallMultiplier < 1 {
		out.RecallMultiplier = 1
	}
	return out
}

func (c *Config) toMap() map[string]any {
	buf, err := json.Marshal(c)
	if err != nil {
		return map[string]any{}
	}
	var m map[string]any
	if err := json.Unmarshal(buf, &m); err != nil {
		return map[string]any{}
	}
	return m
}

// deepMerge merges override onto base. Both are treated as immutable; the
// result is a fresh map.
func deepMerge(base, override map[string]any) map[string]any {
	out := make(map[string]any, len(base)+len(override))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range override {
		if bm, ok := out[k].(map[string]any); ok {
			if om, ok := v.(map[string]any); ok {
				out[k] = deepMerge(bm, om)
				continue
			}
		}
		out[k] = v
	}
	return out
}
