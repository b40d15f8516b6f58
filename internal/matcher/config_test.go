package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithOverrideMergesWeights(t *testing.T) {
	base := Default()

	merged := base.WithOverride([]byte(`{"weights": {"gauge_match_bonus": 1.5}}`))

	assert.Equal(t, 1.5, merged.Weight(WeightGaugeMatchBonus))
	// Sibling weights survive a partial override.
	assert.Equal(t, base.Weight(WeightAmpMatchBonus), merged.Weight(WeightAmpMatchBonus))
	assert.Equal(t, base.Weight(WeightAvoidTermPenalty), merged.Weight(WeightAvoidTermPenalty))
	// The base config is untouched.
	assert.Equal(t, 0.6, base.Weight(WeightGaugeMatchBonus))
}

func TestWithOverrideReplacesCategoryList(t *testing.T) {
	merged := Default().WithOverride([]byte(`{
		"categories": [
			{"name": "herramienta", "keywords": ["taladro", "pulidora"]}
		],
		"recall_multiplier": 6
	}`))

	require.Len(t, merged.Categories, 1)
	assert.Equal(t, "herramienta", merged.Categories[0].Name)
	assert.Equal(t, 6, merged.RecallMultiplier)
	// Non-category knobs still come from the base.
	assert.Equal(t, Default().KeywordGroups[GroupBare], merged.KeywordGroups[GroupBare])
}

func TestWithOverrideKeepsUnknownKeys(t *testing.T) {
	merged := Default().WithOverride([]byte(`{"pricing_tier": "mayorista"}`))

	assert.Equal(t, "mayorista", merged.Raw["pricing_tier"])
	assert.Equal(t, Default().RecallMultiplier, merged.RecallMultiplier)
}

func TestWithOverrideMalformedJSON(t *testing.T) {
	base := Default()

	merged := base.WithOverride([]byte(`{"weights": `))

	assert.Same(t, base, merged)
}

func TestRecallLimit(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 40, cfg.RecallLimit(10))

	cfg.RecallMultiplier = 0
	assert.Equal(t, 10, cfg.RecallLimit(10))
}

func TestWeightMissingDefaultsToZero(t *testing.T) {
	cfg := &Config{}
	assert.Zero(t, cfg.Weight(WeightGaugeMatchBonus))
}
