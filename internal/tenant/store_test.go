package tenant_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Angeloac12/siigo-cotizador/internal/matcher"
	"github.com/Angeloac12/siigo-cotizador/internal/tenant"
)

func newTestStore(t *testing.T) (*tenant.Store, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return tenant.NewStore(client, time.Hour, nil), mr
}

func TestStoreConfigDefaultsWhenUnset(t *testing.T) {
	store, _ := newTestStore(t)

	cfg := store.Config(context.Background(), "org-1")

	assert.Equal(t, matcher.Default().Weights, cfg.Weights)
	assert.Equal(t, matcher.Default().RecallMultiplier, cfg.RecallMultiplier)
}

func TestStoreSetAndReadOverride(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	err := store.SetOverride(ctx, "org-1", []byte(`{"weights": {"gauge_match_bonus": 2.0}}`))
	require.NoError(t, err)

	cfg := store.Config(ctx, "org-1")
	assert.Equal(t, 2.0, cfg.Weight(matcher.WeightGaugeMatchBonus))
	// Untouched weights still come from defaults.
	assert.Equal(t, matcher.Default().Weight(matcher.WeightAmpMatchBonus), cfg.Weight(matcher.WeightAmpMatchBonus))

	// Other orgs are unaffected.
	other := store.Config(ctx, "org-2")
	assert.Equal(t, matcher.Default().Weight(matcher.WeightGaugeMatchBonus), other.Weight(matcher.WeightGaugeMatchBonus))
}

func TestStoreSetOverrideRejectsBadJSON(t *testing.T) {
	store, _ := newTestStore(t)

	err := store.SetOverride(context.Background(), "org-1", []byte(`{"weights": `))
	assert.Error(t, err)
}

func TestStoreOverrideExpires(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SetOverride(ctx, "org-1", []byte(`{"recall_multiplier": 8}`)))
	assert.Equal(t, 8, store.Config(ctx, "org-1").RecallMultiplier)

	mr.FastForward(2 * time.Hour)

	assert.Equal(t, matcher.Default().RecallMultiplier, store.Config(ctx, "org-1").RecallMultiplier)
}

func TestStoreClearOverride(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SetOverride(ctx, "org-1", []byte(`{"recall_multiplier": 8}`)))
	require.NoError(t, store.ClearOverride(ctx, "org-1"))

	assert.Equal(t, matcher.Default().RecallMultiplier, store.Config(ctx, "org-1").RecallMultiplier)
}

func TestStoreConfigSurvivesRedisOutage(t *testing.T) {
	store, mr := newTestStore(t)

	mr.Close()

	cfg := store.Config(context.Background(), "org-1")
	assert.Equal(t, matcher.Default().RecallMultiplier, cfg.RecallMultiplier)
}
