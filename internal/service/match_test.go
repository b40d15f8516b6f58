package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Angeloac12/siigo-cotizador/internal/domain"
	"github.com/Angeloac12/siigo-cotizador/internal/matcher"
	"github.com/Angeloac12/siigo-cotizador/internal/service"
)

type fakeCatalog struct {
	lastQuery string
	lastLimit int
	results   []domain.Candidate
	err       error
}

func (f *fakeCatalog) Search(_ context.Context, _, _, query string, limit int) ([]domain.Candidate, error) {
	f.lastQuery = query
	f.lastLimit = limit
	return f.results, f.err
}

type fakeDrafts struct {
	draft   *domain.Draft
	items   []domain.DraftItem
	applied map[uuid.UUID]*domain.ScoredCandidate
}

func (f *fakeDrafts) GetByID(_ context.Context, _ string, _ uuid.UUID) (*domain.Draft, []domain.DraftItem, error) {
	return f.draft, f.items, nil
}

func (f *fakeDrafts) ApplyMatch(_ context.Context, _ string, _, itemID uuid.UUID, pick *domain.ScoredCandidate) error {
	if f.applied == nil {
		f.applied = make(map[uuid.UUID]*domain.ScoredCandidate)
	}
	f.applied[itemID] = pick
	return nil
}

type defaultConfigs struct{}

func (defaultConfigs) Config(context.Context, string) *matcher.Config {
	return matcher.Default()
}

func TestMatchServiceSearch(t *testing.T) {
	cat := &fakeCatalog{results: []domain.Candidate{
		{Code: "CAB-10", Name: "Cable THHN 10 AWG", BaseScore: 0.9},
		{Code: "CAB-12", Name: "Cable THHN 12 AWG", BaseScore: 0.85},
	}}
	svc := service.NewMatchService(cat, nil, defaultConfigs{}, nil, nil)

	scored, best, spec, err := svc.Search(context.Background(), "org-1", "siigo", "cable #12 aislado", 5)
	require.NoError(t, err)

	assert.Equal(t, "12", spec.Gauge)
	require.NotNil(t, best)
	assert.Equal(t, "CAB-12", best.Code)
	require.Len(t, scored, 2)

	// Enrichment reached recall, at a recall-sized limit.
	assert.Contains(t, cat.lastQuery, "cable 12 awg")
	assert.Equal(t, matcher.Default().RecallLimit(5), cat.lastLimit)
}

func TestMatchServiceMatchDraftApply(t *testing.T) {
	draftID := uuid.New()
	itemID := uuid.New()

	cat := &fakeCatalog{results: []domain.Candidate{
		{Code: "CAB-12", Name: "Cable THHN 12 AWG", Price: 185000, BaseScore: 0.9},
	}}
	dr := &fakeDrafts{
		draft: &domain.Draft{ID: draftID, OrgID: "org-1", Provider: "siigo", Status: domain.DraftStatusDraft},
		items: []domain.DraftItem{
			{ID: itemID, DraftID: draftID, LineIndex: 0, RawText: "10 mts cable #12", Description: "cable #12", Quantity: 10, UOM: domain.UOMMeter},
		},
	}
	svc := service.NewMatchService(cat, dr, defaultConfigs{}, nil, nil)

	results, err := svc.MatchDraft(context.Background(), "org-1", draftID, 5, true)
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.True(t, results[0].Applied)
	require.NotNil(t, results[0].Best)
	assert.Equal(t, "CAB-12", results[0].Best.Code)

	require.Contains(t, dr.applied, itemID)
	assert.Equal(t, "CAB-12", dr.applied[itemID].Code)
}

func TestMatchServiceMatchDraftNoCandidates(t *testing.T) {
	draftID := uuid.New()
	dr := &fakeDrafts{
		draft: &domain.Draft{ID: draftID, OrgID: "org-1", Provider: "siigo"},
		items: []domain.DraftItem{
			{ID: uuid.New(), DraftID: draftID, Description: "algo inexistente"},
		},
	}
	svc := service.NewMatchService(&fakeCatalog{}, dr, defaultConfigs{}, nil, nil)

	results, err := svc.MatchDraft(context.Background(), "org-1", draftID, 5, true)
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Nil(t, results[0].Best)
	assert.False(t, results[0].Applied)
	assert.Empty(t, dr.applied)
}
