package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/Angeloac12/siigo-cotizador/internal/domain"
	"github.com/Angeloac12/siigo-cotizador/internal/logger"
	"github.com/Angeloac12/siigo-cotizador/internal/matcher"
	"github.com/Angeloac12/siigo-cotizador/internal/metrics"
)

// DefaultMatchLimit is the number of candidates returned per item when the
// caller does not ask for a specific count.
const DefaultMatchLimit = 5

// CandidateSearcher is the lexical recall surface of the catalog.
type CandidateSearcher interface {
	Search(ctx context.Context, orgID, provider, query string, limit int) ([]domain.Candidate, error)
}

// MatchApplier persists the picked candidate on a draft item.
type MatchApplier interface {
	GetByID(ctx context.Context, orgID string, id uuid.UUID) (*domain.Draft, []domain.DraftItem, error)
	ApplyMatch(ctx context.Context, orgID string, draftID, itemID uuid.UUID, pick *domain.ScoredCandidate) error
}

// ConfigSource resolves the effective matching config for an org.
type ConfigSource interface {
	Config(ctx context.Context, orgID string) *matcher.Config
}

// MatchService runs catalog matching over draft items and ad-hoc queries.
type MatchService struct {
	catalog CandidateSearcher
	drafts  MatchApplier
	configs ConfigSource
	metrics *metrics.Metrics
	log     logger.Logger
}

// NewMatchService creates a match service. metrics may be nil.
func NewMatchService(cat CandidateSearcher, dr MatchApplier, cfgs ConfigSource, m *metrics.Metrics, log logger.Logger) *MatchService {
	if log == nil {
		log = logger.NewNop()
	}
	return &MatchService{catalog: cat, drafts: dr, configs: cfgs, metrics: m, log: log}
}

// ItemMatch is the match outcome for one draft item.
type ItemMatch struct {
	ItemID     uuid.UUID                `json:"item_id"`
	LineIndex  int                      `json:"line_index"`
	Query      string                   `json:"query"`
	Spec       domain.MatchSpec         `json:"spec"`
	Candidates []domain.ScoredCandidate `json:"candidates"`
	Best       *domain.ScoredCandidate  `json:"best,omitempty"`
	Applied    bool                     `json:"applied"`
}

// Search runs extraction, enrichment, recall and rerank for one query.
func (s *MatchService) Search(ctx context.Context, orgID, provider, query string, limit int) ([]domain.ScoredCandidate, *domain.ScoredCandidate, domain.MatchSpec, error) {
	if limit <= 0 {
		limit = DefaultMatchLimit
	}
	cfg := s.configs.Config(ctx, orgID)

	spec := matcher.ExtractSpecs(query, cfg)
	enriched := matcher.EnrichQuery(query, "", spec, cfg)

	candidates, err := s.catalog.Search(ctx, orgID, provider, enriched, cfg.RecallLimit(limit))
	if err != nil {
		return nil, nil, spec, err
	}

	scored, best := matcher.Rerank(query, spec, candidates, cfg, limit)

	adj := 0.0
	if best != nil {
		adj = best.Adjustment
	}
	s.metrics.ObserveMatch(len(candidates), adj)

	return scored, best, spec, nil
}

// MatchDraft matches every item of a draft. With apply set, each best pick is
// persisted onto its item; items without candidates are left untouched.
func (s *MatchService) MatchDraft(ctx context.Context, orgID string, draftID uuid.UUID, limit int, apply bool) ([]ItemMatch, error) {
	if limit <= 0 {
		limit = DefaultMatchLimit
	}
	draft, items, err := s.drafts.GetByID(ctx, orgID, draftID)
	if err != nil {
		return nil, err
	}
	cfg := s.configs.Config(ctx, orgID)

	results := make([]ItemMatch, 0, len(items))
	for i := range items {
		it := &items[i]
		match, matchErr := s.matchItem(ctx, draft, it, cfg, limit)
		if matchErr != nil {
			return nil, matchErr
		}

		if apply && match.Best != nil {
			if applyErr := s.drafts.ApplyMatch(ctx, orgID, draftID, it.ID, match.Best); applyErr != nil {
				return nil, applyErr
			}
			match.Applied = true
		}
		results = append(results, *match)
	}

	s.log.Info("draft matched",
		logger.String("draft_id", draftID.String()),
		logger.String("org_id", orgID),
		logger.Int("items", len(results)),
		logger.Bool("apply", apply))

	return results, nil
}

func (s *MatchService) matchItem(ctx context.Context, draft *domain.Draft, it *domain.DraftItem, cfg *matcher.Config, limit int) (*ItemMatch, error) {
	spec := matcher.ExtractSpecs(it.Description, cfg)
	enriched := matcher.EnrichQuery(it.Description, it.RawText, spec, cfg)

	candidates, err := s.catalog.Search(ctx, draft.OrgID, draft.Provider, enriched, cfg.RecallLimit(limit))
	if err != nil {
		return nil, err
	}

	scored, best := matcher.Rerank(it.Description, spec, candidates, cfg, limit)

	adj := 0.0
	if best != nil {
		adj = best.Adjustment
	}
	s.metrics.ObserveMatch(len(candidates), adj)

	return &ItemMatch{
		ItemID:     it.ID,
		LineIndex:  it.LineIndex,
		Query:      enriched,
		Spec:       spec,
		Candidates: scored,
		Best:       best,
	}, nil
}
