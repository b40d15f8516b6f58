// Package service wires parsing, matching and persistence into the
// operations the API exposes.
package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/Angeloac12/siigo-cotizador/internal/domain"
	"github.com/Angeloac12/siigo-cotizador/internal/drafts"
	"github.com/Angeloac12/siigo-cotizador/internal/logger"
	"github.com/Angeloac12/siigo-cotizador/internal/metrics"
	"github.com/Angeloac12/siigo-cotizador/internal/parser"
	"github.com/Angeloac12/siigo-cotizador/internal/quote"
)

// DraftStore is the persistence surface the draft service needs.
type DraftStore interface {
	Create(ctx context.Context, draft *domain.Draft, items []domain.DraftItem) error
	GetByID(ctx context.Context, orgID string, id uuid.UUID) (*domain.Draft, []domain.DraftItem, error)
	ReplaceItems(ctx context.Context, orgID string, draftID uuid.UUID, items []domain.DraftItem) error
	Commit(ctx context.Context, orgID string, draftID uuid.UUID) error
}

// DraftService turns raw request text into persisted drafts.
type DraftService struct {
	store   DraftStore
	parser  *parser.Parser
	metrics *metrics.Metrics
	log     logger.Logger
}

// NewDraftService creates a draft service. metrics may be nil.
func NewDraftService(store DraftStore, p *parser.Parser, m *metrics.Metrics, log logger.Logger) *DraftService {
	if p == nil {
		p = parser.New(nil)
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &DraftService{store: store, parser: p, metrics: m, log: log}
}

// CreateFromText parses free-text request lines and persists the draft.
func (s *DraftService) CreateFromText(ctx context.Context, orgID, provider, text string, maxItems int) (*domain.Draft, []domain.DraftItem, error) {
	result := s.parser.ParseBatch(text, maxItems)
	return s.create(ctx, orgID, provider, text, result)
}

// CreateFromTable parses a tabular request (spreadsheet upload) and persists
// the draft. rawText records the upload's filename for traceability.
func (s *DraftService) CreateFromTable(ctx context.Context, orgID, provider string, table parser.Table, rawText string, maxItems int) (*domain.Draft, []domain.DraftItem, error) {
	result := s.parser.ParseTable(table, maxItems)
	return s.create(ctx, orgID, provider, rawText, result)
}

func (s *DraftService) create(ctx context.Context, orgID, provider, rawText string, result domain.ParseResult) (*domain.Draft, []domain.DraftItem, error) {
	draft := &domain.Draft{
		ID:       uuid.New(),
		OrgID:    orgID,
		Provider: provider,
		Status:   domain.DraftStatusDraft,
		RawText:  rawText,
		Warnings: result.Warnings,
	}

	items := make([]domain.DraftItem, 0, len(result.Items))
	confidences := make([]float64, 0, len(result.Items))
	for _, line := range result.Items {
		items = append(items, domain.ItemFromLine(draft.ID, line))
		confidences = append(confidences, line.Confidence)
	}

	if err := s.store.Create(ctx, draft, items); err != nil {
		return nil, nil, err
	}

	s.metrics.ObserveParse(confidences, 0)
	s.log.Info("draft created",
		logger.String("draft_id", draft.ID.String()),
		logger.String("org_id", orgID),
		logger.Int("items", len(items)),
		logger.Strings("warnings", draft.Warnings))

	return draft, items, nil
}

// ErrAlreadyParsed is returned when parse is requested for a draft that
// already carries items.
var ErrAlreadyParsed = errors.New("draft already has items")

// Reparse runs the parser over a draft's stored source text. It only applies
// to drafts that have no items yet; edited or committed drafts keep theirs.
func (s *DraftService) Reparse(ctx context.Context, orgID string, draftID uuid.UUID, maxItems int) ([]domain.DraftItem, error) {
	draft, existing, err := s.store.GetByID(ctx, orgID, draftID)
	if err != nil {
		return nil, err
	}
	if draft.Committed() {
		return nil, drafts.ErrCommitted
	}
	if len(existing) > 0 {
		return nil, ErrAlreadyParsed
	}

	result := s.parser.ParseBatch(draft.RawText, maxItems)
	items := make([]domain.DraftItem, 0, len(result.Items))
	confidences := make([]float64, 0, len(result.Items))
	for _, line := range result.Items {
		items = append(items, domain.ItemFromLine(draftID, line))
		confidences = append(confidences, line.Confidence)
	}

	if err := s.store.ReplaceItems(ctx, orgID, draftID, items); err != nil {
		return nil, err
	}
	s.metrics.ObserveParse(confidences, 0)
	return items, nil
}

// Get returns a draft with its items.
func (s *DraftService) Get(ctx context.Context, orgID string, id uuid.UUID) (*domain.Draft, []domain.DraftItem, error) {
	return s.store.GetByID(ctx, orgID, id)
}

// ItemEdit is one user-corrected line of a draft.
type ItemEdit struct {
	Description string  `json:"description" binding:"required"`
	Quantity    float64 `json:"quantity" binding:"required,gt=0"`
	UOM         string  `json:"uom" binding:"required"`
}

// ReplaceItems swaps a draft's items for user-edited ones. Edited lines are
// trusted: they carry full confidence and no inference warnings.
func (s *DraftService) ReplaceItems(ctx context.Context, orgID string, draftID uuid.UUID, edits []ItemEdit) ([]domain.DraftItem, error) {
	items := make([]domain.DraftItem, 0, len(edits))
	for i, e := range edits {
		items = append(items, domain.DraftItem{
			ID:          uuid.New(),
			DraftID:     draftID,
			LineIndex:   i,
			RawText:     e.Description,
			Description: strings.TrimSpace(e.Description),
			Quantity:    e.Quantity,
			UOM:         domain.UOM(strings.ToUpper(strings.TrimSpace(e.UOM))),
			Confidence:  1.0,
		})
	}

	if err := s.store.ReplaceItems(ctx, orgID, draftID, items); err != nil {
		return nil, err
	}
	return items, nil
}

// Commit freezes a draft.
func (s *DraftService) Commit(ctx context.Context, orgID string, draftID uuid.UUID) error {
	return s.store.Commit(ctx, orgID, draftID)
}

// QuotePreview builds the dry-run quote for a draft.
func (s *DraftService) QuotePreview(ctx context.Context, orgID string, draftID uuid.UUID) (*quote.Preview, error) {
	draft, items, err := s.store.GetByID(ctx, orgID, draftID)
	if err != nil {
		return nil, err
	}
	return quote.Build(draft, items), nil
}
