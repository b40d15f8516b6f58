// Package drafts persists procurement drafts and their normalized line items.
package drafts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/Angeloac12/siigo-cotizador/internal/domain"
)

// Sentinel errors surfaced to the API layer.
var (
	ErrNotFound  = errors.New("draft not found")
	ErrCommitted = errors.New("draft already committed")
)

// Repository handles database operations for drafts and draft items.
type Repository struct {
	db *sqlx.DB
}

// NewRepository creates a new drafts repository.
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a draft together with its parsed items in one transaction.
func (r *Repository) Create(ctx context.Context, draft *domain.Draft, items []domain.DraftItem) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		INSERT INTO drafts (id, org_id, provider, status, raw_text, warnings)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`
	if err = tx.QueryRowContext(
		ctx,
		query,
		draft.ID, draft.OrgID, draft.Provider, draft.Status, draft.RawText, pq.Array(draft.Warnings),
	).Scan(&draft.CreatedAt, &draft.UpdatedAt); err != nil {
		return fmt.Errorf("failed to create draft: %w", err)
	}

	if err = insertItems(ctx, tx, items); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit draft: %w", err)
	}
	return nil
}

// GetByID retrieves a draft and its items, ordered by line index.
func (r *Repository) GetByID(ctx context.Context, orgID string, id uuid.UUID) (*domain.Draft, []domain.DraftItem, error) {
	var draft domain.Draft
	query := `
		SELECT id, org_id, provider, status, raw_text, warnings, created_at, updated_at
		FROM drafts
		WHERE id = $1 AND org_id = $2
	`
	err := r.db.QueryRowContext(ctx, query, id, orgID).Scan(
		&draft.ID,
		&draft.OrgID,
		&draft.Provider,
		&draft.Status,
		&draft.RawText,
		pq.Array(&draft.Warnings),
		&draft.CreatedAt,
		&draft.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("failed to get draft: %w", err)
	}

	items, err := r.listItems(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return &draft, items, nil
}

func (r *Repository) listItems(ctx context.Context, draftID uuid.UUID) ([]domain.DraftItem, error) {
	query := `
		SELECT id, draft_id, line_index, raw_text, description, quantity, uom, uom_raw,
		       confidence, warnings,
		       COALESCE(matched_code, '') AS matched_code,
		       COALESCE(matched_name, '') AS matched_name,
		       COALESCE(matched_price, 0) AS matched_price,
		       COALESCE(match_score, 0) AS match_score
		FROM draft_items
		WHERE draft_id = $1
		ORDER BY line_index ASC
	`
	rows, err := r.db.QueryContext(ctx, query, draftID)
	if err != nil {
		return nil, fmt.Errorf("failed to list draft items: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var items []domain.DraftItem
	for rows.Next() {
		var it domain.DraftItem
		if err = rows.Scan(
			&it.ID,
			&it.DraftID,
			&it.LineIndex,
			&it.RawText,
			&it.Description,
			&it.Quantity,
			&it.UOM,
			&it.UOMRaw,
			&it.Confidence,
			pq.Array(&it.Warnings),
			&it.MatchedCode,
			&it.MatchedName,
			&it.MatchedPrice,
			&it.MatchScore,
		); err != nil {
			return nil, fmt.Errorf("failed to scan draft item: %w", err)
		}
		items = append(items, it)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating draft items: %w", err)
	}
	return items, nil
}

// ReplaceItems swaps a draft's item set for an edited one. Committed drafts
// reject edits.
func (r *Repository) ReplaceItems(ctx context.Context, orgID string, draftID uuid.UUID, items []domain.DraftItem) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err = guardEditable(ctx, tx, orgID, draftID); err != nil {
		return err
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM draft_items WHERE draft_id = $1`, draftID); err != nil {
		return fmt.Errorf("failed to clear draft items: %w", err)
	}

	if err = insertItems(ctx, tx, items); err != nil {
		return err
	}

	if _, err = tx.ExecContext(ctx, `UPDATE drafts SET updated_at = NOW() WHERE id = $1`, draftID); err != nil {
		return fmt.Errorf("failed to touch draft: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit item replacement: %w", err)
	}
	return nil
}

// ApplyMatch persists the catalog pick for one item of an editable draft.
func (r *Repository) ApplyMatch(ctx context.Context, orgID string, draftID, itemID uuid.UUID, pick *domain.ScoredCandidate) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err = guardEditable(ctx, tx, orgID, draftID); err != nil {
		return err
	}

	query := `
		UPDATE draft_items
		SET matched_code = $1, matched_name = $2, matched_price = $3, match_score = $4
		WHERE id = $5 AND draft_id = $6
	`
	result, err := tx.ExecContext(
		ctx,
		query,
		pick.Code, pick.Name, pick.Price, pick.FinalScore, itemID, draftID,
	)
	if err != nil {
		return fmt.Errorf("failed to apply match: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit match: %w", err)
	}
	return nil
}

// Commit freezes a draft. Further edits and rematches are rejected.
func (r *Repository) Commit(ctx context.Context, orgID string, draftID uuid.UUID) error {
	query := `
		UPDATE drafts
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND org_id = $3 AND status = $4
	`
	result, err := r.db.ExecContext(ctx, query, domain.DraftStatusCommitted, draftID, orgID, domain.DraftStatusDraft)
	if err != nil {
		return fmt.Errorf("failed to commit draft: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if affected == 0 {
		return ErrCommitted
	}
	return nil
}

func guardEditable(ctx context.Context, tx *sqlx.Tx, orgID string, draftID uuid.UUID) error {
	var status string
	query := `SELECT status FROM drafts WHERE id = $1 AND org_id = $2 FOR UPDATE`

	err := tx.QueryRowContext(ctx, query, draftID, orgID).Scan(&status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to check draft status: %w", err)
	}
	if status == domain.DraftStatusCommitted {
		return ErrCommitted
	}
	return nil
}

func insertItems(ctx context.Context, tx *sqlx.Tx, items []domain.DraftItem) error {
	if len(items) == 0 {
		return nil
	}

	query := `
		INSERT INTO draft_items (id, draft_id, line_index, raw_text, description, quantity,
		                         uom, uom_raw, confidence, warnings)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	stmt, err := tx.PreparexContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare item insert: %w", err)
	}
	defer func() {
		_ = stmt.Close()
	}()

	for i := range items {
		it := &items[i]
		if _, err = stmt.ExecContext(
			ctx,
			it.ID, it.DraftID, it.LineIndex, it.RawText, it.Description, it.Quantity,
			it.UOM, it.UOMRaw, it.Confidence, pq.Array(it.Warnings),
		); err != nil {
			return fmt.Errorf("failed to insert draft item %d: %w", it.LineIndex, err)
		}
	}
	return nil
}
