// Package catalog stores provider product catalogs and serves the lexical
// recall queries the matcher reranks.
package catalog

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/Angeloac12/siigo-cotizador/internal/domain"
)

// Repository handles database operations for catalog products.
type Repository struct {
	db *sqlx.DB
}

// NewRepository creates a new catalog repository.
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// recallQuery blends trigram similarity on name and description with a
// full-text rank over the precomputed search vector. Name and description
// similarity weigh double the text rank.
const recallQuery = `
	SELECT code, name, COALESCE(description, '') AS description,
	       COALESCE(brand, '') AS brand, COALESCE(model, '') AS model,
	       price1, COALESCE(unit, '') AS unit,
	       (2 * similarity(name, $3)
	        + 2 * similarity(COALESCE(description, ''), $3)
	        + ts_rank(search_vector, plainto_tsquery('spanish', $3))) / 5 AS base_score
	FROM products
	WHERE org_id = $1
	  AND provider = $2
	  AND (name % $3
	       OR COALESCE(description, '') % $3
	       OR search_vector @@ plainto_tsquery('spanish', $3))
	ORDER BY base_score DESC, code ASC
	LIMIT $4
`

// Search runs lexical recall for a query within one org and provider scope.
// Results come back ordered by blended score, best first.
func (r *Repository) Search(ctx context.Context, orgID, provider, query string, limit int) ([]domain.Candidate, error) {
	rows, err := r.db.QueryxContext(ctx, recallQuery, orgID, provider, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var candidates []domain.Candidate
	for rows.Next() {
		var c domain.Candidate
		if err = rows.StructScan(&c); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		candidates = append(candidates, c)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return candidates, nil
}

// Product is one catalog row as imported from a provider price list.
type Product struct {
	Code        string  `db:"code"`
	Name        string  `db:"name"`
	Description string  `db:"description"`
	Brand       string  `db:"brand"`
	Model       string  `db:"model"`
	Price       float64 `db:"price1"`
	Unit        string  `db:"unit"`
}

const upsertQuery = `
	INSERT INTO products (org_id, provider, code, name, description, brand, model, price1, unit)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	ON CONFLICT (org_id, provider, code) DO UPDATE
	SET name = EXCLUDED.name,
	    description = EXCLUDED.description,
	    brand = EXCLUDED.brand,
	    model = EXCLUDED.model,
	    price1 = EXCLUDED.price1,
	    unit = EXCLUDED.unit,
	    updated_at = NOW()
`

// Upsert writes a batch of products for one org and provider inside a single
// transaction. Existing codes are overwritten with the incoming row.
func (r *Repository) Upsert(ctx context.Context, orgID, provider string, products []Product) (int, error) {
	if len(products) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	stmt, err := tx.PreparexContext(ctx, upsertQuery)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer func() {
		_ = stmt.Close()
	}()

	count := 0
	for i := range products {
		p := &products[i]
		if p.Code == "" || p.Name == "" {
			continue
		}
		if _, err = stmt.ExecContext(
			ctx,
			orgID, provider,
			p.Code, p.Name, p.Description, p.Brand, p.Model, p.Price, p.Unit,
		); err != nil {
			return 0, fmt.Errorf("failed to upsert product %s: %w", p.Code, err)
		}
		count++
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit import: %w", err)
	}

	return count, nil
}

// Count returns the number of products in one org and provider scope.
func (r *Repository) Count(ctx context.Context, orgID, provider string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM products WHERE org_id = $1 AND provider = $2`

	err := r.db.QueryRowContext(ctx, query, orgID, provider).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}

	return count, nil
}
