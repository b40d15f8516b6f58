package catalog_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"

	"github.com/Angeloac12/siigo-cotizador/internal/catalog"
)

func newMockRepo(t *testing.T) (*catalog.Repository, sqlmock.Sqlmock, func()) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	return catalog.NewRepository(sqlx.NewDb(db, "postgres")), mock, func() { _ = db.Close() }
}

func TestRepository_Search(t *testing.T) {
	repo, mock, closeDB := newMockRepo(t)
	defer closeDB()
	ctx := context.Background()

	columns := []string{"code", "name", "description", "brand", "model", "price1", "unit", "base_score"}

	testCases := []struct {
		name      string
		setupMock func()
		wantLen   int
		wantErr   bool
	}{
		{
			name: "returns ranked candidates",
			setupMock: func() {
				rows := sqlmock.NewRows(columns).
					AddRow("CAB-12", "Cable THHN 12 AWG", "Rollo 100m", "Centelsa", "", 185000.0, "ROL", 0.91).
					AddRow("CAB-10", "Cable THHN 10 AWG", "", "Centelsa", "", 260000.0, "ROL", 0.84)
				mock.ExpectQuery("SELECT code, name").
					WithArgs("org-1", "siigo", "cable thhn 12", 40).
					WillReturnRows(rows)
			},
			wantLen: 2,
		},
		{
			name: "empty recall",
			setupMock: func() {
				mock.ExpectQuery("SELECT code, name").
					WithArgs("org-1", "siigo", "cable thhn 12", 40).
					WillReturnRows(sqlmock.NewRows(columns))
			},
			wantLen: 0,
		},
		{
			name: "database failure",
			setupMock: func() {
				mock.ExpectQuery("SELECT code, name").
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tc.setupMock()

			got, err := repo.Search(ctx, "org-1", "siigo", "cable thhn 12", 40)
			if (err != nil) != tc.wantErr {
				t.Errorf("Search() error = %v, wantErr %v", err, tc.wantErr)
			}
			if !tc.wantErr && len(got) != tc.wantLen {
				t.Errorf("Search() returned %d candidates, want %d", len(got), tc.wantLen)
			}
			if !tc.wantErr && tc.wantLen > 0 && got[0].Code != "CAB-12" {
				t.Errorf("Search() first candidate = %s, want CAB-12", got[0].Code)
			}

			if expectErr := mock.ExpectationsWereMet(); expectErr != nil {
				t.Errorf("unfulfilled expectations: %v", expectErr)
			}
		})
	}
}

func TestRepository_Upsert(t *testing.T) {
	repo, mock, closeDB := newMockRepo(t)
	defer closeDB()
	ctx := context.Background()

	products := []catalog.Product{
		{Code: "CAB-12", Name: "Cable THHN 12 AWG", Price: 185000, Unit: "ROL"},
		{Code: "", Name: "sin codigo"}, // skipped
		{Code: "BRK-20", Name: "Breaker 20A", Price: 32000, Unit: "UND"},
	}

	mock.ExpectBegin()
	mock.ExpectPrepare("INSERT INTO products")
	mock.ExpectExec("INSERT INTO products").
		WithArgs("org-1", "siigo", "CAB-12", "Cable THHN 12 AWG", "", "", "", 185000.0, "ROL").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO products").
		WithArgs("org-1", "siigo", "BRK-20", "Breaker 20A", "", "", "", 32000.0, "UND").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	count, err := repo.Upsert(ctx, "org-1", "siigo", products)
	if err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if count != 2 {
		t.Errorf("Upsert() count = %d, want 2", count)
	}

	if expectErr := mock.ExpectationsWereMet(); expectErr != nil {
		t.Errorf("unfulfilled expectations: %v", expectErr)
	}
}

func TestRepository_UpsertEmpty(t *testing.T) {
	repo, mock, closeDB := newMockRepo(t)
	defer closeDB()

	count, err := repo.Upsert(context.Background(), "org-1", "siigo", nil)
	if err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if count != 0 {
		t.Errorf("Upsert() count = %d, want 0", count)
	}

	if expectErr := mock.ExpectationsWereMet(); expectErr != nil {
		t.Errorf("unfulfilled expectations: %v", expectErr)
	}
}
