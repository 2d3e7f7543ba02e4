package testutil

import (
	"context"
	"database/sql"
	"testing"

	"github.com/alexanderramin/meridian/internal/db"
)

// NewTestDB opens a migrated in-memory store that is closed with the test.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := db.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func NewTestUoW(conn *sql.DB) db.UnitOfWork {
	return db.NewSQLiteUnitOfWork(conn)
}

// Inserter is the Create half of any repository.
type Inserter[T any] interface {
	Create(ctx context.Context, v *T) error
}

// Seed inserts each value, failing the test on the first error.
func Seed[T any](t *testing.T, repo Inserter[T], values ...*T) {
	t.Helper()
	for _, v := range values {
		if err := repo.Create(context.Background(), v); err != nil {
			t.Fatalf("seeding %T: %v", v, err)
		}
	}
}
