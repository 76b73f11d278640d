package services

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/studyflow/studyflow-be/internal/database"
)

// newTestDB opens an in-memory database with the full schema applied.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := database.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	// An in-memory database exists per connection; keep the pool on one.
	db.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	return db
}

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }
