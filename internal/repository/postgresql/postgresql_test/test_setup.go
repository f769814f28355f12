package postgresql_test

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/formacentre/payroll-backend-go/internal/pkg/database"
)

// setupTestDatabase connects to the throwaway database named by
// TEST_DATABASE_URL, applies the migrations and wipes all tables.
// Tests are skipped when the variable is unset.
func setupTestDatabase(t *testing.T) *database.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := database.NewPostgreSQLDB(dsn)
	require.NoError(t, err)
	t.Cleanup(db.Close)

	ctx := context.Background()
	require.NoError(t, database.NewMigrator(db).Run(ctx))

	_, err = db.Exec(ctx, "UPDATE sessions SET settlement_sheet_id = NULL")
	require.NoError(t, err)
	for _, table := range []string{"payroll_sheets", "session_trainers", "sessions", "refresh_tokens", "users"} {
		_, err := db.Exec(ctx, "DELETE FROM "+table)
		require.NoError(t, err)
	}
	return db
}
