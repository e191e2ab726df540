package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/database"
	"github.com/stretchr/testify/require"
)

// TestDatabaseSetup holds a migrated connection to the integration database.
type TestDatabaseSetup struct {
	DB *database.DB
}

// NewTestDatabase connects to TEST_DATABASE_URL and applies migrations. The
// test is skipped when the variable is unset.
func NewTestDatabase(t *testing.T) *TestDatabaseSetup {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := database.NewPostgreSQLDB(ctx, dsn, database.PoolConfig{MaxConns: 4, MinConns: 1})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(ctx, db))

	setup := &TestDatabaseSetup{DB: db}
	require.NoError(t, setup.TruncateAllTables(ctx))
	t.Cleanup(setup.Close)
	return setup
}

// TruncateAllTables clears everything except the seeded chart of accounts.
func (t *TestDatabaseSetup) TruncateAllTables(ctx context.Context) error {
	tx, err := t.DB.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tables := []string{
		"journal_lines",
		"journals",
		"payroll_components",
		"payroll_details",
		"payroll_periods",
		"placements",
		"employees",
		"job_titles",
		"grades",
		"departments",
		"pph21_ter_rates",
		"users",
	}

	for _, table := range tables {
		_, err := tx.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		if err != nil {
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	return tx.Commit(ctx)
}

// CreateJobTitle inserts a department, grade and job title and returns the job title ID.
func (t *TestDatabaseSetup) CreateJobTitle(ctx context.Context, name string) (string, error) {
	var id string
	err := t.DB.QueryRow(ctx, `
		WITH d AS (
			INSERT INTO departments (name) VALUES ($1 || ' dept') RETURNING id
		), g AS (
			INSERT INTO grades (name) VALUES ($1 || ' grade') RETURNING id
		)
		INSERT INTO job_titles (name, department_id, grade_id)
		SELECT $1, d.id, g.id FROM d, g
		RETURNING id
	`, name).Scan(&id)
	return id, err
}

// Close closes the database connection
func (t *TestDatabaseSetup) Close() {
	t.DB.Close()
}
