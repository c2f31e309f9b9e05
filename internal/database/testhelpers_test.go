package database

import (
	"database/sql"
	"path/filepath"
	"runtime"
	"testing"

	"go.uber.org/zap"
)

// TestDB wraps a temp-file database with cleanup helpers
type TestDB struct {
	*DB
}

// SetupTestDB creates a migrated SQLite database in a temp dir
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	// migrations live relative to this file
	_, filename, _, _ := runtime.Caller(0)
	migrationsPath := filepath.Join(filepath.Dir(filename), "..", "..", "db", "migrations")

	db, err := Open(filepath.Join(t.TempDir(), "funds.db"), migrationsPath, zap.NewNop())
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	testDB := &TestDB{DB: db}
	if err := db.RunMigrations(); err != nil {
		testDB.Cleanup(t)
		t.Fatalf("failed to run migrations: %v", err)
	}
	return testDB
}

// Cleanup closes the database connection
func (tdb *TestDB) Cleanup(t *testing.T) {
	t.Helper()
	if tdb.DB != nil {
		tdb.DB.Close()
	}
}

// TruncateAll empties all tables for test isolation
func (tdb *TestDB) TruncateAll(t *testing.T) {
	t.Helper()
	for _, table := range []string{"daily_changes", "funds"} {
		if _, err := tdb.conn.Exec("DELETE FROM " + table); err != nil {
			t.Fatalf("failed to truncate table %s: %v", table, err)
		}
	}
}

// GetRawConn returns the underlying sql.DB for direct queries in tests
func (tdb *TestDB) GetRawConn() *sql.DB {
	return tdb.conn
}
