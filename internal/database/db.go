package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// DB wraps the SQLite connection and provides additional functionality
type DB struct {
	conn           *sql.DB
	path           string
	migrationsPath string
	logger         *zap.Logger
}

// Open opens (creating if absent) the SQLite database at path
func Open(path, migrationsPath string, logger *zap.Logger) (*DB, error) {
	conn, err := sql.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// SQLite allows a single writer; avoid "database is locked" from pool churn
	conn.SetMaxOpenConns(1)

	logger.Info("Connected to database", zap.String("path", path))

	return &DB{
		conn:           conn,
		path:           path,
		migrationsPath: migrationsPath,
		logger:         logger,
	}, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	db.logger.Info("Closing database connection")
	return db.conn.Close()
}

// RunMigrations applies all pending schema migrations
func (db *DB) RunMigrations() error {
	m, err := db.newMigrator()
	if err != nil {
		return err
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil {
		db.logger.Warn("Could not get migration version", zap.Error(err))
	} else {
		db.logger.Info("Migrations applied",
			zap.Uint("version", version),
			zap.Bool("dirty", dirty))
	}
	return nil
}

// Reset destructively recreates the schema. Only the explicit initdb
// operation calls this; normal runs never do.
func (db *DB) Reset() error {
	db.logger.Warn("Resetting database schema", zap.String("path", db.path))

	m, err := db.newMigrator()
	if err != nil {
		return err
	}
	if err := m.Drop(); err != nil {
		return fmt.Errorf("failed to drop schema: %w", err)
	}

	// Drop removes the version table too; a fresh migrator recreates it
	return db.RunMigrations()
}

func (db *DB) newMigrator() (*migrate.Migrate, error) {
	driver, err := sqlite3.WithInstance(db.conn, &sqlite3.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://"+db.migrationsPath,
		"sqlite3",
		driver,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return m, nil
}
