package database

import (
	"database/sql"
	"fmt"

	"github.com/mfalcone/fund-tracker/internal/models"
)

// RegisterFunds inserts the given (name, lookup) pairs, silently skipping
// lookup codes that already exist. Safe to call on every run.
func (db *DB) RegisterFunds(funds []models.Fund) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO funds (name, lookup) VALUES (?, ?)
		ON CONFLICT(lookup) DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, f := range funds {
		if _, err := stmt.Exec(f.Name, f.Lookup); err != nil {
			return fmt.Errorf("failed to register fund %s: %w", f.Lookup, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetFundByLookup retrieves a fund by its lookup code
func (db *DB) GetFundByLookup(lookup string) (*models.Fund, error) {
	query := `
		SELECT id, name, lookup, created_at
		FROM funds
		WHERE lookup = ?
	`
	var f models.Fund
	err := db.conn.QueryRow(query, lookup).Scan(&f.ID, &f.Name, &f.Lookup, &f.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("fund not found: %s", lookup)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get fund: %w", err)
	}
	return &f, nil
}

// GetAllFunds retrieves all registered funds ordered by id
func (db *DB) GetAllFunds() ([]*models.Fund, error) {
	query := `
		SELECT id, name, lookup, created_at
		FROM funds
		ORDER BY id ASC
	`
	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to get funds: %w", err)
	}
	defer rows.Close()

	var funds []*models.Fund
	for rows.Next() {
		var f models.Fund
		if err := rows.Scan(&f.ID, &f.Name, &f.Lookup, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan fund: %w", err)
		}
		funds = append(funds, &f)
	}
	return funds, rows.Err()
}
