package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/mfalcone/fund-tracker/internal/models"
)

// ErrUnknownFund is returned when a daily change references a lookup code
// that was never registered. The write is rejected rather than stored with
// a dangling fund reference.
var ErrUnknownFund = errors.New("unknown fund lookup code")

// RecordChange inserts one daily change row for the fund with the given
// lookup code. date must be in YYYY-MM-DD format.
func (db *DB) RecordChange(lookup string, delta int64, date string) error {
	var fundID int64
	err := db.conn.QueryRow(`SELECT id FROM funds WHERE lookup = ?`, lookup).Scan(&fundID)
	if err == sql.ErrNoRows {
		return fmt.Errorf("%w: %s", ErrUnknownFund, lookup)
	}
	if err != nil {
		return fmt.Errorf("failed to resolve fund %s: %w", lookup, err)
	}

	_, err = db.conn.Exec(`
		INSERT INTO daily_changes (date, fund_id, delta) VALUES (?, ?, ?)
	`, date, fundID, delta)
	if err != nil {
		return fmt.Errorf("failed to record change for %s: %w", lookup, err)
	}
	return nil
}

// RangeQuery returns the (date, delta) pairs for a fund between fromDate and
// toDate inclusive, ascending by date. ISO-8601 dates sort lexicographically,
// so the comparison is done on the stored TEXT column directly.
func (db *DB) RangeQuery(lookup, fromDate, toDate string) ([]models.DailyChange, error) {
	query := `
		SELECT dc.id, dc.date, dc.fund_id, dc.delta, dc.created_at
		FROM daily_changes dc
		JOIN funds f ON f.id = dc.fund_id
		WHERE f.lookup = ? AND dc.date >= ? AND dc.date <= ?
		ORDER BY dc.date ASC
	`
	rows, err := db.conn.Query(query, lookup, fromDate, toDate)
	if err != nil {
		return nil, fmt.Errorf("failed to query changes for %s: %w", lookup, err)
	}
	defer rows.Close()

	var changes []models.DailyChange
	for rows.Next() {
		var c models.DailyChange
		if err := rows.Scan(&c.ID, &c.Date, &c.FundID, &c.Delta, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan change: %w", err)
		}
		changes = append(changes, c)
	}
	return changes, rows.Err()
}
