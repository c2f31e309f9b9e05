// Package report renders the trailing-window fund history as a
// spreadsheet-readable CSV file.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mfalcone/fund-tracker/internal/manifest"
	"github.com/mfalcone/fund-tracker/internal/models"
)

// History maps lookup code -> date (YYYY-MM-DD) -> fixed-point delta.
type History map[string]map[string]int64

// WriteFile renders the report to path, overwriting any previous report.
func WriteFile(path string, entries []manifest.Entry, history History, fromDate, toDate string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer f.Close()

	if err := Write(f, entries, history, fromDate, toDate); err != nil {
		return err
	}
	return f.Close()
}

// Write renders one row per calendar day in [fromDate, toDate] that has at
// least one fund with data. Columns follow manifest order under the funds'
// simplified names; cells with no record stay blank.
func Write(w io.Writer, entries []manifest.Entry, history History, fromDate, toDate string) error {
	from, err := time.Parse("2006-01-02", fromDate)
	if err != nil {
		return fmt.Errorf("invalid report start date %q: %w", fromDate, err)
	}
	to, err := time.Parse("2006-01-02", toDate)
	if err != nil {
		return fmt.Errorf("invalid report end date %q: %w", toDate, err)
	}

	cw := csv.NewWriter(w)

	header := make([]string, 0, len(entries)+1)
	header = append(header, "Date")
	for _, e := range entries {
		header = append(header, e.Simplified)
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write report header: %w", err)
	}

	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		date := day.Format("2006-01-02")
		row := make([]string, 0, len(entries)+1)
		row = append(row, date)
		hasData := false
		for _, e := range entries {
			if delta, ok := history[e.Lookup][date]; ok {
				row = append(row, models.RenderDelta(delta))
				hasData = true
			} else {
				row = append(row, "")
			}
		}
		if !hasData {
			continue
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write report row for %s: %w", date, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush report: %w", err)
	}
	return nil
}
