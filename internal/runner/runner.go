// Package runner drives one acquisition run: open a source session, fetch
// every manifest fund with bounded retries, persist the day's deltas, and
// render the trailing-window report.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mfalcone/fund-tracker/internal/config"
	"github.com/mfalcone/fund-tracker/internal/database"
	"github.com/mfalcone/fund-tracker/internal/manifest"
	"github.com/mfalcone/fund-tracker/internal/models"
	"github.com/mfalcone/fund-tracker/internal/report"
	"github.com/mfalcone/fund-tracker/internal/scraper"
)

// Runner orchestrates one run end to end.
type Runner struct {
	cfg    *config.Config
	db     *database.DB
	source scraper.Source
	logger *zap.Logger

	// Out receives the per-fund progress stream. Defaults to os.Stdout.
	Out io.Writer

	// now is injectable for tests; the run's "today" comes from it.
	now func() time.Time
}

// New creates a Runner.
func New(cfg *config.Config, db *database.DB, source scraper.Source, logger *zap.Logger) *Runner {
	return &Runner{
		cfg:    cfg,
		db:     db,
		source: source,
		logger: logger,
		Out:    os.Stdout,
		now:    time.Now,
	}
}

// Run executes the full pipeline for the manifest at manifestPath, writing
// the windowed report to outputPath. Session-level failures (cannot find
// date, date mismatch) abort before any fetch or database write; a per-fund
// failure aborts the whole run only when the retry ceiling is exhausted on a
// non-identity error.
func (r *Runner) Run(ctx context.Context, manifestPath, outputPath string) error {
	entries, err := manifest.Load(manifestPath)
	if err != nil {
		return err
	}

	today := r.now().Format(scraper.ISODate)

	session, err := r.source.Open(ctx, today)
	if err != nil {
		r.writeOutcome(fmt.Sprintf("run failed:\n%v\n", err))
		return err
	}
	defer session.Close()

	fmt.Fprintf(r.Out, "Daily prices for %s:\n", session.AsOfDate())

	deltas, err := r.fetchAll(session, entries)
	if err != nil {
		return err
	}
	session.Close()

	if err := r.persist(entries, deltas, today); err != nil {
		return err
	}

	if err := r.render(entries, outputPath, today); err != nil {
		return err
	}

	r.writeOutcome("run completed successfully.\n")
	r.logger.Info("Run completed",
		zap.String("date", today),
		zap.Int("funds", len(entries)),
		zap.Int("recorded", len(deltas)),
		zap.String("report", outputPath))
	return nil
}

// fetchAll drives the per-fund retry loop, streaming one line of progress per
// fund: an "x" per failed attempt, then the value on success.
func (r *Runner) fetchAll(session scraper.Session, entries []manifest.Entry) (map[string]int64, error) {
	maxRetries := r.cfg.Run.MaxRetries
	deltas := make(map[string]int64, len(entries))

	for _, e := range entries {
		fmt.Fprintf(r.Out, "%s ", e.Name)

		for attempt := 1; attempt <= maxRetries; attempt++ {
			delta, err := session.FetchDelta(e.Name, e.Lookup)
			if err == nil {
				fmt.Fprintf(r.Out, "%s %s\n",
					strings.Repeat(".", maxRetries-attempt+1),
					models.RenderDelta(delta))
				deltas[e.Lookup] = delta
				break
			}

			var mismatch *scraper.CannotMatchFundError
			if errors.As(err, &mismatch) {
				// identity mismatch: retry silently and give up on
				// this fund alone when the ceiling is reached
				if attempt < maxRetries {
					fmt.Fprint(r.Out, "x")
					continue
				}
				fmt.Fprintln(r.Out, "x")
				r.logger.Error("Could not match fund",
					zap.String("fund", e.Name),
					zap.String("lookup", e.Lookup),
					zap.Error(err))
				break
			}

			// any other failure is fatal once the ceiling is reached
			if attempt < maxRetries {
				fmt.Fprint(r.Out, "x")
				r.logger.Warn("Fetch failed, retrying",
					zap.String("fund", e.Name),
					zap.Int("attempt", attempt),
					zap.Error(err))
				continue
			}
			fmt.Fprintln(r.Out, "x")
			return nil, fmt.Errorf("failed to fetch %s after %d attempts: %w", e.Lookup, maxRetries, err)
		}
	}
	return deltas, nil
}

// persist registers the manifest funds (idempotent) and records the day's
// deltas. Registration comes first so every change resolves to a known fund.
func (r *Runner) persist(entries []manifest.Entry, deltas map[string]int64, today string) error {
	funds := make([]models.Fund, 0, len(entries))
	for _, e := range entries {
		funds = append(funds, models.Fund{Name: e.Name, Lookup: e.Lookup})
	}
	if err := r.db.RegisterFunds(funds); err != nil {
		return err
	}

	for _, e := range entries {
		delta, ok := deltas[e.Lookup]
		if !ok {
			continue
		}
		if err := r.db.RecordChange(e.Lookup, delta, today); err != nil {
			return err
		}
	}
	return nil
}

// render queries each fund's trailing-window history and writes the report.
func (r *Runner) render(entries []manifest.Entry, outputPath, today string) error {
	fromDate := r.now().AddDate(0, 0, -r.cfg.Run.WindowDays).Format(scraper.ISODate)

	history := make(report.History, len(entries))
	for _, e := range entries {
		changes, err := r.db.RangeQuery(e.Lookup, fromDate, today)
		if err != nil {
			return err
		}
		byDate := make(map[string]int64, len(changes))
		for _, c := range changes {
			byDate[c.Date] = c.Delta
		}
		history[e.Lookup] = byDate
	}

	return report.WriteFile(outputPath, entries, history, fromDate, today)
}

// writeOutcome overwrites the run log with the latest outcome; only the most
// recent run survives there.
func (r *Runner) writeOutcome(message string) {
	if r.cfg.Run.LogPath == "" {
		return
	}
	if err := os.WriteFile(r.cfg.Run.LogPath, []byte(message), 0644); err != nil {
		r.logger.Warn("Failed to write run log", zap.Error(err))
	}
}
