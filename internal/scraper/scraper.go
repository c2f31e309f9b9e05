// Package scraper retrieves daily dollar changes for funds from the upstream
// price page. The page is driven behind the Source/Session capability pair so
// the orchestrator and its retry logic can run against a fake.
package scraper

import "context"

// Source opens sessions against the upstream price page.
type Source interface {
	// Open establishes a session and validates that the page's as-of date
	// equals expectedDate (YYYY-MM-DD). It fails with *CannotFindDateError
	// when the date never renders within the wait budget and with
	// *DifferentDateError on a mismatch; both are terminal for the run.
	Open(ctx context.Context, expectedDate string) (Session, error)
}

// Session is an established, rate-limited view of the price page.
type Session interface {
	// AsOfDate returns the page's validated as-of date in YYYY-MM-DD form.
	AsOfDate() string

	// FetchDelta looks up a fund by its lookup code and returns the day's
	// dollar change in fixed-point form. A *CannotMatchFundError means the
	// result's displayed name did not match fundName; callers may retry.
	FetchDelta(fundName, lookup string) (int64, error)

	// Close releases the session. Idempotent.
	Close() error
}
