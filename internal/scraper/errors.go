package scraper

import "fmt"

// CannotFindDateError indicates the source page never rendered its as-of
// price date within the wait budget. Terminal for the run.
type CannotFindDateError struct {
	URL string
}

func (e *CannotFindDateError) Error() string {
	return fmt.Sprintf("cannot find price date on source page %s", e.URL)
}

// DifferentDateError indicates the source's as-of date does not match the
// expected date, likely a weekend or other non-trading day. Terminal for
// the run.
type DifferentDateError struct {
	SourceDate   string
	ExpectedDate string
}

func (e *DifferentDateError) Error() string {
	return fmt.Sprintf("different dates: source date %s, expected date %s", e.SourceDate, e.ExpectedDate)
}

// CannotMatchFundError indicates a fund search returned a result whose
// displayed name does not match the expected fund name. Retryable.
type CannotMatchFundError struct {
	FundName  string
	Lookup    string
	FoundName string
}

func (e *CannotMatchFundError) Error() string {
	return fmt.Sprintf("fund name does not match search result: fund %q, lookup %s, found %q",
		e.FundName, e.Lookup, e.FoundName)
}
