package scraper

import (
	"fmt"
	"time"
)

// sourceDateLayout is the format the price page renders, e.g. "05-Sep-2021".
const sourceDateLayout = "02-Jan-2006"

// ISODate is the calendar-day format used throughout the store and report.
const ISODate = "2006-01-02"

// SourceDateToISO converts the page's displayed date to YYYY-MM-DD.
func SourceDateToISO(sourceDate string) (string, error) {
	t, err := time.Parse(sourceDateLayout, sourceDate)
	if err != nil {
		return "", fmt.Errorf("failed to parse source date %q: %w", sourceDate, err)
	}
	return t.Format(ISODate), nil
}
