package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ScaleDigits is the number of decimal digits preserved when a dollar change
// is stored as an integer. 1.2050 is stored as 12050.
const ScaleDigits = 4

// Fund represents one exchange-traded fund tracked by the system
type Fund struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Lookup    string    `json:"lookup"`
	CreatedAt time.Time `json:"created_at"`
}

// DailyChange represents one day's dollar change for a fund.
// Date is an ISO-8601 calendar day (YYYY-MM-DD), Delta is fixed-point.
type DailyChange struct {
	ID        int64     `json:"id"`
	Date      string    `json:"date"`
	FundID    int64     `json:"fund_id"`
	Delta     int64     `json:"delta"`
	CreatedAt time.Time `json:"created_at"`
}

// ScaleDelta converts a decimal dollar change to its fixed-point integer
// representation. Exact for inputs with at most ScaleDigits decimal digits.
func ScaleDelta(d decimal.Decimal) int64 {
	return d.Shift(ScaleDigits).IntPart()
}

// RenderDelta formats a fixed-point delta back to its decimal form for
// display. Trailing zeros are trimmed: 12050 renders as "1.205", 10000 as
// "1". Spreadsheets parse both forms identically.
func RenderDelta(delta int64) string {
	return decimal.New(delta, -ScaleDigits).String()
}
