// Package model defines shared data structures.
package model

import (
	"errors"
	"time"
)

// ErrInsufficientData is returned when a request yields fewer than two
// usable data points.
var ErrInsufficientData = errors.New("not enough exchange rate data")

// Rate is a single published mid rate quoted in the home currency.
type Rate struct {
	Date  time.Time
	Value float64
}

// SessionCounts tallies day-over-day rate movements.
type SessionCounts struct {
	Increased int
	Decreased int
	Unchanged int
}

// AnalysisResult holds the statistics computed for one currency over one
// period. Values keeps the rate sequence in fetched order.
type AnalysisResult struct {
	Currency               string
	StartDate              time.Time
	EndDate                time.Time
	Values                 []float64
	Median                 float64
	Modes                  []float64
	StdDev                 float64
	CoefficientOfVariation float64
	Sessions               SessionCounts
}

// DistributionResult holds the day-over-day changes of a currency pair's
// ratio series, in ascending date order.
type DistributionResult struct {
	Pair      string
	StartDate time.Time
	EndDate   time.Time
	Changes   []float64
}

// HistoryEntry summarizes a completed request for the history store.
type HistoryEntry struct {
	ID        int64
	CreatedAt time.Time
	Kind      string
	Subject   string
	Period    string
	StartDate time.Time
	EndDate   time.Time
	Points    int
}

// Settings holds resolved runtime configuration shared by the services.
type Settings struct {
	BaseURL        string
	Table          string
	TimeoutSeconds int
	MaxSpanDays    int
	MinDate        time.Time
	HomeCurrency   string
}

// Date builds a UTC midnight time for calendar-date arithmetic.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
