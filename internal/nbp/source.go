// Package nbp talks to the National Bank of Poland exchange rate archive.
package nbp

import (
	"context"
	"errors"
	"time"

	"github.com/azielinski/nbpstat/internal/model"
)

// ErrCurrencyNotFound reports a currency unknown to the archive, or a
// range for which the archive has no data.
var ErrCurrencyNotFound = errors.New("currency not found in archive")

// ErrUnavailable reports any other non-success archive response.
var ErrUnavailable = errors.New("rate archive unavailable")

// Source fetches exchange rate series from the rate archive.
type Source interface {
	// FetchSeries returns rates for business days within [start, end]
	// inclusive, newest first.
	FetchSeries(ctx context.Context, currency string, start, end time.Time) ([]model.Rate, error)
	// FetchLatest returns the most recently published rate.
	FetchLatest(ctx context.Context, currency string) (model.Rate, error)
}
