// Package distribution computes change distributions for currency pairs.
package distribution

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/azielinski/nbpstat/internal/model"
	"github.com/azielinski/nbpstat/internal/nbp"
	"github.com/azielinski/nbpstat/internal/period"
)

// Service orchestrates the distribution path: per-currency fetching,
// date alignment, and first differences.
type Service struct {
	source       nbp.Source
	minDate      time.Time
	maxSpanDays  int
	homeCurrency string
}

// NewService builds a distribution service around a rate source.
func NewService(source nbp.Source, settings model.Settings) *Service {
	return &Service{
		source:       source,
		minDate:      settings.MinDate,
		maxSpanDays:  settings.MaxSpanDays,
		homeCurrency: settings.HomeCurrency,
	}
}

// Distribute computes the day-over-day changes of the ratio series for a
// currency pair over the period ending at anchor. A side equal to the home
// currency is synthesized as the unit value instead of fetched. Unlike the
// analysis path, each fetched series is re-sorted ascending by date.
func (s *Service) Distribute(ctx context.Context, currencyA, currencyB, token string, anchor time.Time) (model.DistributionResult, error) {
	startDate, err := period.StartDate(anchor, token, s.minDate)
	if err != nil {
		return model.DistributionResult{}, err
	}

	ratesA, err := s.fetchOrHome(ctx, currencyA, startDate, anchor)
	if err != nil {
		return model.DistributionResult{}, err
	}
	ratesB, err := s.fetchOrHome(ctx, currencyB, startDate, anchor)
	if err != nil {
		return model.DistributionResult{}, err
	}

	pair := fmt.Sprintf("%s/%s", strings.ToUpper(currencyA), strings.ToUpper(currencyB))
	ratios := alignRatios(ratesA, ratesB)
	if len(ratios) < 2 {
		return model.DistributionResult{}, fmt.Errorf("%w: fewer than two aligned points for %s", model.ErrInsufficientData, pair)
	}

	changes := make([]float64, 0, len(ratios)-1)
	for i := 1; i < len(ratios); i++ {
		changes = append(changes, ratios[i]-ratios[i-1])
	}

	return model.DistributionResult{
		Pair:      pair,
		StartDate: startDate,
		EndDate:   anchor,
		Changes:   changes,
	}, nil
}

// fetchOrHome returns nil for the home currency (its rate is the unit by
// definition and not retrievable), otherwise the concatenated sub-range
// series sorted ascending by date.
func (s *Service) fetchOrHome(ctx context.Context, currency string, start, end time.Time) ([]model.Rate, error) {
	if strings.EqualFold(currency, s.homeCurrency) {
		return nil, nil
	}
	var rates []model.Rate
	for _, r := range period.SplitRange(start, end, s.maxSpanDays) {
		chunk, err := s.source.FetchSeries(ctx, currency, r.Start, r.End)
		if err != nil {
			return nil, err
		}
		rates = append(rates, chunk...)
	}
	sort.Slice(rates, func(i, j int) bool { return rates[i].Date.Before(rates[j].Date) })
	return rates, nil
}

// alignRatios merges two rate series into per-date ratios. With both sides
// present only dates in both series contribute, sorted ascending; with one
// side absent (home currency) the other is quoted against the unit value.
// Both sides absent yields an empty series.
func alignRatios(ratesA, ratesB []model.Rate) []float64 {
	switch {
	case len(ratesA) > 0 && len(ratesB) > 0:
		byDateA := make(map[time.Time]float64, len(ratesA))
		for _, r := range ratesA {
			byDateA[r.Date] = r.Value
		}
		byDateB := make(map[time.Time]float64, len(ratesB))
		for _, r := range ratesB {
			byDateB[r.Date] = r.Value
		}
		shared := make([]time.Time, 0, len(byDateA))
		for d := range byDateA {
			if _, ok := byDateB[d]; ok {
				shared = append(shared, d)
			}
		}
		sort.Slice(shared, func(i, j int) bool { return shared[i].Before(shared[j]) })
		ratios := make([]float64, len(shared))
		for i, d := range shared {
			ratios[i] = byDateA[d] / byDateB[d]
		}
		return ratios
	case len(ratesB) > 0:
		ratios := make([]float64, len(ratesB))
		for i, r := range ratesB {
			ratios[i] = 1.0 / r.Value
		}
		return ratios
	case len(ratesA) > 0:
		ratios := make([]float64, len(ratesA))
		for i, r := range ratesA {
			ratios[i] = r.Value
		}
		return ratios
	default:
		return nil
	}
}
