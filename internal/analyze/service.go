package analyze

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/azielinski/nbpstat/internal/model"
	"github.com/azielinski/nbpstat/internal/nbp"
	"github.com/azielinski/nbpstat/internal/period"
)

// Service orchestrates the analysis path: period resolution, chunked
// fetching, and statistics.
type Service struct {
	source      nbp.Source
	minDate     time.Time
	maxSpanDays int
}

// NewService builds an analysis service around a rate source.
func NewService(source nbp.Source, settings model.Settings) *Service {
	return &Service{
		source:      source,
		minDate:     settings.MinDate,
		maxSpanDays: settings.MaxSpanDays,
	}
}

// Analyze computes statistics for one currency over the period ending at
// anchor. Sub-range fetches run sequentially and the combined series keeps
// fetched order; the whole request aborts on the first fetch failure.
func (s *Service) Analyze(ctx context.Context, currency, token string, anchor time.Time) (model.AnalysisResult, error) {
	startDate, err := period.StartDate(anchor, token, s.minDate)
	if err != nil {
		return model.AnalysisResult{}, err
	}

	var rates []model.Rate
	for _, r := range period.SplitRange(startDate, anchor, s.maxSpanDays) {
		chunk, err := s.source.FetchSeries(ctx, currency, r.Start, r.End)
		if err != nil {
			return model.AnalysisResult{}, err
		}
		rates = append(rates, chunk...)
	}

	if len(rates) < 2 {
		return model.AnalysisResult{}, fmt.Errorf("%w for %s over %s", model.ErrInsufficientData, strings.ToUpper(currency), token)
	}

	values := make([]float64, len(rates))
	for i, r := range rates {
		values[i] = r.Value
	}

	stdDev := StdDev(values)
	return model.AnalysisResult{
		Currency:  strings.ToUpper(currency),
		StartDate: startDate,
		EndDate:   anchor,
		Values:    values,
		Median:    Median(values),
		Modes:     Modes(values),
		StdDev:    stdDev,
		// IEEE-754 quotient: a zero mean yields Inf rather than an error.
		CoefficientOfVariation: stdDev / Mean(values),
		Sessions:               CountSessions(values),
	}, nil
}
