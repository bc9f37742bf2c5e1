package analyze

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/azielinski/nbpstat/internal/model"
	"github.com/azielinski/nbpstat/internal/period"
)

var testSettings = model.Settings{
	MinDate:     model.Date(2002, time.January, 2),
	MaxSpanDays: 93,
}

// fixtureSource returns a canned series for every sub-range and records
// the ranges it was asked for.
type fixtureSource struct {
	values []float64
	calls  []period.Range
	err    error
}

func (f *fixtureSource) FetchSeries(_ context.Context, _ string, start, end time.Time) ([]model.Rate, error) {
	f.calls = append(f.calls, period.Range{Start: start, End: end})
	if f.err != nil {
		return nil, f.err
	}
	rates := make([]model.Rate, len(f.values))
	for i, v := range f.values {
		// Newest first, per the source contract.
		rates[i] = model.Rate{Date: end.AddDate(0, 0, -i), Value: v}
	}
	return rates, nil
}

func (f *fixtureSource) FetchLatest(_ context.Context, _ string) (model.Rate, error) {
	if f.err != nil {
		return model.Rate{}, f.err
	}
	return model.Rate{Date: model.Date(2024, time.January, 10), Value: f.values[0]}, nil
}

func TestAnalyzeComputesFullResult(t *testing.T) {
	source := &fixtureSource{values: []float64{4.00, 4.11, 4.05, 4.05, 4.07, 4.15, 4.10, 4.12, 4.05, 4.08}}
	svc := NewService(source, testSettings)

	result, err := svc.Analyze(context.Background(), "usd", period.OneWeek, model.Date(2024, time.January, 10))
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if result.Currency != "USD" {
		t.Fatalf("currency = %q, want USD", result.Currency)
	}
	if !result.StartDate.Equal(model.Date(2024, time.January, 3)) {
		t.Fatalf("start = %s, want 2024-01-03", result.StartDate)
	}
	if !result.EndDate.Equal(model.Date(2024, time.January, 10)) {
		t.Fatalf("end = %s, want 2024-01-10", result.EndDate)
	}
	if result.Median != 4.075 {
		t.Fatalf("median = %v, want 4.075", result.Median)
	}
	if len(result.Modes) != 1 || result.Modes[0] != 4.05 {
		t.Fatalf("modes = %v, want [4.05]", result.Modes)
	}
	if result.StdDev <= 0 || result.CoefficientOfVariation <= 0 {
		t.Fatalf("dispersion not positive: %+v", result)
	}
	if result.Sessions.Increased != 5 || result.Sessions.Decreased != 3 || result.Sessions.Unchanged != 1 {
		t.Fatalf("sessions = %+v, want 5/3/1", result.Sessions)
	}
	if len(source.calls) != 1 {
		t.Fatalf("expected a single sub-range fetch, got %d", len(source.calls))
	}
}

func TestAnalyzeSplitsLongRanges(t *testing.T) {
	source := &fixtureSource{values: []float64{4.0, 4.1}}
	svc := NewService(source, testSettings)

	anchor := model.Date(2024, time.June, 10)
	result, err := svc.Analyze(context.Background(), "EUR", period.OneYear, anchor)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	// 2023-06-10..2024-06-10 is 367 days: four 93-day chunks.
	if len(source.calls) != 4 {
		t.Fatalf("expected 4 sub-range fetches, got %d", len(source.calls))
	}
	if !source.calls[0].Start.Equal(model.Date(2023, time.June, 10)) {
		t.Fatalf("first chunk starts at %s", source.calls[0].Start)
	}
	if !source.calls[3].End.Equal(anchor) {
		t.Fatalf("last chunk ends at %s, want %s", source.calls[3].End, anchor)
	}
	for i := 1; i < len(source.calls); i++ {
		wantStart := source.calls[i-1].End.AddDate(0, 0, 1)
		if !source.calls[i].Start.Equal(wantStart) {
			t.Fatalf("chunk %d starts at %s, want %s", i, source.calls[i].Start, wantStart)
		}
	}
	if len(result.Values) != 8 {
		t.Fatalf("expected concatenated values from all chunks, got %d", len(result.Values))
	}
}

func TestAnalyzeInsufficientData(t *testing.T) {
	source := &fixtureSource{values: []float64{4.0}}
	svc := NewService(source, testSettings)

	_, err := svc.Analyze(context.Background(), "USD", period.OneWeek, model.Date(2024, time.January, 10))
	if !errors.Is(err, model.ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData, got %v", err)
	}
}

func TestAnalyzeUnsupportedPeriod(t *testing.T) {
	svc := NewService(&fixtureSource{values: []float64{4.0, 4.1}}, testSettings)

	_, err := svc.Analyze(context.Background(), "USD", "1-decade", model.Date(2024, time.January, 10))
	if !errors.Is(err, period.ErrUnsupportedPeriod) {
		t.Fatalf("expected ErrUnsupportedPeriod, got %v", err)
	}
}

func TestAnalyzePropagatesSourceErrors(t *testing.T) {
	sourceErr := errors.New("boom")
	source := &fixtureSource{err: sourceErr}
	svc := NewService(source, testSettings)

	_, err := svc.Analyze(context.Background(), "USD", period.OneWeek, model.Date(2024, time.January, 10))
	if !errors.Is(err, sourceErr) {
		t.Fatalf("expected source error to propagate unchanged, got %v", err)
	}
}
