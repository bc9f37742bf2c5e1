package distribution

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/azielinski/nbpstat/internal/model"
	"github.com/azielinski/nbpstat/internal/period"
)

var testSettings = model.Settings{
	MinDate:      model.Date(2002, time.January, 2),
	MaxSpanDays:  93,
	HomeCurrency: "PLN",
}

// pairSource serves injected per-currency series regardless of range, with
// consecutive dates starting at 2024-01-01, newest first.
type pairSource struct {
	data  map[string][]float64
	calls []string
}

func (p *pairSource) set(currency string, values []float64) {
	if p.data == nil {
		p.data = map[string][]float64{}
	}
	p.data[currency] = values
}

func (p *pairSource) FetchSeries(_ context.Context, currency string, _, _ time.Time) ([]model.Rate, error) {
	code := strings.ToUpper(currency)
	p.calls = append(p.calls, code)
	values := p.data[code]
	rates := make([]model.Rate, len(values))
	for i, v := range values {
		rates[len(values)-1-i] = model.Rate{Date: model.Date(2024, time.January, 1+i), Value: v}
	}
	return rates, nil
}

func (p *pairSource) FetchLatest(_ context.Context, currency string) (model.Rate, error) {
	values := p.data[strings.ToUpper(currency)]
	if len(values) == 0 {
		return model.Rate{}, errors.New("no data")
	}
	return model.Rate{Date: model.Date(2024, time.January, len(values)), Value: values[len(values)-1]}, nil
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestDistributePairChange(t *testing.T) {
	source := &pairSource{}
	source.set("USD", []float64{4.0, 4.4})
	source.set("EUR", []float64{2.0, 2.0})
	svc := NewService(source, testSettings)

	result, err := svc.Distribute(context.Background(), "USD", "EUR", period.OneWeek, model.Date(2024, time.January, 10))
	if err != nil {
		t.Fatalf("Distribute: %v", err)
	}
	if result.Pair != "USD/EUR" {
		t.Fatalf("pair = %q, want USD/EUR", result.Pair)
	}
	if len(result.Changes) != 1 {
		t.Fatalf("expected 1 change, got %d", len(result.Changes))
	}
	// 4.4/2.0 - 4.0/2.0 = 0.2 in ascending date order.
	if !approx(result.Changes[0], 0.2) {
		t.Fatalf("change = %v, want 0.2", result.Changes[0])
	}
}

func TestDistributeAgainstHomeCurrency(t *testing.T) {
	source := &pairSource{}
	source.set("USD", []float64{4.0, 4.1})
	svc := NewService(source, testSettings)

	result, err := svc.Distribute(context.Background(), "USD", "PLN", period.OneWeek, model.Date(2024, time.January, 10))
	if err != nil {
		t.Fatalf("Distribute: %v", err)
	}
	if result.Pair != "USD/PLN" {
		t.Fatalf("pair = %q, want USD/PLN", result.Pair)
	}
	if !approx(result.Changes[0], 0.1) {
		t.Fatalf("change = %v, want 0.1", result.Changes[0])
	}
	for _, call := range source.calls {
		if call == "PLN" {
			t.Fatal("home currency must not be fetched")
		}
	}
}

func TestDistributeHomeCurrencyFirst(t *testing.T) {
	source := &pairSource{}
	source.set("EUR", []float64{4.0, 5.0})
	svc := NewService(source, testSettings)

	result, err := svc.Distribute(context.Background(), "pln", "eur", period.OneWeek, model.Date(2024, time.January, 10))
	if err != nil {
		t.Fatalf("Distribute: %v", err)
	}
	// 1/5.0 - 1/4.0 = -0.05.
	if !approx(result.Changes[0], -0.05) {
		t.Fatalf("change = %v, want -0.05", result.Changes[0])
	}
}

func TestDistributeAlignsOnSharedDatesOnly(t *testing.T) {
	source := &pairSource{}
	// USD has three days, EUR only the first two: the third day must drop.
	source.set("USD", []float64{4.0, 4.2, 4.6})
	source.set("EUR", []float64{2.0, 2.0})
	svc := NewService(source, testSettings)

	result, err := svc.Distribute(context.Background(), "USD", "EUR", period.OneWeek, model.Date(2024, time.January, 10))
	if err != nil {
		t.Fatalf("Distribute: %v", err)
	}
	if len(result.Changes) != 1 {
		t.Fatalf("expected 1 change over 2 aligned points, got %d", len(result.Changes))
	}
	if !approx(result.Changes[0], 0.1) {
		t.Fatalf("change = %v, want 0.1", result.Changes[0])
	}
}

func TestDistributeInsufficientData(t *testing.T) {
	source := &pairSource{}
	source.set("USD", []float64{4.0})
	source.set("EUR", []float64{3.5})
	svc := NewService(source, testSettings)

	_, err := svc.Distribute(context.Background(), "USD", "EUR", period.OneWeek, model.Date(2024, time.January, 10))
	if !errors.Is(err, model.ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData, got %v", err)
	}
}

func TestDistributeBothSidesHomeCurrency(t *testing.T) {
	svc := NewService(&pairSource{}, testSettings)

	_, err := svc.Distribute(context.Background(), "PLN", "PLN", period.OneWeek, model.Date(2024, time.January, 10))
	if !errors.Is(err, model.ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData for PLN/PLN, got %v", err)
	}
}

func TestDistributeUnsupportedPeriod(t *testing.T) {
	svc := NewService(&pairSource{}, testSettings)

	_, err := svc.Distribute(context.Background(), "USD", "EUR", "fortnightly", model.Date(2024, time.January, 10))
	if !errors.Is(err, period.ErrUnsupportedPeriod) {
		t.Fatalf("expected ErrUnsupportedPeriod, got %v", err)
	}
}
