package command

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/azielinski/nbpstat/internal/analyze"
	"github.com/azielinski/nbpstat/internal/distribution"
	"github.com/azielinski/nbpstat/internal/model"
	"github.com/azielinski/nbpstat/internal/nbp"
	"github.com/azielinski/nbpstat/internal/render"
	"github.com/azielinski/nbpstat/internal/store"
)

// Executor runs parsed requests against the domain services and renders
// the results. The same executor backs the REPL and the one-shot
// subcommands.
type Executor struct {
	Analysis     *analyze.Service
	Distribution *distribution.Service
	Source       nbp.Source
	History      *store.Store // optional
	Settings     model.Settings
	Now          func() time.Time
}

func (e *Executor) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

// Run parses one input line and executes it, returning the rendered
// output. Errors from the domain services propagate unmodified.
func (e *Executor) Run(ctx context.Context, line string) (string, error) {
	req, err := Parse(line)
	if err != nil {
		return "", err
	}
	switch r := req.(type) {
	case AnalyzeRequest:
		return e.Analyze(ctx, r.Currency, r.Period, r.Start)
	case DistributionRequest:
		return e.Distribute(ctx, r.CurrencyA, r.CurrencyB, r.Period, r.Start)
	case RateRequest:
		return e.Rate(ctx, r.Currency)
	case HistoryRequest:
		return e.RecentHistory(ctx, r.Limit)
	default:
		return "", fmt.Errorf("unhandled request type %T", req)
	}
}

// Analyze runs single-currency statistics and renders them.
func (e *Executor) Analyze(ctx context.Context, currency, token, start string) (string, error) {
	anchor, err := ResolveAnchor(start, e.Settings.MinDate, e.now())
	if err != nil {
		return "", err
	}
	result, err := e.Analysis.Analyze(ctx, currency, token, anchor)
	if err != nil {
		return "", err
	}
	e.record(ctx, model.HistoryEntry{
		Kind:      "analyze",
		Subject:   result.Currency,
		Period:    token,
		StartDate: result.StartDate,
		EndDate:   result.EndDate,
		Points:    len(result.Values),
	})

	var buf strings.Builder
	if err := render.Analysis(&buf, result); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Distribute runs a pair change distribution and renders the histogram.
func (e *Executor) Distribute(ctx context.Context, currencyA, currencyB, token, start string) (string, error) {
	anchor, err := ResolveAnchor(start, e.Settings.MinDate, e.now())
	if err != nil {
		return "", err
	}
	result, err := e.Distribution.Distribute(ctx, currencyA, currencyB, token, anchor)
	if err != nil {
		return "", err
	}
	e.record(ctx, model.HistoryEntry{
		Kind:      "distribution",
		Subject:   result.Pair,
		Period:    token,
		StartDate: result.StartDate,
		EndDate:   result.EndDate,
		Points:    len(result.Changes),
	})

	spanDays := int(result.EndDate.Sub(result.StartDate).Hours() / 24)
	hist := distribution.Build(result.Changes, distribution.BinCount(spanDays))

	var buf strings.Builder
	if err := render.Histogram(&buf, result, hist); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Rate fetches and renders the latest published rate for one currency.
func (e *Executor) Rate(ctx context.Context, currency string) (string, error) {
	rate, err := e.Source.FetchLatest(ctx, currency)
	if err != nil {
		return "", err
	}
	var buf strings.Builder
	if err := render.Rate(&buf, currency, rate, e.Settings.HomeCurrency); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RecentHistory renders the most recent request summaries.
func (e *Executor) RecentHistory(ctx context.Context, limit int) (string, error) {
	var entries []model.HistoryEntry
	if e.History != nil {
		var err error
		entries, err = e.History.ListRecent(ctx, limit)
		if err != nil {
			return "", err
		}
	}
	var buf strings.Builder
	if err := render.History(&buf, entries); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// record persists a request summary. History is best effort: a storage
// failure never fails the request that produced the result.
func (e *Executor) record(ctx context.Context, entry model.HistoryEntry) {
	if e.History == nil {
		return
	}
	entry.CreatedAt = e.now()
	_, _ = e.History.InsertEntry(ctx, entry)
}
