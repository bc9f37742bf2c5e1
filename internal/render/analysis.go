package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/azielinski/nbpstat/internal/model"
)

const dateLayout = "2006-01-02"

// Analysis prints the statistics of an analysis result as an aligned
// key/value table, followed by a sparkline of the rate series.
func Analysis(w io.Writer, result model.AnalysisResult) error {
	if _, err := fmt.Fprintf(w, "Analysis for %s (%s - %s)\n",
		result.Currency,
		result.StartDate.Format(dateLayout),
		result.EndDate.Format(dateLayout),
	); err != nil {
		return err
	}

	modes := "no dominant value"
	if len(result.Modes) > 0 {
		parts := make([]string, len(result.Modes))
		for i, m := range result.Modes {
			parts[i] = fmt.Sprintf("%.4f", m)
		}
		modes = strings.Join(parts, ", ")
	}

	rows := [][]string{
		{"Median", fmt.Sprintf("%.4f", result.Median)},
		{"Mode", modes},
		{"Std deviation", fmt.Sprintf("%.4f", result.StdDev)},
		{"Coef. of variation", fmt.Sprintf("%.4f", result.CoefficientOfVariation)},
		{"Sessions increased", fmt.Sprintf("%d", result.Sessions.Increased)},
		{"Sessions decreased", fmt.Sprintf("%d", result.Sessions.Decreased)},
		{"Sessions unchanged", fmt.Sprintf("%d", result.Sessions.Unchanged)},
	}
	for _, line := range formatTable(nil, rows, map[int]bool{1: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}

	if len(result.Values) > 0 {
		// Values arrive newest first; flip them so time flows left to right.
		chronological := make([]float64, len(result.Values))
		for i, v := range result.Values {
			chronological[len(result.Values)-1-i] = v
		}
		if _, err := fmt.Fprintf(w, "Rates (%d points): %s\n", len(result.Values), Sparkline(chronological)); err != nil {
			return err
		}
	}
	return nil
}

// Rate prints a single latest-rate lookup.
func Rate(w io.Writer, currency string, rate model.Rate, home string) error {
	_, err := fmt.Fprintf(w, "1 %s = %.4f %s (published %s)\n",
		strings.ToUpper(currency), rate.Value, home, rate.Date.Format(dateLayout))
	return err
}

// History prints persisted request summaries as a table.
func History(w io.Writer, entries []model.HistoryEntry) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "No history yet.")
		return err
	}
	headers := []string{"When", "Kind", "Subject", "Period", "Window", "Points"}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			e.CreatedAt.Format("2006-01-02 15:04"),
			e.Kind,
			e.Subject,
			e.Period,
			fmt.Sprintf("%s - %s", e.StartDate.Format(dateLayout), e.EndDate.Format(dateLayout)),
			fmt.Sprintf("%d", e.Points),
		})
	}
	for _, line := range formatTable(headers, rows, map[int]bool{5: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
