package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/azielinski/nbpstat/internal/distribution"
	"github.com/azielinski/nbpstat/internal/model"
)

// Histogram prints a vertical ASCII frequency histogram of a change
// distribution: bars top-down, an x-axis, numbered bins, and a two-column
// legend mapping bin numbers to their [low, high) ranges.
func Histogram(w io.Writer, result model.DistributionResult, hist distribution.Histogram) error {
	if len(result.Changes) == 0 || len(hist.Bins) == 0 {
		_, err := fmt.Fprintln(w, "No data to display.")
		return err
	}

	separator := strings.Repeat("-", separatorWidth())
	if _, err := fmt.Fprintf(w, "Distribution for %s (%s - %s)\n",
		result.Pair,
		result.StartDate.Format(dateLayout),
		result.EndDate.Format(dateLayout),
	); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, "Y-axis: Frequency (days) | X-axis: Change bins"); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, separator); err != nil {
		return err
	}

	for row := hist.MaxCount(); row > 0; row-- {
		var line strings.Builder
		fmt.Fprintf(&line, "%3d | ", row)
		for _, bin := range hist.Bins {
			if bin.Count >= row {
				line.WriteString(" #### ")
			} else {
				line.WriteString("      ")
			}
		}
		if _, err := fmt.Fprintln(w, line.String()); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintln(w, "    "+strings.Repeat("+-----", len(hist.Bins))+"+"); err != nil {
		return err
	}
	var labels strings.Builder
	labels.WriteString("     ")
	for i := range hist.Bins {
		fmt.Fprintf(&labels, " (%-2d) ", i+1)
	}
	if _, err := fmt.Fprintln(w, labels.String()); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, separator); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "Legend (Ranges in %s):\n", quoteUnit(result.Pair)); err != nil {
		return err
	}
	half := (len(hist.Bins) + 1) / 2
	for i := 0; i < half; i++ {
		left := binLabel(i, hist.Bins[i])
		if i+half < len(hist.Bins) {
			right := binLabel(i+half, hist.Bins[i+half])
			if _, err := fmt.Fprintf(w, "%-35s | %s\n", left, right); err != nil {
				return err
			}
			continue
		}
		if _, err := fmt.Fprintln(w, left); err != nil {
			return err
		}
	}
	return nil
}

func binLabel(idx int, bin distribution.Bin) string {
	return fmt.Sprintf("(%-2d): [%+.4f, %+.4f)", idx+1, bin.Low, bin.High)
}

func quoteUnit(pair string) string {
	if _, unit, ok := strings.Cut(pair, "/"); ok && unit != "" {
		return unit
	}
	return pair
}
