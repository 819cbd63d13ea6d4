package report

import (
	"fmt"
	"strings"
)

// Difference is the largest per-page gap between two estimates.
type Difference struct {
	A, B    string // method names
	MaxDiff float64
}

// Differences compares every pair of reports, in input order.
func Differences(reports []Report) []Difference {
	var diffs []Difference
	for i := range reports {
		for j := i + 1; j < len(reports); j++ {
			diffs = append(diffs, Difference{
				A:       columnName(reports[i]),
				B:       columnName(reports[j]),
				MaxDiff: reports[i].Ranks.MaxDiff(reports[j].Ranks),
			})
		}
	}
	return diffs
}

// FormatDifferences renders one "a vs b: max |Δ| = x" line per pair.
func FormatDifferences(diffs []Difference) string {
	var b strings.Builder
	for _, d := range diffs {
		fmt.Fprintf(&b, "%s vs %s: max |Δ| = %.6f\n", d.A, d.B, d.MaxDiff)
	}
	return b.String()
}
