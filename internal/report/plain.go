package report

import (
	"fmt"
	"strings"
)

// PlainFormat prints each report as a title, its metadata as one
// "  (k=v ...)" line when present, then one "  page: value" line per page in
// page-name order, values to four decimal places.
type PlainFormat struct{}

// Render produces the plain-text listing.
func (f *PlainFormat) Render(reports []Report) (string, error) {
	var b strings.Builder
	for i, r := range reports {
		if i > 0 {
			b.WriteByte('\n')
		}
		if r.Title != "" {
			b.WriteString(r.Title)
			b.WriteByte('\n')
		}
		if len(r.Meta) > 0 {
			pairs := make([]string, 0, len(r.Meta))
			for _, k := range sortedKeys(r.Meta) {
				pairs = append(pairs, k+"="+r.Meta[k])
			}
			fmt.Fprintf(&b, "  (%s)\n", strings.Join(pairs, " "))
		}
		for _, e := range r.Ranks.ByPage() {
			fmt.Fprintf(&b, "  %s: %.4f\n", e.Page, e.Value)
		}
	}
	return b.String(), nil
}
