package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/papapumpkin/linkrank/internal/graph"
)

var (
	styleTitle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	styleHeader = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	styleCell   = lipgloss.NewStyle().Padding(0, 1)
	styleNumber = styleCell.Align(lipgloss.Right)
	styleMeta   = lipgloss.NewStyle().Faint(true)
)

// TableFormat renders every report as a column of one bordered table, pages
// ordered by the first report's rank (highest first). It is the natural way
// to put several estimates side by side.
type TableFormat struct{}

// Render produces the table with a title line and a faint metadata footer.
func (f *TableFormat) Render(reports []Report) (string, error) {
	if len(reports) == 0 {
		return "", nil
	}

	headers := []string{"#", "page"}
	var titles []string
	for _, r := range reports {
		headers = append(headers, columnName(r))
		if r.Title != "" {
			titles = append(titles, r.Title)
		}
	}

	var rows [][]string
	for i, e := range reports[0].Ranks.Sorted() {
		row := []string{strconv.Itoa(i + 1), string(e.Page)}
		for _, r := range reports {
			row = append(row, formatValue(r.Ranks, e.Page))
		}
		rows = append(rows, row)
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return styleHeader
			case col == 1:
				return styleCell
			default:
				return styleNumber
			}
		})

	var b strings.Builder
	if len(titles) > 0 {
		b.WriteString(styleTitle.Render(strings.Join(titles, " / ")))
		b.WriteByte('\n')
	}
	b.WriteString(t.Render())
	b.WriteByte('\n')
	for _, r := range reports {
		if len(r.Meta) == 0 {
			continue
		}
		parts := make([]string, 0, len(r.Meta))
		for _, k := range sortedKeys(r.Meta) {
			parts = append(parts, k+"="+r.Meta[k])
		}
		b.WriteString(styleMeta.Render(columnName(r) + ": " + strings.Join(parts, " ")))
		b.WriteByte('\n')
	}
	return b.String(), nil
}

func columnName(r Report) string {
	if r.Method != "" {
		return r.Method
	}
	return "rank"
}

func formatValue(d map[graph.Page]float64, p graph.Page) string {
	v, ok := d[p]
	if !ok {
		return "-"
	}
	return fmt.Sprintf("%.4f", v)
}
