package corpus

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/papapumpkin/linkrank/internal/graph"
)

// ParseEdgeList reads a link graph with one edge per line:
//
//	# comment
//	// comment
//	index.html about.html
//	about.html,index.html
//	orphan.html
//
// A line is "from to" or "from,to"; a line with a single name declares a
// page without adding a link. Both endpoints of an edge become pages, so a
// target never listed as a source is a dangling page. Blank and comment
// lines are skipped.
func ParseEdgeList(r io.Reader) (map[graph.Page][]string, error) {
	pages := make(map[graph.Page][]string)
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		from, to, skip, err := parseEdge(sc.Text())
		if err != nil {
			return nil, fmt.Errorf("corpus: line %d: %w", lineNo, err)
		}
		if skip {
			continue
		}
		src := graph.Page(from)
		if _, ok := pages[src]; !ok {
			pages[src] = nil
		}
		if to == "" {
			continue
		}
		pages[src] = append(pages[src], to)
		if _, ok := pages[graph.Page(to)]; !ok {
			pages[graph.Page(to)] = nil
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("corpus: reading edge list: %w", err)
	}
	if len(pages) == 0 {
		return nil, ErrEmptyCorpus
	}
	return pages, nil
}

// parseEdge splits one edge-list line. skip is true for blank and comment
// lines; to is empty for a single-page declaration.
func parseEdge(line string) (from, to string, skip bool, err error) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
		return "", "", true, nil
	}

	fields := strings.FieldsFunc(line, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	switch len(fields) {
	case 1:
		return fields[0], "", false, nil
	case 2:
		return fields[0], fields[1], false, nil
	default:
		return "", "", false, fmt.Errorf("want \"from to\" or \"from,to\", got %q", line)
	}
}
