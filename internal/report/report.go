// Package report renders rank estimates for people and for other tools.
package report

import (
	"fmt"
	"sort"

	"github.com/papapumpkin/linkrank/internal/rank"
)

// Report is one estimate ready for display.
type Report struct {
	Title  string            // e.g. "PageRank Results from Sampling (n = 10000)"
	Method string            // estimator name, e.g. "sample"
	Ranks  rank.Distribution // one value per page
	Meta   map[string]string // free-form run details: seed, iterations, ...
}

// Format renders a set of reports into a single string.
type Format interface {
	Render(reports []Report) (string, error)
}

// FormatByName returns the Format implementation for the given name.
// Supported names: plain, table, json, toml.
func FormatByName(name string) (Format, error) {
	switch name {
	case "plain":
		return &PlainFormat{}, nil
	case "table":
		return &TableFormat{}, nil
	case "json":
		return &JSONFormat{}, nil
	case "toml":
		return &TOMLFormat{}, nil
	default:
		return nil, fmt.Errorf("unknown report format: %q", name)
	}
}

// FormatNames returns the list of all supported format names.
func FormatNames() []string {
	return []string{"plain", "table", "json", "toml"}
}

// sortedKeys returns the keys of m in order.
func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
