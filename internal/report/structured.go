package report

import (
	"encoding/json"
	"fmt"

	toml "github.com/pelletier/go-toml/v2"
)

// JSONFormat renders reports as indented JSON for other tools.
type JSONFormat struct{}

// TOMLFormat renders reports as TOML, one [[reports]] table per estimate.
type TOMLFormat struct{}

// document is the shared machine-readable layout of JSON and TOML output.
type document struct {
	Reports []entry `json:"reports" toml:"reports"`
}

type entry struct {
	Title  string            `json:"title,omitempty" toml:"title,omitempty"`
	Method string            `json:"method,omitempty" toml:"method,omitempty"`
	Sum    float64           `json:"sum" toml:"sum"`
	Meta   map[string]string `json:"meta,omitempty" toml:"meta,omitempty"`
	Ranks  []pageRank        `json:"ranks" toml:"ranks"`
}

type pageRank struct {
	Page string  `json:"page" toml:"page"`
	Rank float64 `json:"rank" toml:"rank"`
}

func newDocument(reports []Report) document {
	doc := document{Reports: make([]entry, len(reports))}
	for i, r := range reports {
		e := entry{
			Title:  r.Title,
			Method: r.Method,
			Sum:    r.Ranks.Sum(),
			Meta:   r.Meta,
			Ranks:  []pageRank{},
		}
		for _, pr := range r.Ranks.Sorted() {
			e.Ranks = append(e.Ranks, pageRank{Page: string(pr.Page), Rank: pr.Value})
		}
		doc.Reports[i] = e
	}
	return doc
}

// Render produces a JSON document with pages ordered by rank.
func (f *JSONFormat) Render(reports []Report) (string, error) {
	data, err := json.MarshalIndent(newDocument(reports), "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling JSON report: %w", err)
	}
	return string(data) + "\n", nil
}

// Render produces a TOML document with pages ordered by rank.
func (f *TOMLFormat) Render(reports []Report) (string, error) {
	data, err := toml.Marshal(newDocument(reports))
	if err != nil {
		return "", fmt.Errorf("marshaling TOML report: %w", err)
	}
	return string(data), nil
}
