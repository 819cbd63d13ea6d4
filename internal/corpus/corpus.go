// Package corpus turns on-disk link data into the raw page map consumed by
// graph.Build. A corpus is either a directory of HTML pages or an edge-list
// file.
package corpus

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/papapumpkin/linkrank/internal/graph"
)

// ErrEmptyCorpus is returned when a corpus yields no pages.
var ErrEmptyCorpus = errors.New("corpus: no pages found")

// PageExt is the file extension that marks a page in a crawled directory.
const PageExt = ".html"

// Load reads the corpus at path. A directory is crawled for HTML pages; any
// other file is parsed as an edge list.
func Load(path string) (map[graph.Page][]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("corpus: %w", err)
	}
	if info.IsDir() {
		return Crawl(path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("corpus: %w", err)
	}
	defer f.Close()
	return ParseEdgeList(f)
}

// Crawl parses every *.html file directly inside dir. Each file becomes a
// page named by its base name; its raw links are the href targets of its
// anchor tags, minus links to itself. Links to files outside the corpus are
// kept here and dropped by graph.Build.
func Crawl(dir string) (map[graph.Page][]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("corpus: reading %s: %w", dir, err)
	}

	pages := make(map[graph.Page][]string)
	for _, e := range entries {
		if e.IsDir() || !IsPage(e.Name()) {
			continue
		}
		links, err := parseFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		pages[graph.Page(e.Name())] = withoutSelf(links, e.Name())
	}
	if len(pages) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrEmptyCorpus, dir)
	}
	return pages, nil
}

// IsPage reports whether a file name is crawled as a page.
func IsPage(name string) bool {
	return strings.HasSuffix(name, PageExt) && len(name) > len(PageExt)
}

func parseFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("corpus: %w", err)
	}
	defer f.Close()

	links, err := ExtractLinks(f)
	if err != nil {
		return nil, fmt.Errorf("corpus: parsing %s: %w", path, err)
	}
	return links, nil
}

// withoutSelf returns the distinct links other than self, sorted.
func withoutSelf(links []string, self string) []string {
	seen := make(map[string]bool, len(links))
	out := make([]string, 0, len(links))
	for _, l := range links {
		if l == self || seen[l] {
			continue
		}
		seen[l] = true
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}
