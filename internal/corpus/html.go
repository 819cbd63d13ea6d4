package corpus

import (
	"errors"
	"io"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ExtractLinks returns the href value of every <a> tag in the document, in
// document order. Anchors without an href are skipped; an empty href is
// returned as "". Malformed markup is tolerated the way browsers tolerate
// it; only read errors are reported.
func ExtractLinks(r io.Reader) ([]string, error) {
	z := html.NewTokenizer(r)
	var links []string
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if err := z.Err(); !errors.Is(err, io.EOF) {
				return nil, err
			}
			return links, nil
		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			if tok.DataAtom != atom.A {
				continue
			}
			for _, attr := range tok.Attr {
				if attr.Namespace == "" && attr.Key == "href" {
					links = append(links, attr.Val)
					break
				}
			}
		}
	}
}
