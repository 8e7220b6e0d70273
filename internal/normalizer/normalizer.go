// Package normalizer strips presentation markup from fetched law pages.
package normalizer

import (
	"html"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Normalizer removes non-content elements and disables outbound navigation
// in law page markup. The parser is permissive: malformed input is handled
// best-effort and never produces an error.
type Normalizer struct{}

// New creates a Normalizer.
func New() *Normalizer { return &Normalizer{} }

// Normalize parses the markup, drops images, scripts, styles and stylesheet
// links, strips the target from every anchor, then serializes back and
// decodes HTML entities so the stored text renders without double-encoding.
func (n *Normalizer) Normalize(markup string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return markup
	}

	doc.Find("img, script, style, link[rel=stylesheet]").Remove()
	doc.Find("a").RemoveAttr("href")

	out, err := doc.Html()
	if err != nil {
		return markup
	}
	return html.UnescapeString(out)
}
