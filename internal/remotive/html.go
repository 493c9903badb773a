package remotive

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// FlattenHTML reduces a Remotive job description (HTML) to plain text so
// keyword matching sees words, not markup. Whitespace collapses to single
// spaces. Input that fails to parse is returned trimmed as-is; goquery
// treats almost anything as HTML, so that path is rare.
func FlattenHTML(raw string) string {
	if raw == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return strings.TrimSpace(raw)
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}
