// Package highlight reanchors stored highlights onto article content.
//
// Anchoring is exact-substring matching of the stored quote, not offsets or
// DOM ranges: a quote that spans tag boundaries no longer matches, and a
// quote occurring several times binds to the first textual occurrence only.
// This is a known limitation of the scheme all stored highlights were created
// under, kept as-is.
package highlight

import (
	"html"
	"strings"

	"github.com/blackpirateapps/reader/internal/model"
)

// Apply wraps the first occurrence of each highlight's quote in a <mark>
// element carrying the note as metadata. Quotes that no longer occur in the
// content are skipped silently.
func Apply(content string, highlights []model.Highlight) string {
	for _, h := range highlights {
		if h.Quote == "" || !strings.Contains(content, h.Quote) {
			continue
		}
		mark := `<mark class="highlight" data-note="` + html.EscapeString(h.Note) + `">` + h.Quote + `</mark>`
		content = strings.Replace(content, h.Quote, mark, 1)
	}
	return content
}
