package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/crudforge/internal/contract"
	"github.com/alexanderramin/crudforge/internal/domain"
)

// FormatSearch renders fuzzy search hits as a table, best match first.
func FormatSearch(kind domain.TreeKind, query string, hits []contract.SearchHit) string {
	var b strings.Builder
	b.WriteString(Header(fmt.Sprintf("search %s: %q", kind, query)))
	b.WriteString("\n")

	if len(hits) == 0 {
		b.WriteString(Dim("No matches."))
		b.WriteString("\n")
		return b.String()
	}

	rows := make([][]string, 0, len(hits))
	for _, h := range hits {
		path := strings.Join(h.Path, " › ")
		if path == "" {
			path = "-"
		}
		rows = append(rows, []string{
			Dim("#" + h.Node.ID),
			Highlight(h.Node.Name, h.MatchedIndexes),
			KindStyle(h.Node.Kind).Render(string(h.Node.Kind)),
			Dim(path),
		})
	}
	b.WriteString(RenderTable([]string{"ID", "NAME", "KIND", "PATH"}, rows))
	return b.String()
}

// Highlight renders the characters at the given byte offsets of s in bold
// yellow.
func Highlight(s string, offsets []int) string {
	if len(offsets) == 0 {
		return s
	}
	hit := make(map[int]bool, len(offsets))
	for _, o := range offsets {
		hit[o] = true
	}
	var b strings.Builder
	for i, r := range s {
		if hit[i] {
			b.WriteString(StyleYellowBold.Render(string(r)))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
