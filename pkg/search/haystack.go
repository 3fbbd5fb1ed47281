package search

import (
	"maps"
	"slices"
	"strings"

	"github.com/JoshuaShepherd/movemental-templates/pkg/types"
)

const fieldSeparator = " \n "

// NormalizeQuery trims and lower-cases the raw search text.
func NormalizeQuery(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// Haystack is the lower-cased text searched for an entry: display name,
// summary, every facet value in facet name order and the tags. Fields are
// separated so a query cannot match across two of them by accident.
func Haystack(entry *types.CatalogEntry) string {
	var b strings.Builder
	b.WriteString(entry.DisplayName)
	b.WriteString(fieldSeparator)
	b.WriteString(entry.Summary)
	for _, name := range slices.Sorted(maps.Keys(entry.Facets)) {
		b.WriteString(fieldSeparator)
		b.WriteString(entry.Facets[name])
	}
	b.WriteString(fieldSeparator)
	b.WriteString(strings.Join(entry.Tags, " "))
	return strings.ToLower(b.String())
}

// Matches reports whether the normalized query is a contiguous substring of
// the entry's haystack. An empty query always matches.
func Matches(haystack, query string) bool {
	if query == "" {
		return true
	}
	return strings.Contains(haystack, query)
}
