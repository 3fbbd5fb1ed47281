package facet

import (
	"github.com/JoshuaShepherd/movemental-templates/pkg/search"
	"github.com/JoshuaShepherd/movemental-templates/pkg/types"
)

// KeyFieldResult holds the number of matching entries per value. The All
// wildcard carries the total for the facet.
type KeyFieldResult struct {
	Name     string         `json:"name"`
	Selected string         `json:"selected"`
	Values   map[string]int `json:"values"`
}

// Counts computes, for each facet in the schema, how many entries would match
// each value if that facet's own selection were All. Every other constraint of
// the state is kept. A nil matcher builds haystacks on the fly.
func Counts(entries []types.CatalogEntry, state types.QueryState, fields map[string]KeyField, vocabularies map[string]Vocabulary, matcher *search.Matcher) map[string]KeyFieldResult {
	ret := make(map[string]KeyFieldResult, len(vocabularies))
	for name, vocabulary := range vocabularies {
		field, ok := fields[name]
		if !ok {
			field = NewKeyField(name, entries)
		}
		matching := MakeIdList(matcher.Filter(entries, state.WithOut(name)))
		selected := types.All
		if v, ok := state.SelectedFacets[name]; ok && v != "" {
			selected = v
		}
		r := KeyFieldResult{
			Name:     name,
			Selected: selected,
			Values:   make(map[string]int, len(vocabulary)),
		}
		r.Values[types.All] = len(matching)
		for _, value := range vocabulary.Values() {
			r.Values[value] = field.Match(value).IntersectionLen(matching)
		}
		ret[name] = r
	}
	return ret
}
