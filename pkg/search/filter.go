package search

import "github.com/JoshuaShepherd/movemental-templates/pkg/types"

// Matcher keeps precomputed haystacks for a fixed set of entries.
type Matcher struct {
	haystacks map[string]string
}

func NewMatcher(entries []types.CatalogEntry) *Matcher {
	m := &Matcher{
		haystacks: make(map[string]string, len(entries)),
	}
	for i := range entries {
		m.haystacks[entries[i].Id] = Haystack(&entries[i])
	}
	return m
}

func (m *Matcher) Haystack(entry *types.CatalogEntry) string {
	if m != nil {
		if h, ok := m.haystacks[entry.Id]; ok {
			return h
		}
	}
	return Haystack(entry)
}

// Filter keeps the entries that pass every active facet selection and the
// search text, in their input order. It never fails, a filter matching
// nothing returns an empty slice.
func (m *Matcher) Filter(entries []types.CatalogEntry, state types.QueryState) []types.CatalogEntry {
	active := state.ActiveFacets()
	query := NormalizeQuery(state.SearchText)
	ret := make([]types.CatalogEntry, 0, len(entries))
	for i := range entries {
		if !matchesFacets(&entries[i], active, state.SelectedFacets) {
			continue
		}
		if !Matches(m.Haystack(&entries[i]), query) {
			continue
		}
		ret = append(ret, entries[i])
	}
	return ret
}

func Filter(entries []types.CatalogEntry, state types.QueryState) []types.CatalogEntry {
	var m *Matcher
	return m.Filter(entries, state)
}

func matchesFacets(entry *types.CatalogEntry, active []string, selected map[string]string) bool {
	for _, name := range active {
		value, ok := entry.FacetValue(name)
		if !ok || value != selected[name] {
			return false
		}
	}
	return true
}
