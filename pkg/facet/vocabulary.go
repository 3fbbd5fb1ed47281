package facet

import (
	"cmp"
	"slices"

	"github.com/JoshuaShepherd/movemental-templates/pkg/types"
)

// Vocabulary is the ordered set of legal values for one facet, with the All
// wildcard as its first member.
type Vocabulary []string

// Derive scans the entries in ascending rank order and collects every distinct
// value of the facet the first time it is seen.
func Derive(entries []types.CatalogEntry, facet string) Vocabulary {
	ordered := slices.Clone(entries)
	slices.SortStableFunc(ordered, func(a, b types.CatalogEntry) int {
		return cmp.Compare(a.Rank, b.Rank)
	})
	seen := make(map[string]struct{})
	ret := Vocabulary{types.All}
	for i := range ordered {
		value, ok := ordered[i].FacetValue(facet)
		if !ok {
			continue
		}
		if _, found := seen[value]; found {
			continue
		}
		seen[value] = struct{}{}
		ret = append(ret, value)
	}
	return ret
}

// Declared builds a vocabulary from an editorial order. Duplicates keep their
// first position.
func Declared(values ...string) Vocabulary {
	ret := make(Vocabulary, 0, len(values)+1)
	ret = append(ret, types.All)
	seen := map[string]struct{}{types.All: {}}
	for _, v := range values {
		if _, found := seen[v]; found {
			continue
		}
		seen[v] = struct{}{}
		ret = append(ret, v)
	}
	return ret
}

// Values returns the members without the wildcard.
func (v Vocabulary) Values() []string {
	if len(v) == 0 {
		return []string{}
	}
	return slices.Clone(v[1:])
}

// All returns every member, the wildcard first.
func (v Vocabulary) All() []string {
	return slices.Clone(v)
}

func (v Vocabulary) Contains(value string) bool {
	return slices.Contains(v, value)
}
