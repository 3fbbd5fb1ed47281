package facet

import (
	"maps"
	"slices"

	"github.com/JoshuaShepherd/movemental-templates/pkg/types"
)

// Field declares a categorical facet. When Values is empty the vocabulary is
// derived from the catalog.
type Field struct {
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Values      []string `json:"values,omitempty" yaml:"values,omitempty"`
}

func (f *Field) Vocabulary(entries []types.CatalogEntry) Vocabulary {
	if len(f.Values) > 0 {
		return Declared(f.Values...)
	}
	return Derive(entries, f.Name)
}

type Schema []Field

func (s Schema) Names() []string {
	ret := make([]string, len(s))
	for i, f := range s {
		ret[i] = f.Name
	}
	return ret
}

func (s Schema) Has(name string) bool {
	for _, f := range s {
		if f.Name == name {
			return true
		}
	}
	return false
}

func (s Schema) Vocabularies(entries []types.CatalogEntry) map[string]Vocabulary {
	ret := make(map[string]Vocabulary, len(s))
	for i := range s {
		ret[s[i].Name] = s[i].Vocabulary(entries)
	}
	return ret
}

// Orphan is a facet value that has no member in the facet's vocabulary.
type Orphan struct {
	EntryId string `json:"id"`
	Facet   string `json:"facet"`
	Value   string `json:"value"`
}

// Orphans lists entries whose facet values cannot be selected. They are still
// filterable under the literal value, no button exists for them.
func Orphans(entries []types.CatalogEntry, vocabularies map[string]Vocabulary) []Orphan {
	ret := []Orphan{}
	names := slices.Sorted(maps.Keys(vocabularies))
	for i := range entries {
		for _, facet := range names {
			value, ok := entries[i].FacetValue(facet)
			if !ok || vocabularies[facet].Contains(value) {
				continue
			}
			ret = append(ret, Orphan{EntryId: entries[i].Id, Facet: facet, Value: value})
		}
	}
	return ret
}
