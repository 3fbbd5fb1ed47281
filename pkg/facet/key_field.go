package facet

import "github.com/JoshuaShepherd/movemental-templates/pkg/types"

type IdList map[string]struct{}

func (l IdList) Add(id string) {
	l[id] = struct{}{}
}

func (l IdList) IntersectionLen(other IdList) int {
	a, b := l, other
	if len(b) < len(a) {
		a, b = b, a
	}
	count := 0
	for id := range a {
		if _, ok := b[id]; ok {
			count++
		}
	}
	return count
}

func MakeIdList(entries []types.CatalogEntry) IdList {
	ret := make(IdList, len(entries))
	for i := range entries {
		ret.Add(entries[i].Id)
	}
	return ret
}

// KeyField maps every value of one facet to the ids carrying it.
type KeyField struct {
	Name string
	Keys map[string]IdList
}

func EmptyKeyField(name string) KeyField {
	return KeyField{
		Name: name,
		Keys: map[string]IdList{},
	}
}

func NewKeyField(name string, entries []types.CatalogEntry) KeyField {
	f := EmptyKeyField(name)
	for i := range entries {
		f.AddValueLink(&entries[i])
	}
	return f
}

func (f KeyField) AddValueLink(entry *types.CatalogEntry) bool {
	value, ok := entry.FacetValue(f.Name)
	if !ok {
		return false
	}
	if k, ok := f.Keys[value]; ok {
		k.Add(entry.Id)
	} else {
		f.Keys[value] = IdList{entry.Id: struct{}{}}
	}
	return true
}

func (f KeyField) Match(value string) IdList {
	if ids, ok := f.Keys[value]; ok {
		return ids
	}
	return IdList{}
}

