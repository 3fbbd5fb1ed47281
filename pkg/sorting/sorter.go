package sorting

import (
	"bytes"
	"cmp"
	"fmt"
	"slices"

	"github.com/JoshuaShepherd/movemental-templates/pkg/types"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

type sortItem struct {
	entry *types.CatalogEntry
	// collation key of the display name, only set for sorters that need it
	nameKey []byte
}

// Sorter is a named comparator with its tie-break. Entries that compare equal
// under both keep their input order.
type Sorter struct {
	Key         types.SortKey `json:"key"`
	Description string        `json:"description"`
	collation   bool
	compare     func(a, b *sortItem) int
}

var sorters = map[types.SortKey]Sorter{
	types.ScoreDesc: {
		Key:         types.ScoreDesc,
		Description: "Highest score first",
		compare: func(a, b *sortItem) int {
			return cmp.Compare(b.entry.Score, a.entry.Score)
		},
	},
	types.ScoreAsc: {
		Key:         types.ScoreAsc,
		Description: "Lowest score first",
		compare: func(a, b *sortItem) int {
			return cmp.Compare(a.entry.Score, b.entry.Score)
		},
	},
	types.Newest: {
		Key:         types.Newest,
		Description: "Most recent year first, later declarations win ties",
		compare: func(a, b *sortItem) int {
			if c := cmp.Compare(b.entry.Year, a.entry.Year); c != 0 {
				return c
			}
			return cmp.Compare(b.entry.Rank, a.entry.Rank)
		},
	},
	types.Oldest: {
		Key:         types.Oldest,
		Description: "Oldest year first, earlier declarations win ties",
		compare: func(a, b *sortItem) int {
			if c := cmp.Compare(a.entry.Year, b.entry.Year); c != 0 {
				return c
			}
			return cmp.Compare(a.entry.Rank, b.entry.Rank)
		},
	},
	types.Alpha: {
		Key:         types.Alpha,
		Description: "Name A to Z",
		collation:   true,
		compare: func(a, b *sortItem) int {
			if c := bytes.Compare(a.nameKey, b.nameKey); c != 0 {
				return c
			}
			return cmp.Compare(a.entry.Rank, b.entry.Rank)
		},
	},
}

// Sorters returns the available sorters in the order the UI lists them.
func Sorters() []Sorter {
	keys := types.SortKeys()
	ret := make([]Sorter, 0, len(keys))
	for _, key := range keys {
		ret = append(ret, sorters[key])
	}
	return ret
}

type options struct {
	locale language.Tag
}

type Option func(*options)

// WithLocale sets the collation used by the alpha sort. The default is English.
func WithLocale(tag language.Tag) Option {
	return func(o *options) {
		o.locale = tag
	}
}

// Sort returns a new slice ordered by the sort key, the input is left
// untouched. An unknown key is a caller error.
func Sort(entries []types.CatalogEntry, key types.SortKey, opts ...Option) ([]types.CatalogEntry, error) {
	sorter, ok := sorters[key]
	if !ok {
		return nil, fmt.Errorf("sort: %w: %q", types.ErrUnknownSortKey, key)
	}
	o := options{locale: language.English}
	for _, opt := range opts {
		opt(&o)
	}

	items := make([]sortItem, len(entries))
	for i := range entries {
		items[i].entry = &entries[i]
	}
	if sorter.collation {
		// a collator keeps internal buffers and must not be shared between goroutines
		c := collate.New(o.locale)
		buf := &collate.Buffer{}
		for i := range items {
			items[i].nameKey = c.KeyFromString(buf, items[i].entry.DisplayName)
		}
	}

	slices.SortStableFunc(items, func(a, b sortItem) int {
		return sorter.compare(&a, &b)
	})

	ret := make([]types.CatalogEntry, len(items))
	for i := range items {
		ret[i] = *items[i].entry
	}
	return ret, nil
}
