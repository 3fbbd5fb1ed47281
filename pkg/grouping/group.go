// Package grouping partitions sorted entries into facet buckets.
package grouping

import (
	"slices"

	"github.com/JoshuaShepherd/movemental-templates/pkg/types"
)

// Unlisted collects entries whose facet value is missing from the vocabulary.
// It is the last bucket unless the vocabulary itself declares the value, in
// which case those entries join the declared bucket.
const Unlisted = "Unlisted"

// Group assigns every entry, in input order, to the bucket of its value for
// the facet. Buckets follow the vocabulary order and empty ones are left out.
// The wildcard is never a bucket. Entries are never re-sorted or dropped.
func Group(entries []types.CatalogEntry, facet string, vocabulary []string) types.Projection {
	keys := make([]string, 0, len(vocabulary)+1)
	position := make(map[string]int, len(vocabulary))
	for _, value := range vocabulary {
		if value == types.All {
			continue
		}
		if _, dup := position[value]; dup {
			continue
		}
		position[value] = len(keys)
		keys = append(keys, value)
	}
	unlisted, declared := position[Unlisted]
	if !declared {
		unlisted = len(keys)
		keys = append(keys, Unlisted)
	}

	buckets := make([][]types.CatalogEntry, len(keys))
	for i := range entries {
		idx := unlisted
		if value, ok := entries[i].FacetValue(facet); ok {
			if p, found := position[value]; found {
				idx = p
			}
		}
		buckets[idx] = append(buckets[idx], entries[i])
	}

	ret := make(types.Projection, 0, len(keys))
	for i, key := range keys {
		if len(buckets[i]) == 0 {
			continue
		}
		ret = append(ret, types.Group{Key: key, Items: buckets[i]})
	}
	return ret
}

// ApplyExpanded returns a copy of the projection with the expanded hint set.
// The item slices are shared with the input.
func ApplyExpanded(p types.Projection, expanded []string) types.Projection {
	ret := make(types.Projection, len(p))
	for i, g := range p {
		ret[i] = types.Group{
			Key:      g.Key,
			Items:    g.Items,
			Expanded: slices.Contains(expanded, g.Key),
		}
	}
	return ret
}
