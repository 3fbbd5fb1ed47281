package grouping

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/JoshuaShepherd/movemental-templates/pkg/types"
	"github.com/stretchr/testify/assert"
)

func typed(id, value string) types.CatalogEntry {
	return types.CatalogEntry{Id: id, Facets: map[string]string{"type": value}}
}

func TestGroupFollowsVocabularyOrder(t *testing.T) {
	vocabulary := []string{types.All, "Ops", "Voice", "Research"}
	entries := []types.CatalogEntry{
		typed("a", "Research"),
		typed("b", "Ops"),
		typed("c", "Research"),
	}
	p := Group(entries, "type", vocabulary)
	assert.Equal(t, []string{"Ops", "Research"}, p.Keys())
	assert.Equal(t, []string{"b", "a", "c"}, p.Ids())
	assert.Equal(t, "a", p[1].Items[0].Id, "items keep their sorted order")
}

func TestGroupUnlistedBucketIsLast(t *testing.T) {
	vocabulary := []string{types.All, "Ops"}
	entries := []types.CatalogEntry{
		typed("a", "Liturgy"),
		typed("b", "Ops"),
		{Id: "c"},
	}
	p := Group(entries, "type", vocabulary)
	assert.Equal(t, []string{"Ops", Unlisted}, p.Keys())
	assert.Equal(t, []string{"a", "c"}, []string{p[1].Items[0].Id, p[1].Items[1].Id})
}

func TestGroupDeclaredUnlistedIsNotDuplicated(t *testing.T) {
	vocabulary := []string{types.All, Unlisted, "Ops"}
	entries := []types.CatalogEntry{
		typed("a", Unlisted),
		typed("b", "Orphan"),
		typed("c", "Ops"),
	}
	p := Group(entries, "type", vocabulary)
	assert.Equal(t, []string{Unlisted, "Ops"}, p.Keys())
	assert.Equal(t, []string{"a", "b", "c"}, p.Ids())
	assert.True(t, ApplyExpanded(p, []string{Unlisted})[0].Expanded)
}

func TestGroupEmpty(t *testing.T) {
	p := Group(nil, "type", []string{types.All, "Ops"})
	assert.Empty(t, p)
	assert.Equal(t, 0, p.Len())
}

func TestGroupPinnedFacetYieldsOneBucket(t *testing.T) {
	p := Group([]types.CatalogEntry{typed("a", "Voice"), typed("b", "Voice")}, "type", []string{types.All, "Ops", "Voice"})
	assert.Equal(t, []string{"Voice"}, p.Keys())
}

func TestApplyExpanded(t *testing.T) {
	p := Group([]types.CatalogEntry{typed("a", "Ops"), typed("b", "Voice")}, "type", []string{types.All, "Ops", "Voice"})
	e := ApplyExpanded(p, []string{"Voice"})
	assert.False(t, e[0].Expanded)
	assert.True(t, e[1].Expanded)
	assert.False(t, p[1].Expanded, "the source projection is not modified")
}

func TestGroupCoverageAndOrderDeterminism(t *testing.T) {
	rnd := rand.New(rand.NewSource(11))
	values := []string{"Ops", "Voice", "Research", "Orphan"}
	vocabulary := []string{types.All, "Research", "Voice", "Ops"}
	for round := 0; round < 25; round++ {
		n := rnd.Intn(30)
		entries := make([]types.CatalogEntry, n)
		for i := range entries {
			entries[i] = typed(fmt.Sprintf("e%d", i), values[rnd.Intn(len(values))])
		}
		p := Group(entries, "type", vocabulary)

		seen := map[string]int{}
		for _, id := range p.Ids() {
			seen[id]++
		}
		assert.Len(t, seen, n)
		for id, count := range seen {
			assert.Equal(t, 1, count, "entry %s duplicated", id)
		}

		// keys are the non-empty buckets in declared order
		nonEmpty := map[string]bool{}
		for _, e := range entries {
			v := e.Facets["type"]
			if v == "Orphan" {
				v = Unlisted
			}
			nonEmpty[v] = true
		}
		expected := []string{}
		for _, key := range append(vocabulary[1:], Unlisted) {
			if nonEmpty[key] {
				expected = append(expected, key)
			}
		}
		assert.Equal(t, expected, p.Keys())
	}
}
