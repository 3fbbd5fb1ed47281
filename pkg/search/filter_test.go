package search

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/JoshuaShepherd/movemental-templates/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func agents() []types.CatalogEntry {
	return []types.CatalogEntry{
		{Id: "field-scout", DisplayName: "Field Scout", Summary: "Maps terrain before the team arrives", Facets: map[string]string{"type": "Research"}, Tags: []string{"Geospatial", "Survey"}, Year: 2025, Rank: 1, Score: 97},
		{Id: "voice-liturgist", DisplayName: "Voice Liturgist", Summary: "Writes call and response for gatherings", Facets: map[string]string{"type": "Voice & Presence"}, Tags: []string{"Ritual"}, Year: 2025, Rank: 2, Score: 95},
		{Id: "canonist", DisplayName: "Canonist", Summary: "Keeps the liturgy archive in order", Facets: map[string]string{"type": "Ops"}, Tags: []string{"Archive"}, Year: 2024, Rank: 3, Score: 96},
		{Id: "herald", DisplayName: "Herald", Summary: "Announces releases", Facets: map[string]string{"type": "Voice & Presence"}, Tags: []string{"Broadcast"}, Year: 2023, Rank: 4, Score: 80},
	}
}

func ids(entries []types.CatalogEntry) []string {
	ret := make([]string, len(entries))
	for i, e := range entries {
		ret[i] = e.Id
	}
	return ret
}

func TestNormalizeQuery(t *testing.T) {
	assert.Equal(t, "geo", NormalizeQuery("  GeO\t"))
	assert.Equal(t, "", NormalizeQuery("   "))
}

func TestHaystackContainsEveryField(t *testing.T) {
	e := agents()[0]
	h := Haystack(&e)
	for _, part := range []string{"field scout", "maps terrain", "research", "geospatial survey"} {
		assert.Contains(t, h, part)
	}
}

func TestSearchIsCaseInsensitiveSubstring(t *testing.T) {
	state := types.ResetState("type")
	state.SearchText = "Geo"
	res := Filter(agents(), state)
	assert.Equal(t, []string{"field-scout"}, ids(res))

	state.SearchText = "zzz-no-match"
	res = Filter(agents(), state)
	require.NotNil(t, res)
	assert.Empty(t, res)
}

func TestSearchIsNotTokenized(t *testing.T) {
	state := types.ResetState("type")
	// both words appear in the entry but not next to each other
	state.SearchText = "scout terrain"
	assert.Empty(t, Filter(agents(), state))
}

func TestEmptySearchPasses(t *testing.T) {
	state := types.ResetState("type")
	state.SearchText = "   "
	assert.Equal(t, ids(agents()), ids(Filter(agents(), state)))
}

func TestFacetAndSearchCombine(t *testing.T) {
	state := types.ResetState("type")
	state.Select("type", "Voice & Presence")
	state.SearchText = "liturg"
	assert.Equal(t, []string{"voice-liturgist"}, ids(Filter(agents(), state)))

	// dropping the facet lets the Canonist summary match as well
	state.Select("type", types.All)
	assert.Equal(t, []string{"voice-liturgist", "canonist"}, ids(Filter(agents(), state)))

	// dropping the search keeps every Voice & Presence entry
	state.Select("type", "Voice & Presence")
	state.SearchText = ""
	assert.Equal(t, []string{"voice-liturgist", "herald"}, ids(Filter(agents(), state)))
}

func TestFacetEqualityIsCaseSensitive(t *testing.T) {
	state := types.ResetState("type")
	state.Select("type", "ops")
	assert.Empty(t, Filter(agents(), state))
}

func TestFilterEmptyCatalog(t *testing.T) {
	res := Filter(nil, types.ResetState("type"))
	require.NotNil(t, res)
	assert.Empty(t, res)
}

func TestMatcherUsesCachedHaystack(t *testing.T) {
	entries := agents()
	m := NewMatcher(entries)
	state := types.ResetState("type")
	state.SearchText = "broadcast"
	assert.Equal(t, []string{"herald"}, ids(m.Filter(entries, state)))
}

func TestFilterMonotonicity(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	typesVocab := []string{"Ops", "Voice", "Research"}
	movements := []string{"Bauhaus", "Brutalism", "Swiss"}
	entries := make([]types.CatalogEntry, 60)
	for i := range entries {
		entries[i] = types.CatalogEntry{
			Id:          fmt.Sprintf("e%d", i),
			DisplayName: fmt.Sprintf("Entry %d", i),
			Facets: map[string]string{
				"type":     typesVocab[rnd.Intn(len(typesVocab))],
				"movement": movements[rnd.Intn(len(movements))],
			},
			Tags: []string{fmt.Sprintf("tag%d", rnd.Intn(5))},
			Rank: i + 1,
		}
	}
	for i := 0; i < 50; i++ {
		a := types.ResetState("type", "movement")
		if rnd.Intn(2) == 0 {
			a.Select("type", typesVocab[rnd.Intn(len(typesVocab))])
		}
		b := a.Clone()
		b.Select("movement", movements[rnd.Intn(len(movements))])
		b.SearchText = fmt.Sprintf("tag%d", rnd.Intn(5))

		ra := Filter(entries, a)
		rb := Filter(entries, b)
		assert.LessOrEqual(t, len(rb), len(ra), "more constraints never grow the result")
	}
}
