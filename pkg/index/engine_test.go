package index

import (
	"fmt"
	"sync"
	"testing"

	"github.com/JoshuaShepherd/movemental-templates/pkg/facet"
	"github.com/JoshuaShepherd/movemental-templates/pkg/grouping"
	"github.com/JoshuaShepherd/movemental-templates/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var testSchema = facet.Schema{
	{Name: types.FacetType, Values: []string{"Ops", "Voice & Presence", "Research"}},
	{Name: types.FacetMovement},
}

func testEntries() []types.CatalogEntry {
	return []types.CatalogEntry{
		{Id: "field-scout", DisplayName: "Field Scout", Summary: "Surveys the ground", Facets: map[string]string{"type": "Ops", "movement": "Bauhaus"}, Tags: []string{"Geospatial"}, Year: 2025, Rank: 1, Score: 97},
		{Id: "voice-liturgist", DisplayName: "Voice Liturgist", Summary: "Shapes liturgy for gatherings", Facets: map[string]string{"type": "Voice & Presence", "movement": "Swiss"}, Tags: []string{"Ritual"}, Year: 2025, Rank: 2, Score: 95},
		{Id: "canonist", DisplayName: "Canonist", Summary: "Keeps the archive", Facets: map[string]string{"type": "Research", "movement": "Bauhaus"}, Tags: []string{"Archive"}, Year: 2025, Rank: 3, Score: 96},
		{Id: "herald", DisplayName: "Herald", Summary: "Announces releases", Facets: map[string]string{"type": "Voice & Presence", "movement": "Brutalism"}, Year: 2023, Rank: 4, Score: 70},
		{Id: "scribe", DisplayName: "Scribe", Summary: "Writes liturgical notes", Facets: map[string]string{"type": "Editorial", "movement": "Swiss"}, Year: 2024, Rank: 5, Score: 88},
	}
}

func newTestEngine(t *testing.T, opts ...EngineOption) *Engine {
	t.Helper()
	c, err := NewCatalog(testEntries(), testSchema)
	require.NoError(t, err)
	e, err := NewEngine(c, opts...)
	require.NoError(t, err)
	return e
}

func TestNewCatalogValidation(t *testing.T) {
	entries := testEntries()
	entries[3].Id = "canonist"
	_, err := NewCatalog(entries, testSchema)
	assert.ErrorIs(t, err, types.ErrDuplicateId)

	entries = testEntries()
	entries[2].Rank = 2
	_, err = NewCatalog(entries, testSchema)
	assert.ErrorIs(t, err, types.ErrRankOrder)

	c, err := NewCatalog(nil, testSchema)
	require.NoError(t, err)
	assert.Equal(t, 0, c.Len())
}

func TestCatalogDoesNotAliasInput(t *testing.T) {
	entries := testEntries()
	c, err := NewCatalog(entries, testSchema)
	require.NoError(t, err)
	entries[0].Facets["type"] = "Voice & Presence"
	entries[0].Tags[0] = "changed"
	e, err := c.Entry("field-scout")
	require.NoError(t, err)
	assert.Equal(t, "Ops", e.Facets["type"])
	assert.Equal(t, "Geospatial", e.Tags[0])
}

func TestCatalogLookups(t *testing.T) {
	c, err := NewCatalog(testEntries(), testSchema)
	require.NoError(t, err)
	assert.NotEmpty(t, c.Version)

	_, err = c.Entry("missing")
	assert.ErrorIs(t, err, types.ErrEntryNotFound)

	v, err := c.Vocabulary(types.FacetMovement)
	require.NoError(t, err)
	assert.Equal(t, facet.Vocabulary{types.All, "Bauhaus", "Swiss", "Brutalism"}, v)

	_, err = c.Vocabulary("colour")
	assert.ErrorIs(t, err, types.ErrUnknownFacet)

	assert.Equal(t, []facet.Orphan{{EntryId: "scribe", Facet: types.FacetType, Value: "Editorial"}}, c.Orphans())
}

func TestAssignRanks(t *testing.T) {
	entries := []types.CatalogEntry{{Id: "a"}, {Id: "b", Rank: 7}, {Id: "c"}}
	AssignRanks(entries)
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, 7, entries[1].Rank)
	assert.Equal(t, 3, entries[2].Rank)
}

func TestQueryInitialProjection(t *testing.T) {
	e := newTestEngine(t)
	p, err := e.Query(e.Reset())
	require.NoError(t, err)
	assert.Equal(t, []string{"Ops", "Voice & Presence", "Research", grouping.Unlisted}, p.Keys())
	assert.Equal(t, []string{"field-scout", "voice-liturgist", "herald", "canonist", "scribe"}, p.Ids())

	again, err := e.Query(e.Reset())
	require.NoError(t, err)
	assert.Equal(t, p, again, "the first load projection is deterministic")
}

func TestQueryFacetAndSearch(t *testing.T) {
	e := newTestEngine(t)
	state := e.Reset()
	state.Select(types.FacetType, "Voice & Presence")
	state.SearchText = "liturg"
	p, err := e.Query(state)
	require.NoError(t, err)
	assert.Equal(t, []string{"voice-liturgist"}, p.Ids())

	state.Select(types.FacetType, types.All)
	p, err = e.Query(state)
	require.NoError(t, err)
	assert.Equal(t, []string{"voice-liturgist", "scribe"}, p.Ids())

	state.Select(types.FacetType, "Voice & Presence")
	state.SearchText = ""
	p, err = e.Query(state)
	require.NoError(t, err)
	assert.Equal(t, []string{"voice-liturgist", "herald"}, p.Ids())
}

func TestQueryNoMatchIsEmpty(t *testing.T) {
	e := newTestEngine(t)
	state := e.Reset()
	state.SearchText = "zzz-no-match"
	p, err := e.Query(state)
	require.NoError(t, err)
	assert.Empty(t, p)
}

func TestQueryRejectsCallerErrors(t *testing.T) {
	e := newTestEngine(t)
	state := e.Reset()
	state.SortKey = "popular"
	_, err := e.Query(state)
	assert.ErrorIs(t, err, types.ErrUnknownSortKey)

	state = e.Reset()
	state.Select("colour", "red")
	_, err = e.Query(state)
	assert.ErrorIs(t, err, types.ErrUnknownFacet)

	_, err = e.FacetCounts(state)
	assert.ErrorIs(t, err, types.ErrUnknownFacet)
}

func TestNewEngineRejectsUnknownGroupFacet(t *testing.T) {
	c, err := NewCatalog(testEntries(), testSchema)
	require.NoError(t, err)
	_, err = NewEngine(c, WithGroupFacet("colour"))
	assert.ErrorIs(t, err, types.ErrUnknownFacet)
	_, err = NewEngine(nil)
	assert.Error(t, err)
}

func TestGroupByMovement(t *testing.T) {
	e := newTestEngine(t, WithGroupFacet(types.FacetMovement))
	state := e.Reset()
	state.SortKey = types.Alpha
	p, err := e.Query(state)
	require.NoError(t, err)
	assert.Equal(t, []string{"Bauhaus", "Swiss", "Brutalism"}, p.Keys())
	assert.Equal(t, []string{"canonist", "field-scout", "scribe", "voice-liturgist", "herald"}, p.Ids())
}

func TestMemoAndExpandedHint(t *testing.T) {
	e := newTestEngine(t)
	state := e.Reset()
	state.ExpandedGroups = []string{"Ops"}
	p, err := e.Query(state)
	require.NoError(t, err)
	assert.True(t, p[0].Expanded)

	state.ExpandedGroups = nil
	p2, err := e.Query(state)
	require.NoError(t, err)
	assert.False(t, p2[0].Expanded)
	assert.True(t, p[0].Expanded, "earlier projections are not affected")

	hits, misses := e.Stats()
	assert.Equal(t, uint64(1), hits)
	assert.Equal(t, uint64(1), misses)
}

func TestMemoKeepsCraftedValuesApart(t *testing.T) {
	e := newTestEngine(t)
	crafted := e.Reset()
	crafted.Select(types.FacetMovement, "Swiss|type=Voice & Presence")
	p, err := e.Query(crafted)
	require.NoError(t, err)
	assert.Empty(t, p)

	state := e.Reset()
	state.Select(types.FacetMovement, "Swiss")
	state.Select(types.FacetType, "Voice & Presence")
	p, err = e.Query(state)
	require.NoError(t, err)
	assert.Equal(t, []string{"voice-liturgist"}, p.Ids())

	hits, misses := e.Stats()
	assert.Equal(t, uint64(0), hits)
	assert.Equal(t, uint64(2), misses)
}

func TestMemoDisabled(t *testing.T) {
	e := newTestEngine(t, WithMemoLimit(0))
	_, err := e.Query(e.Reset())
	require.NoError(t, err)
	_, err = e.Query(e.Reset())
	require.NoError(t, err)
	hits, misses := e.Stats()
	assert.Equal(t, uint64(0), hits)
	assert.Equal(t, uint64(2), misses)
}

func TestReplaceInvalidatesMemo(t *testing.T) {
	e := newTestEngine(t)
	p, err := e.Query(e.Reset())
	require.NoError(t, err)
	assert.Equal(t, 5, p.Len())

	entries := testEntries()[:2]
	c, err := NewCatalog(entries, testSchema)
	require.NoError(t, err)
	require.NoError(t, e.Replace(c))

	p, err = e.Query(e.Reset())
	require.NoError(t, err)
	assert.Equal(t, 2, p.Len())
	assert.Equal(t, c, e.Catalog())

	bad, err := NewCatalog(entries, facet.Schema{{Name: types.FacetMovement}})
	require.NoError(t, err)
	assert.ErrorIs(t, e.Replace(bad), types.ErrUnknownFacet)
}

func TestQueryCatalogAnswersFromSnapshot(t *testing.T) {
	e := newTestEngine(t)
	old := e.Catalog()
	c, err := NewCatalog(testEntries()[:2], testSchema)
	require.NoError(t, err)
	require.NoError(t, e.Replace(c))

	p, err := e.QueryCatalog(old, e.Reset())
	require.NoError(t, err)
	assert.Equal(t, 5, p.Len())

	p, err = e.Query(e.Reset())
	require.NoError(t, err)
	assert.Equal(t, 2, p.Len(), "a stale snapshot is never memoized for the live catalog")

	_, err = e.QueryCatalog(nil, e.Reset())
	assert.Error(t, err)
}

func TestFacetCounts(t *testing.T) {
	e := newTestEngine(t)
	state := e.Reset()
	state.Select(types.FacetMovement, "Swiss")
	counts, err := e.FacetCounts(state)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{types.All: 2, "Ops": 0, "Voice & Presence": 1, "Research": 0}, counts[types.FacetType].Values)
	assert.Equal(t, "Swiss", counts[types.FacetMovement].Selected)
	assert.Equal(t, 5, counts[types.FacetMovement].Values[types.All])
}

func TestConcurrentQueries(t *testing.T) {
	e := newTestEngine(t, WithMemoLimit(4))
	keys := types.SortKeys()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				state := e.Reset()
				state.SortKey = keys[(i+j)%len(keys)]
				state.SearchText = fmt.Sprintf("%c", 'a'+rune(j%5))
				p, err := e.Query(state)
				if !assert.NoError(t, err) {
					return
				}
				assert.LessOrEqual(t, p.Len(), 5)
				if j%25 == 0 && i == 0 {
					c, err := NewCatalog(testEntries(), testSchema)
					if assert.NoError(t, err) {
						assert.NoError(t, e.Replace(c))
					}
				}
			}
		}(i)
	}
	wg.Wait()
}
