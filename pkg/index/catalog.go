package index

import (
	"fmt"
	"maps"
	"slices"

	"github.com/JoshuaShepherd/movemental-templates/pkg/facet"
	"github.com/JoshuaShepherd/movemental-templates/pkg/search"
	"github.com/JoshuaShepherd/movemental-templates/pkg/types"
	"github.com/google/uuid"
)

// Catalog is an immutable, rank ordered set of entries together with the
// structures derived from it. Nothing in it changes after NewCatalog returns,
// so it can be shared between goroutines without locking.
type Catalog struct {
	Version      string
	entries      []types.CatalogEntry
	byId         map[string]int
	schema       facet.Schema
	vocabularies map[string]facet.Vocabulary
	fields       map[string]facet.KeyField
	matcher      *search.Matcher
}

// NewCatalog validates and indexes the entries. Ids must be unique and ranks
// strictly increasing in declaration order.
func NewCatalog(entries []types.CatalogEntry, schema facet.Schema) (*Catalog, error) {
	owned := make([]types.CatalogEntry, len(entries))
	byId := make(map[string]int, len(entries))
	for i, e := range entries {
		if _, dup := byId[e.Id]; dup {
			return nil, fmt.Errorf("catalog entry %d: %w: %q", i, types.ErrDuplicateId, e.Id)
		}
		if i > 0 && e.Rank <= entries[i-1].Rank {
			return nil, fmt.Errorf("catalog entry %q: %w (%d after %d)", e.Id, types.ErrRankOrder, e.Rank, entries[i-1].Rank)
		}
		byId[e.Id] = i
		owned[i] = e
		if e.Facets != nil {
			owned[i].Facets = maps.Clone(e.Facets)
		}
		owned[i].Tags = slices.Clone(e.Tags)
	}

	c := &Catalog{
		Version:      uuid.New().String(),
		entries:      owned,
		byId:         byId,
		schema:       slices.Clone(schema),
		vocabularies: schema.Vocabularies(owned),
		fields:       make(map[string]facet.KeyField, len(schema)),
		matcher:      search.NewMatcher(owned),
	}
	for _, name := range schema.Names() {
		c.fields[name] = facet.NewKeyField(name, owned)
	}
	return c, nil
}

// Entries returns the catalog in rank order. The slice is shared and must not
// be modified.
func (c *Catalog) Entries() []types.CatalogEntry {
	return c.entries
}

func (c *Catalog) Len() int {
	return len(c.entries)
}

func (c *Catalog) Schema() facet.Schema {
	return c.schema
}

func (c *Catalog) FacetNames() []string {
	return c.schema.Names()
}

func (c *Catalog) Vocabulary(name string) (facet.Vocabulary, error) {
	v, ok := c.vocabularies[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", types.ErrUnknownFacet, name)
	}
	return v, nil
}

func (c *Catalog) Vocabularies() map[string]facet.Vocabulary {
	return c.vocabularies
}

func (c *Catalog) Entry(id string) (types.CatalogEntry, error) {
	i, ok := c.byId[id]
	if !ok {
		return types.CatalogEntry{}, fmt.Errorf("%w: %q", types.ErrEntryNotFound, id)
	}
	return c.entries[i], nil
}

// Orphans lists facet values no vocabulary member exists for.
func (c *Catalog) Orphans() []facet.Orphan {
	return facet.Orphans(c.entries, c.vocabularies)
}

// AssignRanks gives entries without a rank their 1-based declaration position.
// Entries that already carry a rank keep it.
func AssignRanks(entries []types.CatalogEntry) {
	for i := range entries {
		if entries[i].Rank == 0 {
			entries[i].Rank = i + 1
		}
	}
}
