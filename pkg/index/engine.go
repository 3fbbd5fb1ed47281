package index

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/JoshuaShepherd/movemental-templates/pkg/facet"
	"github.com/JoshuaShepherd/movemental-templates/pkg/grouping"
	"github.com/JoshuaShepherd/movemental-templates/pkg/sorting"
	"github.com/JoshuaShepherd/movemental-templates/pkg/types"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

const defaultMemoLimit = 256

// Engine runs filter, sort and group over the current catalog. Every query is
// recomputed from the catalog unless the same state was answered before for
// the same catalog version.
type Engine struct {
	mu         sync.RWMutex
	catalog    *Catalog
	groupFacet string
	locale     language.Tag
	memoLimit  int
	memo       map[string]types.Projection
	logger     *zap.Logger
	hits       atomic.Uint64
	misses     atomic.Uint64
}

type EngineOption func(*Engine)

// WithGroupFacet sets the facet the projection is grouped by, "type" by default.
func WithGroupFacet(name string) EngineOption {
	return func(e *Engine) {
		e.groupFacet = name
	}
}

func WithLocale(tag language.Tag) EngineOption {
	return func(e *Engine) {
		e.locale = tag
	}
}

// WithMemoLimit bounds the number of memoized projections. Zero disables the memo.
func WithMemoLimit(limit int) EngineOption {
	return func(e *Engine) {
		e.memoLimit = limit
	}
}

func WithLogger(logger *zap.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = logger
	}
}

func NewEngine(catalog *Catalog, opts ...EngineOption) (*Engine, error) {
	e := &Engine{
		groupFacet: types.FacetType,
		locale:     language.English,
		memoLimit:  defaultMemoLimit,
		memo:       make(map[string]types.Projection),
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if err := e.checkCatalog(catalog); err != nil {
		return nil, err
	}
	e.catalog = catalog
	return e, nil
}

func (e *Engine) checkCatalog(catalog *Catalog) error {
	if catalog == nil {
		return errors.New("engine: nil catalog")
	}
	if !catalog.Schema().Has(e.groupFacet) {
		return fmt.Errorf("engine: group facet: %w: %q", types.ErrUnknownFacet, e.groupFacet)
	}
	return nil
}

// Replace swaps in a new catalog and drops every memoized projection.
func (e *Engine) Replace(catalog *Catalog) error {
	if err := e.checkCatalog(catalog); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	previous := e.catalog.Version
	e.catalog = catalog
	clear(e.memo)
	e.logger.Info("catalog replaced",
		zap.String("previous", previous),
		zap.String("version", catalog.Version),
		zap.Int("entries", catalog.Len()))
	return nil
}

func (e *Engine) Catalog() *Catalog {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.catalog
}

// Reset returns the initial query state for the current catalog's facets.
func (e *Engine) Reset() types.QueryState {
	return types.ResetState(e.Catalog().FacetNames()...)
}

func memoKey(version string, state *types.QueryState) string {
	return version + "#" + state.CacheKey()
}

// Query returns the projection for the state. It fails only for an unknown
// sort key or facet name.
func (e *Engine) Query(state types.QueryState) (types.Projection, error) {
	return e.QueryCatalog(e.Catalog(), state)
}

// QueryCatalog answers the state against a catalog snapshot the caller already
// holds, so results can be keyed by that snapshot's version.
func (e *Engine) QueryCatalog(catalog *Catalog, state types.QueryState) (types.Projection, error) {
	if catalog == nil {
		return nil, errors.New("engine: nil catalog")
	}
	if err := state.Validate(catalog.FacetNames()); err != nil {
		return nil, err
	}
	key := memoKey(catalog.Version, &state)

	if e.memoLimit > 0 {
		e.mu.RLock()
		p, ok := e.memo[key]
		e.mu.RUnlock()
		if ok {
			e.hits.Add(1)
			return grouping.ApplyExpanded(p, state.ExpandedGroups), nil
		}
	}
	e.misses.Add(1)

	p, err := Project(catalog, state, e.groupFacet, e.locale)
	if err != nil {
		return nil, err
	}

	if e.memoLimit > 0 {
		e.mu.Lock()
		// a catalog replaced meanwhile makes this projection stale
		if e.catalog.Version == catalog.Version {
			if len(e.memo) >= e.memoLimit {
				clear(e.memo)
			}
			e.memo[key] = p
		}
		e.mu.Unlock()
	}
	return grouping.ApplyExpanded(p, state.ExpandedGroups), nil
}

// Project runs the three stages over a catalog without any memoization.
func Project(catalog *Catalog, state types.QueryState, groupFacet string, locale language.Tag) (types.Projection, error) {
	vocabulary, err := catalog.Vocabulary(groupFacet)
	if err != nil {
		return nil, err
	}
	filtered := catalog.matcher.Filter(catalog.entries, state)
	sorted, err := sorting.Sort(filtered, state.SortKey, sorting.WithLocale(locale))
	if err != nil {
		return nil, err
	}
	return grouping.Group(sorted, groupFacet, vocabulary), nil
}

// FacetCounts returns per facet value counts for the state, each facet
// counted as if its own selection were All.
func (e *Engine) FacetCounts(state types.QueryState) (map[string]facet.KeyFieldResult, error) {
	catalog := e.Catalog()
	if err := state.Validate(catalog.FacetNames()); err != nil {
		return nil, err
	}
	return facet.Counts(catalog.entries, state, catalog.fields, catalog.vocabularies, catalog.matcher), nil
}

func (e *Engine) Vocabulary(name string) (facet.Vocabulary, error) {
	return e.Catalog().Vocabulary(name)
}

func (e *Engine) Entry(id string) (types.CatalogEntry, error) {
	return e.Catalog().Entry(id)
}

// Stats returns the memo hit and miss counts since start.
func (e *Engine) Stats() (hits, misses uint64) {
	return e.hits.Load(), e.misses.Load()
}
