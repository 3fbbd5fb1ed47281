package server

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/JoshuaShepherd/movemental-templates/pkg/common"
	"github.com/JoshuaShepherd/movemental-templates/pkg/common/jsoncompat"
	"github.com/JoshuaShepherd/movemental-templates/pkg/grouping"
	"github.com/JoshuaShepherd/movemental-templates/pkg/sorting"
	"github.com/JoshuaShepherd/movemental-templates/pkg/types"
	"go.uber.org/zap"
)

type QueryResponse struct {
	Groups types.Projection `json:"groups"`
	Total  int              `json:"total"`
	State  types.QueryState `json:"state"`
}

type FacetResponse struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Values      []string       `json:"values"`
	Selected    string         `json:"selected"`
	Counts      map[string]int `json:"counts"`
}

type SortOption struct {
	Key         types.SortKey `json:"key"`
	Description string        `json:"description"`
	Default     bool          `json:"default,omitempty"`
}

func asRequestError(err error) error {
	if errors.Is(err, types.ErrUnknownSortKey) || errors.Is(err, types.ErrUnknownFacet) {
		return common.BadRequest(err)
	}
	return err
}

func (ws *WebServer) requestState(r *http.Request) (*types.QueryState, error) {
	names := ws.Engine.Catalog().FacetNames()
	state, err := types.GetQueryFromRequest(r, names)
	if err != nil {
		return nil, common.BadRequest(fmt.Errorf("invalid query: %w", err))
	}
	if err = state.Validate(names); err != nil {
		return nil, common.BadRequest(err)
	}
	return state, nil
}

func (ws *WebServer) Query(w http.ResponseWriter, r *http.Request, enc jsoncompat.Encoder) error {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		return &common.HttpError{Status: http.StatusMethodNotAllowed, Err: errors.New("method not allowed")}
	}
	state, err := ws.requestState(r)
	if err != nil {
		return err
	}

	start := time.Now()
	catalog := ws.Engine.Catalog()
	var projection types.Projection
	hit, err := NewCacheHelper[types.Projection](ws.Cache).Handle(r.Context(), projectionKey(catalog.Version, state), &projection, func() (types.Projection, error) {
		return ws.Engine.QueryCatalog(catalog, *state)
	}, ws.CacheTTL)
	if err != nil {
		return asRequestError(err)
	}
	if hit {
		noCacheHits.Inc()
		projection = grouping.ApplyExpanded(projection, state.ExpandedGroups)
	}
	queryDuration.Observe(time.Since(start).Seconds())
	noQueries.Inc()
	ws.Logger.Debug("query",
		zap.String("key", state.CacheKey()),
		zap.Bool("cached", hit),
		zap.Int("results", projection.Len()))

	if ws.Tracking != nil {
		ws.Tracking.TrackQuery(state, projection.Len(), r)
	}
	if projection == nil {
		projection = types.Projection{}
	}

	defaultHeaders(w, r, true, "60")
	w.WriteHeader(http.StatusOK)
	return enc.Encode(QueryResponse{
		Groups: projection,
		Total:  projection.Len(),
		State:  *state,
	})
}

func (ws *WebServer) Facets(w http.ResponseWriter, r *http.Request, enc jsoncompat.Encoder) error {
	state, err := ws.requestState(r)
	if err != nil {
		return err
	}
	catalog := ws.Engine.Catalog()
	counts, err := ws.Engine.FacetCounts(*state)
	if err != nil {
		return asRequestError(err)
	}
	ret := make([]FacetResponse, 0, len(catalog.Schema()))
	for _, field := range catalog.Schema() {
		vocabulary, err := catalog.Vocabulary(field.Name)
		if err != nil {
			return err
		}
		result := counts[field.Name]
		ret = append(ret, FacetResponse{
			Name:        field.Name,
			Description: field.Description,
			Values:      vocabulary,
			Selected:    result.Selected,
			Counts:      result.Values,
		})
	}
	defaultHeaders(w, r, true, "60")
	w.WriteHeader(http.StatusOK)
	return enc.Encode(ret)
}

func (ws *WebServer) Reset(w http.ResponseWriter, r *http.Request, enc jsoncompat.Encoder) error {
	publicHeaders(w, r, true, "600")
	w.WriteHeader(http.StatusOK)
	return enc.Encode(ws.Engine.Reset())
}

func (ws *WebServer) GetEntry(w http.ResponseWriter, r *http.Request, enc jsoncompat.Encoder) error {
	entry, err := ws.Engine.Entry(r.PathValue("id"))
	if errors.Is(err, types.ErrEntryNotFound) {
		return common.NotFound(err)
	}
	if err != nil {
		return err
	}
	publicHeaders(w, r, true, "600")
	w.WriteHeader(http.StatusOK)
	return enc.Encode(entry)
}

func (ws *WebServer) Sorts(w http.ResponseWriter, r *http.Request, enc jsoncompat.Encoder) error {
	sorters := sorting.Sorters()
	ret := make([]SortOption, len(sorters))
	for i, s := range sorters {
		ret[i] = SortOption{
			Key:         s.Key,
			Description: s.Description,
			Default:     s.Key == types.DefaultSortKey,
		}
	}
	publicHeaders(w, r, true, "3600")
	w.WriteHeader(http.StatusOK)
	return enc.Encode(ret)
}
