package tracking

import (
	"net/http"
	"time"

	"github.com/JoshuaShepherd/movemental-templates/pkg/types"
)

type Tracking interface {
	TrackQuery(state *types.QueryState, resultLen int, r *http.Request)
	Close() error
}

// QueryEvent records one answered query. It carries no user identity.
type QueryEvent struct {
	Facets  map[string]string `json:"facets,omitempty"`
	Query   string            `json:"query,omitempty"`
	Sort    types.SortKey     `json:"sort"`
	Results int               `json:"noi"`
	Referer string            `json:"referer,omitempty"`
	Time    int64             `json:"ts"`
}

func NewQueryEvent(state *types.QueryState, resultLen int, r *http.Request) QueryEvent {
	ret := QueryEvent{
		Facets:  make(map[string]string),
		Query:   state.SearchText,
		Sort:    state.SortKey,
		Results: resultLen,
		Time:    time.Now().Unix(),
	}
	for _, name := range state.ActiveFacets() {
		ret.Facets[name] = state.SelectedFacets[name]
	}
	if r != nil {
		ret.Referer = r.Header.Get("Referer")
	}
	return ret
}

// Nop drops every event. It is used when no broker is configured.
type Nop struct{}

func (Nop) TrackQuery(*types.QueryState, int, *http.Request) {}

func (Nop) Close() error { return nil }
