package types

import (
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/JoshuaShepherd/movemental-templates/pkg/common/jsoncompat"
	"github.com/gorilla/schema"
)

var decoder = schema.NewDecoder()

func init() {
	decoder.IgnoreUnknownKeys(true)
}

// GetQueryFromRequest reads a QueryState from the query string (GET) or a JSON
// body. Facets that are not mentioned are set to All.
func GetQueryFromRequest(r *http.Request, facets []string) (*QueryState, error) {
	qs := makeBaseQueryState(facets)
	var err error
	if r.Method == http.MethodGet {
		err = queryFromRequestQuery(r.URL.Query(), qs)
	} else {
		if err = jsoncompat.NewDecoder(r.Body).Decode(qs); errors.Is(err, io.EOF) {
			err = nil
		}
		for _, name := range facets {
			if _, ok := qs.SelectedFacets[name]; !ok {
				qs.Select(name, All)
			}
		}
	}
	qs.Sanitize()
	return qs, err
}

func (s *QueryState) Sanitize() {
	if s.SortKey == "" {
		s.SortKey = DefaultSortKey
	}
	for name, value := range s.SelectedFacets {
		if strings.TrimSpace(value) == "" {
			s.SelectedFacets[name] = All
		}
	}
}

func queryFromRequestQuery(query url.Values, result *QueryState) error {
	err := decoder.Decode(result, query)
	if err != nil {
		return err
	}
	decodeFacetsFromRequest(query, result)
	return nil
}

// decodeFacetsFromRequest parses repeated f=<facet>:<value> pairs. The value
// may itself contain colons.
func decodeFacetsFromRequest(query url.Values, result *QueryState) {
	for _, v := range query["f"] {
		name, value, found := strings.Cut(v, ":")
		if !found {
			continue
		}
		name = strings.TrimSpace(name)
		value = strings.TrimSpace(value)
		if name == "" || value == "" {
			continue
		}
		result.Select(name, value)
	}
}

func makeBaseQueryState(facets []string) *QueryState {
	qs := ResetState(facets...)
	return &qs
}
