package types

import (
	"fmt"
	"maps"
	"net/url"
	"slices"
	"strings"
)

// QueryState is the caller owned snapshot of the current facet selections,
// search text and sort key. The engine only reads it.
type QueryState struct {
	SelectedFacets map[string]string `json:"facets" schema:"-"`
	SearchText     string            `json:"q" schema:"q"`
	SortKey        SortKey           `json:"sort" schema:"sort"`
	// ExpandedGroups is passed through to the projection as a rendering hint.
	ExpandedGroups []string `json:"expanded,omitempty" schema:"expanded"`
}

// ResetState returns the state used at first render: every facet set to All,
// no search text and the default sort.
func ResetState(facets ...string) QueryState {
	selected := make(map[string]string, len(facets))
	for _, name := range facets {
		selected[name] = All
	}
	return QueryState{
		SelectedFacets: selected,
		SearchText:     "",
		SortKey:        DefaultSortKey,
		ExpandedGroups: []string{},
	}
}

// ActiveFacets returns the selections that constrain the result, sorted by facet name.
func (s *QueryState) ActiveFacets() []string {
	ret := make([]string, 0, len(s.SelectedFacets))
	for name, value := range s.SelectedFacets {
		if value != All && value != "" {
			ret = append(ret, name)
		}
	}
	slices.Sort(ret)
	return ret
}

func (s *QueryState) Select(facet, value string) {
	if s.SelectedFacets == nil {
		s.SelectedFacets = make(map[string]string)
	}
	s.SelectedFacets[facet] = value
}

// WithOut returns a copy where the given facet is reset to All.
func (s QueryState) WithOut(facet string) QueryState {
	ret := s.Clone()
	if _, ok := ret.SelectedFacets[facet]; ok {
		ret.SelectedFacets[facet] = All
	}
	return ret
}

func (s QueryState) Clone() QueryState {
	ret := s
	if s.SelectedFacets != nil {
		ret.SelectedFacets = maps.Clone(s.SelectedFacets)
	}
	if s.ExpandedGroups != nil {
		ret.ExpandedGroups = slices.Clone(s.ExpandedGroups)
	}
	return ret
}

func (s QueryState) Equal(other QueryState) bool {
	if s.SearchText != other.SearchText || s.SortKey != other.SortKey {
		return false
	}
	if len(s.SelectedFacets) != len(other.SelectedFacets) || len(s.ExpandedGroups) != len(other.ExpandedGroups) {
		return false
	}
	for k, v := range s.SelectedFacets {
		if ov, ok := other.SelectedFacets[k]; !ok || ov != v {
			return false
		}
	}
	return slices.Equal(s.ExpandedGroups, other.ExpandedGroups)
}

// CacheKey identifies the projection produced for this state. The expanded
// groups are not part of it. Every component is query escaped so separators
// inside facet values or search text cannot collide with the structure.
func (s *QueryState) CacheKey() string {
	var b strings.Builder
	b.WriteString(url.QueryEscape(string(s.SortKey)))
	b.WriteByte('|')
	b.WriteString(url.QueryEscape(strings.ToLower(strings.TrimSpace(s.SearchText))))
	for _, name := range s.ActiveFacets() {
		b.WriteByte('|')
		b.WriteString(url.QueryEscape(name))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(s.SelectedFacets[name]))
	}
	return b.String()
}

// Validate checks the state against the known facet names. Both failures are
// programming errors in the caller.
func (s *QueryState) Validate(known []string) error {
	if !s.SortKey.IsValid() {
		return fmt.Errorf("%w: %q", ErrUnknownSortKey, s.SortKey)
	}
	for name := range s.SelectedFacets {
		if !slices.Contains(known, name) {
			return fmt.Errorf("%w: %q", ErrUnknownFacet, name)
		}
	}
	return nil
}
