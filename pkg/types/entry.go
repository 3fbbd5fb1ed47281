package types

// CatalogEntry is one showcased item, a design template or an agent persona.
type CatalogEntry struct {
	Id          string            `json:"id" yaml:"id"`
	DisplayName string            `json:"name" yaml:"name"`
	Summary     string            `json:"summary,omitempty" yaml:"summary,omitempty"`
	Facets      map[string]string `json:"facets,omitempty" yaml:"facets,omitempty"`
	Tags        []string          `json:"tags,omitempty" yaml:"tags,omitempty"`
	Year        int               `json:"year" yaml:"year"`
	Rank        int               `json:"rank" yaml:"rank"`
	Score       float64           `json:"score" yaml:"score"`
}

const (
	FacetType     = "type"
	FacetMovement = "movement"
	FacetKind     = "kind"
)

// All is the wildcard facet value, it matches every entry.
const All = "All"

func (e *CatalogEntry) FacetValue(name string) (string, bool) {
	if e.Facets == nil {
		return "", false
	}
	v, ok := e.Facets[name]
	return v, ok
}
