package types

// Group is one non-empty bucket of the projection.
type Group struct {
	Key      string         `json:"key"`
	Items    []CatalogEntry `json:"items"`
	Expanded bool           `json:"expanded,omitempty"`
}

// Projection is the grouped, ordered result of a query. Consumers must not
// mutate it, item slices may be shared between projections.
type Projection []Group

func (p Projection) Len() int {
	total := 0
	for _, g := range p {
		total += len(g.Items)
	}
	return total
}

func (p Projection) Keys() []string {
	ret := make([]string, len(p))
	for i, g := range p {
		ret[i] = g.Key
	}
	return ret
}

// Ids returns every entry id in projection order.
func (p Projection) Ids() []string {
	ret := make([]string, 0, p.Len())
	for _, g := range p {
		for _, item := range g.Items {
			ret = append(ret, item.Id)
		}
	}
	return ret
}
