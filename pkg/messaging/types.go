package messaging

type ChangeTopic string

const (
	CatalogReload ChangeTopic = "catalog_reload"
	QueryTracking ChangeTopic = "query_tracking"
)

// ReloadRequest asks every server to read its catalog again. File overrides
// the configured catalog file when set.
type ReloadRequest struct {
	File   string `json:"file,omitempty"`
	Reason string `json:"reason,omitempty"`
}
