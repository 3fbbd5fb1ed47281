package storage

import (
	"errors"
	"fmt"
	"path"
	"time"

	"github.com/JoshuaShepherd/movemental-templates/pkg/facet"
	"github.com/JoshuaShepherd/movemental-templates/pkg/types"
	"go.uber.org/zap"
)

var ErrUnsupportedFormat = errors.New("unsupported catalog format")

type DiskStorage struct {
	RootFolder string
	Logger     *zap.Logger
}

func NewDiskStorage(rootFolder string, logger *zap.Logger) *DiskStorage {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DiskStorage{
		RootFolder: rootFolder,
		Logger:     logger,
	}
}

// GetFileName returns the path for name together with a unique temp path
// used for atomic writes.
func (ds *DiskStorage) GetFileName(name string) (string, string) {
	fileName := path.Join(ds.RootFolder, name)
	tmpFileName := fileName + ".tmp-" + fmt.Sprintf("%d", time.Now().UnixMilli())
	return fileName, tmpFileName
}

// CatalogFile is the on-disk shape of a catalog. Entries are kept in
// declaration order; facets without values derive their vocabulary.
type CatalogFile struct {
	Facets  facet.Schema         `json:"facets" yaml:"facets"`
	Entries []types.CatalogEntry `json:"entries" yaml:"entries"`
}
