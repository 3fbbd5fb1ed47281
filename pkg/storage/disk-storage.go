package storage

import (
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/JoshuaShepherd/movemental-templates/pkg/common/jsoncompat"
	"github.com/JoshuaShepherd/movemental-templates/pkg/facet"
	"github.com/JoshuaShepherd/movemental-templates/pkg/index"
	"github.com/JoshuaShepherd/movemental-templates/pkg/types"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Load reads a catalog file and builds the immutable catalog from it. Facet
// values missing from their vocabulary are logged, not rejected.
func (d *DiskStorage) Load(name string) (*index.Catalog, error) {
	file, err := d.LoadCatalogFile(name)
	if err != nil {
		return nil, err
	}
	catalog, err := index.NewCatalog(file.Entries, file.Facets)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}
	for _, o := range catalog.Orphans() {
		d.Logger.Warn("facet value not in vocabulary",
			zap.String("entry", o.EntryId),
			zap.String("facet", o.Facet),
			zap.String("value", o.Value))
	}
	d.Logger.Info("catalog loaded",
		zap.String("file", name),
		zap.String("version", catalog.Version),
		zap.Int("entries", catalog.Len()),
		zap.Strings("facets", catalog.FacetNames()))
	return catalog, nil
}

// LoadCatalogFile decodes name by its extension: yaml, json or gzipped json.
func (d *DiskStorage) LoadCatalogFile(name string) (*CatalogFile, error) {
	ret := &CatalogFile{}
	var err error
	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".yaml", ".yml":
		err = d.LoadYaml(ret, name)
	case ".json":
		err = d.LoadJson(ret, name)
	case ".gz", ".jz":
		err = d.LoadGzippedJson(ret, name)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	if len(ret.Facets) == 0 {
		ret.Facets = SchemaFromEntries(ret.Entries)
	}
	index.AssignRanks(ret.Entries)
	return ret, nil
}

// SchemaFromEntries declares every facet name used by the entries, with
// derived vocabularies. The grouping facet leads when present.
func SchemaFromEntries(entries []types.CatalogEntry) facet.Schema {
	seen := map[string]struct{}{}
	for i := range entries {
		for name := range entries[i].Facets {
			seen[name] = struct{}{}
		}
	}
	names := slices.Sorted(maps.Keys(seen))
	ret := make(facet.Schema, 0, len(names))
	if _, ok := seen[types.FacetType]; ok {
		ret = append(ret, facet.Field{Name: types.FacetType})
	}
	for _, name := range names {
		if name != types.FacetType {
			ret = append(ret, facet.Field{Name: name})
		}
	}
	return ret
}

func (d *DiskStorage) SaveCatalog(file *CatalogFile, name string) error {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		return d.SaveJson(file, name)
	case ".gz", ".jz":
		return d.SaveGzippedJson(file, name)
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
}

func (d *DiskStorage) LoadYaml(data any, filename string) error {
	name, _ := d.GetFileName(filename)
	file, err := os.Open(name)
	if err != nil {
		return err
	}
	defer file.Close()

	err = yaml.NewDecoder(file).Decode(data)
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (d *DiskStorage) SaveGzippedJson(data any, filename string) error {
	fileName, tmpFileName := d.GetFileName(filename)

	file, err := os.Create(tmpFileName)
	if err != nil {
		return err
	}

	zipWriter := gzip.NewWriter(file)
	if err = jsoncompat.NewEncoder(zipWriter).Encode(data); err != nil {
		_ = zipWriter.Close()
		_ = file.Close()
		_ = os.Remove(tmpFileName)
		return err
	}

	if err = zipWriter.Close(); err != nil {
		_ = file.Close()
		_ = os.Remove(tmpFileName)
		return err
	}

	if err = file.Close(); err != nil {
		_ = os.Remove(tmpFileName)
		return err
	}

	if err = os.Rename(tmpFileName, fileName); err != nil {
		_ = os.Remove(tmpFileName)
		return err
	}
	return nil
}

func (d *DiskStorage) LoadGzippedJson(data any, filename string) error {
	name, _ := d.GetFileName(filename)
	file, err := os.Open(name)
	if err != nil {
		return err
	}
	defer file.Close()

	zipReader, err := gzip.NewReader(file)
	if err != nil {
		return err
	}
	defer zipReader.Close()

	err = jsoncompat.NewDecoder(zipReader).Decode(data)
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (d *DiskStorage) SaveJson(data any, name string) error {
	fileName, tmpFileName := d.GetFileName(name)

	file, err := os.Create(tmpFileName)
	if err != nil {
		return err
	}

	err = jsoncompat.NewEncoder(file).Encode(data)
	file.Close()
	if err != nil {
		_ = os.Remove(tmpFileName)
		return err
	}

	return os.Rename(tmpFileName, fileName)
}

func (d *DiskStorage) LoadJson(data any, filename string) error {
	name, _ := d.GetFileName(filename)
	file, err := os.Open(name)
	if err != nil {
		return err
	}
	defer file.Close()

	err = jsoncompat.NewDecoder(file).Decode(data)
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
