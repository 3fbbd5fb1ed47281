package main

import (
	"fmt"
	"os"

	"github.com/JoshuaShepherd/movemental-templates/pkg/config"
	"github.com/JoshuaShepherd/movemental-templates/pkg/index"
	"github.com/JoshuaShepherd/movemental-templates/pkg/storage"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type options struct {
	dataDir    string
	file       string
	groupFacet string
	locale     string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	cfg, err := config.Load()
	if err != nil {
		cfg = &config.Config{DataDir: "data", CatalogFile: "catalog.yaml", GroupFacet: "type", CollateLocale: "en"}
	}

	root := &cobra.Command{
		Use:          "catalogctl",
		Short:        "Query and validate a showcase catalog from the command line",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&opts.dataDir, "data", cfg.DataDir, "Directory holding the catalog file")
	root.PersistentFlags().StringVar(&opts.file, "file", cfg.CatalogFile, "Catalog file (.yaml, .json or .jz)")
	root.PersistentFlags().StringVar(&opts.groupFacet, "group", cfg.GroupFacet, "Facet the results are grouped by")
	root.PersistentFlags().StringVar(&opts.locale, "locale", cfg.CollateLocale, "Collation locale for the alpha sort")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log catalog loading")

	root.AddCommand(newQueryCmd(opts), newVocabCmd(opts), newValidateCmd(opts))
	return root
}

func (o *options) logger() *zap.Logger {
	if !o.verbose {
		return zap.NewNop()
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func (o *options) load() (*index.Catalog, error) {
	return storage.NewDiskStorage(o.dataDir, o.logger()).Load(o.file)
}

func (o *options) engine() (*index.Engine, error) {
	catalog, err := o.load()
	if err != nil {
		return nil, err
	}
	cfg := config.Config{CollateLocale: o.locale}
	tag, err := cfg.Locale()
	if err != nil {
		return nil, err
	}
	return index.NewEngine(catalog,
		index.WithGroupFacet(o.groupFacet),
		index.WithLocale(tag),
		index.WithMemoLimit(0))
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
