package main

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/GTDGit/grocery_api/internal/catalog"
	"github.com/GTDGit/grocery_api/internal/models"
)

const envCatalogFile = "CATALOG_FILE"

// catalogFile registers --file on cmd and returns a resolver that falls back
// to CATALOG_FILE when the flag is not given.
func catalogFile(cmd *cobra.Command, v *viper.Viper) func() string {
	var path string
	cmd.Flags().StringVarP(&path, "file", "f", "", "Catalog JSON file (default $CATALOG_FILE)")
	return func() string {
		if cmd.Flags().Changed("file") {
			return path
		}
		return v.GetString(envCatalogFile)
	}
}

// loadFile decodes and normalizes a catalog file.
func loadFile(ctx context.Context, path string) ([]models.Product, catalog.NormalizeStats, error) {
	raw, err := catalog.NewFileSource(path).Load(ctx)
	if err != nil {
		return nil, catalog.NormalizeStats{}, err
	}
	products, stats := catalog.Normalize(raw)
	return products, stats, nil
}
