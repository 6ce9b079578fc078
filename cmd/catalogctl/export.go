package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/GTDGit/grocery_api/internal/export"
)

func newExportCommand(v *viper.Viper) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the catalog to an Excel sheet for warehouse staff",
		Args:  cobra.NoArgs,
	}
	file := catalogFile(cmd, v)
	cmd.Flags().StringVarP(&out, "out", "o", "catalog.xlsx", "Output .xlsx path")

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		products, _, err := loadFile(cmd.Context(), file())
		if err != nil {
			return err
		}

		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", out, err)
		}
		if err := export.WriteXLSX(f, products); err != nil {
			_ = f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %d products to %s\n", len(products), out)
		return nil
	}
	return cmd
}
