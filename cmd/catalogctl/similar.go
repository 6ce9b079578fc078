package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/GTDGit/grocery_api/internal/catalog"
	"github.com/GTDGit/grocery_api/internal/models"
	"github.com/GTDGit/grocery_api/internal/service"
)

func newSimilarCommand(v *viper.Viper) *cobra.Command {
	var count int
	cmd := &cobra.Command{
		Use:   "similar <product-id>",
		Short: "Rank substitutes for a product offline",
		Args:  cobra.ExactArgs(1),
	}
	file := catalogFile(cmd, v)
	cmd.Flags().IntVarP(&count, "count", "n", service.DefaultSimilarCount, "Number of results")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		products, _, err := loadFile(cmd.Context(), file())
		if err != nil {
			return err
		}
		snap := catalog.New(products)
		if _, ok := snap.GetProductByID(args[0]); !ok {
			return fmt.Errorf("product %q not found", args[0])
		}
		printProducts(cmd.OutOrStdout(), service.RankSimilar(snap, args[0], count))
		return nil
	}
	return cmd
}

func newSearchCommand(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query>...",
		Short: "Search product names offline",
		Args:  cobra.ArbitraryArgs,
	}
	file := catalogFile(cmd, v)

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		products, _, err := loadFile(cmd.Context(), file())
		if err != nil {
			return err
		}
		printProducts(cmd.OutOrStdout(), catalog.New(products).SearchProducts(strings.Join(args, " ")))
		return nil
	}
	return cmd
}

func printProducts(w io.Writer, products []models.Product) {
	for i := range products {
		p := &products[i]
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.ID, catalog.DisplayName(p), strings.Join(p.CategoryCodes(), ","), p.PriceString())
	}
}
