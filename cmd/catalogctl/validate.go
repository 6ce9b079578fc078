package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newValidateCommand(v *viper.Viper) *cobra.Command {
	var strict bool
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a catalog file and report kept and rejected records",
		Args:  cobra.NoArgs,
	}
	file := catalogFile(cmd, v)
	cmd.Flags().BoolVar(&strict, "strict", false, "Fail when any record is rejected")

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		path := file()
		_, stats, err := loadFile(cmd.Context(), path)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d records, %d kept, %d invalid, %d duplicates\n",
			path, stats.Total, stats.Kept, stats.Invalid, stats.Duplicates)
		if strict && stats.Kept != stats.Total {
			return fmt.Errorf("%d records rejected", stats.Total-stats.Kept)
		}
		return nil
	}
	return cmd
}
