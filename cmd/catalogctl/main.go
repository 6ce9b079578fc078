// Command catalogctl is the operator tool for the grocery catalog: it checks
// catalog files, imports them into Postgres, runs offline rankings and mints
// admin tokens.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func main() {
	_ = godotenv.Load()
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	zerolog.SetGlobalLevel(zerolog.WarnLevel)

	if err := newRootCommand(viper.New()).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand(v *viper.Viper) *cobra.Command {
	v.AutomaticEnv()
	v.SetDefault(envCatalogFile, "data/products.json")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SSLMODE", "disable")

	root := &cobra.Command{
		Use:           "catalogctl",
		Short:         "Operate the grocery product catalog",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	var verbose bool
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log skipped records and other warnings")
	root.PersistentPreRun = func(*cobra.Command, []string) {
		if verbose {
			zerolog.SetGlobalLevel(zerolog.DebugLevel)
		}
	}

	root.AddCommand(
		newValidateCommand(v),
		newImportCommand(v),
		newSimilarCommand(v),
		newSearchCommand(v),
		newExportCommand(v),
		newTokenCommand(v),
	)
	return root
}
