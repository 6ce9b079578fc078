package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/GTDGit/grocery_api/internal/config"
	"github.com/GTDGit/grocery_api/internal/database"
	"github.com/GTDGit/grocery_api/internal/repository"
)

func newImportCommand(v *viper.Viper) *cobra.Command {
	var migrationsDir string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Replace the Postgres products table with a catalog file",
		Long: `Replace the Postgres products table with the records of a catalog file.

Connection settings come from DB_HOST, DB_PORT, DB_USER, DB_PASSWORD, DB_NAME
and DB_SSLMODE. Pending migrations are applied first.`,
		Args: cobra.NoArgs,
	}
	file := catalogFile(cmd, v)
	cmd.Flags().StringVar(&migrationsDir, "migrations", "migrations", "Migrations directory")

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		products, stats, err := loadFile(ctx, file())
		if err != nil {
			return err
		}

		dbCfg := databaseConfig(v)
		if dbCfg.Host == "" || dbCfg.User == "" || dbCfg.Name == "" {
			return fmt.Errorf("database configuration incomplete: ensure DB_HOST, DB_USER, and DB_NAME are set")
		}
		db, err := database.Connect(ctx, &dbCfg)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := database.RunMigrations(db.DB, migrationsDir); err != nil {
			return err
		}
		if err := repository.NewProductRepository(db).ReplaceAll(ctx, products); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "imported %d products (%d invalid, %d duplicates skipped)\n",
			stats.Kept, stats.Invalid, stats.Duplicates)
		return nil
	}
	return cmd
}

func databaseConfig(v *viper.Viper) config.DatabaseConfig {
	return config.DatabaseConfig{
		Host:     v.GetString("DB_HOST"),
		Port:     v.GetString("DB_PORT"),
		User:     v.GetString("DB_USER"),
		Password: v.GetString("DB_PASSWORD"),
		Name:     v.GetString("DB_NAME"),
		SSLMode:  v.GetString("DB_SSLMODE"),
	}
}
