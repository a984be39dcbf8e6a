package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/syl2042/contentmaestro/internal/storage/postgres"
)

var printOnly bool

// migrateCmd applies the embedded schema
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	Long: `Apply the embedded schema (users, profils_redacteurs, projets).
Every statement is idempotent, so running it twice is safe.

Examples:
  contentmaestro migrate           # Apply the schema
  contentmaestro migrate --print   # Print the SQL without connecting`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMigrate(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.Flags().BoolVar(&printOnly, "print", false, "Print the schema instead of applying it")
}

func runMigrate(ctx context.Context) error {
	if printOnly {
		fmt.Println(postgres.Schema())
		return nil
	}

	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	db, err := postgres.NewConnection(ctx, &cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := postgres.Migrate(ctx, db); err != nil {
		return err
	}
	log.Info().Msg("schema applied")
	return nil
}
