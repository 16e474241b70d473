package cmd

import (
	"context"
	"log"

	"github.com/spf13/cobra"

	"github.com/bodega-ag/inventory-gateway/internal/stub"
)

var (
	migrateCmd = &cobra.Command{
		RunE:  runMigration,
		Use:   "migrate",
		Short: "to run the development backend's embedded migrations",
	}
	migrateRollback bool
)

func init() {
	migrateCmd.Flags().BoolVarP(&migrateRollback, "rollback", "r", false, "to rollback the latest version of sql migration")
}

func runMigration(_ *cobra.Command, _ []string) error {
	ctx := context.Background()
	cfg := mustLoadConfig()

	db, err := stub.OpenDB(cfg.Stub, false)
	if err != nil {
		log.Fatalf("failed to open DB: %v\n", err)
	}

	if err := stub.Migrate(ctx, db, cfg.Stub.Driver, migrateRollback); err != nil {
		log.Fatalf("%v", err)
	}

	return nil
}
