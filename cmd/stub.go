package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/bodega-ag/inventory-gateway/internal"
	"github.com/bodega-ag/inventory-gateway/internal/stub"
	"github.com/bodega-ag/inventory-gateway/pkg/logger"
)

var (
	stubCmd = &cobra.Command{
		Use:   "stub",
		Short: "Start the development inventory backend",
		Long:  `Serve the backend REST paths the gateway relays to, on a local sqlite or postgres database`,
		Run: func(cmd *cobra.Command, args []string) {
			startStubServer(mustLoadConfig())
		},
	}
	stubMigrate bool
	stubSeed    bool
)

func init() {
	stubCmd.Flags().BoolVar(&stubMigrate, "migrate", true, "apply migrations before serving")
	stubCmd.Flags().BoolVar(&stubSeed, "seed", false, "seed development users and catalogs before serving")
}

func startStubServer(cfg *internal.Config) {
	log := logger.LoggerWrapper()
	if err := cfg.Stub.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid stub config: %v\n", err)
		os.Exit(1)
	}

	db, err := stub.OpenDB(cfg.Stub, cfg.Observability.Logging.Level == "debug")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open database: %v\n", err)
		os.Exit(1)
	}
	sqlDB, _ := db.DB()
	defer sqlDB.Close()

	if stubMigrate {
		if err := stub.Migrate(context.Background(), db, cfg.Stub.Driver, false); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to migrate: %v\n", err)
			os.Exit(1)
		}
	}
	if stubSeed {
		if err := stub.Seed(db, cfg.Stub.BCryptCost, log); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to seed: %v\n", err)
			os.Exit(1)
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Stub.Port)
	log.Info("Starting development backend", "address", addr, "prefix", stub.APIPrefix, "driver", cfg.Stub.Driver)

	server := &http.Server{
		Addr:              addr,
		Handler:           stub.New(db, cfg.Stub, log).Router(),
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
	}
	serve(server, log)
}
