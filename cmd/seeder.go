package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/bodega-ag/inventory-gateway/internal/stub"
	"github.com/bodega-ag/inventory-gateway/pkg/logger"
)

var seedProducts int

func init() {
	seedCmd.Flags().IntVar(&seedProducts, "products", 0, "also create this many fake products")
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the development backend with sample data",
	Long:  `Create the development accounts and catalog values used when trying the console locally.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := mustLoadConfig()

		db, err := stub.OpenDB(cfg.Stub, false)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}

		if clearData {
			if err := stub.ClearData(db); err != nil {
				log.Fatalf("failed to clear data: %v", err)
			}
			fmt.Println("Existing data cleared")
		}

		if err := stub.Seed(db, cfg.Stub.BCryptCost, logger.LoggerWrapper()); err != nil {
			log.Fatalf("failed to seed: %v", err)
		}

		if seedProducts > 0 {
			if err := stub.SeedProducts(db, seedProducts, logger.LoggerWrapper()); err != nil {
				log.Fatalf("failed to seed products: %v", err)
			}
			fmt.Printf("Seeded %d products\n", seedProducts)
		}

		for _, u := range stub.SeedUsers {
			fmt.Printf("Seeded user: %s (%s) password %q\n", u.Usuario, u.Nivel, u.Contrasena)
		}
	},
}
