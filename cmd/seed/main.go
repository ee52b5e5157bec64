package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/georgemunganga/ustaz-catalog/internal/bootstrap"
	"github.com/georgemunganga/ustaz-catalog/internal/config"
	"github.com/georgemunganga/ustaz-catalog/internal/logger"
	"github.com/georgemunganga/ustaz-catalog/internal/modules/catalog"
	"github.com/spf13/cobra"
)

func main() {
	var reset bool

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the initial products into the catalog store",
		Long: "seed inserts the initial product set when the catalog is empty. " +
			"With --reset it first deletes every existing product.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logg, err := logger.New(cfg.Log)
			if err != nil {
				return err
			}
			defer logg.Sync()

			ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
			defer cancel()

			store, err := bootstrap.OpenStore(ctx, cfg, logg)
			if err != nil {
				return err
			}
			defer store.Close()

			seeder := catalog.NewSeeder(store.Products, store.Pinger, logg)
			var n int
			if reset {
				n, err = seeder.Reset(ctx)
			} else {
				n, err = seeder.Seed(ctx)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d products\n", n)
			return nil
		},
	}
	cmd.Flags().BoolVar(&reset, "reset", false, "delete existing products before seeding")

	if err := cmd.Execute(); err != nil {
		log.Println(err)
		os.Exit(1)
	}
}
