package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/hendryprasetyo/storefront/config"
	"github.com/hendryprasetyo/storefront/database/indexes"
	"github.com/hendryprasetyo/storefront/database/seeders"
	"github.com/hendryprasetyo/storefront/pkg/database"
)

// bootDB loads config and opens the MongoDB connection for one-shot
// commands.
func bootDB() error {
	if err := config.Load(); err != nil {
		return err
	}
	return database.Connect()
}

// storefront db:index — create the required MongoDB indexes.
var dbIndexCmd = &cobra.Command{
	Use:   "db:index",
	Short: "Create MongoDB indexes (unique username/email, order ownership)",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()
		defer database.Disconnect(context.Background())

		if err := indexes.EnsureAll(ctx, database.DB()); err != nil {
			return err
		}
		fmt.Println("Indexes created.")
		return nil
	},
}

// storefront db:seed — run all registered seeders.
var dbSeedCmd = &cobra.Command{
	Use:   "db:seed",
	Short: "Run all database seeders",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
		defer cancel()
		defer database.Disconnect(context.Background())

		fmt.Println("Running seeders…")
		if err := seeders.RunAll(ctx, database.DB()); err != nil {
			return err
		}
		fmt.Println("Seeding complete.")
		return nil
	},
}
