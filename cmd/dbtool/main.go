// Command dbtool applies schema migrations and loads seed data.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"megawe/internal/app"
	"megawe/internal/config"
	dbpostgres "megawe/internal/database/postgres"
)

var rootCmd = &cobra.Command{
	Use:           "dbtool",
	Short:         "Megawe database maintenance",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// connect loads config and opens a pool; callers close it.
func connect(ctx context.Context) (*dbpostgres.Pool, *logrus.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	log := app.NewLogger(cfg, os.Stderr)
	db, err := dbpostgres.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("connect: %w", err)
	}
	return db, log, nil
}
