package main

import (
	"github.com/spf13/cobra"

	"megawe/internal/database/seeder"
)

var seedOnly []string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load sample jobs",
	RunE:  runSeed,
}

func init() {
	seedCmd.Flags().StringSliceVar(&seedOnly, "only", nil, "Seeders to run (default: all)")
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, _ []string) error {
	db, log, err := connect(cmd.Context())
	if err != nil {
		return err
	}
	defer db.Close()

	return seeder.Runner{Seeders: seeder.Defaults(), Log: log}.Run(cmd.Context(), db, seedOnly...)
}
