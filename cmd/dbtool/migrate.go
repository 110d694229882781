package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"megawe/internal/database/migration"
	"megawe/migrations"
)

var migrateDir string

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending schema migrations",
	Long:  "Apply V<n>__<name>.sql migrations in version order. Files are read from --dir when set, otherwise from the embedded set.",
	RunE:  runMigrate,
}

func init() {
	migrateCmd.Flags().StringVar(&migrateDir, "dir", "", "Directory of migration files (defaults to the embedded migrations)")
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	db, log, err := connect(cmd.Context())
	if err != nil {
		return err
	}
	defer db.Close()

	r := migration.Runner{Dir: migrateDir, Log: log}
	if migrateDir == "" {
		r.FS = migrations.Files
	}
	res, err := r.Run(cmd.Context(), db.SQLDB())
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"applied": len(res.Applied),
		"skipped": res.Skipped,
	}).Info("[Migration] complete")
	return nil
}
