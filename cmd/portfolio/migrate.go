package main

import (
	"portfolio/config"
	"portfolio/models"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := config.InitDB(cfg)
		if err != nil {
			return err
		}
		if err := models.AutoMigrate(db); err != nil {
			return err
		}
		logger.Info("schema migrated")
		return nil
	},
}
