package commands

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/MrKrzychu46/Blog-Backend/internal/app"
	"github.com/MrKrzychu46/Blog-Backend/internal/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMigrate()
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	db, err := database.Connect(cfg)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if err := database.Migrate(db, app.Models()...); err != nil {
		return err
	}
	log.Println("migrations applied")
	return nil
}
