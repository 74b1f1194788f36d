package commands

import (
	"fmt"
	"os"

	"invoice-generator/internal/config"
	"invoice-generator/internal/database"
	"invoice-generator/internal/logger"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var (
	// Global flags
	configPath string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "invoicectl",
	Short: "Administration tool for the invoice generator",
	Long: `invoicectl works directly against the invoice database configured in
config.yaml (or INV_* environment variables).

Commands:
  migrate       - Create or update the schema
  create-admin  - Create an administrator account
  export        - Write invoices to CSV or XLSX`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default ./config.yaml)")
}

// openDB loads configuration, installs the logger and opens a migrated
// database.
func openDB() (*config.Config, *gorm.DB, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	if _, err := logger.Setup(config.LogConfig{Level: cfg.Log.Level, Format: cfg.Log.Format}); err != nil {
		return nil, nil, err
	}
	db, err := database.Init(cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	if err := database.AutoMigrate(db); err != nil {
		return nil, nil, fmt.Errorf("migrate database: %w", err)
	}
	return cfg, db, nil
}
