package main

import (
	"fmt"
	"log/slog"
	"os"

	"invoice-generator/internal/config"
	"invoice-generator/internal/database"
	"invoice-generator/internal/logger"
	"invoice-generator/internal/router"
)

func main() {
	if err := run(""); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run starts the server and returns only on failure. Errors after logging is
// set up are logged before the log file is closed.
func run(configPath string) error {
	// load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	closeLog, err := logger.Setup(cfg.Log)
	if err != nil {
		return fmt.Errorf("setup logging: %w", err)
	}
	defer closeLog()

	fail := func(msg string, err error) error {
		slog.Error(msg, "err", err)
		return fmt.Errorf("%s: %w", msg, err)
	}

	// ensure basic directories exist
	if err := os.MkdirAll(cfg.Backup.Dir, 0o700); err != nil {
		return fail("create backup dir", err)
	}

	// init database
	db, err := database.Init(cfg.Database)
	if err != nil {
		return fail("init database", err)
	}

	// run migrations
	if err := database.AutoMigrate(db); err != nil {
		return fail("migrate database", err)
	}

	// setup router
	r := router.SetupRouter(cfg, db)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.Server.Port)
	slog.Info("server listening", "addr", addr, "driver", cfg.Database.Driver)
	if err := r.Run(addr); err != nil {
		return fail("run server", err)
	}
	return nil
}
