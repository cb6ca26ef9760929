package main

import (
	"fmt"
	"os"

	"fyne.io/fyne/v2/app"

	"demo/config"
	appcontext "demo/context"
	"demo/database"
	"demo/logging"
	"demo/screens"
)

var version = "dev"

const defaultConfigPath = "config.yaml"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(configPath())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger, closer, err := logging.New(cfg.Logging, version)
	if err != nil {
		return err
	}
	defer closer.Close()

	logger.Info("Starting application", "version", version)

	var opts []appcontext.Option
	if cfg.Database.Dir != "" {
		opts = append(opts, appcontext.WithDataDir(cfg.Database.Dir))
	}

	host := app.NewWithID(cfg.App.ID)
	builder := database.SQLiteBuilder{
		Debug:    cfg.Database.Debug,
		InMemory: cfg.Database.InMemory,
	}
	application := appcontext.New(host, builder, logger, opts...)
	application.OnStart()
	defer application.Close()

	if err := screens.Run(appcontext.Current(), cfg); err != nil {
		logger.Error("Application stopped", "error", err)
		return err
	}

	logger.Info("Application stopped")
	return nil
}

func configPath() string {
	if path := os.Getenv("DEMO_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}
