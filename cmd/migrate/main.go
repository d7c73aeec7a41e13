package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/pageza/smartfridge/config"
	"github.com/pageza/smartfridge/internal/database"
)

func run(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.LoadConfig(cmd.String("config"))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger := cfg.Log.NewLogger(os.Stdout)

	db, err := database.Open(cfg.Database, logger)
	if err != nil {
		return err
	}
	if db == nil {
		return errors.New("audit database is disabled, nothing to migrate")
	}
	defer database.Close(db)

	if err := database.RunMigrations(db); err != nil {
		return err
	}
	logger.Info("Migrations applied", slog.String("driver", cfg.Database.Driver))
	return nil
}

func main() {
	cmd := &cli.Command{
		Name:   "migrate",
		Usage:  "Create or update the LLM call audit tables",
		Action: run,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file",
				Value:   "config/config.yaml",
				Sources: cli.EnvVars("APP_CONFIG_FILE"),
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("migration failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
