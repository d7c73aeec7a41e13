package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/pageza/smartfridge/config"
	"github.com/pageza/smartfridge/internal/mcpserver"
	"github.com/pageza/smartfridge/internal/server"
)

var version = "dev"

func run(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.LoadConfig(cmd.String("config"))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	mcpMode := cmd.Bool("mcp")

	// stdout carries the MCP protocol, so logs go to stderr there
	logOut := os.Stdout
	if mcpMode {
		logOut = os.Stderr
	}
	logger := cfg.Log.NewLogger(logOut)
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("env", string(cfg.Env)),
		slog.String("http_address", cfg.Server.Address()),
		slog.String("provider", cfg.LLM.Provider),
		slog.String("log_level", cfg.Log.Level.String()))

	app, err := server.NewApp(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("init app: %w", err)
	}
	defer app.Close()

	if mcpMode {
		logger.Info("Serving MCP over stdio")
		return mcpserver.New(app.AI, app.Backend, version).ServeStdio()
	}
	return app.Serve(ctx)
}

func main() {
	cmd := &cli.Command{
		Name:    "smartfridge-ai",
		Usage:   "AI companion service for the SmartFridge recipe manager",
		Version: version,
		Action:  run,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
			&cli.BoolFlag{
				Name:  "mcp",
				Usage: "Serve MCP tools over stdio instead of HTTP",
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
