// Package cli implements the smartfridge command line client: fridge
// inventory, recipe browsing and the AI helpers, talking to the backend and
// the language model directly.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/pageza/smartfridge/config"
	"github.com/pageza/smartfridge/internal/backend"
	"github.com/pageza/smartfridge/internal/prompt"
	"github.com/pageza/smartfridge/internal/server"
	"github.com/pageza/smartfridge/internal/service"
)

// Deps are the clients the commands use
type Deps struct {
	Backend   *backend.Client
	AI        service.AIServiceInterface
	Submitter *service.Submitter
}

// DepsFromConfig builds the clients from the configuration. No audit log is
// kept for CLI calls.
func DepsFromConfig(cfg *config.Config, logger *slog.Logger) (*Deps, error) {
	providers, err := server.NewProviders(cfg.LLM)
	if err != nil {
		return nil, err
	}
	provider, err := providers.Default()
	if err != nil {
		return nil, err
	}
	prompts, err := prompt.NewStore(cfg.Prompts.Dir, logger)
	if err != nil {
		return nil, err
	}

	client := backend.NewClient(cfg.Backend.URL, cfg.Backend.Timeout)
	return &Deps{
		Backend: client,
		AI: service.NewAIService(provider, prompts, nil, logger, service.AIOptions{
			MaxTokens:      cfg.LLM.MaxTokens,
			FuzzyThreshold: cfg.LLM.FuzzyThreshold,
		}),
		Submitter: service.NewSubmitter(client, logger),
	}, nil
}

type runner struct {
	out  io.Writer
	deps *Deps
}

// NewCommand returns the root command. When deps is nil they are built
// from the configuration before any subcommand runs.
func NewCommand(out io.Writer, deps *Deps) *cli.Command {
	r := &runner{out: out, deps: deps}
	return &cli.Command{
		Name:   "smartfridge",
		Usage:  "Manage your fridge and recipes from the terminal",
		Writer: out,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file",
				Value:   "config/config.yaml",
				Sources: cli.EnvVars("APP_CONFIG_FILE"),
			},
			&cli.StringFlag{
				Name:    "backend",
				Usage:   "Backend API URL (overrides config)",
				Sources: cli.EnvVars("BACKEND_URL"),
			},
		},
		Before: r.before,
		Commands: []*cli.Command{
			r.fridgeCommand(),
			r.recipesCommand(),
			r.cookCommand(),
			r.cuisinesCommand(),
			r.ingredientsCommand(),
			r.parseCommand(),
			r.substitutesCommand(),
		},
	}
}

func (r *runner) before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if r.deps != nil {
		return ctx, nil
	}
	cfg, err := config.LoadConfig(cmd.String("config"))
	if err != nil {
		return ctx, fmt.Errorf("failed to load config: %w", err)
	}
	if u := cmd.String("backend"); u != "" {
		cfg.Backend.URL = u
	}
	// keep the terminal quiet unless something goes wrong
	cfg.Log.Level = slog.LevelWarn
	deps, err := DepsFromConfig(cfg, cfg.Log.NewLogger(cmd.Root().ErrWriter))
	if err != nil {
		return ctx, err
	}
	r.deps = deps
	return ctx, nil
}

// Run executes the CLI and returns the process exit code. Connection
// problems are reported as a warning rather than a stack of errors.
func Run(ctx context.Context, args []string, out, errOut io.Writer, deps *Deps) int {
	cmd := NewCommand(out, deps)
	cmd.ErrWriter = errOut
	err := cmd.Run(ctx, args)
	if err == nil {
		return 0
	}

	switch {
	case errors.Is(err, backend.ErrUnreachable):
		fmt.Fprintf(errOut, "Warning: could not connect to the backend. Is it running?\n  %v\n", err)
	case errors.Is(err, service.ErrLLMUnavailable):
		fmt.Fprintln(errOut, "Warning: the language model is not available. Is Ollama running?")
	default:
		fmt.Fprintf(errOut, "Error: %v\n", err)
	}
	return 1
}
