package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/dukex/agentics/pkg/adwconfig"
	"github.com/dukex/agentics/pkg/eventbus"
	"github.com/dukex/agentics/pkg/kv"
	"github.com/dukex/agentics/pkg/log"
	"github.com/google/uuid"
	cli "github.com/urfave/cli/v3"
)

func main() {
	cmd := &cli.Command{
		Name:                  "adw-orchestrator",
		EnableShellCompletion: true,
		Usage:                 "Poll the agentics tree for pending triggers and execute workflows",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "worker-id",
				Aliases: []string{"id"},
				Usage:   "Custom worker ID (auto-generated if not provided)",
				Value:   "",
				Sources: cli.EnvVars("WORKER_ID"),
			},
			&cli.StringFlag{
				Name:     "root",
				Usage:    "Root directory of the agentics tree",
				Required: true,
				Sources:  cli.EnvVars("AGENTICS_ROOT"),
			},
			&cli.StringFlag{
				Name:    "config-url",
				Usage:   "Key-value store URL for execution config (directory path or redis://)",
				Value:   "",
				Sources: cli.EnvVars("CONFIG_URL"),
			},
			&cli.StringFlag{
				Name:    "pipelines-path",
				Usage:   "Path to the directory containing stage scripts",
				Value:   "./adws",
				Sources: cli.EnvVars("PIPELINES_PATH"),
			},
			&cli.DurationFlag{
				Name:    "cleanup-age",
				Usage:   "Age after which completed task directories are swept",
				Value:   24 * time.Hour,
				Sources: cli.EnvVars("CLEANUP_AGE"),
			},
			&cli.BoolFlag{
				Name:    "tracing",
				Usage:   "Enable OpenTelemetry tracing",
				Value:   false,
				Sources: cli.EnvVars("TRACING_ENABLED"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))

			workerID := command.String("worker-id")
			if workerID == "" {
				workerID = "orchestrator-" + uuid.New().String()[:8]
			}

			logger := log.WithModule("adw-orchestrator").With("worker_id", workerID)
			logger.InfoContext(ctx, "Initializing Agentics Orchestrator")

			root := command.String("root")

			configURL := command.String("config-url")
			if configURL == "" {
				configURL = root
			}

			store, err := kv.NewStore(configURL)
			if err != nil {
				return err
			}
			defer func() {
				if err := store.Close(ctx); err != nil {
					logger.ErrorContext(ctx, "Failed to close config store", "error", err)
				}
			}()

			bus := eventbus.NewInProcessBus(logger)
			defer func() {
				if err := bus.Close(); err != nil {
					logger.ErrorContext(ctx, "Failed to close event bus", "error", err)
				}
			}()

			orchestrator := NewOrchestrator(
				workerID,
				root,
				command.String("pipelines-path"),
				command.Duration("cleanup-age"),
				command.Bool("tracing"),
				adwconfig.NewStore(store, logger),
				bus,
				logger,
			)

			if err := orchestrator.Start(ctx); err != nil {
				logger.ErrorContext(ctx, "Failed to start orchestrator", "error", err)

				return err
			}

			return nil
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("Failed to run adw-orchestrator", "error", err)
		os.Exit(1)
	}
}
