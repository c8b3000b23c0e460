package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/dukex/agentics/pkg/adwconfig"
	"github.com/dukex/agentics/pkg/handoff"
	"github.com/dukex/agentics/pkg/kv"
	"github.com/dukex/agentics/pkg/log"
	cli "github.com/urfave/cli/v3"
)

func main() {
	cmd := &cli.Command{
		Name:                  "adw-api",
		EnableShellCompletion: true,
		Usage:                 "Serve the task handoff protocol over HTTP",
		Flags: []cli.Flag{
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
				Name:    "port",
				Usage:   "Port to listen on",
				Value:   "9091",
				Sources: cli.EnvVars("PORT"),
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

			logger := log.WithModule("adw-api")
			logger.InfoContext(ctx, "Initializing Agentics API")

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

			service := handoff.NewService(root, adwconfig.NewStore(store, logger), logger)

			api := NewAPI(logger, service)

			return api.App().Listen(":" + command.String("port"))
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("Failed to run adw-api", "error", err)
		os.Exit(1)
	}
}
