package main

import (
	"context"
	"log/slog"
	"os"

	cli "github.com/urfave/cli/v3"
)

func main() {
	cmd := &cli.Command{
		Name:                  "adw",
		Usage:                 "Hand tasks off to the agentic developer workflow orchestrator",
		EnableShellCompletion: true,
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
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "warn",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:    "execute",
				Aliases: []string{"e"},
				Usage:   "Write a task state file and publish its trigger",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "task-id",
						Usage:    "Task identifier",
						Required: true,
					},
					&cli.StringSliceFlag{
						Name:  "stage",
						Usage: "Workflow stage to run (repeatable, defaults to plan and implement)",
					},
					&cli.StringSliceFlag{
						Name:  "field",
						Usage: "Extra key=value field to carry on the task record (repeatable)",
					},
				},
				Action: executeAction,
			},
			{
				Name:    "status",
				Aliases: []string{"s"},
				Usage:   "Report the execution status of a task",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "task-id",
						Usage:    "Task identifier",
						Required: true,
					},
				},
				Action: statusAction,
			},
			{
				Name:  "watch",
				Usage: "Poll a task's status until it reaches a terminal state",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "task-id",
						Usage:    "Task identifier",
						Required: true,
					},
				},
				Action: watchAction,
			},
			{
				Name:  "stop",
				Usage: "Request cooperative cancellation of a running task",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "task-id",
						Usage:    "Task identifier",
						Required: true,
					},
				},
				Action: stopAction,
			},
			{
				Name:  "cleanup",
				Usage: "Remove a task's pending trigger file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "task-id",
						Usage:    "Task identifier",
						Required: true,
					},
				},
				Action: cleanupAction,
			},
			{
				Name:  "supported",
				Usage: "Check whether the agentics tree is writable for automatic execution",
				Action: supportedAction,
			},
			{
				Name:  "config",
				Usage: "Manage the shared execution configuration",
				Commands: []*cli.Command{
					{
						Name:   "get",
						Usage:  "Print the effective execution configuration",
						Action: configGetAction,
					},
					{
						Name:  "set",
						Usage: "Replace the execution configuration",
						Flags: []cli.Flag{
							&cli.BoolFlag{
								Name:  "auto-execute",
								Usage: "Trigger orchestrator pickup automatically",
								Value: true,
							},
							&cli.BoolFlag{
								Name:  "fallback-to-manual",
								Usage: "Fall back to manual mode when automatic execution is disabled",
								Value: true,
							},
							&cli.BoolFlag{
								Name:  "cleanup-after-completion",
								Usage: "Sweep completed task directories",
								Value: true,
							},
							&cli.IntFlag{
								Name:  "polling-interval",
								Usage: "Status polling interval in milliseconds",
								Value: 2000,
							},
						},
						Action: configSetAction,
					},
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("Failed to run adw", "error", err)
		os.Exit(1)
	}
}
