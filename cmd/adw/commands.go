package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dukex/agentics/pkg/adwconfig"
	"github.com/dukex/agentics/pkg/handoff"
	"github.com/dukex/agentics/pkg/kv"
	"github.com/dukex/agentics/pkg/log"
	"github.com/dukex/agentics/pkg/models"
	cli "github.com/urfave/cli/v3"
)

func newService(command *cli.Command) (*handoff.Service, kv.Store, error) {
	log.Setup(command.String("log-level"))

	logger := log.WithModule("adw")

	root := command.String("root")

	configURL := command.String("config-url")
	if configURL == "" {
		configURL = root
	}

	store, err := kv.NewStore(configURL)
	if err != nil {
		return nil, nil, err
	}

	return handoff.NewService(root, adwconfig.NewStore(store, logger), logger), store, nil
}

func parseFields(pairs []string) map[string]any {
	if len(pairs) == 0 {
		return nil
	}

	fields := make(map[string]any, len(pairs))

	for _, pair := range pairs {
		key, value, _ := strings.Cut(pair, "=")
		fields[key] = value
	}

	return fields
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	fmt.Println(string(data))

	return nil
}

func executeAction(ctx context.Context, command *cli.Command) error {
	service, store, err := newService(command)
	if err != nil {
		return err
	}
	defer store.Close(ctx) //nolint:errcheck

	state := &models.TaskState{
		TaskID: command.String("task-id"),
		Stages: command.StringSlice("stage"),
		Extra:  parseFields(command.StringSlice("field")),
	}

	result, err := service.ExecuteWorkflow(ctx, state)
	if err != nil {
		return err
	}

	return printJSON(result)
}

func statusAction(ctx context.Context, command *cli.Command) error {
	service, store, err := newService(command)
	if err != nil {
		return err
	}
	defer store.Close(ctx) //nolint:errcheck

	return printJSON(service.GetExecutionStatus(ctx, command.String("task-id")))
}

func watchAction(ctx context.Context, command *cli.Command) error {
	service, store, err := newService(command)
	if err != nil {
		return err
	}
	defer store.Close(ctx) //nolint:errcheck

	taskID := command.String("task-id")
	interval := service.ExecutionConfig(ctx).PollingDuration()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var lastStatus string

	for {
		status := service.GetExecutionStatus(ctx, taskID)
		if status.Status != lastStatus {
			lastStatus = status.Status

			if err := printJSON(status); err != nil {
				return err
			}
		}

		if watchDone(status) {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// watchDone reports whether the watch loop has nothing left to wait for:
// a terminal workflow status, or an unparseable record the orchestrator
// will not repair.
func watchDone(status handoff.ExecutionStatus) bool {
	return models.WorkflowStatus(status.Status).Terminal() || status.Status == handoff.StatusError
}

func stopAction(ctx context.Context, command *cli.Command) error {
	service, store, err := newService(command)
	if err != nil {
		return err
	}
	defer store.Close(ctx) //nolint:errcheck

	result := service.StopExecution(ctx, command.String("task-id"))
	if err := printJSON(result); err != nil {
		return err
	}

	if !result.Success {
		return errors.New(result.Error)
	}

	return nil
}

func cleanupAction(ctx context.Context, command *cli.Command) error {
	service, store, err := newService(command)
	if err != nil {
		return err
	}
	defer store.Close(ctx) //nolint:errcheck

	service.CleanupExecution(ctx, command.String("task-id"))

	fmt.Println("cleaned up")

	return nil
}

func supportedAction(ctx context.Context, command *cli.Command) error {
	service, store, err := newService(command)
	if err != nil {
		return err
	}
	defer store.Close(ctx) //nolint:errcheck

	return printJSON(map[string]bool{"supported": service.AutoExecutionSupported(ctx)})
}

func configGetAction(ctx context.Context, command *cli.Command) error {
	service, store, err := newService(command)
	if err != nil {
		return err
	}
	defer store.Close(ctx) //nolint:errcheck

	return printJSON(service.ExecutionConfig(ctx))
}

func configSetAction(ctx context.Context, command *cli.Command) error {
	service, store, err := newService(command)
	if err != nil {
		return err
	}
	defer store.Close(ctx) //nolint:errcheck

	config := models.ExecutionConfig{
		AutoExecute:            command.Bool("auto-execute"),
		FallbackToManual:       command.Bool("fallback-to-manual"),
		CleanupAfterCompletion: command.Bool("cleanup-after-completion"),
		PollingInterval:        int(command.Int("polling-interval")),
	}

	if !service.SaveExecutionConfig(ctx, config) {
		return errors.New("failed to persist execution config")
	}

	return printJSON(config)
}
