package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dukex/agentics/pkg/adwconfig"
	"github.com/dukex/agentics/pkg/eventbus"
	"github.com/dukex/agentics/pkg/orchestrator"
	"github.com/dukex/agentics/pkg/otelhelper"
	"github.com/robfig/cron/v3"
)

// sweepSchedule runs the aged-task sweep hourly.
const sweepSchedule = "@hourly"

type Orchestrator struct {
	id            string
	root          string
	pipelinesPath string
	cleanupAge    time.Duration
	tracing       bool
	config        *adwconfig.Store
	bus           eventbus.EventBus
	logger        *slog.Logger
	cron          *cron.Cron
}

func NewOrchestrator(
	id string,
	root string,
	pipelinesPath string,
	cleanupAge time.Duration,
	tracing bool,
	config *adwconfig.Store,
	bus eventbus.EventBus,
	logger *slog.Logger,
) *Orchestrator {
	return &Orchestrator{
		id:            id,
		root:          root,
		pipelinesPath: pipelinesPath,
		cleanupAge:    cleanupAge,
		tracing:       tracing,
		config:        config,
		bus:           bus,
		logger:        logger.With("module", "adw-orchestrator", "worker_id", id),
	}
}

func (o *Orchestrator) Start(ctx context.Context) error {
	o.logger.InfoContext(ctx, "Starting orchestrator", "root", o.root)

	stages := orchestrator.NewScriptRunner(o.pipelinesPath, o.logger)
	runner := orchestrator.NewRunner(o.root, o.bus, stages, o.logger)

	if o.tracing {
		tracer, err := otelhelper.NewTracer(ctx, "adw-orchestrator")
		if err != nil {
			return err
		}

		runner = runner.WithTracer(tracer)
	}

	runner.Register()

	if err := o.bus.Subscribe(ctx); err != nil {
		o.logger.ErrorContext(ctx, "Failed to subscribe to event bus", "error", err)

		return err
	}

	config := o.config.Get(ctx)

	scanner := orchestrator.NewScanner(o.root, o.bus, o.logger)
	go func() {
		if err := scanner.Run(ctx, config.PollingDuration()); err != nil && ctx.Err() == nil {
			o.logger.ErrorContext(ctx, "Trigger scanner stopped", "error", err)
		}
	}()

	if config.CleanupAfterCompletion {
		if err := o.startSweeper(ctx); err != nil {
			return err
		}
	}

	o.logger.InfoContext(ctx, "Orchestrator started successfully", "polling_interval", config.PollingDuration())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigChan:
	case <-ctx.Done():
	}

	o.logger.InfoContext(ctx, "Shutting down orchestrator...")

	if o.cron != nil {
		o.cron.Stop()
	}

	return nil
}

func (o *Orchestrator) startSweeper(ctx context.Context) error {
	sweeper := orchestrator.NewSweeper(o.root, o.cleanupAge, o.logger)

	o.cron = cron.New(cron.WithChain(
		cron.SkipIfStillRunning(cron.DefaultLogger),
		cron.Recover(cron.DefaultLogger),
	))

	_, err := o.cron.AddFunc(sweepSchedule, func() {
		removed, err := sweeper.Sweep(ctx)
		if err != nil {
			o.logger.ErrorContext(ctx, "Aged task sweep failed", "error", err)

			return
		}

		if removed > 0 {
			o.logger.InfoContext(ctx, "Swept aged task directories", "removed", removed)
		}
	})
	if err != nil {
		return err
	}

	o.cron.Start()
	o.logger.InfoContext(ctx, "Started aged task sweeper", "max_age", o.cleanupAge)

	return nil
}
