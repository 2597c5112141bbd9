package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"tat/internal/browser"
	"tat/internal/config"
	"tat/internal/discovery"
	"tat/internal/domain"
	"tat/internal/execution"
	"tat/internal/parser"
	"tat/internal/report"
	"tat/internal/storage"
	"tat/internal/ui"
)

// RunCommand handles the run command
type RunCommand struct {
	config    *config.Config
	logger    *zap.Logger
	formatter *ui.Formatter
	viewer    ui.Viewer
}

// NewRunCommand creates a new RunCommand
func NewRunCommand(cfg *config.Config, logger *zap.Logger, formatter *ui.Formatter, viewer ui.Viewer) *RunCommand {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RunCommand{
		config:    cfg,
		logger:    logger,
		formatter: formatter,
		viewer:    viewer,
	}
}

// Execute runs the command
func (rc *RunCommand) Execute(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Discover cases
	cases, err := loadCases(rc.config)
	if err != nil {
		return err
	}
	scenarios := selectScenarios(rc.config)

	st := storage.NewCSVStorage(rc.config.GetReportPath())
	if rc.config.Flags.OnlyFailed {
		cases, scenarios, err = rc.onlyFailed(st, cases, scenarios)
		if err != nil {
			return err
		}
	}

	jobs := execution.Jobs(cases, scenarios)
	if len(jobs) == 0 {
		color.Yellow("No cases to execute")
		return nil
	}

	// Start the browser
	session := browser.NewSession(rc.config, rc.logger)
	if err := session.Start(ctx); err != nil {
		return err
	}
	defer func() {
		if err := session.Shutdown(); err != nil {
			rc.logger.Warn("browser shutdown failed", zap.Error(err))
		}
	}()

	open := func(ctx context.Context, workerID int) (execution.Surface, func(), error) {
		page, err := session.NewPage(ctx)
		if err != nil {
			return nil, nil, err
		}
		release := func() {
			if err := page.Close(); err != nil {
				rc.logger.Debug("close page failed", zap.Int("worker", workerID), zap.Error(err))
			}
		}
		return page, release, nil
	}

	runner := execution.NewRunner(rc.config, rc.logger)
	pool := execution.NewWorkerPool(rc.config, runner, execution.NewRoundRobinScheduler(), open, rc.logger)
	pool.SetProgress(ui.NewProgressBar(len(jobs)))

	reporter := report.NewReporter(st, parser.NewAssertionParser(), rc.logger, os.Stdout)
	if err := reporter.OnBegin(len(jobs), rc.config.GetWorkers()); err != nil {
		return err
	}

	interrupted, err := rc.execute(ctx, pool, reporter, jobs)
	if err != nil && !interrupted {
		return err
	}

	summary := reporter.OnEnd(interrupted)
	rc.formatter.PrintMetaStats(summary)

	if interrupted {
		return errors.New("run interrupted")
	}
	if summary.Failed == 0 {
		return nil
	}

	if rc.config.Flags.OpenFaills {
		if err := rc.viewer.View(summary.Failures); err != nil {
			return err
		}
	}
	return fmt.Errorf("%d case(s) failed", summary.Failed)
}

// execute runs jobs on executor and reports every result as it finishes.
// A failing reporter cancels the run.
func (rc *RunCommand) execute(ctx context.Context, executor execution.Executor, reporter *report.Reporter, jobs []execution.Job) (bool, error) {
	results := make(chan domain.Result, rc.config.GetWorkers())
	consumerStopped := make(chan struct{})
	executor.SetConsumerStopped(consumerStopped)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		_, err := executor.ExecuteWithOptions(gctx, jobs, rc.config.Flags.FailFast, results)
		return err
	})
	g.Go(func() error {
		defer close(consumerStopped)
		return reporter.Consume(results)
	})

	err := g.Wait()
	return ctx.Err() != nil, err
}

// onlyFailed keeps the cases and scenarios that failed in the last report
func (rc *RunCommand) onlyFailed(st storage.Storage, cases []domain.TestCase, scenarios []execution.Scenario) ([]domain.TestCase, []execution.Scenario, error) {
	previous, err := report.LoadResults(st)
	if err != nil {
		return nil, nil, fmt.Errorf("load last report: %w", err)
	}
	failed := report.FailedIDs(previous)
	rc.logger.Debug("rerunning failed cases", zap.Int("count", len(failed)))

	filter := discovery.NewFilter(rc.config.ReservedPrefixes, rc.config.ReservedIDs)
	cases = filter.OnlyIDs(cases, failed)

	var kept []execution.Scenario
	for _, sc := range scenarios {
		if failed[sc.ID()] {
			kept = append(kept, sc)
		}
	}
	return cases, kept, nil
}
