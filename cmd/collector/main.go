package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/klimeurt/healthcare-repo-collector/internal/collector"
	"github.com/klimeurt/healthcare-repo-collector/internal/config"
	"github.com/klimeurt/healthcare-repo-collector/internal/report"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(cfg).ExecuteContext(ctx); err != nil {
		slog.Error("Collector failed", "error", err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd(cfg *config.Config) *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "collector",
		Short: "Collect healthcare dataset repositories from GitHub",
		Long: `Searches GitHub for healthcare dataset repositories, removes duplicates,
files each one under a category and writes a CSV export plus a markdown summary.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Validate(); err != nil {
				return err
			}

			logger := newLogger(cmd.ErrOrStderr(), verbose)
			slog.SetDefault(logger)

			if cfg.CronSchedule == "" {
				return run(cmd.Context(), cfg, logger)
			}
			return runScheduled(cmd.Context(), cfg, logger)
		},
	}

	f := cmd.Flags()
	f.IntVar(&cfg.Target, "target", cfg.Target, "Target number of unique repositories")
	f.IntVar(&cfg.MaxPages, "max-pages", cfg.MaxPages, "Max pages per query (GitHub caps search at 1000 results)")
	f.IntVar(&cfg.PerPage, "per-page", cfg.PerPage, "Items per page")
	f.Float64Var(&cfg.SleepSeconds, "sleep", cfg.SleepSeconds, "Sleep between requests (seconds)")
	f.StringVar(&cfg.CSVOutput, "csv-output", cfg.CSVOutput, "Output CSV path")
	f.StringVar(&cfg.SummaryOutput, "summary-output", cfg.SummaryOutput, "Output summary markdown path")
	f.StringArrayVar(&cfg.Queries, "query", cfg.Queries, "Search query, repeatable (default: built-in healthcare queries)")
	f.StringVar(&cfg.APIURL, "api-url", cfg.APIURL, "GitHub API base URL")
	f.StringVar(&cfg.NATSUrl, "nats-url", cfg.NATSUrl, "Publish collected repositories to this NATS server")
	f.StringVar(&cfg.NATSSubject, "nats-subject", cfg.NATSSubject, "NATS subject to publish to")
	f.StringVar(&cfg.CronSchedule, "schedule", cfg.CronSchedule, "Cron schedule for repeated runs")
	f.BoolVar(&cfg.RunOnStartup, "run-on-startup", cfg.RunOnStartup, "With --schedule, also run once immediately")
	f.BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	return cmd
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// run performs one complete collection and writes its outputs.
func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	searcher, err := collector.NewGitHubSearcher(cfg.APIURL)
	if err != nil {
		return err
	}

	queries := cfg.Queries
	if len(queries) == 0 {
		queries = collector.DefaultQueries
	}

	c := collector.New(searcher, collector.Options{
		Target:   cfg.Target,
		MaxPages: cfg.MaxPages,
		PerPage:  cfg.PerPage,
		Delay:    cfg.Delay(),
	}, logger)

	records, err := c.Collect(ctx, queries)
	if err != nil {
		return fmt.Errorf("fetch failed: %w", err)
	}

	if err := report.WriteCSV(records, cfg.CSVOutput); err != nil {
		return err
	}
	if err := report.WriteSummary(records, cfg.SummaryOutput, cfg.Target); err != nil {
		return err
	}

	logger.Info("Collection finished", "repositories", len(records))
	logger.Info("CSV written", "path", cfg.CSVOutput)
	logger.Info("Summary written", "path", cfg.SummaryOutput)

	if cfg.NATSUrl != "" {
		publisher, err := collector.NewPublisher(cfg.NATSUrl, cfg.NATSSubject, logger)
		if err != nil {
			return err
		}
		defer publisher.Close()

		if _, err := publisher.Publish(records); err != nil {
			return err
		}
	}

	if len(records) < cfg.Target {
		logger.Warn("Target not reached. Add more queries or rerun with broader keywords.",
			"target", cfg.Target, "collected", len(records))
	}
	return nil
}

// runScheduled repeats run on the configured cron schedule until ctx is done.
func runScheduled(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	cl := cronLogger{logger}
	c := cron.New(cron.WithLogger(cl), cron.WithChain(cron.SkipIfStillRunning(cl)))

	id, err := c.AddFunc(cfg.CronSchedule, func() {
		if err := run(ctx, cfg, logger); err != nil {
			logger.Error("Scheduled run failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to add cron job: %w", err)
	}

	c.Start()
	logger.Info("Cron scheduler started", "schedule", cfg.CronSchedule)

	// The startup pass goes through the wrapped job so a tick firing while
	// it is still running is skipped.
	if cfg.RunOnStartup {
		logger.Info("Running initial collection on startup")
		c.Entry(id).WrappedJob.Run()
	}

	<-ctx.Done()
	logger.Info("Shutting down")
	<-c.Stop().Done()
	return nil
}

// cronLogger routes cron's internal logging through slog.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error(msg, append(keysAndValues, "error", err)...)
}
