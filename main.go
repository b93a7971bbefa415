// Command accessbench times the same reads and writes through several
// client paths against one relational store.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"slices"
	"syscall"

	"accessbench/bench"
	"accessbench/cache"
	"accessbench/store"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	root := newRootCmd(env.ToMap(os.Environ()))
	err := root.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(environ map[string]string) *cobra.Command {
	cfg, cfgErr := LoadConfig(environ)

	cmd := &cobra.Command{
		Use:   "accessbench",
		Short: "Compare data-access latency across client paths",
		Long: `accessbench runs the same flat reads, nested reads and graph writes
through every configured client path and reports the wall-clock time of
each call. Rows written by the benchmark are deleted again before exit.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cfgErr != nil {
				return cfgErr
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			level, _ := cfg.Level()
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
				Level: level,
			}))
			return run(cmd.Context(), logger, cmd.OutOrStdout(), cfg)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&cfg.Dialect, "dialect", cfg.Dialect,
		"Store dialect: postgres, mysql, sqlite")
	flags.StringVar(&cfg.DatabaseURL, "dsn", cfg.DatabaseURL,
		"Database URL (sqlite: file path)")
	flags.StringVar(&cfg.RESTURL, "rest-url", cfg.RESTURL,
		"PostgREST base URL; the rest path is skipped when empty")
	flags.StringSliceVar(&cfg.Paths, "paths", cfg.Paths,
		"Client paths to run (rest,orm,orm-raw,orm-cached,sqlb,pgx); default all available")
	flags.IntVar(&cfg.RowLimit, "limit", cfg.RowLimit,
		"Row limit of the read scenarios")
	flags.IntVar(&cfg.ReadRepeats, "read-repeats", cfg.ReadRepeats,
		"Times to repeat the read phase")
	flags.IntVar(&cfg.WriteRepeats, "write-repeats", cfg.WriteRepeats,
		"Times to repeat the write phase")
	flags.DurationVar(&cfg.CacheTTL, "cache-ttl", cfg.CacheTTL,
		"Read cache TTL; enables orm-cached together with BENCH_REDIS_URL")
	flags.BoolVar(&cfg.JSON, "json", false,
		"Output results as JSON instead of a table")

	return cmd
}

func run(ctx context.Context, logger *slog.Logger, out io.Writer, cfg Config) error {
	d, err := store.ParseDialect(cfg.Dialect)
	if err != nil {
		return err
	}
	kinds, err := selectKinds(cfg, d)
	if err != nil {
		return err
	}
	if len(kinds) == 0 {
		return fmt.Errorf("no client paths available for %s", d.Name)
	}

	var dsn string
	if slices.ContainsFunc(kinds, func(k bench.Kind) bool { return k != bench.KindREST }) {
		if dsn, err = cfg.DSN(d); err != nil {
			return err
		}
	}

	var c *cache.Store
	if slices.Contains(kinds, bench.KindORMCached) {
		rc, err := cache.Dial(ctx, cfg.RedisURL)
		if err != nil {
			return err
		}
		defer rc.Close()
		c = cache.New(rc, "accessbench:")
	}

	logger.InfoContext(ctx, "starting benchmark",
		slog.String("dialect", d.Name),
		slog.Any("paths", kinds),
		slog.Int("limit", cfg.RowLimit),
		slog.Int("read_repeats", cfg.ReadRepeats),
		slog.Int("write_repeats", cfg.WriteRepeats),
	)

	paths, err := openPaths(ctx, logger, cfg, d, dsn, c, kinds)
	if err != nil {
		return err
	}
	defer closePaths(ctx, logger, paths)

	metrics := bench.NewMetrics()
	runner := &bench.Runner{
		Paths:   paths,
		Params:  cfg.Params(),
		Logger:  logger,
		Metrics: metrics,
		Janitor: bench.NewJanitor(logger, metrics, cfg.AsyncCleanup),
	}
	results, err := runner.Run(ctx)
	if err != nil {
		return err
	}

	if cfg.JSON {
		if err := bench.RenderJSON(out, results); err != nil {
			return err
		}
	} else {
		if err := bench.Render(out, results); err != nil {
			return err
		}
		if cfg.ReadRepeats > 1 || cfg.WriteRepeats > 1 {
			if err := bench.RenderSummary(out, bench.Summarize(results)); err != nil {
				return err
			}
		}
	}

	if cfg.PushgatewayURL != "" {
		if err := metrics.Push(ctx, cfg.PushgatewayURL); err != nil {
			logger.WarnContext(ctx, "push metrics", slog.Any("error", err))
		}
	}
	return nil
}
