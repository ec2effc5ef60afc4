package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/LJTian/InspireFeed/internal/aggregator"
	"github.com/LJTian/InspireFeed/internal/collector"
	"github.com/LJTian/InspireFeed/internal/config"
	"github.com/LJTian/InspireFeed/internal/logger"
	"github.com/LJTian/InspireFeed/internal/scheduler"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// 仅执行一次聚合或一次探活的命令行入口：适合手动排查上游问题
func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		pretty  bool
		timeout time.Duration
	)

	root := &cobra.Command{
		Use:           "aggregate",
		Short:         "Run one content aggregation and print the JSON payload",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, zl, err := setup()
			if err != nil {
				return err
			}
			defer func() { _ = zl.Sync() }()

			src := collector.NewSources(cfg)
			agg := aggregator.New(src.HackerNews, src.Reddit, src.OpenLibrary, src.Gutendex,
				aggregator.WithLogger(zl))

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			resp, err := agg.Aggregate(ctx)
			if err != nil {
				zl.Error("content aggregation failed", zap.Error(err))
				return err
			}
			zl.Info("content aggregated", zap.String("article_source", resp.ArticleSource))

			enc := json.NewEncoder(cmd.OutOrStdout())
			if pretty {
				enc.SetIndent("", "  ")
			}
			return enc.Encode(resp)
		},
	}
	root.Flags().BoolVar(&pretty, "pretty", false, "indent the JSON output")
	root.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "overall deadline for the aggregation")

	root.AddCommand(&cobra.Command{
		Use:   "probe",
		Short: "Probe every upstream once and print the results",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, zl, err := setup()
			if err != nil {
				return err
			}
			defer func() { _ = zl.Sync() }()

			src := collector.NewSources(cfg)
			s, err := scheduler.New("", src.Client, src.Endpoints(), zl)
			if err != nil {
				return err
			}
			s.RunOnce()

			down := 0
			for _, r := range s.Results() {
				status := "up"
				if !r.Up {
					status = "DOWN " + r.Error
					down++
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-12s %5dms  %s\n", r.Source, r.LatencyMS, status)
			}
			if down > 0 {
				return fmt.Errorf("%d upstream(s) down", down)
			}
			return nil
		},
	})

	return root
}

func setup() (*config.Config, *zap.Logger, error) {
	cfg := config.Load()
	zl, err := logger.New(cfg.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	for _, w := range cfg.Warnings {
		zl.Warn("config", zap.String("warning", w))
	}
	return cfg, zl, nil
}
