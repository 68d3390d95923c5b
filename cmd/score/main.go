// Command score runs batch scoring passes from the command line.
//
// Usage:
//
//	hubgrove-score hubs
//	hubgrove-score posts
//	hubgrove-score all
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/hubgrove/hubgrove-engine/internal/config"
	"github.com/hubgrove/hubgrove-engine/internal/db"
	"github.com/hubgrove/hubgrove-engine/internal/scoring"
	"github.com/hubgrove/hubgrove-engine/internal/store"
)

var logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	root := &cobra.Command{
		Use:   "hubgrove-score",
		Short: "Hubgrove batch scoring CLI",
	}

	root.AddCommand(hubsCmd())
	root.AddCommand(postsCmd())
	root.AddCommand(allCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func hubsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hubs",
		Short: "Recompute hub popularity scores",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPass(func(ctx context.Context, runner *scoring.Runner) error {
				_, err := runner.RunHubPopularity(ctx)
				return err
			})
		},
	}
}

func postsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "posts",
		Short: "Recompute post trending scores",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPass(func(ctx context.Context, runner *scoring.Runner) error {
				_, err := runner.RunPostTrending(ctx)
				return err
			})
		},
	}
}

func allCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "all",
		Short: "Run both batch passes",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPass(func(ctx context.Context, runner *scoring.Runner) error {
				if _, err := runner.RunHubPopularity(ctx); err != nil {
					return err
				}
				_, err := runner.RunPostTrending(ctx)
				return err
			})
		},
	}
}

// runPass wires config, pool, and runner around a single pass invocation.
func runPass(fn func(ctx context.Context, runner *scoring.Runner) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	pool, err := db.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	runner := scoring.NewRunner(store.New(pool), logger)
	return fn(ctx, runner)
}
