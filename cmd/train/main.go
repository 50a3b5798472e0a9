package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pageza/mealmatch/backend/config"
	"github.com/pageza/mealmatch/backend/internal/app"
	"github.com/pageza/mealmatch/backend/internal/logger"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "train",
		Short:         "Operate the meal matching model outside the API server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newRunCmd(), newStatusCmd(), newSearchCmd())
	return root
}

// withApp loads configuration and runs fn against a fully wired application
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app.App) error) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	zl, err := logger.NewLogger(cfg.Environment.String(), cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = zl.Sync() }()

	ctx := cmd.Context()
	a, err := app.New(ctx, cfg, zl)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(ctx, a)
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Rebuild the model from the current catalog and persist it",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				result, err := a.Engine.Train(ctx)
				if err != nil {
					return fmt.Errorf("training failed: %w", err)
				}
				a.Logger.Info("training complete", zap.Int("corpus_size", result.CorpusSize))
				return printJSON(cmd, result)
			})
		},
	}
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the persisted model",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(_ context.Context, a *app.App) error {
				return printJSON(cmd, a.Engine.Status())
			})
		},
	}
}

func newSearchCmd() *cobra.Command {
	var limit, minMatch int
	cmd := &cobra.Command{
		Use:   "search INGREDIENT[,INGREDIENT...]",
		Short: "Rank recipes against a list of ingredients",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				results, err := a.Engine.SearchByIngredients(ctx, strings.Split(args[0], ","), limit, minMatch)
				if err != nil {
					return err
				}
				return printJSON(cmd, results)
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 10, "maximum number of results")
	cmd.Flags().IntVar(&minMatch, "min-match", 1, "minimum number of matching ingredients")
	return cmd
}
