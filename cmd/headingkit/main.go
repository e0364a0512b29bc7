package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dgallion1/headingkit/internal/config"
)

var (
	cfg        *config.Config
	configPath string
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	rootCmd := &cobra.Command{
		Use:          "headingkit",
		Short:        "Sort, move, cut and navigate markdown heading sections",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load(configPath)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ./headingkit.yaml)")

	rootCmd.AddCommand(
		treeCmd(),
		findCmd(),
		sortCmd(),
		moveCmd(),
		cutCmd(),
		strikeCmd(),
		jumpCmd(),
		nowCmd(),
	)

	rootCmd.SetContext(ctx)

	err := rootCmd.Execute()
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func newLogger() *slog.Logger {
	if cfg == nil {
		return slog.New(slog.NewTextHandler(os.Stderr, nil))
	}
	return cfg.Logging.NewLogger(os.Stderr)
}
