package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/chainguard-dev/clog"
	"github.com/spf13/cobra"

	"github.com/sikraken/runreport/internal/config"
)

var (
	cfgFile  string
	logLevel string
)

func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "runreport",
		Short:        "Summarize a test generation category run into a publishable report",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path (defaults are used when unset)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	root.AddCommand(newReportCmd())
	root.AddCommand(newRewriteCmd())
	root.AddCommand(newListCmd())
	root.AddCommand(newValidateCmd())
	return root
}

// setup loads the config and returns a context carrying a logger that writes
// to the command's stderr.
func setup(cmd *cobra.Command) (context.Context, *config.Config, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.Load(ctx, cfgFile)
	if err != nil {
		return nil, nil, err
	}
	level := cfg.Level()
	if logLevel != "" {
		if err := level.UnmarshalText([]byte(logLevel)); err != nil {
			return nil, nil, fmt.Errorf("--log-level: %w", err)
		}
	}
	logger := clog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	return clog.WithLogger(ctx, logger), cfg, nil
}
