package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"ascendlog/internal/logging"
	"ascendlog/internal/server"
	"ascendlog/pkg/config"
)

// ServeOptions holds command-line options for the serve command.
type ServeOptions struct {
	Addr     string
	LogLevel string
}

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	opts := &ServeOptions{}

	cmd := &cobra.Command{
		Use:   "serve <config-file>",
		Short: "Serve entries and analytics over HTTP",
		Long: `Run a local HTTP server exposing the parsed journal.

Endpoints:
  GET  /api/analytics   full analytics report
  GET  /api/entries     parsed entries
  POST /api/entries     append a new journal block and re-parse

The journal is re-read on every request, so external edits to the log
file are picked up without a restart.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, args, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Addr, "addr", "", "Listen address (overrides server.addr)")
	cmd.Flags().StringVar(&opts.LogLevel, "log-level", "info", "Log level (debug|info|warn|error)")

	return cmd
}

func runServe(cmd *cobra.Command, args []string, opts *ServeOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	logging.Init(false, logging.ParseLevel(opts.LogLevel))

	cfg, err := config.Load(ctx, args[0])
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	addr := cfg.Server.Addr
	if opts.Addr != "" {
		addr = opts.Addr
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := server.New(cfg)
	if err := srv.Run(ctx, addr); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	return nil
}
