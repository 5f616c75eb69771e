package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/csheth/portal/internal/config"
	"github.com/csheth/portal/internal/logging"
	"github.com/csheth/portal/internal/receiver"
)

type serveOptions struct {
	addr     string
	maxBytes int64
	reject   string
}

func newServeCommand(global *globalOptions) *cobra.Command {
	opts := &serveOptions{}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a local upload endpoint",
		Long: `Run a local stand-in for the upload endpoint.

Files posted to /api/upload as the multipart field "file" are read, counted,
and discarded. The response mirrors what the portal expects from a real
backend, so every status message can be exercised without cloud storage.`,
		Example: `  # Accept uploads on the default address
  portal serve

  # Reject everything to exercise the error path
  portal serve --reject "Storage quota exceeded"

  # Cap uploads at 1 MiB
  portal serve --max-bytes 1048576`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(global)
			if err != nil {
				return err
			}
			applyServeFlags(cmd, cfg, opts)
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			logger, closeLog, err := logging.New(logging.Options{
				File:     cfg.Log.File,
				Level:    cfg.Log.Level,
				Verbose:  global.verbose,
				Fallback: cmd.ErrOrStderr(),
			})
			if err != nil {
				return err
			}
			defer closeLog()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return receiver.ListenAndServe(ctx, cfg.Serve.Addr, receiver.Options{
				MaxBytes: cfg.Serve.MaxBytes,
				Reject:   opts.reject,
				Logger:   logger,
			})
		},
	}

	bindServeFlags(serveCmd, opts)
	return serveCmd
}

func bindServeFlags(cmd *cobra.Command, opts *serveOptions) {
	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().Int64Var(&opts.maxBytes, "max-bytes", 0, "largest accepted file in bytes, 0 for unlimited")
	cmd.Flags().StringVar(&opts.reject, "reject", "", "answer every upload with 422 and this message")
}

func applyServeFlags(cmd *cobra.Command, cfg *config.Config, opts *serveOptions) {
	if cmd.Flags().Changed("addr") {
		cfg.Serve.Addr = opts.addr
	}
	if cmd.Flags().Changed("max-bytes") {
		cfg.Serve.MaxBytes = opts.maxBytes
	}
}
