// Package cli wires the portal commands together.
package cli

import (
	"fmt"
	"runtime"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/csheth/portal/internal/config"
	"github.com/csheth/portal/internal/logging"
	"github.com/csheth/portal/internal/tui"
	"github.com/csheth/portal/internal/upload"
)

type globalOptions struct {
	configPath string
	logFile    string
	verbose    bool
}

type portalOptions struct {
	endpoint    string
	startDir    string
	noAltScreen bool
}

// NewRootCommand creates the root command. Without a subcommand it runs the TUI.
func NewRootCommand(version, commit, date string) *cobra.Command {
	global := &globalOptions{}
	opts := &portalOptions{}

	rootCmd := &cobra.Command{
		Use:   "portal",
		Short: "Digital services portal with a simulated file upload",
		Long: `portal is a terminal front end for the Digital Services pages.

The Upload page stages one local file and posts it to an upload endpoint as
multipart form data. Run "portal serve" in another terminal for a local
endpoint that accepts and discards uploads.`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPortal(cmd, global, opts)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&global.configPath, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().StringVar(&global.logFile, "log-file", "", "write logs to this file")
	rootCmd.PersistentFlags().BoolVarP(&global.verbose, "verbose", "v", false, "debug logging")

	bindPortalFlags(rootCmd, opts)

	rootCmd.AddCommand(newServeCommand(global))
	rootCmd.AddCommand(newVersionCommand(version, commit, date))

	return rootCmd
}

func runPortal(cmd *cobra.Command, global *globalOptions, opts *portalOptions) error {
	cfg, err := loadConfig(global)
	if err != nil {
		return err
	}
	applyPortalFlags(cmd, cfg, opts)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// The TUI owns the terminal, so logs only go to a file.
	logger, closeLog, err := logging.New(logging.Options{
		File:    cfg.Log.File,
		Level:   cfg.Log.Level,
		Verbose: global.verbose,
	})
	if err != nil {
		return err
	}
	defer closeLog()

	model, err := buildModel(cfg, logger)
	if err != nil {
		return err
	}

	programOpts := []tea.ProgramOption{}
	if !opts.noAltScreen {
		programOpts = append(programOpts, tea.WithAltScreen())
	}
	logger.WithField("endpoint", cfg.Upload.Endpoint).Info("portal starting")
	if _, err := tea.NewProgram(model, programOpts...).Run(); err != nil {
		return fmt.Errorf("program error: %w", err)
	}
	return nil
}

func loadConfig(global *globalOptions) (*config.Config, error) {
	cfg, err := config.NewLoader().Load(global.configPath)
	if err != nil {
		return nil, err
	}
	if global.logFile != "" {
		cfg.Log.File = global.logFile
	}
	return cfg, nil
}

func bindPortalFlags(cmd *cobra.Command, opts *portalOptions) {
	cmd.Flags().StringVar(&opts.endpoint, "endpoint", "", "upload endpoint URL")
	cmd.Flags().StringVar(&opts.startDir, "start-dir", "", "directory the file picker opens in")
	cmd.Flags().BoolVar(&opts.noAltScreen, "no-alt-screen", false, "disable the alternate screen buffer")
}

// applyPortalFlags lets explicitly set flags win over files and environment.
func applyPortalFlags(cmd *cobra.Command, cfg *config.Config, opts *portalOptions) {
	if cmd.Flags().Changed("endpoint") {
		cfg.Upload.Endpoint = opts.endpoint
	}
	if cmd.Flags().Changed("start-dir") {
		cfg.Picker.StartDir = opts.startDir
	}
}

func buildModel(cfg *config.Config, logger logrus.FieldLogger) (tea.Model, error) {
	uploader, err := upload.NewHTTPUploader(upload.HTTPConfig{
		Endpoint: cfg.Upload.Endpoint,
		Timeout:  cfg.Upload.Timeout,
		Logger:   logger,
	})
	if err != nil {
		return nil, err
	}
	return tui.New(tui.Config{
		Uploader:   uploader,
		Endpoint:   uploader.Endpoint(),
		StartDir:   cfg.Picker.StartDir,
		ShowHidden: cfg.Picker.ShowHidden,
		Logger:     logger,
	}), nil
}

func newVersionCommand(version, commit, date string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			displayVersion := version
			displayCommit := commit
			displayDate := date

			if version == "dev" || version == "" {
				displayVersion = "development"
			}
			if commit == "none" || commit == "" {
				displayCommit = "local-build"
			}
			if date == "unknown" || date == "" {
				displayDate = "local-build"
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "portal %s (%s) built on %s\n", displayVersion, displayCommit, displayDate)
			fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
			fmt.Fprintf(out, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}
