package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/okhramov/perimeter-sentinel/internal/config"
	"github.com/okhramov/perimeter-sentinel/internal/logger"
	"github.com/okhramov/perimeter-sentinel/internal/service/monitor"
	"github.com/okhramov/perimeter-sentinel/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string
	// logLevel for the process logger.
	logLevel string
	// plainConsole disables the ANSI status screen.
	plainConsole bool

	// rootCmd represents the base command for running the monitor.
	rootCmd = &cobra.Command{
		Use:   "sentinel [listen-address]",
		Short: "Run the perimeter intrusion monitor.",
		Long: `Starts the perimeter monitor that polls the motion and distance sensors,
drives the alert output and serves the status dashboard over HTTP.

The dashboard listens on the address from the configuration file.
A listen address can be provided as argument to override it (e.g., :9090).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			if level, ok := logger.ParseLogLevel(logLevel); ok {
				logger.SetLevel(level)
			}

			// Use listen address argument if provided, otherwise rely on config.
			var httpAddress string
			if len(args) > 0 {
				httpAddress = args[0]
			}

			options := &monitor.Options{
				ConfigPath:   configPath,
				HTTPAddress:  httpAddress,
				PlainConsole: plainConsole,
			}

			return monitor.Run(ctx, options)
		},
	}
)

// Execute runs the sentinel CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.Flags().StringVarP(&logLevel, "log-level", "l", "info", "log level (debug, info, warn, error)")
	rootCmd.Flags().BoolVar(&plainConsole, "plain-console", false, "print status lines without repainting the screen")
}
