package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/okhramov/perimeter-sentinel/internal/config"
	"github.com/okhramov/perimeter-sentinel/internal/service/status"
	"github.com/okhramov/perimeter-sentinel/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string

	// rootCmd represents the base command for querying monitor status.
	rootCmd = &cobra.Command{
		Use:   "sentinel-status [address]",
		Short: "Query a running perimeter monitor for its latest status.",
		Long: `Fetches the latest status snapshot from a running sentinel monitor
and prints it as a single line.

The monitor address comes from the configuration file and can be
overridden with an argument (e.g., sentinel.local:8080).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			var address string
			if len(args) > 0 {
				address = args[0]
			}

			options := &status.Options{
				ConfigPath: configPath,
				Address:    address,
			}

			return status.Run(ctx, options)
		},
	}
)

// Execute runs the sentinel-status CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
}
