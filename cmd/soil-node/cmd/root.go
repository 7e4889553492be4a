package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/soil-node/internal/config"
	"github.com/oshokin/soil-node/internal/logger"
	"github.com/oshokin/soil-node/internal/service/node"
	"github.com/oshokin/soil-node/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string

	// rootCmd represents the base command for running the soil node.
	rootCmd = &cobra.Command{
		Use:   "soil-node [listen-address]",
		Short: "Sample soil moisture and drive the water pump.",
		Long: `Starts the soil node: samples the moisture probe on a fixed interval, publishes
the calibrated reading and switches the water pump on command.

The gRPC control API listens on the specified address or on the port of server_addr
from the configuration file (e.g., :7070). Hardware backends are selected per device
in the configuration: "periph" for the MCP3008 probe and GPIO relay, "simulated" for
bench runs. The node exits with a non-zero status on an unrecoverable fault so that
the service manager restarts it.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			defer logger.Sync()

			// Use listen address argument if provided, otherwise rely on config.
			var listenAddress string
			if len(args) > 0 {
				listenAddress = args[0]
			}

			return node.Run(ctx, &node.Options{
				ConfigPath:    configPath,
				ListenAddress: listenAddress,
			})
		},
	}
)

// Execute runs the soil-node CLI and exits with non-zero status on error.
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
