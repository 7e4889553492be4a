package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/oshokin/soil-node/internal/config"
	"github.com/oshokin/soil-node/internal/domain/soil"
	"github.com/oshokin/soil-node/internal/service/client"
	"github.com/oshokin/soil-node/internal/version"
)

var (
	// cfgPath stores the configuration file path.
	cfgPath string
	// interval is the delay between attempts.
	interval time.Duration

	// rootCmd represents the base command for switching the pump off.
	rootCmd = &cobra.Command{
		Use:   "pump-off [server-address]",
		Short: "Switch the water pump off.",
		Long: `Switches the water pump of the soil node off.

Sends the OFF command to the node continuously until the node confirms that the pump
relay was released. Server address can be provided as argument or loaded from
configuration file. The caller's username@hostname is recorded in the node log.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			// Use server address argument if provided, otherwise rely on config.
			var serverAddress string
			if len(args) > 0 {
				serverAddress = args[0]
			}

			return client.Switch(ctx, &client.Options{
				ConfigPath:    cfgPath,
				ServerAddress: serverAddress,
				Command:       soil.SwitchOff,
				PushInterval:  interval,
			})
		},
	}
)

// Execute runs the pump-off CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.Flags().DurationVarP(&interval, "interval", "i", time.Second, "delay between attempts")
}
