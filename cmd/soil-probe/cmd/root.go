package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/soil-node/internal/config"
	"github.com/oshokin/soil-node/internal/service/client"
	"github.com/oshokin/soil-node/internal/version"
)

var (
	// cfgPath stores the configuration file path.
	cfgPath string
	// sample requests a fresh acquisition before reading.
	sample bool

	// rootCmd represents the base command for reading the soil moisture.
	rootCmd = &cobra.Command{
		Use:   "soil-probe [server-address]",
		Short: "Print the last soil moisture reading.",
		Long: `Prints the last moisture payload published by the soil node, e.g. {"soil_moisture": 50}.

With --sample the node is asked for an immediate acquisition cycle first, and the command
waits for a reading published after that request. Readings are mapped between the dry
and wet calibration points and are not clamped, so values below 0 or above 100 point at
a probe that needs recalibration.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			var serverAddress string
			if len(args) > 0 {
				serverAddress = args[0]
			}

			reading, err := client.Probe(ctx, &client.ProbeOptions{
				ConfigPath:    cfgPath,
				ServerAddress: serverAddress,
				Sample:        sample,
			})
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), reading.Payload)

			return err
		},
	}
)

// Execute runs the soil-probe CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.Flags().BoolVarP(&sample, "sample", "s", false, "request a fresh sample before reading")
}
