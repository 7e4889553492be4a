package client

import (
	"context"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/oshokin/soil-node/internal/config"
	"github.com/oshokin/soil-node/internal/domain/soil"
	"github.com/oshokin/soil-node/internal/logger"
	"github.com/oshokin/soil-node/internal/service/common"
)

// Options configures the pump switch command.
type Options struct {
	// ConfigPath to YAML settings file, defaults to standard filename if empty.
	ConfigPath string

	// ServerAddress overrides server address from config when specified.
	ServerAddress string

	// Command is the pump state to request.
	Command soil.SwitchCommand

	// PushInterval is the delay between attempts, defaultPushInterval if zero.
	PushInterval time.Duration
}

// defaultPushInterval defines retry delay when pushing the command to the node.
const defaultPushInterval = 1 * time.Second

// Switch sends the pump command with retry logic until success or cancellation.
func Switch(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "pump-"+opts.Command.String())

	// Load settings from configuration file.
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}

	// Identify current user and hostname for the node's audit log.
	actor, err := common.DetectActor()
	if err != nil {
		return err
	}

	// Connect to the node with timeout from config.
	client, err := common.Dial(ctx, serverAddress(cfg, opts.ServerAddress),
		common.WithCallTimeout(cfg.Timeout),
		common.WithActor(actor),
	)
	if err != nil {
		return err
	}

	// Close connection on function exit.
	defer func() {
		_ = client.Close()
	}()

	logger.InfoKV(ctx, "Pushing pump command",
		"server_address", serverAddress(cfg, opts.ServerAddress),
		"command", opts.Command,
	)

	// attempt tries once to switch the pump, returns (completed, error).
	attempt := func() (bool, error) {
		applied, err := client.SetSwitch(ctx, opts.Command)
		if err == nil {
			logger.Infof(ctx, "Pump switched %s by %s (%s)", opts.Command, actor, applied.Format(time.RFC3339))

			return true, nil
		}

		// The node will never accept a malformed command.
		if status.Code(err) == codes.InvalidArgument {
			return false, err
		}

		// Log error but continue retrying for transient failures.
		logger.ErrorKV(ctx, "SetSwitch failed", "error", err)

		return false, nil
	}

	return retry(ctx, opts.PushInterval, attempt)
}

// retry calls attempt immediately and then on every interval tick until it
// completes, fails or ctx is done.
func retry(ctx context.Context, interval time.Duration, attempt func() (bool, error)) error {
	if interval <= 0 {
		interval = defaultPushInterval
	}

	// Attempt immediately before starting retry loop.
	if done, err := attempt(); err != nil {
		return err
	} else if done {
		return nil
	}

	// Setup retry timer for subsequent attempts.
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Retry loop until success or cancellation.
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			done, err := attempt()
			if err != nil {
				return err
			}

			if done {
				return nil
			}
		}
	}
}

// serverAddress prefers the command line override over the config.
func serverAddress(cfg *config.Config, override string) string {
	if override != "" {
		return override
	}

	return cfg.ServerAddress
}
