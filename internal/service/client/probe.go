package client

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/oshokin/soil-node/internal/config"
	"github.com/oshokin/soil-node/internal/domain/soil"
	"github.com/oshokin/soil-node/internal/logger"
	"github.com/oshokin/soil-node/internal/service/common"
)

// ProbeOptions configures the soil probe command.
type ProbeOptions struct {
	// ConfigPath to YAML settings file, defaults to standard filename if empty.
	ConfigPath string

	// ServerAddress overrides server address from config when specified.
	ServerAddress string

	// Sample requests an acquisition cycle before reading.
	Sample bool
}

// Reading is the last payload reported by the node.
type Reading struct {
	// Payload is the text as published on the bus.
	Payload string
	// Percent is the decoded moisture value.
	Percent int
}

const (
	probeInitialInterval = 100 * time.Millisecond
	probeMaxInterval     = time.Second
)

// errReadingNotRefreshed is retried while the node has not published a
// reading newer than the one seen before the sample request.
var errReadingNotRefreshed = errors.New("no reading published since the sample request")

// Probe reads the last moisture payload from the node. With Sample set it
// requests an acquisition cycle and polls until a reading published after
// that request shows up or the configured timeout passes.
func Probe(ctx context.Context, opts *ProbeOptions) (*Reading, error) {
	ctx = logger.WithName(ctx, "soil-probe")

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	actor, err := common.DetectActor()
	if err != nil {
		return nil, err
	}

	client, err := common.Dial(ctx, serverAddress(cfg, opts.ServerAddress),
		common.WithCallTimeout(cfg.Timeout),
		common.WithActor(actor),
	)
	if err != nil {
		return nil, err
	}

	defer func() {
		_ = client.Close()
	}()

	// seen is the sequence number of the reading already there before sampling.
	var seen uint64

	if opts.Sample {
		_, seen, err = client.GetReading(ctx)
		if err != nil && status.Code(err) != codes.NotFound {
			return nil, err
		}

		if err = client.TriggerSample(ctx); err != nil {
			return nil, err
		}

		logger.InfoKV(ctx, "Sample requested", "seen_seq", seen)
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = probeInitialInterval
	bo.MaxInterval = probeMaxInterval
	bo.MaxElapsedTime = cfg.Timeout

	var payload string

	err = backoff.Retry(func() error {
		var seq uint64

		payload, seq, err = client.GetReading(ctx)

		switch {
		case err == nil && opts.Sample && seq <= seen:
			return errReadingNotRefreshed
		case err == nil:
			return nil
		case opts.Sample && status.Code(err) == codes.NotFound:
			// Only a node that has not sampled yet is worth waiting for.
			return err
		default:
			return backoff.Permanent(err)
		}
	}, backoff.WithContext(bo, ctx))
	if err != nil {
		return nil, err
	}

	percent, err := soil.ParsePayload([]byte(payload))
	if err != nil {
		return nil, err
	}

	return &Reading{
		Payload: payload,
		Percent: percent,
	}, nil
}
