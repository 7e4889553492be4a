package client

import (
	"context"
	"net"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"

	"github.com/oshokin/soil-node/internal/api/grpc/pump"
	"github.com/oshokin/soil-node/internal/bus"
	"github.com/oshokin/soil-node/internal/channels"
	"github.com/oshokin/soil-node/internal/config"
	"github.com/oshokin/soil-node/internal/domain/soil"
	pb "github.com/oshokin/soil-node/internal/pb/v1"
)

// serveAPI starts the control API over ch and returns a settings file pointing at it.
func serveAPI(t *testing.T, ch *channels.Channels) string {
	t.Helper()

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv := grpc.NewServer()
	pb.RegisterPumpServiceServer(srv, pump.NewServer(ch, time.Second))

	go func() {
		_ = srv.Serve(lis)
	}()

	t.Cleanup(srv.Stop)

	cfgPath := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, config.Save(cfgPath, &config.Config{
		ServerAddress: lis.Addr().String(),
		Timeout:       3 * time.Second,
	}))

	return cfgPath
}

// TestProbe_SampleWaitsForFreshReading ignores the reading that existed
// before the sample request, even when the new one has the same value.
func TestProbe_SampleWaitsForFreshReading(t *testing.T) {
	t.Parallel()

	ch := channels.New()
	cfgPath := serveAPI(t, ch)

	payload, err := soil.EncodePayload(42, soil.DefaultPayloadCapacity)
	require.NoError(t, err)
	require.NoError(t, ch.Payload.Publish(context.Background(), payload, time.Second))

	var fresh atomic.Bool

	ch.Trigger.AddListener(bus.ListenerFunc[soil.Trigger](
		func(context.Context, *bus.Channel[soil.Trigger], soil.Trigger) {
			go func() {
				time.Sleep(150 * time.Millisecond)
				fresh.Store(true)

				_ = ch.Payload.Publish(context.Background(), payload, time.Second)
			}()
		}))

	reading, err := Probe(context.Background(), &ProbeOptions{ConfigPath: cfgPath, Sample: true})
	require.NoError(t, err)
	require.True(t, fresh.Load())
	require.Equal(t, `{"soil_moisture": 42}`, reading.Payload)
	require.Equal(t, 42, reading.Percent)
}

// TestProbe_ReturnsLastReading answers at once without a sample request.
func TestProbe_ReturnsLastReading(t *testing.T) {
	t.Parallel()

	ch := channels.New()
	cfgPath := serveAPI(t, ch)

	_, err := Probe(context.Background(), &ProbeOptions{ConfigPath: cfgPath})
	require.Error(t, err)

	payload, err := soil.EncodePayload(-7, soil.DefaultPayloadCapacity)
	require.NoError(t, err)
	require.NoError(t, ch.Payload.Publish(context.Background(), payload, time.Second))

	reading, err := Probe(context.Background(), &ProbeOptions{ConfigPath: cfgPath})
	require.NoError(t, err)
	require.Equal(t, -7, reading.Percent)
}
