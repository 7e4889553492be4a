package client

import (
	"context"
	"errors"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/soil-node/internal/config"
)

var errTestRejected = errors.New("rejected")

// TestRetry_SucceedsAfterTransientFailures keeps trying once per interval.
func TestRetry_SucceedsAfterTransientFailures(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		calls := 0
		start := time.Now()

		err := retry(context.Background(), 0, func() (bool, error) {
			calls++

			return calls == 3, nil
		})

		require.NoError(t, err)
		require.Equal(t, 3, calls)
		require.Equal(t, 2*defaultPushInterval, time.Since(start))
	})
}

// TestRetry_StopsOnPermanentError returns the first hard failure.
func TestRetry_StopsOnPermanentError(t *testing.T) {
	t.Parallel()

	calls := 0

	err := retry(context.Background(), time.Millisecond, func() (bool, error) {
		calls++

		return false, errTestRejected
	})

	require.ErrorIs(t, err, errTestRejected)
	require.Equal(t, 1, calls)
}

// TestRetry_Cancelled gives up when the context ends.
func TestRetry_Cancelled(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		calls := 0

		err := retry(ctx, time.Second, func() (bool, error) {
			calls++

			return false, nil
		})

		require.ErrorIs(t, err, context.DeadlineExceeded)
		require.GreaterOrEqual(t, calls, 5)
	})
}

// TestServerAddress prefers the override.
func TestServerAddress(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{ServerAddress: "node.local:7070"}

	require.Equal(t, "node.local:7070", serverAddress(cfg, ""))
	require.Equal(t, "127.0.0.1:9000", serverAddress(cfg, "127.0.0.1:9000"))
}

// TestSwitch_MissingConfig fails before dialing.
func TestSwitch_MissingConfig(t *testing.T) {
	t.Parallel()

	err := Switch(context.Background(), &Options{ConfigPath: t.TempDir() + "/absent.yaml"})
	require.Error(t, err)

	_, err = Probe(context.Background(), &ProbeOptions{ConfigPath: t.TempDir() + "/absent.yaml"})
	require.Error(t, err)
}
