package hardware

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/oshokin/soil-node/internal/logger"
)

const (
	resolveInitialInterval = 200 * time.Millisecond
	resolveMaxInterval     = 2 * time.Second
)

// ResolveSensor resolves the sensor, retrying with exponential backoff up to
// attempts times. A nil sensor with an error means the handle stays absent.
func ResolveSensor(ctx context.Context, driver SensorDriver, attempts int) (Sensor, error) {
	if driver == nil {
		return nil, ErrHandleAbsent
	}

	if attempts < 1 {
		attempts = 1
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = resolveInitialInterval
	bo.MaxInterval = resolveMaxInterval
	bo.MaxElapsedTime = 0

	var (
		sensor  Sensor
		attempt int
	)

	err := backoff.Retry(func() error {
		attempt++

		resolved, err := driver.Resolve(ctx)
		if err != nil {
			logger.WarnKV(ctx, "Sensor resolution failed", "attempt", attempt, "error", err)

			return err
		}

		if resolved == nil {
			return ErrHandleAbsent
		}

		sensor = resolved

		return nil
	}, backoff.WithContext(backoff.WithMaxRetries(bo, uint64(attempts-1)), ctx))
	if err != nil {
		return nil, fmt.Errorf("resolve sensor after %d attempts: %w", attempt, err)
	}

	return sensor, nil
}
