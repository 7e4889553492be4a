package simulated

import (
	"context"
	"errors"
	"fmt"

	"github.com/oshokin/soil-node/internal/hardware"
)

// errChannelNotConfigured is returned when acquiring before ConfigureChannel.
var errChannelNotConfigured = errors.New("adc channel is not configured")

// SensorDriver resolves a simulated ADC reading the soil model.
type SensorDriver struct {
	soil *Soil
}

// NewSensorDriver creates a driver over soil.
func NewSensorDriver(soil *Soil) *SensorDriver {
	return &SensorDriver{soil: soil}
}

// Resolve returns the simulated ADC.
//
//nolint:ireturn // Drivers hand out the hardware interface.
func (d *SensorDriver) Resolve(context.Context) (hardware.Sensor, error) {
	if d.soil == nil {
		return nil, hardware.ErrHandleAbsent
	}

	return &Sensor{soil: d.soil}, nil
}

// Sensor is a simulated ADC handle.
type Sensor struct {
	soil       *Soil
	configured bool
	// calibrating makes the next conversion read zero, like a real offset calibration.
	calibrating bool
}

// ConfigureChannel accepts any channel in the 10-bit range.
func (s *Sensor) ConfigureChannel(_ context.Context, cfg hardware.ChannelConfig) error {
	if cfg.Resolution != 0 && cfg.Resolution != 10 {
		return fmt.Errorf("unsupported resolution %d bits", cfg.Resolution)
	}

	s.configured = true

	return nil
}

// CalibrateOffset spoils the next conversion.
func (s *Sensor) CalibrateOffset(context.Context) {
	s.calibrating = true
}

// AcquireBatch advances the soil model once and returns count conversions.
func (s *Sensor) AcquireBatch(ctx context.Context, count int) ([]int16, error) {
	if !s.configured {
		return nil, errChannelNotConfigured
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.soil.step()

	samples := make([]int16, count)
	for i := range samples {
		samples[i] = s.soil.convert()
	}

	if s.calibrating && count > 0 {
		samples[0] = 0
		s.calibrating = false
	}

	return samples, nil
}
