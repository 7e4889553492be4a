package hardware

import (
	"context"
	"errors"
	"time"
)

// ErrHandleAbsent is returned for operations on a handle that was never resolved.
var ErrHandleAbsent = errors.New("hardware handle is absent")

// Gain is the ADC input gain expressed as a fraction.
type Gain struct {
	Num, Den int
}

// Reference selects the ADC voltage reference.
type Reference int

const (
	// ReferenceInternal is the converter's internal reference.
	ReferenceInternal Reference = iota
	// ReferenceVDD is the supply voltage.
	ReferenceVDD
)

// ChannelConfig is the fixed setup of one ADC input.
type ChannelConfig struct {
	Gain            Gain
	Reference       Reference
	AcquisitionTime time.Duration
	Channel         int
	// Resolution is the conversion width in bits.
	Resolution int
}

// SensorDriver resolves the ADC behind the moisture probe.
type SensorDriver interface {
	Resolve(ctx context.Context) (Sensor, error)
}

// Sensor is a resolved ADC handle.
type Sensor interface {
	// ConfigureChannel applies the channel setup used by AcquireBatch.
	ConfigureChannel(ctx context.Context, cfg ChannelConfig) error
	// CalibrateOffset starts the converter's offset calibration and returns
	// without waiting. The next conversion may be inaccurate.
	CalibrateOffset(ctx context.Context)
	// AcquireBatch performs count consecutive conversions on the configured channel.
	AcquireBatch(ctx context.Context, count int) ([]int16, error)
}

// ActuatorDriver resolves the GPIO controller driving the pump.
type ActuatorDriver interface {
	Resolve(ctx context.Context) (Actuator, error)
}

// Actuator is a resolved GPIO controller handle.
type Actuator interface {
	// IsReady reports whether the controller can be driven.
	IsReady() bool
	// ConfigureOutput makes pin a digital output.
	ConfigureOutput(ctx context.Context, pin string) error
	// SetPin drives pin to the logical level.
	SetPin(ctx context.Context, pin string, level bool) error
}
