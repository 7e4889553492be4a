package simulated

import (
	"context"
	"fmt"
	"sync"

	"github.com/oshokin/soil-node/internal/hardware"
)

// ActuatorDriver resolves a simulated GPIO controller wired to the soil model's pump.
type ActuatorDriver struct {
	soil *Soil
	pin  string
}

// NewActuatorDriver creates a driver whose pin switches the pump of soil.
func NewActuatorDriver(soil *Soil, pumpPin string) *ActuatorDriver {
	return &ActuatorDriver{
		soil: soil,
		pin:  pumpPin,
	}
}

// Resolve returns the simulated controller.
//
//nolint:ireturn // Drivers hand out the hardware interface.
func (d *ActuatorDriver) Resolve(context.Context) (hardware.Actuator, error) {
	if d.soil == nil {
		return nil, hardware.ErrHandleAbsent
	}

	return &Actuator{
		soil:    d.soil,
		pumpPin: d.pin,
		outputs: make(map[string]bool),
	}, nil
}

// Actuator is a simulated GPIO controller.
type Actuator struct {
	soil    *Soil
	pumpPin string

	mu      sync.Mutex
	outputs map[string]bool
}

// IsReady is always true for the simulation.
func (a *Actuator) IsReady() bool {
	return true
}

// ConfigureOutput marks pin as an output driven low.
func (a *Actuator) ConfigureOutput(_ context.Context, pin string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.outputs[pin] = false

	return nil
}

// SetPin drives an output pin. The pump pin runs the soil model's pump.
func (a *Actuator) SetPin(_ context.Context, pin string, level bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, ok := a.outputs[pin]; !ok {
		return fmt.Errorf("pin %s is not configured as output", pin)
	}

	a.outputs[pin] = level

	if pin == a.pumpPin {
		a.soil.setPumping(level)
	}

	return nil
}

// Level returns the last level written to pin.
func (a *Actuator) Level(pin string) (bool, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	level, ok := a.outputs[pin]

	return level, ok
}
