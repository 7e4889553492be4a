package periph

import (
	"context"
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"

	"github.com/oshokin/soil-node/internal/hardware"
)

// ActuatorDriver resolves the host GPIO controller.
type ActuatorDriver struct{}

// NewActuatorDriver creates a GPIO driver.
func NewActuatorDriver() *ActuatorDriver {
	return &ActuatorDriver{}
}

// Resolve initializes the periph host drivers.
//
//nolint:ireturn // Drivers hand out the hardware interface.
func (*ActuatorDriver) Resolve(context.Context) (hardware.Actuator, error) {
	state, err := host.Init()
	if err != nil {
		return nil, fmt.Errorf("init periph host: %w", err)
	}

	return &GPIO{ready: len(state.Loaded) > 0}, nil
}

// GPIO drives pins by their periph names, e.g. "GPIO10".
type GPIO struct {
	ready bool
}

// IsReady reports whether any periph host driver loaded.
func (g *GPIO) IsReady() bool {
	return g.ready
}

// ConfigureOutput makes pin an output driven low.
func (g *GPIO) ConfigureOutput(_ context.Context, pin string) error {
	p, err := lookup(pin)
	if err != nil {
		return err
	}

	if err := p.Out(gpio.Low); err != nil {
		return fmt.Errorf("configure %s as output: %w", pin, err)
	}

	return nil
}

// SetPin drives pin high or low.
func (g *GPIO) SetPin(_ context.Context, pin string, level bool) error {
	p, err := lookup(pin)
	if err != nil {
		return err
	}

	l := gpio.Low
	if level {
		l = gpio.High
	}

	if err := p.Out(l); err != nil {
		return fmt.Errorf("set %s %s: %w", pin, l, err)
	}

	return nil
}

//nolint:ireturn // periph pins are interfaces.
func lookup(pin string) (gpio.PinIO, error) {
	p := gpioreg.ByName(pin)
	if p == nil {
		return nil, fmt.Errorf("no gpio pin named %q", pin)
	}

	return p, nil
}
