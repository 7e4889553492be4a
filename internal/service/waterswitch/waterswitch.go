package waterswitch

import (
	"context"
	"fmt"
	"sync"

	"github.com/oshokin/soil-node/internal/bus"
	"github.com/oshokin/soil-node/internal/domain/soil"
	"github.com/oshokin/soil-node/internal/hardware"
	"github.com/oshokin/soil-node/internal/logger"
	"github.com/oshokin/soil-node/internal/metrics"
)

// DefaultPumpPin is the GPIO line wired to the pump relay.
const DefaultPumpPin = "GPIO10"

// Switch is the actuation controller. It is a synchronous listener, so it
// runs on the goroutine of whoever publishes the command.
type Switch struct {
	driver  hardware.ActuatorDriver
	pin     string
	metrics *metrics.Metrics

	// configure guards the one-shot output setup.
	configure sync.Once
	// actuator is written inside configure and read after it.
	actuator hardware.Actuator
}

var _ bus.Listener[soil.SwitchCommand] = (*Switch)(nil)

// New creates a controller for pin. An empty pin means DefaultPumpPin.
func New(driver hardware.ActuatorDriver, pin string, m *metrics.Metrics) *Switch {
	if pin == "" {
		pin = DefaultPumpPin
	}

	return &Switch{
		driver:  driver,
		pin:     pin,
		metrics: m,
	}
}

// OnMessage applies the command to the pump pin.
func (s *Switch) OnMessage(ctx context.Context, _ *bus.Channel[soil.SwitchCommand], cmd soil.SwitchCommand) {
	ctx = logger.WithKV(logger.WithName(ctx, "water-switch"), "pin", s.pin)

	s.configure.Do(func() {
		s.setup(ctx)
	})

	if !cmd.Valid() {
		s.metrics.SwitchCommand(metrics.CommandUnknown)
		logger.ErrorKV(ctx, "Unknown switch command", "command", int(cmd))

		return
	}

	s.metrics.SwitchCommand(cmd.String())
	logger.InfoKV(ctx, "Switch command received", "command", cmd)

	level := cmd == soil.SwitchOn

	if err := s.setPin(ctx, level); err != nil {
		s.metrics.PinError()
		logger.ErrorKV(ctx, "Pump pin write failed", "command", cmd, "error", err)

		return
	}

	logger.InfoKV(ctx, "Pump switched", "command", cmd)
}

// setup resolves the GPIO controller and makes the pin an output.
// Every failure is logged and the latch is set anyway.
func (s *Switch) setup(ctx context.Context) {
	s.metrics.ActuatorConfigured()

	if s.driver == nil {
		logger.Error(ctx, "GPIO controller not found")

		return
	}

	actuator, err := s.driver.Resolve(ctx)
	if err != nil || actuator == nil {
		logger.ErrorKV(ctx, "GPIO controller not found", "error", err)

		return
	}

	s.actuator = actuator

	if !actuator.IsReady() {
		logger.Error(ctx, "GPIO controller not ready")

		return
	}

	if err = actuator.ConfigureOutput(ctx, s.pin); err != nil {
		logger.ErrorKV(ctx, "Pump pin configuration failed", "error", err)

		return
	}

	logger.Info(ctx, "GPIO pin configured")
}

func (s *Switch) setPin(ctx context.Context, level bool) error {
	if s.actuator == nil {
		return fmt.Errorf("set %s: %w", s.pin, hardware.ErrHandleAbsent)
	}

	if err := s.actuator.SetPin(ctx, s.pin, level); err != nil {
		return fmt.Errorf("set %s: %w", s.pin, err)
	}

	return nil
}
