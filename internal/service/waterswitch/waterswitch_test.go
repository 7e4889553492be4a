package waterswitch

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/oshokin/soil-node/internal/bus"
	"github.com/oshokin/soil-node/internal/domain/soil"
	"github.com/oshokin/soil-node/internal/hardware"
	"github.com/oshokin/soil-node/internal/hardware/simulated"
	"github.com/oshokin/soil-node/internal/logger"
	"github.com/oshokin/soil-node/internal/metrics"
)

var (
	errTestNoController = errors.New("gpio1 not found")
	errTestPin          = errors.New("pin write failed")
)

// fakeActuator records pin writes.
type fakeActuator struct {
	mu         sync.Mutex
	notReady   bool
	setErr     error
	configured []string
	levels     []bool
}

func (f *fakeActuator) IsReady() bool {
	return !f.notReady
}

func (f *fakeActuator) ConfigureOutput(_ context.Context, pin string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.configured = append(f.configured, pin)

	return nil
}

func (f *fakeActuator) SetPin(_ context.Context, _ string, level bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.setErr != nil {
		return f.setErr
	}

	f.levels = append(f.levels, level)

	return nil
}

func (f *fakeActuator) writes() []bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]bool(nil), f.levels...)
}

// fakeDriver counts resolutions.
type fakeDriver struct {
	mu       sync.Mutex
	actuator hardware.Actuator
	err      error
	resolves int
}

func (d *fakeDriver) Resolve(context.Context) (hardware.Actuator, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.resolves++

	if d.err != nil {
		return nil, d.err
	}

	return d.actuator, nil
}

func (d *fakeDriver) resolveCalls() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.resolves
}

// observedContext returns a context whose logger records every entry.
func observedContext() (context.Context, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)

	return logger.ToContext(context.Background(), zap.New(core).Sugar()), logs
}

func newSwitchChannel(s *Switch) *bus.Channel[soil.SwitchCommand] {
	ch := bus.NewChannel[soil.SwitchCommand]("water_switch")
	ch.AddListener(s)

	return ch
}

// TestSwitch_DrivesPin maps OFF to low and ON to high.
func TestSwitch_DrivesPin(t *testing.T) {
	t.Parallel()

	actuator := new(fakeActuator)
	driver := &fakeDriver{actuator: actuator}
	ch := newSwitchChannel(New(driver, "", nil))

	for _, cmd := range []soil.SwitchCommand{soil.SwitchOn, soil.SwitchOff, soil.SwitchOn} {
		require.NoError(t, ch.Publish(context.Background(), cmd, time.Second))
	}

	require.Equal(t, []bool{true, false, true}, actuator.writes())
	require.Equal(t, []string{DefaultPumpPin}, actuator.configured)
	require.Equal(t, 1, driver.resolveCalls())
}

// TestSwitch_RepeatedCommandIsIdempotent leaves the pin at the same level.
func TestSwitch_RepeatedCommandIsIdempotent(t *testing.T) {
	t.Parallel()

	model := simulated.NewSoil(550, 400, 500)
	ch := newSwitchChannel(New(simulated.NewActuatorDriver(model, "GPIO5"), "GPIO5", nil))

	require.NoError(t, ch.Publish(context.Background(), soil.SwitchOn, time.Second))
	require.True(t, model.Pumping())

	require.NoError(t, ch.Publish(context.Background(), soil.SwitchOn, time.Second))
	require.True(t, model.Pumping())

	require.NoError(t, ch.Publish(context.Background(), soil.SwitchOff, time.Second))
	require.False(t, model.Pumping())
}

// TestSwitch_AbsentController logs the failed setup, still attempts the pin
// write and never repeats the setup.
func TestSwitch_AbsentController(t *testing.T) {
	t.Parallel()

	ctx, logs := observedContext()
	driver := &fakeDriver{err: errTestNoController}
	ch := newSwitchChannel(New(driver, "", nil))

	require.NoError(t, ch.Publish(ctx, soil.SwitchOn, time.Second))

	require.Equal(t, 1, logs.FilterMessage("GPIO controller not found").Len())

	writes := logs.FilterMessage("Pump pin write failed").All()
	require.Len(t, writes, 1)

	err, ok := writes[0].ContextMap()["error"].(string)
	require.True(t, ok)
	require.Contains(t, err, hardware.ErrHandleAbsent.Error())

	require.NoError(t, ch.Publish(ctx, soil.SwitchOff, time.Second))

	require.Equal(t, 1, driver.resolveCalls())
	require.Equal(t, 1, logs.FilterMessage("GPIO controller not found").Len())
	require.Equal(t, 2, logs.FilterMessage("Pump pin write failed").Len())
}

// TestSwitch_NotReadyStillWrites keeps the handle of a controller that is not ready.
func TestSwitch_NotReadyStillWrites(t *testing.T) {
	t.Parallel()

	ctx, logs := observedContext()
	actuator := &fakeActuator{notReady: true}
	ch := newSwitchChannel(New(&fakeDriver{actuator: actuator}, "", nil))

	require.NoError(t, ch.Publish(ctx, soil.SwitchOn, time.Second))

	require.Equal(t, 1, logs.FilterMessage("GPIO controller not ready").Len())
	require.Empty(t, actuator.configured)
	require.Equal(t, []bool{true}, actuator.writes())
}

// TestSwitch_PinErrorIsLogged does not escalate a failed write.
func TestSwitch_PinErrorIsLogged(t *testing.T) {
	t.Parallel()

	ctx, logs := observedContext()
	ch := newSwitchChannel(New(&fakeDriver{actuator: &fakeActuator{setErr: errTestPin}}, "", nil))

	require.NoError(t, ch.Publish(ctx, soil.SwitchOff, time.Second))

	require.Equal(t, 1, logs.FilterMessage("Pump pin write failed").Len())
	require.Zero(t, logs.FilterMessage("Pump switched").Len())
}

// TestSwitch_UnknownCommand logs an error and leaves the pin alone.
func TestSwitch_UnknownCommand(t *testing.T) {
	t.Parallel()

	ctx, logs := observedContext()
	actuator := new(fakeActuator)
	driver := &fakeDriver{actuator: actuator}
	ch := newSwitchChannel(New(driver, "", nil))

	require.NoError(t, ch.Publish(ctx, soil.SwitchCommand(7), time.Second))

	entries := logs.FilterMessage("Unknown switch command").FilterLevelExact(zapcore.ErrorLevel).All()
	require.Len(t, entries, 1)
	require.Equal(t, int64(7), entries[0].ContextMap()["command"])
	require.Empty(t, actuator.writes())
	require.Equal(t, 1, driver.resolveCalls())
}

// TestSwitch_UnknownCommandsShareOneLabel keeps the command label set bounded.
func TestSwitch_UnknownCommandsShareOneLabel(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	ch := newSwitchChannel(New(&fakeDriver{actuator: new(fakeActuator)}, "", metrics.New(reg)))

	for _, cmd := range []soil.SwitchCommand{7, -1, soil.SwitchOn, 42} {
		require.NoError(t, ch.Publish(context.Background(), cmd, time.Second))
	}

	expected := `
# HELP soil_node_switch_commands_total Pump switch commands received.
# TYPE soil_node_switch_commands_total counter
soil_node_switch_commands_total{command="ON"} 1
soil_node_switch_commands_total{command="unknown"} 3
`

	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "soil_node_switch_commands_total"))
}

// TestSwitch_ConcurrentPublishersConfigureOnce races the first command.
func TestSwitch_ConcurrentPublishersConfigureOnce(t *testing.T) {
	t.Parallel()

	const publishers = 16

	actuator := new(fakeActuator)
	driver := &fakeDriver{actuator: actuator}
	ch := newSwitchChannel(New(driver, "", nil))

	var wg sync.WaitGroup

	for i := range publishers {
		cmd := soil.SwitchCommand(i % 2)

		wg.Go(func() {
			require.NoError(t, ch.Publish(context.Background(), cmd, bus.WaitForever))
		})
	}

	wg.Wait()

	require.Equal(t, 1, driver.resolveCalls())
	require.Len(t, actuator.configured, 1)
	require.Len(t, actuator.writes(), publishers)
}
