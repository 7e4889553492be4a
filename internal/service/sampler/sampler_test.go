package sampler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/soil-node/internal/bus"
	"github.com/oshokin/soil-node/internal/channels"
	"github.com/oshokin/soil-node/internal/config"
	"github.com/oshokin/soil-node/internal/domain/soil"
	"github.com/oshokin/soil-node/internal/hardware"
)

var (
	errTestADC     = errors.New("adc busy")
	errTestResolve = errors.New("no adc")
	errTestClose   = errors.New("close failed")
)

// fakeSensor replays scripted batches.
type fakeSensor struct {
	mu           sync.Mutex
	batches      [][]int16
	errs         []error
	configured   []hardware.ChannelConfig
	calibrations int
	acquired     int
	closed       bool
	closeErr     error
}

func (f *fakeSensor) ConfigureChannel(_ context.Context, cfg hardware.ChannelConfig) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.configured = append(f.configured, cfg)

	return nil
}

func (f *fakeSensor) CalibrateOffset(context.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calibrations++
}

func (f *fakeSensor) AcquireBatch(_ context.Context, count int) ([]int16, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	i := f.acquired
	f.acquired++

	if i < len(f.errs) && f.errs[i] != nil {
		return nil, f.errs[i]
	}

	if i < len(f.batches) {
		return f.batches[i], nil
	}

	return make([]int16, count), nil
}

func (f *fakeSensor) Close() error {
	f.closed = true

	return f.closeErr
}

func (f *fakeSensor) acquireCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.acquired
}

// fakeDriver hands out the sensor or fails.
type fakeDriver struct {
	sensor hardware.Sensor
	err    error
	calls  atomic.Int32
}

func (d *fakeDriver) Resolve(context.Context) (hardware.Sensor, error) {
	d.calls.Add(1)

	if d.err != nil {
		return nil, d.err
	}

	return d.sensor, nil
}

// faultRecorder counts escalations.
type faultRecorder struct {
	count atomic.Int32
	last  atomic.Pointer[error]
}

func (r *faultRecorder) fault(_ context.Context, err error) {
	r.count.Add(1)
	r.last.Store(&err)
}

// batch475 averages to 475, the midpoint between the calibration points.
func batch475() []int16 {
	return []int16{470, 471, 472, 473, 477, 478, 479, 480}
}

func newTestSampler(t *testing.T, sensor *fakeSensor, opts Options) (*Sampler, *channels.Channels, *bus.Subscriber, *faultRecorder) {
	t.Helper()

	ch := channels.New()
	out := bus.NewSubscriber("consumer", 4)
	ch.Payload.Subscribe(out)

	faults := new(faultRecorder)
	s := New(&fakeDriver{sensor: sensor}, ch, opts, faults.fault, nil)
	s.Start(context.Background())

	return s, ch, out, faults
}

// TestSampler_PublishesReading is the nominal cycle: 475 maps to 50 percent.
func TestSampler_PublishesReading(t *testing.T) {
	t.Parallel()

	sensor := &fakeSensor{batches: [][]int16{batch475()}}
	s, ch, out, faults := newTestSampler(t, sensor, Options{})

	require.False(t, s.Inert())
	require.Equal(t, []hardware.ChannelConfig{ProbeChannelConfig}, sensor.configured)
	require.Equal(t, 1, sensor.calibrations)

	s.Sample(context.Background())

	env, err := out.WaitNext(context.Background(), bus.NoWait)
	require.NoError(t, err)
	require.True(t, env.From(ch.Payload))

	payload, ok := bus.MessageOf[soil.Payload](env)
	require.True(t, ok)
	require.Equal(t, `{"soil_moisture": 50}`, payload.String())
	require.Zero(t, faults.count.Load())
}

// TestSampler_UnclampedReading publishes values outside 0..100 as they are.
func TestSampler_UnclampedReading(t *testing.T) {
	t.Parallel()

	sensor := &fakeSensor{batches: [][]int16{
		{600, 600, 600, 600, 600, 600, 600, 600},
		{300, 300, 300, 300, 300, 300, 300, 300},
	}}
	s, _, out, _ := newTestSampler(t, sensor, Options{})

	s.Sample(context.Background())
	s.Sample(context.Background())

	for _, want := range []int{-33, 166} {
		env, err := out.WaitNext(context.Background(), bus.NoWait)
		require.NoError(t, err)

		payload, ok := bus.MessageOf[soil.Payload](env)
		require.True(t, ok)

		percent, err := payload.Percent()
		require.NoError(t, err)
		require.Equal(t, want, percent)
	}
}

// TestSampler_AcquisitionErrorDropsCycle publishes nothing and keeps sampling.
func TestSampler_AcquisitionErrorDropsCycle(t *testing.T) {
	t.Parallel()

	sensor := &fakeSensor{
		errs:    []error{errTestADC},
		batches: [][]int16{nil, batch475()},
	}
	s, _, out, faults := newTestSampler(t, sensor, Options{})

	s.Sample(context.Background())
	require.Zero(t, out.Pending())
	require.Zero(t, faults.count.Load())

	s.Sample(context.Background())
	require.Equal(t, 1, out.Pending())
}

// TestSampler_ShortBatchDropsCycle treats a short batch as an acquisition error.
func TestSampler_ShortBatchDropsCycle(t *testing.T) {
	t.Parallel()

	sensor := &fakeSensor{batches: [][]int16{{475, 475}}}
	s, _, out, faults := newTestSampler(t, sensor, Options{})

	s.Sample(context.Background())

	require.Zero(t, out.Pending())
	require.Zero(t, faults.count.Load())
}

// TestSampler_OverflowEscalatesOnce reports an undersized payload buffer as a fault.
func TestSampler_OverflowEscalatesOnce(t *testing.T) {
	t.Parallel()

	sensor := &fakeSensor{batches: [][]int16{batch475()}}
	s, _, out, faults := newTestSampler(t, sensor, Options{PayloadCapacity: 10})

	s.Sample(context.Background())

	require.Equal(t, int32(1), faults.count.Load())
	require.ErrorIs(t, *faults.last.Load(), soil.ErrPayloadOverflow)
	require.Zero(t, out.Pending())
}

// TestSampler_PublishFailureEscalates reports a payload nobody could take as a fault.
func TestSampler_PublishFailureEscalates(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		sensor := &fakeSensor{}
		ch := channels.New()
		full := bus.NewSubscriber("stuck", 1)
		ch.Payload.Subscribe(full)

		filler, err := soil.EncodePayload(1, soil.DefaultPayloadCapacity)
		require.NoError(t, err)
		require.NoError(t, ch.Payload.Publish(context.Background(), filler, bus.NoWait))

		faults := new(faultRecorder)
		s := New(&fakeDriver{sensor: sensor}, ch, Options{}, faults.fault, nil)
		s.Start(context.Background())

		start := time.Now()

		s.Sample(context.Background())

		require.Equal(t, DefaultPublishTimeout, time.Since(start))
		require.Equal(t, int32(1), faults.count.Load())
		require.ErrorIs(t, *faults.last.Load(), bus.ErrTimeout)
	})
}

// TestSampler_InertWithoutADC retries resolution, then makes every cycle a silent no-op.
func TestSampler_InertWithoutADC(t *testing.T) {
	t.Parallel()

	require.Equal(t, config.DefaultResolveAttempts, DefaultResolveAttempts)

	synctest.Test(t, func(t *testing.T) {
		ch := channels.New()
		out := bus.NewSubscriber("consumer", 1)
		ch.Payload.Subscribe(out)

		faults := new(faultRecorder)
		driver := &fakeDriver{err: errTestResolve}
		s := New(driver, ch, Options{}, faults.fault, nil)
		s.Start(context.Background())

		require.True(t, s.Inert())
		require.Equal(t, int32(DefaultResolveAttempts), driver.calls.Load())

		s.Sample(context.Background())

		require.Zero(t, out.Pending())
		require.Zero(t, faults.count.Load())
		require.NoError(t, s.Close())
	})
}

// TestSampler_RunSamplesOnTrigger drives the loop through the trigger channel.
func TestSampler_RunSamplesOnTrigger(t *testing.T) {
	t.Parallel()

	sensor := &fakeSensor{batches: [][]int16{batch475()}}
	s, ch, out, _ := newTestSampler(t, sensor, Options{})

	other := bus.NewChannel[soil.Trigger]("other")
	other.Subscribe(s.inbox)

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)

	go func() {
		done <- s.Run(ctx)
	}()

	require.NoError(t, other.Publish(ctx, soil.Trigger{}, time.Second))
	require.NoError(t, ch.Trigger.Publish(ctx, soil.Trigger{}, time.Second))

	env, err := out.WaitNext(ctx, time.Second)
	require.NoError(t, err)

	payload, ok := bus.MessageOf[soil.Payload](env)
	require.True(t, ok)
	require.Equal(t, `{"soil_moisture": 50}`, payload.String())

	cancel()
	require.NoError(t, <-done)
	require.Equal(t, 1, sensor.acquireCalls())
}

// TestSampler_CloseReleasesADC closes sensors that hold resources.
func TestSampler_CloseReleasesADC(t *testing.T) {
	t.Parallel()

	sensor := &fakeSensor{closeErr: errTestClose}
	s, _, _, _ := newTestSampler(t, sensor, Options{})

	err := s.Close()

	require.ErrorIs(t, err, errTestClose)
	require.True(t, sensor.closed)
}
