package sampler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/oshokin/soil-node/internal/bus"
	"github.com/oshokin/soil-node/internal/channels"
	"github.com/oshokin/soil-node/internal/domain/soil"
	"github.com/oshokin/soil-node/internal/hardware"
	"github.com/oshokin/soil-node/internal/logger"
	"github.com/oshokin/soil-node/internal/metrics"
)

// Fixed ADC setup of the moisture probe input.
const (
	acquisitionTime = 10 * time.Microsecond
	probeChannel    = 0
	resolutionBits  = 10
)

// Calibration and buffer defaults.
const (
	DefaultSamples         = 8
	DefaultDryRaw          = 550
	DefaultWetRaw          = 400
	DefaultPublishTimeout  = time.Second
	DefaultQueueSize       = 4
	DefaultResolveAttempts = 3

	percentMin = 0
	percentMax = 100
)

// ErrShortBatch is returned when the ADC delivers fewer conversions than requested.
var ErrShortBatch = errors.New("short sample batch")

// ProbeChannelConfig is the channel setup applied at Start: gain 1/6,
// internal reference, 10us acquisition on input 0 with 10-bit results.
//
//nolint:gochecknoglobals // Read-only hardware constant.
var ProbeChannelConfig = hardware.ChannelConfig{
	Gain:            hardware.Gain{Num: 1, Den: 6},
	Reference:       hardware.ReferenceInternal,
	AcquisitionTime: acquisitionTime,
	Channel:         probeChannel,
	Resolution:      resolutionBits,
}

// FaultFunc receives errors the sampler cannot recover from.
type FaultFunc func(ctx context.Context, err error)

// Options tunes the sampler. Zero fields take the defaults.
type Options struct {
	// Samples is the number of conversions averaged per cycle.
	Samples int
	// DryRaw is the raw reading of dry soil, mapped to 0.
	DryRaw int
	// WetRaw is the raw reading of saturated soil, mapped to 100.
	WetRaw int
	// PayloadCapacity bounds the encoded payload in bytes.
	PayloadCapacity int
	// PublishTimeout bounds the payload publish.
	PublishTimeout time.Duration
	// QueueSize is the trigger mailbox size.
	QueueSize int
	// ResolveAttempts is how many times Start tries to resolve the ADC.
	ResolveAttempts int
	// Channel is the ADC input of the probe. Zero is the probe's usual input.
	Channel int
}

// Sampler is the acquisition pipeline.
type Sampler struct {
	driver   hardware.SensorDriver
	channels *channels.Channels
	inbox    *bus.Subscriber
	opts     Options
	fault    FaultFunc
	metrics  *metrics.Metrics

	// sensor stays nil while the handle is absent; Sample is then a no-op.
	sensor hardware.Sensor
}

// New creates a sampler subscribed to the trigger channel.
// Triggers published before Run are queued in its mailbox.
func New(
	driver hardware.SensorDriver,
	ch *channels.Channels,
	opts Options,
	fault FaultFunc,
	m *metrics.Metrics,
) *Sampler {
	opts = withDefaults(opts)

	s := &Sampler{
		driver:   driver,
		channels: ch,
		inbox:    bus.NewSubscriber("sampler", opts.QueueSize),
		opts:     opts,
		fault:    fault,
		metrics:  m,
	}

	ch.Trigger.Subscribe(s.inbox)

	return s
}

func withDefaults(opts Options) Options {
	if opts.Samples <= 0 {
		opts.Samples = DefaultSamples
	}

	// Equal points would divide by zero in Remap.
	if opts.DryRaw == opts.WetRaw {
		opts.DryRaw, opts.WetRaw = DefaultDryRaw, DefaultWetRaw
	}

	if opts.PayloadCapacity == 0 {
		opts.PayloadCapacity = soil.DefaultPayloadCapacity
	}

	if opts.PublishTimeout == 0 {
		opts.PublishTimeout = DefaultPublishTimeout
	}

	if opts.QueueSize <= 0 {
		opts.QueueSize = DefaultQueueSize
	}

	if opts.ResolveAttempts <= 0 {
		opts.ResolveAttempts = DefaultResolveAttempts
	}

	return opts
}

// Start resolves and prepares the ADC. When the ADC cannot be resolved the
// sampler stays inert. A failed channel setup is logged and the sampler
// keeps going, as does a failed calibration.
func (s *Sampler) Start(ctx context.Context) {
	ctx = logger.WithName(ctx, "sampler")

	sensor, err := hardware.ResolveSensor(ctx, s.driver, s.opts.ResolveAttempts)
	if err != nil {
		logger.ErrorKV(ctx, "ADC is unavailable, sampling disabled", "error", err)

		return
	}

	s.sensor = sensor

	cfg := ProbeChannelConfig
	cfg.Channel = s.opts.Channel

	if err = sensor.ConfigureChannel(ctx, cfg); err != nil {
		logger.ErrorKV(ctx, "ADC channel setup failed", "error", err)
	}

	// The first conversion after this is off.
	sensor.CalibrateOffset(ctx)

	logger.InfoKV(ctx, "Sampler ready",
		"channel", cfg.Channel,
		"samples", s.opts.Samples,
		"dry_raw", s.opts.DryRaw,
		"wet_raw", s.opts.WetRaw,
	)
}

// Inert reports whether the ADC handle is absent.
func (s *Sampler) Inert() bool {
	return s.sensor == nil
}

// Run waits for triggers and samples on each of them until ctx is done.
// Envelopes from other channels are ignored.
func (s *Sampler) Run(ctx context.Context) error {
	ctx = logger.WithName(ctx, "sampler")

	for {
		env, err := s.inbox.WaitNext(ctx, bus.WaitForever)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}

			return fmt.Errorf("wait for trigger: %w", err)
		}

		s.metrics.TriggerBacklog(s.inbox.Pending())

		if env.From(s.channels.Trigger) {
			s.Sample(ctx)
		}
	}
}

// Sample runs one acquisition cycle.
func (s *Sampler) Sample(ctx context.Context) {
	if s.sensor == nil {
		return
	}

	samples, err := s.sensor.AcquireBatch(ctx, s.opts.Samples)
	if err == nil && len(samples) < s.opts.Samples {
		err = fmt.Errorf("%w: got %d of %d", ErrShortBatch, len(samples), s.opts.Samples)
	}

	if err != nil {
		logger.ErrorKV(ctx, "ADC sampling failed", "error", err)
		s.metrics.CycleDropped(metrics.ReasonAcquire)

		return
	}

	s.metrics.SamplesAcquired(len(samples))

	for i, raw := range samples {
		logger.DebugKV(ctx, "ADC sample", "index", i, "raw", raw)
	}

	mean := Mean(samples)
	percent := int(Remap(mean, int64(s.opts.DryRaw), int64(s.opts.WetRaw), percentMin, percentMax))

	payload, err := soil.EncodePayload(percent, s.opts.PayloadCapacity)
	if err != nil {
		s.metrics.CycleDropped(metrics.ReasonEncode)
		s.escalate(ctx, fmt.Errorf("encode reading %d: %w", percent, err))

		return
	}

	if err = s.channels.Payload.Publish(ctx, payload, s.opts.PublishTimeout); err != nil {
		s.metrics.CycleDropped(metrics.ReasonPublish)
		s.escalate(ctx, fmt.Errorf("publish reading: %w", err))

		return
	}

	s.metrics.PayloadPublished(percent)
	logger.DebugKV(ctx, "Reading published", "mean_raw", mean, "percent", percent)
}

// Close releases the ADC when its driver holds resources.
func (s *Sampler) Close() error {
	closer, ok := s.sensor.(io.Closer)
	if !ok {
		return nil
	}

	if err := closer.Close(); err != nil {
		return fmt.Errorf("close ADC: %w", err)
	}

	return nil
}

func (s *Sampler) escalate(ctx context.Context, err error) {
	logger.ErrorKV(ctx, "Sampler fault", "error", err)

	if s.fault != nil {
		s.fault(ctx, err)
	}
}
