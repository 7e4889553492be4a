package periph

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"

	"github.com/oshokin/soil-node/internal/hardware"
	"github.com/oshokin/soil-node/internal/logger"
)

const (
	mcp3008Channels   = 8
	mcp3008Resolution = 10
	// The sample-and-hold stays open for 1.5 SPI clocks.
	sampleClocksNum = 3
	sampleClocksDen = 2

	minSPIFrequency = 10 * physic.KiloHertz
	maxSPIFrequency = 1350 * physic.KiloHertz
)

var errNotConfigured = errors.New("mcp3008 channel is not configured")

// SensorDriver opens an MCP3008 on a periph SPI port such as "SPI0.0".
type SensorDriver struct {
	port string
}

// NewSensorDriver creates a driver for the ADC on port.
func NewSensorDriver(port string) *SensorDriver {
	return &SensorDriver{port: port}
}

// Resolve initializes the periph host and opens the SPI port.
//
//nolint:ireturn // Drivers hand out the hardware interface.
func (d *SensorDriver) Resolve(ctx context.Context) (hardware.Sensor, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("init periph host: %w", err)
	}

	port, err := spireg.Open(d.port)
	if err != nil {
		return nil, fmt.Errorf("open spi port %s: %w", d.port, err)
	}

	logger.DebugKV(ctx, "SPI port opened", "port", d.port)

	return &MCP3008{port: port}, nil
}

// MCP3008 is an opened converter.
type MCP3008 struct {
	mu      sync.Mutex
	port    spi.PortCloser
	conn    spi.Conn
	channel int
}

// ConfigureChannel connects the SPI port at a clock matching the acquisition time.
// The MCP3008 has no gain stage and takes its reference from the VREF pin, so
// only the channel, the resolution and the acquisition time matter.
func (m *MCP3008) ConfigureChannel(ctx context.Context, cfg hardware.ChannelConfig) error {
	if cfg.Channel < 0 || cfg.Channel >= mcp3008Channels {
		return fmt.Errorf("mcp3008 has no channel %d", cfg.Channel)
	}

	if cfg.Resolution != 0 && cfg.Resolution != mcp3008Resolution {
		return fmt.Errorf("mcp3008 converts at %d bits, not %d", mcp3008Resolution, cfg.Resolution)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	freq := spiFrequency(cfg.AcquisitionTime)

	conn, err := m.port.Connect(freq, spi.Mode0, 8)
	if err != nil {
		return fmt.Errorf("connect spi at %s: %w", freq, err)
	}

	m.conn = conn
	m.channel = cfg.Channel

	logger.DebugKV(ctx, "MCP3008 channel configured", "channel", cfg.Channel, "spi_clock", freq.String())

	return nil
}

// CalibrateOffset runs one discarded conversion. The MCP3008 has no
// self-calibration, but the first conversion after power-up settles the
// sample capacitor and is not trusted either.
func (m *MCP3008) CalibrateOffset(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.conn == nil {
		return
	}

	if _, err := m.convert(); err != nil {
		logger.DebugKV(ctx, "Offset conversion failed", "error", err)
	}
}

// AcquireBatch performs count single-ended conversions.
func (m *MCP3008) AcquireBatch(ctx context.Context, count int) ([]int16, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.conn == nil {
		return nil, errNotConfigured
	}

	samples := make([]int16, 0, count)

	for range count {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		v, err := m.convert()
		if err != nil {
			return nil, err
		}

		samples = append(samples, v)
	}

	return samples, nil
}

// Close releases the SPI port.
func (m *MCP3008) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.port.Close()
}

// convert performs one transaction: start bit, single-ended mode with the
// channel number, then 10 result bits spread over the last two bytes.
func (m *MCP3008) convert() (int16, error) {
	tx := []byte{0x01, byte(0x80 | m.channel<<4), 0x00}
	rx := make([]byte, len(tx))

	if err := m.conn.Tx(tx, rx); err != nil {
		return 0, fmt.Errorf("spi transfer: %w", err)
	}

	return decodeSample(rx), nil
}

func decodeSample(rx []byte) int16 {
	return int16(rx[1]&0x03)<<8 | int16(rx[2])
}

// spiFrequency picks the SPI clock that keeps the sample-and-hold open for acquisition.
func spiFrequency(acquisition time.Duration) physic.Frequency {
	if acquisition <= 0 {
		return maxSPIFrequency
	}

	freq := physic.Frequency(int64(physic.Hertz) * sampleClocksNum * int64(time.Second) /
		(sampleClocksDen * int64(acquisition)))

	return min(max(freq, minSPIFrequency), maxSPIFrequency)
}
