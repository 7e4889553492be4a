package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config holds the node and client settings.
type Config struct {
	// ServerAddress is the gRPC control API address.
	ServerAddress string `yaml:"server_addr" validate:"required,hostname_port"`
	// MetricsAddress enables the Prometheus endpoint when set.
	MetricsAddress string `yaml:"metrics_addr,omitempty" validate:"omitempty,hostname_port"`
	// Timeout bounds client RPC calls.
	Timeout time.Duration `yaml:"timeout" validate:"gt=0"`

	Log      LogConfig      `yaml:"log"`
	Bus      BusConfig      `yaml:"bus"`
	Trigger  TriggerConfig  `yaml:"trigger"`
	Sensor   SensorConfig   `yaml:"sensor"`
	Actuator ActuatorConfig `yaml:"actuator"`
}

// LogConfig controls log verbosity and the optional rotated file.
type LogConfig struct {
	Level string `yaml:"level" validate:"omitempty,oneof=debug info warn warning error"`
	File  string `yaml:"file,omitempty"`
}

// BusConfig sizes subscriber mailboxes and bounds payload publishing.
type BusConfig struct {
	QueueSize      int           `yaml:"queue_size" validate:"gte=1,lte=1024"`
	PublishTimeout time.Duration `yaml:"publish_timeout" validate:"gt=0"`
}

// TriggerConfig sets how often a sampling cycle is requested.
type TriggerConfig struct {
	Interval time.Duration `yaml:"interval" validate:"gte=10ms"`
}

// SensorConfig describes the soil moisture probe.
type SensorConfig struct {
	// Driver selects the hardware backend.
	Driver string `yaml:"driver" validate:"oneof=periph simulated"`
	// SPIPort is the periph SPI port name of the MCP3008.
	SPIPort string `yaml:"spi_port" validate:"required_if=Driver periph"`
	// Channel is the ADC input the probe is wired to.
	Channel int `yaml:"channel" validate:"gte=0,lte=7"`
	// Samples is the number of conversions averaged per cycle.
	Samples int `yaml:"samples" validate:"gte=1,lte=64"`
	// DryRaw is the raw reading of the probe in dry air (0%).
	DryRaw int `yaml:"dry_raw" validate:"gte=0,lte=1023,nefield=WetRaw"`
	// WetRaw is the raw reading of the probe in water (100%).
	WetRaw int `yaml:"wet_raw" validate:"gte=0,lte=1023"`
	// ResolveAttempts bounds the startup retries before the sampler goes inert.
	ResolveAttempts int `yaml:"resolve_attempts" validate:"gte=1,lte=20"`
}

// ActuatorConfig describes the water pump output.
type ActuatorConfig struct {
	Driver string `yaml:"driver" validate:"oneof=periph simulated"`
	// Pin is the periph GPIO name driving the pump relay.
	Pin string `yaml:"pin" validate:"required"`
}

const (
	// DefaultConfigFilename is the settings file looked up when none is given.
	DefaultConfigFilename = "soil-node-settings.yaml"

	// DefaultTimeout bounds client RPC calls.
	DefaultTimeout = 5 * time.Second
	// DefaultQueueSize is the mailbox size of bus subscribers.
	DefaultQueueSize = 4
	// DefaultPublishTimeout bounds payload publishing.
	DefaultPublishTimeout = time.Second
	// DefaultTriggerInterval is the sampling period.
	DefaultTriggerInterval = 10 * time.Second
	// DefaultDriver is the hardware backend used when none is configured.
	DefaultDriver = "simulated"
	// DefaultSPIPort is the first SPI bus, chip select 0.
	DefaultSPIPort = "SPI0.0"
	// DefaultSamples is the batch size per sampling cycle.
	DefaultSamples = 8
	// DefaultDryRaw is the raw probe value at 0% moisture.
	DefaultDryRaw = 550
	// DefaultWetRaw is the raw probe value at 100% moisture.
	DefaultWetRaw = 400
	// DefaultResolveAttempts is the number of sensor resolution attempts.
	DefaultResolveAttempts = 3
	// DefaultPumpPin is the GPIO wired to the pump relay.
	DefaultPumpPin = "GPIO10"

	// DefaultFilePermissions is used when writing settings.
	DefaultFilePermissions = 0o600
)

var (
	// errConfigIsNotSet is returned when a nil configuration is given.
	errConfigIsNotSet = errors.New("configuration is not set")

	//nolint:gochecknoglobals // validator caches struct metadata; one instance is intended.
	validate = validator.New(validator.WithRequiredStructEnabled())
)

// Load reads the settings file and validates it.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save validates the settings and writes them to path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate fills in defaults and checks the settings.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	applyDefaults(cfg)

	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}

	return nil
}

//nolint:cyclop // One branch per defaulted field.
func applyDefaults(cfg *Config) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	if cfg.Bus.QueueSize == 0 {
		cfg.Bus.QueueSize = DefaultQueueSize
	}

	if cfg.Bus.PublishTimeout <= 0 {
		cfg.Bus.PublishTimeout = DefaultPublishTimeout
	}

	if cfg.Trigger.Interval == 0 {
		cfg.Trigger.Interval = DefaultTriggerInterval
	}

	if cfg.Sensor.Driver == "" {
		cfg.Sensor.Driver = DefaultDriver
	}

	if cfg.Sensor.SPIPort == "" && cfg.Sensor.Driver == "periph" {
		cfg.Sensor.SPIPort = DefaultSPIPort
	}

	if cfg.Sensor.Samples == 0 {
		cfg.Sensor.Samples = DefaultSamples
	}

	if cfg.Sensor.DryRaw == 0 && cfg.Sensor.WetRaw == 0 {
		cfg.Sensor.DryRaw = DefaultDryRaw
		cfg.Sensor.WetRaw = DefaultWetRaw
	}

	if cfg.Sensor.ResolveAttempts == 0 {
		cfg.Sensor.ResolveAttempts = DefaultResolveAttempts
	}

	if cfg.Actuator.Driver == "" {
		cfg.Actuator.Driver = DefaultDriver
	}

	if cfg.Actuator.Pin == "" {
		cfg.Actuator.Pin = DefaultPumpPin
	}
}
