// Package metrics records the node's sampling and actuation activity as
// Prometheus collectors. A nil *Metrics is a valid recorder that does nothing,
// so components can be built without a registry in tests.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "soil_node"

// Drop reasons for CycleDropped.
const (
	ReasonAcquire = "acquire"
	ReasonEncode  = "encode"
	ReasonPublish = "publish"
)

// CommandUnknown labels switch commands that are neither ON nor OFF.
const CommandUnknown = "unknown"

// Metrics holds the node collectors.
type Metrics struct {
	samples       prometheus.Counter
	dropped       *prometheus.CounterVec
	published     prometheus.Counter
	moisture      prometheus.Gauge
	commands      *prometheus.CounterVec
	pinErrors     prometheus.Counter
	configureRuns prometheus.Counter
	faults        prometheus.Counter
	backlog       prometheus.Gauge
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		samples: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "samples_total",
			Help:      "Raw ADC conversions acquired.",
		}),
		dropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cycles_dropped_total",
			Help:      "Sampling cycles that ended without a published payload.",
		}, []string{"reason"}),
		published: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payloads_published_total",
			Help:      "Moisture payloads published on the payload channel.",
		}),
		moisture: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "moisture_percent",
			Help:      "Last calibrated moisture reading. May leave 0..100 on probe faults.",
		}),
		commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "switch_commands_total",
			Help:      "Pump switch commands received.",
		}, []string{"command"}),
		pinErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pin_errors_total",
			Help:      "Failed pump pin writes.",
		}),
		configureRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "actuator_configure_runs_total",
			Help:      "Executions of the pump output configuration.",
		}),
		faults: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "faults_total",
			Help:      "Unrecoverable faults escalated to the node.",
		}),
		backlog: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "trigger_backlog",
			Help:      "Triggers waiting in the sampler inbox after the last one was taken.",
		}),
	}

	reg.MustRegister(
		m.samples,
		m.dropped,
		m.published,
		m.moisture,
		m.commands,
		m.pinErrors,
		m.configureRuns,
		m.faults,
		m.backlog,
	)

	return m
}

// SamplesAcquired counts n raw conversions.
func (m *Metrics) SamplesAcquired(n int) {
	if m == nil {
		return
	}

	m.samples.Add(float64(n))
}

// CycleDropped counts a cycle lost for reason.
func (m *Metrics) CycleDropped(reason string) {
	if m == nil {
		return
	}

	m.dropped.WithLabelValues(reason).Inc()
}

// PayloadPublished counts a published reading and remembers its value.
func (m *Metrics) PayloadPublished(percent int) {
	if m == nil {
		return
	}

	m.published.Inc()
	m.moisture.Set(float64(percent))
}

// SwitchCommand counts a received command by its name.
// Callers pass CommandUnknown for anything but ON and OFF.
func (m *Metrics) SwitchCommand(command string) {
	if m == nil {
		return
	}

	m.commands.WithLabelValues(command).Inc()
}

// PinError counts a failed pin write.
func (m *Metrics) PinError() {
	if m == nil {
		return
	}

	m.pinErrors.Inc()
}

// ActuatorConfigured counts a run of the pump output configuration.
func (m *Metrics) ActuatorConfigured() {
	if m == nil {
		return
	}

	m.configureRuns.Inc()
}

// Fault counts an escalated fault.
func (m *Metrics) Fault() {
	if m == nil {
		return
	}

	m.faults.Inc()
}

// TriggerBacklog records how many triggers are still queued for the sampler.
func (m *Metrics) TriggerBacklog(n int) {
	if m == nil {
		return
	}

	m.backlog.Set(float64(n))
}
