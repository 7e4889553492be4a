package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

// TestMetrics_Record updates every collector.
func TestMetrics_Record(t *testing.T) {
	t.Parallel()

	m := New(prometheus.NewRegistry())

	m.SamplesAcquired(8)
	m.SamplesAcquired(8)
	m.CycleDropped(ReasonAcquire)
	m.PayloadPublished(57)
	m.PayloadPublished(-3)
	m.SwitchCommand("ON")
	m.SwitchCommand("ON")
	m.SwitchCommand("OFF")
	m.PinError()
	m.ActuatorConfigured()
	m.Fault()
	m.TriggerBacklog(2)

	require.InDelta(t, 16, testutil.ToFloat64(m.samples), 0)
	require.InDelta(t, 1, testutil.ToFloat64(m.dropped.WithLabelValues(ReasonAcquire)), 0)
	require.InDelta(t, 2, testutil.ToFloat64(m.published), 0)
	require.InDelta(t, -3, testutil.ToFloat64(m.moisture), 0)
	require.InDelta(t, 2, testutil.ToFloat64(m.commands.WithLabelValues("ON")), 0)
	require.InDelta(t, 1, testutil.ToFloat64(m.commands.WithLabelValues("OFF")), 0)
	require.InDelta(t, 1, testutil.ToFloat64(m.pinErrors), 0)
	require.InDelta(t, 1, testutil.ToFloat64(m.configureRuns), 0)
	require.InDelta(t, 1, testutil.ToFloat64(m.faults), 0)
	require.InDelta(t, 2, testutil.ToFloat64(m.backlog), 0)
}

// TestMetrics_NilIsNoop lets components run without a registry.
func TestMetrics_NilIsNoop(t *testing.T) {
	t.Parallel()

	var m *Metrics

	require.NotPanics(t, func() {
		m.SamplesAcquired(1)
		m.CycleDropped(ReasonPublish)
		m.PayloadPublished(1)
		m.SwitchCommand("ON")
		m.PinError()
		m.ActuatorConfigured()
		m.Fault()
		m.TriggerBacklog(1)
	})
}

// TestNew_RegistersOnce fails on a second registration in the same registry.
func TestNew_RegistersOnce(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	New(reg)

	require.Panics(t, func() { New(reg) })
}
