package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_ObserveJob(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.ObserveJob("fmea_assess", "success", 20*time.Millisecond)
	m.ObserveJob("fmea_assess", "success", 30*time.Millisecond)
	m.ObserveJob("spc_analyze", "bury", time.Millisecond)
	m.ObserveJob("", "bury", time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.JobsTotal.WithLabelValues("fmea_assess", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.JobsTotal.WithLabelValues("spc_analyze", "bury")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.JobsTotal.WithLabelValues("unknown", "bury")))
	assert.Equal(t, 3, testutil.CollectAndCount(m.JobDuration))
}

func TestMetrics_CallbackFailed(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.CallbackFailed()
	m.CallbackFailed()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.CallbacksFailed))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveJob("fmea_assess", "success", time.Second)
		m.CallbackFailed()
	})
}
