package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordUpdate(t *testing.T) {
	t.Parallel()

	registry := prometheus.NewRegistry()
	m := New(registry)

	m.RecordUpdate("command", "success", 0.1)
	m.RecordUpdate("command", "success", 0.2)
	m.RecordUpdate("callback", "error", 0.05)

	if got := testutil.ToFloat64(m.UpdatesTotal.WithLabelValues("command", "success")); got != 2 {
		t.Errorf("command/success counter = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.UpdatesTotal.WithLabelValues("callback", "error")); got != 1 {
		t.Errorf("callback/error counter = %v, want 1", got)
	}
}

func TestRecordCallback(t *testing.T) {
	t.Parallel()

	registry := prometheus.NewRegistry()
	m := New(registry)

	m.RecordCallback("delete", "completed")
	m.RecordCallback("delete", "failed")
	m.RecordCallback("delete", "failed")

	if got := testutil.ToFloat64(m.CallbacksTotal.WithLabelValues("delete", "failed")); got != 2 {
		t.Errorf("delete/failed counter = %v, want 2", got)
	}
}

func TestNilMetricsAreSafe(t *testing.T) {
	t.Parallel()

	var m *Metrics
	m.RecordUpdate("command", "success", 0.1)
	m.RecordCallback("add.day", "completed")
	m.RecordBookerRequest("bookings", "success", 0.1)
	m.RecordRateLimitDrop()
}
