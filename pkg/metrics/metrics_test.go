package metrics

import (
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"
)

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	if r == nil {
		t.Fatal("NewRegistry() returned nil")
	}

	// Verify all metrics are initialized
	if r.DesignRunsTotal == nil {
		t.Error("DesignRunsTotal not initialized")
	}
	if r.PhaseDuration == nil {
		t.Error("PhaseDuration not initialized")
	}
	if r.NetworkNodesTotal == nil {
		t.Error("NetworkNodesTotal not initialized")
	}
	if r.ViolationsTotal == nil {
		t.Error("ViolationsTotal not initialized")
	}
	if r.ResizeOutcomes == nil {
		t.Error("ResizeOutcomes not initialized")
	}
	if r.SolverCallsTotal == nil {
		t.Error("SolverCallsTotal not initialized")
	}
	if r.registry == nil {
		t.Error("Prometheus registry not initialized")
	}
}

func TestDefaultRegistry(t *testing.T) {
	// Should return the same instance
	r1 := DefaultRegistry()
	r2 := DefaultRegistry()

	if r1 != r2 {
		t.Error("DefaultRegistry() should return the same instance")
	}
}

func TestRecordDesignRun(t *testing.T) {
	r := NewRegistry()

	r.RecordDesignRun("ok", 2*time.Second)
	r.RecordDesignRun("ok", 3*time.Second)
	r.RecordDesignRun("degraded", time.Second)

	counter, err := r.DesignRunsTotal.GetMetricWithLabelValues("ok")
	if err != nil {
		t.Fatalf("Failed to get metric: %v", err)
	}

	var metric dto.Metric
	if err := counter.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if got := metric.GetCounter().GetValue(); got != 2 {
		t.Errorf("Expected 2 ok runs, got %f", got)
	}
}

func TestRecordViolation(t *testing.T) {
	r := NewRegistry()

	r.RecordViolation("velocity", "critical")
	r.RecordViolation("velocity", "critical")
	r.RecordViolation("thermal", "warning")

	counter, err := r.ViolationsTotal.GetMetricWithLabelValues("velocity", "critical")
	if err != nil {
		t.Fatalf("Failed to get metric: %v", err)
	}

	var metric dto.Metric
	if err := counter.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if got := metric.GetCounter().GetValue(); got != 2 {
		t.Errorf("Expected 2 critical velocity violations, got %f", got)
	}
}

func TestRecordSolverCall_FallbackCounting(t *testing.T) {
	r := NewRegistry()

	r.RecordSolverCall("solver", "ok", time.Second)
	r.RecordSolverCall("estimate", "ok", time.Millisecond)
	r.RecordSolverCall("estimate", "ok", time.Millisecond)

	var metric dto.Metric
	if err := r.SolverFallbacksTotal.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if got := metric.GetCounter().GetValue(); got != 2 {
		t.Errorf("Expected 2 fallbacks, got %f", got)
	}
}

func TestUpdateNetworkMetrics(t *testing.T) {
	r := NewRegistry()

	r.UpdateNetworkMetrics(120, 150, 3)

	var metric dto.Metric
	if err := r.NetworkNodesTotal.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if got := metric.GetGauge().GetValue(); got != 120 {
		t.Errorf("Expected 120 nodes, got %f", got)
	}
}
