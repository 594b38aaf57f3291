package metrics

import (
	"context"
	"testing"
)

func TestGetSystemMetrics(t *testing.T) {
	m, err := GetSystemMetrics(context.Background())
	if err != nil {
		t.Fatalf("GetSystemMetrics failed: %v", err)
	}

	if m.Memory.Total == 0 {
		t.Error("expected non-zero total memory")
	}
	if m.CPU.Cores == 0 {
		t.Error("expected non-zero core count")
	}
	if m.Uptime <= 0 {
		t.Error("expected positive uptime")
	}
}

func TestGetSystemMetrics_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := GetSystemMetrics(ctx); err == nil {
		t.Error("expected error for canceled context")
	}
}

func TestGetDockerMetrics_NeverNil(t *testing.T) {
	// Must degrade gracefully whether or not a Docker daemon is
	// reachable in the test environment.
	m := GetDockerMetrics(context.Background())
	if m == nil {
		t.Fatal("expected non-nil metrics")
	}
	if m.Containers == nil {
		t.Error("expected non-nil container slice")
	}
	if m.Available && m.Summary.Total != len(m.Containers) {
		t.Errorf("summary total %d does not match container count %d", m.Summary.Total, len(m.Containers))
	}
}
