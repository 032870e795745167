package monitor

import (
	"os"
	"testing"
)

func TestProcessMonitorName(t *testing.T) {
	m, err := NewProcessMonitor()
	if err != nil {
		t.Fatalf("NewProcessMonitor error: %v", err)
	}
	if m.Name() != "process" {
		t.Errorf("expected name 'process', got '%s'", m.Name())
	}
}

func TestProcessMonitorCollect(t *testing.T) {
	m, err := NewProcessMonitor()
	if err != nil {
		t.Fatalf("NewProcessMonitor error: %v", err)
	}

	state, err := m.Collect()
	if err != nil {
		t.Fatalf("Collect error: %v", err)
	}

	if state.PID != int32(os.Getpid()) {
		t.Errorf("expected pid %d, got %d", os.Getpid(), state.PID)
	}
	if state.RSSBytes == 0 {
		t.Error("expected non-zero RSS")
	}
	if state.Goroutines < 1 {
		t.Errorf("expected at least one goroutine, got %d", state.Goroutines)
	}
	if state.UptimeSeconds < 0 {
		t.Errorf("expected non-negative uptime, got %f", state.UptimeSeconds)
	}
}
