// Package monitor reports resource usage of the adapter process.
package monitor

import (
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v4/process"
)

type ProcessState struct {
	PID           int32     `json:"pid"`
	CPUPercent    float64   `json:"cpu_percent"`
	RSSBytes      uint64    `json:"rss_bytes"`
	VMSBytes      uint64    `json:"vms_bytes"`
	Threads       int32     `json:"threads"`
	Goroutines    int       `json:"goroutines"`
	UptimeSeconds float64   `json:"uptime_seconds"`
	Timestamp     time.Time `json:"timestamp"`
}

type ProcessMonitor struct {
	mu      sync.Mutex
	proc    *process.Process
	started time.Time
}

// NewProcessMonitor watches the current process.
func NewProcessMonitor() (*ProcessMonitor, error) {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return nil, err
	}
	return &ProcessMonitor{
		proc:    p,
		started: time.Now(),
	}, nil
}

func (m *ProcessMonitor) Name() string {
	return "process"
}

// Collect samples the process. Fields gopsutil cannot read on this
// platform are left zero.
func (m *ProcessMonitor) Collect() (*ProcessState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	state := &ProcessState{
		PID:           m.proc.Pid,
		Goroutines:    runtime.NumGoroutine(),
		UptimeSeconds: time.Since(m.started).Seconds(),
		Timestamp:     time.Now(),
	}

	mem, err := m.proc.MemoryInfo()
	if err != nil {
		return nil, err
	}
	state.RSSBytes = mem.RSS
	state.VMSBytes = mem.VMS

	if cpu, err := m.proc.CPUPercent(); err == nil {
		state.CPUPercent = cpu
	}
	if threads, err := m.proc.NumThreads(); err == nil {
		state.Threads = threads
	}

	return state, nil
}
