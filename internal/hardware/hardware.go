// Package hardware detects the local compute resources a run can use.
package hardware

import (
	"runtime"

	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/mem"

	"github.com/ZerkerEOD/p12crack/pkg/debug"
)

const (
	// MinReadBuffer is the smallest dictionary read buffer handed out.
	MinReadBuffer = 64 * 1024
	// MaxReadBuffer caps dictionary read buffers.
	MaxReadBuffer = 16 * 1024 * 1024

	defaultReadBuffer = 1024 * 1024
)

// Resources describes the usable local hardware.
type Resources struct {
	LogicalCores    int
	AvailableMemory uint64
}

// Detect probes the CPU and memory. Probe failures fall back to
// conservative defaults instead of failing the run.
func Detect() Resources {
	res := Resources{LogicalCores: runtime.NumCPU()}

	if count, err := cpu.Counts(true); err == nil && count > 0 {
		res.LogicalCores = count
	} else if err != nil {
		debug.Warning("CPU detection failed, falling back to runtime count: %v", err)
	}

	if vm, err := mem.VirtualMemory(); err == nil {
		res.AvailableMemory = vm.Available
	} else {
		debug.Warning("Memory detection failed: %v", err)
	}

	debug.Fields("Hardware detected", map[string]interface{}{
		"logical_cores":    res.LogicalCores,
		"available_memory": res.AvailableMemory,
	})

	return res
}

// WorkerCount returns how many workers to run when the user does not
// pin a thread count.
func (r Resources) WorkerCount() int {
	if r.LogicalCores < 1 {
		return 1
	}
	return r.LogicalCores
}

// ReadBufferSize sizes dictionary read buffers from available memory,
// taking 1/64th of it clamped to [MinReadBuffer, MaxReadBuffer]. With
// unknown memory it returns a 1MiB default.
func (r Resources) ReadBufferSize() int {
	if r.AvailableMemory == 0 {
		return defaultReadBuffer
	}

	size := r.AvailableMemory / 64
	if size < MinReadBuffer {
		return MinReadBuffer
	}
	if size > MaxReadBuffer {
		return MaxReadBuffer
	}
	return int(size)
}
