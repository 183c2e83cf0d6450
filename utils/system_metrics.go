package utils

import (
	"log/slog"
	"runtime"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
)

type SystemStats struct {
	CPUPercent    float64 `json:"cpuPercent"`
	MemoryPercent float64 `json:"memoryPercent"`
	Goroutines    int     `json:"goroutines"`
}

// GetSystemStats samples host CPU and memory usage. CPU is measured since the previous call
// so the health endpoint never blocks on a sampling interval.
func GetSystemStats() SystemStats {
	stats := SystemStats{Goroutines: runtime.NumGoroutine()}

	percentage, err := cpu.Percent(0, false)
	if err != nil {
		slog.Debug("cpu usage unavailable", "error", err)
	} else if len(percentage) > 0 {
		stats.CPUPercent = percentage[0]
	}

	vm, err := mem.VirtualMemory()
	if err != nil {
		slog.Debug("memory usage unavailable", "error", err)
	} else {
		stats.MemoryPercent = vm.UsedPercent
	}

	return stats
}
