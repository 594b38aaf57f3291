// Package metrics collects host and Docker metrics for the
// system-info endpoint. Collection is read-only: control operations
// never go through this package.
package metrics

import (
	"context"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/load"
	"github.com/shirou/gopsutil/v3/mem"
)

// SystemMetrics represents current host resource usage.
type SystemMetrics struct {
	CPU     CPUMetrics    `json:"cpu"`
	Memory  MemoryMetrics `json:"memory"`
	Disk    DiskMetrics   `json:"disk"`
	Uptime  int64         `json:"uptime"`   // seconds
	LoadAvg []float64     `json:"load_avg"` // 1, 5, 15 min
}

// CPUMetrics represents CPU usage information.
type CPUMetrics struct {
	UsagePercent float64 `json:"usage_percent"`
	Cores        int     `json:"cores"`
}

// MemoryMetrics represents memory usage information.
type MemoryMetrics struct {
	Total       uint64  `json:"total"`
	Used        uint64  `json:"used"`
	Available   uint64  `json:"available"`
	UsedPercent float64 `json:"used_percent"`
}

// DiskMetrics represents root filesystem usage.
type DiskMetrics struct {
	Total       uint64  `json:"total"`
	Used        uint64  `json:"used"`
	Available   uint64  `json:"available"`
	UsedPercent float64 `json:"used_percent"`
}

// GetSystemMetrics collects host metrics. The CPU sample is the
// slowest collector, so everything runs in parallel.
func GetSystemMetrics(ctx context.Context) (*SystemMetrics, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	metrics := &SystemMetrics{}
	var wg sync.WaitGroup
	var mu sync.Mutex

	wg.Add(1)
	go func() {
		defer wg.Done()
		percent, err := cpu.PercentWithContext(ctx, 200*time.Millisecond, false)
		cores, _ := cpu.CountsWithContext(ctx, true)
		if err == nil && len(percent) > 0 {
			mu.Lock()
			metrics.CPU.UsagePercent = percent[0]
			metrics.CPU.Cores = cores
			mu.Unlock()
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		vm, err := mem.VirtualMemoryWithContext(ctx)
		if err != nil {
			return
		}
		mu.Lock()
		metrics.Memory = MemoryMetrics{
			Total:       vm.Total,
			Used:        vm.Used,
			Available:   vm.Available,
			UsedPercent: vm.UsedPercent,
		}
		mu.Unlock()
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		usage, err := disk.UsageWithContext(ctx, "/")
		if err != nil {
			return
		}
		mu.Lock()
		metrics.Disk = DiskMetrics{
			Total:       usage.Total,
			Used:        usage.Used,
			Available:   usage.Free,
			UsedPercent: usage.UsedPercent,
		}
		mu.Unlock()
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		if uptime, err := host.UptimeWithContext(ctx); err == nil {
			mu.Lock()
			metrics.Uptime = int64(uptime)
			mu.Unlock()
		}
		if avg, err := load.AvgWithContext(ctx); err == nil {
			mu.Lock()
			metrics.LoadAvg = []float64{avg.Load1, avg.Load5, avg.Load15}
			mu.Unlock()
		}
	}()

	wg.Wait()

	return metrics, ctx.Err()
}
