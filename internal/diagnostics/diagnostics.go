// Package diagnostics collects host information for the doctor command.
package diagnostics

import (
	"runtime"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/load"
	"github.com/shirou/gopsutil/v3/mem"
)

// HostSnapshot holds a best-effort view of the host's resources. Fields
// a probe could not fill stay at their zero value.
type HostSnapshot struct {
	GoVersion  string  `json:"go_version"`
	GOOS       string  `json:"goos"`
	GOARCH     string  `json:"goarch"`
	CPUModel   string  `json:"cpu_model,omitempty"`
	CPUCores   int     `json:"cpu_cores"`
	MemTotalMB float64 `json:"mem_total_mb"`
	MemPercent float64 `json:"mem_percent"`
	DiskFreeGB float64 `json:"disk_free_gb"`
	LoadAvg1   float64 `json:"load_avg_1"`
}

// CollectHost gathers the snapshot. Probe failures are not errors; the
// doctor command reports whatever could be read.
func CollectHost() HostSnapshot {
	snap := HostSnapshot{
		GoVersion: runtime.Version(),
		GOOS:      runtime.GOOS,
		GOARCH:    runtime.GOARCH,
		CPUCores:  runtime.NumCPU(),
	}

	if infos, err := cpu.Info(); err == nil && len(infos) > 0 {
		snap.CPUModel = infos[0].ModelName
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		snap.MemTotalMB = float64(vm.Total) / 1024 / 1024
		snap.MemPercent = vm.UsedPercent
	}
	if usage, err := disk.Usage("."); err == nil {
		snap.DiskFreeGB = float64(usage.Free) / 1024 / 1024 / 1024
	}
	if avg, err := load.Avg(); err == nil {
		snap.LoadAvg1 = avg.Load1
	}
	return snap
}
