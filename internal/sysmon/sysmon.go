// Package sysmon describes the host the samplers run on.
package sysmon

import (
	"fmt"
	"time"

	"github.com/prometheus/procfs"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
)

// HostInfo is a static description of the host.
type HostInfo struct {
	Hostname    string
	Platform    string
	Kernel      string
	LogicalCPUs int
	MemoryTotal uint64
	// StatCPUs is the number of per-CPU rows the counter resource exposes.
	StatCPUs int
	BootTime time.Time
}

// Stats holds a single snapshot of system-wide memory usage.
type Stats struct {
	MemUsed    uint64
	MemTotal   uint64
	MemPercent float64 // 0.0 .. 100.0
}

// Probe gathers HostInfo. Platform details come from the OS; the CPU rows
// and boot time are read from the procfs mounted at root. Fields that cannot
// be determined are left zero; an error is returned only when root is not a
// usable procfs.
func Probe(root string) (HostInfo, error) {
	var info HostInfo
	if hi, err := host.Info(); err == nil && hi != nil {
		info.Hostname = hi.Hostname
		info.Platform = hi.Platform
		if hi.PlatformVersion != "" {
			info.Platform += " " + hi.PlatformVersion
		}
		info.Kernel = hi.KernelVersion
	}
	if n, err := cpu.Counts(true); err == nil {
		info.LogicalCPUs = n
	}
	if vm, err := mem.VirtualMemory(); err == nil && vm != nil {
		info.MemoryTotal = vm.Total
	}

	cpus, boot, err := ProcStat(root)
	if err != nil {
		return info, err
	}
	info.StatCPUs = cpus
	info.BootTime = boot
	return info, nil
}

// ProcStat returns the number of per-CPU rows and the boot time recorded in
// the stat file below root.
func ProcStat(root string) (int, time.Time, error) {
	fs, err := procfs.NewFS(root)
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("open procfs %s: %w", root, err)
	}
	stat, err := fs.Stat()
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("read %s/stat: %w", root, err)
	}
	return len(stat.CPU), time.Unix(int64(stat.BootTime), 0), nil
}

// Sample collects a system-wide memory snapshot. Returns zero values on error.
func Sample() Stats {
	var s Stats
	vm, err := mem.VirtualMemory()
	if err == nil && vm != nil {
		s.MemUsed = vm.Used
		s.MemTotal = vm.Total
		s.MemPercent = vm.UsedPercent
	}
	return s
}
