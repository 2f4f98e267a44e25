package tui

import (
	"time"

	"github.com/agbru/procmon/internal/sysmon"
)

// ObservationMsg carries one sampled value from the bridge.
type ObservationMsg struct {
	Name  string
	Value float64
}

// TickMsg triggers a refresh of the header and host memory.
type TickMsg time.Time

// SysStatsMsg carries host memory usage.
type SysStatsMsg struct {
	Stats sysmon.Stats
}

// HostInfoMsg carries the static host description shown in the header.
type HostInfoMsg struct {
	Info sysmon.HostInfo
	Err  error
}

// SchedulerDoneMsg reports that the sampling loop has stopped.
type SchedulerDoneMsg struct {
	Err error
}

// ContextCancelledMsg reports that the parent context was cancelled.
type ContextCancelledMsg struct {
	Err error
}
