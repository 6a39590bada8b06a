package monitor

import (
	"context"
	"errors"
	"fmt"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/load"
	"github.com/shirou/gopsutil/v4/mem"
	gnet "github.com/shirou/gopsutil/v4/net"
	"github.com/shirou/gopsutil/v4/process"

	cpucollector "github.com/zenithax-cc/hwlens/internal/collector/cpu"
	"github.com/zenithax-cc/hwlens/internal/collector/disk"
)

// Reading is one raw read of the host counters. Network byte counters are
// cumulative; rates are derived by the Monitor.
type Reading struct {
	CPUPercent  float64
	ClockMHz    float64
	Temperature float64
	MemUsed     uint64
	MemTotal    uint64
	MemPercent  float64
	BytesSent   uint64
	BytesRecv   uint64
	// NetOK reports whether the byte counters were read.
	NetOK           bool
	Processes       int
	ContextSwitches uint64
	Partitions      []*disk.Partition
}

type Source interface {
	Read(ctx context.Context) (Reading, error)
}

type hostSource struct{}

// HostSource reads the local machine through gopsutil.
func HostSource() Source {
	return hostSource{}
}

// Read returns whatever could be read; failures are joined into the error.
func (hostSource) Read(ctx context.Context) (Reading, error) {
	var r Reading
	errs := make([]error, 0, 4)

	if percents, err := cpu.PercentWithContext(ctx, 0, false); err != nil {
		errs = append(errs, fmt.Errorf("cpu percent: %w", err))
	} else if len(percents) > 0 {
		r.CPUPercent = percents[0]
	}

	if mhz, err := cpucollector.CurrentMHz(ctx); err == nil {
		r.ClockMHz = mhz
	}

	if temp, err := cpucollector.PackageTemperature(ctx); err == nil {
		r.Temperature = temp
	}

	if vm, err := mem.VirtualMemoryWithContext(ctx); err != nil {
		errs = append(errs, fmt.Errorf("memory: %w", err))
	} else {
		r.MemUsed, r.MemTotal, r.MemPercent = vm.Used, vm.Total, vm.UsedPercent
	}

	if counters, err := gnet.IOCountersWithContext(ctx, false); err != nil {
		errs = append(errs, fmt.Errorf("net counters: %w", err))
	} else if len(counters) > 0 {
		r.BytesSent, r.BytesRecv = counters[0].BytesSent, counters[0].BytesRecv
		r.NetOK = true
	}

	if pids, err := process.PidsWithContext(ctx); err != nil {
		errs = append(errs, fmt.Errorf("processes: %w", err))
	} else {
		r.Processes = len(pids)
	}

	// Only Linux reports context switches.
	if misc, err := load.MiscWithContext(ctx); err == nil && misc.Ctxt > 0 {
		r.ContextSwitches = uint64(misc.Ctxt)
	}

	if parts, err := disk.Partitions(ctx); err != nil {
		errs = append(errs, fmt.Errorf("partitions: %w", err))
	} else {
		r.Partitions = parts
	}

	return r, errors.Join(errs...)
}
