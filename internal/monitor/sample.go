package monitor

import (
	"math"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/zenithax-cc/hwlens/internal/collector/disk"
	"github.com/zenithax-cc/hwlens/pkg/utils"
)

type Sample struct {
	Time            time.Time         `json:"time"`
	CPU             CPUSample         `json:"cpu"`
	Memory          MemorySample      `json:"memory"`
	Network         NetworkSample     `json:"network"`
	Processes       int               `json:"processes"`
	ContextSwitches uint64            `json:"context_switches"`
	Partitions      []*disk.Partition `json:"partitions,omitempty"`
}

type CPUSample struct {
	UsagePercent float64 `json:"usage_percent"`
	Level        string  `json:"level"`
	ClockMHz     float64 `json:"clock_mhz"`
	Temperature  float64 `json:"temperature,omitempty"`
}

type MemorySample struct {
	Used        uint64  `json:"used"`
	Total       uint64  `json:"total"`
	UsedPercent float64 `json:"used_percent"`
	Summary     string  `json:"summary"`
}

type NetworkSample struct {
	SentKBps float64 `json:"sent_kbps"`
	RecvKBps float64 `json:"recv_kbps"`
	// Load maps the combined rate onto 0-100 for gauges.
	Load float64 `json:"load"`
}

// netRate converts a counter delta to KB/s. A counter that went backwards
// (interface reset, wraparound) yields 0.
func netRate(prev, cur uint64, elapsed time.Duration) float64 {
	if cur < prev || elapsed <= 0 {
		return 0
	}
	return float64(cur-prev) / 1024 / elapsed.Seconds()
}

func networkLoad(sent, recv float64) float64 {
	return math.Min(100, (sent+recv)/50)
}

func buildSample(now time.Time, cur Reading, prev *Reading, elapsed time.Duration) Sample {
	s := Sample{
		Time: now,
		CPU: CPUSample{
			UsagePercent: round2(cur.CPUPercent),
			Level:        utils.UsageLevel(cur.CPUPercent),
			ClockMHz:     round2(cur.ClockMHz),
			Temperature:  cur.Temperature,
		},
		Memory: MemorySample{
			Used:        cur.MemUsed,
			Total:       cur.MemTotal,
			UsedPercent: round2(cur.MemPercent),
			Summary:     humanize.IBytes(cur.MemUsed) + " / " + humanize.IBytes(cur.MemTotal),
		},
		Processes:       cur.Processes,
		ContextSwitches: cur.ContextSwitches,
		Partitions:      cur.Partitions,
	}

	if prev != nil && cur.NetOK {
		sent := round2(netRate(prev.BytesSent, cur.BytesSent, elapsed))
		recv := round2(netRate(prev.BytesRecv, cur.BytesRecv, elapsed))
		s.Network = NetworkSample{
			SentKBps: sent,
			RecvKBps: recv,
			Load:     networkLoad(sent, recv),
		}
	}

	return s
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
