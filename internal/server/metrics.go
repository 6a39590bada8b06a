package server

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/zenithax-cc/hwlens/internal/monitor"
	"github.com/zenithax-cc/hwlens/pkg/collector"
)

const namespace = "hwlens"

type metrics struct {
	cpuUsage       prometheus.Gauge
	cpuClock       prometheus.Gauge
	cpuTemperature prometheus.Gauge
	memoryUsed     prometheus.Gauge
	networkRate    *prometheus.GaugeVec
	processes      prometheus.Gauge
	cpuInfo        *prometheus.GaugeVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		cpuUsage: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "cpu_usage_percent",
			Help:      "CPU usage across all cores in percent.",
		}),
		cpuClock: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "cpu_clock_mhz",
			Help:      "Current CPU clock in MHz.",
		}),
		cpuTemperature: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "cpu_temperature_celsius",
			Help:      "CPU package temperature in degrees Celsius.",
		}),
		memoryUsed: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "memory_used_percent",
			Help:      "Used physical memory in percent.",
		}),
		networkRate: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "network_rate_kbps",
			Help:      "Network throughput in KB/s over the last sample interval.",
		}, []string{"direction"}),
		processes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "processes",
			Help:      "Number of running processes.",
		}),
		cpuInfo: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "cpu_info",
			Help:      "CPU classification, always 1.",
		}, []string{"model", "codename", "generation", "socket", "lithography"}),
	}

	reg.MustRegister(
		m.cpuUsage,
		m.cpuClock,
		m.cpuTemperature,
		m.memoryUsed,
		m.networkRate,
		m.processes,
		m.cpuInfo,
	)

	return m
}

func (m *metrics) observeSample(s monitor.Sample) {
	m.cpuUsage.Set(s.CPU.UsagePercent)
	m.cpuClock.Set(s.CPU.ClockMHz)
	m.cpuTemperature.Set(s.CPU.Temperature)
	m.memoryUsed.Set(s.Memory.UsedPercent)
	m.networkRate.WithLabelValues("sent").Set(s.Network.SentKBps)
	m.networkRate.WithLabelValues("recv").Set(s.Network.RecvKBps)
	m.processes.Set(float64(s.Processes))
}

func (m *metrics) observeSnapshot(snap *collector.Snapshot) {
	if snap == nil || snap.CPU == nil {
		return
	}

	c := snap.CPU
	m.cpuInfo.Reset()
	m.cpuInfo.With(prometheus.Labels{
		"model":       c.ModelName,
		"codename":    c.Codename,
		"generation":  c.Generation,
		"socket":      c.Socket,
		"lithography": c.Lithography,
	}).Set(1)
}
