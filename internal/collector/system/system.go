package system

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shirou/gopsutil/v4/host"

	"github.com/zenithax-cc/hwlens/pkg/utils"
)

const osReleasePath = "/etc/os-release"

var osReleaseFieldMap = map[string]func(*System, string){
	"PRETTY_NAME":      func(s *System, v string) { s.PrettyName = v },
	"VERSION_CODENAME": func(s *System, v string) { s.CodeName = v },
}

func New() *System {
	return &System{}
}

func (s *System) Name() string {
	return "system"
}

func (s *System) Collect(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	info, err := host.InfoWithContext(ctx)
	if err != nil {
		return fmt.Errorf("host info: %w", err)
	}

	s.applyHostInfo(info, time.Now())

	// Only present on Linux and a few BSDs.
	if utils.FileExists(osReleasePath) {
		lines, err := utils.ReadLines(osReleasePath)
		if err != nil {
			return fmt.Errorf("os release: %w", err)
		}
		s.parseOSRelease(lines)
	}

	return nil
}

func (s *System) applyHostInfo(info *host.InfoStat, now time.Time) {
	s.HostName = info.Hostname
	s.OS = info.OS
	s.Platform = info.Platform
	s.PlatformFamily = info.PlatformFamily
	s.PlatformVersion = info.PlatformVersion
	s.KernelRelease = info.KernelVersion
	s.Architecture = info.KernelArch
	s.Processes = info.Procs
	s.UptimeSeconds = info.Uptime
	s.Uptime = FormatUptime(info.Uptime)

	if info.VirtualizationSystem != "" {
		s.Virtualization = info.VirtualizationSystem + " (" + info.VirtualizationRole + ")"
	}

	if info.BootTime > 0 {
		boot := time.Unix(int64(info.BootTime), 0)
		s.BootTime = boot.Format(time.DateTime) + " (" + humanize.RelTime(boot, now, "ago", "from now") + ")"
	}
}

func (s *System) parseOSRelease(lines []string) {
	for _, line := range lines {
		key, value, ok := strings.Cut(strings.TrimSpace(line), "=")
		if !ok {
			continue
		}

		if setter, exists := osReleaseFieldMap[key]; exists {
			setter(s, strings.Trim(value, `"'`))
		}
	}
}

// FormatUptime renders seconds as "3d 4h 5m".
func FormatUptime(seconds uint64) string {
	d := time.Duration(seconds) * time.Second
	days := d / (24 * time.Hour)
	d -= days * 24 * time.Hour
	hours := d / time.Hour
	d -= hours * time.Hour
	minutes := d / time.Minute

	if days > 0 {
		return fmt.Sprintf("%dd %dh %dm", days, hours, minutes)
	}
	return fmt.Sprintf("%dh %dm", hours, minutes)
}
