package cpu

import (
	"context"
	"fmt"
	"strconv"

	"github.com/shirou/gopsutil/v4/cpu"

	"github.com/zenithax-cc/hwlens/pkg/utils"
)

const scalingCurFreq = "/sys/devices/system/cpu/cpu0/cpufreq/scaling_cur_freq"

// CurrentMHz prefers cpufreq, which reports kHz, and falls back to the clock
// reported by the platform cpu info.
func CurrentMHz(ctx context.Context) (float64, error) {
	if line, err := utils.ReadOneLineFile(scalingCurFreq); err == nil {
		if khz, err := strconv.ParseFloat(line, 64); err == nil && khz > 0 {
			return khz / 1000, nil
		}
	}

	infos, err := cpu.InfoWithContext(ctx)
	if err != nil {
		return 0, fmt.Errorf("current clock: %w", err)
	}

	if len(infos) == 0 || infos[0].Mhz <= 0 {
		return 0, fmt.Errorf("current clock: %w", errNoCPUInfo)
	}

	return infos[0].Mhz, nil
}
