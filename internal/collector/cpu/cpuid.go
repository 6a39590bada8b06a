package cpu

import (
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/klauspost/cpuid/v2"

	"github.com/zenithax-cc/hwlens/pkg/utils"
)

func (c *CPU) fromCPUID() {
	c.applyCPUID(&cpuid.CPU)
}

func (c *CPU) applyCPUID(info *cpuid.CPUInfo) {
	utils.FillField(strings.TrimSpace(info.BrandName), &c.ModelName)
	utils.FillField(normalizeVendor(info.VendorString), &c.Vendor)

	if info.Family > 0 || info.Model > 0 {
		utils.FillField(strconv.Itoa(info.Family), &c.Family)
		utils.FillField(strconv.Itoa(info.Model), &c.Model)
		utils.FillField(strconv.Itoa(info.Stepping), &c.Stepping)
	}

	if info.PhysicalCores > 0 {
		c.Cores = info.PhysicalCores
	}
	if info.LogicalCores > 0 {
		c.Threads = info.LogicalCores
	}

	if info.Hz > 0 {
		c.baseMHz = float64(info.Hz) / 1e6
	}
	if info.BoostFreq > 0 {
		c.maxMHz = float64(info.BoostFreq) / 1e6
	}

	utils.FillField(formatCache(info.Cache.L1D), &c.L1dCache)
	utils.FillField(formatCache(info.Cache.L1I), &c.L1iCache)
	utils.FillField(formatCache(info.Cache.L2), &c.L2Cache)
	utils.FillField(formatCache(info.Cache.L3), &c.L3Cache)

	if len(c.Flags) == 0 {
		c.Flags = info.FeatureSet()
	}
}

// cpuid reports -1 for unknown cache sizes.
func formatCache(size int) string {
	if size <= 0 {
		return ""
	}
	return humanize.IBytes(uint64(size))
}
