package cpu

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shirou/gopsutil/v4/cpu"

	"github.com/zenithax-cc/hwlens/pkg/utils"
)

var errNoCPUInfo = errors.New("no cpu info reported")

func (c *CPU) fromInfo(ctx context.Context) error {
	infos, err := cpu.InfoWithContext(ctx)
	if err != nil {
		return fmt.Errorf("cpu info: %w", err)
	}

	if len(infos) == 0 {
		return errNoCPUInfo
	}

	c.applyInfo(infos[0])
	return nil
}

func (c *CPU) applyInfo(info cpu.InfoStat) {
	utils.FillField(strings.TrimSpace(info.ModelName), &c.ModelName)
	utils.FillField(normalizeVendor(info.VendorID), &c.Vendor)
	utils.FillField(info.Family, &c.Family)
	utils.FillField(info.Model, &c.Model)
	if info.Family != "" {
		utils.FillField(strconv.Itoa(int(info.Stepping)), &c.Stepping)
	}
	utils.FillField(info.Microcode, &c.Microcode)

	if c.maxMHz == 0 && info.Mhz > 0 {
		c.maxMHz = info.Mhz
	}

	if len(c.Flags) == 0 {
		c.Flags = info.Flags
	}
}
