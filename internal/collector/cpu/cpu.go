package cpu

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"
	"strconv"

	"github.com/shirou/gopsutil/v4/cpu"

	"github.com/zenithax-cc/hwlens/pkg/cpuclass"
	"github.com/zenithax-cc/hwlens/pkg/utils"
)

const (
	notAvailable = "N/A"
)

var vendorMap = map[string]string{
	"AuthenticAMD": "AMD",
	"GenuineIntel": "Intel",
	"0x48":         "HiSilicon",
}

// New returns a CPU collector. A nil classifier uses the English markers.
func New(classifier *cpuclass.Classifier) *CPU {
	if classifier == nil {
		classifier = cpuclass.New(cpuclass.English)
	}

	return &CPU{
		Architecture: runtime.GOARCH,
		classifier:   classifier,
	}
}

func (c *CPU) Name() string {
	return "cpu"
}

// Collect fills the static processor facts, classifies the brand string and
// takes a first reading of the dynamic ones.
func (c *CPU) Collect(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	errs := make([]error, 0, 4)

	c.fromCPUID()

	if err := c.fromInfo(ctx); err != nil {
		errs = append(errs, err)
	}

	if c.ModelName == "" {
		if err := c.fromLscpu(ctx); err != nil {
			errs = append(errs, err)
		}
	}

	if err := c.collectCounts(ctx); err != nil {
		errs = append(errs, err)
	}

	c.classify()
	c.formatClocks()

	if err := c.Refresh(ctx); err != nil {
		errs = append(errs, err)
	}

	return utils.CombineErrors(errs)
}

// Refresh updates usage, current clock and temperature.
func (c *CPU) Refresh(ctx context.Context) error {
	errs := make([]error, 0, 3)

	percents, err := cpu.PercentWithContext(ctx, 0, false)
	if err != nil {
		errs = append(errs, fmt.Errorf("cpu usage: %w", err))
	} else if len(percents) > 0 {
		c.setUsage(percents[0])
	}

	if mhz, err := CurrentMHz(ctx); err != nil {
		errs = append(errs, err)
	} else {
		c.CurrentClock = formatMHz(mhz)
	}

	// Virtual machines usually expose no sensor at all.
	if temp, err := PackageTemperature(ctx); err != nil {
		if !errors.Is(err, ErrNoTemperature) {
			errs = append(errs, err)
		}
	} else {
		c.Temperature = formatCelsius(temp)
	}

	return utils.CombineErrors(errs)
}

func (c *CPU) setUsage(percent float64) {
	c.UsagePercent = math.Round(percent*100) / 100
	c.Usage = strconv.Itoa(int(percent)) + " %"
	c.UsageLevel = utils.UsageLevel(percent)
}

// Reclassify recomputes the classification fields with classifier, e.g.
// after the unknown markers changed language.
func (c *CPU) Reclassify(classifier *cpuclass.Classifier) {
	if classifier != nil {
		c.classifier = classifier
	}
	c.classify()
}

func (c *CPU) classify() {
	brand := c.ModelName
	if brand == "" {
		brand = c.Vendor
	}

	d := c.classifier.Classify(brand)
	c.Codename = d.Codename
	c.Lithography = d.Lithography
	c.Socket = d.Socket
	c.Generation = d.Generation
	c.GenerationLabel = d.Label()
}

func (c *CPU) collectCounts(ctx context.Context) error {
	if c.Cores > 0 && c.Threads > 0 {
		return nil
	}

	var errs []error
	if c.Cores <= 0 {
		n, err := cpu.CountsWithContext(ctx, false)
		if err != nil {
			errs = append(errs, fmt.Errorf("physical core count: %w", err))
		}
		c.Cores = n
	}

	if c.Threads <= 0 {
		n, err := cpu.CountsWithContext(ctx, true)
		if err != nil {
			errs = append(errs, fmt.Errorf("logical core count: %w", err))
			n = runtime.NumCPU()
		}
		c.Threads = n
	}

	return utils.CombineErrors(errs)
}

func (c *CPU) formatClocks() {
	c.BaseClock = notAvailable
	if c.baseMHz > 0 {
		c.BaseClock = formatMHz(c.baseMHz)
	}

	c.MaxClock = notAvailable
	if c.maxMHz > 0 {
		c.MaxClock = formatMHz(c.maxMHz)
	}
}

func normalizeVendor(vendor string) string {
	if v, ok := vendorMap[vendor]; ok {
		return v
	}
	return vendor
}

func formatMHz(mhz float64) string {
	return strconv.FormatFloat(mhz, 'f', 2, 64) + " MHz"
}

func formatCelsius(temp float64) string {
	return strconv.FormatFloat(temp, 'f', 1, 64) + " °C"
}
