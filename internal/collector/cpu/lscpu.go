package cpu

import (
	"bufio"
	"bytes"
	"context"
	"strconv"
	"strings"

	"github.com/zenithax-cc/hwlens/pkg/execute"
	"github.com/zenithax-cc/hwlens/pkg/utils"
)

const lscpu = "lscpu"

type fieldSetter func(*CPU, string)

func fill(get func(*CPU) *string) fieldSetter {
	return func(c *CPU, value string) { utils.FillField(value, get(c)) }
}

var lscpuFieldSetters = map[string]fieldSetter{
	"Architecture": func(c *CPU, value string) { c.Architecture = value },
	"Model name":   fill(func(c *CPU) *string { return &c.ModelName }),
	"CPU family":   fill(func(c *CPU) *string { return &c.Family }),
	"Model":        fill(func(c *CPU) *string { return &c.Model }),
	"Stepping":     fill(func(c *CPU) *string { return &c.Stepping }),
	"L1d cache":    fill(func(c *CPU) *string { return &c.L1dCache }),
	"L1i cache":    fill(func(c *CPU) *string { return &c.L1iCache }),
	"L2 cache":     fill(func(c *CPU) *string { return &c.L2Cache }),
	"L3 cache":     fill(func(c *CPU) *string { return &c.L3Cache }),
	"Vendor ID": func(c *CPU, value string) {
		utils.FillField(normalizeVendor(value), &c.Vendor)
	},
	"CPU max MHz": func(c *CPU, value string) {
		if v, err := strconv.ParseFloat(value, 64); err == nil && c.maxMHz == 0 {
			c.maxMHz = v
		}
	},
	"CPU(s)": func(c *CPU, value string) {
		if v, err := strconv.Atoi(value); err == nil && c.Threads <= 0 {
			c.Threads = v
		}
	},
	"Flags": func(c *CPU, value string) {
		if len(c.Flags) == 0 {
			c.Flags = strings.Fields(value)
		}
	},
}

func (c *CPU) fromLscpu(ctx context.Context) error {
	output := execute.CommandWithContext(ctx, lscpu)
	if err := output.AsError(); err != nil {
		return err
	}

	return c.parseLscpu(output.Stdout)
}

func (c *CPU) parseLscpu(data []byte) error {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		key, value, ok := strings.Cut(scanner.Text(), ":")
		if !ok {
			continue
		}

		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		if setter, ok := lscpuFieldSetters[key]; ok {
			setter(c, value)
		}
	}

	return scanner.Err()
}
