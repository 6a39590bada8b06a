package memory

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/shirou/gopsutil/v4/mem"

	"github.com/zenithax-cc/hwlens/internal/collector/smbios"
)

const (
	channelSingle  = "Single"
	channelDual    = "Dual"
	channelMulti   = "Multi"
	channelUnknown = "Unknown"

	unknownValue = "Unknown"
)

func New() *Memory {
	return &Memory{
		Channel: channelUnknown,
		Modules: make([]*Module, 0, 8),
	}
}

func (m *Memory) Name() string {
	return "memory"
}

func (m *Memory) Collect(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	errs := make([]error, 0, 2)

	if err := m.collectVirtual(ctx); err != nil {
		errs = append(errs, err)
	}

	if err := m.collectModules(ctx); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// Refresh re-reads the usage figures only.
func (m *Memory) Refresh(ctx context.Context) error {
	return m.collectVirtual(ctx)
}

func (m *Memory) collectVirtual(ctx context.Context) error {
	v, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return fmt.Errorf("virtual memory: %w", err)
	}

	m.applyVirtual(v)
	return nil
}

func (m *Memory) applyVirtual(v *mem.VirtualMemoryStat) {
	m.Total = humanize.IBytes(v.Total)
	m.Available = humanize.IBytes(v.Available)
	m.Used = humanize.IBytes(v.Used)
	m.UsedPercent = v.UsedPercent
	m.SwapTotal = humanize.IBytes(v.SwapTotal)
	m.Buffers = humanize.IBytes(v.Buffers)
	m.Cached = humanize.IBytes(v.Cached)
}

// modulesFromDevices keeps the populated slots of an SMBIOS memory array.
func modulesFromDevices(devices []*smbios.MemoryDevice) []*Module {
	modules := make([]*Module, 0, len(devices))
	for _, md := range devices {
		if md == nil || !md.Installed() {
			continue
		}
		modules = append(modules, moduleFromDevice(md))
	}
	return modules
}

func moduleFromDevice(md *smbios.MemoryDevice) *Module {
	size := md.SizeBytes()
	mod := &Module{
		Locator:           md.DeviceLocator,
		BankLocator:       md.BankLocator,
		Vendor:            md.Manufacturer,
		Size:              humanize.IBytes(size),
		SizeBytes:         int64(size),
		Type:              md.Type.String(),
		FormFactor:        md.FormFactor.String(),
		Speed:             formatSpeed(md.SpeedMTs()),
		SpeedMTs:          md.SpeedMTs(),
		ConfiguredSpeed:   formatSpeed(md.ConfiguredSpeedMTs()),
		DataWidth:         smbios.Width(md.DataWidth),
		TotalWidth:        smbios.Width(md.TotalWidth),
		ConfiguredVoltage: smbios.Voltage(md.ConfiguredVoltage),
		PartNumber:        md.PartNumber,
		SerialNumber:      md.SerialNumber,
	}

	if r := md.Rank(); r > 0 {
		mod.Rank = strconv.Itoa(r)
	}

	return mod
}

func formatSpeed(mts uint32) string {
	if mts == 0 {
		return unknownValue
	}
	return fmt.Sprintf("%d MT/s", mts)
}

// associate derives the summary fields from the module list.
func (m *Memory) associate() {
	m.UsedSlots = len(m.Modules)

	sizes := make([]int64, 0, len(m.Modules))
	var maxSpeed uint32
	for _, mod := range m.Modules {
		sizes = append(sizes, mod.SizeBytes)
		maxSpeed = max(maxSpeed, mod.SpeedMTs)

		if m.Type == "" && mod.Type != "" && mod.Type != unknownValue {
			m.Type = mod.Type
		}
	}

	m.Channel = ChannelMode(sizes)
	if maxSpeed > 0 {
		m.Speed = formatSpeed(maxSpeed)
	}
}

// ChannelMode guesses the channel layout from installed module sizes: one
// module is Single, identical modules are Dual, mixed sizes are Multi.
func ChannelMode(sizes []int64) string {
	switch {
	case len(sizes) == 0:
		return channelUnknown
	case len(sizes) < 2:
		return channelSingle
	}

	for _, s := range sizes[1:] {
		if s != sizes[0] {
			return channelMulti
		}
	}

	return channelDual
}
