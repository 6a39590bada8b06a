//go:build windows

package memory

import (
	"context"
	"errors"

	"github.com/dustin/go-humanize"
	"github.com/yusufpapurcu/wmi"
)

const physicalMemoryQuery = "SELECT BankLabel, DeviceLocator, Manufacturer, PartNumber, SerialNumber, Capacity, " +
	"Speed, ConfiguredClockSpeed, ConfiguredVoltage, SMBIOSMemoryType, MemoryType, FormFactor, DataWidth, TotalWidth " +
	"FROM Win32_PhysicalMemory"

func (m *Memory) collectModules(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var rows []win32PhysicalMemory
	if err := wmi.Query(physicalMemoryQuery, &rows); err != nil {
		return err
	}

	if len(rows) == 0 {
		return errors.New("no rows returned")
	}

	var total uint64
	m.Modules = m.Modules[:0]
	for _, row := range rows {
		total += row.Capacity
		m.Modules = append(m.Modules, moduleFromWin32(row))
	}

	m.PhysicalSize = humanize.IBytes(total)
	m.associate()
	return nil
}
