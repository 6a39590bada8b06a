//go:build !windows

package memory

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/dustin/go-humanize"
	"github.com/jaypipes/ghw"

	"github.com/zenithax-cc/hwlens/internal/collector/smbios"
)

func (m *Memory) collectModules(ctx context.Context) error {
	info, err := ghw.Memory()
	if err != nil {
		return fmt.Errorf("memory modules: %w", err)
	}

	if info.TotalPhysicalBytes > 0 {
		m.PhysicalSize = humanize.IBytes(uint64(info.TotalPhysicalBytes))
	}

	m.Modules = m.Modules[:0]
	for _, mod := range info.Modules {
		if mod == nil {
			continue
		}

		m.Modules = append(m.Modules, &Module{
			Locator:      mod.Location,
			Label:        mod.Label,
			Vendor:       mod.Vendor,
			Size:         humanize.IBytes(uint64(max(mod.SizeBytes, 0))),
			SizeBytes:    mod.SizeBytes,
			SerialNumber: mod.SerialNumber,
		})
	}

	err = m.collectFromSMBIOS(ctx)
	m.associate()
	return err
}

// collectFromSMBIOS replaces the ghw module list with the richer type 17
// records. Without root the DMI table is unreadable and the ghw list stays.
func (m *Memory) collectFromSMBIOS(ctx context.Context) error {
	tables, err := smbios.ReadTables(ctx)
	if err != nil {
		if errors.Is(err, fs.ErrPermission) || errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("smbios: %w", err)
	}

	devices, err := smbios.MemoryDevices(tables)
	if modules := modulesFromDevices(devices); len(modules) > 0 {
		m.Modules = modules
	}

	if err != nil {
		return fmt.Errorf("smbios memory devices: %w", err)
	}
	return nil
}
