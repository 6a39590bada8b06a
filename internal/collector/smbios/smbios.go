// Package smbios reads the firmware DMI table exported by Linux sysfs and
// decodes the structures hwlens reports, currently memory devices (type 17).
package smbios

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/zenithax-cc/hwlens/pkg/utils"
)

const (
	sysfsDMI     = "/sys/firmware/dmi/tables/DMI"
	maxTableSize = 1 << 20

	TypeMemoryDevice = 17
)

// ReadTables reads and parses the raw DMI table. The sysfs file is readable
// by root only, so unprivileged callers get an os.ErrPermission.
func ReadTables(ctx context.Context) ([]*Table, error) {
	return readTablesFrom(ctx, sysfsDMI)
}

func readTablesFrom(ctx context.Context, path string) ([]*Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	tables, err := ParseTables(io.LimitReader(f, maxTableSize))
	if err != nil {
		return nil, fmt.Errorf("smbios %s: %w", path, err)
	}

	return tables, nil
}

// MemoryDevices decodes every type 17 structure in tables. Structures that
// fail to decode are skipped and their errors joined.
func MemoryDevices(tables []*Table) ([]*MemoryDevice, error) {
	devices := make([]*MemoryDevice, 0, 8)
	var errs []error

	for _, t := range tables {
		if t.Type != TypeMemoryDevice {
			continue
		}

		md, err := ParseMemoryDevice(t)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		devices = append(devices, md)
	}

	return devices, utils.CombineErrors(errs)
}
