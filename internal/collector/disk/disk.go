package disk

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/jaypipes/ghw"
	"github.com/jaypipes/ghw/pkg/block"
	gdisk "github.com/shirou/gopsutil/v4/disk"

	"github.com/zenithax-cc/hwlens/pkg/utils"
)

var (
	virtualDiskPrefixes = []string{"loop", "ram", "zram", "dm-", "md", "sr", "fd"}

	pseudoFsTypes = map[string]struct{}{
		"autofs": {}, "binfmt_misc": {}, "bpf": {}, "cgroup": {}, "cgroup2": {},
		"configfs": {}, "debugfs": {}, "devpts": {}, "devtmpfs": {}, "efivarfs": {},
		"fusectl": {}, "hugetlbfs": {}, "mqueue": {}, "nsfs": {}, "overlay": {},
		"proc": {}, "pstore": {}, "ramfs": {}, "securityfs": {}, "squashfs": {},
		"sysfs": {}, "tmpfs": {}, "tracefs": {},
	}
)

func New() *Disk {
	return &Disk{
		PhysicalDisk: make([]*PhysicalDisk, 0, 4),
		Partition:    make([]*Partition, 0, 8),
	}
}

func (d *Disk) Name() string {
	return "disk"
}

func (d *Disk) Collect(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	errs := make([]error, 0, 2)

	if err := d.collectPhysical(); err != nil {
		errs = append(errs, fmt.Errorf("block devices: %w", err))
	}

	if err := d.collectPartitions(ctx); err != nil {
		errs = append(errs, fmt.Errorf("partitions: %w", err))
	}

	return errors.Join(errs...)
}

func (d *Disk) collectPhysical() error {
	info, err := ghw.Block()
	if err != nil {
		return err
	}

	d.PhysicalDisk = d.PhysicalDisk[:0]
	for _, bd := range info.Disks {
		if bd == nil || isVirtualDisk(bd.Name) {
			continue
		}
		d.PhysicalDisk = append(d.PhysicalDisk, newPhysicalDisk(bd))
	}

	return nil
}

func newPhysicalDisk(bd *block.Disk) *PhysicalDisk {
	return &PhysicalDisk{
		Name:         bd.Name,
		Model:        cleanUnknown(bd.Model),
		Vendor:       cleanUnknown(bd.Vendor),
		SerialNumber: cleanUnknown(bd.SerialNumber),
		Size:         humanize.IBytes(bd.SizeBytes),
		SizeBytes:    bd.SizeBytes,
		DriveType:    bd.DriveType.String(),
		Controller:   bd.StorageController.String(),
		Removable:    bd.IsRemovable,
	}
}

func (d *Disk) collectPartitions(ctx context.Context) error {
	parts, err := Partitions(ctx)
	if err != nil {
		return err
	}

	d.Partition = parts
	return nil
}

// Partitions lists mounted, non-pseudo filesystems with their usage. Mounts
// whose usage cannot be read are kept without figures.
func Partitions(ctx context.Context) ([]*Partition, error) {
	stats, err := gdisk.PartitionsWithContext(ctx, false)
	if err != nil {
		return nil, err
	}

	res := make([]*Partition, 0, len(stats))
	seen := make(map[string]struct{}, len(stats))
	for _, ps := range stats {
		if isPseudoFs(ps.Fstype) {
			continue
		}
		if _, dup := seen[ps.Mountpoint]; dup {
			continue
		}
		seen[ps.Mountpoint] = struct{}{}

		p := &Partition{
			Device:     ps.Device,
			MountPoint: ps.Mountpoint,
			FsType:     ps.Fstype,
		}

		if usage, err := gdisk.UsageWithContext(ctx, ps.Mountpoint); err == nil {
			p.applyUsage(usage)
		}

		res = append(res, p)
	}

	return res, nil
}

func (p *Partition) applyUsage(u *gdisk.UsageStat) {
	p.Total = humanize.IBytes(u.Total)
	p.Used = humanize.IBytes(u.Used)
	p.Free = humanize.IBytes(u.Free)
	p.UsedPercent = u.UsedPercent
	p.UsageLevel = utils.UsageLevel(u.UsedPercent)
}

func isVirtualDisk(name string) bool {
	for _, prefix := range virtualDiskPrefixes {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}

func isPseudoFs(fsType string) bool {
	if fsType == "" {
		return true
	}
	if strings.HasPrefix(fsType, "fuse.") && fsType != "fuse.sshfs" {
		return true
	}
	_, ok := pseudoFsTypes[fsType]
	return ok
}

func cleanUnknown(s string) string {
	if strings.EqualFold(s, "unknown") {
		return ""
	}
	return strings.TrimSpace(s)
}
