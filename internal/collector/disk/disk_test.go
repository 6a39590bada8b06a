package disk

import (
	"testing"

	"github.com/jaypipes/ghw/pkg/block"
	gdisk "github.com/shirou/gopsutil/v4/disk"
	"github.com/stretchr/testify/assert"
)

func TestIsVirtualDisk(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"loop0", "ram1", "zram0", "dm-0", "md127", "sr0"} {
		assert.True(t, isVirtualDisk(name), name)
	}
	for _, name := range []string{"sda", "nvme0n1", "vda", "mmcblk0"} {
		assert.False(t, isVirtualDisk(name), name)
	}
}

func TestIsPseudoFs(t *testing.T) {
	t.Parallel()

	for _, fs := range []string{"", "proc", "sysfs", "tmpfs", "overlay", "squashfs", "fuse.portal"} {
		assert.True(t, isPseudoFs(fs), fs)
	}
	for _, fs := range []string{"ext4", "xfs", "btrfs", "vfat", "ntfs", "fuse.sshfs"} {
		assert.False(t, isPseudoFs(fs), fs)
	}
}

func TestApplyUsage(t *testing.T) {
	t.Parallel()

	p := &Partition{Device: "/dev/nvme0n1p2", MountPoint: "/"}
	p.applyUsage(&gdisk.UsageStat{
		Total:       512 << 30,
		Used:        440 << 30,
		Free:        72 << 30,
		UsedPercent: 85.9,
	})

	assert.Equal(t, "512 GiB", p.Total)
	assert.Equal(t, "440 GiB", p.Used)
	assert.Equal(t, "72 GiB", p.Free)
	assert.Equal(t, "critical", p.UsageLevel)
}

func TestNewPhysicalDisk(t *testing.T) {
	t.Parallel()

	pd := newPhysicalDisk(&block.Disk{
		Name:              "nvme0n1",
		SizeBytes:         1 << 40,
		DriveType:         block.DriveTypeSSD,
		StorageController: block.StorageControllerNVMe,
		Model:             "Samsung SSD 980 PRO 1TB",
		Vendor:            "unknown",
		SerialNumber:      "S5GXNF0R",
	})

	assert.Equal(t, "nvme0n1", pd.Name)
	assert.Equal(t, "1.0 TiB", pd.Size)
	assert.Equal(t, "SSD", pd.DriveType)
	assert.Equal(t, "NVMe", pd.Controller)
	assert.Empty(t, pd.Vendor)
}
