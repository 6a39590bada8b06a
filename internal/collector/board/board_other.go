//go:build !windows

package board

import (
	"context"

	"github.com/jaypipes/ghw"
	"github.com/shirou/gopsutil/v4/cpu"
)

func (b *Board) collectBaseboard() error {
	info, err := ghw.Baseboard()
	if err != nil {
		return err
	}

	b.setBaseboard(info.Vendor, info.Product, info.Version, info.SerialNumber)
	return nil
}

func (b *Board) collectBIOS() error {
	info, err := ghw.BIOS()
	if err != nil {
		return err
	}

	b.setBIOS(info.Vendor, info.Version, info.Date)
	return nil
}

func (b *Board) collectMicrocode(ctx context.Context) error {
	infos, err := cpu.InfoWithContext(ctx)
	if err != nil {
		return err
	}

	for _, info := range infos {
		if info.Microcode != "" {
			b.Microcode = info.Microcode
			return nil
		}
	}

	return nil
}
