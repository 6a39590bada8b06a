//go:build windows

package board

import (
	"context"
	"encoding/binary"
	"errors"

	"github.com/yusufpapurcu/wmi"
	"golang.org/x/sys/windows/registry"
)

const centralProcessorKey = `HARDWARE\DESCRIPTION\System\CentralProcessor\0`

type win32BaseBoard struct {
	Manufacturer string
	Product      string
	Version      string
	SerialNumber string
}

type win32BIOS struct {
	Manufacturer      string
	SMBIOSBIOSVersion string
	ReleaseDate       string
}

var errNoWMIRows = errors.New("no rows returned")

func (b *Board) collectBaseboard() error {
	var boards []win32BaseBoard
	if err := wmi.Query("SELECT Manufacturer, Product, Version, SerialNumber FROM Win32_BaseBoard", &boards); err != nil {
		return err
	}

	if len(boards) == 0 {
		return errNoWMIRows
	}

	bb := boards[0]
	b.setBaseboard(bb.Manufacturer, bb.Product, bb.Version, bb.SerialNumber)
	return nil
}

func (b *Board) collectBIOS() error {
	var bios []win32BIOS
	if err := wmi.Query("SELECT Manufacturer, SMBIOSBIOSVersion, ReleaseDate FROM Win32_BIOS", &bios); err != nil {
		return err
	}

	if len(bios) == 0 {
		return errNoWMIRows
	}

	b.setBIOS(bios[0].Manufacturer, bios[0].SMBIOSBIOSVersion, bios[0].ReleaseDate)
	return nil
}

// collectMicrocode reads the revision Windows records for the first logical
// processor, since Win32_Processor does not expose it.
func (b *Board) collectMicrocode(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	k, err := registry.OpenKey(registry.LOCAL_MACHINE, centralProcessorKey, registry.QUERY_VALUE)
	if err != nil {
		return err
	}
	defer k.Close()

	raw, _, err := k.GetBinaryValue("Update Revision")
	if errors.Is(err, registry.ErrUnexpectedType) {
		v, _, ierr := k.GetIntegerValue("Update Revision")
		if ierr != nil {
			return ierr
		}
		raw = binary.LittleEndian.AppendUint64(nil, v)
		err = nil
	}
	if err != nil {
		return err
	}

	b.Microcode = FormatUpdateRevision(raw)
	return nil
}
