package board

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/zenithax-cc/hwlens/pkg/utils"
)

const naValue = "N/A"

var (
	regexCIMDate   = regexp.MustCompile(`^(\d{4})(\d{2})(\d{2})`)
	regexSlashDate = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)
)

func New() *Board {
	return &Board{
		Manufacturer: naValue,
		Product:      naValue,
		Version:      naValue,
		SerialNumber: naValue,
		BIOS: &BIOS{
			Vendor:      naValue,
			Version:     naValue,
			ReleaseDate: naValue,
		},
		Microcode: naValue,
	}
}

func (b *Board) Name() string {
	return "board"
}

func (b *Board) Collect(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	errs := make([]error, 0, 3)

	if err := b.collectBaseboard(); err != nil {
		errs = append(errs, fmt.Errorf("baseboard: %w", err))
	}

	if err := b.collectBIOS(); err != nil {
		errs = append(errs, fmt.Errorf("bios: %w", err))
	}

	if err := b.collectMicrocode(ctx); err != nil {
		errs = append(errs, fmt.Errorf("microcode: %w", err))
	}

	return errors.Join(errs...)
}

// FormatUpdateRevision renders the Windows "Update Revision" registry value.
// The 8 byte little-endian value carries the microcode revision in its high
// dword; some firmware stores it in the low dword instead.
func FormatUpdateRevision(raw []byte) string {
	if len(raw) < 8 {
		return naValue
	}

	v := binary.LittleEndian.Uint64(raw)
	rev := uint32(v >> 32)
	if rev == 0 {
		rev = uint32(v)
	}
	if rev == 0 {
		return naValue
	}

	return fmt.Sprintf("0x%x", rev)
}

func (b *Board) setBaseboard(manufacturer, product, version, serial string) {
	b.Manufacturer = clean(manufacturer)
	b.Product = clean(product)
	b.Version = clean(version)
	b.SerialNumber = clean(serial)
}

func (b *Board) setBIOS(vendor, version, date string) {
	b.BIOS.Vendor = clean(vendor)
	b.BIOS.Version = clean(version)
	b.BIOS.ReleaseDate = FormatBIOSDate(date)
}

// FormatBIOSDate converts a firmware release date to DD/MM/YYYY. It accepts
// CIM datetimes ("20230515000000.000000+000") and SMBIOS MM/DD/YYYY dates.
func FormatBIOSDate(raw string) string {
	raw = strings.TrimSpace(raw)

	if m := regexCIMDate.FindStringSubmatch(raw); m != nil {
		return m[3] + "/" + m[2] + "/" + m[1]
	}

	if m := regexSlashDate.FindStringSubmatch(raw); m != nil {
		month, _ := strconv.Atoi(m[1])
		day, _ := strconv.Atoi(m[2])
		return fmt.Sprintf("%02d/%02d/%s", day, month, m[3])
	}

	return naValue
}

// clean maps the placeholders firmware vendors leave in DMI tables to N/A.
func clean(s string) string {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "", "unknown", "to be filled by o.e.m.", "default string", "not specified", "none":
		return naValue
	}

	return utils.ValueOr(s, naValue)
}
