package smbios

import (
	"fmt"
	"strings"
)

// Offsets into the formatted area, i.e. the structure offset minus the
// 4 byte header.
const (
	offTotalWidth       = 0x08 - headerLength
	offDataWidth        = 0x0A - headerLength
	offSize             = 0x0C - headerLength
	offFormFactor       = 0x0E - headerLength
	offDeviceLocator    = 0x10 - headerLength
	offBankLocator      = 0x11 - headerLength
	offType             = 0x12 - headerLength
	offSpeed            = 0x15 - headerLength
	offManufacturer     = 0x17 - headerLength
	offSerialNumber     = 0x18 - headerLength
	offPartNumber       = 0x1A - headerLength
	offAttributes       = 0x1B - headerLength
	offExtendedSize     = 0x1C - headerLength
	offConfiguredSpeed  = 0x20 - headerLength
	offConfiguredVolt   = 0x26 - headerLength
	offExtendedSpeed    = 0x54 - headerLength
	offExtendedConfSpd  = 0x58 - headerLength
	minMemoryDeviceSize = 0x15
)

// MemoryDevice holds the type 17 fields hwlens reports. Fields added by
// later SMBIOS revisions stay zero on older firmware.
type MemoryDevice struct {
	Handle            uint16
	TotalWidth        uint16
	DataWidth         uint16
	Size              uint16
	FormFactor        FormFactor
	DeviceLocator     string
	BankLocator       string
	Type              MemoryType
	Speed             uint16
	Manufacturer      string
	SerialNumber      string
	PartNumber        string
	Attributes        uint8
	ExtendedSize      uint32
	ConfiguredSpeed   uint16
	ConfiguredVoltage uint16
	ExtendedSpeed     uint32
	ExtendedConfSpeed uint32
}

func ParseMemoryDevice(t *Table) (*MemoryDevice, error) {
	if t.Type != TypeMemoryDevice {
		return nil, fmt.Errorf("%w: %d", ErrInvalidTableType, t.Type)
	}

	if t.Length < minMemoryDeviceSize {
		return nil, fmt.Errorf("%w: memory device needs %d bytes, got %d", ErrInvalidTableLength, minMemoryDeviceSize, t.Length)
	}

	md := &MemoryDevice{Handle: t.Handle}

	// The mandatory part is bounds checked by the length test above.
	md.TotalWidth, _ = t.GetWordAt(offTotalWidth)
	md.DataWidth, _ = t.GetWordAt(offDataWidth)
	md.Size, _ = t.GetWordAt(offSize)
	ff, _ := t.GetByteAt(offFormFactor)
	md.FormFactor = FormFactor(ff)
	typ, _ := t.GetByteAt(offType)
	md.Type = MemoryType(typ)

	var err error
	if md.DeviceLocator, err = t.GetStringAt(offDeviceLocator); err != nil {
		return nil, fmt.Errorf("device locator: %w", err)
	}
	if md.BankLocator, err = t.GetStringAt(offBankLocator); err != nil {
		return nil, fmt.Errorf("bank locator: %w", err)
	}

	// SMBIOS 2.3+
	if t.has(offSpeed, 2) {
		md.Speed, _ = t.GetWordAt(offSpeed)
	}
	md.Manufacturer = optionalString(t, offManufacturer)
	md.SerialNumber = optionalString(t, offSerialNumber)
	md.PartNumber = optionalString(t, offPartNumber)

	// SMBIOS 2.6+
	if t.has(offAttributes, 1) {
		md.Attributes, _ = t.GetByteAt(offAttributes)
	}

	// SMBIOS 2.7+
	if t.has(offExtendedSize, 4) {
		md.ExtendedSize, _ = t.GetDwordAt(offExtendedSize)
	}
	if t.has(offConfiguredSpeed, 2) {
		md.ConfiguredSpeed, _ = t.GetWordAt(offConfiguredSpeed)
	}

	// SMBIOS 2.8+
	if t.has(offConfiguredVolt, 2) {
		md.ConfiguredVoltage, _ = t.GetWordAt(offConfiguredVolt)
	}

	// SMBIOS 3.3+
	if t.has(offExtendedSpeed, 4) {
		md.ExtendedSpeed, _ = t.GetDwordAt(offExtendedSpeed)
	}
	if t.has(offExtendedConfSpd, 4) {
		md.ExtendedConfSpeed, _ = t.GetDwordAt(offExtendedConfSpd)
	}

	return md, nil
}

func optionalString(t *Table, offset int) string {
	s, err := t.GetStringAt(offset)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(s)
}

// Installed reports whether the slot holds a module.
func (md *MemoryDevice) Installed() bool {
	return md.Size != 0
}

// SizeBytes returns the module size, 0 when empty or unknown.
func (md *MemoryDevice) SizeBytes() uint64 {
	const mib = 1 << 20

	switch md.Size {
	case 0, 0xFFFF:
		return 0
	case 0x7FFF:
		return uint64(md.ExtendedSize&0x7FFFFFFF) * mib
	}

	if md.Size&0x8000 != 0 {
		return uint64(md.Size&0x7FFF) << 10
	}
	return uint64(md.Size) * mib
}

// SpeedMTs returns the maximum speed in MT/s, 0 when unknown.
func (md *MemoryDevice) SpeedMTs() uint32 {
	return resolveSpeed(md.Speed, md.ExtendedSpeed)
}

// ConfiguredSpeedMTs returns the configured speed in MT/s, 0 when unknown.
func (md *MemoryDevice) ConfiguredSpeedMTs() uint32 {
	return resolveSpeed(md.ConfiguredSpeed, md.ExtendedConfSpeed)
}

func resolveSpeed(speed uint16, extended uint32) uint32 {
	switch speed {
	case 0:
		return 0
	case 0xFFFF:
		return extended & 0x7FFFFFFF
	default:
		return uint32(speed)
	}
}

// Rank returns the rank count, 0 when unknown.
func (md *MemoryDevice) Rank() int {
	return int(md.Attributes & 0x0F)
}

// Width formats a bus width, "Unknown" for 0 and 0xFFFF.
func Width(v uint16) string {
	if v == 0 || v == 0xFFFF {
		return unknown
	}
	return fmt.Sprintf("%d bits", v)
}

// Voltage formats a millivolt value, "Unknown" for 0.
func Voltage(mv uint16) string {
	switch {
	case mv == 0:
		return unknown
	case mv%100 == 0:
		return fmt.Sprintf("%.1f V", float32(mv)/1000)
	default:
		return fmt.Sprintf("%g V", float32(mv)/1000)
	}
}

const unknown = "Unknown"

type FormFactor uint8

var formFactorNames = map[FormFactor]string{
	0x01: "Other",
	0x02: unknown,
	0x03: "SIMM",
	0x04: "SIP",
	0x05: "Chip",
	0x06: "DIP",
	0x07: "ZIP",
	0x08: "Proprietary Card",
	0x09: "DIMM",
	0x0A: "TSOP",
	0x0B: "Row of chips",
	0x0C: "RIMM",
	0x0D: "SODIMM",
	0x0E: "SRIMM",
	0x0F: "FB-DIMM",
	0x10: "Die",
	0x11: "CAMM",
}

func (f FormFactor) String() string {
	if name, ok := formFactorNames[f]; ok {
		return name
	}
	return unknown
}

// MemoryType is the SMBIOS memory type code. Windows reports the same codes
// as Win32_PhysicalMemory.SMBIOSMemoryType.
type MemoryType uint8

var memoryTypeNames = map[MemoryType]string{
	0x01: "Other",
	0x02: unknown,
	0x03: "DRAM",
	0x04: "EDRAM",
	0x05: "VRAM",
	0x06: "SRAM",
	0x07: "RAM",
	0x08: "ROM",
	0x09: "Flash",
	0x0A: "EEPROM",
	0x0B: "FEPROM",
	0x0C: "EPROM",
	0x0D: "CDRAM",
	0x0E: "3DRAM",
	0x0F: "SDRAM",
	0x10: "SGRAM",
	0x11: "RDRAM",
	0x12: "DDR",
	0x13: "DDR2",
	0x14: "DDR2 FB-DIMM",
	0x18: "DDR3",
	0x19: "FBD2",
	0x1A: "DDR4",
	0x1B: "LPDDR",
	0x1C: "LPDDR2",
	0x1D: "LPDDR3",
	0x1E: "LPDDR4",
	0x1F: "Logical non-volatile device",
	0x20: "HBM",
	0x21: "HBM2",
	0x22: "DDR5",
	0x23: "LPDDR5",
	0x24: "HBM3",
}

func (m MemoryType) String() string {
	if name, ok := memoryTypeNames[m]; ok {
		return name
	}
	return unknown
}

// Known reports whether m names a concrete technology.
func (m MemoryType) Known() bool {
	_, ok := memoryTypeNames[m]
	return ok && m != 0x01 && m != 0x02
}
