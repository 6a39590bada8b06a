package memory

import (
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/zenithax-cc/hwlens/internal/collector/smbios"
)

type win32PhysicalMemory struct {
	BankLabel            string
	DeviceLocator        string
	Manufacturer         string
	PartNumber           string
	SerialNumber         string
	Capacity             uint64
	Speed                uint32
	ConfiguredClockSpeed uint32
	ConfiguredVoltage    uint32
	SMBIOSMemoryType     uint32
	MemoryType           uint16
	FormFactor           uint16
	DataWidth            uint16
	TotalWidth           uint16
}

// legacy Win32_PhysicalMemory.MemoryType codes, reported by older firmware
// that leaves SMBIOSMemoryType unset
var win32MemoryTypes = map[uint16]string{
	20: "DDR",
	21: "DDR2",
	22: "DDR2 FB-DIMM",
	24: "DDR3",
	25: "FBD2",
	26: "DDR4",
}

// CIM_Chip form factors, which differ from the SMBIOS codes
var win32FormFactors = map[uint16]string{
	1:  "Other",
	2:  "SIP",
	3:  "DIP",
	4:  "ZIP",
	6:  "Proprietary Card",
	7:  "SIMM",
	8:  "DIMM",
	9:  "TSOP",
	11: "RIMM",
	12: "SODIMM",
	13: "SRIMM",
}

func win32MemoryType(smbiosType uint32, legacy uint16) string {
	if t := smbios.MemoryType(smbiosType); smbiosType <= 0xFF && t.Known() {
		return t.String()
	}
	if name, ok := win32MemoryTypes[legacy]; ok {
		return name
	}
	return unknownValue
}

func win32FormFactor(v uint16) string {
	if name, ok := win32FormFactors[v]; ok {
		return name
	}
	return unknownValue
}

func moduleFromWin32(pm win32PhysicalMemory) *Module {
	return &Module{
		Locator:           pm.DeviceLocator,
		BankLocator:       pm.BankLabel,
		Vendor:            pm.Manufacturer,
		Size:              humanize.IBytes(pm.Capacity),
		SizeBytes:         int64(pm.Capacity),
		Type:              win32MemoryType(pm.SMBIOSMemoryType, pm.MemoryType),
		FormFactor:        win32FormFactor(pm.FormFactor),
		Speed:             formatSpeed(pm.Speed),
		SpeedMTs:          pm.Speed,
		ConfiguredSpeed:   formatSpeed(pm.ConfiguredClockSpeed),
		DataWidth:         smbios.Width(pm.DataWidth),
		TotalWidth:        smbios.Width(pm.TotalWidth),
		ConfiguredVoltage: smbios.Voltage(uint16(min(pm.ConfiguredVoltage, 0xFFFF))),
		PartNumber:        strings.TrimSpace(pm.PartNumber),
		SerialNumber:      strings.TrimSpace(pm.SerialNumber),
	}
}
