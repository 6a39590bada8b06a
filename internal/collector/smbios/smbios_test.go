package smbios

import (
	"bytes"
	"context"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryDeviceFields mirrors the first 0x28 bytes of a type 17 structure.
type memoryDeviceFields struct {
	Type              uint8
	Length            uint8
	Handle            uint16
	ArrayHandle       uint16
	ErrorHandle       uint16
	TotalWidth        uint16
	DataWidth         uint16
	Size              uint16
	FormFactor        uint8
	DeviceSet         uint8
	DeviceLocator     uint8
	BankLocator       uint8
	MemoryType        uint8
	TypeDetail        uint16
	Speed             uint16
	Manufacturer      uint8
	SerialNumber      uint8
	AssetTag          uint8
	PartNumber        uint8
	Attributes        uint8
	ExtendedSize      uint32
	ConfiguredSpeed   uint16
	MinimumVoltage    uint16
	MaximumVoltage    uint16
	ConfiguredVoltage uint16
}

func ddr4Device() memoryDeviceFields {
	return memoryDeviceFields{
		Type:              TypeMemoryDevice,
		Length:            0x28,
		Handle:            0x0040,
		TotalWidth:        64,
		DataWidth:         64,
		Size:              16384,
		FormFactor:        0x09,
		DeviceLocator:     1,
		BankLocator:       2,
		MemoryType:        0x1A,
		TypeDetail:        0x0080,
		Speed:             3200,
		Manufacturer:      3,
		SerialNumber:      4,
		PartNumber:        5,
		Attributes:        0x02,
		ConfiguredSpeed:   3000,
		MinimumVoltage:    1200,
		MaximumVoltage:    1200,
		ConfiguredVoltage: 1200,
	}
}

func encodeTable(t *testing.T, fields any, strs ...string) []byte {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, fields))

	if len(strs) == 0 {
		buf.Write([]byte{0, 0})
		return buf.Bytes()
	}

	for _, s := range strs {
		buf.WriteString(s)
		buf.WriteByte(0)
	}
	buf.WriteByte(0)
	return buf.Bytes()
}

func endOfTable(t *testing.T) []byte {
	return encodeTable(t, Header{Type: typeEndOfTable, Length: headerLength, Handle: 0xFEFF})
}

func TestParseTables(t *testing.T) {
	t.Parallel()

	raw := append(encodeTable(t, ddr4Device(), "DIMM_A1", "BANK 0", "Kingston", " 0A1B2C3D", "KHX3200C16D4/16GX  "), endOfTable(t)...)
	// trailing bytes after the end marker are ignored
	raw = append(raw, 0xFF, 0xFF)

	tables, err := ParseTables(bytes.NewReader(raw))
	require.NoError(t, err)
	require.Len(t, tables, 2)

	assert.EqualValues(t, TypeMemoryDevice, tables[0].Type)
	assert.Len(t, tables[0].FormattedArea, 0x28-headerLength)
	assert.Equal(t, []string{"DIMM_A1", "BANK 0", "Kingston", " 0A1B2C3D", "KHX3200C16D4/16GX  "}, tables[0].StringArea)
	assert.EqualValues(t, typeEndOfTable, tables[1].Type)
	assert.Empty(t, tables[1].StringArea)
}

func TestParseTablesTruncated(t *testing.T) {
	t.Parallel()

	raw := encodeTable(t, ddr4Device(), "DIMM_A1")
	_, err := ParseTables(bytes.NewReader(raw[:20]))
	require.Error(t, err)

	_, err = ParseTables(bytes.NewReader([]byte{17, 2, 0, 0, 0, 0}))
	require.ErrorIs(t, err, ErrInvalidTableLength)
}

func TestParseMemoryDevice(t *testing.T) {
	t.Parallel()

	raw := encodeTable(t, ddr4Device(), "DIMM_A1", "BANK 0", "Kingston", " 0A1B2C3D", "KHX3200C16D4/16GX  ")
	tables, err := ParseTables(bytes.NewReader(raw))
	require.NoError(t, err)

	md, err := ParseMemoryDevice(tables[0])
	require.NoError(t, err)

	assert.True(t, md.Installed())
	assert.Equal(t, uint64(16<<30), md.SizeBytes())
	assert.Equal(t, "DIMM_A1", md.DeviceLocator)
	assert.Equal(t, "BANK 0", md.BankLocator)
	assert.Equal(t, "Kingston", md.Manufacturer)
	assert.Equal(t, "0A1B2C3D", md.SerialNumber)
	assert.Equal(t, "KHX3200C16D4/16GX", md.PartNumber)
	assert.Equal(t, "DDR4", md.Type.String())
	assert.Equal(t, "DIMM", md.FormFactor.String())
	assert.Equal(t, uint32(3200), md.SpeedMTs())
	assert.Equal(t, uint32(3000), md.ConfiguredSpeedMTs())
	assert.Equal(t, 2, md.Rank())
	assert.Equal(t, "64 bits", Width(md.DataWidth))
	assert.Equal(t, "1.2 V", Voltage(md.ConfiguredVoltage))
}

func TestParseMemoryDeviceShortStructure(t *testing.T) {
	t.Parallel()

	// SMBIOS 2.1 layout ends after the type detail word
	fields := ddr4Device()
	raw := encodeTable(t, fields, "DIMM_A1", "BANK 0")
	raw[1] = minMemoryDeviceSize
	short := append(raw[:minMemoryDeviceSize:minMemoryDeviceSize], []byte("DIMM_A1\x00BANK 0\x00\x00")...)

	tables, err := ParseTables(bytes.NewReader(short))
	require.NoError(t, err)

	md, err := ParseMemoryDevice(tables[0])
	require.NoError(t, err)
	assert.Equal(t, "DIMM_A1", md.DeviceLocator)
	assert.Zero(t, md.SpeedMTs())
	assert.Empty(t, md.PartNumber)
	assert.Zero(t, md.Rank())
	assert.Equal(t, "Unknown", Voltage(md.ConfiguredVoltage))

	tables[0].Length = minMemoryDeviceSize - 1
	_, err = ParseMemoryDevice(tables[0])
	require.ErrorIs(t, err, ErrInvalidTableLength)

	tables[0].Type = 4
	_, err = ParseMemoryDevice(tables[0])
	require.ErrorIs(t, err, ErrInvalidTableType)
}

func TestSizeBytes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		md   MemoryDevice
		want uint64
	}{
		{"empty slot", MemoryDevice{Size: 0}, 0},
		{"unknown", MemoryDevice{Size: 0xFFFF}, 0},
		{"megabytes", MemoryDevice{Size: 8192}, 8 << 30},
		{"kilobytes", MemoryDevice{Size: 0x8000 | 512}, 512 << 10},
		{"extended", MemoryDevice{Size: 0x7FFF, ExtendedSize: 65536}, 64 << 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.md.SizeBytes())
		})
	}
}

func TestResolveSpeed(t *testing.T) {
	t.Parallel()

	assert.Zero(t, resolveSpeed(0, 6400))
	assert.Equal(t, uint32(4800), resolveSpeed(4800, 0))
	assert.Equal(t, uint32(70000), resolveSpeed(0xFFFF, 70000))
}

func TestNames(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "DDR5", MemoryType(0x22).String())
	assert.Equal(t, "DDR3", MemoryType(0x18).String())
	assert.Equal(t, "Unknown", MemoryType(0x99).String())
	assert.True(t, MemoryType(0x1A).Known())
	assert.False(t, MemoryType(0x02).Known())
	assert.False(t, MemoryType(0).Known())

	assert.Equal(t, "SODIMM", FormFactor(0x0D).String())
	assert.Equal(t, "Unknown", FormFactor(0).String())

	assert.Equal(t, "Unknown", Width(0xFFFF))
	assert.Equal(t, "1.35 V", Voltage(1350))
}

func TestMemoryDevicesAndReadTables(t *testing.T) {
	t.Parallel()

	empty := ddr4Device()
	empty.Handle = 0x0041
	empty.Size = 0
	empty.Speed = 0

	raw := encodeTable(t, ddr4Device(), "DIMM_A1", "BANK 0", "Kingston", "1", "P1")
	raw = append(raw, encodeTable(t, empty, "DIMM_B1", "BANK 1")...)
	raw = append(raw, encodeTable(t, Header{Type: 4, Length: headerLength, Handle: 1})...)
	raw = append(raw, endOfTable(t)...)

	path := filepath.Join(t.TempDir(), "DMI")
	require.NoError(t, os.WriteFile(path, raw, 0o400))

	tables, err := readTablesFrom(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, tables, 4)

	devices, err := MemoryDevices(tables)
	require.NoError(t, err)
	require.Len(t, devices, 2)
	assert.True(t, devices[0].Installed())
	assert.False(t, devices[1].Installed())
	assert.Equal(t, "DIMM_B1", devices[1].DeviceLocator)

	_, err = readTablesFrom(context.Background(), filepath.Join(t.TempDir(), "missing"))
	require.ErrorIs(t, err, os.ErrNotExist)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = readTablesFrom(ctx, path)
	require.ErrorIs(t, err, context.Canceled)
}
