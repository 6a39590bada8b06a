package network

import (
	"os"
	"path/filepath"
	"testing"

	gnet "github.com/shirou/gopsutil/v4/net"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIPv4(t *testing.T) {
	t.Parallel()

	v4 := parseIPv4("192.168.1.23/24")
	require.NotNil(t, v4)
	assert.Equal(t, "192.168.1.23", v4.Address)
	assert.Equal(t, "255.255.255.0", v4.Netmask)
	assert.Equal(t, 24, v4.PrefixLen)
	assert.Equal(t, "192.168.1.1", v4.Gateway)

	assert.Nil(t, parseIPv4("fe80::1/64"))
	assert.Nil(t, parseIPv4("garbage"))
}

func TestNewInterface(t *testing.T) {
	t.Parallel()

	itf := newInterface(gnet.InterfaceStat{
		Name:         "enp5s0",
		MTU:          1500,
		HardwareAddr: "a8:a1:59:00:11:22",
		Flags:        []string{"up", "broadcast", "multicast"},
		Addrs: gnet.InterfaceAddrList{
			{Addr: "10.0.0.5/16"},
			{Addr: "fe80::aa1:59ff:fe00:1122/64"},
		},
	})

	assert.Equal(t, "up", itf.Status)
	assert.Equal(t, 1500, itf.MTU)
	require.Len(t, itf.IPv4, 1)
	assert.Equal(t, "255.255.0.0", itf.IPv4[0].Netmask)
	assert.Equal(t, "10.0.0.1", itf.IPv4[0].Gateway)

	down := newInterface(gnet.InterfaceStat{Name: "wlp4s0"})
	assert.Equal(t, "down", down.Status)
}

func TestLoadSysfs(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "operstate"), []byte("up\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "speed"), []byte("1000\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "duplex"), []byte("full\n"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "device"), 0o755))

	itf := &Interface{Name: "eno1", Status: "down"}
	itf.loadSysfs(dir)

	assert.Equal(t, "up", itf.Status)
	assert.Equal(t, "1000 Mb/s", itf.Speed)
	assert.Equal(t, "full", itf.Duplex)
	assert.True(t, itf.IsPhysical)

	missing := &Interface{Name: "ghost", Status: "down"}
	missing.loadSysfs(filepath.Join(dir, "nope"))
	assert.Equal(t, "down", missing.Status)
	assert.False(t, missing.IsPhysical)
}

func TestFormatSpeedAndSkip(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", formatSpeed("-1"))
	assert.Equal(t, "2500 Mb/s", formatSpeed("2500"))
	assert.True(t, skipInterface("lo"))
	assert.True(t, skipInterface("veth12ab"))
	assert.False(t, skipInterface("eth0"))
}
