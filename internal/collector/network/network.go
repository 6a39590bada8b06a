package network

import (
	"context"
	"errors"
	"fmt"
	"net"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	gnet "github.com/shirou/gopsutil/v4/net"

	"github.com/zenithax-cc/hwlens/pkg/utils"
)

const sysfsNet = "/sys/class/net"

var skipPrefixes = []string{"lo", "bonding_masters", "docker", "veth", "virbr", "br-"}

func New() *Network {
	return &Network{
		Interfaces: make([]*Interface, 0, 8),
	}
}

func (n *Network) Name() string {
	return "network"
}

func (n *Network) Collect(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	stats, err := gnet.InterfacesWithContext(ctx)
	if err != nil {
		return fmt.Errorf("interfaces: %w", err)
	}

	errs := make([]error, 0, 1)

	counters, err := gnet.IOCountersWithContext(ctx, true)
	if err != nil {
		errs = append(errs, fmt.Errorf("io counters: %w", err))
	}

	byName := make(map[string]gnet.IOCountersStat, len(counters))
	for _, c := range counters {
		byName[c.Name] = c
	}

	n.Interfaces = n.Interfaces[:0]
	for _, st := range stats {
		if skipInterface(st.Name) {
			continue
		}

		itf := newInterface(st)
		itf.loadSysfs(filepath.Join(sysfsNet, st.Name))
		if c, ok := byName[st.Name]; ok {
			itf.BytesSent = humanize.IBytes(c.BytesSent)
			itf.BytesRecv = humanize.IBytes(c.BytesRecv)
		}

		n.Interfaces = append(n.Interfaces, itf)
	}

	return errors.Join(errs...)
}

func newInterface(st gnet.InterfaceStat) *Interface {
	itf := &Interface{
		Name:       st.Name,
		MACAddress: st.HardwareAddr,
		MTU:        st.MTU,
		Flags:      st.Flags,
		Status:     "down",
	}

	for _, flag := range st.Flags {
		if flag == "up" {
			itf.Status = "up"
			break
		}
	}

	for _, addr := range st.Addrs {
		if v4 := parseIPv4(addr.Addr); v4 != nil {
			itf.IPv4 = append(itf.IPv4, v4)
		}
	}

	return itf
}

// loadSysfs reads link attributes exposed by the kernel. Missing files are
// ignored, speed reads fail on links that are down.
func (itf *Interface) loadSysfs(dir string) {
	if !utils.PathExists(dir) {
		return
	}

	if state, err := utils.ReadOneLineFile(filepath.Join(dir, "operstate")); err == nil {
		itf.Status = state
	}

	if speed, err := utils.ReadOneLineFile(filepath.Join(dir, "speed")); err == nil {
		itf.Speed = formatSpeed(speed)
	}

	if duplex, err := utils.ReadOneLineFile(filepath.Join(dir, "duplex")); err == nil {
		itf.Duplex = duplex
	}

	itf.IsPhysical = utils.PathExists(filepath.Join(dir, "device"))
}

func formatSpeed(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.HasPrefix(raw, "-") {
		return ""
	}
	return raw + " Mb/s"
}

func parseIPv4(cidr string) *IPv4 {
	ip, ipNet, err := net.ParseCIDR(cidr)
	if err != nil || ip.To4() == nil {
		return nil
	}

	prefix, _ := ipNet.Mask.Size()
	return &IPv4{
		Address:   ip.String(),
		Netmask:   net.IP(ipNet.Mask).String(),
		PrefixLen: prefix,
		Gateway:   guessGateway(ip.To4(), ipNet.Mask),
	}
}

// guessGateway assumes the conventional first host of the subnet.
func guessGateway(ip net.IP, mask net.IPMask) string {
	if len(mask) != net.IPv4len || ip == nil {
		return ""
	}

	network := ip.Mask(mask)
	if network[3] == 255 {
		return ""
	}

	gateway := make(net.IP, net.IPv4len)
	copy(gateway, network)
	gateway[3]++

	return gateway.String()
}

func skipInterface(name string) bool {
	for _, prefix := range skipPrefixes {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}
