// Package network provides utilities for network interface enumeration,
// used to offer destination and broadcast address choices for outputs.
package network

import (
	"net"
	"strings"
)

// InterfaceOption represents one candidate destination network for pixel
// output traffic.
type InterfaceOption struct {
	Name          string
	Address       string
	Broadcast     string
	InterfaceType string // "ethernet", "wifi", "localhost", "other"
}

// interfaceType guesses the interface kind from its naming convention.
func interfaceType(name string) string {
	lower := strings.ToLower(name)
	switch {
	case strings.HasPrefix(lower, "lo"):
		return "localhost"
	case strings.HasPrefix(lower, "en"), strings.HasPrefix(lower, "eth"):
		return "ethernet"
	case strings.HasPrefix(lower, "wl"), strings.Contains(lower, "wlan"), strings.Contains(lower, "wifi"):
		return "wifi"
	default:
		return "other"
	}
}

// broadcastAddress computes the directed broadcast address for an IPv4
// network.
func broadcastAddress(ipNet *net.IPNet) string {
	ip := ipNet.IP.To4()
	if ip == nil {
		return ""
	}
	mask := ipNet.Mask
	if len(mask) == net.IPv6len {
		mask = mask[12:]
	}
	broadcast := make(net.IP, net.IPv4len)
	for i := range broadcast {
		broadcast[i] = ip[i] | ^mask[i]
	}
	return broadcast.String()
}

// ListInterfaceOptions enumerates up IPv4 interfaces as destination
// candidates for output traffic.
func ListInterfaceOptions() ([]InterfaceOption, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}

	var options []InterfaceOption
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 {
			continue
		}
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		for _, addr := range addrs {
			ipNet, ok := addr.(*net.IPNet)
			if !ok || ipNet.IP.To4() == nil {
				continue
			}
			options = append(options, InterfaceOption{
				Name:          iface.Name,
				Address:       ipNet.IP.String(),
				Broadcast:     broadcastAddress(ipNet),
				InterfaceType: interfaceType(iface.Name),
			})
		}
	}
	return options, nil
}
