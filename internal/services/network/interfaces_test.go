package network

import (
	"net"
	"testing"
)

func TestInterfaceType(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"lo0", "localhost"},
		{"lo", "localhost"},
		{"en0", "ethernet"},
		{"eth0", "ethernet"},
		{"wlan0", "wifi"},
		{"wlp3s0", "wifi"},
		{"utun4", "other"},
	}

	for _, tt := range tests {
		if got := interfaceType(tt.name); got != tt.want {
			t.Errorf("interfaceType(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestBroadcastAddress(t *testing.T) {
	tests := []struct {
		cidr string
		want string
	}{
		{"192.168.1.42/24", "192.168.1.255"},
		{"10.0.0.5/8", "10.255.255.255"},
		{"172.16.4.1/22", "172.16.7.255"},
	}

	for _, tt := range tests {
		_, ipNet, err := net.ParseCIDR(tt.cidr)
		if err != nil {
			t.Fatalf("ParseCIDR(%q) error: %v", tt.cidr, err)
		}
		// ParseCIDR masks the host bits; rebuild with the host address.
		ip, _, _ := net.ParseCIDR(tt.cidr)
		ipNet.IP = ip
		if got := broadcastAddress(ipNet); got != tt.want {
			t.Errorf("broadcastAddress(%q) = %q, want %q", tt.cidr, got, tt.want)
		}
	}
}

func TestListInterfaceOptions(t *testing.T) {
	options, err := ListInterfaceOptions()
	if err != nil {
		t.Fatalf("ListInterfaceOptions() error: %v", err)
	}

	// The result set depends on the host, but every entry must be a valid
	// IPv4 address with a recognized interface type.
	for _, opt := range options {
		if ip := net.ParseIP(opt.Address); ip == nil || ip.To4() == nil {
			t.Errorf("option %q has invalid IPv4 address %q", opt.Name, opt.Address)
		}
		switch opt.InterfaceType {
		case "ethernet", "wifi", "localhost", "other":
		default:
			t.Errorf("option %q has unexpected type %q", opt.Name, opt.InterfaceType)
		}
	}
}
