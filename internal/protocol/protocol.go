// Package protocol defines the wire protocols supported for pixel output
// and the static addressing limits of each.
package protocol

// Protocol identifies a pixel output wire protocol.
type Protocol int

const (
	// None is a placeholder for outputs with no channel addressing.
	None Protocol = iota
	// ArtNet is the Art-Net DMX-over-UDP protocol.
	ArtNet
	// SACN is streaming ACN (E1.31).
	SACN
	// DDP is the Distributed Display Protocol.
	DDP
	// KiNET is the Philips Color Kinetics KiNET protocol.
	KiNET
	// OPC is the Open Pixel Control protocol.
	OPC
)

// Transport selects the network transport for an output.
type Transport int

const (
	// UDP sends each packet as a datagram.
	UDP Transport = iota
	// TCP sends packets over a stream socket (OPC only).
	TCP
)

// KinetVersion selects the KiNET packet framing.
type KinetVersion int

const (
	// KinetPortOut uses KiNET v2 PORTOUT framing.
	KinetPortOut KinetVersion = iota
	// KinetDMXOut uses KiNET v1 DMXOUT framing.
	KinetDMXOut
)

// MaxChannels returns the hard per-packet channel ceiling for the protocol.
// Zero means the protocol carries no addressable channel data.
func (p Protocol) MaxChannels() int {
	switch p {
	case ArtNet, SACN, KiNET:
		return 512
	case DDP:
		return 1440
	case OPC:
		return 65535
	default:
		return 0
	}
}

// DefaultPort returns the conventional network port for the protocol.
func (p Protocol) DefaultPort() int {
	switch p {
	case ArtNet:
		return 6454
	case SACN:
		return 5568
	case DDP:
		return 4048
	case KiNET:
		return 6038
	case OPC:
		return 7890
	default:
		return 0
	}
}

// MaxUniverse returns the highest universe (or port number, data-offset
// block, OPC channel) the protocol can address. Outputs that overflow past
// this ceiling cannot be placed.
func (p Protocol) MaxUniverse() int {
	switch p {
	case ArtNet:
		return 32767
	case SACN:
		return 63999
	case DDP:
		return 1<<31 - 1
	case KiNET:
		return 255
	case OPC:
		return 255
	default:
		return 0
	}
}

func (p Protocol) String() string {
	switch p {
	case ArtNet:
		return "ArtNet"
	case SACN:
		return "sACN"
	case DDP:
		return "DDP"
	case KiNET:
		return "KiNET"
	case OPC:
		return "OPC"
	default:
		return "None"
	}
}

func (t Transport) String() string {
	if t == TCP {
		return "TCP"
	}
	return "UDP"
}

func (v KinetVersion) String() string {
	if v == KinetDMXOut {
		return "DMXOUT"
	}
	return "PORTOUT"
}
