// Package artnet provides Art-Net DMX packet building.
package artnet

import (
	"encoding/binary"
)

const (
	// OpCodeDMX is the Art-Net operation code for DMX data.
	OpCodeDMX uint16 = 0x5000
	// ProtocolVersion is the Art-Net protocol version.
	ProtocolVersion uint16 = 14
	// MaxDataLength is the maximum number of DMX channels per universe.
	MaxDataLength = 512
	// HeaderSize is the size of the ArtDMX header.
	HeaderSize = 18
	// DefaultPort is the standard Art-Net UDP port.
	DefaultPort = 6454
)

// ArtNetID is the Art-Net packet identifier.
var ArtNetID = []byte{'A', 'r', 't', '-', 'N', 'e', 't', 0x00}

// BuildDMXPacket creates an ArtDMX packet for the specified universe.
// Universe is 0-based as carried on the wire. Data may be shorter than 512
// bytes; the packet carries the declared length rounded up to an even count
// (the Art-Net spec requires an even data length of at least 2). Sequence
// should increment for each packet when sequencing is enabled, or stay 0 to
// disable out-of-order detection on receivers.
func BuildDMXPacket(universe int, data []byte, sequence byte) []byte {
	if len(data) > MaxDataLength {
		data = data[:MaxDataLength]
	}
	length := len(data)
	if length < 2 {
		length = 2
	}
	if length%2 != 0 {
		length++
	}

	packet := make([]byte, HeaderSize+length)

	copy(packet[0:8], ArtNetID)                                    // ID (8 bytes): "Art-Net\0"
	binary.LittleEndian.PutUint16(packet[8:10], OpCodeDMX)         // OpCode (2 bytes): 0x5000 for DMX
	binary.BigEndian.PutUint16(packet[10:12], ProtocolVersion)     // Protocol version (2 bytes): 14
	packet[12] = sequence                                          // Sequence (1 byte)
	packet[13] = 0                                                 // Physical input port (1 byte)
	binary.LittleEndian.PutUint16(packet[14:16], uint16(universe)) // Universe (2 bytes)
	binary.BigEndian.PutUint16(packet[16:18], uint16(length))      // Data length (2 bytes)

	copy(packet[HeaderSize:], data)

	return packet
}
