// Package ddp provides Distributed Display Protocol packet building.
package ddp

import (
	"encoding/binary"
)

const (
	// DefaultPort is the standard DDP UDP port.
	DefaultPort = 4048
	// HeaderSize is the size of the standard DDP header.
	HeaderSize = 10
	// MaxDataLength is the conventional maximum payload per DDP packet,
	// chosen to keep packets under the ethernet MTU.
	MaxDataLength = 1440

	// FlagVersion1 marks protocol version 1 in the flags byte.
	FlagVersion1 = 0x40
	// FlagPush asks the receiver to display the data immediately.
	FlagPush = 0x01

	// DataTypeRGB declares 8-bit RGB pixel data.
	DataTypeRGB = 0x0B

	// DefaultOutputID addresses the receiver's default display.
	DefaultOutputID = 1
)

// BuildDataPacket creates a DDP data packet writing data at the given byte
// offset of the destination's display buffer. Sequence cycles 1..15 when
// sequencing is enabled; 0 disables sequence tracking on the receiver.
// Every packet carries the push flag so partial updates still display.
func BuildDataPacket(offset uint32, data []byte, sequence byte) []byte {
	if len(data) > MaxDataLength {
		data = data[:MaxDataLength]
	}

	packet := make([]byte, HeaderSize+len(data))
	packet[0] = FlagVersion1 | FlagPush
	packet[1] = sequence & 0x0f
	packet[2] = DataTypeRGB
	packet[3] = DefaultOutputID
	binary.BigEndian.PutUint32(packet[4:8], offset)
	binary.BigEndian.PutUint16(packet[8:10], uint16(len(data)))
	copy(packet[HeaderSize:], data)

	return packet
}
