// Package sacn provides streaming ACN (E1.31) data packet building.
package sacn

import (
	"encoding/binary"

	"github.com/google/uuid"
)

const (
	// DefaultPort is the standard sACN UDP port.
	DefaultPort = 5568
	// MaxDataLength is the maximum number of DMX slots per universe.
	MaxDataLength = 512
	// MaxPriority is the highest valid E1.31 priority.
	MaxPriority = 200
	// DefaultPriority is the E1.31 default priority.
	DefaultPriority = 100

	// HeaderSize is the byte offset of the property values (after the
	// DMX start code) in an E1.31 data packet.
	HeaderSize = 126

	vectorRootData       uint32 = 0x00000004
	vectorFrameData      uint32 = 0x00000002
	vectorDMPSetProperty byte   = 0x02
)

// acnPacketID identifies an E1.17 packet ("ASC-E1.17" null padded).
var acnPacketID = []byte{0x41, 0x53, 0x43, 0x2d, 0x45, 0x31, 0x2e, 0x31, 0x37, 0x00, 0x00, 0x00}

// flagsLength encodes the E1.31 flags (0x7) and PDU length.
func flagsLength(length int) uint16 {
	return 0x7000 | uint16(length&0x0fff)
}

// BuildDataPacket creates an E1.31 data packet carrying the given DMX data
// for a universe. Priority above MaxPriority is clamped. The data is
// preceded by a zero start code per the DMP layer layout.
func BuildDataPacket(cid uuid.UUID, sourceName string, universe uint16, priority byte, sequence byte, data []byte) []byte {
	if len(data) > MaxDataLength {
		data = data[:MaxDataLength]
	}
	if priority > MaxPriority {
		priority = MaxPriority
	}

	packet := make([]byte, HeaderSize+len(data))

	// Root layer
	binary.BigEndian.PutUint16(packet[0:2], 0x0010) // RLP preamble size
	binary.BigEndian.PutUint16(packet[2:4], 0x0000) // RLP postamble size
	copy(packet[4:16], acnPacketID)
	binary.BigEndian.PutUint16(packet[16:18], flagsLength(len(packet)-16))
	binary.BigEndian.PutUint32(packet[18:22], vectorRootData)
	copy(packet[22:38], cid[:])

	// Framing layer
	binary.BigEndian.PutUint16(packet[38:40], flagsLength(len(packet)-38))
	binary.BigEndian.PutUint32(packet[40:44], vectorFrameData)
	copy(packet[44:108], sourceName) // 64 bytes, null padded
	packet[108] = priority
	binary.BigEndian.PutUint16(packet[109:111], 0) // sync address
	packet[111] = sequence
	packet[112] = 0 // options
	binary.BigEndian.PutUint16(packet[113:115], universe)

	// DMP layer
	binary.BigEndian.PutUint16(packet[115:117], flagsLength(len(packet)-115))
	packet[117] = vectorDMPSetProperty
	packet[118] = 0xa1                                             // address & data type
	binary.BigEndian.PutUint16(packet[119:121], 0x0000)            // first property address
	binary.BigEndian.PutUint16(packet[121:123], 0x0001)            // address increment
	binary.BigEndian.PutUint16(packet[123:125], uint16(1+len(data))) // property value count
	packet[125] = 0x00                                             // DMX start code

	copy(packet[HeaderSize:], data)

	return packet
}
