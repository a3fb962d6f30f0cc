// Package kinet provides Color Kinetics KiNET packet building for both the
// v1 DMXOUT and v2 PORTOUT framings.
package kinet

import (
	"encoding/binary"
)

const (
	// DefaultPort is the standard KiNET UDP port.
	DefaultPort = 6038
	// MaxDataLength is the number of channels per KiNET port.
	MaxDataLength = 512
	// MaxPort is the highest addressable power-supply port number.
	MaxPort = 255

	// Magic is the KiNET packet identifier.
	Magic uint32 = 0x0401dc4a

	versionV1 uint16 = 0x0100
	versionV2 uint16 = 0x0200

	typeDMXOut  uint16 = 0x0101
	typePortOut uint16 = 0x0108

	// DMXOutHeaderSize is the v1 DMXOUT header size.
	DMXOutHeaderSize = 21
	// PortOutHeaderSize is the v2 PORTOUT header size.
	PortOutHeaderSize = 24
)

// BuildDMXOutPacket creates a v1 DMXOUT packet addressed to a power-supply
// port. DMXOUT receivers expect a full universe, so short data is
// zero-padded to 512 bytes.
func BuildDMXOutPacket(port byte, data []byte) []byte {
	if len(data) > MaxDataLength {
		data = data[:MaxDataLength]
	}

	packet := make([]byte, DMXOutHeaderSize+MaxDataLength)
	binary.BigEndian.PutUint32(packet[0:4], Magic)
	binary.BigEndian.PutUint16(packet[4:6], versionV1)
	binary.BigEndian.PutUint16(packet[6:8], typeDMXOut)
	binary.BigEndian.PutUint32(packet[8:12], 0) // sequence (unused)
	packet[12] = port
	packet[13] = 0                                          // padding
	binary.BigEndian.PutUint16(packet[14:16], 0)            // flags
	binary.BigEndian.PutUint32(packet[16:20], 0xffffffff)   // timer
	packet[20] = 0                                          // universe (default)
	copy(packet[DMXOutHeaderSize:], data)

	return packet
}

// BuildPortOutPacket creates a v2 PORTOUT packet addressed to a
// power-supply port, carrying exactly len(data) channels.
func BuildPortOutPacket(port byte, data []byte) []byte {
	if len(data) > MaxDataLength {
		data = data[:MaxDataLength]
	}

	packet := make([]byte, PortOutHeaderSize+len(data))
	binary.BigEndian.PutUint32(packet[0:4], Magic)
	binary.BigEndian.PutUint16(packet[4:6], versionV2)
	binary.BigEndian.PutUint16(packet[6:8], typePortOut)
	binary.BigEndian.PutUint32(packet[8:12], 0)           // sequence (unused)
	binary.BigEndian.PutUint32(packet[12:16], 0xffffffff) // universe (broadcast)
	packet[16] = port
	packet[17] = 0                                             // padding
	binary.BigEndian.PutUint16(packet[18:20], 0)               // flags
	binary.BigEndian.PutUint16(packet[20:22], uint16(len(data))) // length
	binary.BigEndian.PutUint16(packet[22:24], 0x0fff)          // start code
	copy(packet[PortOutHeaderSize:], data)

	return packet
}
