// Package opc provides Open Pixel Control message building.
package opc

import (
	"encoding/binary"
)

const (
	// DefaultPort is the conventional OPC TCP/UDP port.
	DefaultPort = 7890
	// HeaderSize is the size of an OPC message header.
	HeaderSize = 4
	// MaxDataLength is the maximum payload of one OPC message.
	MaxDataLength = 65535

	// ChannelBroadcast addresses every channel on the receiver.
	ChannelBroadcast = 0

	// CommandSetPixels sets 8-bit pixel data on a channel.
	CommandSetPixels = 0
	// CommandSystemExclusive carries vendor-specific data.
	CommandSystemExclusive = 255
)

// BuildMessage creates an OPC message for the given channel and command.
// OPC is transport-agnostic; the same bytes go over a TCP stream or a UDP
// datagram.
func BuildMessage(channel byte, command byte, data []byte) []byte {
	if len(data) > MaxDataLength {
		data = data[:MaxDataLength]
	}

	packet := make([]byte, HeaderSize+len(data))
	packet[0] = channel
	packet[1] = command
	binary.BigEndian.PutUint16(packet[2:4], uint16(len(data)))
	copy(packet[HeaderSize:], data)

	return packet
}
