package kinet

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func TestBuildDMXOutPacket(t *testing.T) {
	data := []byte{10, 20, 30}
	packet := BuildDMXOutPacket(4, data)

	// DMXOUT always carries a full universe.
	if len(packet) != DMXOutHeaderSize+MaxDataLength {
		t.Fatalf("BuildDMXOutPacket() length = %d, want %d", len(packet), DMXOutHeaderSize+MaxDataLength)
	}
	if got := binary.BigEndian.Uint32(packet[0:4]); got != Magic {
		t.Errorf("magic = 0x%08x, want 0x%08x", got, Magic)
	}
	if got := binary.BigEndian.Uint16(packet[4:6]); got != 0x0100 {
		t.Errorf("version = 0x%04x, want 0x0100", got)
	}
	if got := binary.BigEndian.Uint16(packet[6:8]); got != 0x0101 {
		t.Errorf("type = 0x%04x, want 0x0101", got)
	}
	if packet[12] != 4 {
		t.Errorf("port = %d, want 4", packet[12])
	}
	if got := binary.BigEndian.Uint32(packet[16:20]); got != 0xffffffff {
		t.Errorf("timer = 0x%08x, want 0xffffffff", got)
	}
	if !bytes.Equal(packet[DMXOutHeaderSize:DMXOutHeaderSize+3], data) {
		t.Errorf("data = %v, want %v", packet[DMXOutHeaderSize:DMXOutHeaderSize+3], data)
	}
	// Remainder of the universe is zero-padded.
	for i := DMXOutHeaderSize + 3; i < len(packet); i++ {
		if packet[i] != 0 {
			t.Fatalf("padding byte at %d = %d, want 0", i, packet[i])
		}
	}
}

func TestBuildPortOutPacket(t *testing.T) {
	data := []byte{10, 20, 30, 40}
	packet := BuildPortOutPacket(7, data)

	// PORTOUT carries exactly the supplied channels.
	if len(packet) != PortOutHeaderSize+len(data) {
		t.Fatalf("BuildPortOutPacket() length = %d, want %d", len(packet), PortOutHeaderSize+len(data))
	}
	if got := binary.BigEndian.Uint32(packet[0:4]); got != Magic {
		t.Errorf("magic = 0x%08x, want 0x%08x", got, Magic)
	}
	if got := binary.BigEndian.Uint16(packet[4:6]); got != 0x0200 {
		t.Errorf("version = 0x%04x, want 0x0200", got)
	}
	if got := binary.BigEndian.Uint16(packet[6:8]); got != 0x0108 {
		t.Errorf("type = 0x%04x, want 0x0108", got)
	}
	if got := binary.BigEndian.Uint32(packet[12:16]); got != 0xffffffff {
		t.Errorf("universe = 0x%08x, want 0xffffffff", got)
	}
	if packet[16] != 7 {
		t.Errorf("port = %d, want 7", packet[16])
	}
	if got := binary.BigEndian.Uint16(packet[20:22]); got != 4 {
		t.Errorf("length = %d, want 4", got)
	}
	if got := binary.BigEndian.Uint16(packet[22:24]); got != 0x0fff {
		t.Errorf("start code = 0x%04x, want 0x0fff", got)
	}
	if !bytes.Equal(packet[PortOutHeaderSize:], data) {
		t.Errorf("data = %v, want %v", packet[PortOutHeaderSize:], data)
	}
}

func TestBuildPacket_OversizeTruncated(t *testing.T) {
	long := make([]byte, 600)

	if got := len(BuildPortOutPacket(0, long)); got != PortOutHeaderSize+MaxDataLength {
		t.Errorf("PORTOUT oversize length = %d, want %d", got, PortOutHeaderSize+MaxDataLength)
	}
	if got := len(BuildDMXOutPacket(0, long)); got != DMXOutHeaderSize+MaxDataLength {
		t.Errorf("DMXOUT oversize length = %d, want %d", got, DMXOutHeaderSize+MaxDataLength)
	}
}
