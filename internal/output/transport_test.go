package output

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bbernstein/pixelmux-go/internal/pixel"
	"github.com/bbernstein/pixelmux-go/internal/protocol"
	"github.com/bbernstein/pixelmux-go/pkg/artnet"
	"github.com/bbernstein/pixelmux-go/pkg/ddp"
	"github.com/bbernstein/pixelmux-go/pkg/kinet"
	"github.com/bbernstein/pixelmux-go/pkg/opc"
	"github.com/bbernstein/pixelmux-go/pkg/sacn"
)

func testSender(t *testing.T, proto protocol.Protocol) *Sender {
	t.Helper()
	enc, err := pixel.LookupEncoder("RGB")
	require.NoError(t, err)
	return &Sender{
		proto:    proto,
		address:  "10.0.0.1",
		port:     proto.DefaultPort(),
		universe: 2,
		runs: []Run{{
			Channel:    0,
			Entries:    []int{0, 1},
			Encoder:    enc,
			Stride:     3,
			Brightness: 1,
		}},
		length: 6,
	}
}

func TestSenderNetworkAndDest(t *testing.T) {
	s := testSender(t, protocol.ArtNet)
	assert.Equal(t, "udp4", s.Network())
	assert.Equal(t, "10.0.0.1:6454", s.Dest())

	s.transport = protocol.TCP
	assert.Equal(t, "tcp", s.Network())
}

func TestSenderFrameDispatch(t *testing.T) {
	data := []byte{1, 2, 3, 4, 5, 6}

	tests := []struct {
		name       string
		proto      protocol.Protocol
		headerSize int
		check      func(t *testing.T, packet []byte)
	}{
		{
			name:       "ArtNet",
			proto:      protocol.ArtNet,
			headerSize: artnet.HeaderSize,
			check: func(t *testing.T, packet []byte) {
				assert.Equal(t, "Art-Net\x00", string(packet[0:8]))
			},
		},
		{
			name:       "sACN",
			proto:      protocol.SACN,
			headerSize: sacn.HeaderSize,
			check: func(t *testing.T, packet []byte) {
				assert.Equal(t, "ASC-E1.17", string(packet[4:13]))
			},
		},
		{
			name:       "DDP",
			proto:      protocol.DDP,
			headerSize: ddp.HeaderSize,
			check: func(t *testing.T, packet []byte) {
				// Universe 2 maps to byte offset 2*1440.
				assert.Equal(t, []byte{0, 0, 0x0b, 0x40}, packet[4:8])
			},
		},
		{
			name:       "KiNET PORTOUT",
			proto:      protocol.KiNET,
			headerSize: kinet.PortOutHeaderSize,
			check: func(t *testing.T, packet []byte) {
				assert.Equal(t, []byte{0x04, 0x01, 0xdc, 0x4a}, packet[0:4])
				assert.Equal(t, byte(2), packet[16])
			},
		},
		{
			name:       "OPC",
			proto:      protocol.OPC,
			headerSize: opc.HeaderSize,
			check: func(t *testing.T, packet []byte) {
				assert.Equal(t, byte(2), packet[0])
				assert.Equal(t, byte(opc.CommandSetPixels), packet[1])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := testSender(t, tt.proto)
			packet := s.Frame(data)
			require.NotNil(t, packet)
			require.GreaterOrEqual(t, len(packet), tt.headerSize+len(data))
			assert.Equal(t, data, packet[tt.headerSize:tt.headerSize+len(data)])
			tt.check(t, packet)
		})
	}
}

func TestSenderFrameKinetDMXOut(t *testing.T) {
	s := testSender(t, protocol.KiNET)
	s.kinetVersion = protocol.KinetDMXOut

	packet := s.Frame([]byte{9, 8, 7})

	require.Len(t, packet, kinet.DMXOutHeaderSize+kinet.MaxDataLength)
	assert.Equal(t, byte(2), packet[12])
	assert.Equal(t, []byte{9, 8, 7}, packet[kinet.DMXOutHeaderSize:kinet.DMXOutHeaderSize+3])
}

func TestSenderSequenceOnlyWhenSequential(t *testing.T) {
	s := testSender(t, protocol.ArtNet)

	p1 := s.Frame(make([]byte, 6))
	p2 := s.Frame(make([]byte, 6))
	assert.Equal(t, byte(0), p1[12])
	assert.Equal(t, byte(0), p2[12])

	s.sequential = true
	p3 := s.Frame(make([]byte, 6))
	p4 := s.Frame(make([]byte, 6))
	assert.Equal(t, byte(1), p3[12])
	assert.Equal(t, byte(2), p4[12])
}

func TestSenderSendThrottled(t *testing.T) {
	s := testSender(t, protocol.ArtNet)
	s.minInterval = 100 * time.Millisecond

	buf := pixel.Buffer{{R: 1}, {G: 2}}
	var out bytes.Buffer
	base := time.Now()

	require.NoError(t, s.Send(&out, buf, 1, base))
	first := out.Len()
	assert.Greater(t, first, 0, "first frame always sends")

	// A frame inside the interval is silently skipped.
	require.NoError(t, s.Send(&out, buf, 1, base.Add(50*time.Millisecond)))
	assert.Equal(t, first, out.Len())

	// A frame past the interval sends again.
	require.NoError(t, s.Send(&out, buf, 1, base.Add(150*time.Millisecond)))
	assert.Equal(t, 2*first, out.Len())

	// SendNow ignores the cap entirely.
	require.NoError(t, s.SendNow(&out, buf, 1))
	assert.Equal(t, 3*first, out.Len())
}

func TestSenderRenderStaticAndDynamic(t *testing.T) {
	enc, err := pixel.LookupEncoder("RGB")
	require.NoError(t, err)
	s := &Sender{
		proto: protocol.ArtNet,
		runs: []Run{
			{Channel: 0, Static: []byte{0xaa, 0xbb}},
			{Channel: 2, Entries: []int{0}, Encoder: enc, Stride: 3, Brightness: 1},
		},
		length: 5,
	}

	data := s.Render(pixel.Buffer{{R: 10, G: 20, B: 30}}, 1)

	assert.Equal(t, []byte{0xaa, 0xbb, 10, 20, 30}, data)
}
