package output

import (
	"io"
	"net"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/bbernstein/pixelmux-go/internal/pixel"
	"github.com/bbernstein/pixelmux-go/internal/protocol"
	"github.com/bbernstein/pixelmux-go/pkg/artnet"
	"github.com/bbernstein/pixelmux-go/pkg/ddp"
	"github.com/bbernstein/pixelmux-go/pkg/kinet"
	"github.com/bbernstein/pixelmux-go/pkg/opc"
	"github.com/bbernstein/pixelmux-go/pkg/sacn"
)

// sourceCID identifies this engine instance in sACN packets. E1.31 requires
// the CID to stay constant for the lifetime of the source.
var sourceCID = uuid.New()

// SourceName is the sACN source name advertised in outgoing packets.
const SourceName = "PixelMux"

// Sender is one realized packet: a finalized index buffer bound to a
// destination, framed per protocol on every send. The sending layer owns
// senders between rebuilds and hands each the current color buffer once per
// animation frame.
type Sender struct {
	proto        protocol.Protocol
	transport    protocol.Transport
	address      string
	port         int
	universe     int
	kinetVersion protocol.KinetVersion
	priority     int
	sequential   bool
	fps          float64

	runs   []Run
	length int

	sequence    byte
	minInterval time.Duration
	lastSend    time.Time
}

// toSender realizes a packet into its one transport object.
func (p *Packet) toSender() *Sender {
	s := &Sender{
		proto:        p.key.proto,
		transport:    p.key.transport,
		address:      p.key.address,
		port:         p.key.port,
		universe:     p.key.universe,
		kinetVersion: p.key.kinetVersion,
		priority:     p.priority,
		sequential:   p.sequential,
		fps:          p.fps,
		runs:         p.runs,
		length:       p.dataLength(),
	}
	if p.fps > 0 {
		s.minInterval = time.Duration(float64(time.Second) / p.fps)
	}
	return s
}

// Network returns the net package network name for dialing.
func (s *Sender) Network() string {
	if s.transport == protocol.TCP {
		return "tcp"
	}
	return "udp4"
}

// Dest returns the destination address in host:port form.
func (s *Sender) Dest() string {
	return net.JoinHostPort(s.address, strconv.Itoa(s.port))
}

// Protocol returns the sender's wire protocol.
func (s *Sender) Protocol() protocol.Protocol { return s.proto }

// Universe returns the sender's universe / port number / channel instance.
func (s *Sender) Universe() int { return s.universe }

// Runs returns the finalized index buffer.
func (s *Sender) Runs() []Run { return s.runs }

// DataLength returns the channel bytes the sender carries per packet.
func (s *Sender) DataLength() int { return s.length }

// FPS returns the merged frame-rate cap, 0 for unlimited.
func (s *Sender) FPS() float64 { return s.fps }

// Render fills the channel data from the current color buffer. Runs render
// in placement order, so when segments collide the last-placed run's bytes
// are authoritative.
func (s *Sender) Render(buf pixel.Buffer, master float64) []byte {
	data := make([]byte, s.length)
	var scratch [8]byte
	for _, run := range s.runs {
		if run.Static != nil {
			copy(data[run.Channel:], run.Static)
			continue
		}
		numBytes := run.Encoder.NumBytes()
		brightness := run.Brightness * master
		for k, idx := range run.Entries {
			run.Encoder.Encode(buf.At(idx), brightness, scratch[:numBytes])
			copy(data[run.Channel+k*run.Stride:], scratch[:numBytes])
		}
	}
	return data
}

// Frame wraps channel data in the sender's wire framing and advances the
// sequence counter for protocols that carry one.
func (s *Sender) Frame(data []byte) []byte {
	var seq byte
	if s.sequential {
		s.sequence++
		seq = s.sequence
	}
	switch s.proto {
	case protocol.ArtNet:
		return artnet.BuildDMXPacket(s.universe, data, seq)
	case protocol.SACN:
		return sacn.BuildDataPacket(sourceCID, SourceName, uint16(s.universe), byte(s.priority), seq, data)
	case protocol.DDP:
		offset := uint32(s.universe) * uint32(protocol.DDP.MaxChannels())
		return ddp.BuildDataPacket(offset, data, seq)
	case protocol.KiNET:
		if s.kinetVersion == protocol.KinetDMXOut {
			return kinet.BuildDMXOutPacket(byte(s.universe), data)
		}
		return kinet.BuildPortOutPacket(byte(s.universe), data)
	case protocol.OPC:
		return opc.BuildMessage(byte(s.universe), opc.CommandSetPixels, data)
	default:
		return nil
	}
}

// Send renders, frames, and writes one packet, honoring the merged
// frame-rate cap. A throttled frame is skipped silently.
func (s *Sender) Send(w io.Writer, buf pixel.Buffer, master float64, now time.Time) error {
	if s.minInterval > 0 && !s.lastSend.IsZero() && now.Sub(s.lastSend) < s.minInterval {
		return nil
	}
	packet := s.Frame(s.Render(buf, master))
	if packet == nil {
		return nil
	}
	if _, err := w.Write(packet); err != nil {
		return err
	}
	s.lastSend = now
	return nil
}

// SendNow renders, frames, and writes one packet ignoring the frame-rate
// cap. Used for blackout and other must-deliver frames.
func (s *Sender) SendNow(w io.Writer, buf pixel.Buffer, master float64) error {
	packet := s.Frame(s.Render(buf, master))
	if packet == nil {
		return nil
	}
	_, err := w.Write(packet)
	return err
}
