package output

import (
	"github.com/bbernstein/pixelmux-go/internal/pixel"
	"github.com/bbernstein/pixelmux-go/internal/protocol"
)

// packetKey identifies one physical address-space instance. Two outputs
// share a packet only when every field matches; in particular two KiNET
// outputs with different framing versions never share a packet even at the
// same port number.
type packetKey struct {
	proto        protocol.Protocol
	transport    protocol.Transport
	address      string
	port         int
	universe     int
	kinetVersion protocol.KinetVersion
}

// Run is one placed entry in a packet's index buffer. A run is either
// dynamic (Entries non-nil, rendered from the color buffer each frame) or
// static (Static non-nil, literal header/footer/padding bytes).
type Run struct {
	// Channel is the starting byte position within the packet.
	Channel int
	// Entries are color-buffer indices; entry k is written at
	// Channel + k*Stride.
	Entries []int
	// Encoder converts one entry to its wire bytes.
	Encoder pixel.ByteEncoder
	// Stride is the bytes advanced per entry.
	Stride int
	// Brightness scales the encoded components.
	Brightness float64
	// Static holds literal bytes for non-dynamic runs.
	Static []byte
}

// Packet accumulates every run routed to one address-space instance during
// a rebuild. It lives for exactly one rebuild pass and is realized into one
// Sender at the end.
type Packet struct {
	key packetKey

	// Merged across all contributing outputs.
	priority   int
	sequential bool
	fps        float64 // min of non-zero caps, 0 = unlimited

	runs []Run

	// mask has one bit per channel; a set bit means some run already
	// writes that byte.
	mask []uint64
}

func newPacket(key packetKey, priority int, sequential bool) *Packet {
	maxCh := key.proto.MaxChannels()
	return &Packet{
		key:        key,
		priority:   priority,
		sequential: sequential,
		mask:       make([]uint64, (maxCh+63)/64),
	}
}

// mergeFPS folds one output's frame-rate cap into the packet's merged cap.
func (p *Packet) mergeFPS(fps float64) {
	if fps > 0 && (p.fps == 0 || fps < p.fps) {
		p.fps = fps
	}
}

// markByte test-and-sets the collision bit for one channel and reports
// whether it was already written.
func (p *Packet) markByte(channel int) bool {
	word, bit := channel/64, uint(channel%64)
	collided := p.mask[word]&(1<<bit) != 0
	p.mask[word] |= 1 << bit
	return collided
}

// reportCollisions records a single diagnostic covering the contiguous
// min..max extent of the colliding bytes. Collisions do not abort the
// build; the later-placed run wins at render time.
func (p *Packet) reportCollisions(min, max int, diag *Diagnostics) {
	if min > max {
		return
	}
	diag.addf("channel collision: %s %s universe %d at %s:%d channels %d..%d written by multiple segments",
		p.key.proto, p.key.transport, p.key.universe, p.key.address, p.key.port, min, max)
}

// AddDynamic places a chunk of pixel entries at startChannel, marking only
// the encoder's actual bytes so stride gaps stay free for complementary
// segments.
func (p *Packet) AddDynamic(startChannel int, entries []int, enc pixel.ByteEncoder, stride int, brightness, fps float64, diag *Diagnostics) {
	numBytes := enc.NumBytes()
	collideMin, collideMax := p.key.proto.MaxChannels(), -1
	for k := range entries {
		base := startChannel + k*stride
		for b := 0; b < numBytes; b++ {
			if p.markByte(base + b) {
				if base+b < collideMin {
					collideMin = base + b
				}
				if base+b > collideMax {
					collideMax = base + b
				}
			}
		}
	}
	p.reportCollisions(collideMin, collideMax, diag)
	p.runs = append(p.runs, Run{
		Channel:    startChannel,
		Entries:    entries,
		Encoder:    enc,
		Stride:     stride,
		Brightness: brightness,
	})
	p.mergeFPS(fps)
}

// AddStatic places literal bytes contiguously at startChannel.
func (p *Packet) AddStatic(startChannel int, data []byte, fps float64, diag *Diagnostics) {
	collideMin, collideMax := p.key.proto.MaxChannels(), -1
	for b := range data {
		if p.markByte(startChannel + b) {
			if startChannel+b < collideMin {
				collideMin = startChannel + b
			}
			if startChannel+b > collideMax {
				collideMax = startChannel + b
			}
		}
	}
	p.reportCollisions(collideMin, collideMax, diag)
	staticCopy := make([]byte, len(data))
	copy(staticCopy, data)
	p.runs = append(p.runs, Run{
		Channel: startChannel,
		Static:  staticCopy,
	})
	p.mergeFPS(fps)
}

// dataLength returns the number of channel bytes the packet actually uses.
func (p *Packet) dataLength() int {
	length := 0
	for _, run := range p.runs {
		var end int
		if run.Static != nil {
			end = run.Channel + len(run.Static)
		} else if len(run.Entries) > 0 {
			end = run.Channel + (len(run.Entries)-1)*run.Stride + run.Encoder.NumBytes()
		}
		if end > length {
			length = end
		}
	}
	return length
}

// Runs returns the placed runs in packet order.
func (p *Packet) Runs() []Run {
	return p.runs
}

// Priority returns the merged priority.
func (p *Packet) Priority() int { return p.priority }

// Sequential returns the merged sequence-enable flag.
func (p *Packet) Sequential() bool { return p.sequential }

// FPS returns the merged frame-rate cap, 0 for unlimited.
func (p *Packet) FPS() float64 { return p.fps }

// Universe returns the packet's universe / port number / channel-space
// instance.
func (p *Packet) Universe() int { return p.key.universe }
