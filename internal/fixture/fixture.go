// Package fixture models the in-memory fixture tree and the declarative
// output definitions each fixture carries. The tree is an arena of nodes
// addressed by index, so parent/child relationships are integer lists
// rather than pointer cycles.
package fixture

import (
	"github.com/bbernstein/pixelmux-go/internal/pixel"
	"github.com/bbernstein/pixelmux-go/internal/protocol"
)

// Segment describes one contiguous run of source pixel indices slated for
// an output. Segments are immutable once constructed.
type Segment struct {
	// Indices are logical positions in the global color buffer.
	Indices []int
	// Encoder converts one pixel to its wire bytes.
	Encoder pixel.ByteEncoder
	// Stride is the number of bytes advanced per emitted pixel entry.
	// Zero means the encoder's byte count (no gaps). A stride larger than
	// the encoder's byte count leaves unwritten gap bytes between pixels.
	Stride int
	// Reverse iterates the indices back to front.
	Reverse bool
	// Repeat emits each pixel's bytes this many times inline (minimum 1).
	Repeat int
	// PadPre and PadPost are counts of static zero bytes emitted before
	// and after the dynamic pixel data.
	PadPre, PadPost int
	// Header and Footer are static bytes emitted around the segment.
	Header, Footer []byte
	// Brightness scales the encoded components, in [0,1].
	Brightness float64
}

// OutputStride returns the effective bytes advanced per pixel entry.
func (s *Segment) OutputStride() int {
	if s.Stride > s.Encoder.NumBytes() {
		return s.Stride
	}
	return s.Encoder.NumBytes()
}

// NumEntries returns the number of pixel entries after repeat expansion.
func (s *Segment) NumEntries() int {
	repeat := s.Repeat
	if repeat < 1 {
		repeat = 1
	}
	return len(s.Indices) * repeat
}

// RequiredBytes returns the bytes needed to encode the first n pixel
// entries honoring the output stride. The final entry does not need its
// trailing stride gap.
func (s *Segment) RequiredBytes(n int) int {
	if n <= 0 {
		return 0
	}
	return (n-1)*s.OutputStride() + s.Encoder.NumBytes()
}

// Entries returns the ordered pixel index sequence with reverse and repeat
// applied. Entry k of the result is written at byte offset k*OutputStride()
// from the segment's start channel.
func (s *Segment) Entries() []int {
	repeat := s.Repeat
	if repeat < 1 {
		repeat = 1
	}
	entries := make([]int, 0, len(s.Indices)*repeat)
	if s.Reverse {
		for i := len(s.Indices) - 1; i >= 0; i-- {
			for r := 0; r < repeat; r++ {
				entries = append(entries, s.Indices[i])
			}
		}
	} else {
		for _, idx := range s.Indices {
			for r := 0; r < repeat; r++ {
				entries = append(entries, idx)
			}
		}
	}
	return entries
}

// Output is one declared output on a fixture: where and how a run of pixel
// data leaves the engine.
type Output struct {
	Protocol  protocol.Protocol
	Transport protocol.Transport
	// Address is the destination host (IP or name). Empty falls back to
	// the engine's default destination.
	Address string
	// Port is the destination port, 0 for the protocol default.
	Port int
	// Universe is the starting universe / KiNET port / DDP offset block /
	// OPC channel.
	Universe int
	// Channel is the starting channel offset within the first universe.
	Channel int
	// Priority is protocol specific (sACN 0-200).
	Priority int
	// Sequential enables protocol sequence numbering where supported.
	Sequential bool
	// KinetVersion selects PORTOUT vs DMXOUT framing for KiNET outputs.
	KinetVersion protocol.KinetVersion
	// FPS caps the send rate for packets realized from this output,
	// 0 for unlimited.
	FPS float64
	// Segments are emitted in declaration order.
	Segments []Segment
}

// Fixture is one node in the fixture arena.
type Fixture struct {
	ID    string
	Label string
	// Enabled gates the fixture and its whole subtree.
	Enabled bool
	// Deactivated temporarily mutes the fixture without removing it.
	Deactivated bool
	// Children are arena indices of nested sub-fixtures.
	Children []int
	// Outputs are realized after all children's outputs.
	Outputs []Output
}

// Tree is an arena of fixtures with top-level roots in declaration order.
type Tree struct {
	Nodes []Fixture
	Roots []int
}

// AddNode appends a node to the arena and returns its index.
func (t *Tree) AddNode(f Fixture) int {
	t.Nodes = append(t.Nodes, f)
	return len(t.Nodes) - 1
}

// AddRoot appends a node and registers it as a top-level fixture.
func (t *Tree) AddRoot(f Fixture) int {
	idx := t.AddNode(f)
	t.Roots = append(t.Roots, idx)
	return idx
}

// AddChild appends a node and links it under the parent index.
func (t *Tree) AddChild(parent int, f Fixture) int {
	idx := t.AddNode(f)
	t.Nodes[parent].Children = append(t.Nodes[parent].Children, idx)
	return idx
}
