// Package output converts the fixture tree's declarative output definitions
// into the minimal set of network packets, handling channel-space overflow,
// collision detection, and address merging.
package output

import (
	"github.com/bbernstein/pixelmux-go/internal/fixture"
	"github.com/bbernstein/pixelmux-go/internal/protocol"
)

// BuildResult is the outcome of one rebuild pass: the realized senders and
// the aggregated diagnostics. Both are immutable snapshots; callers needing
// the current diagnostics read the latest result.
type BuildResult struct {
	Senders     []*Sender
	Diagnostics []string
}

// DiagnosticsString returns the operator-visible diagnostics summary, empty
// when the build was clean.
func (r *BuildResult) DiagnosticsString() string {
	d := Diagnostics{messages: r.Diagnostics}
	return d.String()
}

// builder holds the state of one rebuild pass.
type builder struct {
	tree     *fixture.Tree
	registry *Registry
	diag     *Diagnostics
}

// Build walks the fixture tree depth first and realizes one sender per
// distinct packet. The walk never fails: misconfigured outputs degrade to
// diagnostics while the rest of the tree keeps its data.
func Build(tree *fixture.Tree) *BuildResult {
	b := &builder{
		tree:     tree,
		registry: NewRegistry(),
		diag:     &Diagnostics{},
	}
	for _, root := range tree.Roots {
		b.buildFixture(root)
	}

	result := &BuildResult{Diagnostics: b.diag.Messages()}
	for _, p := range b.registry.Packets() {
		if p.key.proto == protocol.None {
			continue
		}
		result.Senders = append(result.Senders, p.toSender())
	}
	return result
}

// buildFixture realizes children's outputs before the fixture's own,
// keeping packet ordering deterministic. Disabled or deactivated fixtures
// hide their whole subtree.
func (b *builder) buildFixture(idx int) {
	node := &b.tree.Nodes[idx]
	if !node.Enabled || node.Deactivated {
		return
	}
	for _, child := range node.Children {
		b.buildFixture(child)
	}
	for i := range node.Outputs {
		b.buildOutput(node, &node.Outputs[i])
	}
}

// cursor tracks the overflow state machine's position inside one output
// definition: the current universe, the channel within it, and the packet
// currently bound for that universe.
type cursor struct {
	out      *fixture.Output
	maxCh    int
	universe int
	channel  int
	packet   *Packet
}

// bind rebinds the cursor's packet for the current universe.
func (b *builder) bind(c *cursor) {
	port := c.out.Port
	if port == 0 {
		port = c.out.Protocol.DefaultPort()
	}
	c.packet = b.registry.FindOrCreate(packetKey{
		proto:        c.out.Protocol,
		transport:    c.out.Transport,
		address:      c.out.Address,
		port:         port,
		universe:     c.universe,
		kinetVersion: c.out.KinetVersion,
	}, c.out.Priority, c.out.Sequential)
}

// overflow advances the cursor to the next universe, carrying the given
// channel offset. It reports false when the protocol has no further
// addressable universe, which is fatal for the rest of this output.
func (b *builder) overflow(c *cursor, carry int) bool {
	if c.universe+1 > c.out.Protocol.MaxUniverse() {
		b.diag.addf("output overflow: %s %s has no universe beyond %d, dropping remaining data",
			c.out.Protocol, c.out.Address, c.universe)
		return false
	}
	c.universe++
	c.channel = carry
	b.bind(c)
	return true
}

func (b *builder) buildOutput(node *fixture.Fixture, out *fixture.Output) {
	// Sync-only / unaddressed outputs carry no channel data and bypass the
	// chunking machinery entirely.
	maxCh := out.Protocol.MaxChannels()
	if out.Protocol == protocol.None || maxCh == 0 {
		return
	}

	if out.Channel < 0 || out.Channel >= maxCh {
		b.diag.addf("invalid start channel %d for %s output on fixture %q (max %d), skipping output",
			out.Channel, out.Protocol, node.Label, maxCh)
		return
	}

	c := &cursor{out: out, maxCh: maxCh, universe: out.Universe, channel: out.Channel}
	b.bind(c)

	for i := range out.Segments {
		seg := &out.Segments[i]
		if !b.emitStatic(c, segmentPrefix(seg), out.FPS) {
			return
		}
		if !b.emitDynamic(c, seg, out.FPS) {
			return
		}
		if !b.emitStatic(c, segmentSuffix(seg), out.FPS) {
			return
		}
	}
}

// segmentPrefix returns the static bytes emitted before a segment's pixel
// data: the header followed by the pre-padding zeros.
func segmentPrefix(seg *fixture.Segment) []byte {
	if seg.PadPre == 0 {
		return seg.Header
	}
	prefix := make([]byte, 0, len(seg.Header)+seg.PadPre)
	prefix = append(prefix, seg.Header...)
	return append(prefix, make([]byte, seg.PadPre)...)
}

// segmentSuffix returns the static bytes emitted after a segment's pixel
// data: the post-padding zeros followed by the footer.
func segmentSuffix(seg *fixture.Segment) []byte {
	if seg.PadPost == 0 {
		return seg.Footer
	}
	suffix := make([]byte, seg.PadPost, seg.PadPost+len(seg.Footer))
	return append(suffix, seg.Footer...)
}

// emitStatic places literal bytes contiguously, splitting across universes
// as needed. Static runs have no stride, so overflow always carries
// channel 0. Returns false on a fatal overflow.
func (b *builder) emitStatic(c *cursor, data []byte, fps float64) bool {
	for len(data) > 0 {
		avail := c.maxCh - c.channel
		if avail >= len(data) {
			c.packet.AddStatic(c.channel, data, fps, b.diag)
			c.channel += len(data)
			return true
		}
		if avail > 0 {
			c.packet.AddStatic(c.channel, data[:avail], fps, b.diag)
			data = data[avail:]
		}
		if !b.overflow(c, 0) {
			return false
		}
	}
	return true
}

// emitDynamic places a segment's pixel entries, splitting into whole-stride
// chunks on overflow. The final chunk does not need its trailing stride
// gap to fit. On overflow the carry preserves the stride phase so a write
// that straddles the universe boundary continues at the same intra-pixel
// offset. Returns false on a fatal overflow.
func (b *builder) emitDynamic(c *cursor, seg *fixture.Segment, fps float64) bool {
	entries := seg.Entries()
	if len(entries) == 0 {
		return true
	}
	stride := seg.OutputStride()
	numBytes := seg.Encoder.NumBytes()
	if stride > c.maxCh || numBytes > c.maxCh {
		b.diag.addf("segment stride %d exceeds %s packet size %d, skipping segment",
			stride, c.out.Protocol, c.maxCh)
		return true
	}

	placed := 0
	for placed < len(entries) {
		avail := c.maxCh - c.channel
		remaining := len(entries) - placed
		need := (remaining-1)*stride + numBytes

		if need <= avail {
			c.packet.AddDynamic(c.channel, entries[placed:], seg.Encoder, stride, seg.Brightness, fps, b.diag)
			c.channel += need
			return true
		}

		chunk := 0
		if avail > 0 {
			chunk = avail / stride
		}
		if chunk > 0 {
			c.packet.AddDynamic(c.channel, entries[placed:placed+chunk], seg.Encoder, stride, seg.Brightness, fps, b.diag)
		}
		carry := (c.channel + chunk*stride) % stride
		if !b.overflow(c, carry) {
			return false
		}
		placed += chunk
	}
	return true
}
