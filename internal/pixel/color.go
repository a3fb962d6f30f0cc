// Package pixel provides the color buffer model and the byte encoders that
// convert pixel colors into their wire representation.
package pixel

// Color is one pixel in the global color buffer.
type Color struct {
	R, G, B, W uint8
}

// Buffer is the global color buffer shared by all outputs. Indices in
// fixture segments address positions in this buffer.
type Buffer []Color

// At returns the color at index i, or black if i is out of range.
// Out-of-range indices can occur transiently while the fixture tree and the
// color buffer are resized independently.
func (b Buffer) At(i int) Color {
	if i < 0 || i >= len(b) {
		return Color{}
	}
	return b[i]
}
