package fixture

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bbernstein/pixelmux-go/internal/pixel"
)

func mustEncoder(t *testing.T, name string) pixel.ByteEncoder {
	t.Helper()
	enc, err := pixel.LookupEncoder(name)
	require.NoError(t, err)
	return enc
}

func TestSegmentOutputStride(t *testing.T) {
	rgb := mustEncoder(t, "RGB")

	s := Segment{Indices: []int{0}, Encoder: rgb}
	assert.Equal(t, 3, s.OutputStride(), "zero stride should fall back to encoder width")

	s.Stride = 2
	assert.Equal(t, 3, s.OutputStride(), "stride below encoder width should be ignored")

	s.Stride = 5
	assert.Equal(t, 5, s.OutputStride())
}

func TestSegmentRequiredBytes(t *testing.T) {
	rgb := mustEncoder(t, "RGB")

	s := Segment{Indices: []int{0, 1, 2}, Encoder: rgb, Stride: 5}

	assert.Equal(t, 0, s.RequiredBytes(0))
	// A single entry needs only the encoder bytes, no trailing gap.
	assert.Equal(t, 3, s.RequiredBytes(1))
	assert.Equal(t, 8, s.RequiredBytes(2))
	assert.Equal(t, 13, s.RequiredBytes(3))
}

func TestSegmentEntries(t *testing.T) {
	rgb := mustEncoder(t, "RGB")

	tests := []struct {
		name    string
		indices []int
		reverse bool
		repeat  int
		want    []int
	}{
		{
			name:    "plain order",
			indices: []int{4, 5, 6},
			want:    []int{4, 5, 6},
		},
		{
			name:    "reversed",
			indices: []int{4, 5, 6},
			reverse: true,
			want:    []int{6, 5, 4},
		},
		{
			name:    "repeat expands inline",
			indices: []int{4, 5},
			repeat:  3,
			want:    []int{4, 4, 4, 5, 5, 5},
		},
		{
			name:    "reverse with repeat",
			indices: []int{4, 5},
			reverse: true,
			repeat:  2,
			want:    []int{5, 5, 4, 4},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Segment{Indices: tt.indices, Encoder: rgb, Reverse: tt.reverse, Repeat: tt.repeat}
			assert.Equal(t, tt.want, s.Entries())
			assert.Equal(t, len(tt.want), s.NumEntries())
		})
	}
}

func TestTreeArena(t *testing.T) {
	tree := &Tree{}

	root := tree.AddRoot(Fixture{ID: "root", Enabled: true})
	childA := tree.AddChild(root, Fixture{ID: "a", Enabled: true})
	childB := tree.AddChild(root, Fixture{ID: "b", Enabled: true})
	grandchild := tree.AddChild(childA, Fixture{ID: "a1", Enabled: true})

	require.Len(t, tree.Nodes, 4)
	assert.Equal(t, []int{root}, tree.Roots)
	assert.Equal(t, []int{childA, childB}, tree.Nodes[root].Children)
	assert.Equal(t, []int{grandchild}, tree.Nodes[childA].Children)
	assert.Empty(t, tree.Nodes[childB].Children)
}
