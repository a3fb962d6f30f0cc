package pixel

import (
	"fmt"
	"sort"
	"sync"
)

// ByteEncoder converts one pixel's color into its wire byte representation.
// Implementations must write exactly NumBytes bytes into dst.
type ByteEncoder interface {
	// NumBytes returns the number of bytes one pixel encodes to.
	NumBytes() int
	// Encode writes the pixel's bytes into dst[:NumBytes()], scaling by
	// brightness in [0,1].
	Encode(c Color, brightness float64, dst []byte)
}

// scale applies a brightness scalar to a single component.
func scale(v uint8, brightness float64) uint8 {
	if brightness >= 1 {
		return v
	}
	if brightness <= 0 {
		return 0
	}
	return uint8(float64(v)*brightness + 0.5)
}

// orderEncoder emits the R/G/B (and optionally W) components in a fixed
// order. order holds component selectors: 0=R 1=G 2=B 3=W.
type orderEncoder struct {
	order []int
}

func (e orderEncoder) NumBytes() int { return len(e.order) }

func (e orderEncoder) Encode(c Color, brightness float64, dst []byte) {
	comp := [4]uint8{c.R, c.G, c.B, c.W}
	for i, o := range e.order {
		dst[i] = scale(comp[o], brightness)
	}
}

// whiteEncoder emits a single white byte. For pixels without a native white
// component it falls back to the red channel, which is the convention for
// single-lane dimmer fixtures fed from a mono buffer.
type whiteEncoder struct{}

func (whiteEncoder) NumBytes() int { return 1 }

func (whiteEncoder) Encode(c Color, brightness float64, dst []byte) {
	v := c.W
	if v == 0 {
		v = c.R
	}
	dst[0] = scale(v, brightness)
}

// rgb16Encoder emits 16-bit big-endian R, G, B components by repeating each
// 8-bit value into both bytes (0xAB -> 0xABAB), matching common high-depth
// fixture expectations.
type rgb16Encoder struct{}

func (rgb16Encoder) NumBytes() int { return 6 }

func (rgb16Encoder) Encode(c Color, brightness float64, dst []byte) {
	for i, v := range [3]uint8{c.R, c.G, c.B} {
		s := scale(v, brightness)
		dst[2*i] = s
		dst[2*i+1] = s
	}
}

var (
	encoderMu sync.RWMutex
	encoders  = map[string]ByteEncoder{
		"RGB":   orderEncoder{order: []int{0, 1, 2}},
		"RBG":   orderEncoder{order: []int{0, 2, 1}},
		"GRB":   orderEncoder{order: []int{1, 0, 2}},
		"GBR":   orderEncoder{order: []int{1, 2, 0}},
		"BRG":   orderEncoder{order: []int{2, 0, 1}},
		"BGR":   orderEncoder{order: []int{2, 1, 0}},
		"RGBW":  orderEncoder{order: []int{0, 1, 2, 3}},
		"GRBW":  orderEncoder{order: []int{1, 0, 2, 3}},
		"W":     whiteEncoder{},
		"RGB16": rgb16Encoder{},
	}
)

// RegisterEncoder adds a byte encoder under the given name. Registering an
// existing name replaces the previous encoder. This is the extension point
// for fixture files that reference custom byte orders.
func RegisterEncoder(name string, enc ByteEncoder) {
	encoderMu.Lock()
	defer encoderMu.Unlock()
	encoders[name] = enc
}

// LookupEncoder returns the encoder registered under name.
func LookupEncoder(name string) (ByteEncoder, error) {
	encoderMu.RLock()
	defer encoderMu.RUnlock()
	enc, ok := encoders[name]
	if !ok {
		return nil, fmt.Errorf("unknown byte encoder %q", name)
	}
	return enc, nil
}

// EncoderNames returns the registered encoder names, sorted.
func EncoderNames() []string {
	encoderMu.RLock()
	defer encoderMu.RUnlock()
	names := make([]string, 0, len(encoders))
	for name := range encoders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
