package pixel

import (
	"bytes"
	"sort"
	"testing"
)

func TestEncoderByteOrders(t *testing.T) {
	c := Color{R: 10, G: 20, B: 30, W: 40}

	tests := []struct {
		name string
		want []byte
	}{
		{"RGB", []byte{10, 20, 30}},
		{"RBG", []byte{10, 30, 20}},
		{"GRB", []byte{20, 10, 30}},
		{"GBR", []byte{20, 30, 10}},
		{"BRG", []byte{30, 10, 20}},
		{"BGR", []byte{30, 20, 10}},
		{"RGBW", []byte{10, 20, 30, 40}},
		{"GRBW", []byte{20, 10, 30, 40}},
		{"W", []byte{40}},
		{"RGB16", []byte{10, 10, 20, 20, 30, 30}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc, err := LookupEncoder(tt.name)
			if err != nil {
				t.Fatalf("LookupEncoder(%q) error: %v", tt.name, err)
			}
			if got := enc.NumBytes(); got != len(tt.want) {
				t.Fatalf("NumBytes() = %d, want %d", got, len(tt.want))
			}
			dst := make([]byte, enc.NumBytes())
			enc.Encode(c, 1.0, dst)
			if !bytes.Equal(dst, tt.want) {
				t.Errorf("Encode() = %v, want %v", dst, tt.want)
			}
		})
	}
}

func TestEncoderBrightnessScaling(t *testing.T) {
	enc, err := LookupEncoder("RGB")
	if err != nil {
		t.Fatal(err)
	}

	dst := make([]byte, 3)
	enc.Encode(Color{R: 200, G: 100, B: 50}, 0.5, dst)
	if !bytes.Equal(dst, []byte{100, 50, 25}) {
		t.Errorf("Encode() at 0.5 brightness = %v, want [100 50 25]", dst)
	}

	enc.Encode(Color{R: 200, G: 100, B: 50}, 0, dst)
	if !bytes.Equal(dst, []byte{0, 0, 0}) {
		t.Errorf("Encode() at 0 brightness = %v, want [0 0 0]", dst)
	}

	// Brightness above 1 must not amplify.
	enc.Encode(Color{R: 200, G: 100, B: 50}, 2.0, dst)
	if !bytes.Equal(dst, []byte{200, 100, 50}) {
		t.Errorf("Encode() at 2.0 brightness = %v, want [200 100 50]", dst)
	}
}

func TestWhiteEncoderRedFallback(t *testing.T) {
	enc, err := LookupEncoder("W")
	if err != nil {
		t.Fatal(err)
	}

	dst := make([]byte, 1)
	enc.Encode(Color{R: 99}, 1.0, dst)
	if dst[0] != 99 {
		t.Errorf("W encoder without white component = %d, want red fallback 99", dst[0])
	}

	enc.Encode(Color{R: 99, W: 55}, 1.0, dst)
	if dst[0] != 55 {
		t.Errorf("W encoder with white component = %d, want 55", dst[0])
	}
}

func TestLookupEncoderUnknown(t *testing.T) {
	if _, err := LookupEncoder("XYZ"); err == nil {
		t.Error("LookupEncoder(\"XYZ\") expected error, got nil")
	}
}

func TestRegisterEncoder(t *testing.T) {
	RegisterEncoder("test-bw", whiteEncoder{})
	defer func() {
		encoderMu.Lock()
		delete(encoders, "test-bw")
		encoderMu.Unlock()
	}()

	if _, err := LookupEncoder("test-bw"); err != nil {
		t.Errorf("LookupEncoder after RegisterEncoder error: %v", err)
	}
	names := EncoderNames()
	if !sort.StringsAreSorted(names) {
		t.Errorf("EncoderNames() not sorted: %v", names)
	}
	found := false
	for _, n := range names {
		if n == "test-bw" {
			found = true
		}
	}
	if !found {
		t.Errorf("EncoderNames() missing registered encoder: %v", names)
	}
}

func TestBufferAtBounds(t *testing.T) {
	buf := Buffer{{R: 1}, {R: 2}}

	if got := buf.At(1); got.R != 2 {
		t.Errorf("At(1).R = %d, want 2", got.R)
	}
	if got := buf.At(-1); got != (Color{}) {
		t.Errorf("At(-1) = %+v, want zero color", got)
	}
	if got := buf.At(2); got != (Color{}) {
		t.Errorf("At(2) = %+v, want zero color", got)
	}
}
