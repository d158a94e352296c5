package firmware

import (
	"bytes"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"
)

// sampleNodes spans several segments, a 64 KiB boundary and the
// interrupt vector table.
func sampleNodes() []Node {
	var nodes []Node
	code := make([]byte, 70)
	for i := range code {
		code[i] = byte(i * 3)
	}
	nodes = append(nodes, NodesFromBytes(code, 0x4400)...)
	nodes = append(nodes, NodesFromBytes([]byte{0xDE, 0xAD}, 0x5000)...)
	nodes = append(nodes, NodesFromBytes(bytes.Repeat([]byte{0x3C}, 32), 0xFFE0)...)
	nodes = append(nodes, NodesFromBytes([]byte{0x01, 0x02, 0x03}, 0x10000)...)
	return nodes
}

func TestRoundTrip(t *testing.T) {
	formats := []Format{TiTxt, IntelHex, Srec}
	lineLengths := []int{0, 1, 7, 64}

	src, err := New(sampleNodes(), TiTxt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, f := range formats {
		for _, ll := range lineLengths {
			t.Run(fmt.Sprintf("%s/%d", f, ll), func(t *testing.T) {
				text, err := src.Encode(f, ll)
				if err != nil {
					t.Fatalf("Encode(%s, %d): %v", f, ll, err)
				}

				got, err := Decode([]byte(text), f)
				if err != nil {
					t.Fatalf("Decode(%s): %v\n%s", f, err, text)
				}
				if !got.Equals(src) {
					t.Errorf("round trip through %s (line length %d) changed the image", f, ll)
				}

				detected, err := Detect([]byte(text))
				if err != nil || detected != f {
					t.Errorf("Detect(encoded %s) = %s, %v", f, detected, err)
				}
			})
		}
	}
}

func TestEncodeErrors(t *testing.T) {
	tests := []struct {
		name       string
		nodes      []Node
		format     Format
		lineLength int
		kind       ErrorKind
	}{
		{"empty input", nil, TiTxt, 0, EmptyInput},
		{"elf target", NodesFromBytes([]byte{1}, 0), Elf, 0, UnsupportedOutputFormat},
		{"duplicate address", []Node{{Addr: 1}, {Addr: 1}}, IntelHex, 0, AddressConflict},
		{"negative line length", NodesFromBytes([]byte{1}, 0), Srec, -1, EncodeFailure},
		{"intel hex line too long", NodesFromBytes([]byte{1}, 0), IntelHex, 256, EncodeFailure},
		{"srec line too long", NodesFromBytes([]byte{1}, 0), Srec, 253, EncodeFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Encode(tt.nodes, tt.format, tt.lineLength)
			if !IsKind(err, tt.kind) {
				t.Errorf("error = %v, want kind %v", err, tt.kind)
			}
		})
	}
}

func TestEncodeMaxLineLength(t *testing.T) {
	data := bytes.Repeat([]byte{0xA5}, 600)
	for _, tt := range []struct {
		format Format
		length int
	}{
		{IntelHex, 255},
		{Srec, 252},
	} {
		text, err := Encode(NodesFromBytes(data, 0x1000), tt.format, tt.length)
		if err != nil {
			t.Fatalf("Encode(%s, %d): %v", tt.format, tt.length, err)
		}
		fw, err := Decode([]byte(text), tt.format)
		if err != nil {
			t.Fatalf("Decode(%s): %v", tt.format, err)
		}
		if fw.Len() != len(data) {
			t.Errorf("%s: decoded %d bytes, want %d", tt.format, fw.Len(), len(data))
		}
	}
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestEncodeToWriteFailure(t *testing.T) {
	err := EncodeTo(failingWriter{}, NodesFromBytes([]byte{1, 2}, 0), IntelHex, 0)
	if !IsKind(err, EncodeFailure) {
		t.Fatalf("error = %v, want EncodeFailure", err)
	}
	if !strings.Contains(err.Error(), "disk full") {
		t.Errorf("error = %v, want wrapped cause", err)
	}
}

func TestSplitRuns(t *testing.T) {
	nodes := append(NodesFromBytes([]byte{1, 2, 3, 4, 5}, 0x10), Node{Addr: 0x20, Data: 6})

	runs := splitRuns(nodes, 3, 0)

	want := []run{
		{addr: 0x10, data: []byte{1, 2, 3}, gap: true},
		{addr: 0x13, data: []byte{4, 5}, gap: false},
		{addr: 0x20, data: []byte{6}, gap: true},
	}
	if !reflect.DeepEqual(runs, want) {
		t.Errorf("splitRuns() = %+v, want %+v", runs, want)
	}
}

func TestNodesFromBytes(t *testing.T) {
	nodes := NodesFromBytes([]byte{0xAA, 0xBB}, 0xFFFE)
	want := []Node{{Addr: 0xFFFE, Data: 0xAA}, {Addr: 0xFFFF, Data: 0xBB}}
	if !reflect.DeepEqual(nodes, want) {
		t.Errorf("NodesFromBytes() = %v, want %v", nodes, want)
	}
}

func BenchmarkEncodeIntelHex(b *testing.B) {
	nodes := NodesFromBytes(make([]byte, 16*1024), 0x4000)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = Encode(nodes, IntelHex, 0)
	}
}
