package firmware

import (
	"reflect"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	nodes := []Node{
		{Addr: 0x8002, Data: 0x03},
		{Addr: 0x8000, Data: 0x01},
		{Addr: 0x8003, Data: 0x04},
		{Addr: 0x8001, Data: 0x02},
	}

	fw, err := New(nodes, TiTxt, WithSizeBuffer(64))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := NodesFromBytes([]byte{0x01, 0x02, 0x03, 0x04}, 0x8000)
	if got := fw.Nodes(); !reflect.DeepEqual(got, want) {
		t.Errorf("Nodes() = %v, want %v", got, want)
	}

	info := fw.Info()
	if info.Format != TiTxt {
		t.Errorf("Format = %s, want %s", info.Format, TiTxt)
	}
	if info.AddrFirst != 0x8000 || info.AddrLast != 0x8003 {
		t.Errorf("range = 0x%X-0x%X, want 0x8000-0x8003", info.AddrFirst, info.AddrLast)
	}
	if info.SizeFull != 4 || info.SizeCode != 4 {
		t.Errorf("SizeFull = %d, SizeCode = %d, want 4, 4", info.SizeFull, info.SizeCode)
	}
	if info.Crc16 != 0x89C3 {
		t.Errorf("Crc16 = 0x%04X, want 0x89C3", info.Crc16)
	}
	if info.SizeBuffer != 64 {
		t.Errorf("SizeBuffer = %d, want 64", info.SizeBuffer)
	}
	if info.FilledFFAddr != nil {
		t.Errorf("FilledFFAddr = %v, want nil without fill", info.FilledFFAddr)
	}
	if info.ResetVector != nil {
		t.Errorf("ResetVector = %v, want nil", *info.ResetVector)
	}
}

func TestNewDuplicateAddress(t *testing.T) {
	nodes := []Node{{Addr: 0x10, Data: 1}, {Addr: 0x10, Data: 2}}

	_, err := New(nodes, IntelHex)
	if !IsKind(err, AddressConflict) {
		t.Fatalf("error = %v, want AddressConflict", err)
	}
	if !strings.Contains(err.Error(), "0x10") {
		t.Errorf("error = %v, want address in message", err)
	}
}

func TestNewEmpty(t *testing.T) {
	fw, err := New(nil, TiTxt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fw.Len() != 0 {
		t.Errorf("Len() = %d, want 0", fw.Len())
	}
	if fw.Info().Crc16 != 0xFFFF {
		t.Errorf("Crc16 = 0x%04X, want 0xFFFF", fw.Info().Crc16)
	}
}

func TestNewDoesNotAliasInput(t *testing.T) {
	nodes := NodesFromBytes([]byte{1, 2}, 0)
	fw, err := New(nodes, TiTxt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	nodes[0].Data = 0xEE
	if b, _ := fw.At(0); b != 1 {
		t.Errorf("At(0) = 0x%02X after caller mutation, want 0x01", b)
	}
}

func TestAt(t *testing.T) {
	fw, err := New([]Node{{Addr: 0x200, Data: 0xAB}, {Addr: 0x100, Data: 0xCD}}, TiTxt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if b, ok := fw.At(0x200); !ok || b != 0xAB {
		t.Errorf("At(0x200) = 0x%02X, %v; want 0xAB, true", b, ok)
	}
	if _, ok := fw.At(0x150); ok {
		t.Errorf("At(0x150) found a byte in a gap")
	}
}

func TestSetResetVector(t *testing.T) {
	tests := []struct {
		name   string
		nodes  []Node
		addr   uint32
		want   uint16
		wantOK bool
	}{
		{
			name:   "vector present",
			nodes:  NodesFromBytes([]byte{0x11, 0x22, 0x80, 0x00}, 0xFFFC),
			addr:   0xFFFE,
			want:   0x8000,
			wantOK: true,
		},
		{
			name:   "only high byte",
			nodes:  NodesFromBytes([]byte{0x44}, 0xFFFE),
			addr:   0xFFFE,
			wantOK: false,
		},
		{
			name:   "only low byte at first position",
			nodes:  NodesFromBytes([]byte{0x44}, 0xFFFF),
			addr:   0xFFFE,
			wantOK: false,
		},
		{
			name:   "gap before low byte",
			nodes:  []Node{{Addr: 0xFFFC, Data: 1}, {Addr: 0xFFFF, Data: 2}},
			addr:   0xFFFE,
			wantOK: false,
		},
		{
			name:   "address at top of range",
			nodes:  NodesFromBytes([]byte{1, 2}, 0xFFFFFFFE),
			addr:   0xFFFFFFFF,
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fw, err := New(tt.nodes, TiTxt)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			got, ok := fw.SetResetVector(tt.addr)
			if ok != tt.wantOK {
				t.Fatalf("SetResetVector() ok = %v, want %v", ok, tt.wantOK)
			}

			rv := fw.Info().ResetVector
			if !tt.wantOK {
				if rv != nil {
					t.Errorf("ResetVector = 0x%04X, want nil", *rv)
				}
				return
			}
			if got != tt.want || rv == nil || *rv != tt.want {
				t.Errorf("SetResetVector() = 0x%04X, Info = %v, want 0x%04X", got, rv, tt.want)
			}
		})
	}
}

func TestEquals(t *testing.T) {
	a, _ := New(NodesFromBytes([]byte{1, 2, 3}, 0x100), TiTxt)
	b, _ := New(NodesFromBytes([]byte{1, 2, 3}, 0x100), IntelHex)
	c, _ := New(NodesFromBytes([]byte{1, 2, 4}, 0x100), TiTxt)
	empty, _ := New(nil, TiTxt)

	tests := []struct {
		name string
		x, y *Firmware
		want bool
	}{
		{"same nodes different format", a, b, true},
		{"different data", a, c, false},
		{"nil receiver", nil, a, false},
		{"nil argument", a, nil, false},
		{"both nil", nil, nil, false},
		{"both empty", empty, empty, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.x.Equals(tt.y); got != tt.want {
				t.Errorf("Equals() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEqualNilQuirk(t *testing.T) {
	a, _ := New(NodesFromBytes([]byte{1}, 0), TiTxt)

	if !Equal(nil, nil) {
		t.Errorf("Equal(nil, nil) = false, want true")
	}
	if Equal(a, nil) || Equal(nil, a) {
		t.Errorf("Equal with one nil side = true, want false")
	}
	if !Equal(a, a) {
		t.Errorf("Equal(a, a) = false, want true")
	}
}
