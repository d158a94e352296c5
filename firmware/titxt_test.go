package firmware

import (
	"reflect"
	"strings"
	"testing"
)

func TestParseTiTxt(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []Node
		wantErr bool
		errMsg  string
	}{
		{
			name:  "single segment",
			input: "@8000\n01 02 03 04\nq\n",
			want:  NodesFromBytes([]byte{1, 2, 3, 4}, 0x8000),
		},
		{
			name:  "two segments",
			input: "@8000\n01 02\n@FFFE\n00 80\nq\n",
			want: append(NodesFromBytes([]byte{1, 2}, 0x8000),
				NodesFromBytes([]byte{0x00, 0x80}, 0xFFFE)...),
		},
		{
			name:  "crlf and lowercase hex",
			input: "@c000\r\nab cd\r\nq\r\n",
			want:  NodesFromBytes([]byte{0xAB, 0xCD}, 0xC000),
		},
		{
			name:  "header without at sign",
			input: "1000\n0A 0B\nq\n",
			want:  NodesFromBytes([]byte{0x0A, 0x0B}, 0x1000),
		},
		{
			name:  "wide address",
			input: "@010000\n55\nq\n",
			want:  NodesFromBytes([]byte{0x55}, 0x10000),
		},
		{
			name:  "data spread over lines",
			input: "@0200\n01 02\n03\n04 05 06\nq",
			want:  NodesFromBytes([]byte{1, 2, 3, 4, 5, 6}, 0x200),
		},
		{
			name:  "text after terminator ignored",
			input: "@0200\n01\nq\ngarbage",
			want:  NodesFromBytes([]byte{1}, 0x200),
		},
		{
			name:    "segment without data",
			input:   "@8000\n@9000\n01\nq\n",
			wantErr: true,
			errMsg:  "segment has no data",
		},
		{
			name:    "last segment without data",
			input:   "@8000\n01\n@9000\nq\n",
			wantErr: true,
			errMsg:  "segment has no data",
		},
		{
			name:    "data before header",
			input:   "01 02\n@8000\n03\nq\n",
			wantErr: true,
			errMsg:  "before the first address header",
		},
		{
			name:    "missing terminator",
			input:   "@8000\n01 02\n",
			wantErr: true,
			errMsg:  "missing 'q'",
		},
		{
			name:    "invalid byte",
			input:   "@8000\n0G\nq\n",
			wantErr: true,
			errMsg:  "invalid data byte",
		},
		{
			name:    "invalid token",
			input:   "@8000\n01 234\nq\n",
			wantErr: true,
			errMsg:  "unexpected token",
		},
		{
			name:    "invalid header",
			input:   "@80X0\n01\nq\n",
			wantErr: true,
			errMsg:  "invalid address header",
		},
		{
			name:    "duplicate address",
			input:   "@8000\n01\n@8000\n02\nq\n",
			wantErr: true,
			errMsg:  "defined more than once",
		},
		{
			name:    "address overflow",
			input:   "@FFFFFFFF\n01 02\nq\n",
			wantErr: true,
			errMsg:  "exceeds 32 bits",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fw, err := ParseTiTxt([]byte(tt.input))

			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error containing %q, got nil", tt.errMsg)
				}
				if !IsKind(err, MalformedRecord) {
					t.Errorf("error kind = %v, want MalformedRecord", err)
				}
				if !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("error = %v, want substring %q", err, tt.errMsg)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := fw.Nodes(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Nodes() = %v, want %v", got, tt.want)
			}
			if fw.Format() != TiTxt {
				t.Errorf("Format() = %s, want %s", fw.Format(), TiTxt)
			}
		})
	}
}

func TestParseTiTxtInfo(t *testing.T) {
	fw, err := ParseTiTxt([]byte("@8000\n01 02 03 04\nq\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	info := fw.Info()
	if info.AddrFirst != 0x8000 || info.AddrLast != 0x8003 || info.SizeCode != 4 {
		t.Errorf("Info = first 0x%X last 0x%X code %d, want 0x8000 0x8003 4",
			info.AddrFirst, info.AddrLast, info.SizeCode)
	}
}

func TestParseTiTxtFillFF(t *testing.T) {
	fw, err := ParseTiTxt([]byte("@0100\n01 02\n@0104\n05\nq\n"), WithFillFF(true))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := NodesFromBytes([]byte{1, 2, 0xFF, 0xFF, 5}, 0x100)
	if got := fw.Nodes(); !reflect.DeepEqual(got, want) {
		t.Errorf("Nodes() = %v, want %v", got, want)
	}
	if got := fw.Info().FilledFFAddr; !reflect.DeepEqual(got, []uint32{0x102, 0x103}) {
		t.Errorf("FilledFFAddr = %X, want [102 103]", got)
	}
}

func TestParseTiTxtEmpty(t *testing.T) {
	_, err := ParseTiTxt([]byte("q\n"))
	if !IsKind(err, EmptyInput) {
		t.Errorf("error = %v, want EmptyInput", err)
	}
}

func TestEncodeTiTxt(t *testing.T) {
	tests := []struct {
		name       string
		nodes      []Node
		lineLength int
		want       string
	}{
		{
			name:  "single run",
			nodes: NodesFromBytes([]byte{1, 2, 3, 4}, 0x8000),
			want:  "@8000\n01 02 03 04\nq\n",
		},
		{
			name:       "line length split keeps one header",
			nodes:      NodesFromBytes([]byte{1, 2, 3, 4, 5}, 0x8000),
			lineLength: 2,
			want:       "@8000\n01 02\n03 04\n05\nq\n",
		},
		{
			name:  "discontinuity starts new header",
			nodes: append(NodesFromBytes([]byte{1, 2}, 0x8000), NodesFromBytes([]byte{0x00, 0x80}, 0xFFFE)...),
			want:  "@8000\n01 02\n@FFFE\n00 80\nq\n",
		},
		{
			name:  "six digit address",
			nodes: NodesFromBytes([]byte{0xAA}, 0x10000),
			want:  "@010000\nAA\nq\n",
		},
		{
			name:  "eight digit address",
			nodes: NodesFromBytes([]byte{0xBB}, 0x1000000),
			want:  "@01000000\nBB\nq\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Encode(tt.nodes, TiTxt, tt.lineLength)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Encode() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEncodeTiTxtDefaultLineLength(t *testing.T) {
	data := make([]byte, 20)
	got, err := Encode(NodesFromBytes(data, 0), Auto, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := strings.Split(strings.TrimSuffix(got, "\n"), "\n")
	// header, 16 bytes, 4 bytes, q
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want 4:\n%s", len(lines), got)
	}
	if n := len(strings.Fields(lines[1])); n != DefaultTiTxtLineLength {
		t.Errorf("first data line has %d bytes, want %d", n, DefaultTiTxtLineLength)
	}
}
