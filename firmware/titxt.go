package firmware

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"
)

// ParseTiTxt decodes a TI-TXT image.
//
// A TI-TXT body is a list of segments, each introduced by an address
// header ("@8000", or a bare four digit address on its own line) and
// followed by whitespace separated hex bytes. The file ends with "q":
//
//	@8000
//	31 40 00 04 B0 12 ...
//	@FFFE
//	00 80
//	q
func ParseTiTxt(data []byte, opts ...Option) (*Firmware, error) {
	cfg := newConfig(opts)

	var (
		nodes      []Node
		addr       uint64
		haveHeader bool
		headerLine int
		blockLen   int
		terminated bool
	)

scan:
	for i, line := range strings.Split(string(data), "\n") {
		lineNum := i + 1
		fields := strings.Fields(line)
		for _, tok := range fields {
			switch {
			case tok == "q" || tok == "Q":
				terminated = true
				break scan

			case tok[0] == '@' || (len(fields) == 1 && len(tok) == 4):
				if haveHeader && blockLen == 0 {
					return nil, newError(MalformedRecord, TiTxt, headerLine, "segment has no data bytes")
				}
				a, err := strconv.ParseUint(strings.TrimPrefix(tok, "@"), 16, 32)
				if err != nil {
					return nil, newError(MalformedRecord, TiTxt, lineNum, "invalid address header %q", tok)
				}
				addr = a
				haveHeader = true
				headerLine = lineNum
				blockLen = 0

			case len(tok) == 2:
				if !haveHeader {
					return nil, newError(MalformedRecord, TiTxt, lineNum, "data bytes before the first address header")
				}
				b, err := strconv.ParseUint(tok, 16, 8)
				if err != nil {
					return nil, newError(MalformedRecord, TiTxt, lineNum, "invalid data byte %q", tok)
				}
				if addr > maxAddress {
					return nil, newError(MalformedRecord, TiTxt, lineNum, "address exceeds 32 bits")
				}
				nodes = append(nodes, Node{Addr: uint32(addr), Data: byte(b)})
				addr++
				blockLen++

			default:
				return nil, newError(MalformedRecord, TiTxt, lineNum, "unexpected token %q", tok)
			}
		}
	}

	if haveHeader && blockLen == 0 {
		return nil, newError(MalformedRecord, TiTxt, headerLine, "segment has no data bytes")
	}
	if !terminated {
		return nil, newError(MalformedRecord, TiTxt, 0, "missing 'q' terminator")
	}

	return finish(nodes, TiTxt, cfg)
}

// tiTxtAddress formats a segment address with 4, 6 or 8 hex digits.
func tiTxtAddress(addr uint32) string {
	switch {
	case addr > 0xFFFFFF:
		return fmt.Sprintf("%08X", addr)
	case addr > 0xFFFF:
		return fmt.Sprintf("%06X", addr)
	}
	return fmt.Sprintf("%04X", addr)
}

func writeTiTxt(w *bufio.Writer, nodes []Node, lineLength int) {
	for _, r := range splitRuns(nodes, lineLength, 0) {
		if r.gap {
			fmt.Fprintf(w, "@%s\n", tiTxtAddress(r.addr))
		}
		for i, b := range r.data {
			if i > 0 {
				_ = w.WriteByte(' ')
			}
			fmt.Fprintf(w, "%02X", b)
		}
		_ = w.WriteByte('\n')
	}
	_, _ = w.WriteString("q\n")
}
