package firmware

import (
	"bufio"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/parezj/go-bsl430/checksum"
)

// Intel-HEX record types.
const (
	ihexData           byte = 0 // data bytes
	ihexEOF            byte = 1 // end of file
	ihexExtSegment     byte = 2 // extended segment address (base = value * 16)
	ihexStartSegment   byte = 3 // start segment address (CS:IP)
	ihexExtLinear      byte = 4 // extended linear address (upper 16 bits)
	ihexStartLinear    byte = 5 // start linear address (EIP)
	ihexMinRecordBytes      = 5 // count + address(2) + type + checksum
)

// ParseIntelHex decodes an Intel-HEX image. Records are delimited by ':'
// and line breaks between them are optional. Processing stops at the
// end-of-file record.
func ParseIntelHex(data []byte, opts ...Option) (*Firmware, error) {
	cfg := newConfig(opts)

	parts := strings.Split(string(data), ":")
	if strings.TrimSpace(parts[0]) != "" {
		return nil, newError(MalformedRecord, IntelHex, 1, "data before the first ':'")
	}

	var (
		nodes []Node
		base  uint32
	)
	for i, part := range parts[1:] {
		recNum := i + 1
		rec, err := decodeIntelHexRecord(strings.TrimSpace(part))
		if err != nil {
			err.Line = recNum
			return nil, err
		}

		count := rec[0]
		offset := binary.BigEndian.Uint16(rec[1:3])
		recType := rec[3]
		payload := rec[4 : 4+int(count)]

		switch recType {
		case ihexData:
			for j, b := range payload {
				addr := uint64(base) + uint64(offset) + uint64(j)
				if addr > maxAddress {
					return nil, newError(MalformedRecord, IntelHex, recNum, "address exceeds 32 bits")
				}
				nodes = append(nodes, Node{Addr: uint32(addr), Data: b})
			}
		case ihexEOF:
			return finish(nodes, IntelHex, cfg)
		case ihexExtSegment:
			base = uint32(binary.BigEndian.Uint16(payload)) << 4
		case ihexExtLinear:
			base = uint32(binary.BigEndian.Uint16(payload)) << 16
		case ihexStartSegment, ihexStartLinear:
			// execution start address, not part of the image
		}
	}

	return finish(nodes, IntelHex, cfg)
}

// decodeIntelHexRecord hex-decodes one record (without the ':') and
// validates its length, type and checksum.
func decodeIntelHexRecord(text string) ([]byte, *Error) {
	if text == "" {
		return nil, newError(MalformedRecord, IntelHex, 0, "empty record")
	}
	rec, err := hex.DecodeString(text)
	if err != nil {
		return nil, &Error{Kind: MalformedRecord, Format: IntelHex, Msg: "invalid hex data", Err: err}
	}
	if len(rec) < ihexMinRecordBytes {
		return nil, newError(MalformedRecord, IntelHex, 0, "record too short: got %d bytes, minimum is %d", len(rec), ihexMinRecordBytes)
	}

	count := int(rec[0])
	if len(rec) != count+ihexMinRecordBytes {
		return nil, newError(MalformedRecord, IntelHex, 0, "data length mismatch: declared %d, got %d", count, len(rec)-ihexMinRecordBytes)
	}

	recType := rec[3]
	if recType > ihexStartLinear {
		return nil, newError(MalformedRecord, IntelHex, 0, "invalid record type 0x%02X", recType)
	}

	if want := checksum.IntelHex(rec[:len(rec)-1]); rec[len(rec)-1] != want {
		return nil, newError(MalformedRecord, IntelHex, 0, "checksum mismatch: got 0x%02X, expected 0x%02X", rec[len(rec)-1], want)
	}

	switch recType {
	case ihexEOF:
		if count != 0 {
			return nil, newError(MalformedRecord, IntelHex, 0, "end of file record carries data")
		}
	case ihexData:
		if count == 0 {
			return nil, newError(MalformedRecord, IntelHex, 0, "data record carries no data")
		}
	case ihexExtSegment, ihexExtLinear:
		if count != 2 {
			return nil, newError(MalformedRecord, IntelHex, 0, "extended address record must carry 2 bytes, got %d", count)
		}
	case ihexStartSegment, ihexStartLinear:
		if count != 4 {
			return nil, newError(MalformedRecord, IntelHex, 0, "start address record must carry 4 bytes, got %d", count)
		}
	}
	return rec, nil
}

func writeIntelHexRecord(w *bufio.Writer, addr uint16, recType byte, data []byte) {
	rec := make([]byte, 0, len(data)+ihexMinRecordBytes)
	rec = append(rec, byte(len(data)), byte(addr>>8), byte(addr), recType)
	rec = append(rec, data...)
	rec = append(rec, checksum.IntelHex(rec))
	fmt.Fprintf(w, ":%X\n", rec)
}

// writeIntelHex emits data records, preceded by an extended linear
// address record whenever the upper 16 address bits change, and the
// end-of-file record. Runs never cross a 64 KiB boundary.
func writeIntelHex(w *bufio.Writer, nodes []Node, lineLength int) {
	var ext uint32
	for _, r := range splitRuns(nodes, lineLength, 0x10000) {
		if upper := r.addr >> 16; upper != ext {
			writeIntelHexRecord(w, 0, ihexExtLinear, []byte{byte(upper >> 8), byte(upper)})
			ext = upper
		}
		writeIntelHexRecord(w, uint16(r.addr), ihexData, r.data)
	}
	writeIntelHexRecord(w, 0, ihexEOF, nil)
}
