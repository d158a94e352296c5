package firmware

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/parezj/go-bsl430/checksum"
)

// srecHeader is the payload of the S0 record written before the data.
const srecHeader = "HDR"

// srecAddrLens maps an S-record type to its address field width in bytes.
// Type 4 is reserved.
var srecAddrLens = map[byte]int{
	0: 2, 1: 2, 2: 3, 3: 4, 5: 2, 6: 3, 7: 4, 8: 3, 9: 2,
}

// srecTerminators maps a data record type to its terminator type.
var srecTerminators = map[byte]byte{1: 9, 2: 8, 3: 7}

// ParseSrec decodes a Motorola S-record image. S1, S2 and S3 data
// records may not be mixed, and the terminator must match them (S9 for
// S1, S8 for S2, S7 for S3). An S5 or S6 count must equal the number of
// data records before it. Processing stops at the terminator.
func ParseSrec(data []byte, opts ...Option) (*Firmware, error) {
	cfg := newConfig(opts)

	var (
		nodes    []Node
		dataType byte
		records  uint32
	)

	for i, line := range strings.Split(string(data), "\n") {
		lineNum := i + 1
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		recType, addr, payload, err := parseSrecRecord(line)
		if err != nil {
			err.Line = lineNum
			return nil, err
		}

		switch recType {
		case 1, 2, 3:
			if dataType != 0 && dataType != recType {
				return nil, newError(MalformedRecord, Srec, lineNum, "mixed data record types S%d and S%d", dataType, recType)
			}
			dataType = recType
			records++
			for j, b := range payload {
				a := uint64(addr) + uint64(j)
				if a > maxAddress {
					return nil, newError(MalformedRecord, Srec, lineNum, "address exceeds 32 bits")
				}
				nodes = append(nodes, Node{Addr: uint32(a), Data: b})
			}
		case 7, 8, 9:
			if dataType != 0 && srecTerminators[dataType] != recType {
				return nil, newError(MalformedRecord, Srec, lineNum, "terminator S%d does not match data records S%d", recType, dataType)
			}
			return finish(nodes, Srec, cfg)
		case 5, 6:
			if addr != records {
				return nil, newError(MalformedRecord, Srec, lineNum, "record count %d does not match %d data records", addr, records)
			}
		}
	}

	return finish(nodes, Srec, cfg)
}

// parseSrecRecord decodes and validates a single S-record line.
func parseSrecRecord(line string) (recType byte, addr uint32, payload []byte, err *Error) {
	if len(line) < 4 || line[0] != 'S' {
		return 0, 0, nil, newError(MalformedRecord, Srec, 0, "record must start with 'S' followed by type and count")
	}

	t := line[1]
	if t < '0' || t > '9' {
		return 0, 0, nil, newError(MalformedRecord, Srec, 0, "invalid record type %q", t)
	}
	recType = t - '0'
	addrLen, ok := srecAddrLens[recType]
	if !ok {
		return 0, 0, nil, newError(MalformedRecord, Srec, 0, "unsupported record type S%d", recType)
	}

	rec, decErr := hex.DecodeString(line[2:])
	if decErr != nil {
		return 0, 0, nil, &Error{Kind: MalformedRecord, Format: Srec, Msg: "invalid hex data", Err: decErr}
	}

	count := int(rec[0])
	if len(rec) != count+1 {
		return 0, 0, nil, newError(MalformedRecord, Srec, 0, "byte count mismatch: declared %d, got %d", count, len(rec)-1)
	}
	if count < addrLen+1 {
		return 0, 0, nil, newError(MalformedRecord, Srec, 0, "byte count %d too small for S%d record", count, recType)
	}

	if want := checksum.Srec(rec[:len(rec)-1]); rec[len(rec)-1] != want {
		return 0, 0, nil, newError(MalformedRecord, Srec, 0, "checksum mismatch: got 0x%02X, expected 0x%02X", rec[len(rec)-1], want)
	}

	for _, b := range rec[1 : 1+addrLen] {
		addr = addr<<8 | uint32(b)
	}
	return recType, addr, rec[1+addrLen : len(rec)-1], nil
}

// srecAddrLen returns the smallest address width able to hold maxAddr.
func srecAddrLen(maxAddr uint32) int {
	switch {
	case maxAddr > 0xFFFFFF:
		return 4
	case maxAddr > 0xFFFF:
		return 3
	}
	return 2
}

func writeSrecRecord(w *bufio.Writer, recType byte, addr uint32, addrLen int, data []byte) {
	rec := make([]byte, 0, addrLen+len(data)+2)
	rec = append(rec, byte(addrLen+len(data)+1))
	for i := addrLen - 1; i >= 0; i-- {
		rec = append(rec, byte(addr>>(8*uint(i))))
	}
	rec = append(rec, data...)
	rec = append(rec, checksum.Srec(rec))
	fmt.Fprintf(w, "S%d%X\n", recType, rec)
}

// writeSrec emits the S0 header, data records sized by the highest
// address and the matching terminator.
func writeSrec(w *bufio.Writer, nodes []Node, lineLength int) {
	addrLen := srecAddrLen(nodes[len(nodes)-1].Addr)
	dataType := byte(addrLen - 1)

	writeSrecRecord(w, 0, 0, 2, []byte(srecHeader))
	for _, r := range splitRuns(nodes, lineLength, 0) {
		writeSrecRecord(w, dataType, r.addr, addrLen, r.data)
	}
	writeSrecRecord(w, srecTerminators[dataType], 0, addrLen, nil)
}
