package firmware

import (
	"bufio"
	"bytes"
	"io"
	"math"
)

const maxAddress = math.MaxUint32

// run is a block of consecutive bytes written as one output record.
type run struct {
	addr uint32
	data []byte

	// gap is set for the first run and for runs that do not continue
	// the previous one
	gap bool
}

// splitRuns groups sorted nodes into runs of at most lineLength bytes.
// A run ends early at an address discontinuity or, if boundary is not
// zero, before an address that is a multiple of boundary.
func splitRuns(nodes []Node, lineLength int, boundary uint64) []run {
	var runs []run
	for _, n := range nodes {
		if len(runs) > 0 {
			cur := &runs[len(runs)-1]
			next := uint64(cur.addr) + uint64(len(cur.data))
			contiguous := uint64(n.Addr) == next
			if contiguous && len(cur.data) < lineLength && (boundary == 0 || next%boundary != 0) {
				cur.data = append(cur.data, n.Data)
				continue
			}
			runs = append(runs, run{addr: n.Addr, data: []byte{n.Data}, gap: !contiguous})
			continue
		}
		runs = append(runs, run{addr: n.Addr, data: []byte{n.Data}, gap: true})
	}
	return runs
}

// maxLineLength is the largest data length one record of format can hold.
func maxLineLength(format Format, lastAddr uint32) int {
	switch format {
	case IntelHex:
		return 0xFF
	case Srec:
		// count byte covers address, data and checksum
		return 0xFF - srecAddrLen(lastAddr) - 1
	}
	return math.MaxInt32
}

// Encode encodes nodes as format and returns the text. Auto encodes
// TI-TXT. A lineLength of 0 selects the format's default.
//
// Example:
//
//	text, err := firmware.Encode(fw.Nodes(), firmware.IntelHex, 0)
func Encode(nodes []Node, format Format, lineLength int) (string, error) {
	var buf bytes.Buffer
	if err := EncodeTo(&buf, nodes, format, lineLength); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// EncodeTo writes the encoding of nodes as format to w.
func EncodeTo(w io.Writer, nodes []Node, format Format, lineLength int) error {
	target := format.encodeTarget()
	if !target.Writable() {
		return newError(UnsupportedOutputFormat, target, 0, "%s cannot be written", target)
	}
	if len(nodes) == 0 {
		return newError(EmptyInput, target, 0, "no data to encode")
	}

	sorted, dup, ok := sortNodes(nodes)
	if !ok {
		return newError(AddressConflict, target, 0, "address 0x%X defined more than once", dup)
	}

	if lineLength == 0 {
		lineLength = target.DefaultLineLength()
	}
	if limit := maxLineLength(target, sorted[len(sorted)-1].Addr); lineLength < 1 || lineLength > limit {
		return newError(EncodeFailure, target, 0, "line length %d out of range 1..%d", lineLength, limit)
	}

	bw := bufio.NewWriter(w)
	switch target {
	case TiTxt:
		writeTiTxt(bw, sorted, lineLength)
	case IntelHex:
		writeIntelHex(bw, sorted, lineLength)
	case Srec:
		writeSrec(bw, sorted, lineLength)
	}
	if err := bw.Flush(); err != nil {
		return wrapError(EncodeFailure, target, err, "write %s output", target)
	}
	return nil
}

// Encode encodes the firmware as format.
func (f *Firmware) Encode(format Format, lineLength int) (string, error) {
	return Encode(f.nodes, format, lineLength)
}

// NodesFromBytes lays data out at consecutive addresses from start, as
// returned by a device memory read.
func NodesFromBytes(data []byte, start uint32) []Node {
	nodes := make([]Node, len(data))
	for i, b := range data {
		nodes[i] = Node{Addr: start + uint32(i), Data: b}
	}
	return nodes
}
