package firmware

import (
	"sort"

	"github.com/parezj/go-bsl430/checksum"
)

// Node is a single byte of firmware at an absolute address.
type Node struct {
	Addr uint32
	Data byte
}

// Info is metadata derived from a firmware's nodes.
type Info struct {
	// Format is the format the firmware was decoded from or built for
	Format Format

	// AddrFirst is the lowest address present
	AddrFirst uint32

	// AddrLast is the highest address present
	AddrLast uint32

	// SizeFull is the address span AddrLast-AddrFirst+1, gaps included
	SizeFull int64

	// SizeCode is the number of bytes actually present
	SizeCode int

	// Crc16 is the CRC-16/CCITT of all data bytes in address order
	Crc16 uint16

	// ResetVector is the value read by SetResetVector, nil if unresolved
	ResetVector *uint16

	// SizeBuffer is the caller supplied size hint
	SizeBuffer int

	// FilledFFAddr lists synthetic 0xFF addresses when gap filling was requested
	FilledFFAddr []uint32
}

// Firmware is an image: a sorted set of nodes with unique addresses and
// the Info derived from them. It is immutable after construction except
// for SetResetVector, which must not be called concurrently with readers.
type Firmware struct {
	nodes []Node
	info  Info
}

// New builds a Firmware from nodes in any order. A repeated address is an
// AddressConflict error. An empty node slice yields an empty Firmware.
//
// Example:
//
//	fw, err := firmware.New(nodes, firmware.IntelHex, firmware.WithFillFF(true))
func New(nodes []Node, format Format, opts ...Option) (*Firmware, error) {
	sorted, dup, ok := sortNodes(nodes)
	if !ok {
		return nil, newError(AddressConflict, format, 0, "address 0x%X defined more than once", dup)
	}
	return build(sorted, format, newConfig(opts)), nil
}

// sortNodes returns a sorted copy of nodes. ok is false, and dup holds
// the offending address, if an address repeats.
func sortNodes(nodes []Node) (sorted []Node, dup uint32, ok bool) {
	sorted = make([]Node, len(nodes))
	copy(sorted, nodes)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Addr < sorted[j].Addr })
	for i := 1; i < len(sorted); i++ {
		if sorted[i].Addr == sorted[i-1].Addr {
			return nil, sorted[i].Addr, false
		}
	}
	return sorted, 0, true
}

// build takes ownership of sorted and computes Info.
func build(sorted []Node, format Format, cfg Config) *Firmware {
	var filled []uint32
	if cfg.FillFF {
		sorted, filled = FillGaps(sorted)
		if filled == nil {
			filled = []uint32{}
		}
	}

	info := Info{
		Format:       format,
		SizeCode:     len(sorted),
		SizeBuffer:   cfg.SizeBuffer,
		FilledFFAddr: filled,
		Crc16:        checksum.CRC16CCITT(nil),
	}
	if len(sorted) > 0 {
		info.AddrFirst = sorted[0].Addr
		info.AddrLast = sorted[len(sorted)-1].Addr
		info.SizeFull = int64(info.AddrLast) - int64(info.AddrFirst) + 1
		info.Crc16 = checksum.CRC16CCITT(dataBytes(sorted))
	}
	return &Firmware{nodes: sorted, info: info}
}

func dataBytes(nodes []Node) []byte {
	b := make([]byte, len(nodes))
	for i, n := range nodes {
		b[i] = n.Data
	}
	return b
}

// Nodes returns a copy of the nodes sorted by address.
func (f *Firmware) Nodes() []Node {
	out := make([]Node, len(f.nodes))
	copy(out, f.nodes)
	return out
}

// Bytes returns the data bytes in address order.
func (f *Firmware) Bytes() []byte {
	return dataBytes(f.nodes)
}

// Len returns the number of nodes.
func (f *Firmware) Len() int {
	if f == nil {
		return 0
	}
	return len(f.nodes)
}

// Info returns the derived metadata.
func (f *Firmware) Info() Info {
	info := f.info
	if f.info.FilledFFAddr != nil {
		info.FilledFFAddr = append([]uint32{}, f.info.FilledFFAddr...)
	}
	if f.info.ResetVector != nil {
		rv := *f.info.ResetVector
		info.ResetVector = &rv
	}
	return info
}

// Format returns the format recorded in Info.
func (f *Firmware) Format() Format {
	return f.info.Format
}

// At returns the byte stored at addr.
func (f *Firmware) At(addr uint32) (byte, bool) {
	i := sort.Search(len(f.nodes), func(i int) bool { return f.nodes[i].Addr >= addr })
	if i < len(f.nodes) && f.nodes[i].Addr == addr {
		return f.nodes[i].Data, true
	}
	return 0, false
}

// SetResetVector resolves the reset vector stored big-endian at addr and
// addr+1: the byte at addr is the high byte. The nodes are scanned from
// the highest address down for a node at addr+1 directly preceded by a
// node at addr. If none is found the reset vector is cleared.
func (f *Firmware) SetResetVector(addr uint32) (uint16, bool) {
	f.info.ResetVector = nil
	if addr == ^uint32(0) {
		return 0, false
	}
	for j := len(f.nodes) - 1; j > 0; j-- {
		if f.nodes[j].Addr != addr+1 {
			continue
		}
		if f.nodes[j-1].Addr != addr {
			break
		}
		rv := uint16(f.nodes[j-1].Data)<<8 | uint16(f.nodes[j].Data)
		f.info.ResetVector = &rv
		return rv, true
	}
	return 0, false
}

// Equals reports whether f and o hold the same (address, data) pairs.
// A nil or empty firmware on either side is never equal.
func (f *Firmware) Equals(o *Firmware) bool {
	if f.Len() == 0 || o.Len() == 0 || len(f.nodes) != len(o.nodes) {
		return false
	}
	for i := range f.nodes {
		if f.nodes[i] != o.nodes[i] {
			return false
		}
	}
	return true
}

// Equal is the nil-tolerant form of Equals: two nil firmwares are equal.
func Equal(a, b *Firmware) bool {
	if a == nil && b == nil {
		return true
	}
	return a.Equals(b)
}
