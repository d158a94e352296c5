package firmware

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"strings"
)

// ELF identification and header constants.
const (
	elfClass32      = 1 // EI_CLASS: 32-bit objects
	elfDataLSB      = 1 // EI_DATA: little-endian
	elfTypeExec     = 2 // e_type: executable file
	elfSectProgbits = 1 // sh_type: program data
	elfProgLoad     = 1 // p_type: loadable segment

	elfIdentClass = 4
	elfIdentData  = 5

	// minimum entry sizes covering every field read below
	elfSectionFieldsSize = 24
	elfProgramFieldsSize = 32
)

// ELF32 header field offsets.
const (
	elfOffType      = 16
	elfOffEntry     = 24
	elfOffPhoff     = 28
	elfOffShoff     = 32
	elfOffPhentsize = 42
	elfOffPhnum     = 44
	elfOffShentsize = 46
	elfOffShnum     = 48
	elfOffShstrndx  = 50
)

// elfHeader holds the ELF32 header fields the decoder uses.
type elfHeader struct {
	Entry     uint32
	Phoff     uint32
	Shoff     uint32
	Phentsize uint16
	Phnum     uint16
	Shentsize uint16
	Shnum     uint16
	Shstrndx  uint16
}

type elfSection struct {
	Name   string
	Type   uint32
	Addr   uint32
	Offset uint32
	Size   uint32
}

type elfProgram struct {
	Type   uint32
	Offset uint32
	Paddr  uint32
	Filesz uint32
	Flags  uint32
	Align  uint32
}

// elfReader reads little-endian fields with bounds checking.
type elfReader struct {
	buf []byte
}

func (r elfReader) check(off uint64, size uint64, field string) error {
	if off+size > uint64(len(r.buf)) {
		return newError(MalformedRecord, Elf, 0, "truncated file: %s at offset 0x%X needs %d bytes, file has %d", field, off, size, len(r.buf))
	}
	return nil
}

func (r elfReader) u8(off uint64, field string) (byte, error) {
	if err := r.check(off, 1, field); err != nil {
		return 0, err
	}
	return r.buf[off], nil
}

func (r elfReader) u16(off uint64, field string) (uint16, error) {
	if err := r.check(off, 2, field); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(r.buf[off:]), nil
}

func (r elfReader) u32(off uint64, field string) (uint32, error) {
	if err := r.check(off, 4, field); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(r.buf[off:]), nil
}

// cstring reads a NUL terminated string starting at off.
func (r elfReader) cstring(off uint64, field string) (string, error) {
	if err := r.check(off, 0, field); err != nil {
		return "", err
	}
	end := bytes.IndexByte(r.buf[off:], 0)
	if end < 0 {
		return "", newError(MalformedRecord, Elf, 0, "unterminated %s at offset 0x%X", field, off)
	}
	return string(r.buf[off : off+uint64(end)]), nil
}

// ParseElf decodes a 32-bit little-endian executable ELF image. Every
// PT_LOAD program header with file contents contributes its bytes at the
// segment's physical address. Section headers are read for the trace
// only. Use WithTrace to receive a dump of the headers.
func ParseElf(data []byte, opts ...Option) (*Firmware, error) {
	cfg := newConfig(opts)
	r := elfReader{buf: data}

	hdr, err := readElfHeader(r)
	if err != nil {
		return nil, err
	}

	sections, err := readElfSections(r, hdr)
	if err != nil {
		return nil, err
	}

	programs, err := readElfPrograms(r, hdr)
	if err != nil {
		return nil, err
	}

	if cfg.Trace != nil {
		traceElf(cfg.Trace, hdr, sections, programs)
	}

	var nodes []Node
	for _, p := range programs {
		if p.Type != elfProgLoad || p.Filesz == 0 {
			continue
		}
		if err := r.check(uint64(p.Offset), uint64(p.Filesz), "segment data"); err != nil {
			return nil, err
		}
		if uint64(p.Paddr)+uint64(p.Filesz)-1 > maxAddress {
			return nil, newError(MalformedRecord, Elf, 0, "segment at 0x%X with %d bytes exceeds 32 bits", p.Paddr, p.Filesz)
		}
		for i := uint32(0); i < p.Filesz; i++ {
			nodes = append(nodes, Node{Addr: p.Paddr + i, Data: data[p.Offset+i]})
		}
	}

	return finish(nodes, Elf, cfg)
}

func readElfHeader(r elfReader) (elfHeader, error) {
	var hdr elfHeader

	if len(r.buf) < len(elfMagic) || !bytes.Equal(r.buf[:len(elfMagic)], elfMagic) {
		return hdr, newError(UnsupportedElfVariant, Elf, 0, "bad magic")
	}

	class, err := r.u8(elfIdentClass, "EI_CLASS")
	if err != nil {
		return hdr, err
	}
	if class != elfClass32 {
		return hdr, newError(UnsupportedElfVariant, Elf, 0, "only 32-bit ELF is supported")
	}

	order, err := r.u8(elfIdentData, "EI_DATA")
	if err != nil {
		return hdr, err
	}
	if order != elfDataLSB {
		return hdr, newError(UnsupportedElfVariant, Elf, 0, "only little-endian ELF is supported")
	}

	typ, err := r.u16(elfOffType, "e_type")
	if err != nil {
		return hdr, err
	}
	if typ != elfTypeExec {
		return hdr, newError(UnsupportedElfVariant, Elf, 0, "only executable ELF is supported")
	}

	fields32 := []struct {
		off  uint64
		name string
		dst  *uint32
	}{
		{elfOffEntry, "e_entry", &hdr.Entry},
		{elfOffPhoff, "e_phoff", &hdr.Phoff},
		{elfOffShoff, "e_shoff", &hdr.Shoff},
	}
	for _, f := range fields32 {
		if *f.dst, err = r.u32(f.off, f.name); err != nil {
			return hdr, err
		}
	}

	fields16 := []struct {
		off  uint64
		name string
		dst  *uint16
	}{
		{elfOffPhentsize, "e_phentsize", &hdr.Phentsize},
		{elfOffPhnum, "e_phnum", &hdr.Phnum},
		{elfOffShentsize, "e_shentsize", &hdr.Shentsize},
		{elfOffShnum, "e_shnum", &hdr.Shnum},
		{elfOffShstrndx, "e_shstrndx", &hdr.Shstrndx},
	}
	for _, f := range fields16 {
		if *f.dst, err = r.u16(f.off, f.name); err != nil {
			return hdr, err
		}
	}

	if hdr.Shnum > 0 && hdr.Shentsize < elfSectionFieldsSize {
		return hdr, newError(MalformedRecord, Elf, 0, "section header entry size %d too small", hdr.Shentsize)
	}
	if hdr.Phnum > 0 && hdr.Phentsize < elfProgramFieldsSize {
		return hdr, newError(MalformedRecord, Elf, 0, "program header entry size %d too small", hdr.Phentsize)
	}
	return hdr, nil
}

// readElfSections returns the non-debug PROGBITS sections with data.
func readElfSections(r elfReader, hdr elfHeader) ([]elfSection, error) {
	if hdr.Shnum == 0 {
		return nil, nil
	}
	if hdr.Shstrndx >= hdr.Shnum {
		return nil, newError(MalformedRecord, Elf, 0, "section name table index %d out of range (%d sections)", hdr.Shstrndx, hdr.Shnum)
	}

	entry := func(i uint16) uint64 {
		return uint64(hdr.Shoff) + uint64(i)*uint64(hdr.Shentsize)
	}

	strtab, err := r.u32(entry(hdr.Shstrndx)+16, "section name table sh_offset")
	if err != nil {
		return nil, err
	}

	var sections []elfSection
	for i := uint16(0); i < hdr.Shnum; i++ {
		base := entry(i)
		name, err := r.u32(base, "sh_name")
		if err != nil {
			return nil, err
		}
		var s elfSection
		if s.Type, err = r.u32(base+4, "sh_type"); err != nil {
			return nil, err
		}
		if s.Addr, err = r.u32(base+12, "sh_addr"); err != nil {
			return nil, err
		}
		if s.Offset, err = r.u32(base+16, "sh_offset"); err != nil {
			return nil, err
		}
		if s.Size, err = r.u32(base+20, "sh_size"); err != nil {
			return nil, err
		}
		if s.Name, err = r.cstring(uint64(strtab)+uint64(name), "section name"); err != nil {
			return nil, err
		}

		if s.Type == elfSectProgbits && s.Size > 0 && !strings.Contains(strings.ToLower(s.Name), "debug") {
			sections = append(sections, s)
		}
	}
	return sections, nil
}

func readElfPrograms(r elfReader, hdr elfHeader) ([]elfProgram, error) {
	programs := make([]elfProgram, 0, hdr.Phnum)
	for i := uint16(0); i < hdr.Phnum; i++ {
		base := uint64(hdr.Phoff) + uint64(i)*uint64(hdr.Phentsize)
		var (
			p   elfProgram
			err error
		)
		if p.Type, err = r.u32(base, "p_type"); err != nil {
			return nil, err
		}
		if p.Offset, err = r.u32(base+4, "p_offset"); err != nil {
			return nil, err
		}
		if p.Paddr, err = r.u32(base+12, "p_paddr"); err != nil {
			return nil, err
		}
		if p.Filesz, err = r.u32(base+16, "p_filesz"); err != nil {
			return nil, err
		}
		if p.Flags, err = r.u32(base+24, "p_flags"); err != nil {
			return nil, err
		}
		if p.Align, err = r.u32(base+28, "p_align"); err != nil {
			return nil, err
		}
		programs = append(programs, p)
	}
	return programs, nil
}

func traceElf(w io.Writer, hdr elfHeader, sections []elfSection, programs []elfProgram) {
	fmt.Fprintf(w, "ELF header:\n")
	fmt.Fprintf(w, "  entry:      0x%08X\n", hdr.Entry)
	fmt.Fprintf(w, "  phoff:      0x%08X\n", hdr.Phoff)
	fmt.Fprintf(w, "  shoff:      0x%08X\n", hdr.Shoff)
	fmt.Fprintf(w, "  phentsize:  %d\n", hdr.Phentsize)
	fmt.Fprintf(w, "  phnum:      %d\n", hdr.Phnum)
	fmt.Fprintf(w, "  shentsize:  %d\n", hdr.Shentsize)
	fmt.Fprintf(w, "  shnum:      %d\n", hdr.Shnum)
	fmt.Fprintf(w, "  shstrndx:   %d\n", hdr.Shstrndx)

	fmt.Fprintf(w, "Sections (%d):\n", len(sections))
	for _, s := range sections {
		fmt.Fprintf(w, "  %-20s addr=0x%08X offset=0x%08X size=%d\n", s.Name, s.Addr, s.Offset, s.Size)
	}

	fmt.Fprintf(w, "Program headers (%d):\n", len(programs))
	for _, p := range programs {
		fmt.Fprintf(w, "  type=%d offset=0x%08X paddr=0x%08X filesz=%d flags=0x%X align=%d\n",
			p.Type, p.Offset, p.Paddr, p.Filesz, p.Flags, p.Align)
	}
}
