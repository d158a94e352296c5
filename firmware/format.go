package firmware

import (
	"fmt"
	"strings"
)

// Format identifies a firmware file encoding.
type Format int

// Supported formats. Auto requests signature detection when decoding and
// is an alias for TiTxt when encoding.
const (
	Auto Format = iota
	TiTxt
	IntelHex
	Srec
	Elf
)

// Default data bytes per output record.
const (
	DefaultTiTxtLineLength    = 16
	DefaultIntelHexLineLength = 32
	DefaultSrecLineLength     = 32
)

var formatNames = [...]string{
	Auto:     "AUTO",
	TiTxt:    "TI_TXT",
	IntelHex: "INTEL_HEX",
	Srec:     "SREC",
	Elf:      "ELF",
}

func (f Format) String() string {
	if f < 0 || int(f) >= len(formatNames) {
		return fmt.Sprintf("Format(%d)", int(f))
	}
	return formatNames[f]
}

// ParseFormat converts a user supplied format name into a Format.
// Matching is case-insensitive and ignores '-' and '_'.
func ParseFormat(name string) (Format, error) {
	key := strings.ToLower(strings.NewReplacer("-", "", "_", "").Replace(strings.TrimSpace(name)))
	switch key {
	case "", "auto":
		return Auto, nil
	case "titxt", "ti", "txt":
		return TiTxt, nil
	case "intelhex", "ihex", "hex":
		return IntelHex, nil
	case "srec", "s19", "s", "motorola":
		return Srec, nil
	case "elf", "out":
		return Elf, nil
	}
	return Auto, fmt.Errorf("unknown firmware format %q", name)
}

// encodeTarget resolves Auto to the format used for encoding.
func (f Format) encodeTarget() Format {
	if f == Auto {
		return TiTxt
	}
	return f
}

// DefaultLineLength returns the number of data bytes per record used when
// the caller passes a line length of 0.
func (f Format) DefaultLineLength() int {
	switch f.encodeTarget() {
	case TiTxt:
		return DefaultTiTxtLineLength
	case IntelHex:
		return DefaultIntelHexLineLength
	case Srec:
		return DefaultSrecLineLength
	}
	return 0
}

// Writable reports whether f can be used as an encode target.
func (f Format) Writable() bool {
	switch f.encodeTarget() {
	case TiTxt, IntelHex, Srec:
		return true
	}
	return false
}
