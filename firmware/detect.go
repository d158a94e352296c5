package firmware

import "bytes"

// elfMagic is the ELF identification signature.
var elfMagic = []byte{0x7F, 'E', 'L', 'F'}

// Detect classifies data by signature. The checks run in a fixed order:
// ELF magic, then any '@' (TI-TXT), then any 'S' (SREC), then any ':'
// (Intel-HEX). The order is relied upon by existing tooling and a file
// that incidentally contains one of these characters can be misclassified.
func Detect(data []byte) (Format, error) {
	switch {
	case bytes.HasPrefix(data, elfMagic):
		return Elf, nil
	case bytes.IndexByte(data, '@') >= 0:
		return TiTxt, nil
	case bytes.IndexByte(data, 'S') >= 0:
		return Srec, nil
	case bytes.IndexByte(data, ':') >= 0:
		return IntelHex, nil
	}
	return Auto, newError(AutoDetectFailure, Auto, 0, "no ELF, TI-TXT, SREC or Intel-HEX signature found")
}
