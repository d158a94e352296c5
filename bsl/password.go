package bsl

import (
	"bytes"

	"github.com/parezj/go-bsl430/firmware"
)

// Passwords holds the three password forms read from the IVT.
type Passwords struct {
	// Password32Byte is the full 32-byte IVT content
	Password32Byte []byte

	// Password20Byte is Password32Byte[0:20]
	Password20Byte []byte

	// Password16Byte is Password32Byte[16:32]
	Password16Byte []byte
}

// NewPasswords derives the three password forms from a 32-byte IVT image.
// It returns false if ivt is not exactly 32 bytes long.
func NewPasswords(ivt []byte) (Passwords, bool) {
	if len(ivt) != PasswordSize32 {
		return Passwords{}, false
	}
	full := append([]byte(nil), ivt...)
	return Passwords{
		Password32Byte: full,
		Password20Byte: full[:PasswordSize20:PasswordSize20],
		Password16Byte: full[PasswordSize32-PasswordSize16:],
	}, true
}

// ErasedPasswords returns the password of a mass-erased device.
func ErasedPasswords() Passwords {
	pw, _ := NewPasswords(bytes.Repeat([]byte{ErasedByte}, PasswordSize32))
	return pw
}

// ExtractPasswords reads the password from fw. All 32 addresses
// 0xFFE0-0xFFFF must be present; ok is false otherwise.
func ExtractPasswords(fw *firmware.Firmware) (Passwords, bool) {
	if fw.Len() == 0 {
		return Passwords{}, false
	}

	ivt := make([]byte, 0, PasswordSize32)
	for _, n := range fw.Nodes() {
		if n.Addr < IVTStart || n.Addr > IVTEnd {
			continue
		}
		if n.Addr != IVTStart+uint32(len(ivt)) {
			return Passwords{}, false
		}
		ivt = append(ivt, n.Data)
	}
	return NewPasswords(ivt)
}

// IsErased reports whether every password byte is ErasedByte.
func (p Passwords) IsErased() bool {
	return len(p.Password32Byte) == PasswordSize32 &&
		bytes.Count(p.Password32Byte, []byte{ErasedByte}) == PasswordSize32
}
