package bsl

// Interrupt vector table layout.
const (
	// IVTStart is the first address of the interrupt vector table
	IVTStart = 0xFFE0

	// IVTEnd is the last address of the interrupt vector table
	IVTEnd = 0xFFFF

	// ResetVectorAddr holds the reset vector (two bytes, high byte first
	// as read by the firmware tools)
	ResetVectorAddr = 0xFFFE
)

// Password sizes in bytes.
const (
	// PasswordSize32 is the full IVT password
	PasswordSize32 = 32

	// PasswordSize20 is the 20-byte password taken from the IVT start
	PasswordSize20 = 20

	// PasswordSize16 is the 16-byte password taken from the IVT end
	PasswordSize16 = 16
)

// ErasedByte is the value of every IVT byte after a mass erase.
const ErasedByte = 0xFF
