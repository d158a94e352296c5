// Package checksum implements the integrity checks used by the firmware
// file formats handled by this module.
//
// # Algorithms
//
//   - CRC16CCITT: CRC-16/CCITT (polynomial 0x1021, initial value 0xFFFF,
//     no final XOR), computed with a 256-entry lookup table. This is the
//     value reported as the image CRC and the one MSP430 BSL devices return
//     for a memory range.
//   - IntelHex: 8-bit two's complement of the record byte sum.
//   - Srec: 8-bit one's complement of the record byte sum.
//
// All functions are pure and safe for concurrent use.
package checksum
