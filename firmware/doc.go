// Package firmware decodes and encodes MCU firmware images.
//
// # Formats
//
// Four encodings are understood:
//
//   - TI-TXT: "@ADDR" headers followed by hex bytes, terminated by "q"
//   - Intel-HEX: ":" records with two's complement checksums
//   - Motorola SREC: S0 header, S1/S2/S3 data, S9/S8/S7 terminator
//   - ELF: 32-bit little-endian executables (decode only)
//
// Every decoder produces a *Firmware: the image as a sorted set of
// (address, byte) nodes with unique addresses, plus derived Info (address
// range, sizes, CRC-16/CCITT). Encoders turn a node set back into
// TI-TXT, Intel-HEX or SREC text.
//
// # Usage
//
// Parse a file, detecting its format:
//
//	fw, err := firmware.ParseFile("blink.txt", firmware.Auto)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	info := fw.Info()
//	fmt.Printf("0x%04X-0x%04X, %d bytes, CRC 0x%04X\n",
//	    info.AddrFirst, info.AddrLast, info.SizeCode, info.Crc16)
//
// Convert it to Intel-HEX with the default record length:
//
//	text, err := fw.Encode(firmware.IntelHex, 0)
//
// Fill address gaps with 0xFF while decoding:
//
//	fw, err := firmware.Decode(data, firmware.Auto, firmware.WithFillFF(true))
//
// # Error Handling
//
// All failures are returned as *Error with an ErrorKind. Use IsKind or
// errors.Is with the sentinels to classify them:
//
//	if firmware.IsKind(err, firmware.MalformedRecord) {
//	    // bad checksum, length, type ...
//	}
//
// Lower-level causes (I/O errors, hex decoding errors) are wrapped and
// reachable through errors.Unwrap.
package firmware
