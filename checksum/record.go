package checksum

func sum(data []byte) byte {
	var s byte
	for _, b := range data {
		s += b
	}
	return s
}

// IntelHex computes the Intel-HEX record checksum over the byte count,
// address, record type and data bytes. The returned byte makes the sum of
// the whole record, checksum included, equal to zero modulo 256.
func IntelHex(record []byte) byte {
	// Return 2's complement: invert and add 1
	return ^sum(record) + 1
}

// Srec computes the Motorola S-record checksum over the byte count,
// address and data bytes.
func Srec(record []byte) byte {
	return ^sum(record)
}
