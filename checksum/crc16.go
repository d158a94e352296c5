package checksum

// CRC-16/CCITT parameters.
const (
	// CRC16Polynomial is the CRC-16-CCITT polynomial (0x1021)
	CRC16Polynomial = 0x1021

	// CRC16InitialValue is the CRC-16 initial value
	CRC16InitialValue = 0xFFFF

	// CRC16HighBitMask is the high bit mask used while building the table
	CRC16HighBitMask = 0x8000

	// BitsPerByte is the number of bits per byte
	BitsPerByte = 8
)

var crc16Table = makeCRC16Table(CRC16Polynomial)

// makeCRC16Table builds the MSB-first lookup table for poly.
func makeCRC16Table(poly uint16) *[256]uint16 {
	t := new([256]uint16)
	for i := range t {
		crc := uint16(i) << BitsPerByte
		for b := 0; b < BitsPerByte; b++ {
			if crc&CRC16HighBitMask != 0 {
				crc = (crc << 1) ^ poly
			} else {
				crc <<= 1
			}
		}
		t[i] = crc
	}
	return t
}

// CRC16CCITT computes the CRC-16/CCITT of data.
// The CRC of an empty slice is CRC16InitialValue.
func CRC16CCITT(data []byte) uint16 {
	return UpdateCRC16(CRC16InitialValue, data)
}

// UpdateCRC16 continues a CRC-16/CCITT computation from crc over data.
func UpdateCRC16(crc uint16, data []byte) uint16 {
	for _, b := range data {
		crc = (crc << BitsPerByte) ^ crc16Table[byte(crc>>BitsPerByte)^b]
	}
	return crc
}
