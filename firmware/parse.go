package firmware

import (
	"os"

	"github.com/pkg/errors"
)

// ParseFile reads the file at path and decodes it as format. Auto detects
// the format from the file contents.
//
// Example:
//
//	fw, err := firmware.ParseFile("blink.hex", firmware.Auto)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("%s, %d bytes, CRC 0x%04X\n", fw.Format(), fw.Len(), fw.Info().Crc16)
func ParseFile(path string, format Format, opts ...Option) (*Firmware, error) {
	data, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(data, format, opts...)
}

// ReadFile reads a whole firmware file, classifying failures as
// FileNotFound or ReadFailure.
func ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, wrapError(FileNotFound, Auto, err, "open %s", path)
		}
		return nil, wrapError(ReadFailure, Auto, err, "read %s", path)
	}
	return data, nil
}

// Decode decodes data as format. Auto detects the format with Detect.
func Decode(data []byte, format Format, opts ...Option) (*Firmware, error) {
	if format == Auto {
		detected, err := Detect(data)
		if err != nil {
			return nil, err
		}
		format = detected
	}

	switch format {
	case TiTxt:
		return ParseTiTxt(data, opts...)
	case IntelHex:
		return ParseIntelHex(data, opts...)
	case Srec:
		return ParseSrec(data, opts...)
	case Elf:
		return ParseElf(data, opts...)
	}
	return nil, &Error{Kind: MalformedRecord, Err: errors.Errorf("unknown format %s", format)}
}

// finish validates decoded nodes and builds the Firmware.
func finish(nodes []Node, format Format, cfg Config) (*Firmware, error) {
	if len(nodes) == 0 {
		return nil, newError(EmptyInput, format, 0, "no data records found")
	}
	sorted, dup, ok := sortNodes(nodes)
	if !ok {
		return nil, newError(MalformedRecord, format, 0, "address 0x%X defined more than once", dup)
	}
	return build(sorted, format, cfg), nil
}
