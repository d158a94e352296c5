package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/parezj/go-bsl430/firmware"
)

// formatLabels are the display names of each format.
var formatLabels = map[firmware.Format]string{
	firmware.Auto:     "Auto-detect",
	firmware.TiTxt:    "TI-TXT",
	firmware.IntelHex: "Intel-HEX",
	firmware.Srec:     "Motorola S-record",
	firmware.Elf:      "ELF32",
}

// formatExtensions maps conventional file extensions to formats.
var formatExtensions = map[string]firmware.Format{
	".txt":  firmware.TiTxt,
	".hex":  firmware.IntelHex,
	".srec": firmware.Srec,
	".s19":  firmware.Srec,
	".s":    firmware.Srec,
	".out":  firmware.Elf,
	".elf":  firmware.Elf,
}

func formatLabel(f firmware.Format) string {
	if label, ok := formatLabels[f]; ok {
		return label
	}
	return f.String()
}

// formatFromExtension returns the format conventionally stored in files
// named like path.
func formatFromExtension(path string) (firmware.Format, bool) {
	f, ok := formatExtensions[strings.ToLower(filepath.Ext(path))]
	return f, ok
}

// outputFormat resolves the target format of a write: an explicit name
// wins, then the output file extension, then TI-TXT.
func outputFormat(name, output string) (firmware.Format, error) {
	if name != "" {
		return firmware.ParseFormat(name)
	}
	if output != "" {
		if f, ok := formatFromExtension(output); ok {
			if !f.Writable() {
				return f, fmt.Errorf("cannot write %s files (%s)", formatLabel(f), output)
			}
			return f, nil
		}
	}
	return firmware.TiTxt, nil
}
