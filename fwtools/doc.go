// Package fwtools provides file level firmware operations built on the
// firmware and bsl packages.
//
// # Overview
//
// Tools composes decoding, encoding, gap filling, merging, comparison
// and password extraction:
//   - Parse a TI-TXT, Intel-HEX, SREC or ELF file, detecting the format
//   - Create TI-TXT, Intel-HEX or SREC text from nodes, an image or a
//     device memory read
//   - Convert a file to another format
//   - Combine two files whose address ranges do not overlap
//   - Compare two images byte by byte
//   - Validate a file and resolve its reset vector
//   - Extract the BSL password from the interrupt vector table
//
// # Basic Usage
//
//	tools := fwtools.New()
//
//	text, src, err := tools.ConvertTo("app.out", firmware.IntelHex, false, 0)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("converted %s to Intel-HEX\n", src)
//	os.WriteFile("app.hex", []byte(text), 0o644)
//
// # Configuration Options
//
//	tools := fwtools.New(
//	    fwtools.WithLogger(fwtools.NewLogrusLogger(logrus.New())),
//	    fwtools.WithLineLength(16),
//	    fwtools.WithTrace(os.Stderr),
//	    fwtools.WithSizeBuffer(64*1024),
//	    fwtools.WithProgressCallback(progressFunc),
//	)
//
// # Logging
//
// Any logger implementing Logger can be plugged in. Operations log at
// debug level on success; failures are returned, never logged.
//
// # Error Handling
//
// Errors from decoding and encoding are *firmware.Error values, wrapped
// with the file path where one is involved:
//
//	_, _, _, err := tools.Combine("boot.hex", "app.hex", firmware.IntelHex, true, 0)
//	if firmware.IsKind(err, firmware.AddressConflict) {
//	    log.Fatal("images overlap")
//	}
//
// # Thread Safety
//
// Tools holds only configuration and may be shared between goroutines.
package fwtools
