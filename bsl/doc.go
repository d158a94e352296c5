// Package bsl holds the MSP430 bootstrap loader (BSL) values derived from
// a firmware image.
//
// # Password
//
// The BSL password is the content of the interrupt vector table,
// 0xFFE0-0xFFFF. Depending on the device family the loader expects all 32
// bytes, the first 20 or the last 16:
//
//	0xFFE0                 0xFFF0          0xFFFF
//	|<------------- 32 bytes ------------->|
//	|<------ 20 bytes ------>|
//	                |<------- 16 bytes --->|
//
// Extract the password from a parsed image:
//
//	fw, err := firmware.ParseFile("app.txt", firmware.Auto, firmware.WithFillFF(true))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	pw, ok := bsl.ExtractPasswords(fw)
//	if !ok {
//	    log.Fatal("image does not cover the interrupt vector table")
//	}
//	fmt.Printf("% X\n", pw.Password32Byte)
package bsl
