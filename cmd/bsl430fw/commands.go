package main

import (
	"fmt"
	"io"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/parezj/go-bsl430/firmware"
)

// Command flags
var (
	formatName string
	fillFF     bool
	outputPath string
)

func init() {
	convertCmd.Flags().StringVarP(&formatName, "format", "f", "", "Output format: titxt, hex, srec (default from --output extension, else titxt)")
	convertCmd.Flags().BoolVar(&fillFF, "fill-ff", false, "Fill address gaps with 0xFF")
	convertCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file (default stdout)")

	combineCmd.Flags().StringVarP(&formatName, "format", "f", "", "Output format: titxt, hex, srec (default from --output extension, else titxt)")
	combineCmd.Flags().BoolVar(&fillFF, "fill-ff", false, "Fill the gap between the images with 0xFF")
	combineCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file (default stdout)")

	infoCmd.Flags().StringVarP(&formatName, "format", "f", "", "Input format: auto, titxt, hex, srec, elf (default auto)")
	infoCmd.Flags().BoolVar(&fillFF, "fill-ff", false, "Fill address gaps with 0xFF before computing the CRC")

	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(combineCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(passwordCmd)
	rootCmd.AddCommand(infoCmd)
}

var convertCmd = &cobra.Command{
	Use:   "convert <input>",
	Short: "Convert a firmware file to another format",
	Example: `  # ELF to Intel-HEX
  bsl430fw convert app.out -o app.hex

  # Intel-HEX to TI-TXT on stdout, 32 bytes per line
  bsl430fw convert app.hex -f titxt -l 32`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func runConvert(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	target, err := outputFormat(formatName, outputPath)
	if err != nil {
		return err
	}

	text, src, err := newTools().ConvertTo(args[0], target, fillFF, lineLength)
	if err != nil {
		return err
	}

	log.WithFields(log.Fields{"from": formatLabel(src), "to": formatLabel(target)}).Info("converted")
	return writeOutput(cmd.OutOrStdout(), text)
}

var combineCmd = &cobra.Command{
	Use:   "combine <input1> <input2>",
	Short: "Merge two firmware files with disjoint address ranges",
	Example: `  # Bootloader and application into one SREC file
  bsl430fw combine boot.txt app.hex -o full.s19

  # Monolithic image with the gap filled
  bsl430fw combine boot.txt app.hex --fill-ff -f hex`,
	Args: cobra.ExactArgs(2),
	RunE: runCombine,
}

func runCombine(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	target, err := outputFormat(formatName, outputPath)
	if err != nil {
		return err
	}

	text, f1, f2, err := newTools().Combine(args[0], args[1], target, fillFF, lineLength)
	if err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"first":  formatLabel(f1),
		"second": formatLabel(f2),
		"to":     formatLabel(target),
	}).Info("combined")
	return writeOutput(cmd.OutOrStdout(), text)
}

var compareCmd = &cobra.Command{
	Use:   "compare <input1> <input2>",
	Short: "Compare the contents of two firmware files",
	Long: `Compare two firmware files byte by byte. Both files are gap filled with
0xFF, so images differing only in the encoding of erased memory compare
equal.`,
	Args: cobra.ExactArgs(2),
	RunE: runCompare,
}

func runCompare(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	c, err := newTools().CompareFiles(args[0], args[1])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Equal:      %v\n", c.Equal)
	fmt.Fprintf(out, "Match:      %.2f%%\n", c.Match*100)
	fmt.Fprintf(out, "Bytes diff: %d\n", c.BytesDiff)
	if !c.Equal {
		return fmt.Errorf("files differ")
	}
	return nil
}

var validateCmd = &cobra.Command{
	Use:   "validate <input>",
	Short: "Parse a firmware file and print its reset vector",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	info, err := newTools().Validate(args[0])
	if err != nil {
		return err
	}

	printInfo(cmd.OutOrStdout(), info)
	return nil
}

var passwordCmd = &cobra.Command{
	Use:   "password <input>",
	Short: "Print the BSL password stored in the interrupt vector table",
	Args:  cobra.ExactArgs(1),
	RunE:  runPassword,
}

func runPassword(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	pw, ok, err := newTools().GetPassword(args[0])
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%s does not cover the interrupt vector table 0xFFE0-0xFFFF", args[0])
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "32 byte: % X\n", pw.Password32Byte)
	fmt.Fprintf(out, "20 byte: % X\n", pw.Password20Byte)
	fmt.Fprintf(out, "16 byte: % X\n", pw.Password16Byte)
	if pw.IsErased() {
		fmt.Fprintln(out, "(erased device password)")
	}
	return nil
}

var infoCmd = &cobra.Command{
	Use:   "info <input>",
	Short: "Print address range, size and CRC of a firmware file",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func runInfo(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	format, err := firmware.ParseFormat(formatName)
	if err != nil {
		return err
	}

	fw, err := newTools().Parse(args[0], format, fillFF)
	if err != nil {
		return err
	}

	info := fw.Info()
	if ext, ok := formatFromExtension(args[0]); ok && ext != info.Format {
		log.WithFields(log.Fields{"extension": formatLabel(ext), "content": formatLabel(info.Format)}).
			Warn("file extension does not match contents")
	}

	printInfo(cmd.OutOrStdout(), info)
	return nil
}

func printInfo(w io.Writer, info firmware.Info) {
	fmt.Fprintf(w, "Format:       %s\n", formatLabel(info.Format))
	fmt.Fprintf(w, "Address:      0x%X - 0x%X\n", info.AddrFirst, info.AddrLast)
	fmt.Fprintf(w, "Size (full):  %d\n", info.SizeFull)
	fmt.Fprintf(w, "Size (code):  %d\n", info.SizeCode)
	fmt.Fprintf(w, "CRC16:        0x%04X\n", info.Crc16)
	if info.ResetVector != nil {
		fmt.Fprintf(w, "Reset vector: 0x%04X\n", *info.ResetVector)
	}
	if info.FilledFFAddr != nil {
		fmt.Fprintf(w, "Filled 0xFF:  %d\n", len(info.FilledFFAddr))
	}
}

// writeOutput writes text to --output, or to stdout when unset.
func writeOutput(stdout io.Writer, text string) error {
	if outputPath == "" {
		_, err := io.WriteString(stdout, text)
		return err
	}
	if err := os.WriteFile(outputPath, []byte(text), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", outputPath, err)
	}
	log.WithField("path", outputPath).Info("written")
	return nil
}
