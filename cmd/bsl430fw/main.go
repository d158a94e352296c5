// Command bsl430fw converts, combines, compares and inspects MSP430
// firmware files in TI-TXT, Intel-HEX, SREC and ELF formats.
package main

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/parezj/go-bsl430/fwtools"
)

// Global flags
var (
	verbose    bool
	trace      bool
	lineLength int
)

var rootCmd = &cobra.Command{
	Use:   "bsl430fw",
	Short: "MSP430 firmware file tool",
	Long: `bsl430fw reads TI-TXT, Intel-HEX, Motorola SREC and ELF32 firmware
images and writes TI-TXT, Intel-HEX or SREC.

Input formats are detected from the file contents. Output formats are
taken from --format, or from the --output file extension.`,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&trace, "trace", false, "Dump ELF headers to stderr while parsing")
	rootCmd.PersistentFlags().IntVarP(&lineLength, "line-length", "l", 0, "Bytes per output record (0 = format default)")
}

func setupLogging() {
	log.SetOutput(os.Stderr)
	log.SetFormatter(&log.TextFormatter{DisableTimestamp: true})
	if verbose {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.WarnLevel)
	}
}

// newTools creates the facade with the global flags applied.
func newTools() *fwtools.Tools {
	opts := []fwtools.Option{
		fwtools.WithLogger(fwtools.NewLogrusLogger(log.StandardLogger())),
		fwtools.WithLineLength(lineLength),
	}
	if trace {
		opts = append(opts, fwtools.WithTrace(os.Stderr))
	}
	return fwtools.New(opts...)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}
