package fwtools

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/parezj/go-bsl430/bsl"
	"github.com/parezj/go-bsl430/firmware"
)

// Tools runs firmware file operations: parse, create, convert, combine,
// compare, validate and password extraction.
//
// Tools holds only configuration and is safe for concurrent use.
type Tools struct {
	config Config
}

// New creates Tools with the given options.
//
// Example:
//
//	tools := fwtools.New(
//	    fwtools.WithLogger(fwtools.NewLogrusLogger(logrus.New())),
//	    fwtools.WithLineLength(32),
//	)
func New(opts ...Option) *Tools {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Tools{
		config: cfg,
	}
}

// Comparison is the result of Compare.
type Comparison struct {
	// Equal is true when both images hold the same (address, byte) pairs
	Equal bool

	// Match is the shared pair count divided by the larger image's size
	Match float64

	// BytesDiff is the larger image's size minus the shared pair count,
	// -1 when the images are not comparable
	BytesDiff int
}

// notComparable is returned when either side is nil or empty.
var notComparable = Comparison{Equal: false, Match: 0, BytesDiff: -1}

// Parse decodes the file at path. firmware.Auto detects the format.
//
// Example:
//
//	fw, err := tools.Parse("app.hex", firmware.Auto, false)
func (t *Tools) Parse(path string, format firmware.Format, fillFF bool) (*firmware.Firmware, error) {
	fw, err := firmware.ParseFile(path, format,
		firmware.WithFillFF(fillFF),
		firmware.WithSizeBuffer(t.config.SizeBuffer),
		firmware.WithTrace(t.config.Trace),
	)
	if err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}

	info := fw.Info()
	t.logDebug("parsed firmware",
		"path", path,
		"format", info.Format.String(),
		"addr_first", fmt.Sprintf("0x%X", info.AddrFirst),
		"addr_last", fmt.Sprintf("0x%X", info.AddrLast),
		"size_code", info.SizeCode,
		"filled", len(info.FilledFFAddr),
		"crc16", fmt.Sprintf("0x%04X", info.Crc16),
	)
	return fw, nil
}

// Create encodes nodes as format. firmware.Auto encodes TI-TXT and
// lineLength 0 uses the configured or format default.
func (t *Tools) Create(nodes []firmware.Node, format firmware.Format, lineLength int) (string, error) {
	lineLength = t.lineLength(lineLength)
	text, err := firmware.Encode(nodes, format, lineLength)
	if err != nil {
		return "", err
	}

	t.logDebug("created firmware",
		"format", format.String(),
		"nodes", len(nodes),
		"line_length", lineLength,
		"chars", len(text),
	)
	return text, nil
}

// CreateFromFirmware encodes fw as format.
func (t *Tools) CreateFromFirmware(fw *firmware.Firmware, format firmware.Format, lineLength int) (string, error) {
	if fw == nil {
		return "", &firmware.Error{Kind: firmware.EmptyInput, Msg: "firmware cannot be nil"}
	}
	return t.Create(fw.Nodes(), format, lineLength)
}

// CreateFromBytes encodes data read from a device starting at address
// start.
//
// Example:
//
//	text, err := tools.CreateFromBytes(dump, 0x8000, firmware.IntelHex, 0)
func (t *Tools) CreateFromBytes(data []byte, start uint32, format firmware.Format, lineLength int) (string, error) {
	return t.Create(firmware.NodesFromBytes(data, start), format, lineLength)
}

// ConvertTo parses the file at path with format detection and encodes it
// as format. It returns the text and the detected source format.
//
// Example:
//
//	text, src, err := tools.ConvertTo("app.out", firmware.IntelHex, false, 0)
func (t *Tools) ConvertTo(path string, format firmware.Format, fillFF bool, lineLength int) (string, firmware.Format, error) {
	t.reportProgress(Progress{Phase: PhaseParsing, Path: path})

	fw, err := t.Parse(path, firmware.Auto, fillFF)
	if err != nil {
		return "", firmware.Auto, err
	}

	t.reportProgress(Progress{Phase: PhaseEncoding, Nodes: fw.Len()})

	text, err := t.CreateFromFirmware(fw, format, lineLength)
	if err != nil {
		return "", fw.Format(), err
	}

	t.reportProgress(Progress{Phase: PhaseComplete, Nodes: fw.Len()})
	return text, fw.Format(), nil
}

// Combine merges the images at path1 and path2 and encodes the result as
// format. An address present in both files is an AddressConflict error.
// With fillFF the merged image is gap filled, so two disjoint images
// become one monolithic block. It returns the text and the detected
// source format of each file.
func (t *Tools) Combine(path1, path2 string, format firmware.Format, fillFF bool, lineLength int) (string, firmware.Format, firmware.Format, error) {
	t.reportProgress(Progress{Phase: PhaseParsing, Path: path1})
	fw1, err := t.Parse(path1, firmware.Auto, false)
	if err != nil {
		return "", firmware.Auto, firmware.Auto, err
	}

	t.reportProgress(Progress{Phase: PhaseParsing, Path: path2})
	fw2, err := t.Parse(path2, firmware.Auto, false)
	if err != nil {
		return "", fw1.Format(), firmware.Auto, err
	}

	t.reportProgress(Progress{Phase: PhaseMerging, Nodes: fw1.Len() + fw2.Len()})

	merged, err := t.merge(fw1, fw2, format, fillFF)
	if err != nil {
		return "", fw1.Format(), fw2.Format(), err
	}

	t.reportProgress(Progress{Phase: PhaseEncoding, Nodes: merged.Len()})

	text, err := t.CreateFromFirmware(merged, format, lineLength)
	if err != nil {
		return "", fw1.Format(), fw2.Format(), err
	}

	t.logDebug("combined firmware",
		"first", path1,
		"second", path2,
		"nodes", merged.Len(),
		"filled", len(merged.Info().FilledFFAddr),
		"crc16", fmt.Sprintf("0x%04X", merged.Info().Crc16),
	)

	t.reportProgress(Progress{Phase: PhaseComplete, Nodes: merged.Len()})
	return text, fw1.Format(), fw2.Format(), nil
}

// merge joins two images whose address sets must be disjoint.
func (t *Tools) merge(fw1, fw2 *firmware.Firmware, format firmware.Format, fillFF bool) (*firmware.Firmware, error) {
	a, b := fw1.Nodes(), fw2.Nodes()
	nodes := make([]firmware.Node, 0, len(a)+len(b))

	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i].Addr < b[j].Addr:
			nodes = append(nodes, a[i])
			i++
		case a[i].Addr > b[j].Addr:
			nodes = append(nodes, b[j])
			j++
		default:
			return nil, &firmware.Error{
				Kind:   firmware.AddressConflict,
				Format: format,
				Msg:    fmt.Sprintf("address 0x%X is present in both files", a[i].Addr),
			}
		}
	}
	nodes = append(nodes, a[i:]...)
	nodes = append(nodes, b[j:]...)

	return firmware.New(nodes, format,
		firmware.WithFillFF(fillFF),
		firmware.WithSizeBuffer(t.config.SizeBuffer),
	)
}

// Compare measures how many (address, byte) pairs fw1 and fw2 share. If
// either is nil or empty the result is {false, 0, -1}.
//
// Example:
//
//	c := tools.Compare(fw1, fw2)
//	fmt.Printf("equal=%v match=%.1f%% diff=%d\n", c.Equal, c.Match*100, c.BytesDiff)
func (t *Tools) Compare(fw1, fw2 *firmware.Firmware) Comparison {
	if fw1.Len() == 0 || fw2.Len() == 0 {
		return notComparable
	}

	a, b := fw1.Nodes(), fw2.Nodes()
	common := 0
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i].Addr < b[j].Addr:
			i++
		case a[i].Addr > b[j].Addr:
			j++
		default:
			if a[i].Data == b[j].Data {
				common++
			}
			i++
			j++
		}
	}

	larger := len(a)
	if len(b) > larger {
		larger = len(b)
	}
	diff := larger - common

	c := Comparison{
		Equal:     diff == 0,
		Match:     float64(common) / float64(larger),
		BytesDiff: diff,
	}

	t.logDebug("compared firmware",
		"nodes1", len(a),
		"nodes2", len(b),
		"common", common,
		"bytes_diff", diff,
	)
	return c
}

// CompareFiles parses both files with format detection and gap filling,
// then compares them.
func (t *Tools) CompareFiles(path1, path2 string) (Comparison, error) {
	fw1, err := t.Parse(path1, firmware.Auto, true)
	if err != nil {
		return notComparable, err
	}
	fw2, err := t.Parse(path2, firmware.Auto, true)
	if err != nil {
		return notComparable, err
	}
	return t.Compare(fw1, fw2), nil
}

// Validate parses the file at path with format detection, resolves the
// reset vector at 0xFFFE and returns the image's Info.
//
// Example:
//
//	info, err := tools.Validate("app.txt")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if info.ResetVector != nil {
//	    fmt.Printf("reset vector 0x%04X\n", *info.ResetVector)
//	}
func (t *Tools) Validate(path string) (firmware.Info, error) {
	fw, err := t.Parse(path, firmware.Auto, false)
	if err != nil {
		return firmware.Info{}, err
	}

	if rv, ok := fw.SetResetVector(bsl.ResetVectorAddr); ok {
		t.logDebug("reset vector", "value", fmt.Sprintf("0x%04X", rv))
	} else {
		t.logInfo("reset vector not found", "path", path, "addr", fmt.Sprintf("0x%04X", bsl.ResetVectorAddr))
	}
	return fw.Info(), nil
}

// GetPassword parses the file at path with gap filling and extracts the
// BSL password. ok is false if the image does not cover all of
// 0xFFE0-0xFFFF.
//
// Example:
//
//	pw, ok, err := tools.GetPassword("app.hex")
func (t *Tools) GetPassword(path string) (bsl.Passwords, bool, error) {
	fw, err := t.Parse(path, firmware.Auto, true)
	if err != nil {
		return bsl.Passwords{}, false, err
	}

	pw, ok := bsl.ExtractPasswords(fw)
	if !ok {
		t.logInfo("password not found", "path", path)
		return bsl.Passwords{}, false, nil
	}

	t.logDebug("password extracted", "path", path, "erased", pw.IsErased())
	return pw, true, nil
}

// lineLength resolves a zero lineLength to the configured default.
func (t *Tools) lineLength(n int) int {
	if n == 0 {
		return t.config.LineLength
	}
	return n
}

// reportProgress calls the progress callback if configured.
func (t *Tools) reportProgress(progress Progress) {
	if t.config.ProgressCallback != nil {
		t.config.ProgressCallback(progress)
	}
}

// logDebug logs a debug message if a logger is configured.
func (t *Tools) logDebug(msg string, keysAndValues ...interface{}) {
	if t.config.Logger != nil {
		t.config.Logger.Debug(msg, keysAndValues...)
	}
}

// logInfo logs an info message if a logger is configured.
func (t *Tools) logInfo(msg string, keysAndValues ...interface{}) {
	if t.config.Logger != nil {
		t.config.Logger.Info(msg, keysAndValues...)
	}
}
