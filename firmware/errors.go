package firmware

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// ErrorKind classifies decode and encode failures.
type ErrorKind int

const (
	// FileNotFound indicates the input path does not exist.
	FileNotFound ErrorKind = iota + 1
	// ReadFailure indicates an I/O error while reading the input.
	ReadFailure
	// AutoDetectFailure indicates no known format signature was found.
	AutoDetectFailure
	// MalformedRecord indicates a checksum, length, type or consistency violation.
	MalformedRecord
	// UnsupportedOutputFormat indicates an encode target that cannot be written.
	UnsupportedOutputFormat
	// UnsupportedElfVariant indicates a bad magic, bit width, endianness or file type.
	UnsupportedElfVariant
	// EmptyInput indicates there is no data to decode or encode.
	EmptyInput
	// AddressConflict indicates two images define the same address.
	AddressConflict
	// EncodeFailure indicates the encoded output could not be written.
	EncodeFailure
)

var kindMessages = map[ErrorKind]string{
	FileNotFound:            "file not found",
	ReadFailure:             "failed to read file",
	AutoDetectFailure:       "unable to detect firmware format",
	MalformedRecord:         "malformed record",
	UnsupportedOutputFormat: "unsupported output format",
	UnsupportedElfVariant:   "unsupported ELF variant",
	EmptyInput:              "empty input",
	AddressConflict:         "address conflict",
	EncodeFailure:           "encode failure",
}

func (k ErrorKind) String() string {
	if msg, ok := kindMessages[k]; ok {
		return msg
	}
	return fmt.Sprintf("error kind %d", int(k))
}

// Error is returned by every decode and encode entry point.
type Error struct {
	// Kind classifies the failure
	Kind ErrorKind

	// Format is the format being processed, Auto if not known yet
	Format Format

	// Line is the 1-based line or record number, 0 when not applicable
	Line int

	// Msg describes the failure
	Msg string

	// Err is the underlying cause, if any
	Err error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	if e.Format != Auto {
		fmt.Fprintf(&b, " (%s)", e.Format)
	}
	if e.Line > 0 {
		fmt.Fprintf(&b, " at line %d", e.Line)
	}
	if e.Msg != "" {
		b.WriteString(": ")
		b.WriteString(e.Msg)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same kind, so the
// sentinel values below can be used with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Sentinels for errors.Is comparisons.
var (
	ErrFileNotFound            = &Error{Kind: FileNotFound}
	ErrReadFailure             = &Error{Kind: ReadFailure}
	ErrAutoDetectFailure       = &Error{Kind: AutoDetectFailure}
	ErrMalformedRecord         = &Error{Kind: MalformedRecord}
	ErrUnsupportedOutputFormat = &Error{Kind: UnsupportedOutputFormat}
	ErrUnsupportedElfVariant   = &Error{Kind: UnsupportedElfVariant}
	ErrEmptyInput              = &Error{Kind: EmptyInput}
	ErrAddressConflict         = &Error{Kind: AddressConflict}
	ErrEncodeFailure           = &Error{Kind: EncodeFailure}
)

// IsKind returns true if err is, or wraps, an *Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind == kind
	}
	return false
}

func newError(kind ErrorKind, format Format, line int, msg string, args ...interface{}) *Error {
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	return &Error{Kind: kind, Format: format, Line: line, Msg: msg}
}

func wrapError(kind ErrorKind, format Format, err error, msg string, args ...interface{}) *Error {
	return &Error{Kind: kind, Format: format, Err: errors.Wrapf(err, msg, args...)}
}
