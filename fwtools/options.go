package fwtools

import "io"

// Config holds the Tools configuration.
type Config struct {
	// ProgressCallback is called as multi-stage operations advance (optional)
	ProgressCallback ProgressCallback

	// Logger is used for logging operations (optional)
	Logger Logger

	// LineLength is the bytes-per-record used when an operation is called
	// with lineLength 0. Zero keeps each format's own default.
	LineLength int

	// Trace receives the ELF decoder's header dump (optional)
	Trace io.Writer

	// SizeBuffer is copied into Info.SizeBuffer of every parsed image
	SizeBuffer int
}

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{}
}

// Option is a functional option for configuring Tools.
type Option func(*Config)

// WithProgressCallback sets a callback invoked between operation phases.
func WithProgressCallback(callback ProgressCallback) Option {
	return func(c *Config) {
		c.ProgressCallback = callback
	}
}

// WithLogger sets a logger for the tools operations.
//
// Example:
//
//	tools := fwtools.New(fwtools.WithLogger(myLogger))
func WithLogger(logger Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithLineLength sets the default bytes per record. Values outside
// 1-255 are ignored.
//
// Example:
//
//	tools := fwtools.New(fwtools.WithLineLength(16))
func WithLineLength(n int) Option {
	return func(c *Config) {
		if n > 0 && n <= 255 {
			c.LineLength = n
		}
	}
}

// WithTrace sets a writer receiving the ELF header dump during parsing.
//
// Example:
//
//	tools := fwtools.New(fwtools.WithTrace(os.Stderr))
func WithTrace(w io.Writer) Option {
	return func(c *Config) {
		c.Trace = w
	}
}

// WithSizeBuffer sets the size hint reported in parsed images' Info.
func WithSizeBuffer(size int) Option {
	return func(c *Config) {
		if size >= 0 {
			c.SizeBuffer = size
		}
	}
}
