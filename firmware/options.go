package firmware

import "io"

// Config holds decode and model construction settings.
type Config struct {
	// FillFF fills address gaps with 0xFF and records the synthetic
	// addresses in Info.FilledFFAddr
	FillFF bool

	// SizeBuffer is an opaque size hint copied into Info.SizeBuffer
	SizeBuffer int

	// Trace receives a human readable dump of ELF headers (optional)
	Trace io.Writer
}

// Option is a functional option for decoding and model construction.
type Option func(*Config)

func newConfig(opts []Option) Config {
	var cfg Config
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithFillFF enables or disables gap filling with 0xFF bytes.
//
// Example:
//
//	fw, err := firmware.ParseFile("app.txt", firmware.Auto, firmware.WithFillFF(true))
func WithFillFF(fill bool) Option {
	return func(c *Config) {
		c.FillFF = fill
	}
}

// WithSizeBuffer sets the size hint reported in Info.SizeBuffer.
func WithSizeBuffer(size int) Option {
	return func(c *Config) {
		c.SizeBuffer = size
	}
}

// WithTrace sets a writer for the ELF decoder's diagnostic dump.
// Other decoders ignore it.
func WithTrace(w io.Writer) Option {
	return func(c *Config) {
		c.Trace = w
	}
}
