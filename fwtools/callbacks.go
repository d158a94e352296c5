package fwtools

// Phases reported through ProgressCallback.
const (
	PhaseParsing  = "parsing"
	PhaseMerging  = "merging"
	PhaseEncoding = "encoding"
	PhaseComplete = "complete"
)

// Progress describes the step a multi-stage operation has reached.
// Passed to ProgressCallback by ConvertTo and Combine.
type Progress struct {
	// Phase is one of the Phase constants
	Phase string

	// Path is the file being parsed, empty for other phases
	Path string

	// Nodes is the number of nodes handled so far in this phase
	Nodes int
}

// ProgressCallback is called as ConvertTo and Combine move between phases.
// Implementations should return quickly.
//
// Example:
//
//	tools := fwtools.New(
//	    fwtools.WithProgressCallback(func(p fwtools.Progress) {
//	        fmt.Printf("[%s] %s %d nodes\n", p.Phase, p.Path, p.Nodes)
//	    }),
//	)
type ProgressCallback func(Progress)

// Logger is an optional logging interface. NewLogrusLogger adapts a
// logrus logger; any other framework can be plugged in the same way.
//
// Example with standard log package:
//
//	type StdLogger struct{}
//	func (l *StdLogger) Debug(msg string, kv ...interface{}) { log.Println(msg, kv) }
//	func (l *StdLogger) Info(msg string, kv ...interface{})  { log.Println(msg, kv) }
//	func (l *StdLogger) Error(msg string, kv ...interface{}) { log.Println(msg, kv) }
//
//	tools := fwtools.New(fwtools.WithLogger(&StdLogger{}))
type Logger interface {
	// Debug logs a debug message with optional key-value pairs
	Debug(msg string, keysAndValues ...interface{})

	// Info logs an info message with optional key-value pairs
	Info(msg string, keysAndValues ...interface{})

	// Error logs an error message with optional key-value pairs
	Error(msg string, keysAndValues ...interface{})
}
