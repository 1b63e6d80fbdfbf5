package logger

// Level is a log level.
type Level int

// log levels, in ascending order of severity.
const (
	Debug Level = iota
	Info
	Warn
	Error
)

// Destination is a log destination.
type Destination int

// log destinations.
const (
	DestinationStdout Destination = iota
	DestinationFile
	DestinationSyslog
)

// Writer is anything that can receive log lines. It's implemented by
// *Logger itself and by wrappers such as NewLimitedLogger.
type Writer interface {
	Log(level Level, format string, args ...interface{})
}
