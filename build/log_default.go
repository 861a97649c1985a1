//go:build !stdlog && !nolog

package build

// LoggingType is a log type that writes through the handler configured by
// the running binary.
const LoggingType = LogTypeDefault
