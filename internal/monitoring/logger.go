// Package monitoring holds the process-wide diagnostic logger.
package monitoring

import "log"

// Logf is the package-level diagnostic logger. It defaults to log.Printf but may
// be replaced by SetLogger. Tests or production code can redirect or mute it.
var Logf func(format string, v ...interface{}) = log.Printf

// verbose gates Debugf output. Off by default; the CLI --verbose flag enables it.
var verbose bool

// SetLogger replaces the package logger. Passing nil will set a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

// SetVerbose toggles debug logging.
func SetVerbose(on bool) {
	verbose = on
}

// Debugf logs through Logf only when verbose logging is enabled.
func Debugf(format string, v ...interface{}) {
	if verbose {
		Logf(format, v...)
	}
}
