// Package report handles all user-facing output of the wasix toolchain
// wrappers: errors, warnings, and progress messages.  The reporter respects
// the set log level and is synchronized: its methods can be safely called
// from multiple goroutines.
package report

import (
	"os"
	"strings"
	"sync"
)

// Enumeration of the different possible log levels.
const (
	LogLevelSilent  = iota // Displays no output.
	LogLevelError          // Displays only errors to the user.
	LogLevelWarn           // Displays warnings and errors to the user (default).
	LogLevelVerbose        // Displays progress messages as well.
	LogLevelDebug          // Additionally echoes every synthesized tool command.
)

// Reporter is responsible for reporting errors, warnings, and other kinds of
// messages to the user during program execution.
type Reporter struct {
	// The mutex used to synchronize different reporting method calls.
	m *sync.Mutex

	// The selected log level of the reporter.  This must be one of the
	// enumerated log levels above.
	logLevel int
}

// rep is the global reporter instance.
var rep = &Reporter{m: &sync.Mutex{}, logLevel: LogLevelWarn}

// InitReporter sets the global reporter's log level.
func InitReporter(logLevel int) {
	rep.m.Lock()
	rep.logLevel = logLevel
	rep.m.Unlock()
}

// InitReporterFromEnv sets the global reporter's log level from the
// WASIXCC_LOG environment variable.  Unknown or empty values leave the
// default level in place.
func InitReporterFromEnv() {
	switch strings.ToLower(os.Getenv("WASIXCC_LOG")) {
	case "silent":
		InitReporter(LogLevelSilent)
	case "error":
		InitReporter(LogLevelError)
	case "warn":
		InitReporter(LogLevelWarn)
	case "verbose", "info":
		InitReporter(LogLevelVerbose)
	case "debug":
		InitReporter(LogLevelDebug)
	}
}

// shouldLog returns whether a message at the given level passes the
// reporter's level filter.
func (r *Reporter) shouldLog(level int) bool {
	r.m.Lock()
	defer r.m.Unlock()

	return r.logLevel >= level
}
