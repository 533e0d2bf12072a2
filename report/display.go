package report

import (
	"fmt"
	"os"

	"github.com/pterm/pterm"
)

var (
	SuccessColorFG = pterm.FgLightGreen
	SuccessStyleBG = pterm.NewStyle(pterm.BgLightGreen, pterm.FgBlack)
	WarnColorFG    = pterm.FgYellow
	WarnStyleBG    = pterm.NewStyle(pterm.BgYellow, pterm.FgBlack)
	ErrorColorFG   = pterm.FgRed
	ErrorStyleBG   = pterm.NewStyle(pterm.BgRed, pterm.FgWhite)
	DebugColorFG   = pterm.FgGray
)

// All reporting goes to stderr: stdout belongs to the wrapped tools.

// Errorf reports an error message to the user.
func Errorf(format string, args ...interface{}) {
	if !rep.shouldLog(LogLevelError) {
		return
	}

	rep.m.Lock()
	defer rep.m.Unlock()

	fmt.Fprintln(os.Stderr, ErrorStyleBG.Sprint("Error")+ErrorColorFG.Sprintf(" "+format, args...))
}

// DisplayError reports a standard Go error to the user.
func DisplayError(err error) {
	Errorf("%s", err.Error())
}

// Warningf reports a warning message to the user.
func Warningf(format string, args ...interface{}) {
	if !rep.shouldLog(LogLevelWarn) {
		return
	}

	rep.m.Lock()
	defer rep.m.Unlock()

	fmt.Fprintln(os.Stderr, WarnStyleBG.Sprint("Warning")+WarnColorFG.Sprintf(" "+format, args...))
}

// Infof reports a progress message to the user.
func Infof(format string, args ...interface{}) {
	if !rep.shouldLog(LogLevelVerbose) {
		return
	}

	rep.m.Lock()
	defer rep.m.Unlock()

	fmt.Fprintln(os.Stderr, SuccessStyleBG.Sprint("Info")+SuccessColorFG.Sprintf(" "+format, args...))
}

// Debugf reports a debugging message, such as the exact command line of a
// synthesized tool invocation.
func Debugf(format string, args ...interface{}) {
	if !rep.shouldLog(LogLevelDebug) {
		return
	}

	rep.m.Lock()
	defer rep.m.Unlock()

	fmt.Fprintln(os.Stderr, DebugColorFG.Sprintf(format, args...))
}

// DisplayInfoMessage displays a tagged informational message regardless of
// the log level, eg. the version banner.
func DisplayInfoMessage(tag, msg string) {
	fmt.Fprintln(os.Stderr, SuccessStyleBG.Sprint(tag)+SuccessColorFG.Sprint(" "+msg))
}
