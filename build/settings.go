package build

import (
	"fmt"
	"strings"

	"wasixcc/config"
)

// OptLevel is an optimization level accepted by the compiler and forwarded
// to the post-link optimizer.
type OptLevel int

const (
	O0 OptLevel = iota
	O1
	O2
	O3
	O4
	Os
	Oz
)

// Flag returns the command-line spelling of the optimization level.
func (l OptLevel) Flag() string {
	switch l {
	case O1:
		return "-O1"
	case O2:
		return "-O2"
	case O3:
		return "-O3"
	case O4:
		return "-O4"
	case Os:
		return "-Os"
	case Oz:
		return "-Oz"
	default:
		return "-O0"
	}
}

// DebugLevel is the debug-info level requested through -g flags.  DebugNone
// and DebugG0 both mean "no debug info emitted downstream" but are distinct
// states: the compiler-mode classifier starts from DebugNone while the
// link-only entry point constructs DebugG0.
type DebugLevel int

const (
	DebugNone DebugLevel = iota
	DebugG0
	DebugG1
	DebugG2
	DebugG3
)

// emitsDebugInfo returns whether the level asks downstream tools to carry
// debug info.
func (l DebugLevel) emitsDebugInfo() bool {
	return l == DebugG1 || l == DebugG2 || l == DebugG3
}

// BuildSettings are derived strictly from the inline flags of a single
// invocation; they are reset to defaults at the start of each classification
// pass and never persisted.
type BuildSettings struct {
	OptLevel   OptLevel
	DebugLevel DebugLevel
	UseWasmOpt bool
}

// updateFromArg inspects a single flag token, updating the build settings
// and user settings it encodes.  The returned bool indicates whether the
// flag should be retained in the classified output: flags translated into
// internally-controlled values later are consumed here instead of being
// passed through verbatim.
func (bs *BuildSettings) updateFromArg(arg string, settings *config.UserSettings) (bool, error) {
	switch {
	case strings.HasPrefix(arg, "-O"):
		switch arg[len("-O"):] {
		case "0":
			bs.OptLevel = O0
		case "1":
			bs.OptLevel = O1
		case "2":
			bs.OptLevel = O2
		case "3":
			bs.OptLevel = O3
		case "4":
			bs.OptLevel = O4
		case "s":
			bs.OptLevel = Os
		case "z":
			bs.OptLevel = Oz
		default:
			return false, fmt.Errorf("invalid argument: %s", arg)
		}
		return true, nil

	case strings.HasPrefix(arg, "-g"):
		switch arg[len("-g"):] {
		case "":
			bs.DebugLevel = DebugG2
		case "0":
			bs.DebugLevel = DebugG0
		case "1":
			bs.DebugLevel = DebugG1
		case "2":
			bs.DebugLevel = DebugG2
		case "3":
			bs.DebugLevel = DebugG3
		default:
			return false, fmt.Errorf("invalid argument: %s", arg)
		}
		return true, nil

	case arg == "-fwasm-exceptions":
		// Translated into several internal flags later, so not kept verbatim.
		settings.WasmExceptions = true
		return false, nil

	case arg == "-fno-wasm-exceptions":
		settings.WasmExceptions = false
		return true, nil

	case arg == "-fPIC":
		settings.PIC = true
		return true, nil

	case arg == "-fno-PIC":
		settings.PIC = false
		return true, nil

	case arg == "--wasm-opt":
		bs.UseWasmOpt = true
		return false, nil

	case arg == "--no-wasm-opt":
		bs.UseWasmOpt = false
		return false, nil

	default:
		return true, nil
	}
}
