package build

import (
	"fmt"
	"path/filepath"
	"strings"

	"wasixcc/config"
)

// clangFlagsWithArgs is the set of compiler flags that consume the following
// token as their value.
var clangFlagsWithArgs = map[string]struct{}{
	"-MT":                    {},
	"-MF":                    {},
	"-MJ":                    {},
	"-MQ":                    {},
	"-D":                     {},
	"-U":                     {},
	"-o":                     {},
	"-x":                     {},
	"-Xpreprocessor":         {},
	"-include":               {},
	"-imacros":               {},
	"-idirafter":             {},
	"-iprefix":               {},
	"-iwithprefix":           {},
	"-iwithprefixbefore":     {},
	"-isysroot":              {},
	"-imultilib":             {},
	"-A":                     {},
	"-isystem":               {},
	"-iquote":                {},
	"-install_name":          {},
	"-compatibility_version": {},
	"-mllvm":                 {},
	"-mthread-model":         {},
	"-current_version":       {},
	"-I":                     {},
	"-l":                     {},
	"-L":                     {},
	"-include-pch":           {},
	"-u":                     {},
	"-undefined":             {},
	"-target":                {},
	"-Xlinker":               {},
	"-Xclang":                {},
	"-z":                     {},
}

// clangFlagsToForwardToLinker are flag prefixes routed to the link stage
// instead of the compile stage.
var clangFlagsToForwardToLinker = []string{"-L", "-l"}

// clangFlagsToDiscard are flags we always supply our own values for
// according to the build configuration, so externally supplied occurrences
// must be dropped.
var clangFlagsToDiscard = []string{"-ftls-model", "--sysroot", "--target", "-mthread-model"}

// wasmLdFlagsWithArgs is the set of linker flags that consume the following
// token as their value.
var wasmLdFlagsWithArgs = map[string]struct{}{
	"-o":     {},
	"-mllvm": {},
	"-L":     {},
	"-l":     {},
	"-m":     {},
	"-O":     {},
	"-y":     {},
	"-z":     {},
}

// PreparedArgs is the classification output: every token of the raw
// argument stream is routed to exactly one of the five buckets or
// deliberately discarded.
type PreparedArgs struct {
	CompilerArgs   []string
	LinkerArgs     []string
	CompilerInputs []string
	LinkerInputs   []string
	Output         string
}

// argCursor is an explicit cursor over a token sequence.  Lookahead
// consumption for flags that need a following token goes through
// expectNext, which keeps the missing-argument error path explicit.
type argCursor struct {
	// The arguments being classified.
	args []string

	// The cursor's position within those arguments.
	ndx int
}

// next consumes and returns the next token if one exists.
func (c *argCursor) next() (string, bool) {
	if c.ndx < len(c.args) {
		arg := c.args[c.ndx]
		c.ndx++
		return arg, true
	}

	return "", false
}

// expectNext consumes the next token as the value of the given flag,
// failing when the flag is the last token of the stream.
func (c *argCursor) expectNext(flag string) (string, error) {
	if value, ok := c.next(); ok {
		return value, nil
	}

	return "", fmt.Errorf("expected argument after %s", flag)
}

// deduceModuleKind infers a module kind from an output file extension.  The
// extension includes the leading dot, as returned by filepath.Ext.
func deduceModuleKind(ext string) (config.ModuleKind, bool) {
	switch ext {
	case ".o", ".obj":
		return config.ObjectFile, true
	case ".so":
		return config.SharedLibrary, true
	default:
		return 0, false
	}
}

// inferKindFromOutput applies output-extension module kind inference to a
// still-unset module kind setting.
func inferKindFromOutput(output string, settings *config.UserSettings) {
	if settings.ModuleKind != nil {
		return
	}

	if kind, ok := deduceModuleKind(filepath.Ext(output)); ok {
		settings.SetModuleKindIfUnset(kind)
	}
}

// PrepareCompilerArgs partitions a compiler-style argument stream into
// compiler-bound and linker-bound pieces, extracting build settings as a
// side effect.  The extra compiler flag lists from the user settings are
// chained around the raw arguments and classified through the same pass.
func PrepareCompilerArgs(args []string, settings *config.UserSettings, runCXX bool) (*PreparedArgs, *BuildSettings, error) {
	result := &PreparedArgs{}
	buildSettings := &BuildSettings{
		OptLevel:   O0,
		DebugLevel: DebugNone,
		UseWasmOpt: true,
	}

	langFlags := settings.ExtraCompilerFlagsC
	langPostFlags := settings.ExtraCompilerPostFlagsC
	if runCXX {
		langFlags = settings.ExtraCompilerFlagsCXX
		langPostFlags = settings.ExtraCompilerPostFlagsCXX
	}

	var stream []string
	stream = append(stream, settings.ExtraCompilerFlags...)
	stream = append(stream, langFlags...)
	stream = append(stream, args...)
	stream = append(stream, settings.ExtraCompilerPostFlags...)
	stream = append(stream, langPostFlags...)

	cursor := &argCursor{args: stream}

	for {
		arg, ok := cursor.next()
		if !ok {
			break
		}

		switch {
		case strings.HasPrefix(arg, "-Wl,"):
			result.LinkerArgs = append(result.LinkerArgs, strings.Split(arg[len("-Wl,"):], ",")...)

		case arg == "-Xlinker":
			value, err := cursor.expectNext(arg)
			if err != nil {
				return nil, nil, err
			}
			result.LinkerArgs = append(result.LinkerArgs, value)

		case arg == "-z":
			value, err := cursor.expectNext(arg)
			if err != nil {
				return nil, nil, err
			}
			result.LinkerArgs = append(result.LinkerArgs, "-z", value)

		case arg == "-o":
			output, err := cursor.expectNext(arg)
			if err != nil {
				return nil, nil, err
			}
			inferKindFromOutput(output, settings)
			result.Output = output

		case strings.HasPrefix(arg, "-"):
			keep, err := buildSettings.updateFromArg(arg, settings)
			if err != nil {
				return nil, nil, err
			}
			if !keep {
				continue
			}

			// Read the value early so it's also discarded if we discard the
			// flag itself.
			var value string
			hasValue := false
			if _, ok := clangFlagsWithArgs[arg]; ok {
				value, err = cursor.expectNext(arg)
				if err != nil {
					return nil, nil, err
				}
				hasValue = true
			}

			if matchesDiscardedFlag(arg) {
				continue
			}

			argsList := &result.CompilerArgs
			for _, prefix := range clangFlagsToForwardToLinker {
				if strings.HasPrefix(arg, prefix) {
					argsList = &result.LinkerArgs
					break
				}
			}

			*argsList = append(*argsList, arg)
			if hasValue {
				*argsList = append(*argsList, value)
			}

		default:
			// Assume it's an input file.
			switch filepath.Ext(arg) {
			case ".a", ".o", ".obj":
				result.LinkerInputs = append(result.LinkerInputs, arg)
			default:
				result.CompilerInputs = append(result.CompilerInputs, arg)
			}
		}
	}

	if settings.ModuleKind == nil {
	scanCompilerArgs:
		for _, arg := range result.CompilerArgs {
			switch arg {
			case "-shared":
				settings.SetModuleKindIfUnset(config.SharedLibrary)
				break scanCompilerArgs
			case "-c", "-S", "-E":
				settings.SetModuleKindIfUnset(config.ObjectFile)
				break scanCompilerArgs
			}
		}
	}

	inferKindFromLinkerArgs(result.LinkerArgs, settings)

	return result, buildSettings, nil
}

// PrepareLinkerArgs is the link-only variant of the classifier: no compiler
// buckets exist, flags needing a following value come from the
// linker-specific set, and module kind inference only consults the linker
// args.  When the resolved kind requires position independence, the PIC
// setting is forced on.
func PrepareLinkerArgs(args []string, settings *config.UserSettings) (*PreparedArgs, error) {
	result := &PreparedArgs{}
	cursor := &argCursor{args: args}

	for {
		arg, ok := cursor.next()
		if !ok {
			break
		}

		switch {
		case arg == "-o":
			output, err := cursor.expectNext(arg)
			if err != nil {
				return nil, err
			}
			inferKindFromOutput(output, settings)
			result.Output = output

		case strings.HasPrefix(arg, "-"):
			result.LinkerArgs = append(result.LinkerArgs, arg)
			if _, ok := wasmLdFlagsWithArgs[arg]; ok {
				value, err := cursor.expectNext(arg)
				if err != nil {
					return nil, err
				}
				result.LinkerArgs = append(result.LinkerArgs, value)
			}

		default:
			// Assume it's an input file.
			result.LinkerInputs = append(result.LinkerInputs, arg)
		}
	}

	inferKindFromLinkerArgs(result.LinkerArgs, settings)

	if settings.ResolvedModuleKind().RequiresPIC() {
		settings.PIC = true
	}

	return result, nil
}

// inferKindFromLinkerArgs scans classified linker args for module kind
// markers; the first match wins.
func inferKindFromLinkerArgs(linkerArgs []string, settings *config.UserSettings) {
	if settings.ModuleKind != nil {
		return
	}

	for _, arg := range linkerArgs {
		switch arg {
		case "-shared":
			settings.SetModuleKindIfUnset(config.SharedLibrary)
			return
		case "-pie":
			settings.SetModuleKindIfUnset(config.DynamicMain)
			return
		}
	}
}

// matchesDiscardedFlag reports whether the flag carries one of the
// internally-controlled values: an exact match or a `flag=value` spelling.
func matchesDiscardedFlag(arg string) bool {
	for _, flag := range clangFlagsToDiscard {
		rest, ok := strings.CutPrefix(arg, flag)
		if ok && (rest == "" || strings.HasPrefix(rest, "=")) {
			return true
		}
	}

	return false
}
