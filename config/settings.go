// Package config contains the user-facing build configuration of the wasix
// toolchain wrappers: the settings gathered from inline -s arguments,
// environment variables, and the optional configuration file, plus the logic
// mapping that configuration to concrete toolchain and sysroot locations.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// envPrefix is prepended to setting names when they are looked up in the
// environment, eg. SYSROOT is read from WASIXCC_SYSROOT.
const envPrefix = "WASIXCC_"

// UserSettings holds the settings provided by the user through -s flags,
// environment variables, or the configuration file.  Some fields can be
// overridden by compiler flags; eg. `-fno-wasm-exceptions` takes priority
// over `-sWASM_EXCEPTIONS=1`.  The struct is mutated in place while the
// argument stream is classified: inference only ever fills fields that are
// still unset.
type UserSettings struct {
	SysrootLocation string   // key name: SYSROOT
	SysrootPrefix   string   // key name: SYSROOT_PREFIX
	LLVM            Location // key name: LLVM_LOCATION
	Binaryen        Location // key name: BINARYEN_LOCATION

	ExtraCompilerFlags        []string // key name: COMPILER_FLAGS
	ExtraCompilerPostFlags    []string // key name: COMPILER_POST_FLAGS
	ExtraCompilerFlagsC       []string // key name: COMPILER_FLAGS_C
	ExtraCompilerPostFlagsC   []string // key name: COMPILER_POST_FLAGS_C
	ExtraCompilerFlagsCXX     []string // key name: COMPILER_FLAGS_CXX
	ExtraCompilerPostFlagsCXX []string // key name: COMPILER_POST_FLAGS_CXX
	ExtraLinkerFlags          []string // key name: LINKER_FLAGS

	IncludeCPPSymbols bool // key name: INCLUDE_CPP_SYMBOLS

	RunWasmOpt                 *bool    // key name: RUN_WASM_OPT
	WasmOptFlags               []string // key name: WASM_OPT_FLAGS
	WasmOptSuppressDefault     bool     // key name: WASM_OPT_SUPPRESS_DEFAULT
	WasmOptPreserveUnoptimized bool     // key name: WASM_OPT_PRESERVE_UNOPTIMIZED

	ModuleKind *ModuleKind // key name: MODULE_KIND

	WasmExceptions bool // key name: WASM_EXCEPTIONS
	PIC            bool // key name: PIC
	LinkSymbolic   bool // key name: LINK_SYMBOLIC
}

// ResolvedModuleKind resolves the effective module kind: an explicit kind
// always wins, and an unset kind with PIC enabled defaults to DynamicMain
// rather than StaticMain (StaticMain never carries PIC).
func (s *UserSettings) ResolvedModuleKind() ModuleKind {
	if s.ModuleKind != nil {
		return *s.ModuleKind
	}

	if s.PIC {
		return DynamicMain
	}

	return StaticMain
}

// SetModuleKindIfUnset applies an inferred module kind only when no explicit
// or previously inferred kind exists.
func (s *UserSettings) SetModuleKindIfUnset(kind ModuleKind) {
	if s.ModuleKind == nil {
		k := kind
		s.ModuleKind = &k
	}
}

// SeparateSettingsArgs splits a raw argument list into setting arguments
// (-sKEY=VALUE tokens) and tool arguments.  Everything after a literal `--`
// is a tool argument, which allows passing -s... flags through to the
// underlying tools.
func SeparateSettingsArgs(args []string) (settingsArgs, toolArgs []string) {
	seenDashDash := false

	for _, arg := range args {
		switch {
		case arg == "--":
			seenDashDash = true
		case seenDashDash:
			toolArgs = append(toolArgs, arg)
		case strings.HasPrefix(arg, "-s") && strings.Contains(arg, "="):
			settingsArgs = append(settingsArgs, arg)
		default:
			toolArgs = append(toolArgs, arg)
		}
	}

	return settingsArgs, toolArgs
}

// settingSource resolves named settings with the documented precedence:
// inline -s arguments, then WASIXCC_* environment variables, then the
// configuration file.
type settingSource struct {
	args []string
	file map[string]string
}

// value returns the raw string value of the named setting, or false when the
// setting is absent from every layer.
func (src *settingSource) value(name string) (string, bool) {
	prefix := "-s" + name + "="
	for _, arg := range src.args {
		if strings.HasPrefix(arg, prefix) {
			return arg[len(prefix):], true
		}
	}

	if envValue, ok := os.LookupEnv(envPrefix + name); ok {
		return envValue, true
	}

	if fileValue, ok := src.file[name]; ok {
		return fileValue, true
	}

	return "", false
}

// list returns the named setting parsed as a flag list, or nil when unset.
func (src *settingSource) list(name string) []string {
	if value, ok := src.value(name); ok {
		return ReadListSetting(value)
	}

	return nil
}

// boolOr returns the named setting parsed as a bool, or the given default
// when unset.
func (src *settingSource) boolOr(name string, def bool) (bool, error) {
	value, ok := src.value(name)
	if !ok {
		return def, nil
	}

	parsed, ok := ReadBoolSetting(value)
	if !ok {
		return false, fmt.Errorf("invalid value %s for %s", value, name)
	}

	return parsed, nil
}

// GatherSettings builds a UserSettings from the given setting arguments, the
// environment, and the configuration file.
func GatherSettings(settingsArgs []string) (*UserSettings, error) {
	fileSettings, err := loadConfigFile()
	if err != nil {
		return nil, err
	}

	src := &settingSource{args: settingsArgs, file: fileSettings}
	settings := &UserSettings{}

	if location, ok := src.value("LLVM_LOCATION"); ok {
		settings.LLVM = UserProvidedLocation(location)
	} else {
		settings.LLVM = DefaultLocation(defaultInstallDir("llvm"))
	}

	if location, ok := src.value("BINARYEN_LOCATION"); ok {
		settings.Binaryen = UserProvidedLocation(location)
	} else {
		settings.Binaryen = DefaultLocation(defaultInstallDir("binaryen"))
	}

	settings.SysrootLocation, _ = src.value("SYSROOT")

	if prefix, ok := src.value("SYSROOT_PREFIX"); ok {
		settings.SysrootPrefix = prefix
	} else {
		settings.SysrootPrefix = defaultInstallDir("sysroot")
	}

	settings.ExtraCompilerFlags = src.list("COMPILER_FLAGS")
	settings.ExtraCompilerPostFlags = src.list("COMPILER_POST_FLAGS")
	settings.ExtraCompilerFlagsC = src.list("COMPILER_FLAGS_C")
	settings.ExtraCompilerPostFlagsC = src.list("COMPILER_POST_FLAGS_C")
	settings.ExtraCompilerFlagsCXX = src.list("COMPILER_FLAGS_CXX")
	settings.ExtraCompilerPostFlagsCXX = src.list("COMPILER_POST_FLAGS_CXX")
	settings.ExtraLinkerFlags = src.list("LINKER_FLAGS")
	settings.WasmOptFlags = src.list("WASM_OPT_FLAGS")

	if settings.IncludeCPPSymbols, err = src.boolOr("INCLUDE_CPP_SYMBOLS", false); err != nil {
		return nil, err
	}

	if value, ok := src.value("RUN_WASM_OPT"); ok {
		parsed, ok := ReadBoolSetting(value)
		if !ok {
			return nil, fmt.Errorf("invalid value %s for RUN_WASM_OPT", value)
		}
		settings.RunWasmOpt = &parsed
	} else if len(settings.WasmOptFlags) > 0 {
		// Assume the user wants to run wasm-opt if flags are provided.
		enabled := true
		settings.RunWasmOpt = &enabled
	}

	if settings.WasmOptSuppressDefault, err = src.boolOr("WASM_OPT_SUPPRESS_DEFAULT", false); err != nil {
		return nil, err
	}

	if settings.WasmOptPreserveUnoptimized, err = src.boolOr("WASM_OPT_PRESERVE_UNOPTIMIZED", false); err != nil {
		return nil, err
	}

	if value, ok := src.value("MODULE_KIND"); ok {
		kind, err := ParseModuleKind(value)
		if err != nil {
			return nil, err
		}
		settings.ModuleKind = &kind
	}

	if settings.WasmExceptions, err = src.boolOr("WASM_EXCEPTIONS", false); err != nil {
		return nil, err
	}

	if settings.PIC, err = src.boolOr("PIC", false); err != nil {
		return nil, err
	}

	if settings.LinkSymbolic, err = src.boolOr("LINK_SYMBOLIC", true); err != nil {
		return nil, err
	}

	return settings, nil
}

// defaultInstallDir returns the default location of a downloaded toolchain
// component: ~/.wasixcc/<name>, or /lib/wasixcc/<name> when no home
// directory can be determined.
func defaultInstallDir(name string) string {
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".wasixcc", name)
	}

	return filepath.Join("/lib", "wasixcc", name)
}

// ReadListSetting parses a colon-delimited flag list.  `\:` escapes a
// literal colon; items are trimmed of surrounding whitespace and empty items
// are dropped.
func ReadListSetting(value string) []string {
	var result []string
	var current strings.Builder

	pushCurrent := func() {
		trimmed := strings.TrimSpace(current.String())
		if trimmed != "" {
			result = append(result, trimmed)
		}
		current.Reset()
	}

	runes := []rune(value)
	for i := 0; i < len(runes); i++ {
		switch runes[i] {
		case '\\':
			if i+1 < len(runes) && runes[i+1] == ':' {
				current.WriteRune(':')
				i++
			} else {
				current.WriteRune('\\')
			}
		case ':':
			pushCurrent()
		default:
			current.WriteRune(runes[i])
		}
	}

	pushCurrent()

	return result
}

// ReadBoolSetting parses a boolean setting value.  The second return value
// indicates whether the value was recognized.
func ReadBoolSetting(value string) (parsed, ok bool) {
	switch strings.ToLower(value) {
	case "1", "true", "yes":
		return true, true
	case "0", "false", "no":
		return false, true
	default:
		return false, false
	}
}
