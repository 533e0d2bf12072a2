package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// settingNames are cleared from the environment so ambient configuration
// can't leak into the tests.
var settingNames = []string{
	"SYSROOT", "SYSROOT_PREFIX", "LLVM_LOCATION", "BINARYEN_LOCATION",
	"COMPILER_FLAGS", "COMPILER_POST_FLAGS", "COMPILER_FLAGS_C",
	"COMPILER_POST_FLAGS_C", "COMPILER_FLAGS_CXX", "COMPILER_POST_FLAGS_CXX",
	"LINKER_FLAGS", "INCLUDE_CPP_SYMBOLS", "RUN_WASM_OPT", "WASM_OPT_FLAGS",
	"WASM_OPT_SUPPRESS_DEFAULT", "WASM_OPT_PRESERVE_UNOPTIMIZED",
	"MODULE_KIND", "WASM_EXCEPTIONS", "PIC", "LINK_SYMBOLIC",
}

// isolateEnv points the config file at a nonexistent path and clears every
// WASIXCC_* setting variable for the duration of the test.
func isolateEnv(t *testing.T) {
	t.Helper()

	t.Setenv("WASIXCC_CONFIG", filepath.Join(t.TempDir(), "no-config.toml"))
	for _, name := range settingNames {
		t.Setenv(envPrefix+name, "")
		os.Unsetenv(envPrefix + name)
	}
}

func TestReadListSetting(t *testing.T) {
	assert.Equal(t, []string{"a", "b:c", "d"}, ReadListSetting(`a:b\:c:d`))
	assert.Equal(t, []string{"-O2", "-flto"}, ReadListSetting(" -O2 : -flto "))
	assert.Nil(t, ReadListSetting("::"))
	assert.Equal(t, []string{`a\b`}, ReadListSetting(`a\b`))
	assert.Equal(t, []string{`a\`}, ReadListSetting(`a\`))
}

func TestReadBoolSetting(t *testing.T) {
	for _, value := range []string{"1", "true", "Yes"} {
		parsed, ok := ReadBoolSetting(value)
		assert.True(t, ok, value)
		assert.True(t, parsed, value)
	}

	for _, value := range []string{"0", "false", "No"} {
		parsed, ok := ReadBoolSetting(value)
		assert.True(t, ok, value)
		assert.False(t, parsed, value)
	}

	_, ok := ReadBoolSetting("invalid")
	assert.False(t, ok)
}

func TestSeparateSettingsArgs(t *testing.T) {
	settings, tool := SeparateSettingsArgs([]string{"-sA=1", "-c", "-sB=2", "file.c"})
	assert.Equal(t, []string{"-sA=1", "-sB=2"}, settings)
	assert.Equal(t, []string{"-c", "file.c"}, tool)

	// After `--` nothing is a settings argument, and the `--` itself is
	// dropped.
	settings, tool = SeparateSettingsArgs([]string{"-sA=1", "--", "-sB=2"})
	assert.Equal(t, []string{"-sA=1"}, settings)
	assert.Equal(t, []string{"-sB=2"}, tool)

	// A bare -s flag without '=' is a tool argument.
	settings, tool = SeparateSettingsArgs([]string{"-shared"})
	assert.Empty(t, settings)
	assert.Equal(t, []string{"-shared"}, tool)
}

func TestGatherSettings(t *testing.T) {
	isolateEnv(t)

	settings, err := GatherSettings([]string{
		"-sSYSROOT=/sys",
		"-sCOMPILER_FLAGS=a:b",
		"-sLINKER_FLAGS=x:y",
		"-sRUN_WASM_OPT=1",
		"-sWASM_OPT_FLAGS=m:n",
		"-sMODULE_KIND=shared-library",
		"-sWASM_EXCEPTIONS=yes",
		"-sPIC=false",
	})
	require.NoError(t, err)

	assert.Equal(t, "/sys", settings.SysrootLocation)
	assert.Equal(t, []string{"a", "b"}, settings.ExtraCompilerFlags)
	assert.Equal(t, []string{"x", "y"}, settings.ExtraLinkerFlags)
	require.NotNil(t, settings.RunWasmOpt)
	assert.True(t, *settings.RunWasmOpt)
	assert.Equal(t, []string{"m", "n"}, settings.WasmOptFlags)
	require.NotNil(t, settings.ModuleKind)
	assert.Equal(t, SharedLibrary, *settings.ModuleKind)
	assert.True(t, settings.WasmExceptions)
	assert.False(t, settings.PIC)

	// Defaults.
	assert.True(t, settings.LinkSymbolic)
	assert.False(t, settings.IncludeCPPSymbols)
}

func TestGatherSettingsDefaults(t *testing.T) {
	isolateEnv(t)

	settings, err := GatherSettings(nil)
	require.NoError(t, err)

	assert.Empty(t, settings.SysrootLocation)
	assert.NotEmpty(t, settings.SysrootPrefix)
	assert.Nil(t, settings.RunWasmOpt)
	assert.Nil(t, settings.ModuleKind)
	assert.True(t, settings.LinkSymbolic)
	assert.False(t, settings.WasmExceptions)
}

func TestGatherSettingsEnvFallback(t *testing.T) {
	isolateEnv(t)
	t.Setenv("WASIXCC_SYSROOT", "/env-sys")
	t.Setenv("WASIXCC_WASM_EXCEPTIONS", "true")

	// Inline takes precedence over the environment.
	settings, err := GatherSettings([]string{"-sSYSROOT=/arg-sys"})
	require.NoError(t, err)
	assert.Equal(t, "/arg-sys", settings.SysrootLocation)
	assert.True(t, settings.WasmExceptions)
}

func TestGatherSettingsWasmOptFlagsImplyRun(t *testing.T) {
	isolateEnv(t)

	settings, err := GatherSettings([]string{"-sWASM_OPT_FLAGS=--dce"})
	require.NoError(t, err)
	require.NotNil(t, settings.RunWasmOpt)
	assert.True(t, *settings.RunWasmOpt)

	// ... unless RUN_WASM_OPT is explicit.
	settings, err = GatherSettings([]string{"-sWASM_OPT_FLAGS=--dce", "-sRUN_WASM_OPT=no"})
	require.NoError(t, err)
	require.NotNil(t, settings.RunWasmOpt)
	assert.False(t, *settings.RunWasmOpt)
}

func TestGatherSettingsInvalidValues(t *testing.T) {
	isolateEnv(t)

	_, err := GatherSettings([]string{"-sPIC=maybe"})
	assert.Error(t, err)

	_, err = GatherSettings([]string{"-sMODULE_KIND=plugin"})
	assert.Error(t, err)
}

func TestResolvedModuleKind(t *testing.T) {
	settings := &UserSettings{}
	assert.Equal(t, StaticMain, settings.ResolvedModuleKind())

	settings.PIC = true
	assert.Equal(t, DynamicMain, settings.ResolvedModuleKind())

	// An explicit kind always wins.
	kind := ObjectFile
	settings.ModuleKind = &kind
	assert.Equal(t, ObjectFile, settings.ResolvedModuleKind())
}

func TestSetModuleKindIfUnset(t *testing.T) {
	settings := &UserSettings{}
	settings.SetModuleKindIfUnset(SharedLibrary)
	settings.SetModuleKindIfUnset(ObjectFile)

	require.NotNil(t, settings.ModuleKind)
	assert.Equal(t, SharedLibrary, *settings.ModuleKind)
}
