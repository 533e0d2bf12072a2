package build

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wasixcc/config"
)

func TestPrepareCompilerArgs(t *testing.T) {
	settings := &config.UserSettings{}

	prepared, buildSettings, err := PrepareCompilerArgs([]string{
		"-O2", "-g0", "-fwasm-exceptions", "--no-wasm-opt",
		"-Wl,-foo,bar", "-Xlinker", "baz", "-z", "zo",
		"-o", "out", "in.c", "lib.o",
	}, settings, false)
	require.NoError(t, err)

	assert.Equal(t, []string{"-O2", "-g0"}, prepared.CompilerArgs)
	assert.Equal(t, []string{"-foo", "bar", "baz", "-z", "zo"}, prepared.LinkerArgs)
	assert.Equal(t, []string{"in.c"}, prepared.CompilerInputs)
	assert.Equal(t, []string{"lib.o"}, prepared.LinkerInputs)
	assert.Equal(t, "out", prepared.Output)

	assert.Equal(t, O2, buildSettings.OptLevel)
	assert.Equal(t, DebugG0, buildSettings.DebugLevel)
	assert.False(t, buildSettings.UseWasmOpt)
	assert.True(t, settings.WasmExceptions)
	assert.Nil(t, settings.ModuleKind)
}

func TestPrepareCompilerArgsDefaults(t *testing.T) {
	settings := &config.UserSettings{}

	prepared, buildSettings, err := PrepareCompilerArgs([]string{"in.c"}, settings, false)
	require.NoError(t, err)

	assert.Empty(t, prepared.CompilerArgs)
	assert.Empty(t, prepared.Output)
	assert.Equal(t, O0, buildSettings.OptLevel)
	assert.Equal(t, DebugNone, buildSettings.DebugLevel)
	assert.True(t, buildSettings.UseWasmOpt)
}

func TestPrepareCompilerArgsFlagValues(t *testing.T) {
	settings := &config.UserSettings{}

	prepared, _, err := PrepareCompilerArgs([]string{
		"-I", "include", "-D", "FOO=1", "-isystem", "sys", "in.c",
	}, settings, false)
	require.NoError(t, err)

	assert.Equal(t, []string{"-I", "include", "-D", "FOO=1", "-isystem", "sys"}, prepared.CompilerArgs)
	assert.Equal(t, []string{"in.c"}, prepared.CompilerInputs)
}

func TestPrepareCompilerArgsForwardsLibraryFlags(t *testing.T) {
	settings := &config.UserSettings{}

	prepared, _, err := PrepareCompilerArgs([]string{
		"-L", "libs", "-l", "m", "-lfoo", "-Lbar",
	}, settings, false)
	require.NoError(t, err)

	assert.Empty(t, prepared.CompilerArgs)
	assert.Equal(t, []string{"-L", "libs", "-l", "m", "-lfoo", "-Lbar"}, prepared.LinkerArgs)
}

func TestPrepareCompilerArgsDiscardsControlledFlags(t *testing.T) {
	settings := &config.UserSettings{}

	prepared, _, err := PrepareCompilerArgs([]string{
		"--sysroot", "/elsewhere",
		"--target=x86_64-linux-gnu",
		"-mthread-model", "single",
		"-ftls-model=global-dynamic",
		"in.c",
	}, settings, false)
	require.NoError(t, err)

	assert.Empty(t, prepared.CompilerArgs)
	assert.Empty(t, prepared.LinkerArgs)
	assert.Equal(t, []string{"in.c"}, prepared.CompilerInputs)
}

func TestPrepareCompilerArgsExtraFlagOrder(t *testing.T) {
	settings := &config.UserSettings{
		ExtraCompilerFlags:        []string{"-pre"},
		ExtraCompilerFlagsCXX:     []string{"-prexx"},
		ExtraCompilerPostFlags:    []string{"-post"},
		ExtraCompilerPostFlagsCXX: []string{"-postxx"},
		ExtraCompilerFlagsC:       []string{"-prec"},
		ExtraCompilerPostFlagsC:   []string{"-postc"},
	}

	prepared, _, err := PrepareCompilerArgs([]string{"-mid"}, settings, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"-pre", "-prexx", "-mid", "-post", "-postxx"}, prepared.CompilerArgs)

	settings.ModuleKind = nil
	prepared, _, err = PrepareCompilerArgs([]string{"-mid"}, settings, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"-pre", "-prec", "-mid", "-post", "-postc"}, prepared.CompilerArgs)
}

func TestPrepareCompilerArgsMissingValues(t *testing.T) {
	for _, args := range [][]string{
		{"-o"},
		{"-Xlinker"},
		{"-z"},
		{"-I"},
		{"-mllvm"},
	} {
		settings := &config.UserSettings{}
		_, _, err := PrepareCompilerArgs(args, settings, false)
		assert.ErrorContains(t, err, "expected argument after", args)
	}
}

func TestPrepareCompilerArgsInvalidLevels(t *testing.T) {
	for _, arg := range []string{"-O9", "-Ofast", "-g9", "-ggdb"} {
		settings := &config.UserSettings{}
		_, _, err := PrepareCompilerArgs([]string{arg}, settings, false)
		assert.ErrorContains(t, err, "invalid argument", arg)
	}
}

func TestPrepareCompilerArgsKindInference(t *testing.T) {
	// -c marks an object file build.
	settings := &config.UserSettings{}
	_, _, err := PrepareCompilerArgs([]string{"-c", "in.c"}, settings, false)
	require.NoError(t, err)
	require.NotNil(t, settings.ModuleKind)
	assert.Equal(t, config.ObjectFile, *settings.ModuleKind)

	// -shared in compiler args marks a shared library.
	settings = &config.UserSettings{}
	_, _, err = PrepareCompilerArgs([]string{"-shared", "in.c"}, settings, false)
	require.NoError(t, err)
	require.NotNil(t, settings.ModuleKind)
	assert.Equal(t, config.SharedLibrary, *settings.ModuleKind)

	// The output extension takes priority over flag scanning.
	settings = &config.UserSettings{}
	_, _, err = PrepareCompilerArgs([]string{"-shared", "-o", "out.o", "in.c"}, settings, false)
	require.NoError(t, err)
	require.NotNil(t, settings.ModuleKind)
	assert.Equal(t, config.ObjectFile, *settings.ModuleKind)

	// An explicit kind setting beats everything.
	kind := config.DynamicMain
	settings = &config.UserSettings{ModuleKind: &kind}
	_, _, err = PrepareCompilerArgs([]string{"-shared", "-o", "out.o", "in.c"}, settings, false)
	require.NoError(t, err)
	assert.Equal(t, config.DynamicMain, *settings.ModuleKind)

	// -pie forwarded to the linker marks a dynamic main.
	settings = &config.UserSettings{}
	_, _, err = PrepareCompilerArgs([]string{"-Wl,-pie", "in.c"}, settings, false)
	require.NoError(t, err)
	require.NotNil(t, settings.ModuleKind)
	assert.Equal(t, config.DynamicMain, *settings.ModuleKind)
}

func TestDeduceModuleKind(t *testing.T) {
	kind, ok := deduceModuleKind(".o")
	assert.True(t, ok)
	assert.Equal(t, config.ObjectFile, kind)

	kind, ok = deduceModuleKind(".obj")
	assert.True(t, ok)
	assert.Equal(t, config.ObjectFile, kind)

	kind, ok = deduceModuleKind(".so")
	assert.True(t, ok)
	assert.Equal(t, config.SharedLibrary, kind)

	_, ok = deduceModuleKind(".wasm")
	assert.False(t, ok)
	_, ok = deduceModuleKind("")
	assert.False(t, ok)
}

func TestPrepareLinkerArgs(t *testing.T) {
	settings := &config.UserSettings{}

	prepared, err := PrepareLinkerArgs([]string{
		"-o", "out.wasm", "-shared", "-m", "module", "mod.wasm",
	}, settings)
	require.NoError(t, err)

	assert.Equal(t, []string{"-shared", "-m", "module"}, prepared.LinkerArgs)
	assert.Equal(t, []string{"mod.wasm"}, prepared.LinkerInputs)
	assert.Equal(t, "out.wasm", prepared.Output)

	require.NotNil(t, settings.ModuleKind)
	assert.Equal(t, config.SharedLibrary, *settings.ModuleKind)
	assert.True(t, settings.PIC)
}

func TestPrepareLinkerArgsMissingValues(t *testing.T) {
	for _, args := range [][]string{
		{"-o"},
		{"-z"},
		{"-m"},
		{"-mllvm"},
	} {
		settings := &config.UserSettings{}
		_, err := PrepareLinkerArgs(args, settings)
		assert.ErrorContains(t, err, "expected argument after", args)
	}
}

func TestPrepareLinkerArgsStaticDefault(t *testing.T) {
	settings := &config.UserSettings{}

	prepared, err := PrepareLinkerArgs([]string{"-o", "out.wasm", "main.o"}, settings)
	require.NoError(t, err)

	assert.Nil(t, settings.ModuleKind)
	assert.Equal(t, config.StaticMain, settings.ResolvedModuleKind())
	assert.False(t, settings.PIC)
	assert.Equal(t, []string{"main.o"}, prepared.LinkerInputs)
}

// Classifying already-classified flags must not change them.
func TestClassificationIdempotence(t *testing.T) {
	settings := &config.UserSettings{}
	prepared, _, err := PrepareCompilerArgs([]string{
		"-O2", "-I", "include", "-D", "FOO", "-pthread",
	}, settings, false)
	require.NoError(t, err)

	again, _, err := PrepareCompilerArgs(prepared.CompilerArgs, &config.UserSettings{}, false)
	require.NoError(t, err)
	assert.Equal(t, prepared.CompilerArgs, again.CompilerArgs)
	assert.Empty(t, again.LinkerArgs)

	linkSettings := &config.UserSettings{}
	linkPrepared, err := PrepareLinkerArgs(prepared.LinkerArgs, linkSettings)
	require.NoError(t, err)
	assert.Equal(t, prepared.LinkerArgs, linkPrepared.LinkerArgs)
}
