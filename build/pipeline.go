// Package build is the core of the wasix toolchain wrappers: it classifies
// an incoming compiler-style argument stream, derives the build
// configuration, and synthesizes the compile, link, and post-link optimizer
// invocations in the exact order and spelling the downstream tools expect.
package build

import (
	"fmt"
	"os"

	"wasixcc/config"
	"wasixcc/report"
)

// State carries the artifacts of a single build pipeline invocation between
// its stages.  The user settings are exclusively owned by that invocation.
type State struct {
	Settings *config.UserSettings
	Build    BuildSettings
	Args     PreparedArgs
	CXX      bool
	TempDir  string
}

// outputPath returns the declared output path, or the conventional default
// for the module kind.
func outputPath(state *State) string {
	if state.Args.Output != "" {
		return state.Args.Output
	}

	if state.Settings.ResolvedModuleKind() == config.ObjectFile {
		return "a.o"
	}

	return "a.out"
}

// Run drives the compiler pipeline: classify arguments, compile every input,
// link when the module kind produces a binary, and optionally run the
// post-link optimizer.  Stages run strictly in order; the first failure
// aborts the rest of the pipeline.
func Run(args []string, settings *config.UserSettings, runCXX bool) error {
	originalArgs := append([]string{}, args...)

	prepared, buildSettings, err := PrepareCompilerArgs(args, settings, runCXX)
	if err != nil {
		return err
	}

	report.Debugf("compiler settings: %+v", settings)

	if len(prepared.CompilerInputs) == 0 && len(prepared.LinkerInputs) == 0 {
		// With no inputs, just pass everything through to the compiler.
		// This supports invocations such as `wasixcc -dumpmachine`.
		compiler := "clang"
		if runCXX {
			compiler = "clang++"
		}

		return runCommand(settings.LLVMToolPath(compiler), append(originalArgs, "--target=wasm32-wasi"))
	}

	// The scratch directory for intermediate objects lives exactly as long
	// as this pipeline invocation.
	tempDir, err := os.MkdirTemp("", "wasixcc")
	if err != nil {
		return fmt.Errorf("failed to create temporary directory: %w", err)
	}
	defer os.RemoveAll(tempDir)

	state := &State{
		Settings: settings,
		Build:    *buildSettings,
		Args:     *prepared,
		CXX:      runCXX,
		TempDir:  tempDir,
	}

	if err := compileInputs(state); err != nil {
		return err
	}

	if state.Settings.ResolvedModuleKind().IsBinary() {
		if err := linkInputs(state); err != nil {
			return err
		}

		if shouldRunWasmOpt(state) {
			if err := runWasmOpt(state); err != nil {
				return err
			}
		}
	}

	report.Infof("done")
	return nil
}

// LinkOnly drives the link-only pipeline used by the linker wrapper.
func LinkOnly(args []string, settings *config.UserSettings) error {
	originalArgs := append([]string{}, args...)

	prepared, err := PrepareLinkerArgs(args, settings)
	if err != nil {
		return err
	}

	if !settings.ResolvedModuleKind().IsBinary() {
		return fmt.Errorf("only binaries can be linked, current module kind is: %s", settings.ResolvedModuleKind())
	}

	report.Debugf("linker settings: %+v", settings)

	if len(prepared.LinkerInputs) == 0 {
		// With no inputs, just pass everything through to the linker.
		return runCommand(settings.LLVMToolPath("wasm-ld"), originalArgs)
	}

	useWasmOpt := true
	if settings.RunWasmOpt != nil {
		useWasmOpt = *settings.RunWasmOpt
	}

	state := &State{
		Settings: settings,
		Build: BuildSettings{
			OptLevel:   O0,
			DebugLevel: DebugG0,
			UseWasmOpt: useWasmOpt,
		},
		Args: *prepared,
		// No reliable way to detect C++ inputs here; the
		// INCLUDE_CPP_SYMBOLS setting forces the C++ runtime in.
		CXX: settings.IncludeCPPSymbols,
		// Not used for linking.
		TempDir: ".",
	}

	if err := linkInputs(state); err != nil {
		return err
	}

	if state.Build.UseWasmOpt {
		if err := runWasmOpt(state); err != nil {
			return err
		}
	}

	report.Infof("done")
	return nil
}
