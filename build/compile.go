package build

import (
	"fmt"
	"path/filepath"
)

// baseCompilerArgs builds the argument prefix shared by every compiler
// invocation of this build: target and sysroot, the fixed wasm feature set,
// and the configuration-dependent exception, TLS-model, and debug flags.
// The retained classified compiler args follow in their original order.
func baseCompilerArgs(state *State, sysroot string) []string {
	args := []string{
		"--sysroot", sysroot,
		"--target=wasm32-wasi",
		"-c",
		"-matomics",
		"-mbulk-memory",
		"-mmutable-globals",
		"-pthread",
		"-mthread-model", "posix",
		"-fno-trapping-math",
		"-D_WASI_EMULATED_MMAN",
		"-D_WASI_EMULATED_SIGNAL",
		"-D_WASI_EMULATED_PROCESS_CLOCKS",
	}

	if state.Settings.WasmExceptions {
		args = append(args, "-fwasm-exceptions", "-mllvm", "--wasm-enable-sjlj")
		if state.CXX {
			// Enable C++ exceptions as well.
			args = append(args, "-mllvm", "--wasm-enable-eh")
		}
	}

	if state.Settings.ResolvedModuleKind().RequiresPIC() || state.Settings.PIC {
		args = append(args, "-fPIC", "-ftls-model=global-dynamic", "-fvisibility=default")
	} else {
		args = append(args, "-ftls-model=local-exec")
	}

	if state.Build.DebugLevel != DebugNone {
		args = append(args, "-g")
	}

	args = append(args, state.Args.CompilerArgs...)

	return args
}

// compileInputs runs the compile stage.  When producing a linkable binary,
// each input is compiled separately into an intermediate object in the
// scratch directory and registered as a linker input, since the link stage
// must interleave those objects with other inputs and standard libraries in
// a specific order.  Otherwise all inputs are compiled together into the
// declared output.
func compileInputs(state *State) error {
	compiler := "clang"
	if state.CXX {
		compiler = "clang++"
	}
	compilerPath := state.Settings.LLVMToolPath(compiler)

	sysroot, err := state.Settings.EnsureSysroot()
	if err != nil {
		return err
	}

	baseArgs := baseCompilerArgs(state, sysroot)

	if !state.Settings.ResolvedModuleKind().IsBinary() {
		// Not linking afterwards: push all inputs to the compiler to get one
		// output.
		args := append(append([]string{}, baseArgs...), state.Args.CompilerInputs...)
		if state.Args.Output != "" {
			args = append(args, "-o", state.Args.Output)
		}

		return runCommand(compilerPath, args)
	}

	// Intermediate object names carry a numeric suffix per distinct base
	// name, so inputs sharing a name in different directories don't collide.
	nameCounter := make(map[string]int)

	for _, input := range state.Args.CompilerInputs {
		inputName := filepath.Base(input)
		if inputName == "." || inputName == string(filepath.Separator) {
			inputName = "output"
		}

		objPath := filepath.Join(state.TempDir, fmt.Sprintf("%s.%d.o", inputName, nameCounter[inputName]))
		nameCounter[inputName]++

		args := append(append([]string{}, baseArgs...), input, "-o", objPath)
		state.Args.LinkerInputs = append(state.Args.LinkerInputs, objPath)

		if err := runCommand(compilerPath, args); err != nil {
			return err
		}
	}

	return nil
}
