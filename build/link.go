package build

import (
	"path/filepath"

	"wasixcc/config"
)

// linkArgs synthesizes the single link invocation.  The downstream linker is
// sensitive to flag ordering and duplication, so the order below is part of
// the tool contract and must not be rearranged.
func linkArgs(state *State, sysroot string) []string {
	sysrootLib := filepath.Join(sysroot, "lib")
	sysrootLibWasm32 := filepath.Join(sysrootLib, "wasm32-wasi")

	args := append([]string{}, state.Args.LinkerArgs...)

	args = append(args,
		"--extra-features=atomics",
		"--extra-features=bulk-memory",
		"--extra-features=mutable-globals",
		"--shared-memory",
		"--max-memory=4294967296",
		"--import-memory",
		"--export-dynamic",
		"--export=__wasm_call_ctors",
	)

	args = append(args, state.Settings.ExtraLinkerFlags...)

	if state.Settings.WasmExceptions {
		args = append(args, "-mllvm", "--wasm-enable-sjlj")
		if state.CXX {
			args = append(args, "-mllvm", "--wasm-enable-eh")
		}
	}

	moduleKind := state.Settings.ResolvedModuleKind()

	args = append(args,
		"--export=__wasm_init_tls",
		"--export=__wasm_signal",
		"--export=__tls_size",
		"--export=__tls_align",
		"--export=__tls_base",
	)

	if moduleKind.IsExecutable() {
		args = append(args,
			"--export-if-defined=__stack_pointer",
			"--export-if-defined=__heap_base",
			"--export-if-defined=__data_end",
		)
	}

	if moduleKind == config.DynamicMain {
		args = append(args, "--whole-archive", "--export-all")
	}

	// Make the sysroot libs available to all modules so they can optionally
	// link against them if needed, even when we don't.
	args = append(args, "-L"+sysrootLib, "-L"+sysrootLibWasm32)

	if moduleKind.IsExecutable() {
		args = append(args,
			"-lwasi-emulated-getpid",
			"-lwasi-emulated-mman",
			"-lwasi-emulated-process-clocks",
			"-lc",
			"-lresolv",
			"-lrt",
			"-lm",
			"-lpthread",
			"-lutil",
		)

		if state.CXX {
			args = append(args, "-lc++", "-lc++abi", "-lunwind")
		}
	}

	if moduleKind == config.DynamicMain {
		args = append(args, "--no-whole-archive")
	}

	// Link as much as needed out of libclang_rt.builtins regardless of
	// module kind.
	args = append(args, "-lclang_rt.builtins-wasm32")

	if moduleKind.RequiresPIC() {
		args = append(args,
			"--experimental-pic",
			"--export-if-defined=__wasm_apply_data_relocs",
			"--export-if-defined=__wasm_apply_tls_relocs",
		)
	}

	switch moduleKind {
	case config.StaticMain:
		args = append(args, "-z", "stack-size=8388608")

	case config.DynamicMain:
		args = append(args, "-pie", "-lcommon-tag-stubs")

	case config.SharedLibrary:
		args = append(args, "-shared", "--no-entry", "--unresolved-symbols=import-dynamic")
		if state.Settings.LinkSymbolic {
			args = append(args, "-Bsymbolic")
		}

	case config.ObjectFile:
		// The binaries-only gate at the call sites makes this unreachable.
		panic("internal error: object files can't be linked")
	}

	args = append(args, state.Args.LinkerInputs...)

	if moduleKind.IsExecutable() {
		args = append(args, filepath.Join(sysrootLibWasm32, "crt1.o"))
	} else {
		args = append(args, filepath.Join(sysrootLibWasm32, "scrt1.o"))
	}

	args = append(args, "-o", outputPath(state))

	return args
}

// linkInputs runs the link stage.
func linkInputs(state *State) error {
	sysroot, err := state.Settings.EnsureSysroot()
	if err != nil {
		return err
	}

	return runCommand(state.Settings.LLVMToolPath("wasm-ld"), linkArgs(state, sysroot))
}
