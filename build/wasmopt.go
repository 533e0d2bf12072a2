package build

import (
	"fmt"
	"io"
	"os"
	"strings"

	"wasixcc/report"
)

// wasmOptEnabledFeatures is the fixed feature set every optimizer run
// enables; validation already happened upstream in the linker.
var wasmOptEnabledFeatures = []string{
	"--enable-threads",
	"--enable-mutable-globals",
	"--enable-bulk-memory",
	"--enable-bulk-memory-opt",
	"--enable-exception-handling",
}

// shouldRunWasmOpt decides whether the post-link optimizer runs.  Explicit
// user intent always overrides inline-flag inference: run if the user
// explicitly requested it, or if the user didn't explicitly disable it and
// the inline flags left it enabled.
func shouldRunWasmOpt(state *State) bool {
	if state.Settings.RunWasmOpt != nil {
		return *state.Settings.RunWasmOpt
	}

	return state.Build.UseWasmOpt
}

// wasmOptArgs synthesizes the optimizer pass/flag list.  A nil return means
// no pass or flag was requested at all and the invocation must be skipped.
func wasmOptArgs(state *State) []string {
	var args []string

	if !state.Settings.WasmOptSuppressDefault {
		if state.Settings.WasmExceptions {
			args = append(args, "--emit-exnref")
		} else {
			args = append(args, "--asyncify")
		}

		userSuppliedOptLevel := false
		for _, flag := range state.Settings.WasmOptFlags {
			if strings.HasPrefix(flag, "-O") {
				userSuppliedOptLevel = true
				break
			}
		}

		// -O0 does nothing, no need to specify it.
		if !userSuppliedOptLevel && state.Build.OptLevel != O0 {
			args = append(args, state.Build.OptLevel.Flag())
		}
	}

	args = append(args, state.Settings.WasmOptFlags...)

	return args
}

// runWasmOpt rewrites the linked artifact in place with the post-link
// optimizer.
func runWasmOpt(state *State) error {
	args := wasmOptArgs(state)
	if len(args) == 0 {
		report.Infof("skipping wasm-opt as no passes were specified or needed")
		return nil
	}

	if state.Build.DebugLevel.emitsDebugInfo() {
		args = append(args, "-g")
	}

	args = append(args, "--no-validation")
	args = append(args, wasmOptEnabledFeatures...)

	output := outputPath(state)
	args = append(args, output, "-o", output)

	if state.Settings.WasmOptPreserveUnoptimized {
		if err := copyFile(output, output+".orig"); err != nil {
			return fmt.Errorf("failed to preserve unoptimized output: %w", err)
		}
	}

	return runCommand(state.Settings.WasmOptPath(), args)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}

	return out.Close()
}
