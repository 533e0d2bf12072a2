package config

import (
	"fmt"
	"os"
	"path/filepath"

	"wasixcc/report"
)

// llvmFallbackVersion is the version suffix used to invoke system LLVM
// binaries when no compatible toolchain is installed in the default location.
const llvmFallbackVersion = 21

// Location is the directory a toolchain component is installed in.  A
// user-provided location is always honored verbatim; a default location
// falls back to tools from the ambient environment when nothing is installed
// there.
type Location struct {
	path         string
	userProvided bool
}

// UserProvidedLocation returns a location explicitly configured by the user.
func UserProvidedLocation(path string) Location {
	return Location{path: path, userProvided: true}
}

// DefaultLocation returns the built-in default location of a component.
func DefaultLocation(path string) Location {
	return Location{path: path}
}

// Dir returns the directory of the location, eg. as a download target.
func (l Location) Dir() string {
	return l.path
}

// toolPath resolves the path of the named tool binary.  The fallback is the
// command invoked from the ambient environment when a default location has
// no bin directory; a user-provided path is never overridden, even if it
// does not exist (the invocation itself will fail later).
func (l Location) toolPath(tool, fallback, downloadHint string) string {
	if l.userProvided {
		return filepath.Join(l.path, "bin", tool)
	}

	binDir := filepath.Join(l.path, "bin")
	if info, err := os.Stat(binDir); err == nil && info.IsDir() {
		return filepath.Join(binDir, tool)
	}

	report.Warningf(
		"no installation found in default path %s; falling back to %s from the environment. "+
			"Output may be broken. %s",
		l.path, fallback, downloadHint,
	)

	return fallback
}

// LLVMToolPath resolves the path of the named LLVM tool (clang, wasm-ld,
// llvm-ar, ...) according to the configured LLVM location.
func (s *UserSettings) LLVMToolPath(tool string) string {
	fallback := fmt.Sprintf("%s-%d", tool, llvmFallbackVersion)
	return s.LLVM.toolPath(tool, fallback, "Use `wasixenv download-llvm` to download a compatible version.")
}

// WasmOptPath resolves the path of the wasm-opt binary according to the
// configured binaryen location.
func (s *UserSettings) WasmOptPath() string {
	return s.Binaryen.toolPath("wasm-opt", "wasm-opt", "Use `wasixenv download-binaryen` to download a compatible version.")
}
