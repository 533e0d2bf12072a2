// wasixcc is the multi-call toolchain wrapper binary: the tool mode is
// chosen from the name it is invoked under (wasixcc, wasix++, wasixld,
// wasixar, ...), normally via the symlinks created by --install-executables
// or `wasixenv install-executables`.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"wasixcc/driver"
	"wasixcc/report"
)

const usage = `Usage: %s [OPTIONS] -- [PASS-THROUGH OPTIONS]

Options:
  --help, -h                     Print this help message
  --version, -v                  Print version information
  -s[CONFIG]=[VALUE]             Set a configuration value, see list below
  --install-executables <PATH>   Install executables to the specified path

%s
Note: Pass-through options are passed directly to the underlying
LLVM executables (e.g., clang, wasm-ld, etc.). This is useful for
getting version information or help messages from the underlying
tools, but has little use otherwise.
`

func main() {
	_ = godotenv.Load()
	report.InitReporterFromEnv()

	if err := run(); err != nil {
		report.DisplayError(err)
		os.Exit(1)
	}
}

func run() error {
	exeName, err := executableName()
	if err != nil {
		return err
	}

	// Scan for builtin options before the first `--`; everything after it
	// belongs to the wrapped tool.
	args := os.Args[1:]
scan:
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--help", "-h":
			fmt.Printf(usage, exeName, driver.ConfigHelp)
			return nil

		case "--version", "-v":
			fmt.Printf("%s version: %s\n", exeName, driver.Version)
			return nil

		case "--install-executables":
			if i+1 >= len(args) {
				fmt.Printf("Usage: %s --install-executables <PATH>\n", exeName)
				os.Exit(1)
			}
			return driver.InstallExecutables(args[i+1])

		case "--":
			break scan
		}
	}

	command, err := driver.CommandFromExecutable(exeName)
	if err != nil {
		return err
	}

	return driver.RunCommand(command, args)
}

func executableName() (string, error) {
	if len(os.Args) == 0 {
		return "", fmt.Errorf("empty argument list")
	}

	return filepath.Base(os.Args[0]), nil
}
