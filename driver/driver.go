// Package driver is the top-level glue of the wasix toolchain wrappers: it
// resolves which tool mode to run from the executable name, gathers the
// user settings, and hands control to the build pipeline or to a
// passthrough tool invocation.
package driver

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"wasixcc/build"
	"wasixcc/config"
	"wasixcc/report"
)

// Version is the version of the wasix toolchain wrappers.
const Version = "0.1.0"

// Commands are the tool modes installed as symlinks of the main binary.
var Commands = []string{"cc", "++", "cc++", "ar", "nm", "ranlib", "ld"}

// CommandFromExecutable derives the tool mode from the executable name,
// which must be of the form `wasix-<command>` or `wasix<command>`, such as
// wasix-cc or wasixld.
func CommandFromExecutable(exeName string) (string, error) {
	if command, ok := strings.CutPrefix(exeName, "wasix-"); ok {
		return command, nil
	}

	if command, ok := strings.CutPrefix(exeName, "wasix"); ok {
		return command, nil
	}

	return "", fmt.Errorf(
		"failed to get command name; this binary must be run with a name in the form "+
			"'wasix-<command-name>' or 'wasix<command-name>', such as wasix-cc; given %s",
		exeName,
	)
}

// GetArgsAndSettings separates the inline settings arguments from the tool
// arguments and gathers the user settings.
func GetArgsAndSettings(argv []string) ([]string, *config.UserSettings, error) {
	settingsArgs, toolArgs := config.SeparateSettingsArgs(argv)

	settings, err := config.GatherSettings(settingsArgs)
	if err != nil {
		return nil, nil, err
	}

	return toolArgs, settings, nil
}

// RunCommand dispatches a tool mode with the given raw argument list.
func RunCommand(command string, argv []string) error {
	switch command {
	case "cc":
		return runCompiler(argv, false)
	case "++", "cc++":
		return runCompiler(argv, true)
	case "ld":
		return runLinker(argv)
	case "ar":
		return runPassthroughTool("llvm-ar", argv)
	case "nm":
		return runPassthroughTool("llvm-nm", argv)
	case "ranlib":
		return runPassthroughTool("llvm-ranlib", argv)
	default:
		return fmt.Errorf("unknown command %s", command)
	}
}

func runCompiler(argv []string, runCXX bool) error {
	report.Infof("starting in compiler mode")

	args, settings, err := GetArgsAndSettings(argv)
	if err != nil {
		return err
	}

	return build.Run(args, settings, runCXX)
}

func runLinker(argv []string) error {
	report.Infof("starting in linker mode")

	args, settings, err := GetArgsAndSettings(argv)
	if err != nil {
		return err
	}

	return build.LinkOnly(args, settings)
}

// runPassthroughTool forwards the tool arguments verbatim to the named LLVM
// tool.
func runPassthroughTool(tool string, argv []string) error {
	report.Infof("starting in %s mode", tool)

	args, settings, err := GetArgsAndSettings(argv)
	if err != nil {
		return err
	}

	cmd := exec.Command(settings.LLVMToolPath(tool), args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s failed: %w", tool, err)
	}

	return nil
}

// PrintSysroot resolves and prints the sysroot for the current
// configuration.
func PrintSysroot(argv []string) error {
	_, settings, err := GetArgsAndSettings(argv)
	if err != nil {
		return err
	}

	sysroot, err := settings.EnsureSysroot()
	if err != nil {
		return err
	}

	fmt.Println(sysroot)
	return nil
}

// InstallExecutables creates the per-tool symlinks to the current
// executable in the given directory.
func InstallExecutables(path string) error {
	if runtime.GOOS == "windows" {
		return fmt.Errorf("executable installation is only supported on unix systems at this time")
	}

	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("failed to create directory at %s: %w", path, err)
	}

	exePath, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to get current executable path: %w", err)
	}

	for _, command := range Commands {
		target := filepath.Join(path, "wasix"+command)

		if _, err := os.Lstat(target); err == nil {
			if err := os.Remove(target); err != nil {
				return fmt.Errorf("failed to remove existing file at %s: %w", target, err)
			}
		}

		if err := os.Symlink(exePath, target); err != nil {
			return fmt.Errorf("failed to create symlink at %s: %w", target, err)
		}

		if err := os.Chmod(target, 0o755); err != nil {
			return fmt.Errorf("failed to set permissions for %s: %w", target, err)
		}

		fmt.Printf("Created command %s\n", target)
	}

	return nil
}
