package build

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/kballard/go-shellquote"

	"wasixcc/report"
)

// runCommand executes a synthesized tool invocation, failing hard on launch
// failure or nonzero exit.  The wrapped tool inherits our standard streams.
func runCommand(path string, args []string) error {
	report.Debugf("executing build command: %s", shellquote.Join(append([]string{path}, args...)...))

	cmd := exec.Command(path, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		if _, ok := err.(*exec.ExitError); ok {
			return fmt.Errorf("command failed with %s; the command was: %s %s",
				err, path, shellquote.Join(args...))
		}

		return fmt.Errorf("failed to run command %s: %w", path, err)
	}

	return nil
}
