package driver

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandFromExecutable(t *testing.T) {
	cases := map[string]string{
		"wasix-cc":   "cc",
		"wasixcc":    "cc",
		"wasix-cc++": "cc++",
		"wasix++":    "++",
		"wasixld":    "ld",
		"wasix-ar":   "ar",
	}

	for exeName, want := range cases {
		command, err := CommandFromExecutable(exeName)
		require.NoError(t, err, exeName)
		assert.Equal(t, want, command, exeName)
	}

	_, err := CommandFromExecutable("clang")
	assert.ErrorContains(t, err, "failed to get command name")
}

func TestRunCommandUnknown(t *testing.T) {
	err := RunCommand("frobnicate", nil)
	assert.ErrorContains(t, err, "unknown command")
}

func TestInstallExecutables(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlink installation is unix only")
	}

	dir := filepath.Join(t.TempDir(), "bin")
	require.NoError(t, InstallExecutables(dir))

	for _, command := range Commands {
		target := filepath.Join(dir, "wasix"+command)
		info, err := os.Lstat(target)
		require.NoError(t, err, target)
		assert.NotZero(t, info.Mode()&os.ModeSymlink, target)
	}

	// Installing a second time replaces the existing links.
	require.NoError(t, InstallExecutables(dir))
}
