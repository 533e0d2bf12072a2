package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveSysroot(t *testing.T) {
	settings := &UserSettings{SysrootPrefix: "/prefix"}

	sysroot, err := settings.ResolveSysroot()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/prefix", "sysroot"), sysroot)

	settings.WasmExceptions = true
	sysroot, err = settings.ResolveSysroot()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/prefix", "sysroot-eh"), sysroot)

	settings.PIC = true
	sysroot, err = settings.ResolveSysroot()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/prefix", "sysroot-ehpic"), sysroot)

	settings.WasmExceptions = false
	_, err = settings.ResolveSysroot()
	assert.Error(t, err)
}

func TestResolveSysrootExplicit(t *testing.T) {
	// An explicit sysroot short-circuits the variant table, even for
	// configurations the table rejects.
	settings := &UserSettings{
		SysrootLocation: "/explicit",
		SysrootPrefix:   "/prefix",
		PIC:             true,
	}

	sysroot, err := settings.ResolveSysroot()
	require.NoError(t, err)
	assert.Equal(t, "/explicit", sysroot)
}

func TestEnsureSysroot(t *testing.T) {
	dir := t.TempDir()
	settings := &UserSettings{SysrootLocation: dir}

	sysroot, err := settings.EnsureSysroot()
	require.NoError(t, err)
	assert.Equal(t, dir, sysroot)

	settings.SysrootLocation = filepath.Join(dir, "missing")
	_, err = settings.EnsureSysroot()
	assert.ErrorContains(t, err, "sysroot does not exist")

	// A file is not a valid sysroot either.
	file := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(file, nil, 0o644))
	settings.SysrootLocation = file
	_, err = settings.EnsureSysroot()
	assert.Error(t, err)
}
