package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// ResolveSysroot returns the sysroot directory for the current
// configuration.  An explicit SYSROOT setting always wins; otherwise the
// sysroot variant is a pure function of the exception-handling and PIC
// settings.
func (s *UserSettings) ResolveSysroot() (string, error) {
	if s.SysrootLocation != "" {
		return s.SysrootLocation, nil
	}

	switch {
	case s.WasmExceptions && s.PIC:
		return filepath.Join(s.SysrootPrefix, "sysroot-ehpic"), nil
	case s.WasmExceptions:
		return filepath.Join(s.SysrootPrefix, "sysroot-eh"), nil
	case s.PIC:
		return "", fmt.Errorf("PIC without wasm exceptions is not a valid build configuration")
	default:
		return filepath.Join(s.SysrootPrefix, "sysroot"), nil
	}
}

// EnsureSysroot resolves the sysroot directory and validates that it exists.
func (s *UserSettings) EnsureSysroot() (string, error) {
	sysroot, err := s.ResolveSysroot()
	if err != nil {
		return "", err
	}

	info, err := os.Stat(sysroot)
	if err != nil || !info.IsDir() {
		return "", fmt.Errorf("sysroot does not exist: %s", sysroot)
	}

	return sysroot, nil
}
