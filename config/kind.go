package config

import "fmt"

// ModuleKind is the structural role of a build's output.
type ModuleKind int

const (
	// StaticMain is an executable main module with no dynamic linking
	// capability.
	StaticMain ModuleKind = iota

	// DynamicMain is a main module capable of loading dynamically-linked side
	// modules at runtime.
	DynamicMain

	// SharedLibrary is a dynamically-linked side module which can be loaded
	// by a dynamic main.
	SharedLibrary

	// ObjectFile is an unlinked object file.
	ObjectFile
)

// RequiresPIC returns whether the module kind requires position-independent
// code.
func (k ModuleKind) RequiresPIC() bool {
	return k == DynamicMain || k == SharedLibrary
}

// IsBinary returns whether the module kind is a linked binary.
func (k ModuleKind) IsBinary() bool {
	return k == StaticMain || k == DynamicMain || k == SharedLibrary
}

// IsExecutable returns whether the module kind is a main module.
func (k ModuleKind) IsExecutable() bool {
	return k == StaticMain || k == DynamicMain
}

func (k ModuleKind) String() string {
	switch k {
	case StaticMain:
		return "static-main"
	case DynamicMain:
		return "dynamic-main"
	case SharedLibrary:
		return "shared-library"
	case ObjectFile:
		return "object-file"
	default:
		return fmt.Sprintf("ModuleKind(%d)", int(k))
	}
}

// ParseModuleKind parses the external string form of a module kind.
func ParseModuleKind(s string) (ModuleKind, error) {
	switch s {
	case "static-main":
		return StaticMain, nil
	case "dynamic-main":
		return DynamicMain, nil
	case "shared-library":
		return SharedLibrary, nil
	case "object-file":
		return ObjectFile, nil
	default:
		return 0, fmt.Errorf("unknown module kind: %s", s)
	}
}
