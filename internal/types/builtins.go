package types

import "typedshell/pkg/typedtypes"

// Builtins returns a fresh module holding every built-in type and factory,
// keyed by canonical name.
func Builtins() typedtypes.Module {
	return typedtypes.Module{
		"integer": NewInteger(),
		"float":   NewFloat(),
		"bool":    NewBool(),
		"bytes":   NewBytes(),
		"string":  NewString(),
		"path":    NewPath(),
		"dict":    NewDict(),
		"list":    ListFactory{},
		"map":     MapFactory{},
	}
}
