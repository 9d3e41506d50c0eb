// Package types provides the built-in type implementations: integer, float,
// bool, bytes, string, path and dict, plus the list and map factories that
// compose them.
package types

import (
	"sort"

	"typedshell/pkg/typedtypes"
)

// table holds the named formatters and validators of a type and implements
// FormatterSet, ValidatorSet and Introspectable for it.
type table struct {
	formatters map[string]typedtypes.FormatFunc
	validators map[string]typedtypes.ValidateFunc
}

func newTable() table {
	return table{
		formatters: make(map[string]typedtypes.FormatFunc),
		validators: make(map[string]typedtypes.ValidateFunc),
	}
}

func (t table) Formatter(name string) (typedtypes.FormatFunc, bool) {
	f, ok := t.formatters[name]
	return f, ok
}

func (t table) Validator(name string) (typedtypes.ValidateFunc, bool) {
	v, ok := t.validators[name]
	return v, ok
}

func (t table) FormatterNames() []string {
	return sortedKeys(t.formatters)
}

func (t table) ValidatorNames() []string {
	return sortedKeys(t.validators)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
