package commands

import "fmt"

// Args holds converted argument values keyed by parameter name.
type Args map[string]any

// Get returns the raw value of a parameter.
func (a Args) Get(name string) any { return a[name] }

// Int returns an integer argument. Values of other kinds yield 0.
func (a Args) Int(name string) int64 {
	switch v := a[name].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	}
	return 0
}

// Bool returns a boolean argument.
func (a Args) Bool(name string) bool {
	v, _ := a[name].(bool)
	return v
}

// String returns a string argument, stringifying non-string values. A missing
// or nil value yields "".
func (a Args) String(name string) string {
	switch v := a[name].(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
