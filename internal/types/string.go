package types

import (
	"fmt"
	"reflect"
	"strconv"

	"typedshell/pkg/typedtypes"
)

// String is the "string" type. Any value converts to its string form.
type String struct {
	table
}

// NewString creates the string type.
func NewString() *String {
	t := &String{table: newTable()}
	t.formatters["repr"] = func(v any, _ ...string) (string, error) {
		s, err := t.typed(v)
		if err != nil {
			return "", err
		}
		return strconv.Quote(s), nil
	}
	t.validators["list"] = func(v any, choices ...any) error {
		s, _ := v.(string)
		for _, c := range choices {
			if fmt.Sprint(c) == s {
				return nil
			}
		}
		return fmt.Errorf("value not in list: %v", choices)
	}
	t.validators["not_empty"] = func(v any, _ ...any) error {
		s, _ := v.(string)
		if len(s) == 0 {
			return fmt.Errorf("string cannot be empty")
		}
		return nil
	}
	return t
}

func (t *String) Name() string { return "string" }

func (t *String) Aliases() []string { return []string{"str"} }

func (t *String) NativeType() reflect.Type { return reflect.TypeOf("") }

func (t *String) Convert(value any) (any, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	case fmt.Stringer:
		return v.String(), nil
	}
	return fmt.Sprint(value), nil
}

func (t *String) typed(v any) (string, error) {
	c, err := t.Convert(v)
	if err != nil {
		return "", err
	}
	s, _ := c.(string)
	return s, nil
}

func (t *String) Format(value any) (string, error) {
	return t.typed(value)
}

// Path is the "path" type: a string naming a file system location with
// validators for existence and access.
type Path struct {
	table
}

// NewPath creates the path type.
func NewPath() *Path {
	t := &Path{table: newTable()}
	t.validators["exists"] = func(v any, _ ...any) error {
		p, ok := v.(string)
		if !ok || !pathExists(p) {
			return fmt.Errorf("path must exist")
		}
		return nil
	}
	t.validators["readable"] = func(v any, _ ...any) error {
		p, ok := v.(string)
		if !ok {
			return fmt.Errorf("path must be readable")
		}
		return checkReadable(p)
	}
	t.validators["writeable"] = func(v any, _ ...any) error {
		p, ok := v.(string)
		if !ok {
			return fmt.Errorf("path must be writable")
		}
		return checkWriteable(p)
	}
	return t
}

func (t *Path) Name() string { return "path" }

func (t *Path) Convert(value any) (any, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case string:
		return v, nil
	case fmt.Stringer:
		return v.String(), nil
	}
	return nil, typedtypes.NewConversionError("unknown argument type", "type", fmt.Sprintf("%T", value))
}

func (t *Path) Format(value any) (string, error) {
	c, err := t.Convert(value)
	if err != nil {
		return "", err
	}
	s, _ := c.(string)
	return s, nil
}
