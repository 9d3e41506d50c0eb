package types

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"typedshell/pkg/typedtypes"
)

// Bool is the "bool" type.
type Bool struct {
	table
}

// NewBool creates the bool type.
func NewBool() *Bool {
	return &Bool{table: newTable()}
}

func (t *Bool) Name() string { return "bool" }

func (t *Bool) NativeType() reflect.Type { return reflect.TypeOf(false) }

// Convert accepts "true"/"false" in any case, native booleans and numbers
// (zero is false, everything else true).
func (t *Bool) Convert(value any) (any, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case bool:
		return v, nil
	case string:
		switch strings.ToLower(v) {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
		return nil, typedtypes.NewConversionError(
			fmt.Sprintf("unknown boolean value (should be true or false): %s", v))
	}
	if f, ok := asFloat64(value); ok {
		return f != 0, nil
	}
	return nil, typedtypes.NewConversionError("unknown argument type", "type", fmt.Sprintf("%T", value))
}

func (t *Bool) Format(value any) (string, error) {
	c, err := t.Convert(value)
	if err != nil {
		return "", err
	}
	b, _ := c.(bool)
	return strconv.FormatBool(b), nil
}
