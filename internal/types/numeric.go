package types

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"typedshell/pkg/typedtypes"
)

// asInt64 converts any Go integer kind to int64. Unsigned values above
// MaxInt64 do not fit.
func asInt64(v any) (int64, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return 0, false
		}
		return int64(u), true
	default:
		return 0, false
	}
}

// asFloat64 converts any Go integer or float kind to float64.
func asFloat64(v any) (float64, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint()), true
	}
	if i, ok := asInt64(v); ok {
		return float64(i), true
	}
	return 0, false
}

// numericArg reads a validator argument that may have been declared as a Go
// number or as a string (validators declared in configuration files).
func numericArg(arg any) (float64, error) {
	if s, ok := arg.(string); ok {
		if i, err := strconv.ParseInt(strings.TrimSpace(s), 0, 64); err == nil {
			return float64(i), nil
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0, fmt.Errorf("validator argument %q is not a number", s)
		}
		return f, nil
	}
	if f, ok := asFloat64(arg); ok {
		return f, nil
	}
	return 0, fmt.Errorf("validator argument %v is not a number", arg)
}

func rangeArgs(args []any) (float64, float64, error) {
	if len(args) != 2 {
		return 0, 0, fmt.Errorf("range validator takes 2 arguments, got %d", len(args))
	}
	lower, err := numericArg(args[0])
	if err != nil {
		return 0, 0, err
	}
	upper, err := numericArg(args[1])
	if err != nil {
		return 0, 0, err
	}
	return lower, upper, nil
}

// Integer is the "integer" type, backed by int64.
type Integer struct {
	table
}

// NewInteger creates the integer type.
func NewInteger() *Integer {
	t := &Integer{table: newTable()}
	t.formatters["hex"] = func(v any, _ ...string) (string, error) {
		i, err := t.typed(v)
		if err != nil {
			return "", err
		}
		if i < 0 {
			return fmt.Sprintf("-0x%X", -i), nil
		}
		return fmt.Sprintf("0x%X", i), nil
	}
	t.formatters["unsigned"] = func(v any, _ ...string) (string, error) {
		i, err := t.typed(v)
		if err != nil {
			return "", err
		}
		return strconv.FormatInt(i, 10), nil
	}
	t.validators["positive"] = intValidator(func(i int64, _ []any) error {
		if i <= 0 {
			return fmt.Errorf("value is not positive")
		}
		return nil
	})
	t.validators["nonnegative"] = intValidator(func(i int64, _ []any) error {
		if i < 0 {
			return fmt.Errorf("value is negative")
		}
		return nil
	})
	t.validators["range"] = intValidator(func(i int64, args []any) error {
		lower, upper, err := rangeArgs(args)
		if err != nil {
			return err
		}
		if float64(i) < lower || float64(i) > upper {
			return fmt.Errorf("not in required range [%d, %d]", int64(lower), int64(upper))
		}
		return nil
	})
	return t
}

func intValidator(check func(int64, []any) error) typedtypes.ValidateFunc {
	return func(v any, args ...any) error {
		if v == nil {
			return nil
		}
		i, ok := asInt64(v)
		if !ok {
			return fmt.Errorf("expected an integer, got %T", v)
		}
		return check(i, args)
	}
}

func (t *Integer) Name() string { return "integer" }

func (t *Integer) Aliases() []string { return []string{"int"} }

func (t *Integer) NativeType() reflect.Type { return reflect.TypeOf(int64(0)) }

// Convert accepts Go integers and strings in any base-prefixed literal form
// (0x1F, 0o17, 0b101, 1_000).
func (t *Integer) Convert(value any) (any, error) {
	if value == nil {
		return nil, nil
	}
	if s, ok := value.(string); ok {
		i, err := strconv.ParseInt(strings.TrimSpace(s), 0, 64)
		if err != nil {
			return nil, typedtypes.NewConversionError("invalid integer literal", "value", s).Wrap(err)
		}
		return i, nil
	}
	if i, ok := asInt64(value); ok {
		return i, nil
	}
	return nil, typedtypes.NewConversionError("unknown argument type", "type", fmt.Sprintf("%T", value))
}

func (t *Integer) typed(v any) (int64, error) {
	c, err := t.Convert(v)
	if err != nil {
		return 0, err
	}
	i, _ := c.(int64)
	return i, nil
}

func (t *Integer) Format(value any) (string, error) {
	i, err := t.typed(value)
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(i, 10), nil
}

// Float is the "float" type, backed by float64.
type Float struct {
	table
}

// NewFloat creates the float type.
func NewFloat() *Float {
	t := &Float{table: newTable()}
	t.validators["positive"] = floatValidator(func(f float64, _ []any) error {
		if f <= 0 {
			return fmt.Errorf("value is not positive")
		}
		return nil
	})
	t.validators["nonnegative"] = floatValidator(func(f float64, _ []any) error {
		if f < 0 {
			return fmt.Errorf("value is negative")
		}
		return nil
	})
	t.validators["range"] = floatValidator(func(f float64, args []any) error {
		lower, upper, err := rangeArgs(args)
		if err != nil {
			return err
		}
		if f < lower || f > upper {
			return fmt.Errorf("not in required range [%f, %f]", lower, upper)
		}
		return nil
	})
	return t
}

func floatValidator(check func(float64, []any) error) typedtypes.ValidateFunc {
	return func(v any, args ...any) error {
		if v == nil {
			return nil
		}
		f, ok := asFloat64(v)
		if !ok {
			return fmt.Errorf("expected a float, got %T", v)
		}
		return check(f, args)
	}
}

func (t *Float) Name() string { return "float" }

func (t *Float) NativeType() reflect.Type { return reflect.TypeOf(float64(0)) }

func (t *Float) Convert(value any) (any, error) {
	if value == nil {
		return nil, nil
	}
	if s, ok := value.(string); ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return nil, typedtypes.NewConversionError("invalid float literal", "value", s).Wrap(err)
		}
		return f, nil
	}
	if f, ok := asFloat64(value); ok {
		return f, nil
	}
	return nil, typedtypes.NewConversionError("unknown argument type", "type", fmt.Sprintf("%T", value))
}

// Format renders whole numbers with a trailing ".0" so a float never reads
// back as an integer.
func (t *Float) Format(value any) (string, error) {
	c, err := t.Convert(value)
	if err != nil {
		return "", err
	}
	f, _ := c.(float64)
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s, nil
}
