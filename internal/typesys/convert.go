package typesys

import (
	"fmt"

	"typedshell/internal/types"
	"typedshell/pkg/typedtypes"
)

// Convert converts value to the type named by key. nil converts to nil for
// every type. A []byte value goes through the type's binary converter when
// it has one. Conversion failures are ValidationErrors wrapping the cause.
func (r *Registry) Convert(value any, key any) (any, error) {
	if value == nil {
		return nil, nil
	}
	t, err := r.Resolve(key)
	if err != nil {
		return nil, err
	}

	if data, ok := value.([]byte); ok {
		if _, binary := t.(typedtypes.BinaryConverter); binary {
			return r.convertBinary(data, t)
		}
	}

	conv, err := t.Convert(value)
	if err != nil {
		if typedtypes.KindOf(err) == typedtypes.KindValidation {
			return nil, err
		}
		return nil, typedtypes.NewValidationError("Could not convert value",
			"type", t.Name(), "value", value).Wrap(err)
	}
	return conv, nil
}

// ConvertBinary converts raw bytes to the type named by key. The type must
// have a binary converter and, if it declares a fixed size, data must match.
func (r *Registry) ConvertBinary(data []byte, key any) (any, error) {
	t, err := r.Resolve(key)
	if err != nil {
		return nil, err
	}
	return r.convertBinary(data, t)
}

func (r *Registry) convertBinary(data []byte, t typedtypes.Type) (any, error) {
	bc, ok := t.(typedtypes.BinaryConverter)
	if !ok {
		return nil, typedtypes.NewArgumentError("Type does not support conversion from binary", "type", t.Name())
	}
	if s, sized := t.(typedtypes.Sized); sized && s.Size() > 0 && s.Size() != len(data) {
		return nil, typedtypes.NewArgumentError("Binary data has the wrong size for type",
			"type", t.Name(), "expected", s.Size(), "actual", len(data))
	}
	conv, err := bc.ConvertBinary(data)
	if err != nil {
		return nil, typedtypes.NewValidationError("Could not convert binary value", "type", t.Name()).Wrap(err)
	}
	return conv, nil
}

// Format converts value to the type named by key and renders it. An empty,
// "default", "str" or "string" formatter selects the type's default
// formatter; any other name must be one of the type's named formatters.
// subFormatters are passed on to the named formatter. A nil value formats as
// the empty string.
func (r *Registry) Format(value any, key any, formatter string, subFormatters ...string) (string, error) {
	t, err := r.Resolve(key)
	if err != nil {
		return "", err
	}
	conv, err := r.Convert(value, t)
	if err != nil {
		return "", err
	}
	if conv == nil {
		return "", nil
	}

	if types.IsDefaultFormatter(formatter) {
		return t.Format(conv)
	}

	f, ok := lookupFormatter(t, formatter)
	if !ok {
		return "", typedtypes.NewArgumentError("Unknown format for type",
			"type", t.Name(), "format", formatter, "known_formats", formatterNames(t))
	}
	return f(conv, subFormatters...)
}

// IsKnownFormat reports whether the type named by key has formatter.
func (r *Registry) IsKnownFormat(key any, formatter string) (bool, error) {
	t, err := r.Resolve(key)
	if err != nil {
		return false, err
	}
	if types.IsDefaultFormatter(formatter) {
		return true, nil
	}
	_, ok := lookupFormatter(t, formatter)
	return ok, nil
}

// Validate runs the named validator of the type named by key on an already
// converted value.
func (r *Registry) Validate(value any, key any, validator string, args ...any) error {
	t, err := r.Resolve(key)
	if err != nil {
		return err
	}
	vs, ok := t.(typedtypes.ValidatorSet)
	var fn typedtypes.ValidateFunc
	if ok {
		fn, ok = vs.Validator(validator)
	}
	if !ok {
		return typedtypes.NewValidationError("Could not find validator for type",
			"type", t.Name(), "validator", validator)
	}
	if err := fn(value, args...); err != nil {
		return typedtypes.NewValidationError(err.Error(), "type", t.Name(), "value", value).Wrap(err)
	}
	return nil
}

func lookupFormatter(t typedtypes.Type, name string) (typedtypes.FormatFunc, bool) {
	fs, ok := t.(typedtypes.FormatterSet)
	if !ok {
		return nil, false
	}
	return fs.Formatter(name)
}

func formatterNames(t typedtypes.Type) string {
	if in, ok := t.(typedtypes.Introspectable); ok {
		return fmt.Sprint(in.FormatterNames())
	}
	return "[]"
}
