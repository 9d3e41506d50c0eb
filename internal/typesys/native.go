package typesys

import (
	"encoding"
	"fmt"
	"reflect"

	"typedshell/pkg/typedtypes"
)

var (
	textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
	textMarshalerType   = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()
	stringerType        = reflect.TypeOf((*fmt.Stringer)(nil)).Elem()
)

// textType adapts a Go type that parses itself from text (its pointer
// implements encoding.TextUnmarshaler) into a registry type.
type textType struct {
	name string
	rt   reflect.Type
}

func newTextType(name string, rt reflect.Type) (*textType, error) {
	if rt == nil {
		return nil, typedtypes.NewTypeSystemError("cannot register a nil type", "type", name)
	}
	if !reflect.PointerTo(rt).Implements(textUnmarshalerType) {
		return nil, typedtypes.NewTypeSystemError("native type must implement encoding.TextUnmarshaler",
			"type", name, "native", rt.String())
	}
	if !rt.Implements(stringerType) && !rt.Implements(textMarshalerType) {
		return nil, typedtypes.NewTypeSystemError("native type must implement fmt.Stringer or encoding.TextMarshaler",
			"type", name, "native", rt.String())
	}
	return &textType{name: name, rt: rt}, nil
}

func (t *textType) Name() string { return t.name }

func (t *textType) NativeType() reflect.Type { return t.rt }

func (t *textType) Convert(value any) (any, error) {
	if value == nil {
		return nil, nil
	}
	if reflect.TypeOf(value) == t.rt {
		return value, nil
	}
	s, ok := value.(string)
	if !ok {
		return nil, typedtypes.NewConversionError("unknown argument type",
			"type", t.name, "value_type", fmt.Sprintf("%T", value))
	}
	ptr := reflect.New(t.rt)
	if err := ptr.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(s)); err != nil {
		return nil, typedtypes.NewConversionError("could not parse value", "type", t.name, "value", s).Wrap(err)
	}
	return ptr.Elem().Interface(), nil
}

func (t *textType) Format(value any) (string, error) {
	conv, err := t.Convert(value)
	if err != nil {
		return "", err
	}
	if s, ok := conv.(fmt.Stringer); ok {
		return s.String(), nil
	}
	text, err := conv.(encoding.TextMarshaler).MarshalText()
	if err != nil {
		return "", typedtypes.NewConversionError("could not format value", "type", t.name).Wrap(err)
	}
	return string(text), nil
}

// aliasType re-exports a resolved type under another name, keeping its
// named formatters, validators and binary conversion.
type aliasType struct {
	name   string
	target typedtypes.Type
}

func (a *aliasType) Name() string { return a.name }

func (a *aliasType) Convert(value any) (any, error) { return a.target.Convert(value) }

func (a *aliasType) Format(value any) (string, error) { return a.target.Format(value) }

func (a *aliasType) Formatter(name string) (typedtypes.FormatFunc, bool) {
	if fs, ok := a.target.(typedtypes.FormatterSet); ok {
		return fs.Formatter(name)
	}
	return nil, false
}

func (a *aliasType) Validator(name string) (typedtypes.ValidateFunc, bool) {
	if vs, ok := a.target.(typedtypes.ValidatorSet); ok {
		return vs.Validator(name)
	}
	return nil, false
}

func (a *aliasType) FormatterNames() []string {
	if in, ok := a.target.(typedtypes.Introspectable); ok {
		return in.FormatterNames()
	}
	return nil
}

func (a *aliasType) ValidatorNames() []string {
	if in, ok := a.target.(typedtypes.Introspectable); ok {
		return in.ValidatorNames()
	}
	return nil
}

func (a *aliasType) ConvertBinary(data []byte) (any, error) {
	if bc, ok := a.target.(typedtypes.BinaryConverter); ok {
		return bc.ConvertBinary(data)
	}
	return a.target.Convert(data)
}
