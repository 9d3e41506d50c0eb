package typedtypes

import "reflect"

// Type is a resolved type implementation. Convert turns a string (or an
// already-typed value) into the type's native Go value and Format is the
// default formatter. Both must accept nil: Convert(nil) returns nil.
type Type interface {
	Name() string
	Convert(value any) (any, error)
	Format(value any) (string, error)
}

// BinaryConverter is implemented by types that can be built from raw bytes.
type BinaryConverter interface {
	ConvertBinary(data []byte) (any, error)
}

// Sized is implemented by types with a fixed binary encoding length.
// ConvertBinary input is checked against Size before conversion.
type Sized interface {
	Size() int
}

// FormatFunc is a named extra formatter. Composite formatters receive the
// names of the formatters to apply to their elements in subFormatters.
type FormatFunc func(value any, subFormatters ...string) (string, error)

// FormatterSet exposes named extra formatters ("hex", "hexdump", "compact").
type FormatterSet interface {
	Formatter(name string) (FormatFunc, bool)
}

// ValidateFunc checks an already converted value. args are the extra
// arguments declared alongside the validator on a parameter.
type ValidateFunc func(value any, args ...any) error

// ValidatorSet exposes named validators ("positive", "range", "not_empty").
type ValidatorSet interface {
	Validator(name string) (ValidateFunc, bool)
}

// Introspectable lists the named formatters and validators a type offers.
type Introspectable interface {
	FormatterNames() []string
	ValidatorNames() []string
}

// Aliased types are also registered under each alias.
type Aliased interface {
	Aliases() []string
}

// NativeMapped types can be resolved from a reflect.Type key.
type NativeMapped interface {
	NativeType() reflect.Type
}

// Factory builds composite types from already resolved element types.
type Factory interface {
	Name() string
	Build(ts TypeSystem, elems ...Type) (Type, error)
}

// KindMapped factories can be resolved from a native reflect.Type of the
// given kind; the element types are taken from the native type itself.
type KindMapped interface {
	MappedKind() reflect.Kind
}

// TypeSystem is the view of the registry that composite types hold so they
// can recursively convert and format their elements. A key is a type name,
// a reflect.Type or an already resolved Type.
type TypeSystem interface {
	Resolve(key any) (Type, error)
	Convert(value any, key any) (any, error)
	Format(value any, key any, formatter string, subFormatters ...string) (string, error)
}

// Module is a bulk set of named type implementations or factories. Names
// starting with an underscore are private and never registered.
type Module map[string]any
