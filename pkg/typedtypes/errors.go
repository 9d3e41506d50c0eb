package typedtypes

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies an Error. Callers switch on the kind (or use errors.Is with
// one of the sentinel values) rather than on message text.
type Kind int

const (
	// KindArgument means a call could not be fulfilled as specified: unknown
	// command or type, too many positional arguments, bad flag syntax.
	KindArgument Kind = iota + 1
	// KindValidation means a value was convertible but failed a validator, or a
	// required parameter was missing or duplicated.
	KindValidation
	// KindConversion means a value could not be converted to the requested type.
	KindConversion
	// KindTypeSystem means the type system itself was misused: malformed type
	// names, duplicate registration, incomplete type implementations.
	KindTypeSystem
	// KindNotFound means a command name was not found in the current context.
	KindNotFound
)

// String returns the conventional error-class name for the kind.
func (k Kind) String() string {
	switch k {
	case KindArgument:
		return "ArgumentError"
	case KindValidation:
		return "ValidationError"
	case KindConversion:
		return "ConversionError"
	case KindTypeSystem:
		return "TypeSystemError"
	case KindNotFound:
		return "NotFoundError"
	default:
		return "Error"
	}
}

// Error is the single error type raised by the type system, the argument
// parser and the shell. Params holds alternating key/value pairs describing
// the failure so they can be forwarded to a structured logger unchanged.
type Error struct {
	Kind   Kind
	Msg    string
	Params []any
	Err    error
}

// Sentinels for errors.Is matching by kind.
var (
	ErrArgument   = &Error{Kind: KindArgument}
	ErrValidation = &Error{Kind: KindValidation}
	ErrConversion = &Error{Kind: KindConversion}
	ErrTypeSystem = &Error{Kind: KindTypeSystem}
	ErrNotFound   = &Error{Kind: KindNotFound}
)

func newError(kind Kind, msg string, keyvals []any) *Error {
	if len(keyvals)%2 != 0 {
		keyvals = append(keyvals, "<missing>")
	}
	return &Error{Kind: kind, Msg: msg, Params: keyvals}
}

// NewArgumentError creates an ArgumentError with optional key/value parameters.
func NewArgumentError(msg string, keyvals ...any) *Error {
	return newError(KindArgument, msg, keyvals)
}

// NewValidationError creates a ValidationError with optional key/value parameters.
func NewValidationError(msg string, keyvals ...any) *Error {
	return newError(KindValidation, msg, keyvals)
}

// NewConversionError creates a ConversionError with optional key/value parameters.
func NewConversionError(msg string, keyvals ...any) *Error {
	return newError(KindConversion, msg, keyvals)
}

// NewTypeSystemError creates a TypeSystemError with optional key/value parameters.
func NewTypeSystemError(msg string, keyvals ...any) *Error {
	return newError(KindTypeSystem, msg, keyvals)
}

// NewNotFoundError creates a NotFoundError with optional key/value parameters.
func NewNotFoundError(msg string, keyvals ...any) *Error {
	return newError(KindNotFound, msg, keyvals)
}

// Wrap records cause as the underlying error and returns e for chaining.
func (e *Error) Wrap(cause error) *Error {
	e.Err = cause
	return e
}

// Error renders "<Kind>: <msg> (k=v, ...): <cause>".
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	if e.Msg != "" {
		b.WriteString(": ")
		b.WriteString(e.Msg)
	}
	if len(e.Params) > 0 {
		pairs := make([]string, 0, len(e.Params)/2)
		for i := 0; i+1 < len(e.Params); i += 2 {
			pairs = append(pairs, fmt.Sprintf("%v=%v", e.Params[i], e.Params[i+1]))
		}
		b.WriteString(" (")
		b.WriteString(strings.Join(pairs, ", "))
		b.WriteString(")")
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for e's kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Msg == "" && len(t.Params) == 0 && t.Err == nil && t.Kind == e.Kind
}

// Keyvals returns the error parameters prefixed with the error message, ready
// to pass to a charmbracelet/log call.
func (e *Error) Keyvals() []any {
	kv := make([]any, 0, len(e.Params)+2)
	kv = append(kv, "kind", e.Kind.String())
	return append(kv, e.Params...)
}

// Param looks up a parameter value by key.
func (e *Error) Param(key string) (any, bool) {
	for i := 0; i+1 < len(e.Params); i += 2 {
		if k, ok := e.Params[i].(string); ok && k == key {
			return e.Params[i+1], true
		}
	}
	return nil, false
}

// KindOf returns the kind of the outermost *Error in err's chain, or zero.
func KindOf(err error) Kind {
	var te *Error
	if errors.As(err, &te) {
		return te.Kind
	}
	return 0
}
