package types

import (
	"fmt"
	"reflect"
	"strings"

	"gopkg.in/yaml.v3"

	"typedshell/pkg/typedtypes"
)

// ListFactory builds "list(T)" types.
type ListFactory struct{}

func (ListFactory) Name() string { return "list" }

func (ListFactory) MappedKind() reflect.Kind { return reflect.Slice }

func (ListFactory) Build(ts typedtypes.TypeSystem, elems ...typedtypes.Type) (typedtypes.Type, error) {
	if len(elems) != 1 {
		return nil, typedtypes.NewArgumentError("list must be created with 1 argument, a value type",
			"arguments", len(elems))
	}
	l := &List{table: newTable(), ts: ts, elem: elems[0]}
	l.formatters["compact"] = func(v any, sub ...string) (string, error) {
		parts, err := l.formatElements(v, sub)
		if err != nil {
			return "", err
		}
		return "[" + strings.Join(parts, ", ") + "]", nil
	}
	return l, nil
}

// List converts sequences element by element through the type system.
// Converted values are []any.
type List struct {
	table
	ts   typedtypes.TypeSystem
	elem typedtypes.Type
}

func (l *List) Name() string { return "list(" + l.elem.Name() + ")" }

// Elem returns the element type.
func (l *List) Elem() typedtypes.Type { return l.elem }

// Convert accepts a flow sequence literal ("[1, 2, 3]", "['a', 'b']") or any
// Go slice or array.
func (l *List) Convert(value any) (any, error) {
	if value == nil {
		return nil, nil
	}
	if s, ok := value.(string); ok {
		var parsed any
		if err := yaml.Unmarshal([]byte(s), &parsed); err != nil {
			return nil, typedtypes.NewConversionError("list literal could not be parsed", "value", s).Wrap(err)
		}
		seq, ok := parsed.([]any)
		if !ok {
			return nil, typedtypes.NewConversionError(
				"converted list from a string but it did not produce a sequence", "value", s)
		}
		value = seq
	}

	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, typedtypes.NewConversionError("value is not a sequence", "type", fmt.Sprintf("%T", value))
	}

	out := make([]any, rv.Len())
	for i := range out {
		conv, err := l.ts.Convert(rv.Index(i).Interface(), l.elem)
		if err != nil {
			return nil, err
		}
		out[i] = conv
	}
	return out, nil
}

func (l *List) formatElements(value any, sub []string) ([]string, error) {
	conv, err := l.Convert(value)
	if err != nil {
		return nil, err
	}
	items, _ := conv.([]any)
	elemFmt := ""
	if len(sub) > 0 {
		elemFmt = sub[0]
	}
	lines := make([]string, len(items))
	for i, item := range items {
		if lines[i], err = l.ts.Format(item, l.elem, elemFmt); err != nil {
			return nil, err
		}
	}
	return lines, nil
}

// Format puts one element per line.
func (l *List) Format(value any) (string, error) {
	lines, err := l.formatElements(value, nil)
	if err != nil {
		return "", err
	}
	return strings.Join(lines, "\n"), nil
}
