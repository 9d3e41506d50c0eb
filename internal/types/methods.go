package types

import (
	"fmt"
	"reflect"
	"strings"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// MethodName maps a formatter name to the Go method that implements it on a
// value: "hex" -> "FormatHex", "one_line" -> "FormatOneLine".
func MethodName(formatter string) string {
	var b strings.Builder
	b.WriteString("Format")
	for _, part := range strings.Split(formatter, "_") {
		if part == "" {
			continue
		}
		b.WriteString(strings.ToUpper(part[:1]))
		b.WriteString(part[1:])
	}
	return b.String()
}

// FormatWithMethod formats value with its own Format<Name> method. The method
// may take no argument or a single argument (which receives value) and must
// return a string, optionally followed by an error. ok is false when value
// has no usable method of that name.
func FormatWithMethod(value any, formatter string) (out string, ok bool, err error) {
	if value == nil || formatter == "" {
		return "", false, nil
	}
	m := reflect.ValueOf(value).MethodByName(MethodName(formatter))
	if !m.IsValid() {
		return "", false, nil
	}

	mt := m.Type()
	var in []reflect.Value
	switch mt.NumIn() {
	case 0:
	case 1:
		arg := reflect.ValueOf(value)
		if !arg.Type().AssignableTo(mt.In(0)) {
			return "", false, nil
		}
		in = []reflect.Value{arg}
	default:
		return "", false, nil
	}

	switch {
	case mt.NumOut() == 1 && mt.Out(0).Kind() == reflect.String:
		res := m.Call(in)
		return res[0].String(), true, nil
	case mt.NumOut() == 2 && mt.Out(0).Kind() == reflect.String && mt.Out(1) == errorType:
		res := m.Call(in)
		if e, _ := res[1].Interface().(error); e != nil {
			return "", true, e
		}
		return res[0].String(), true, nil
	}
	return "", false, nil
}

// stringify is the identity formatter.
func stringify(v any) string {
	if s, ok := v.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprint(v)
}
