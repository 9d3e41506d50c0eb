package types

import (
	"fmt"
	"reflect"
	"strings"

	"gopkg.in/yaml.v3"

	"typedshell/pkg/typedtypes"
)

// MapFactory builds "map(K,V)" types.
type MapFactory struct{}

func (MapFactory) Name() string { return "map" }

func (MapFactory) MappedKind() reflect.Kind { return reflect.Map }

func (MapFactory) Build(ts typedtypes.TypeSystem, elems ...typedtypes.Type) (typedtypes.Type, error) {
	if len(elems) != 2 {
		return nil, typedtypes.NewArgumentError("map must be created with 2 arguments, a key and a value type",
			"arguments", len(elems))
	}
	m := &Map{table: newTable(), ts: ts, key: elems[0], value: elems[1]}
	m.formatters["one_line"] = func(v any, sub ...string) (string, error) {
		keyFmt, valFmt := subFormatterNames(sub)
		entries, err := m.entries(v, keyFmt, valFmt)
		if err != nil {
			return "", err
		}
		return oneLine(entries), nil
	}
	return m, nil
}

// Map converts mappings key by key and value by value. Converted values are
// map[any]any.
type Map struct {
	table
	ts    typedtypes.TypeSystem
	key   typedtypes.Type
	value typedtypes.Type
}

func (m *Map) Name() string { return "map(" + m.key.Name() + "," + m.value.Name() + ")" }

// Convert accepts a flow mapping literal ({"a": 1, b: 2}) or any Go map.
func (m *Map) Convert(value any) (any, error) {
	if value == nil {
		return nil, nil
	}
	if s, ok := value.(string); ok {
		var parsed any
		if err := yaml.Unmarshal([]byte(s), &parsed); err != nil {
			return nil, typedtypes.NewConversionError("map literal could not be parsed", "value", s).Wrap(err)
		}
		if parsed == nil {
			return nil, typedtypes.NewConversionError("converted map from a string but it did not produce a mapping", "value", s)
		}
		value = parsed
	}

	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Map {
		return nil, typedtypes.NewConversionError("value is not a mapping", "type", fmt.Sprintf("%T", value))
	}

	out := make(map[any]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		k, err := m.ts.Convert(iter.Key().Interface(), m.key)
		if err != nil {
			return nil, err
		}
		v, err := m.ts.Convert(iter.Value().Interface(), m.value)
		if err != nil {
			return nil, err
		}
		if k != nil && !reflect.TypeOf(k).Comparable() {
			return nil, typedtypes.NewConversionError("map key type is not comparable", "key_type", m.key.Name())
		}
		out[k] = v
	}
	return out, nil
}

// entries formats every key and value. A sub-formatter name is resolved on
// the element type first and on the element value second.
func (m *Map) entries(value any, keyFmt, valFmt string) ([]entry, error) {
	conv, err := m.Convert(value)
	if err != nil {
		return nil, err
	}
	mm, _ := conv.(map[any]any)
	entries := make([]entry, 0, len(mm))
	for k, v := range mm {
		ks, err := m.formatElement(k, m.key, keyFmt)
		if err != nil {
			return nil, err
		}
		vs, err := m.formatElement(v, m.value, valFmt)
		if err != nil {
			return nil, err
		}
		entries = append(entries, newEntry(k, ks, vs))
	}
	sortEntries(entries)
	return entries, nil
}

func (m *Map) formatElement(v any, t typedtypes.Type, name string) (string, error) {
	if IsDefaultFormatter(name) {
		return m.ts.Format(v, t, "")
	}
	if fs, ok := t.(typedtypes.FormatterSet); ok {
		if _, found := fs.Formatter(name); found {
			return m.ts.Format(v, t, name)
		}
	}
	return formatByMethod(v, name)
}

// Format renders one "key: value" line per entry, ordered by key.
func (m *Map) Format(value any) (string, error) {
	entries, err := m.entries(value, "", "")
	if err != nil {
		return "", err
	}
	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = e.key + ": " + e.value
	}
	return strings.Join(lines, "\n"), nil
}
