package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"typedshell/pkg/typedtypes"
)

// Dict is the untyped "dict" type: a JSON object decoded into map[string]any.
type Dict struct {
	table
}

// NewDict creates the dict type.
func NewDict() *Dict {
	t := &Dict{table: newTable()}
	t.formatters["one_line"] = func(v any, sub ...string) (string, error) {
		m, err := t.typed(v)
		if err != nil {
			return "", err
		}
		keyFmt, valFmt := subFormatterNames(sub)
		entries := make([]entry, 0, len(m))
		for k, val := range m {
			ks, err := formatByMethod(k, keyFmt)
			if err != nil {
				return "", err
			}
			vs, err := formatByMethod(val, valFmt)
			if err != nil {
				return "", err
			}
			entries = append(entries, newEntry(k, ks, vs))
		}
		return oneLine(entries), nil
	}
	return t
}

func (t *Dict) Name() string { return "dict" }

func (t *Dict) Aliases() []string { return []string{"basic_dict"} }

func (t *Dict) NativeType() reflect.Type { return reflect.TypeOf(map[string]any(nil)) }

func (t *Dict) Convert(value any) (any, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case map[string]any:
		return v, nil
	case string:
		var m map[string]any
		if err := json.Unmarshal([]byte(v), &m); err != nil {
			return nil, typedtypes.NewConversionError("invalid JSON object", "value", v).Wrap(err)
		}
		return m, nil
	}
	return nil, typedtypes.NewConversionError("unknown argument type", "type", fmt.Sprintf("%T", value))
}

func (t *Dict) typed(v any) (map[string]any, error) {
	c, err := t.Convert(v)
	if err != nil {
		return nil, err
	}
	m, _ := c.(map[string]any)
	return m, nil
}

// Format renders sorted, 4-space indented JSON.
func (t *Dict) Format(value any) (string, error) {
	m, err := t.typed(value)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(m); err != nil {
		return "", typedtypes.NewConversionError("value cannot be encoded as JSON").Wrap(err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

type entry struct {
	key, value string
	// num orders numeric keys by value rather than by text.
	num     float64
	numeric bool
}

func newEntry(rawKey any, key, value string) entry {
	e := entry{key: key, value: value}
	e.num, e.numeric = asFloat64(rawKey)
	return e
}

// oneLine renders "{k: v, ...}" ordered by key.
func oneLine(entries []entry) string {
	if len(entries) == 0 {
		return "{}"
	}
	sortEntries(entries)
	parts := make([]string, len(entries))
	for i, e := range entries {
		parts[i] = e.key + ": " + e.value
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func sortEntries(entries []entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.numeric && b.numeric && a.num != b.num {
			return a.num < b.num
		}
		if a.key != b.key {
			return a.key < b.key
		}
		return a.value < b.value
	})
}

func subFormatterNames(sub []string) (string, string) {
	var k, v string
	if len(sub) > 0 {
		k = sub[0]
	}
	if len(sub) > 1 {
		v = sub[1]
	}
	return k, v
}

// formatByMethod applies a named formatter looked up on the value itself.
// An empty name stringifies.
func formatByMethod(v any, name string) (string, error) {
	if IsDefaultFormatter(name) {
		return stringify(v), nil
	}
	out, ok, err := FormatWithMethod(v, name)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", typedtypes.NewValidationError("Cannot convert to string",
			"formatter", name, "type", fmt.Sprintf("%T", v))
	}
	return out, nil
}

// IsDefaultFormatter reports whether name selects a type's default formatter.
func IsDefaultFormatter(name string) bool {
	switch name {
	case "", "default", "str", "string":
		return true
	}
	return false
}
