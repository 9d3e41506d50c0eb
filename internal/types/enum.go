package types

import (
	"fmt"
	"strings"

	"typedshell/pkg/typedtypes"
)

// Enum is a string type restricted to a fixed set of choices.
type Enum struct {
	table
	name    string
	choices []string
}

// NewEnum creates an enumeration type called name.
func NewEnum(name string, choices []string) *Enum {
	t := &Enum{table: newTable(), name: name, choices: append([]string(nil), choices...)}
	t.formatters["index"] = func(v any, _ ...string) (string, error) {
		s, err := t.typed(v)
		if err != nil {
			return "", err
		}
		for i, c := range t.choices {
			if c == s {
				return fmt.Sprint(i), nil
			}
		}
		return "", nil
	}
	return t
}

func (t *Enum) Name() string { return t.name }

// Choices returns the allowed values in declaration order.
func (t *Enum) Choices() []string { return append([]string(nil), t.choices...) }

func (t *Enum) Convert(value any) (any, error) {
	if value == nil {
		return nil, nil
	}
	s, ok := value.(string)
	if !ok {
		return nil, typedtypes.NewConversionError("unknown argument type", "type", fmt.Sprintf("%T", value))
	}
	for _, c := range t.choices {
		if c == s {
			return s, nil
		}
	}
	return nil, typedtypes.NewConversionError("value not one of the allowed choices",
		"value", s, "choices", strings.Join(t.choices, ","))
}

func (t *Enum) typed(v any) (string, error) {
	c, err := t.Convert(v)
	if err != nil {
		return "", err
	}
	s, _ := c.(string)
	return s, nil
}

func (t *Enum) Format(value any) (string, error) {
	return t.typed(value)
}
