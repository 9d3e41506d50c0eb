package commands

import (
	"fmt"

	"typedshell/internal/types"
	"typedshell/pkg/typedtypes"
)

// ConvertArgument converts a raw value for the named parameter through its
// declared type and runs the declared validators in order. Untyped
// parameters pass the value through unchanged.
func (c *Command) ConvertArgument(ts typedtypes.TypeSystem, name string, value any) (any, error) {
	info, ok := c.annotated[name]
	if !ok || info.TypeName == "" {
		return value, nil
	}

	val, err := ts.Convert(value, info.TypeName)
	if err != nil {
		return nil, err
	}
	if len(info.Validators) == 0 {
		return val, nil
	}

	t, err := ts.Resolve(info.TypeName)
	if err != nil {
		return nil, err
	}
	vs, _ := t.(typedtypes.ValidatorSet)
	for _, ref := range info.Validators {
		var fn typedtypes.ValidateFunc
		if vs != nil {
			fn, ok = vs.Validator(ref.Name)
		}
		if fn == nil || !ok {
			return nil, typedtypes.NewValidationError("Could not find validator specified for argument",
				"argument", name, "validator_name", ref.Name, "type", t.Name())
		}
		if err := fn(val, ref.Args...); err != nil {
			return nil, typedtypes.NewValidationError(err.Error(), "argument", name, "arg_value", val).Wrap(err)
		}
	}
	return val, nil
}

// Invoke converts positional and keyword arguments, checks that every
// required parameter is present and runs the handler.
func (c *Command) Invoke(ts typedtypes.TypeSystem, positional []string, keywords map[string]string) (any, error) {
	if c.takesCmdline {
		return c.InvokeCmdline(positional)
	}
	if len(positional) > len(c.params) {
		return nil, typedtypes.NewArgumentError("Too many positional arguments",
			"function", c.name, "num_args", len(positional), "signature", c.Signature(""))
	}

	args := make(Args, len(c.params))
	for i, raw := range positional {
		name := c.params[i]
		if _, dup := keywords[name]; dup {
			return nil, typedtypes.NewValidationError("Argument specified both positionally and by keyword",
				"function", c.name, "argument", name)
		}
		val, err := c.ConvertArgument(ts, name, raw)
		if err != nil {
			return nil, err
		}
		args[name] = val
	}

	for _, name := range c.params {
		raw, ok := keywords[name]
		if !ok {
			continue
		}
		val, err := c.ConvertArgument(ts, name, raw)
		if err != nil {
			return nil, err
		}
		args[name] = val
	}
	for name := range keywords {
		if !c.declared(name) {
			return nil, typedtypes.NewArgumentError("Unknown keyword argument",
				"function", c.name, "argument", name)
		}
	}

	if !c.SpecFilled(len(positional), keywords) {
		return nil, typedtypes.NewValidationError("Not enough parameters specified to call function",
			"function", c.name, "signature", c.Signature(""))
	}

	for name, def := range c.defaults {
		if _, given := args[name]; !given {
			args[name] = def
		}
	}
	return c.handler(args)
}

// InvokeCmdline runs a command with raw tokens.
func (c *Command) InvokeCmdline(tokens []string) (any, error) {
	if c.cmdline == nil {
		return nil, fmt.Errorf("command %s does not take a command line", c.name)
	}
	return c.cmdline(tokens)
}

// FormatReturnValue renders a data result. A declared return type formats
// through the registry; otherwise the formatter reference decides between
// a Format<Name> method on the value, a custom printer or plain
// stringification.
func (c *Command) FormatReturnValue(ts typedtypes.TypeSystem, value any) (string, error) {
	if !c.returns.IsData {
		return "", nil
	}
	ref := c.returns.Formatter

	if c.returns.TypeName != "" {
		return ts.Format(value, c.returns.TypeName, ref.Name)
	}

	switch ref.Kind {
	case typedtypes.FormatterCustom:
		return ref.Printer(value)
	case typedtypes.FormatterRegistry, typedtypes.FormatterInstance:
		if types.IsDefaultFormatter(ref.Name) {
			return stringify(value), nil
		}
		out, ok, err := types.FormatWithMethod(value, ref.Name)
		if err != nil {
			return "", err
		}
		if !ok {
			return "", typedtypes.NewValidationError("Cannot find formatter for return value",
				"function", c.name, "formatter", ref.Name, "value_type", fmt.Sprintf("%T", value))
		}
		return out, nil
	}
	return stringify(value), nil
}

func (c *Command) declared(name string) bool {
	for _, p := range c.params {
		if p == name {
			return true
		}
	}
	return false
}

func stringify(v any) string {
	if s, ok := v.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprint(v)
}
