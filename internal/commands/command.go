package commands

import (
	"fmt"
	"strings"

	"typedshell/pkg/typedtypes"
)

// Handler runs a command with its converted arguments. Optional parameters
// that were not given hold their declared defaults.
type Handler func(args Args) (any, error)

// CmdlineHandler runs a command that takes the rest of the command line
// unparsed.
type CmdlineHandler func(tokens []string) (any, error)

// Command is a frozen, annotated callable: ordered parameters with their
// declared types and validators, a return declaration and the flags the
// shell needs to decide what to do with the result.
type Command struct {
	name         string
	doc          string
	params       []string
	defaults     map[string]any
	annotated    map[string]typedtypes.ParamInfo
	returns      typedtypes.ReturnInfo
	finalizer    bool
	constructor  bool
	takesCmdline bool
	handler      Handler
	cmdline      CmdlineHandler
}

// Name returns the command's own name (for constructors, the context name).
func (c *Command) Name() string { return c.name }

// Doc returns the full documentation text.
func (c *Command) Doc() string { return c.doc }

// ShortDescription returns the first line of the documentation.
func (c *Command) ShortDescription() string {
	first, _, _ := strings.Cut(strings.TrimSpace(c.doc), "\n")
	return strings.TrimSpace(first)
}

// Params returns the parameter names in declaration order.
func (c *Command) Params() []string { return append([]string(nil), c.params...) }

// ParamInfo returns the declared type information for a parameter.
func (c *Command) ParamInfo(name string) (typedtypes.ParamInfo, bool) {
	info, ok := c.annotated[name]
	return info, ok
}

// ParamType returns the declared type name of a parameter, or "" when the
// parameter is unknown or untyped.
func (c *Command) ParamType(name string) string {
	return c.annotated[name].TypeName
}

// Default returns the default value of an optional parameter.
func (c *Command) Default(name string) (any, bool) {
	v, ok := c.defaults[name]
	return v, ok
}

// Returns is the command's return declaration.
func (c *Command) Returns() typedtypes.ReturnInfo { return c.returns }

// ReturnsData reports whether a non-nil result is printed rather than pushed
// as a new context.
func (c *Command) ReturnsData() bool { return c.returns.IsData }

// IsFinalizer reports whether running the command pops the current context.
func (c *Command) IsFinalizer() bool { return c.finalizer }

// IsConstructor reports whether the command creates a context and must
// therefore have every required parameter before it runs.
func (c *Command) IsConstructor() bool { return c.constructor }

// TakesCmdline reports whether the command receives raw tokens.
func (c *Command) TakesCmdline() bool { return c.takesCmdline }

// SpecFilled reports whether positional and keyword values are enough to
// call the command: every required parameter not given by keyword needs a
// positional value.
func (c *Command) SpecFilled(positional int, keywords map[string]string) bool {
	required := 0
	for _, name := range c.params {
		if _, optional := c.defaults[name]; optional {
			continue
		}
		if _, given := keywords[name]; given {
			continue
		}
		required++
	}
	return required <= positional
}

// MatchShortName resolves a flag name prefix to a parameter among those not
// already filled positionally. An exact name always wins; otherwise the
// prefix must match exactly one parameter.
func (c *Command) MatchShortName(prefix string, filled int) (string, error) {
	candidates := c.params
	if filled < len(candidates) {
		candidates = candidates[filled:]
	} else {
		candidates = nil
	}

	var possible []string
	for _, name := range candidates {
		if name == prefix {
			return name, nil
		}
		if strings.HasPrefix(name, prefix) {
			possible = append(possible, name)
		}
	}

	switch len(possible) {
	case 0:
		return "", typedtypes.NewArgumentError("Could not convert short-name to full parameter name, none could be found",
			"short_name", prefix, "parameters", candidates)
	case 1:
		return possible[0], nil
	default:
		return "", typedtypes.NewArgumentError("Short-name is ambiguous, could match multiple keyword parameters",
			"short_name", prefix, "possible_matches", possible)
	}
}

// Signature renders "name(integer arg1, bool force=false, string arg2=hello)".
// A non-empty override replaces the command name.
func (c *Command) Signature(override string) string {
	name := c.name
	if override != "" {
		name = override
	}

	args := make([]string, len(c.params))
	for i, p := range c.params {
		arg := p
		if info, ok := c.annotated[p]; ok && info.TypeName != "" {
			arg = info.TypeName + " " + p
		}
		if def, ok := c.defaults[p]; ok {
			s := fmt.Sprint(def)
			if def == nil {
				s = "None"
			}
			if s == "" {
				s = "''"
			}
			arg += "=" + s
		}
		args[i] = arg
	}
	return name + "(" + strings.Join(args, ", ") + ")"
}
