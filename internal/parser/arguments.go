// Package parser turns shell input into tokens and tokens into the
// positional and keyword arguments of a command.
package parser

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"typedshell/pkg/typedtypes"
)

// Separator ends argument parsing for the current command.
const Separator = "--"

// Spec is the part of a command's metadata the argument parser needs.
type Spec interface {
	SpecFilled(positional int, keywords map[string]string) bool
	MatchShortName(prefix string, filled int) (string, error)
	ParamType(name string) string
}

// IsFlag reports whether a token names a keyword argument. The first
// character after the dashes must be a letter so negative numbers stay
// positional.
func IsFlag(token string) bool {
	if token == Separator || !strings.HasPrefix(token, "-") {
		return false
	}
	rest := token[1:]
	if strings.HasPrefix(token, Separator) {
		rest = token[2:]
	}
	r, _ := utf8.DecodeRuneInString(rest)
	return rest != "" && unicode.IsLetter(r)
}

// ProcessArguments consumes tokens for one command. Parsing stops once the
// required parameters are filled and the next token is not a flag, at a lone
// "--", or when tokens run out. The unconsumed tokens are returned; a
// separator directly after the consumed ones is dropped.
func ProcessArguments(spec Spec, tokens []string) (positional []string, keywords map[string]string, remaining []string, err error) {
	keywords = make(map[string]string)
	args := tokens

	for len(args) > 0 {
		if spec.SpecFilled(len(positional), keywords) && !IsFlag(args[0]) {
			break
		}

		arg := args[0]
		args = args[1:]

		if arg == Separator {
			break
		}
		if !IsFlag(arg) {
			positional = append(positional, arg)
			continue
		}

		var (
			name     string
			value    string
			hasValue bool
		)
		if len(arg) == 2 {
			name, err = spec.MatchShortName(arg[1:], len(positional))
		} else {
			if !strings.HasPrefix(arg, Separator) {
				return nil, nil, nil, typedtypes.NewArgumentError(
					"Invalid method of specifying keyword argument that did not start with --", "argument", arg)
			}
			flag := arg[2:]
			flag, value, hasValue = strings.Cut(flag, "=")
			name, err = spec.MatchShortName(flag, len(positional))
		}
		if err != nil {
			return nil, nil, nil, err
		}

		typeName := spec.ParamType(name)
		if typeName == "" {
			return nil, nil, nil, typedtypes.NewArgumentError(
				"Attempting to set a parameter from command line that does not have type information", "argument", name)
		}

		if !hasValue {
			value, args, err = extractValue(name, typeName, args)
			if err != nil {
				return nil, nil, nil, err
			}
		}
		keywords[name] = value
	}

	if len(args) > 0 && args[0] == Separator {
		args = args[1:]
	}
	return positional, keywords, args, nil
}

// extractValue takes the value of a keyword flag from the next token. A
// bool flag followed by nothing, a separator or another dash token is
// implicitly true and consumes nothing.
func extractValue(name, typeName string, args []string) (string, []string, error) {
	next, ok := "", false
	if len(args) > 0 && args[0] != Separator {
		next, ok = args[0], true
	}

	if typeName == "bool" {
		if !ok || strings.HasPrefix(next, "-") {
			return "true", args, nil
		}
	} else if !ok {
		return "", nil, typedtypes.NewArgumentError("Could not find value for keyword argument", "argument", name)
	}
	return next, args[1:], nil
}
