// Package typetools ships the "types" context: shell commands that inspect
// and drive the type registry. The context is registered in the global module
// table and loaded the first time a shell enters it.
package typetools

import (
	"fmt"
	"strings"

	"typedshell/internal/commands"
	"typedshell/internal/typesys"
)

// ModuleName is the module table key of the types context.
const ModuleName = "types"

// Ref is the lazy root entry that resolves to the types context.
const Ref = ModuleName + ","

const doc = "Inspect the type registry and convert, format or validate values."

func init() {
	if err := commands.RegisterModule(ModuleName, func() (*commands.Module, error) {
		return NewModule(typesys.Default()), nil
	}); err != nil {
		panic(fmt.Sprintf("failed to register %s module: %v", ModuleName, err))
	}
}

// NewModule builds the types module over reg.
func NewModule(reg *typesys.Registry) *commands.Module {
	return &commands.Module{
		Name: ModuleName,
		Doc:  doc,
		Objects: map[string]any{
			"list":     listCommand(reg),
			"convert":  convertCommand(reg),
			"format":   formatCommand(reg),
			"validate": validateCommand(reg),
			"load":     loadCommand(reg),
		},
	}
}

func listCommand(reg *typesys.Registry) *commands.Command {
	return commands.New("list").
		Doc("List every type the registry currently knows.").
		CustomReturn(func(v any) (string, error) {
			return strings.Join(v.([]string), "\n"), nil
		}, "known type names, one per line").
		Handle(func(commands.Args) (any, error) {
			return reg.KnownTypes(), nil
		}).
		MustBuild()
}

func convertCommand(reg *typesys.Registry) *commands.Command {
	return commands.New("convert").
		Doc("Convert a value to a type and print it with the default formatter.").
		Param("type", "string").
		Param("value", "string").
		Describe("type", "type name, e.g. integer or list(integer)").
		Describe("value", "string value to convert").
		Returns("string", "").
		Handle(func(args commands.Args) (any, error) {
			return render(reg, args.String("type"), args.String("value"), "")
		}).
		MustBuild()
}

func formatCommand(reg *typesys.Registry) *commands.Command {
	return commands.New("format").
		Doc("Convert a value to a type and print it with a named formatter.").
		Param("type", "string").
		Param("value", "string").
		Optional("formatter", "string", "").
		Describe("formatter", "formatter name, empty for the default").
		Returns("string", "").
		Handle(func(args commands.Args) (any, error) {
			return render(reg, args.String("type"), args.String("value"), args.String("formatter"))
		}).
		MustBuild()
}

func validateCommand(reg *typesys.Registry) *commands.Command {
	return commands.New("validate").
		Doc("Check a value against a type validator.\n\nUsage: validate <type> <value> <validator> [args...]").
		Returns("string", "").
		HandleCmdline(func(tokens []string) (any, error) {
			if len(tokens) < 3 {
				return nil, fmt.Errorf("usage: validate <type> <value> <validator> [args...]")
			}
			typeName, raw, validator := tokens[0], tokens[1], tokens[2]
			val, err := reg.Convert(raw, typeName)
			if err != nil {
				return nil, err
			}
			args := make([]any, 0, len(tokens)-3)
			for _, a := range tokens[3:] {
				args = append(args, a)
			}
			if err := reg.Validate(val, typeName, validator, args...); err != nil {
				return nil, err
			}
			return "valid", nil
		}).
		MustBuild()
}

func loadCommand(reg *typesys.Registry) *commands.Command {
	return commands.New("load").
		Doc("Register the types declared in a YAML or TOML type file.").
		Param("path", "path", commands.V("exists")).
		Describe("path", "type file to load").
		Returns("integer", "").
		Handle(func(args commands.Args) (any, error) {
			n, err := reg.LoadExternalTypes(args.String("path"))
			if err != nil {
				return nil, err
			}
			return int64(n), nil
		}).
		MustBuild()
}

func render(reg *typesys.Registry, typeName, raw, formatter string) (string, error) {
	val, err := reg.Convert(raw, typeName)
	if err != nil {
		return "", err
	}
	return reg.Format(val, typeName, formatter)
}
