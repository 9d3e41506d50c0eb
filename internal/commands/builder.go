package commands

import (
	"fmt"

	"typedshell/pkg/typedtypes"
)

// Builder accumulates command metadata before it is frozen into a Command.
// Builder methods record the first error and keep going so a definition can
// be written as a single chain ending in Build.
type Builder struct {
	cmd *Command
	err error
}

// New starts a command definition.
func New(name string) *Builder {
	return &Builder{cmd: &Command{
		name:      name,
		defaults:  make(map[string]any),
		annotated: make(map[string]typedtypes.ParamInfo),
		returns:   typedtypes.ReturnInfo{Formatter: typedtypes.Identity()},
	}}
}

// V builds a validator reference for Param and Optional.
func V(name string, args ...any) typedtypes.ValidatorRef {
	return typedtypes.ValidatorRef{Name: name, Args: args}
}

// Doc sets the documentation text. The first line is the short description.
func (b *Builder) Doc(doc string) *Builder {
	b.cmd.doc = doc
	return b
}

// Param declares a required parameter. An empty type name leaves the raw
// token unconverted.
func (b *Builder) Param(name, typeName string, validators ...typedtypes.ValidatorRef) *Builder {
	b.addParam(name)
	b.annotate(name, typeName, validators)
	return b
}

// Optional declares a parameter with a default value.
func (b *Builder) Optional(name, typeName string, def any, validators ...typedtypes.ValidatorRef) *Builder {
	b.addParam(name)
	b.cmd.defaults[name] = def
	b.annotate(name, typeName, validators)
	return b
}

// Describe attaches a description to a declared parameter.
func (b *Builder) Describe(name, desc string) *Builder {
	if !b.declared(name) {
		b.fail(fmt.Errorf("cannot describe undeclared parameter %s", name))
		return b
	}
	info := b.cmd.annotated[name]
	info.Desc = desc
	b.cmd.annotated[name] = info
	return b
}

// Returns declares typed data output rendered through the type registry.
// An empty formatter selects the type's default.
func (b *Builder) Returns(typeName, formatter string) *Builder {
	b.cmd.returns = typedtypes.ReturnInfo{
		TypeName:  typeName,
		Formatter: typedtypes.RegistryNamed(formatter),
		IsData:    true,
	}
	return b
}

// ReturnsWith declares data output with an explicit formatter reference.
func (b *Builder) ReturnsWith(ref typedtypes.FormatterRef, desc string) *Builder {
	b.cmd.returns = typedtypes.ReturnInfo{Formatter: ref, IsData: true, Desc: desc}
	return b
}

// Stringable declares data output printed with its string form.
func (b *Builder) Stringable() *Builder {
	return b.ReturnsWith(typedtypes.Identity(), "")
}

// CustomReturn declares data output rendered by printer.
func (b *Builder) CustomReturn(printer func(any) (string, error), desc string) *Builder {
	return b.ReturnsWith(typedtypes.Custom(printer), desc)
}

// Finalizer marks the command as leaving the current context.
func (b *Builder) Finalizer() *Builder {
	b.cmd.finalizer = true
	return b
}

// Constructor marks the command as creating a new context.
func (b *Builder) Constructor() *Builder {
	b.cmd.constructor = true
	return b
}

// Handle sets the function run with converted arguments.
func (b *Builder) Handle(fn Handler) *Builder {
	b.cmd.handler = fn
	return b
}

// HandleCmdline sets a function that receives the remaining tokens unparsed.
func (b *Builder) HandleCmdline(fn CmdlineHandler) *Builder {
	b.cmd.cmdline = fn
	b.cmd.takesCmdline = true
	return b
}

// Build freezes the definition.
func (b *Builder) Build() (*Command, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.cmd.name == "" {
		return nil, fmt.Errorf("command name cannot be empty")
	}
	if b.cmd.handler == nil && b.cmd.cmdline == nil {
		return nil, fmt.Errorf("command %s has no handler", b.cmd.name)
	}
	cmd := b.cmd
	b.cmd = nil
	return cmd, nil
}

// MustBuild is Build for static definitions; it panics on error.
func (b *Builder) MustBuild() *Command {
	cmd, err := b.Build()
	if err != nil {
		panic(err)
	}
	return cmd
}

func (b *Builder) addParam(name string) {
	if b.declared(name) {
		b.fail(fmt.Errorf("parameter %s already declared", name))
		return
	}
	b.cmd.params = append(b.cmd.params, name)
}

func (b *Builder) declared(name string) bool {
	for _, p := range b.cmd.params {
		if p == name {
			return true
		}
	}
	return false
}

func (b *Builder) annotate(name, typeName string, validators []typedtypes.ValidatorRef) {
	if typeName == "" && len(validators) == 0 {
		return
	}
	b.cmd.annotated[name] = typedtypes.ParamInfo{TypeName: typeName, Validators: validators}
}

func (b *Builder) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}
