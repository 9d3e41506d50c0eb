package statemachine

import (
	"fmt"
	"sort"
	"strings"

	"typedshell/internal/commands"
)

func (m *Machine) registerBuiltins() {
	m.AddBuiltin("back", commands.New("back").
		Doc("Pop the current context and return to its parent.").
		Finalizer().
		Handle(func(commands.Args) (any, error) { return nil, nil }).
		MustBuild())

	m.AddBuiltin("help", commands.New("help").
		Doc("Return help information for a context or function.").
		Stringable().
		HandleCmdline(m.help).
		MustBuild())

	m.AddBuiltin("quit", commands.New("quit").
		Doc("Quit this hierarchical shell.").
		HandleCmdline(func([]string) (any, error) {
			m.stack.Clear()
			return nil, nil
		}).
		MustBuild())
}

func (m *Machine) builtinNames() []string {
	names := make([]string, 0, len(m.builtins))
	for name := range m.builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (m *Machine) help(args []string) (any, error) {
	current, ok := m.stack.Top()
	if !ok {
		return nil, nil
	}
	switch len(args) {
	case 0:
		return m.ListDir(current)
	case 1:
		entry, err := m.FindFunction(current, args[0])
		if err != nil {
			return nil, err
		}
		return GetHelp(entry), nil
	}
	return fmt.Sprintf("Too many arguments: %s\nUsage: help [function]", listString(args)), nil
}

// ListDir describes every entry of ctx followed by the builtins.
func (m *Machine) ListDir(ctx commands.Context) (string, error) {
	var b strings.Builder
	b.WriteString("\n" + ctx.Name() + "\n")
	if doc := strings.TrimSpace(ctx.Doc()); doc != "" {
		b.WriteString(doc + "\n")
	}

	b.WriteString("\nDefined Functions:\n")
	for _, name := range ctx.Names() {
		entry, err := m.FindFunction(ctx, name)
		if err != nil {
			return "", err
		}

		var short string
		if entry.Context != nil {
			b.WriteString(" - " + name + "\n")
			short = firstLine(entry.Context.Doc())
		} else {
			b.WriteString(" - " + entry.Command.Signature(name) + "\n")
			short = entry.Command.ShortDescription()
		}
		if short != "" {
			b.WriteString("   " + short + "\n")
		}
	}

	b.WriteString("\nBuiltin Functions\n")
	for _, name := range m.builtinNames() {
		b.WriteString(" - " + name + "\n")
	}
	b.WriteString("\n")
	return b.String(), nil
}

// GetHelp returns usage text for a command or a context.
func GetHelp(entry commands.Entry) string {
	if entry.Context != nil {
		text := "\n" + entry.Context.Name() + "\n\n"
		if doc := strings.TrimSpace(entry.Context.Doc()); doc != "" {
			text += doc + "\n"
		}
		return text
	}

	cmd := entry.Command
	var b strings.Builder
	b.WriteString("\n" + cmd.Signature("") + "\n\n")
	if doc := strings.TrimSpace(cmd.Doc()); doc != "" {
		b.WriteString(doc + "\n")
	}

	b.WriteString("\nArguments:\n")
	for _, name := range cmd.Params() {
		info, ok := cmd.ParamInfo(name)
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "  - %s (%s): %s\n", name, info.TypeName, info.Desc)
	}
	return b.String()
}

func firstLine(doc string) string {
	first, _, _ := strings.Cut(strings.TrimSpace(doc), "\n")
	return strings.TrimSpace(first)
}

// listString renders tokens the way a list literal prints: ['a', 'b'].
func listString(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = "'" + s + "'"
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
