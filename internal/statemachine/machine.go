// Package statemachine implements the hierarchical shell: a stack of
// contexts that command lines are walked against, one command at a time.
package statemachine

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"typedshell/internal/commands"
	"typedshell/internal/logger"
	"typedshell/internal/output"
	"typedshell/internal/parser"
	"typedshell/internal/testutils"
	"typedshell/internal/typesys"
	"typedshell/pkg/typedtypes"
)

const (
	// RootName is the name of the context every shell starts in.
	RootName = "root"
	// RootDoc documents the root context.
	RootDoc = "A basic context for holding the root callable functions for a shell."
)

// Config holds machine options.
type Config struct {
	// Interactive prints each data result as it is produced.
	Interactive bool
	// EchoCommands logs every command line before it runs.
	EchoCommands bool
	// TestMode makes session IDs deterministic.
	TestMode bool
}

// DefaultConfig returns the configuration used by NewMachine.
func DefaultConfig() Config {
	return Config{Interactive: true}
}

// Step is the outcome of running a single command.
type Step struct {
	// Value is the formatted data result; HasValue is false when the command
	// produced no data.
	Value    string
	HasValue bool
	// Remaining holds the tokens the command did not consume.
	Remaining []string
	// Finished is false when the command entered a new context.
	Finished bool
}

type initCommands struct {
	suffix string
	lines  []string
}

// Machine is a hierarchical shell session.
type Machine struct {
	name      string
	sessionID uuid.UUID
	types     typedtypes.TypeSystem
	root      *commands.Namespace
	stack     *ContextStack
	builtins  map[string]*commands.Command
	inits     []initCommands
	config    Config
	printer   *output.Printer
	// Custom styled logger for shell operations
	logger *log.Logger
}

// Option configures a Machine.
type Option func(*Machine)

// WithTypes sets the type system used for conversion and formatting.
func WithTypes(ts typedtypes.TypeSystem) Option {
	return func(m *Machine) { m.types = ts }
}

// WithPrinter sets where interactive results are printed.
func WithPrinter(p *output.Printer) Option {
	return func(m *Machine) { m.printer = p }
}

// WithConfig replaces the default configuration.
func WithConfig(c Config) Option {
	return func(m *Machine) { m.config = c }
}

// WithModules resolves lazy root entries against r.
func WithModules(r *commands.Registry) Option {
	return func(m *Machine) { m.root.WithModules(r) }
}

// NewMachine creates a shell session whose stack holds only the root context.
func NewMachine(name string, options ...Option) *Machine {
	m := &Machine{
		name:     name,
		root:     commands.NewNamespace(RootName, RootDoc),
		builtins: make(map[string]*commands.Command),
		config:   DefaultConfig(),
		logger:   logger.NewStyledLogger("Shell"),
	}
	for _, opt := range options {
		opt(m)
	}
	m.sessionID = testutils.NewSessionID(m.config.TestMode)
	if m.types == nil {
		m.types = typesys.Default()
	}
	if m.printer == nil {
		m.printer = output.GetGlobalPrinter()
	}
	m.stack = NewContextStack(m.root)
	m.registerBuiltins()

	m.logger.Debug("Shell session created", "name", name, "session", m.sessionID)
	return m
}

// Name returns the shell name.
func (m *Machine) Name() string { return m.name }

// SessionID identifies this session in log output.
func (m *Machine) SessionID() uuid.UUID { return m.sessionID }

// Root returns the root context.
func (m *Machine) Root() *commands.Namespace { return m.root }

// Stack exposes the context stack.
func (m *Machine) Stack() *ContextStack { return m.stack }

// Types returns the type system in use.
func (m *Machine) Types() typedtypes.TypeSystem { return m.types }

// Config returns the current configuration.
func (m *Machine) Config() Config { return m.config }

// SetInteractive toggles printing of results.
func (m *Machine) SetInteractive(interactive bool) { m.config.Interactive = interactive }

// RootAdd adds or replaces a root entry. value may be a "module,object"
// reference that is loaded on first use.
func (m *Machine) RootAdd(name string, value any) error {
	return m.root.Set(name, value)
}

// RootUpdate adds every entry of values to the root context.
func (m *Machine) RootUpdate(values map[string]any) error {
	for name, value := range values {
		if err := m.RootAdd(name, value); err != nil {
			return fmt.Errorf("failed to add %s: %w", name, err)
		}
	}
	return nil
}

// AddBuiltin makes cmd callable from every context. Builtins shadow context
// entries of the same name.
func (m *Machine) AddBuiltin(name string, cmd *commands.Command) {
	m.builtins[name] = cmd
}

// AddInitCommands registers command lines run, non-interactively, whenever
// the context path ends with suffix.
func (m *Machine) AddInitCommands(suffix string, lines ...string) {
	m.inits = append(m.inits, initCommands{suffix: suffix, lines: lines})
}

// ContextName returns the name of the current context, or "" once the
// session has ended.
func (m *Machine) ContextName() string {
	top, ok := m.stack.Top()
	if !ok {
		return ""
	}
	return top.Name()
}

// Finished reports whether every context has been left.
func (m *Machine) Finished() bool { return m.stack.Len() == 0 }

// ValidIdentifiers lists the entry names of the current context followed by
// the builtins.
func (m *Machine) ValidIdentifiers() []string {
	var ids []string
	if top, ok := m.stack.Top(); ok {
		ids = append(ids, top.Names()...)
	}
	return append(ids, m.builtinNames()...)
}

// FindFunction resolves name in ctx, checking builtins first.
func (m *Machine) FindFunction(ctx commands.Context, name string) (commands.Entry, error) {
	if cmd, ok := m.builtins[name]; ok {
		return commands.Entry{Command: cmd}, nil
	}
	entry, ok, err := ctx.Find(name)
	if err != nil {
		return commands.Entry{}, err
	}
	if !ok {
		return commands.Entry{}, typedtypes.NewNotFoundError("Function not found", "function", name)
	}
	return entry, nil
}

// InvokeOne runs the first command in tokens against the current context.
// On error the context stack is left as it was.
func (m *Machine) InvokeOne(tokens []string) (Step, error) {
	if len(tokens) == 0 {
		return Step{Finished: true}, nil
	}
	current, ok := m.stack.Top()
	if !ok {
		return Step{}, typedtypes.NewArgumentError("Shell session has ended", "shell", m.name)
	}

	name, line := tokens[0], tokens[1:]
	entry, err := m.FindFunction(current, name)
	if err != nil {
		return Step{}, err
	}

	if entry.Context != nil {
		m.enter(entry.Context)
		return Step{Remaining: line, Finished: false}, nil
	}

	cmd := entry.Command
	var val any
	if cmd.TakesCmdline() {
		logger.CommandInvocation(name, m.stack.Path(), line)
		val, err = cmd.InvokeCmdline(line)
		line = nil
	} else {
		var (
			pos []string
			kw  map[string]string
		)
		pos, kw, line, err = parser.ProcessArguments(cmd, line)
		if err != nil {
			return Step{}, err
		}
		if cmd.IsConstructor() && !cmd.SpecFilled(len(pos), kw) {
			return Step{}, typedtypes.NewValidationError("Not enough parameters specified to call function",
				"function", cmd.Name(), "signature", cmd.Signature(""))
		}
		logger.CommandInvocation(name, m.stack.Path(), append(append([]string(nil), pos...), flags(kw)...))
		val, err = cmd.Invoke(m.types, pos, kw)
	}
	if err != nil {
		return Step{}, err
	}

	step := Step{Remaining: line, Finished: true}
	switch {
	case cmd.IsFinalizer():
		m.stack.Pop()
	case val == nil:
	case cmd.ReturnsData():
		out, err := cmd.FormatReturnValue(m.types, val)
		if err != nil {
			return Step{}, err
		}
		step.Value, step.HasValue = out, true
	default:
		ctx, err := commands.AsContext(val)
		if err != nil {
			return Step{}, err
		}
		m.enter(ctx)
		step.Finished = false
	}
	return step, nil
}

// Invoke runs commands until tokens are used up, printing data results when
// interactive. It returns the finished flag of the last command.
func (m *Machine) Invoke(tokens []string) (bool, error) {
	finished := true
	for len(tokens) > 0 {
		step, err := m.InvokeOne(tokens)
		if err != nil {
			m.logger.Debug("Command failed", "context", m.stack.Path(), "error", err)
			return false, err
		}
		if step.HasValue && m.config.Interactive {
			m.printer.Value(step.Value)
		}
		tokens, finished = step.Remaining, step.Finished
	}
	return finished, nil
}

// InvokeString splits and runs a line. Blank lines and comments do nothing.
func (m *Machine) InvokeString(line string) (bool, error) {
	if parser.IsBlank(line) {
		return true, nil
	}
	if m.config.EchoCommands {
		m.logger.Info("Running", "line", line, "context", m.stack.Path())
	}
	tokens, err := parser.SplitLine(line)
	if err != nil {
		return false, err
	}
	return m.Invoke(tokens)
}

// enter pushes ctx and runs the init commands matching the new path.
func (m *Machine) enter(ctx commands.Context) {
	m.stack.Push(ctx)
	m.initializeContext()
}

func (m *Machine) initializeContext() {
	path := m.stack.Path()
	interactive := m.config.Interactive
	m.config.Interactive = false
	defer func() { m.config.Interactive = interactive }()

	for _, ic := range m.inits {
		if !strings.HasSuffix(path, ic.suffix) {
			continue
		}
		for _, line := range ic.lines {
			if _, err := m.InvokeString(line); err != nil {
				m.logger.Warn("Init command failed", "context", path, "command", line, "error", err)
			}
		}
	}
}

func flags(kw map[string]string) []string {
	out := make([]string, 0, len(kw))
	for k, v := range kw {
		out = append(out, "--"+k+"="+v)
	}
	return out
}
