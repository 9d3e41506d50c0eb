// Package shell provides the interactive and batch front ends of the
// hierarchical shell. It wires a statemachine.Machine to an ishell REPL and
// reports command failures through the output printer.
package shell

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/abiosoft/ishell/v2"
	"github.com/abiosoft/readline"
	"github.com/charmbracelet/log"

	"typedshell/internal/commands/typetools"
	"typedshell/internal/config"
	"typedshell/internal/logger"
	"typedshell/internal/output"
	"typedshell/internal/parser"
	"typedshell/internal/statemachine"
	"typedshell/internal/typesys"
)

var _ readline.AutoCompleter = (*Shell)(nil)

// Shell drives a machine from user input.
type Shell struct {
	machine *statemachine.Machine
	printer *output.Printer
	prompt  string
	logger  *log.Logger
}

// Option configures a Shell.
type Option func(*Shell)

// WithPrinter prints errors through p instead of the global printer.
func WithPrinter(p *output.Printer) Option {
	return func(s *Shell) { s.printer = p }
}

// WithPrompt sets the prompt prefix.
func WithPrompt(prompt string) Option {
	return func(s *Shell) { s.prompt = prompt }
}

// New creates a shell around m.
func New(m *statemachine.Machine, options ...Option) *Shell {
	s := &Shell{
		machine: m,
		printer: output.GetGlobalPrinter(),
		prompt:  config.DefaultPrompt,
		logger:  logger.NewStyledLogger("REPL"),
	}
	for _, option := range options {
		option(s)
	}
	return s
}

// NewMachine builds the machine a configured shell runs over the default type
// registry: the types context at the root, type files as lazy type sources
// and the configured init commands.
func NewMachine(cfg *config.Config, printer *output.Printer) (*statemachine.Machine, error) {
	reg := typesys.Default()
	for _, path := range cfg.TypeModules {
		reg.AddSource(path, typesys.FileSource(path))
	}

	m := statemachine.NewMachine(statemachine.RootName,
		statemachine.WithTypes(reg),
		statemachine.WithPrinter(printer),
		statemachine.WithConfig(statemachine.Config{
			Interactive:  true,
			EchoCommands: cfg.LogLevel == "debug",
			TestMode:     cfg.TestMode,
		}),
	)
	if err := m.RootAdd("types", typetools.Ref); err != nil {
		return nil, err
	}
	for _, ic := range cfg.InitCommands {
		m.AddInitCommands(ic.Context, ic.Commands...)
	}
	return m, nil
}

// Machine returns the machine behind the shell.
func (s *Shell) Machine() *statemachine.Machine { return s.machine }

// Prompt renders the prompt for the current context path, e.g.
// "typedshell:root.types> ".
func (s *Shell) Prompt() string {
	return fmt.Sprintf("%s:%s> ", s.prompt, s.machine.Stack().Path())
}

// Execute runs one input line and reports whether the session has ended.
// Errors are printed, not returned, so the session continues.
func (s *Shell) Execute(line string) bool {
	if _, err := s.machine.InvokeString(line); err != nil {
		s.logger.Debug("Command failed", "line", line, "error", err)
		s.printer.Error(err.Error())
		if !strings.HasPrefix(strings.TrimSpace(line), "help") {
			s.printer.Comment("Type help for the functions of this context")
		}
	}
	return s.machine.Finished()
}

// ProcessInput is the ishell fallback handler; every line reaches it
// because the shell registers no ishell commands of its own.
func (s *Shell) ProcessInput(c *ishell.Context) {
	if len(c.RawArgs) == 0 {
		return
	}
	if s.Execute(parser.JoinTokens(c.RawArgs)) {
		c.Stop()
		return
	}
	c.SetPrompt(s.Prompt())
}

// Do completes the identifier under the cursor from the functions of the
// current context and the builtins.
func (s *Shell) Do(line []rune, pos int) ([][]rune, int) {
	if pos > len(line) {
		pos = len(line)
	}
	head := string(line[:pos])
	start := strings.LastIndexAny(head, " \t") + 1
	word := head[start:]

	names := s.machine.ValidIdentifiers()
	sort.Strings(names)

	var out [][]rune
	for _, name := range names {
		if strings.HasPrefix(name, word) {
			out = append(out, []rune(strings.TrimPrefix(name, word)+" "))
		}
	}
	return out, len([]rune(word))
}

// Run starts the interactive loop and blocks until the user quits.
func (s *Shell) Run(historyFile string) {
	sh := ishell.NewWithConfig(s.readlineConfig(historyFile))

	// The shell's own back/help/quit builtins replace ishell's.
	sh.DeleteCmd("exit")
	sh.DeleteCmd("help")
	sh.CustomCompleter(s)
	sh.NotFound(s.ProcessInput)
	sh.Interrupt(func(c *ishell.Context, count int, _ string) {
		if count >= 2 {
			c.Stop()
			return
		}
		c.Println("Press Ctrl-C again or type quit to exit.")
	})

	s.logger.Debug("Starting interactive session", "session", s.machine.SessionID())
	sh.Run()
	sh.Close()
}

// readlineConfig is the line editor setup ishell runs with. An empty
// historyFile disables history.
func (s *Shell) readlineConfig(historyFile string) *readline.Config {
	return &readline.Config{
		Prompt:          s.Prompt(),
		HistoryFile:     historyFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
	}
}

// RunScript executes r line by line with result printing on. It stops at the
// first failing line or when the session ends.
func (s *Shell) RunScript(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if _, err := s.machine.InvokeString(line); err != nil {
			return fmt.Errorf("line %d: %s: %w", lineNo, strings.TrimSpace(line), err)
		}
		if s.machine.Finished() {
			s.logger.Debug("Session ended by script", "line", lineNo)
			return nil
		}
	}
	return scanner.Err()
}
