package statemachine

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"typedshell/internal/commands"
	"typedshell/internal/output"
	"typedshell/internal/testutils"
	"typedshell/internal/typesys"
	"typedshell/pkg/typedtypes"
)

// setupShell creates a shell holding the demo entries and printing into a
// capture buffer.
func setupShell(t *testing.T) (*Machine, *output.CaptureBuffer) {
	t.Helper()
	buf := output.NewCaptureBuffer()
	m := NewMachine("Test Shell",
		WithTypes(typesys.New()),
		WithPrinter(output.NewPrinter(output.WithWriter(buf), output.TestMode())),
		WithConfig(Config{Interactive: true, TestMode: true}),
	)
	require.NoError(t, m.RootUpdate(testutils.DemoEntries()))
	return m, buf
}

func split(line string) []string { return strings.Split(line, " ") }

func TestNewMachine(t *testing.T) {
	testutils.ResetTestCounters()
	m, _ := setupShell(t)

	assert.Equal(t, "Test Shell", m.Name())
	assert.Equal(t, 1, m.Stack().Len())
	assert.Equal(t, RootName, m.ContextName())
	assert.False(t, m.Finished())
	assert.Equal(t, "00000001-0000-4000-8000-000000000001", m.SessionID().String())
	assert.NotNil(t, m.Types())
	assert.True(t, m.Config().Interactive)
}

func TestMachine_ShortArgs(t *testing.T) {
	tests := []struct {
		name      string
		line      string
		value     string
		hasValue  bool
		remaining int
		finished  bool
	}{
		{name: "implicit bool flag", line: "func 1 -f -a back", value: "(1, true, 'back')", hasValue: true, finished: true},
		{name: "explicit bool flag", line: "func 1 -f false -a back", value: "(1, false, 'back')", hasValue: true, finished: true},
		{name: "context leaves remainder", line: "func2 get_arg", remaining: 1, finished: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := setupShell(t)
			step, err := m.InvokeOne(split(tt.line))
			require.NoError(t, err)
			assert.Equal(t, tt.value, step.Value)
			assert.Equal(t, tt.hasValue, step.HasValue)
			assert.Len(t, step.Remaining, tt.remaining)
			assert.Equal(t, tt.finished, step.Finished)
		})
	}
}

func TestMachine_ContextReturnValue(t *testing.T) {
	m, _ := setupShell(t)

	step, err := m.InvokeOne([]string{"func2"})
	require.NoError(t, err)
	assert.False(t, step.HasValue)
	assert.Empty(t, step.Remaining)
	assert.False(t, step.Finished)
	assert.Equal(t, 2, m.Stack().Len())
	assert.Equal(t, "Test", m.ContextName())
	assert.Equal(t, "root.Test", m.Stack().Path())

	step, err = m.InvokeOne([]string{"get_arg"})
	require.NoError(t, err)
	assert.Equal(t, "0x1", step.Value)
	assert.True(t, step.Finished)

	step, err = m.InvokeOne([]string{"return_one"})
	require.NoError(t, err)
	assert.Equal(t, "1", step.Value)
}

func TestMachine_ConstructorMissingArguments(t *testing.T) {
	h := testutils.NewAssertionHelpers(t)

	for _, line := range []string{"demo", "demo hello", "demo -15"} {
		t.Run(line, func(t *testing.T) {
			m, _ := setupShell(t)
			_, err := m.InvokeOne(split(line))
			h.AssertKind(err, typedtypes.KindValidation)
			assert.Equal(t, 1, m.Stack().Len(), "stack must be untouched on error")
		})
	}

	m, _ := setupShell(t)
	_, err := m.InvokeOne([]string{"demo"})
	assert.Contains(t, err.Error(), "Not enough parameters specified to call function")
}

func TestMachine_InvokeStringNegativeNumber(t *testing.T) {
	m, _ := setupShell(t)
	_, err := m.InvokeString("demo -15")
	require.Error(t, err)
	assert.True(t, errors.Is(err, typedtypes.ErrValidation))
	assert.False(t, errors.Is(err, typedtypes.ErrArgument))
}

func TestMachine_BuiltinHelp(t *testing.T) {
	m, _ := setupShell(t)

	step, err := m.InvokeOne([]string{"help"})
	require.NoError(t, err)
	assert.Equal(t, testutils.DemoRootHelp, step.Value)
	assert.Empty(t, step.Remaining)
	assert.True(t, step.Finished)

	step, err = m.InvokeOne([]string{"help", "demo"})
	require.NoError(t, err)
	assert.Equal(t, testutils.DemoHelp, step.Value)
	assert.Empty(t, step.Remaining)
	assert.True(t, step.Finished)

	step, err = m.InvokeOne([]string{"help", "a", "b"})
	require.NoError(t, err)
	assert.Equal(t, "Too many arguments: ['a', 'b']\nUsage: help [function]", step.Value)

	_, err = m.InvokeOne([]string{"help", "missing"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, typedtypes.ErrNotFound))
}

func TestMachine_HelpForContext(t *testing.T) {
	m, _ := setupShell(t)
	require.NoError(t, m.RootAdd("sub", commands.NewNamespace("Sub", "Nested context.\n\nMore text.")))

	step, err := m.InvokeOne([]string{"help", "sub"})
	require.NoError(t, err)
	assert.Equal(t, "\nSub\n\nNested context.\n\nMore text.\n", step.Value)

	listing, err := m.ListDir(m.Root())
	require.NoError(t, err)
	assert.Contains(t, listing, " - sub\n   Nested context.\n")
}

func TestMachine_BuiltinBack(t *testing.T) {
	m, _ := setupShell(t)

	_, err := m.InvokeOne(split("demo 1"))
	require.NoError(t, err)
	assert.Equal(t, 2, m.Stack().Len())

	step, err := m.InvokeOne([]string{"back"})
	require.NoError(t, err)
	assert.False(t, step.HasValue)
	assert.Empty(t, step.Remaining)
	assert.True(t, step.Finished)
	assert.Equal(t, 1, m.Stack().Len())
}

func TestMachine_BuiltinQuit(t *testing.T) {
	m, _ := setupShell(t)

	_, err := m.InvokeOne(split("demo 1"))
	require.NoError(t, err)

	step, err := m.InvokeOne(split("quit now please"))
	require.NoError(t, err)
	assert.Empty(t, step.Remaining)
	assert.True(t, m.Finished())
	assert.Equal(t, "", m.ContextName())

	_, err = m.InvokeOne([]string{"help"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, typedtypes.ErrArgument))
}

func TestMachine_InvokeString(t *testing.T) {
	tests := []struct {
		line     string
		finished bool
		depth    int
	}{
		{line: "demo 1 back", finished: true, depth: 1},
		{line: "func2", finished: false, depth: 2},
		{line: "func2 back", finished: true, depth: 1},
		{line: "", finished: true, depth: 1},
		{line: "# just a comment", finished: true, depth: 1},
		{line: "func 1 --arg2=name=value --", finished: true, depth: 1},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			m, _ := setupShell(t)
			finished, err := m.InvokeString(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.finished, finished)
			assert.Equal(t, tt.depth, m.Stack().Len())
		})
	}
}

func TestMachine_InvokePrintsResults(t *testing.T) {
	m, buf := setupShell(t)

	_, err := m.InvokeString("func 1 --arg2=name=value -- func 2")
	require.NoError(t, err)
	assert.Equal(t, []string{"(1, false, 'name=value')", "(2, false, 'hello')"}, buf.Lines())

	buf.Reset()
	m.SetInteractive(false)
	_, err = m.InvokeString("func 3")
	require.NoError(t, err)
	assert.Equal(t, 0, buf.Len())
}

func TestMachine_ValidIdentifiers(t *testing.T) {
	m, _ := setupShell(t)
	assert.ElementsMatch(t, []string{"func", "func2", "demo", "back", "help", "quit"}, m.ValidIdentifiers())
}

func TestMachine_NotFound(t *testing.T) {
	m, _ := setupShell(t)
	_, err := m.InvokeOne([]string{"nothing"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, typedtypes.ErrNotFound))
	assert.Equal(t, 1, m.Stack().Len())
}

func TestMachine_InitCommands(t *testing.T) {
	m, buf := setupShell(t)
	counter := testutils.NewCounter("Counter")
	require.NoError(t, m.RootAdd("counter", counter))
	m.AddInitCommands("Counter", "bump", "bump")
	m.AddInitCommands("Elsewhere", "bump")

	finished, err := m.InvokeString("counter")
	require.NoError(t, err)
	assert.False(t, finished)
	assert.Equal(t, 2, counter.Calls)
	assert.Equal(t, 0, buf.Len(), "init commands run silently")
	assert.True(t, m.Config().Interactive)

	_, err = m.InvokeString("bump")
	require.NoError(t, err)
	assert.Equal(t, []string{"3"}, buf.Lines())
}

func TestMachine_LazyRootEntries(t *testing.T) {
	modules := commands.NewRegistry()
	require.NoError(t, modules.Register("demo", func() (*commands.Module, error) {
		return &commands.Module{
			Doc: "Demo module.",
			Objects: map[string]any{
				"func": testutils.DemoFunc(),
			},
		}, nil
	}))

	m := NewMachine("lazy", WithTypes(typesys.New()), WithModules(modules),
		WithPrinter(output.NewPrinter(output.Silent())))
	require.NoError(t, m.RootAdd("func", "demo,func"))
	require.NoError(t, m.RootAdd("mod", "demo,"))
	require.NoError(t, m.RootAdd("broken", "demo,missing"))

	assert.False(t, modules.IsLoaded("demo"))

	step, err := m.InvokeOne(split("func 4"))
	require.NoError(t, err)
	assert.Equal(t, "(4, false, 'hello')", step.Value)

	step, err = m.InvokeOne(split("mod func 5"))
	require.NoError(t, err)
	assert.False(t, step.Finished)
	assert.Equal(t, "demo", m.ContextName())
	assert.Equal(t, []string{"func", "5"}, step.Remaining)

	m.Stack().Pop()
	_, err = m.InvokeOne([]string{"broken"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, typedtypes.ErrArgument))
}

func TestMachine_LookupErrorsPropagate(t *testing.T) {
	m, _ := setupShell(t)
	mock := testutils.NewMockContext("mock")
	mock.FailLookup("bad", fmt.Errorf("cannot load"))
	m.Stack().Push(mock)

	_, err := m.InvokeOne([]string{"bad"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot load")
	assert.Equal(t, []string{"bad"}, mock.Lookups())

	_, err = m.InvokeOne([]string{"help"})
	require.Error(t, err, "listing fails on the broken entry")
	assert.Equal(t, 2, m.Stack().Len())
}

func TestMachine_MockContextHelpAndNotFound(t *testing.T) {
	h := testutils.NewAssertionHelpers(t)
	m, _ := setupShell(t)

	mock := testutils.NewMockContext("devices")
	mock.SetDoc("Attached devices.\nOne entry per port.")
	m.Stack().Push(mock)

	step, err := m.InvokeOne([]string{"help"})
	require.NoError(t, err)
	assert.Contains(t, step.Value, "Attached devices.")

	_, err = m.InvokeOne([]string{"nosuch"})
	h.AssertKind(err, typedtypes.KindNotFound)
	h.AssertParam(err, "function", "nosuch")
	assert.Equal(t, 2, m.Stack().Len())
}

func TestMachine_DataResultBecomesContext(t *testing.T) {
	m, _ := setupShell(t)
	require.NoError(t, m.RootAdd("open", commands.New("open").
		Handle(func(commands.Args) (any, error) { return struct{ ID int }{ID: 1}, nil }).
		MustBuild()))

	step, err := m.InvokeOne([]string{"open"})
	require.NoError(t, err)
	assert.False(t, step.Finished)
	assert.Equal(t, "struct { ID int }", m.ContextName())
}

func TestContextStack(t *testing.T) {
	root := commands.NewNamespace("root", "")
	s := NewContextStack(root)
	assert.Equal(t, 1, s.Len())

	s.Push(commands.NewNamespace("a", ""))
	s.Push(commands.NewNamespace("b", ""))
	assert.Equal(t, "root.a.b", s.Path())
	assert.Equal(t, []string{"root", "a", "b"}, s.Names())

	top, ok := s.Pop()
	require.True(t, ok)
	assert.Equal(t, "b", top.Name())

	s.Clear()
	_, ok = s.Top()
	assert.False(t, ok)
	_, ok = s.Pop()
	assert.False(t, ok)
	assert.Equal(t, "", s.Path())
}
