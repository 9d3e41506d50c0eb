package testutils

import (
	"fmt"

	"typedshell/internal/commands"
)

// DemoRootHelp is the listing "help" prints for a root holding DemoEntries.
const DemoRootHelp = `
root
A basic context for holding the root callable functions for a shell.

Defined Functions:
 - demo(integer arg1)
   Hello.
 - func(integer arg1, bool force=false, string arg2=hello)
   Demo function.
 - func2()
   Demo function 2.

Builtin Functions
 - back
 - help
 - quit

`

// DemoHelp is the text "help demo" prints.
const DemoHelp = `
Test(integer arg1)

Hello.

Arguments:
  - arg1 (integer): Test description
`

// DemoEntries returns the root entries used by shell tests:
//
//	func(integer arg1, bool force=false, string arg2=hello) returns a string
//	func2() enters a Test context holding 1
//	demo(integer arg1) constructs a Test context holding arg1
func DemoEntries() map[string]any {
	return map[string]any{
		"func":  DemoFunc(),
		"func2": DemoFunc2(),
		"demo":  DemoConstructor(),
	}
}

// DemoFunc returns "(arg1, force, 'arg2')".
func DemoFunc() *commands.Command {
	return commands.New("func").
		Doc("Demo function.").
		Param("arg1", "integer").
		Optional("force", "bool", false).
		Optional("arg2", "string", "hello").
		Returns("string", "").
		Handle(func(args commands.Args) (any, error) {
			return fmt.Sprintf("(%d, %t, '%s')", args.Int("arg1"), args.Bool("force"), args.String("arg2")), nil
		}).
		MustBuild()
}

// DemoFunc2 enters a Test context holding 1.
func DemoFunc2() *commands.Command {
	return commands.New("func2").
		Doc("Demo function 2.").
		Handle(func(commands.Args) (any, error) {
			return DemoContext(1), nil
		}).
		MustBuild()
}

// DemoConstructor builds a Test context from a non-negative integer.
func DemoConstructor() *commands.Command {
	return commands.New("Test").
		Doc("Hello.").
		Param("arg1", "integer", commands.V("nonnegative")).
		Describe("arg1", "Test description").
		Constructor().
		Handle(func(args commands.Args) (any, error) {
			return DemoContext(args.Int("arg1")), nil
		}).
		MustBuild()
}

// DemoContext is the Test context: get_arg prints the held value in hex and
// return_one prints 1.
func DemoContext(value int64) *commands.Namespace {
	ns := commands.NewNamespace("Test", "Hello.")
	_ = ns.Set("get_arg", commands.New("get_arg").
		Doc("Get arg.").
		Returns("integer", "hex").
		Handle(func(commands.Args) (any, error) { return value, nil }))
	_ = ns.Set("return_one", commands.New("return_one").
		Doc("Return 1.").
		Stringable().
		Handle(func(commands.Args) (any, error) { return 1, nil }))
	return ns
}

// Counter is a context whose bump command counts its calls.
type Counter struct {
	*commands.Namespace
	Calls int
}

// NewCounter creates a Counter context named name.
func NewCounter(name string) *Counter {
	c := &Counter{Namespace: commands.NewNamespace(name, "Counts calls.")}
	_ = c.Set("bump", commands.New("bump").
		Doc("Increment the counter.").
		Stringable().
		Handle(func(commands.Args) (any, error) {
			c.Calls++
			return c.Calls, nil
		}))
	return c
}
