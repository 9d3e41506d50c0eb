package parser

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"typedshell/internal/commands"
	"typedshell/pkg/typedtypes"
)

func noop(commands.Args) (any, error) { return nil, nil }

func funcSpec() *commands.Command {
	return commands.New("func").
		Param("arg1", "integer").
		Optional("force", "bool", false).
		Optional("arg2", "string", "hello").
		Handle(noop).
		MustBuild()
}

func TestIsFlag(t *testing.T) {
	tests := []struct {
		token string
		want  bool
	}{
		{"-f", true},
		{"--force", true},
		{"--arg2=value", true},
		{"--", false},
		{"-", false},
		{"-15", false},
		{"--15", false},
		{"-0x10", false},
		{"---x", false},
		{"value", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			assert.Equal(t, tt.want, IsFlag(tt.token))
		})
	}
}

func TestProcessArguments(t *testing.T) {
	tests := []struct {
		name       string
		tokens     []string
		positional []string
		keywords   map[string]string
		remaining  []string
	}{
		{
			name:       "short flags with implicit bool",
			tokens:     []string{"1", "-f", "-a", "back"},
			positional: []string{"1"},
			keywords:   map[string]string{"force": "true", "arg2": "back"},
			remaining:  []string{},
		},
		{
			name:       "explicit bool value",
			tokens:     []string{"1", "-f", "false", "-a", "back"},
			positional: []string{"1"},
			keywords:   map[string]string{"force": "false", "arg2": "back"},
			remaining:  []string{},
		},
		{
			name:       "stops once filled",
			tokens:     []string{"1", "next", "cmd"},
			positional: []string{"1"},
			keywords:   map[string]string{},
			remaining:  []string{"next", "cmd"},
		},
		{
			name:       "inline value keeps later equals",
			tokens:     []string{"1", "--arg2=name=value", "--"},
			positional: []string{"1"},
			keywords:   map[string]string{"arg2": "name=value"},
			remaining:  []string{},
		},
		{
			name:       "long flag with separate value",
			tokens:     []string{"--arg2", "x", "--arg1", "5", "rest"},
			positional: nil,
			keywords:   map[string]string{"arg2": "x", "arg1": "5"},
			remaining:  []string{"rest"},
		},
		{
			name:       "implicit bool before separator",
			tokens:     []string{"1", "-f", "--", "back"},
			positional: []string{"1"},
			keywords:   map[string]string{"force": "true"},
			remaining:  []string{"back"},
		},
		{
			name:       "separator ends parsing",
			tokens:     []string{"--", "back"},
			positional: nil,
			keywords:   map[string]string{},
			remaining:  []string{"back"},
		},
		{
			name:       "negative number is positional",
			tokens:     []string{"-15"},
			positional: []string{"-15"},
			keywords:   map[string]string{},
			remaining:  []string{},
		},
		{
			name:       "trailing bool flag",
			tokens:     []string{"1", "--force"},
			positional: []string{"1"},
			keywords:   map[string]string{"force": "true"},
			remaining:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos, kw, rest, err := ProcessArguments(funcSpec(), tt.tokens)
			require.NoError(t, err)
			assert.Equal(t, tt.positional, pos)
			assert.Equal(t, tt.keywords, kw)
			assert.ElementsMatch(t, tt.remaining, rest)
		})
	}
}

func TestProcessArguments_Errors(t *testing.T) {
	untyped := commands.New("raw").Param("value", "").Handle(noop).MustBuild()

	tests := []struct {
		name   string
		spec   Spec
		tokens []string
		errMsg string
	}{
		{
			name:   "single dash long flag",
			spec:   funcSpec(),
			tokens: []string{"1", "-force"},
			errMsg: "did not start with --",
		},
		{
			name:   "missing value",
			spec:   funcSpec(),
			tokens: []string{"1", "--arg2"},
			errMsg: "Could not find value for keyword argument",
		},
		{
			name:   "missing value before separator",
			spec:   funcSpec(),
			tokens: []string{"1", "--arg2", "--"},
			errMsg: "Could not find value for keyword argument",
		},
		{
			name:   "unknown short name",
			spec:   funcSpec(),
			tokens: []string{"1", "-z"},
			errMsg: "none could be found",
		},
		{
			name:   "untyped parameter flag",
			spec:   untyped,
			tokens: []string{"--value", "x"},
			errMsg: "does not have type information",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, _, err := ProcessArguments(tt.spec, tt.tokens)
			require.Error(t, err)
			assert.True(t, errors.Is(err, typedtypes.ErrArgument))
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestProcessArguments_DoesNotMutateInput(t *testing.T) {
	tokens := []string{"1", "-f", "-a", "x", "extra"}
	_, _, rest, err := ProcessArguments(funcSpec(), tokens)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "-f", "-a", "x", "extra"}, tokens)
	assert.Equal(t, []string{"extra"}, rest)
}

func TestSplitLine(t *testing.T) {
	tests := []struct {
		name   string
		line   string
		want   []string
		errMsg string
	}{
		{name: "plain words", line: "demo 1 back", want: []string{"demo", "1", "back"}},
		{name: "double quotes", line: `set "hello world"`, want: []string{"set", "hello world"}},
		{name: "single quotes", line: `set 'a b' c`, want: []string{"set", "a b", "c"}},
		{name: "escaped space", line: `set a\ b`, want: []string{"set", "a b"}},
		{name: "unterminated quote", line: `set "oops`, errMsg: "Could not split command line"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SplitLine(tt.line)
			if tt.errMsg != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsBlank(t *testing.T) {
	assert.True(t, IsBlank(""))
	assert.True(t, IsBlank("# comment"))
	assert.False(t, IsBlank("demo 1"))
	assert.False(t, IsBlank(" #indented"))
}

func TestJoinTokens(t *testing.T) {
	line := JoinTokens([]string{"set", "hello world"})
	tokens, err := SplitLine(line)
	require.NoError(t, err)
	assert.Equal(t, []string{"set", "hello world"}, tokens)
}
