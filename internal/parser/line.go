package parser

import (
	"strings"

	"github.com/kballard/go-shellquote"

	"typedshell/pkg/typedtypes"
)

// IsBlank reports whether a line is empty or a comment.
func IsBlank(line string) bool {
	return line == "" || strings.HasPrefix(line, "#")
}

// SplitLine splits a line into tokens with POSIX shell quoting rules.
func SplitLine(line string) ([]string, error) {
	tokens, err := shellquote.Split(line)
	if err != nil {
		return nil, typedtypes.NewArgumentError("Could not split command line", "line", line).Wrap(err)
	}
	return tokens, nil
}

// JoinTokens quotes tokens back into a single line.
func JoinTokens(tokens []string) string {
	return shellquote.Join(tokens...)
}
