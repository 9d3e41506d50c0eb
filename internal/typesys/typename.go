package typesys

import (
	"strings"
	"unicode"

	"typedshell/pkg/typedtypes"
)

// Canonicalize strips all whitespace so "list( integer )" and "list(integer)"
// name the same cache entry.
func Canonicalize(name string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, name)
}

// SplitType splits a canonical type name into its base and its top-level
// sub-type names: "map(string,list(integer))" yields "map" and
// ["string", "list(integer)"]. A simple name yields a nil slice.
func SplitType(name string) (string, []string, error) {
	open := strings.IndexByte(name, '(')
	if open < 0 {
		if strings.ContainsAny(name, "),") || name == "" {
			return "", nil, malformed(name)
		}
		return name, nil, nil
	}
	if open == 0 || !strings.HasSuffix(name, ")") {
		return "", nil, malformed(name)
	}

	base := name[:open]
	inner := name[open+1 : len(name)-1]
	if inner == "" {
		return "", nil, malformed(name)
	}

	var subs []string
	depth, start := 0, 0
	for i := 0; i < len(inner); i++ {
		switch inner[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return "", nil, malformed(name)
			}
		case ',':
			if depth == 0 {
				subs = append(subs, inner[start:i])
				start = i + 1
			}
		}
	}
	if depth != 0 {
		return "", nil, malformed(name)
	}
	subs = append(subs, inner[start:])

	for _, s := range subs {
		if s == "" {
			return "", nil, malformed(name)
		}
	}
	return base, subs, nil
}

func malformed(name string) error {
	return typedtypes.NewTypeSystemError("malformed type name", "type", name)
}
