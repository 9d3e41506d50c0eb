package output

// PlainTextStyle prefixes text and does nothing else.
type PlainTextStyle struct {
	prefix string
}

// NewPlainTextStyle creates a plain style with an optional prefix.
func NewPlainTextStyle(prefix string) *PlainTextStyle {
	return &PlainTextStyle{prefix: prefix}
}

func (p *PlainTextStyle) Render(text string) string {
	return p.prefix + text
}

// PlainStyleProvider marks message kinds with short text prefixes. Results,
// type names and plain text are never decorated so they can be parsed.
type PlainStyleProvider struct{}

var plainProvider = NewPlainStyleProvider()

// NewPlainStyleProvider creates a plain style provider.
func NewPlainStyleProvider() *PlainStyleProvider {
	return &PlainStyleProvider{}
}

func (p *PlainStyleProvider) GetStyle(semantic string) TextStyle {
	switch SemanticType(semantic) {
	case SemanticSuccess:
		return NewPlainTextStyle("✓ ")
	case SemanticWarning:
		return NewPlainTextStyle("⚠ ")
	case SemanticError:
		return NewPlainTextStyle("✗ ")
	case SemanticInfo:
		return NewPlainTextStyle("ℹ ")
	case SemanticComment:
		return NewPlainTextStyle("# ")
	default:
		return NewPlainTextStyle("")
	}
}

func (p *PlainStyleProvider) IsAvailable() bool { return true }

func (p *PlainStyleProvider) String() string { return "PlainStyleProvider{}" }
