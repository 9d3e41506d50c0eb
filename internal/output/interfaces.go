// Package output prints shell results and messages. Styling is optional and
// injected through a StyleProvider so plain and test output stay stable.
package output

// StyleProvider supplies a TextStyle per semantic type.
type StyleProvider interface {
	GetStyle(semantic string) TextStyle
	// IsAvailable reports whether styles can be used; printers fall back to
	// plain text otherwise.
	IsAvailable() bool
}

// TextStyle renders text. Theme wraps lipgloss styles to provide it.
type TextStyle interface {
	Render(text string) string
}

// Mode selects how a printer renders.
type Mode int

const (
	// ModeAuto styles output when a provider is available.
	ModeAuto Mode = iota
	// ModeStyled always uses the provider when there is one.
	ModeStyled
	// ModePlain prints text with ANSI sequences removed.
	ModePlain
	// ModeJSON prints one JSON object per message.
	ModeJSON
)

func (m Mode) String() string {
	switch m {
	case ModeStyled:
		return "styled"
	case ModePlain:
		return "plain"
	case ModeJSON:
		return "json"
	default:
		return "auto"
	}
}

// SemanticType is the meaning of a piece of output.
type SemanticType string

const (
	SemanticPlain     SemanticType = "plain"
	SemanticInfo      SemanticType = "info"
	SemanticSuccess   SemanticType = "success"
	SemanticWarning   SemanticType = "warning"
	SemanticError     SemanticType = "error"
	SemanticCommand   SemanticType = "command"
	SemanticKeyword   SemanticType = "keyword"
	SemanticHighlight SemanticType = "highlight"
	// SemanticValue is a formatted command result.
	SemanticValue SemanticType = "value"
	// SemanticTypeName marks the name of a registered type.
	SemanticTypeName SemanticType = "type"
	SemanticComment  SemanticType = "comment"
)
