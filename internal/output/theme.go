package output

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

var _ StyleProvider = (*Theme)(nil)

// Theme maps semantic types to lipgloss styles.
type Theme struct {
	Name   string
	styles map[SemanticType]lipgloss.Style
}

// DefaultTheme returns the colored theme used by the interactive shell.
func DefaultTheme() *Theme {
	return &Theme{
		Name: "default",
		styles: map[SemanticType]lipgloss.Style{
			SemanticInfo:      lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
			SemanticSuccess:   lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
			SemanticWarning:   lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
			SemanticError:     lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
			SemanticCommand:   lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true),
			SemanticKeyword:   lipgloss.NewStyle().Foreground(lipgloss.Color("205")),
			SemanticHighlight: lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
			SemanticTypeName:  lipgloss.NewStyle().Foreground(lipgloss.Color("141")),
			SemanticComment:   lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Italic(true),
		},
	}
}

// GetStyle returns the style for semantic, or an unstyled one.
func (t *Theme) GetStyle(semantic string) TextStyle {
	if style, ok := t.styles[SemanticType(semantic)]; ok {
		return lipglossStyle{style}
	}
	return lipglossStyle{lipgloss.NewStyle()}
}

// lipglossStyle adapts the variadic lipgloss Render to TextStyle.
type lipglossStyle struct {
	style lipgloss.Style
}

func (l lipglossStyle) Render(text string) string {
	return l.style.Render(text)
}

// IsAvailable reports whether the terminal can show colors.
func (t *Theme) IsAvailable() bool {
	return lipgloss.ColorProfile() != termenv.Ascii
}
