package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/x/ansi"
)

// Printer writes semantic output in plain, styled or JSON form.
type Printer struct {
	styleProvider StyleProvider
	writer        io.Writer
	mode          Mode
	forcePlain    bool
	testMode      bool
	silent        bool
	prefix        string

	mu sync.Mutex
}

// NewPrinter creates a Printer writing to os.Stdout in auto mode.
func NewPrinter(options ...Option) *Printer {
	p := &Printer{
		writer: os.Stdout,
		mode:   ModeAuto,
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

// Print outputs text as is.
func (p *Printer) Print(text string) {
	p.output(SemanticPlain, text, false)
}

// Printf outputs formatted text.
func (p *Printer) Printf(format string, args ...interface{}) {
	p.output(SemanticPlain, fmt.Sprintf(format, args...), false)
}

// Println outputs text followed by a newline.
func (p *Printer) Println(text string) {
	p.output(SemanticPlain, text, true)
}

// Value outputs a formatted command result.
func (p *Printer) Value(text string) {
	p.output(SemanticValue, text, true)
}

func (p *Printer) Info(text string) {
	p.output(SemanticInfo, text, true)
}

func (p *Printer) Success(text string) {
	p.output(SemanticSuccess, text, true)
}

func (p *Printer) Warning(text string) {
	p.output(SemanticWarning, text, true)
}

func (p *Printer) Error(text string) {
	p.output(SemanticError, text, true)
}

func (p *Printer) Command(text string) {
	p.output(SemanticCommand, text, true)
}

func (p *Printer) Keyword(text string) {
	p.output(SemanticKeyword, text, true)
}

func (p *Printer) Highlight(text string) {
	p.output(SemanticHighlight, text, true)
}

// TypeName outputs the name of a registered type.
func (p *Printer) TypeName(text string) {
	p.output(SemanticTypeName, text, true)
}

func (p *Printer) Comment(text string) {
	p.output(SemanticComment, text, true)
}

func (p *Printer) output(semantic SemanticType, text string, addNewline bool) {
	if p.silent {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	var finalText string
	switch p.mode {
	case ModeJSON:
		finalText = p.renderJSON(semantic, text)
	case ModeStyled:
		finalText = p.renderStyled(semantic, text, addNewline)
	default:
		finalText = p.renderText(semantic, text, addNewline)
	}

	if p.prefix != "" {
		finalText = p.prefix + finalText
	}
	_, _ = fmt.Fprint(p.writer, finalText)
}

func (p *Printer) renderText(semantic SemanticType, text string, addNewline bool) string {
	var result string
	if !p.forcePlain && p.mode != ModePlain && p.styleProvider != nil && p.styleProvider.IsAvailable() {
		result = p.styleProvider.GetStyle(string(semantic)).Render(text)
	} else {
		result = plainProvider.GetStyle(string(semantic)).Render(ansi.Strip(text))
	}
	return withNewline(result, addNewline)
}

func (p *Printer) renderStyled(semantic SemanticType, text string, addNewline bool) string {
	if p.styleProvider != nil && p.styleProvider.IsAvailable() {
		return withNewline(p.styleProvider.GetStyle(string(semantic)).Render(text), addNewline)
	}
	return p.renderText(semantic, text, addNewline)
}

func (p *Printer) renderJSON(semantic SemanticType, text string) string {
	out := map[string]interface{}{
		"type":    semantic,
		"message": ansi.Strip(text),
	}
	data, err := json.Marshal(out)
	if err != nil {
		return text + "\n"
	}
	return string(data) + "\n"
}

func withNewline(s string, add bool) string {
	if add && !strings.HasSuffix(s, "\n") {
		return s + "\n"
	}
	return s
}

// SetWriter changes the output writer.
func (p *Printer) SetWriter(writer io.Writer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.writer = writer
}

// SetMode changes the output mode.
func (p *Printer) SetMode(mode Mode) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.mode = mode
}

// SetStyleProvider changes the style provider. Pass nil to disable styling.
func (p *Printer) SetStyleProvider(provider StyleProvider) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.styleProvider = provider
}

// IsStylable reports whether the printer applies styles.
func (p *Printer) IsStylable() bool {
	return !p.forcePlain && p.styleProvider != nil && p.styleProvider.IsAvailable()
}

func (p *Printer) String() string {
	hasStyles := "no"
	if p.IsStylable() {
		hasStyles = "yes"
	}
	return fmt.Sprintf("Printer{mode: %v, styles: %s, writer: %T}", p.mode, hasStyles, p.writer)
}
