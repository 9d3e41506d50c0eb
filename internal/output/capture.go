package output

import (
	"bytes"
	"strings"
	"sync"
)

// CaptureBuffer records printer output for tests. It is safe for concurrent
// writers.
type CaptureBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

// NewCaptureBuffer creates an empty capture buffer.
func NewCaptureBuffer() *CaptureBuffer {
	return &CaptureBuffer{}
}

func (c *CaptureBuffer) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buf.Write(p)
}

func (c *CaptureBuffer) String() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buf.String()
}

// Lines splits the output on newlines, ignoring the final one. Shell results
// are printed one per line, so this is one entry per result.
func (c *CaptureBuffer) Lines() []string {
	content := c.String()
	if content == "" {
		return []string{}
	}
	return strings.Split(strings.TrimSuffix(content, "\n"), "\n")
}

// Reset discards everything captured so far.
func (c *CaptureBuffer) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.buf.Reset()
}

// Len is the number of bytes captured.
func (c *CaptureBuffer) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buf.Len()
}

// Contains reports whether text appears anywhere in the output.
func (c *CaptureBuffer) Contains(text string) bool {
	return strings.Contains(c.String(), text)
}

// CaptureOutput runs fn with a test-mode printer and returns what it printed.
func CaptureOutput(fn func(*Printer)) string {
	buffer := NewCaptureBuffer()
	fn(NewPrinter(WithWriter(buffer), TestMode()))
	return buffer.String()
}

// CaptureOutputWithStyles runs fn with a printer styled by provider.
func CaptureOutputWithStyles(provider StyleProvider, fn func(*Printer)) string {
	buffer := NewCaptureBuffer()
	fn(NewPrinter(WithWriter(buffer), WithStyles(provider)))
	return buffer.String()
}

// MockStyleProvider tags rendered text with its semantic type, e.g.
// "[value]0x2A[/value]", so tests can see which style was applied.
type MockStyleProvider struct {
	available bool
}

// NewMockStyleProvider creates an available mock provider.
func NewMockStyleProvider() *MockStyleProvider {
	return &MockStyleProvider{available: true}
}

// SetAvailable toggles IsAvailable.
func (m *MockStyleProvider) SetAvailable(available bool) {
	m.available = available
}

func (m *MockStyleProvider) GetStyle(semantic string) TextStyle {
	return MockTextStyle{semantic: semantic}
}

func (m *MockStyleProvider) IsAvailable() bool {
	return m.available
}

// MockTextStyle wraps text in [semantic]...[/semantic] markers.
type MockTextStyle struct {
	semantic string
}

func (m MockTextStyle) Render(text string) string {
	return "[" + m.semantic + "]" + text + "[/" + m.semantic + "]"
}
