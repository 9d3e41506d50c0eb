package testutils

import (
	"sync"

	"typedshell/internal/commands"
)

// MockContext implements commands.Context with scripted lookups and records
// every name it is asked for.
type MockContext struct {
	mu      sync.Mutex
	name    string
	doc     string
	entries map[string]commands.Entry
	errors  map[string]error
	lookups []string
}

// NewMockContext creates an empty mock context.
func NewMockContext(name string) *MockContext {
	return &MockContext{
		name:    name,
		entries: make(map[string]commands.Entry),
		errors:  make(map[string]error),
	}
}

// SetDoc sets the documentation text.
func (m *MockContext) SetDoc(doc string) { m.doc = doc }

// Add registers an entry.
func (m *MockContext) Add(name string, entry commands.Entry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[name] = entry
}

// FailLookup makes Find report err for name, as a broken lazy reference would.
func (m *MockContext) FailLookup(name string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors[name] = err
}

// Lookups returns the names passed to Find so far.
func (m *MockContext) Lookups() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.lookups...)
}

func (m *MockContext) Name() string { return m.name }

func (m *MockContext) Doc() string { return m.doc }

func (m *MockContext) Find(name string) (commands.Entry, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lookups = append(m.lookups, name)
	if err, ok := m.errors[name]; ok {
		return commands.Entry{}, true, err
	}
	entry, ok := m.entries[name]
	return entry, ok, nil
}

func (m *MockContext) Names() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.entries)+len(m.errors))
	for name := range m.entries {
		names = append(names, name)
	}
	for name := range m.errors {
		names = append(names, name)
	}
	return sortStrings(names)
}
