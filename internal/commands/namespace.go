package commands

import (
	"fmt"
	"sort"
	"sync"

	"typedshell/pkg/typedtypes"
)

// Context is a navigable namespace of commands and sub-contexts.
type Context interface {
	Name() string
	Doc() string
	// Find looks up an entry. ok is false when the name is not present; err
	// is set when a lazily referenced entry cannot be loaded.
	Find(name string) (entry Entry, ok bool, err error)
	// Names returns every entry name in sorted order.
	Names() []string
}

// Entry is one member of a context: exactly one of Command and Context is set.
type Entry struct {
	Command *Command
	Context Context
}

// IsZero reports whether the entry holds nothing.
func (e Entry) IsZero() bool { return e.Command == nil && e.Context == nil }

// slot stores either an unresolved "module,object" reference or a resolved
// entry. Promotion from the first to the second happens once, in place.
type slot struct {
	ref      string
	entry    Entry
	resolved bool
}

// Namespace is the standard Context implementation.
type Namespace struct {
	mu      sync.RWMutex
	name    string
	doc     string
	slots   map[string]*slot
	modules *Registry
}

// NewNamespace creates an empty namespace.
func NewNamespace(name, doc string) *Namespace {
	return &Namespace{
		name:  name,
		doc:   doc,
		slots: make(map[string]*slot),
	}
}

// WithModules makes lazy references resolve against r instead of the global
// module registry.
func (n *Namespace) WithModules(r *Registry) *Namespace {
	n.modules = r
	return n
}

func (n *Namespace) Name() string { return n.name }

func (n *Namespace) Doc() string { return n.doc }

// Register adds an entry. value is a *Command, a Context, a Builder or a
// "module,object" reference string. Returns an error if the name is taken.
func (n *Namespace) Register(name string, value any) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if name == "" {
		return fmt.Errorf("entry name cannot be empty")
	}
	if _, exists := n.slots[name]; exists {
		return fmt.Errorf("entry %s already registered", name)
	}
	s, err := newSlot(value)
	if err != nil {
		return err
	}
	n.slots[name] = s
	return nil
}

// Set adds or replaces an entry.
func (n *Namespace) Set(name string, value any) error {
	s, err := newSlot(value)
	if err != nil {
		return err
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.slots[name] = s
	return nil
}

// Find returns the named entry, loading and memoizing lazy references.
func (n *Namespace) Find(name string) (Entry, bool, error) {
	n.mu.RLock()
	s, ok := n.slots[name]
	var (
		ref      string
		entry    Entry
		resolved bool
	)
	if ok {
		ref, entry, resolved = s.ref, s.entry, s.resolved
	}
	n.mu.RUnlock()

	if !ok {
		return Entry{}, false, nil
	}
	if resolved {
		return entry, true, nil
	}

	modules := n.modules
	if modules == nil {
		modules = GetGlobalRegistry()
	}
	value, err := modules.ResolveRef(ref)
	if err != nil {
		return Entry{}, true, err
	}
	entry, err = toEntry(value)
	if err != nil {
		return Entry{}, true, err
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	if cur := n.slots[name]; cur == s {
		s.entry, s.resolved, s.ref = entry, true, ""
	}
	return entry, true, nil
}

// Names returns all entry names sorted.
func (n *Namespace) Names() []string {
	n.mu.RLock()
	defer n.mu.RUnlock()

	names := make([]string, 0, len(n.slots))
	for name := range n.slots {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of entries.
func (n *Namespace) Len() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.slots)
}

func newSlot(value any) (*slot, error) {
	if ref, ok := value.(string); ok {
		return &slot{ref: ref}, nil
	}
	entry, err := toEntry(value)
	if err != nil {
		return nil, err
	}
	return &slot{entry: entry, resolved: true}, nil
}

func toEntry(value any) (Entry, error) {
	switch v := value.(type) {
	case *Command:
		if v != nil {
			return Entry{Command: v}, nil
		}
	case *Builder:
		cmd, err := v.Build()
		if err != nil {
			return Entry{}, err
		}
		return Entry{Command: cmd}, nil
	case Context:
		if v != nil {
			return Entry{Context: v}, nil
		}
	case Entry:
		if !v.IsZero() {
			return v, nil
		}
	}
	return Entry{}, typedtypes.NewArgumentError("Object cannot be placed in a context",
		"type", fmt.Sprintf("%T", value))
}

// AsContext turns a command result into a context that can be pushed. A
// Context is returned as is, a map becomes a namespace of its entries and
// any other value becomes an empty namespace named after its Go type.
func AsContext(value any) (Context, error) {
	switch v := value.(type) {
	case Context:
		return v, nil
	case map[string]any:
		ns := NewNamespace("dict", "")
		for name, item := range v {
			if err := ns.Set(name, item); err != nil {
				return nil, err
			}
		}
		return ns, nil
	}
	return NewNamespace(fmt.Sprintf("%T", value), ""), nil
}
