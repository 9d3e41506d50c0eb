// Package commands holds command metadata, the namespaces commands live in
// and the module table that lazily supplies namespace entries.
package commands

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"typedshell/pkg/typedtypes"
)

// Module is a named, loadable group of namespace entries. Objects holds
// *Command, Context or nested reference values keyed by object name.
type Module struct {
	Name    string
	Doc     string
	Objects map[string]any
}

// Loader produces a module on first use.
type Loader func() (*Module, error)

// Registry maps module names to loaders and caches loaded modules. It backs
// "module,object" references stored in namespaces.
type Registry struct {
	mu      sync.RWMutex
	loaders map[string]Loader
	loaded  map[string]*Module
}

// NewRegistry creates an empty module registry.
func NewRegistry() *Registry {
	return &Registry{
		loaders: make(map[string]Loader),
		loaded:  make(map[string]*Module),
	}
}

// Register adds a module loader. Returns an error if the name is empty or
// already registered.
func (r *Registry) Register(name string, loader Loader) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if name == "" {
		return fmt.Errorf("module name cannot be empty")
	}
	if _, exists := r.loaders[name]; exists {
		return fmt.Errorf("module %s already registered", name)
	}
	r.loaders[name] = loader
	return nil
}

// Load returns the named module, running its loader once.
func (r *Registry) Load(name string) (*Module, error) {
	r.mu.RLock()
	mod, ok := r.loaded[name]
	loader, known := r.loaders[name]
	r.mu.RUnlock()
	if ok {
		return mod, nil
	}
	if !known {
		return nil, typedtypes.NewArgumentError("Could not import module", "module", name)
	}

	mod, err := loader()
	if err != nil {
		return nil, typedtypes.NewArgumentError("Could not import module", "module", name).Wrap(err)
	}
	if mod.Name == "" {
		mod.Name = name
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if prev, ok := r.loaded[name]; ok {
		return prev, nil
	}
	r.loaded[name] = mod
	return mod, nil
}

// ResolveRef loads a "module,object" reference. An empty object names the
// whole module as a context.
func (r *Registry) ResolveRef(ref string) (any, error) {
	module, object, _ := strings.Cut(ref, ",")
	mod, err := r.Load(module)
	if err != nil {
		return nil, err
	}
	if object == "" {
		return ModuleContext(mod)
	}
	if obj, ok := mod.Objects[object]; ok {
		return obj, nil
	}
	return nil, typedtypes.NewArgumentError("Attempted to import nonexistent object from module",
		"module", module, "object", object)
}

// Names returns the registered module names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.loaders))
	for name := range r.loaders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsLoaded reports whether a module's loader has already run.
func (r *Registry) IsLoaded(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.loaded[name]
	return ok
}

// ModuleContext builds a namespace from every object of a module.
func ModuleContext(mod *Module) (*Namespace, error) {
	ns := NewNamespace(mod.Name, mod.Doc)
	for name, obj := range mod.Objects {
		if err := ns.Set(name, obj); err != nil {
			return nil, err
		}
	}
	return ns, nil
}

// The process-wide module registry. Modules register themselves with it
// during initialization.
var (
	globalRegistry = NewRegistry()
	globalMu       sync.RWMutex
)

// RegisterModule adds a loader to the global registry.
func RegisterModule(name string, loader Loader) error {
	return GetGlobalRegistry().Register(name, loader)
}

// GetGlobalRegistry returns the global module registry.
func GetGlobalRegistry() *Registry {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalRegistry
}

// SetGlobalRegistry replaces the global module registry. Used by tests.
func SetGlobalRegistry(r *Registry) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalRegistry = r
}
