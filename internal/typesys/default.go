package typesys

import "sync"

// DefaultPluginGroup is the plugin group every default registry consults
// when a type name is unknown.
const DefaultPluginGroup = "typedshell.types"

var (
	defaultMu       sync.Mutex
	defaultRegistry *Registry
)

// Default returns the process-wide registry, creating it with the built-in
// types and the default plugin group on first use.
func Default() *Registry {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultRegistry == nil {
		defaultRegistry = New()
		defaultRegistry.AddPluginGroup(DefaultPluginGroup)
	}
	return defaultRegistry
}

// SetDefault replaces the process-wide registry (primarily for testing).
func SetDefault(r *Registry) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultRegistry = r
}
