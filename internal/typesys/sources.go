package typesys

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"typedshell/pkg/typedtypes"
)

// PluginEntry is one discoverable type module within a plugin group.
type PluginEntry struct {
	Name string
	Load func() (typedtypes.Module, error)
}

var (
	pluginMu     sync.RWMutex
	pluginGroups = make(map[string][]PluginEntry)
)

// RegisterPlugin adds an entry to a process-wide plugin group. Packages
// contributing optional types call it from init.
func RegisterPlugin(group string, entry PluginEntry) {
	pluginMu.Lock()
	defer pluginMu.Unlock()
	pluginGroups[group] = append(pluginGroups[group], entry)
}

func pluginEntries(group string) []PluginEntry {
	pluginMu.RLock()
	defer pluginMu.RUnlock()
	entries := make([]PluginEntry, len(pluginGroups[group]))
	copy(entries, pluginGroups[group])
	return entries
}

// AddSource queues a lazy type source. It is only consulted when a type name
// cannot otherwise be resolved.
func (r *Registry) AddSource(label string, fn SourceFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sources = append(r.sources, lazySource{label: label, load: fn})
}

// AddPluginGroup queues a lazy source that loads every entry registered in
// the named plugin group at the time it is consulted.
func (r *Registry) AddPluginGroup(group string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sources = append(r.sources, lazySource{label: group, group: group})
}

// loadSources consults queued sources in order until name (or the factory
// for base, when the name is composite) becomes known. Sources before the
// one that succeeded are dropped and the successful one stays queued. If no
// source helps, the queue is emptied. It returns the labels of sources that
// failed during this call.
func (r *Registry) loadSources(name, base string, complexType bool) []string {
	r.mu.Lock()
	pending := make([]lazySource, len(r.sources))
	copy(pending, r.sources)
	r.mu.Unlock()

	var failed []string
	consumed := len(pending)

	for i, src := range pending {
		r.logger.Debug("Consulting lazy type source", "source", src.label, "type", name)
		failed = append(failed, r.consult(src)...)

		if r.isResolvable(name, base, complexType) {
			consumed = i
			break
		}
	}

	r.mu.Lock()
	// Sources queued while consulting (a source may add more) are kept.
	var added []lazySource
	if len(r.sources) > len(pending) {
		added = r.sources[len(pending):]
	}
	r.sources = append(append([]lazySource{}, pending[consumed:]...), added...)
	r.mu.Unlock()

	return failed
}

func (r *Registry) isResolvable(name, base string, complexType bool) bool {
	if _, ok := r.cached(name); ok {
		return true
	}
	return complexType && r.hasFactory(base)
}

// consult runs one source. Errors are logged and recorded, never returned.
func (r *Registry) consult(src lazySource) []string {
	if src.load != nil {
		if err := src.load(r); err != nil {
			r.recordFailure(src.label, err)
			return []string{src.label}
		}
		return nil
	}

	var failed []string
	for _, entry := range pluginEntries(src.group) {
		label := src.group + ":" + entry.Name
		mod, err := entry.Load()
		if err != nil {
			r.recordFailure(label, err)
			failed = append(failed, label)
			continue
		}
		r.LoadTypeModule(mod)
	}
	return failed
}

func (r *Registry) recordFailure(label string, err error) {
	r.logger.Warn("Lazy type source failed", "source", label, "error", err)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failed = append(r.failed, FailedSource{Label: label, Err: err})
}

// LoadTypeModule registers every entry of mod whose name does not start with
// an underscore. Entries that fail to register are skipped. It returns the
// number of entries registered.
func (r *Registry) LoadTypeModule(mod typedtypes.Module) int {
	names := make([]string, 0, len(mod))
	for name := range mod {
		if strings.HasPrefix(name, "_") {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	loaded := 0
	for _, name := range names {
		if err := r.Register(name, mod[name]); err != nil {
			r.logger.Debug("Skipping type module entry", "type", name, "error", err)
			continue
		}
		loaded++
	}
	return loaded
}

// String summarizes the registry for debugging.
func (r *Registry) String() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return fmt.Sprintf("Registry{types: %d, factories: %d, sources: %d}",
		len(r.known), len(r.factories), len(r.sources))
}
