// Package typesys implements the type registry: the authority that maps type
// names and native Go types to type implementations, builds composite types
// on demand, consults lazy type sources, and runs the conversion and
// formatting pipeline.
package typesys

import (
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/charmbracelet/log"

	"typedshell/internal/logger"
	"typedshell/internal/types"
	"typedshell/pkg/typedtypes"
)

// SourceFunc is a lazy type source. It may register any number of types into
// the registry it is given.
type SourceFunc func(r *Registry) error

type lazySource struct {
	label string
	group string
	load  SourceFunc
}

// FailedSource records a lazy source (or a plugin entry within a group) that
// returned an error while being consulted.
type FailedSource struct {
	Label string
	Err   error
}

// Registry maps type names to implementations. Entries are never removed and
// a name can be registered only once.
//
// The mutex guards the maps only; it is released while lazy sources run and
// while factories build composite types, so both may call back into the
// registry.
type Registry struct {
	mu          sync.Mutex
	known       map[string]typedtypes.Type
	factories   map[string]typedtypes.Factory
	native      map[reflect.Type]typedtypes.Type
	kindFactory map[reflect.Kind]typedtypes.Factory
	sources     []lazySource
	failed      []FailedSource
	logger      *log.Logger
}

// NewEmpty creates a registry with no types at all.
func NewEmpty() *Registry {
	return &Registry{
		known:       make(map[string]typedtypes.Type),
		factories:   make(map[string]typedtypes.Factory),
		native:      make(map[reflect.Type]typedtypes.Type),
		kindFactory: make(map[reflect.Kind]typedtypes.Factory),
		logger:      logger.NewStyledLogger("TypeSystem"),
	}
}

// New creates a registry preloaded with the built-in types and then with
// each of the given modules.
func New(modules ...typedtypes.Module) *Registry {
	r := NewEmpty()
	r.LoadTypeModule(types.Builtins())
	for _, m := range modules {
		r.LoadTypeModule(m)
	}
	return r
}

// Register adds a type under name. impl may be a Factory, a Type, or a
// reflect.Type whose pointer implements encoding.TextUnmarshaler. Anything
// else, a duplicate name or an empty name is a TypeSystemError.
func (r *Registry) Register(name string, impl any) error {
	name = Canonicalize(name)
	if name == "" {
		return typedtypes.NewTypeSystemError("type name cannot be empty")
	}

	switch v := impl.(type) {
	case typedtypes.Factory:
		return r.registerFactory(name, v)
	case reflect.Type:
		t, err := newTextType(name, v)
		if err != nil {
			return err
		}
		return r.registerType(name, t)
	case typedtypes.Type:
		return r.registerType(name, v)
	case nil:
		return typedtypes.NewTypeSystemError("cannot register a nil type", "type", name)
	}

	return typedtypes.NewTypeSystemError("type does not implement conversion and default formatting",
		"type", name, "impl", fmt.Sprintf("%T", impl))
}

func (r *Registry) registerFactory(name string, f typedtypes.Factory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.existsLocked(name) {
		return typedtypes.NewTypeSystemError("type already registered", "type", name)
	}
	r.factories[name] = f
	if km, ok := f.(typedtypes.KindMapped); ok {
		if _, exists := r.kindFactory[km.MappedKind()]; !exists {
			r.kindFactory[km.MappedKind()] = f
		}
	}
	r.logger.Debug("Registered type factory", "type", name)
	return nil
}

func (r *Registry) registerType(name string, t typedtypes.Type) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.existsLocked(name) {
		return typedtypes.NewTypeSystemError("type already registered", "type", name)
	}
	r.known[name] = t

	if a, ok := t.(typedtypes.Aliased); ok {
		for _, alias := range a.Aliases() {
			alias = Canonicalize(alias)
			if alias != "" && !r.existsLocked(alias) {
				r.known[alias] = t
			}
		}
	}
	if nm, ok := t.(typedtypes.NativeMapped); ok {
		if rt := nm.NativeType(); rt != nil {
			if _, exists := r.native[rt]; !exists {
				r.native[rt] = t
			}
		}
	}
	r.logger.Debug("Registered type", "type", name)
	return nil
}

func (r *Registry) existsLocked(name string) bool {
	_, isType := r.known[name]
	_, isFactory := r.factories[name]
	return isType || isFactory
}

// Resolve returns the implementation for key, which may be a type name, a
// reflect.Type or an already resolved Type.
func (r *Registry) Resolve(key any) (typedtypes.Type, error) {
	switch k := key.(type) {
	case string:
		return r.resolveName(k)
	case reflect.Type:
		return r.resolveNative(k)
	case typedtypes.Type:
		return k, nil
	case nil:
		return nil, typedtypes.NewArgumentError("no type given")
	}
	return nil, typedtypes.NewArgumentError("unsupported type key", "key", fmt.Sprintf("%T", key))
}

func (r *Registry) resolveName(name string) (typedtypes.Type, error) {
	canonical := Canonicalize(name)
	if t, ok := r.cached(canonical); ok {
		return t, nil
	}

	base, subs, err := SplitType(canonical)
	if err != nil {
		return nil, err
	}
	complexType := subs != nil

	if complexType && r.hasFactory(base) {
		return r.instantiate(canonical, base, subs)
	}

	failed := r.loadSources(canonical, base, complexType)

	if t, ok := r.cached(canonical); ok {
		return t, nil
	}
	if complexType && r.hasFactory(base) {
		return r.instantiate(canonical, base, subs)
	}

	return nil, typedtypes.NewArgumentError("unknown type", "type", name, "failed_sources", failed).
		Wrap(typedtypes.NewTypeSystemError("type not registered", "type", canonical))
}

func (r *Registry) cached(name string) (typedtypes.Type, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.known[name]
	return t, ok
}

func (r *Registry) hasFactory(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.factories[name]
	return ok
}

// instantiate resolves every sub-type, builds the composite and caches it
// under its canonical name. A concurrent build of the same name keeps the
// first stored instance.
func (r *Registry) instantiate(canonical, base string, subs []string) (typedtypes.Type, error) {
	r.mu.Lock()
	factory := r.factories[base]
	r.mu.Unlock()

	elems := make([]typedtypes.Type, len(subs))
	for i, sub := range subs {
		t, err := r.resolveName(sub)
		if err != nil {
			return nil, err
		}
		elems[i] = t
	}

	built, err := factory.Build(r, elems...)
	if err != nil {
		return nil, typedtypes.NewArgumentError("could not build composite type", "type", canonical).Wrap(err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.known[canonical]; ok {
		return existing, nil
	}
	r.known[canonical] = built
	r.logger.Debug("Instantiated composite type", "type", canonical)
	return built, nil
}

// resolveNative looks up a Go type, building slice and map types through the
// factory mapped to their kind.
func (r *Registry) resolveNative(rt reflect.Type) (typedtypes.Type, error) {
	r.mu.Lock()
	t, ok := r.native[rt]
	factory, hasFactory := r.kindFactory[rt.Kind()]
	r.mu.Unlock()
	if ok {
		return t, nil
	}
	if !hasFactory {
		return nil, typedtypes.NewArgumentError("unknown native type", "type", rt.String())
	}

	var elemTypes []reflect.Type
	switch rt.Kind() {
	case reflect.Slice, reflect.Array:
		elemTypes = []reflect.Type{rt.Elem()}
	case reflect.Map:
		elemTypes = []reflect.Type{rt.Key(), rt.Elem()}
	default:
		return nil, typedtypes.NewArgumentError("unknown native type", "type", rt.String())
	}

	elems := make([]typedtypes.Type, len(elemTypes))
	for i, et := range elemTypes {
		e, err := r.resolveNative(et)
		if err != nil {
			return nil, err
		}
		elems[i] = e
	}

	built, err := factory.Build(r, elems...)
	if err != nil {
		return nil, typedtypes.NewArgumentError("could not build composite type", "type", rt.String()).Wrap(err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.native[rt]; ok {
		return existing, nil
	}
	r.native[rt] = built
	return built, nil
}

// IsKnownType reports whether name resolves without consulting lazy sources.
func (r *Registry) IsKnownType(name string) bool {
	canonical := Canonicalize(name)
	if _, ok := r.cached(canonical); ok {
		return true
	}
	base, subs, err := SplitType(canonical)
	if err != nil || subs == nil {
		return false
	}
	return r.hasFactory(base)
}

// KnownTypes lists every registered type name, alias and factory, plus the
// composite types built so far, sorted.
func (r *Registry) KnownTypes() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]string, 0, len(r.known)+len(r.factories))
	for name := range r.known {
		names = append(names, name)
	}
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FailedSources returns every lazy source failure recorded so far.
func (r *Registry) FailedSources() []FailedSource {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]FailedSource, len(r.failed))
	copy(out, r.failed)
	return out
}

// PendingSources returns the labels of the lazy sources still queued.
func (r *Registry) PendingSources() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	labels := make([]string, len(r.sources))
	for i, s := range r.sources {
		labels[i] = s.label
	}
	return labels
}
