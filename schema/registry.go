package schema

import (
	"reflect"
	"sync"
)

// Registry is a process-wide map from type identity to Schema, with
// memoizing derivation. It is safe for concurrent use, the way
// blockberries/cramberry's Registry guards its byID/byType/byName maps
// with a sync.RWMutex.
type Registry struct {
	mu     sync.RWMutex
	byType map[reflect.Type]Schema
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byType: make(map[reflect.Type]Schema)}
}

// DefaultRegistry is the shared process-wide registry used by SchemaOf
// and the writer's name-indexed write path.
var DefaultRegistry = NewRegistry()

// Register inserts or replaces the schema for t. Overwriting an existing
// mapping is allowed but discouraged (I5).
func (r *Registry) Register(t reflect.Type, s Schema) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byType[t] = s
}

// Lookup returns the registered schema for t, if any.
func (r *Registry) Lookup(t reflect.Type) (Schema, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.byType[t]
	return s, ok
}

// SchemaOf returns the registered schema for t if one exists, otherwise
// derives one via Derive, stores it, and returns it. Derivation is
// memoized: concurrent callers deriving the same type race harmlessly,
// the loser's result is discarded in favor of whichever finished the
// compare-and-swap first.
func (r *Registry) SchemaOf(t reflect.Type) (Schema, error) {
	if s, ok := r.Lookup(t); ok {
		return s, nil
	}

	s, err := Derive(t)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.byType[t]; ok {
		return existing, nil
	}
	r.byType[t] = s
	return s, nil
}

// Register stores s as the schema for t in the DefaultRegistry.
func Register(t reflect.Type, s Schema) {
	DefaultRegistry.Register(t, s)
}

// Lookup looks up t in the DefaultRegistry.
func Lookup(t reflect.Type) (Schema, bool) {
	return DefaultRegistry.Lookup(t)
}

// SchemaOf resolves t via the DefaultRegistry, deriving and memoizing if
// necessary.
func SchemaOf(t reflect.Type) (Schema, error) {
	return DefaultRegistry.SchemaOf(t)
}
