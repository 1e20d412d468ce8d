package metadata

import (
	"reflect"
	"sync"
)

// Registry associates Go types with binding metadata. Registration happens
// once per type at initialization time and lookups dominate thereafter, so a
// sync.RWMutex over a plain map is sufficient. Registration never removes
// entries; a concurrent lookup can observe the previous metadata of a type
// being re-registered but never a missing one.
type Registry struct {
	mu    sync.RWMutex
	types map[reflect.Type]*Type

	effMu     sync.Mutex
	effective map[reflect.Type][]Field
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		types:     make(map[reflect.Type]*Type),
		effective: make(map[reflect.Type][]Field),
	}
}

// Register associates metadata with t. Registering a type again merges the
// new fields over the existing declaration by key and refreshes the root
// information; it never removes fields, keeping registration idempotent.
func (r *Registry) Register(t reflect.Type, meta Type) {
	t = deref(t)

	r.mu.Lock()
	existing, ok := r.types[t]
	if !ok {
		m := meta
		if m.Root == "" {
			m.Root = t.Name()
		}
		r.types[t] = &m
	} else {
		if meta.Root != "" {
			existing.Root = meta.Root
		}
		if meta.Namespace != "" {
			existing.Namespace = meta.Namespace
		}
		if meta.Prefixes != nil {
			existing.Prefixes = meta.Prefixes
		}
		if meta.Base != nil {
			existing.Base = meta.Base
		}
		existing.Fields = layer(existing.Fields, meta.Fields)
	}
	r.mu.Unlock()

	r.effMu.Lock()
	clear(r.effective)
	r.effMu.Unlock()
}

// Lookup returns the metadata registered for t, or nil.
func (r *Registry) Lookup(t reflect.Type) *Type {
	t = deref(t)
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.types[t]
}

// EffectiveFields returns the inheritance-flattened field list for t: the
// ancestor chain is walked root-most first and each level's declarations are
// layered by key, so a derived redeclaration replaces the ancestor's entry in
// place. The result is cached per type, never per instance.
func (r *Registry) EffectiveFields(t reflect.Type) []Field {
	t = deref(t)

	r.effMu.Lock()
	if fields, ok := r.effective[t]; ok {
		r.effMu.Unlock()
		return fields
	}
	r.effMu.Unlock()

	// A declared Base cycle terminates the chain at the revisited type.
	var chain []*Type
	visited := make(map[reflect.Type]bool)
	for cur := t; cur != nil && !visited[cur]; {
		visited[cur] = true
		meta := r.Lookup(cur)
		if meta == nil {
			break
		}
		chain = append(chain, meta)
		if meta.Base == nil {
			break
		}
		cur = deref(meta.Base)
	}

	var fields []Field
	for i := len(chain) - 1; i >= 0; i-- {
		fields = layer(fields, chain[i].Fields)
	}

	r.effMu.Lock()
	r.effective[t] = fields
	r.effMu.Unlock()
	return fields
}

// layer overlays extra onto base by key. A redeclared key replaces the
// earlier declaration in place; new keys append in order.
func layer(base, extra []Field) []Field {
	out := make([]Field, len(base), len(base)+len(extra))
	copy(out, base)
	index := make(map[string]int, len(out))
	for i := range out {
		index[out[i].Key] = i
	}
	for _, f := range extra {
		if i, ok := index[f.Key]; ok {
			out[i] = f
			continue
		}
		index[f.Key] = len(out)
		out = append(out, f)
	}
	return out
}

func deref(t reflect.Type) reflect.Type {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}
