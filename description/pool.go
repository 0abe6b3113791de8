package description

import (
	"fmt"
	"sort"
	"strings"
)

// Pool is a name to type registry. It is populated during construction and
// read-only afterwards, so concurrent lookups are safe once the last
// Register call has returned.
type Pool struct {
	types map[string]Type
	order []string
}

// NewPool returns a pool holding the bootstrap types and the given types.
func NewPool(types ...Type) (*Pool, error) {
	p := &Pool{types: make(map[string]Type)}
	for _, t := range Bootstrap() {
		p.put(t)
	}
	for _, t := range types {
		if err := p.Register(t); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (p *Pool) put(t Type) {
	p.types[t.Name()] = t
	p.order = append(p.order, t.Name())
}

// Register adds t. A second type with the same name is an error.
func (p *Pool) Register(t Type) error {
	if t == nil {
		return fmt.Errorf("pool: cannot register nil type")
	}
	if t.IsArray() {
		return fmt.Errorf("pool: array type %s is resolved, not registered", t.Name())
	}
	if _, exists := p.types[t.Name()]; exists {
		return fmt.Errorf("pool: duplicate definition of %s", t.Name())
	}
	p.put(t)
	return nil
}

// Lookup resolves a binary name. Names ending in "[]" resolve to array types
// of the named component.
func (p *Pool) Lookup(name string) (Type, bool) {
	if component, ok := strings.CutSuffix(name, "[]"); ok {
		c, found := p.Lookup(component)
		if !found || IsVoid(c) {
			return nil, false
		}
		return ArrayOf(c), true
	}
	t, ok := p.types[name]
	return t, ok
}

// MustLookup is Lookup that panics on unknown names. Intended for tests and
// package initialization.
func (p *Pool) MustLookup(name string) Type {
	t, ok := p.Lookup(name)
	if !ok {
		panic("pool: unknown type " + name)
	}
	return t
}

// Types returns the registered types in registration order.
func (p *Pool) Types() []Type {
	out := make([]Type, 0, len(p.order))
	for _, name := range p.order {
		out = append(out, p.types[name])
	}
	return out
}

// Names returns every registered name, sorted.
func (p *Pool) Names() []string {
	names := make([]string, len(p.order))
	copy(names, p.order)
	sort.Strings(names)
	return names
}

// UserTypes returns the registered types that are not bootstrap types, in
// registration order.
func (p *Pool) UserTypes() []Type {
	n := len(Bootstrap())
	out := make([]Type, 0, len(p.order)-n)
	for _, name := range p.order[n:] {
		out = append(out, p.types[name])
	}
	return out
}
