package lookup

import (
	"github.com/chazu/bytebind/description"
)

// Finding is the result of a lookup: the subject type, its invokable
// methods and, per directly declared interface, the default methods that
// can be invoked through it. A Finding is immutable.
type Finding struct {
	subject         description.Type
	methods         []*Method
	index           map[string]*Method
	defaultOrder    []description.Type
	defaultsByIface map[string][]description.Method
}

func newFinding(subject description.Type, methods []*Method, order []description.Type, defaults map[string][]description.Method) *Finding {
	index := make(map[string]*Method, len(methods))
	for _, m := range methods {
		sig := m.UniqueSignature()
		if _, ok := index[sig]; !ok {
			index[sig] = m
		}
	}
	if defaults == nil {
		defaults = map[string][]description.Method{}
	}
	return &Finding{
		subject:         subject,
		methods:         methods,
		index:           index,
		defaultOrder:    order,
		defaultsByIface: defaults,
	}
}

// Type returns the subject type.
func (f *Finding) Type() description.Type { return f.subject }

// Methods returns the invokable methods: class hierarchy methods first, then
// interface methods.
func (f *Finding) Methods() []*Method {
	out := make([]*Method, len(f.methods))
	copy(out, f.methods)
	return out
}

// Descriptions returns Methods as plain method descriptions.
func (f *Finding) Descriptions() []description.Method {
	out := make([]description.Method, len(f.methods))
	for i, m := range f.methods {
		out[i] = m
	}
	return out
}

// Lookup returns the invokable method with the given unique signature.
func (f *Finding) Lookup(uniqueSignature string) (*Method, bool) {
	m, ok := f.index[uniqueSignature]
	return m, ok
}

// DefaultInterfaces returns the directly declared interfaces that carry a
// default method entry, in declaration order.
func (f *Finding) DefaultInterfaces() []description.Type {
	out := make([]description.Type, len(f.defaultOrder))
	copy(out, f.defaultOrder)
	return out
}

// DefaultMethods returns the default methods invokable through iface, and
// false when iface is not a directly declared interface of the subject or
// default extraction was disabled.
func (f *Finding) DefaultMethods(iface description.Type) ([]description.Method, bool) {
	ms, ok := f.defaultsByIface[iface.Name()]
	if !ok {
		return nil, false
	}
	out := make([]description.Method, len(ms))
	copy(out, ms)
	return out, true
}

// DefaultMethod returns the default method with the given unique signature
// invokable through iface.
func (f *Finding) DefaultMethod(iface description.Type, uniqueSignature string) (description.Method, bool) {
	return description.FindMethod(f.defaultsByIface[iface.Name()], uniqueSignature)
}

// Equal reports whether f and other describe the same result: same subject,
// the same methods in the same order and the same default method map.
func (f *Finding) Equal(other *Finding) bool {
	if f == nil || other == nil {
		return f == other
	}
	if !description.Same(f.subject, other.subject) || len(f.methods) != len(other.methods) {
		return false
	}
	for i, m := range f.methods {
		if !sameInvokable(m, other.methods[i]) {
			return false
		}
	}
	if len(f.defaultOrder) != len(other.defaultOrder) {
		return false
	}
	for i, iface := range f.defaultOrder {
		if !description.Same(iface, other.defaultOrder[i]) {
			return false
		}
		a, b := f.defaultsByIface[iface.Name()], other.defaultsByIface[iface.Name()]
		if len(a) != len(b) {
			return false
		}
		for j := range a {
			if !description.SameMethod(a[j], b[j]) {
				return false
			}
		}
	}
	return true
}

func sameInvokable(a, b *Method) bool {
	if a.kind != b.kind || len(a.members) != len(b.members) || !description.SameMethod(a, b) {
		return false
	}
	for i := range a.members {
		if !description.SameMethod(a.members[i], b.members[i]) {
			return false
		}
	}
	return true
}
