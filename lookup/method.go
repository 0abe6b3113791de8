package lookup

import (
	"github.com/chazu/bytebind/description"
)

// Kind tags the variants of an invokable method.
type Kind int

const (
	// Plain is a single declared method.
	Plain Kind = iota
	// OverrideChain is a class method redeclared along the superclass chain.
	OverrideChain
	// Conflict is a set of unrelated interface methods sharing a signature.
	Conflict
)

func (k Kind) String() string {
	switch k {
	case Plain:
		return "plain"
	case OverrideChain:
		return "override-chain"
	case Conflict:
		return "conflict"
	}
	return "unknown"
}

// conflictModifiers are the modifiers reported by a conflict.
const conflictModifiers = description.Public | description.Abstract

// Method is an invokable method of a Finding. It implements
// description.Method; what the accessors report depends on the kind.
//
// A Plain method reports its declaration. An OverrideChain reports the most
// specific declaration, members ordered from most to least specific. A
// Conflict is declared by the virtual host (the type the lookup ran for),
// is public abstract, has no exceptions or annotations and takes its name
// and signature from its first member.
type Method struct {
	kind    Kind
	members []description.Method
	host    description.Type
}

func plainMethod(m description.Method) *Method {
	return &Method{kind: Plain, members: []description.Method{m}}
}

// overriddenBy appends the further declaration m, which is one level up the
// class hierarchy from everything already known.
func overriddenBy(existing *Method, m description.Method) *Method {
	chain := make([]description.Method, 0, len(existing.members)+1)
	chain = append(chain, existing.members...)
	chain = append(chain, m)
	return &Method{kind: OverrideChain, members: chain}
}

// conflictWith merges a newly discovered interface method into the method
// already registered for its signature. Known conflict members declared by
// a super interface of the discovered method's declaring type are pruned.
func conflictWith(host description.Type, existing *Method, discovered description.Method) *Method {
	var members []description.Method
	if existing.kind == Conflict {
		members = make([]description.Method, 0, len(existing.members)+1)
		for _, known := range existing.members {
			if !description.IsAssignableFrom(known.DeclaringType(), discovered.DeclaringType()) {
				members = append(members, known)
			}
		}
		members = append(members, discovered)
	} else {
		members = []description.Method{existing.members[0], discovered}
	}
	return &Method{kind: Conflict, members: members, host: host}
}

// Kind returns the variant.
func (m *Method) Kind() Kind { return m.kind }

// Members returns the declarations behind m: the single declaration of a
// Plain method, the chain of an OverrideChain, the unrelated members of a
// Conflict.
func (m *Method) Members() []description.Method {
	out := make([]description.Method, len(m.members))
	copy(out, m.members)
	return out
}

// Declaration returns the most specific declaration, the first member of a
// conflict.
func (m *Method) Declaration() description.Method { return m.members[0] }

// UniqueSignature is a shorthand for description.UniqueSignature(m).
func (m *Method) UniqueSignature() string { return description.UniqueSignature(m) }

func (m *Method) DeclaringType() description.Type {
	if m.kind == Conflict {
		return m.host
	}
	return m.members[0].DeclaringType()
}

func (m *Method) Name() string                       { return m.members[0].Name() }
func (m *Method) ParameterTypes() []description.Type { return m.members[0].ParameterTypes() }
func (m *Method) ReturnType() description.Type       { return m.members[0].ReturnType() }

func (m *Method) ParameterAnnotations() [][]description.Annotation {
	if m.kind == Conflict {
		return make([][]description.Annotation, len(m.ParameterTypes()))
	}
	return m.members[0].ParameterAnnotations()
}

func (m *Method) ExceptionTypes() []description.Type {
	if m.kind == Conflict {
		return nil
	}
	return m.members[0].ExceptionTypes()
}

func (m *Method) Modifiers() description.Modifiers {
	if m.kind == Conflict {
		return conflictModifiers
	}
	return m.members[0].Modifiers()
}

func (m *Method) DeclaredAnnotations() []description.Annotation {
	if m.kind == Conflict {
		return nil
	}
	return m.members[0].DeclaredAnnotations()
}

// IsSpecializableFor reports whether m can be invoked non-virtually on t.
//
// An override chain is walked from the most specific entry; the first entry
// specializable for t wins, and the walk stops without success at the first
// entry whose declaring type is a super type of t. A conflict is
// specializable when exactly one non-abstract member is declared by a super
// type of t.
func (m *Method) IsSpecializableFor(t description.Type) bool {
	switch m.kind {
	case OverrideChain:
		for _, entry := range m.members {
			if entry.IsSpecializableFor(t) {
				return true
			}
			if description.IsAssignableFrom(entry.DeclaringType(), t) {
				return false
			}
		}
		return false
	case Conflict:
		var invokable description.Method
		for _, member := range m.members {
			if member.Modifiers().IsAbstract() || !description.IsAssignableFrom(member.DeclaringType(), t) {
				continue
			}
			if invokable != nil {
				return false
			}
			invokable = member
		}
		return invokable != nil
	default:
		return m.members[0].IsSpecializableFor(t)
	}
}

func (m *Method) String() string {
	if m.kind == Plain {
		return description.MethodString(m.members[0])
	}
	return m.kind.String() + " " + description.MethodString(m)
}
