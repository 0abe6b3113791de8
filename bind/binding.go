// Package bind models delegation bindings: how the parameters of a target
// method are loaded from an intercepted source method, how the target is
// invoked and its result returned, and how the binder picks one target out
// of several legal candidates.
package bind

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/chazu/bytebind/description"
	"github.com/chazu/bytebind/stack"
)

// ---------------------------------------------------------------------------
// Parameter bindings
// ---------------------------------------------------------------------------

// BindingKind tags a ParameterBinding.
type BindingKind int

const (
	IllegalBinding BindingKind = iota
	AnonymousBinding
	UniqueBinding
)

func (k BindingKind) String() string {
	switch k {
	case AnonymousBinding:
		return "anonymous"
	case UniqueBinding:
		return "unique"
	}
	return "illegal"
}

// ParameterBinding is the binding of one target parameter: the manipulation
// loading the argument and an identity token. The binding of a target
// method may not contain two bindings with the same token.
type ParameterBinding struct {
	kind         BindingKind
	token        any
	manipulation stack.Manipulation
}

// Illegal returns the binding of a parameter that cannot be bound.
func Illegal() ParameterBinding {
	return ParameterBinding{kind: IllegalBinding, manipulation: stack.Illegal}
}

// Anonymous returns a binding with a fresh token that is equal to no other.
func Anonymous(m stack.Manipulation) ParameterBinding {
	return ParameterBinding{kind: AnonymousBinding, token: uuid.New(), manipulation: m}
}

// Unique returns a binding identified by token. Tokens must be comparable.
func Unique(m stack.Manipulation, token any) ParameterBinding {
	return ParameterBinding{kind: UniqueBinding, token: token, manipulation: m}
}

func (p ParameterBinding) Kind() BindingKind { return p.kind }

// IsValid reports whether the binding is legal and its manipulation valid.
func (p ParameterBinding) IsValid() bool {
	return p.kind != IllegalBinding && p.manipulation != nil && p.manipulation.IsValid()
}

// Token returns the identity token, nil for an illegal binding.
func (p ParameterBinding) Token() any { return p.token }

// Manipulation returns the manipulation loading the argument.
func (p ParameterBinding) Manipulation() stack.Manipulation { return p.manipulation }

func (p ParameterBinding) String() string {
	if p.kind == UniqueBinding {
		return fmt.Sprintf("unique(%v)", p.token)
	}
	return p.kind.String()
}

// ParameterIndexToken identifies a binding that loads the source argument
// at Index. Two bindings of the same source argument carry equal tokens.
type ParameterIndexToken struct {
	Index int
}

func (t ParameterIndexToken) String() string { return fmt.Sprintf("argument %d", t.Index) }

// ---------------------------------------------------------------------------
// Method bindings
// ---------------------------------------------------------------------------

// MethodBinding is the binding of a source method to one target method.
// It is a stack manipulation loading every argument, invoking the target
// and handling its result.
type MethodBinding interface {
	stack.Manipulation
	// Target returns the bound method, nil for the illegal binding.
	Target() description.Method
	// TargetParameterIndex returns the target parameter index bound with
	// the identity token.
	TargetParameterIndex(token any) (int, bool)
}

type illegalMethodBinding struct{}

func (illegalMethodBinding) IsValid() bool              { return false }
func (illegalMethodBinding) Target() description.Method { return nil }
func (illegalMethodBinding) String() string             { return "illegal method binding" }

func (illegalMethodBinding) TargetParameterIndex(any) (int, bool) { return 0, false }

func (illegalMethodBinding) Apply(*stack.Listing) stack.Size {
	panic("bind: cannot apply an illegal method binding")
}

// IllegalMethodBinding represents a target that cannot be bound.
var IllegalMethodBinding MethodBinding = illegalMethodBinding{}

// Builder assembles a MethodBinding parameter by parameter.
type Builder struct {
	invoker    MethodInvoker
	target     description.Method
	parameters []stack.Manipulation
	indices    map[any]int
}

// NewBuilder starts the binding of target, to be invoked by invoker.
func NewBuilder(invoker MethodInvoker, target description.Method) *Builder {
	return &Builder{invoker: invoker, target: target, indices: make(map[any]int)}
}

// Append binds the next target parameter. It returns false when the token
// of pb was already used, in which case the binding must be abandoned.
func (b *Builder) Append(pb ParameterBinding) bool {
	b.parameters = append(b.parameters, pb.manipulation)
	if _, exists := b.indices[pb.token]; exists {
		return false
	}
	b.indices[pb.token] = len(b.parameters) - 1
	return true
}

// Build completes the binding with the manipulation handling the target's
// result. Every target parameter must have been appended.
func (b *Builder) Build(termination stack.Manipulation) (MethodBinding, error) {
	if want := len(b.target.ParameterTypes()); want != len(b.parameters) {
		return nil, fmt.Errorf("bind: %s takes %d parameters, %d were bound",
			description.MethodString(b.target), want, len(b.parameters))
	}
	return &built{
		target:      b.target,
		parameters:  b.parameters,
		indices:     b.indices,
		invocation:  b.invoker.Invoke(b.target),
		termination: termination,
	}, nil
}

type built struct {
	target      description.Method
	parameters  []stack.Manipulation
	indices     map[any]int
	invocation  stack.Manipulation
	termination stack.Manipulation
}

func (m *built) Target() description.Method { return m.target }

func (m *built) TargetParameterIndex(token any) (int, bool) {
	i, ok := m.indices[token]
	return i, ok
}

func (m *built) IsValid() bool {
	for _, p := range m.parameters {
		if !p.IsValid() {
			return false
		}
	}
	return m.invocation.IsValid() && m.termination.IsValid()
}

func (m *built) Apply(l *stack.Listing) stack.Size {
	parts := make([]stack.Manipulation, 0, len(m.parameters)+2)
	parts = append(parts, m.parameters...)
	parts = append(parts, m.invocation, m.termination)
	return stack.Compound(parts...).Apply(l)
}

func (m *built) String() string {
	return "binding to " + description.MethodString(m.target)
}
