// Package assign converts a value of one type, on top of the operand stack,
// into a value of another type.
package assign

import (
	"github.com/chazu/bytebind/description"
	"github.com/chazu/bytebind/stack"
)

// Typing selects whether a conversion may rely on a runtime type check.
type Typing bool

const (
	Static  Typing = false
	Dynamic Typing = true
)

// TypingOf returns Dynamic when runtime is set.
func TypingOf(runtime bool) Typing { return Typing(runtime) }

func (t Typing) String() string {
	if t == Dynamic {
		return "dynamic"
	}
	return "static"
}

// Assigner produces the manipulation converting source into target. The
// result is stack.Illegal when no conversion exists.
type Assigner interface {
	Assign(source, target description.Type, typing Typing) stack.Manipulation
}

// Func adapts a function to Assigner.
type Func func(source, target description.Type, typing Typing) stack.Manipulation

func (f Func) Assign(source, target description.Type, typing Typing) stack.Manipulation {
	return f(source, target, typing)
}

// ---------------------------------------------------------------------------
// Reference
// ---------------------------------------------------------------------------

type reference struct{}

// Reference assigns reference types: trivially when assignable, with a
// checkcast when dynamically typed. Primitives only assign to themselves.
var Reference Assigner = reference{}

func (reference) Assign(source, target description.Type, typing Typing) stack.Manipulation {
	if source.IsPrimitive() || target.IsPrimitive() {
		if description.Same(source, target) {
			return stack.Trivial
		}
		return stack.Illegal
	}
	if description.IsAssignableFrom(target, source) {
		return stack.Trivial
	}
	if typing == Dynamic {
		return stack.TypeCast(target)
	}
	return stack.Illegal
}

// ---------------------------------------------------------------------------
// Primitive
// ---------------------------------------------------------------------------

type primitive struct {
	references Assigner
}

// Primitive returns an assigner that widens, boxes and unboxes primitive
// values and hands reference to reference conversions to references.
func Primitive(references Assigner) Assigner {
	return primitive{references: references}
}

func (p primitive) Assign(source, target description.Type, typing Typing) stack.Manipulation {
	switch {
	case source.IsPrimitive() && target.IsPrimitive():
		if description.IsVoid(source) || description.IsVoid(target) {
			if description.Same(source, target) {
				return stack.Trivial
			}
			return stack.Illegal
		}
		return stack.Widening(source, target)
	case source.IsPrimitive():
		if description.IsVoid(source) {
			return stack.Illegal
		}
		wrapper, _ := description.Wrapper(source)
		return stack.Compound(stack.Box(source), p.references.Assign(wrapper, target, typing))
	case target.IsPrimitive():
		return p.unbox(source, target, typing)
	default:
		return p.references.Assign(source, target, typing)
	}
}

func (p primitive) unbox(source, target description.Type, typing Typing) stack.Manipulation {
	if description.IsVoid(target) {
		return stack.Illegal
	}
	if unwrapped, ok := description.Unwrap(source); ok {
		return stack.Compound(stack.Unbox(unwrapped), stack.Widening(unwrapped, target))
	}
	if typing == Dynamic {
		wrapper, _ := description.Wrapper(target)
		return stack.Compound(stack.TypeCast(wrapper), stack.Unbox(target))
	}
	return stack.Illegal
}

// ---------------------------------------------------------------------------
// Void awareness
// ---------------------------------------------------------------------------

type voidAware struct {
	delegate     Assigner
	defaultValue bool
}

// VoidAware handles void on either side before delegating: void to void is
// trivial, a value assigned to void is popped, and void assigned to a value
// yields the default value only when defaultValue is set.
func VoidAware(delegate Assigner, defaultValue bool) Assigner {
	return voidAware{delegate: delegate, defaultValue: defaultValue}
}

func (v voidAware) Assign(source, target description.Type, typing Typing) stack.Manipulation {
	sourceVoid, targetVoid := description.IsVoid(source), description.IsVoid(target)
	switch {
	case sourceVoid && targetVoid:
		return stack.Trivial
	case sourceVoid:
		if v.defaultValue {
			return stack.DefaultValue(target)
		}
		return stack.Illegal
	case targetVoid:
		return stack.Removal(source)
	default:
		return v.delegate.Assign(source, target, typing)
	}
}

// Default is the assigner used by the binder unless configured otherwise.
var Default = VoidAware(Primitive(Reference), false)
