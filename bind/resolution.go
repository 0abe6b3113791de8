package bind

import (
	"github.com/chazu/bytebind/description"
)

// Resolution is the verdict of an AmbiguityResolver on two bindings.
type Resolution int

const (
	// Unknown means the resolver has no opinion.
	Unknown Resolution = iota
	// Left prefers the left binding.
	Left
	// Right prefers the right binding.
	Right
	// Ambiguous means neither binding is preferable.
	Ambiguous
)

func (r Resolution) String() string {
	switch r {
	case Left:
		return "left"
	case Right:
		return "right"
	case Ambiguous:
		return "ambiguous"
	}
	return "unknown"
}

// IsUnresolved reports whether the resolution picks no side.
func (r Resolution) IsUnresolved() bool {
	return r == Unknown || r == Ambiguous
}

// Merge combines two verdicts: Unknown yields to the other, agreement is
// kept and anything else is ambiguous.
func (r Resolution) Merge(other Resolution) Resolution {
	switch r {
	case Unknown:
		return other
	case Ambiguous:
		return Ambiguous
	default:
		if other == Unknown || other == r {
			return r
		}
		return Ambiguous
	}
}

// Invert swaps Left and Right.
func (r Resolution) Invert() Resolution {
	switch r {
	case Left:
		return Right
	case Right:
		return Left
	}
	return r
}

// AmbiguityResolver decides between two legal bindings of the same source
// method. Implementations must be consistent: swapping left and right must
// invert the result.
type AmbiguityResolver interface {
	Resolve(source description.Method, left, right MethodBinding) Resolution
}

// ResolverFunc adapts a function to AmbiguityResolver.
type ResolverFunc func(source description.Method, left, right MethodBinding) Resolution

func (f ResolverFunc) Resolve(source description.Method, left, right MethodBinding) Resolution {
	return f(source, left, right)
}

type noOp struct{}

func (noOp) Resolve(description.Method, MethodBinding, MethodBinding) Resolution { return Unknown }

// NoOp has no opinion.
var NoOp AmbiguityResolver = noOp{}

type directional Resolution

// Directional always prefers the given side. It is used last in a chain to
// force a decision and is the one resolver that is not consistent.
func Directional(side Resolution) AmbiguityResolver {
	if side != Left && side != Right {
		panic("bind: directional resolver needs Left or Right")
	}
	return directional(side)
}

func (d directional) Resolve(description.Method, MethodBinding, MethodBinding) Resolution {
	return Resolution(d)
}

type compound struct {
	resolvers []AmbiguityResolver
}

// Compound consults resolvers in order until one resolves. Nested compounds
// are flattened and NoOp resolvers dropped.
func Compound(resolvers ...AmbiguityResolver) AmbiguityResolver {
	var flat []AmbiguityResolver
	for _, r := range resolvers {
		switch v := r.(type) {
		case nil, noOp:
		case compound:
			flat = append(flat, v.resolvers...)
		default:
			flat = append(flat, r)
		}
	}
	return compound{resolvers: flat}
}

func (c compound) Resolve(source description.Method, left, right MethodBinding) Resolution {
	resolution := Unknown
	for _, r := range c.resolvers {
		if !resolution.IsUnresolved() {
			break
		}
		resolution = r.Resolve(source, left, right)
	}
	return resolution
}

// Resolvers returns the flattened chain.
func (c compound) Resolvers() []AmbiguityResolver {
	out := make([]AmbiguityResolver, len(c.resolvers))
	copy(out, c.resolvers)
	return out
}
