package bind

import (
	"github.com/chazu/bytebind/description"
)

// ---------------------------------------------------------------------------
// Declaring type
// ---------------------------------------------------------------------------

type declaringTypeResolver struct{}

// DeclaringTypeResolver prefers the target declared by the more specific
// type when one declaring type is a sub type of the other.
var DeclaringTypeResolver AmbiguityResolver = declaringTypeResolver{}

func (declaringTypeResolver) Resolve(_ description.Method, left, right MethodBinding) Resolution {
	l, r := left.Target().DeclaringType(), right.Target().DeclaringType()
	switch {
	case description.Same(l, r):
		return Ambiguous
	case description.IsAssignableFrom(l, r):
		return Right
	case description.IsAssignableFrom(r, l):
		return Left
	default:
		return Ambiguous
	}
}

// ---------------------------------------------------------------------------
// Method name equality
// ---------------------------------------------------------------------------

type methodNameEqualityResolver struct{}

// MethodNameEqualityResolver prefers the target named like the source.
var MethodNameEqualityResolver AmbiguityResolver = methodNameEqualityResolver{}

func (methodNameEqualityResolver) Resolve(source description.Method, left, right MethodBinding) Resolution {
	l := left.Target().Name() == source.Name()
	r := right.Target().Name() == source.Name()
	switch {
	case l == r:
		return Ambiguous
	case l:
		return Left
	default:
		return Right
	}
}

// ---------------------------------------------------------------------------
// Parameter length
// ---------------------------------------------------------------------------

type parameterLengthResolver struct{}

// ParameterLengthResolver prefers the target with more parameters.
var ParameterLengthResolver AmbiguityResolver = parameterLengthResolver{}

func (parameterLengthResolver) Resolve(_ description.Method, left, right MethodBinding) Resolution {
	l, r := len(left.Target().ParameterTypes()), len(right.Target().ParameterTypes())
	switch {
	case l == r:
		return Ambiguous
	case l > r:
		return Left
	default:
		return Right
	}
}

// ---------------------------------------------------------------------------
// Argument types
// ---------------------------------------------------------------------------

type argumentTypeResolver struct{}

// ArgumentTypeResolver compares the target parameters bound to the same
// source argument. A narrower primitive and a more specific reference type
// win; a primitive wins over a reference when the source argument is
// primitive and loses otherwise. When no shared argument decides, the
// target binding more source arguments wins.
//
// Only unique bindings with ParameterIndexToken identities take part, so
// anonymously bound arguments count for neither side.
var ArgumentTypeResolver AmbiguityResolver = argumentTypeResolver{}

// primitivePrecedence ranks primitives; a lower score is more specific.
var primitivePrecedence = map[string]int{
	"boolean": 0,
	"byte":    1,
	"short":   2,
	"int":     3,
	"char":    4,
	"long":    5,
	"float":   6,
	"double":  7,
}

func resolveRival(source, left, right description.Type) Resolution {
	if description.Same(left, right) {
		return Unknown
	}
	switch {
	case left.IsPrimitive() && right.IsPrimitive():
		l, r := primitivePrecedence[left.Name()], primitivePrecedence[right.Name()]
		switch {
		case l == r:
			return Unknown
		case l > r:
			return Right
		default:
			return Left
		}
	case left.IsPrimitive():
		if source.IsPrimitive() {
			return Left
		}
		return Right
	case right.IsPrimitive():
		if source.IsPrimitive() {
			return Right
		}
		return Left
	case description.IsAssignableFrom(left, right):
		return Right
	case description.IsAssignableFrom(right, left):
		return Left
	default:
		return Ambiguous
	}
}

func (argumentTypeResolver) Resolve(source description.Method, left, right MethodBinding) Resolution {
	resolution := Unknown
	leftExtra, rightExtra := 0, 0
	for i, sourceType := range source.ParameterTypes() {
		token := ParameterIndexToken{Index: i}
		li, lok := left.TargetParameterIndex(token)
		ri, rok := right.TargetParameterIndex(token)
		switch {
		case lok && rok:
			resolution = resolution.Merge(resolveRival(sourceType,
				left.Target().ParameterTypes()[li],
				right.Target().ParameterTypes()[ri]))
		case lok:
			leftExtra++
		case rok:
			rightExtra++
		}
	}
	if resolution != Unknown {
		return resolution
	}
	switch score := leftExtra - rightExtra; {
	case score == 0:
		return Ambiguous
	case score > 0:
		return Left
	default:
		return Right
	}
}
