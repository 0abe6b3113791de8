// Package annotation implements the delegation binder driven by annotations
// on the parameters of target methods. Each recognized annotation type has
// a ParameterBinder deciding how its parameter is loaded from the
// intercepted source method.
package annotation

import (
	"errors"

	"github.com/tliron/commonlog"

	"github.com/chazu/bytebind/assign"
	"github.com/chazu/bytebind/bind"
	"github.com/chazu/bytebind/description"
)

var log = commonlog.GetLogger("bytebind.bind.annotation")

// ErrConfiguration marks a binder setup or a target method annotation that
// can never be bound, as opposed to a target that merely does not fit.
var ErrConfiguration = errors.New("annotation: invalid configuration")

// Annotation type names.
const (
	ArgumentName         = "bytebind.annotation.Argument"
	AllArgumentsName     = "bytebind.annotation.AllArguments"
	ThisName             = "bytebind.annotation.This"
	OriginName           = "bytebind.annotation.Origin"
	SuperCallName        = "bytebind.annotation.SuperCall"
	DefaultCallName      = "bytebind.annotation.DefaultCall"
	EmptyName            = "bytebind.annotation.Empty"
	StubValueName        = "bytebind.annotation.StubValue"
	RuntimeTypeName      = "bytebind.annotation.RuntimeType"
	IgnoreForBindingName = "bytebind.annotation.IgnoreForBinding"
	BindingPriorityName  = "bytebind.annotation.BindingPriority"
)

// Argument binding mechanics.
const (
	Unique    = "UNIQUE"
	Anonymous = "ANONYMOUS"
)

// AllArguments assignment modes.
const (
	Strict = "STRICT"
	Slack  = "SLACK"
)

// DefaultPriority is the priority of a target without BindingPriority.
const DefaultPriority = 1

var (
	ArgumentType         = description.NewAnnotationType(ArgumentName)
	AllArgumentsType     = description.NewAnnotationType(AllArgumentsName)
	ThisType             = description.NewAnnotationType(ThisName)
	OriginType           = description.NewAnnotationType(OriginName)
	SuperCallType        = description.NewAnnotationType(SuperCallName)
	DefaultCallType      = description.NewAnnotationType(DefaultCallName)
	EmptyType            = description.NewAnnotationType(EmptyName)
	StubValueType        = description.NewAnnotationType(StubValueName)
	RuntimeTypeType      = description.NewAnnotationType(RuntimeTypeName)
	IgnoreForBindingType = description.NewAnnotationType(IgnoreForBindingName)
	BindingPriorityType  = description.NewAnnotationType(BindingPriorityName)
)

// Types returns the annotation types known to this package, for
// registration in a type pool.
func Types() []description.Type {
	return []description.Type{
		ArgumentType, AllArgumentsType, ThisType, OriginType, SuperCallType,
		DefaultCallType, EmptyType, StubValueType, RuntimeTypeType,
		IgnoreForBindingType, BindingPriorityType,
	}
}

// Argument returns an Argument annotation binding source parameter index.
func Argument(index int, mechanic string) description.Annotation {
	return description.NewAnnotation(ArgumentType, map[string]any{
		"value":           index,
		"bindingMechanic": mechanic,
	})
}

// Marker returns an annotation of t without element values.
func Marker(t description.Type) description.Annotation {
	return description.NewAnnotation(t, nil)
}

// Priority returns a BindingPriority annotation.
func Priority(value int) description.Annotation {
	return description.NewAnnotation(BindingPriorityType, map[string]any{"value": value})
}

// ---------------------------------------------------------------------------
// Markers
// ---------------------------------------------------------------------------

// IsIgnored reports whether m is excluded from binding.
func IsIgnored(m description.Method) bool {
	return description.HasAnnotation(m.DeclaredAnnotations(), IgnoreForBindingName)
}

// ReturnTyping returns the typing used to assign the result of m.
func ReturnTyping(m description.Method) assign.Typing {
	return assign.TypingOf(description.HasAnnotation(m.DeclaredAnnotations(), RuntimeTypeName))
}

// ParameterTyping returns the typing used to assign to the index-th
// parameter of m.
func ParameterTyping(m description.Method, index int) assign.Typing {
	return assign.TypingOf(description.HasAnnotation(m.ParameterAnnotations()[index], RuntimeTypeName))
}

// PriorityOf returns the binding priority of m.
func PriorityOf(m description.Method) int {
	if a, ok := description.FindAnnotation(m.DeclaredAnnotations(), BindingPriorityName); ok {
		return a.Int("value", DefaultPriority)
	}
	return DefaultPriority
}

// ---------------------------------------------------------------------------
// Resolvers
// ---------------------------------------------------------------------------

type priorityResolver struct{}

// BindingPriority prefers the target with the higher BindingPriority.
var BindingPriority bind.AmbiguityResolver = priorityResolver{}

func (priorityResolver) Resolve(_ description.Method, left, right bind.MethodBinding) bind.Resolution {
	l, r := PriorityOf(left.Target()), PriorityOf(right.Target())
	switch {
	case l == r:
		return bind.Ambiguous
	case l > r:
		return bind.Left
	default:
		return bind.Right
	}
}

// DefaultAmbiguityResolver chains BindingPriority, the declaring type, the
// argument types, method name equality and parameter length.
func DefaultAmbiguityResolver() bind.AmbiguityResolver {
	return bind.Compound(
		BindingPriority,
		bind.DeclaringTypeResolver,
		bind.ArgumentTypeResolver,
		bind.MethodNameEqualityResolver,
		bind.ParameterLengthResolver,
	)
}
