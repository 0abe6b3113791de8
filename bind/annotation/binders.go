package annotation

import (
	"fmt"

	"github.com/chazu/bytebind/assign"
	"github.com/chazu/bytebind/bind"
	"github.com/chazu/bytebind/description"
	"github.com/chazu/bytebind/stack"
	"github.com/chazu/bytebind/target"
)

// Standard returns one binder per parameter annotation type of this
// package.
func Standard() []ParameterBinder {
	return []ParameterBinder{
		ArgumentBinder, AllArgumentsBinder, ThisBinder, OriginBinder,
		SuperCallBinder, DefaultCallBinder, EmptyBinder, StubValueBinder,
	}
}

var byName = map[string]ParameterBinder{
	"Argument":     ArgumentBinder,
	"AllArguments": AllArgumentsBinder,
	"This":         ThisBinder,
	"Origin":       OriginBinder,
	"SuperCall":    SuperCallBinder,
	"DefaultCall":  DefaultCallBinder,
	"Empty":        EmptyBinder,
	"StubValue":    StubValueBinder,
}

// ByName returns the standard binder for a simple annotation name such as
// "Argument".
func ByName(name string) (ParameterBinder, bool) {
	b, ok := byName[name]
	return b, ok
}

func loadArgument(source description.Method, i int) stack.Manipulation {
	return stack.LoadVariable(source.ParameterTypes()[i], description.ParameterOffset(source, i))
}

// ---------------------------------------------------------------------------
// Argument
// ---------------------------------------------------------------------------

type argumentBinder struct{}

// ArgumentBinder binds the source argument at the annotation's value.
var ArgumentBinder ParameterBinder = argumentBinder{}

func (argumentBinder) AnnotationType() string { return ArgumentName }

func (argumentBinder) Bind(a description.Annotation, index int, source, candidate description.Method,
	_ target.Target, assigner assign.Assigner) (bind.ParameterBinding, error) {
	value := a.Int("value", -1)
	if value < 0 {
		return bind.Illegal(), fmt.Errorf("%w: %s parameter %d: argument annotation holds negative index %d",
			ErrConfiguration, description.MethodString(candidate), index, value)
	}
	if value >= len(source.ParameterTypes()) {
		return bind.Illegal(), nil
	}
	m := stack.Compound(
		loadArgument(source, value),
		assigner.Assign(source.ParameterTypes()[value], candidate.ParameterTypes()[index], ParameterTyping(candidate, index)),
	)
	switch mechanic := a.String("bindingMechanic", Unique); mechanic {
	case Unique:
		return bind.Unique(m, bind.ParameterIndexToken{Index: value}), nil
	case Anonymous:
		return bind.Anonymous(m), nil
	default:
		return bind.Illegal(), fmt.Errorf("%w: unknown binding mechanic %q", ErrConfiguration, mechanic)
	}
}

// ---------------------------------------------------------------------------
// AllArguments
// ---------------------------------------------------------------------------

type allArgumentsBinder struct{}

// AllArgumentsBinder binds an array of every source argument. In STRICT
// mode each argument must be assignable to the component type; SLACK
// skips the ones that are not. includeSelf prepends the receiver and
// nullIfEmpty binds null instead of an empty array.
var AllArgumentsBinder ParameterBinder = allArgumentsBinder{}

func (allArgumentsBinder) AnnotationType() string { return AllArgumentsName }

func (allArgumentsBinder) Bind(a description.Annotation, index int, source, candidate description.Method,
	tgt target.Target, assigner assign.Assigner) (bind.ParameterBinding, error) {
	parameter := candidate.ParameterTypes()[index]
	if !parameter.IsArray() {
		return bind.Illegal(), fmt.Errorf("%w: %s parameter %d: all arguments need an array, got %s",
			ErrConfiguration, description.MethodString(candidate), index, parameter.Name())
	}
	mode := a.String("value", Strict)
	if mode != Strict && mode != Slack {
		return bind.Illegal(), fmt.Errorf("%w: unknown assignment mode %q", ErrConfiguration, mode)
	}
	component, typing := parameter.ComponentType(), ParameterTyping(candidate, index)
	var values []stack.Manipulation
	add := func(load stack.Manipulation, t description.Type) bool {
		m := stack.Compound(load, assigner.Assign(t, component, typing))
		if m.IsValid() {
			values = append(values, m)
			return true
		}
		return mode == Slack
	}
	if a.Bool("includeSelf", false) && !source.Modifiers().IsStatic() {
		if !add(stack.LoadThis(), tgt.InstrumentedType()) {
			return bind.Illegal(), nil
		}
	}
	for i, t := range source.ParameterTypes() {
		if !add(loadArgument(source, i), t) {
			return bind.Illegal(), nil
		}
	}
	if len(values) == 0 && a.Bool("nullIfEmpty", false) {
		return bind.Anonymous(stack.Null), nil
	}
	return bind.Anonymous(stack.ArrayFactory(component, values)), nil
}

// ---------------------------------------------------------------------------
// This
// ---------------------------------------------------------------------------

type thisBinder struct{}

// ThisBinder binds the receiver of a non-static source method.
var ThisBinder ParameterBinder = thisBinder{}

func (thisBinder) AnnotationType() string { return ThisName }

func (thisBinder) Bind(_ description.Annotation, index int, source, candidate description.Method,
	tgt target.Target, assigner assign.Assigner) (bind.ParameterBinding, error) {
	parameter := candidate.ParameterTypes()[index]
	if source.Modifiers().IsStatic() || parameter.IsPrimitive() || parameter.IsArray() {
		return bind.Illegal(), nil
	}
	return bind.Anonymous(stack.Compound(
		stack.LoadThis(),
		assigner.Assign(tgt.InstrumentedType(), parameter, ParameterTyping(candidate, index)),
	)), nil
}

// ---------------------------------------------------------------------------
// Origin
// ---------------------------------------------------------------------------

type originBinder struct{}

// OriginBinder binds a constant describing the intercepted context: the
// instrumented type for Class, the source method for Method and its
// rendering for String.
var OriginBinder ParameterBinder = originBinder{}

func (originBinder) AnnotationType() string { return OriginName }

func (originBinder) Bind(_ description.Annotation, index int, source, candidate description.Method,
	tgt target.Target, _ assign.Assigner) (bind.ParameterBinding, error) {
	switch parameter := candidate.ParameterTypes()[index]; parameter.Name() {
	case description.ClassName:
		return bind.Anonymous(stack.ClassConstant(tgt.InstrumentedType())), nil
	case description.MethodTypeName:
		return bind.Anonymous(stack.MethodConstant(source)), nil
	case description.StringName:
		return bind.Anonymous(stack.TextConstant(description.MethodString(source))), nil
	default:
		return bind.Illegal(), fmt.Errorf("%w: %s parameter %d: origin cannot be assigned to %s",
			ErrConfiguration, description.MethodString(candidate), index, parameter.Name())
	}
}

// ---------------------------------------------------------------------------
// SuperCall and DefaultCall
// ---------------------------------------------------------------------------

func checkProxyParameter(candidate description.Method, index int) error {
	switch candidate.ParameterTypes()[index].Name() {
	case description.RunnableName, description.CallableName, description.ObjectName:
		return nil
	}
	return fmt.Errorf("%w: %s parameter %d: a method call proxy can only be assigned to Runnable or Callable",
		ErrConfiguration, description.MethodString(candidate), index)
}

type superCallBinder struct{}

// SuperCallBinder binds a proxy invoking the super implementation of the
// source method.
var SuperCallBinder ParameterBinder = superCallBinder{}

func (superCallBinder) AnnotationType() string { return SuperCallName }

func (superCallBinder) Bind(a description.Annotation, index int, source, candidate description.Method,
	tgt target.Target, _ assign.Assigner) (bind.ParameterBinding, error) {
	if err := checkProxyParameter(candidate, index); err != nil {
		return bind.Illegal(), err
	}
	if description.IsConstructor(source) {
		return bind.Illegal(), nil
	}
	invocation := tgt.InvokeSuper(source)
	if !invocation.IsValid() {
		return bind.Illegal(), nil
	}
	return bind.Anonymous(invocation.Proxy(a.Bool("serializableProxy", false))), nil
}

type defaultCallBinder struct{}

// DefaultCallBinder binds a proxy invoking a default method with the
// source's signature, declared by the annotation's targetType or, when
// absent, by the only declared interface that provides one.
var DefaultCallBinder ParameterBinder = defaultCallBinder{}

func (defaultCallBinder) AnnotationType() string { return DefaultCallName }

func (defaultCallBinder) Bind(a description.Annotation, index int, source, candidate description.Method,
	tgt target.Target, _ assign.Assigner) (bind.ParameterBinding, error) {
	if err := checkProxyParameter(candidate, index); err != nil {
		return bind.Illegal(), err
	}
	sig := description.UniqueSignature(source)
	var invocation target.SpecialInvocation
	iface, explicit, err := defaultCallTarget(a, tgt)
	switch {
	case err != nil:
		return bind.Illegal(), err
	case explicit:
		invocation = tgt.InvokeDefault(iface, sig)
	default:
		for _, candidateIface := range tgt.InstrumentedType().Interfaces() {
			found := tgt.InvokeDefault(candidateIface, sig)
			if !found.IsValid() {
				continue
			}
			if invocation.IsValid() {
				return bind.Illegal(), nil
			}
			invocation = found
		}
	}
	if !invocation.IsValid() {
		return bind.Illegal(), nil
	}
	return bind.Anonymous(invocation.Proxy(a.Bool("serializableProxy", false))), nil
}

// defaultCallTarget returns the explicit interface named by targetType.
// explicit is false for an absent or void target type.
func defaultCallTarget(a description.Annotation, tgt target.Target) (description.Type, bool, error) {
	raw, ok := a.Value("targetType")
	if !ok {
		return nil, false, nil
	}
	iface, ok := a.TypeValue("targetType", func(name string) (description.Type, bool) {
		return reachableType(tgt.InstrumentedType(), name)
	})
	switch {
	case !ok && raw == "void":
		return nil, false, nil
	case !ok:
		return nil, false, fmt.Errorf("%w: unknown default call target type %v", ErrConfiguration, raw)
	case description.IsVoid(iface):
		return nil, false, nil
	case !description.IsInterface(iface):
		return nil, false, fmt.Errorf("%w: default method call on non-interface type %s",
			ErrConfiguration, iface.Name())
	}
	return iface, true, nil
}

// reachableType finds name among t, its super classes and every interface
// they implement.
func reachableType(t description.Type, name string) (description.Type, bool) {
	seen := make(map[string]bool)
	queue := []description.Type{t}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if current == nil || seen[current.Name()] {
			continue
		}
		seen[current.Name()] = true
		if current.Name() == name {
			return current, true
		}
		queue = append(queue, current.SuperClass())
		queue = append(queue, current.Interfaces()...)
	}
	return nil, false
}

// ---------------------------------------------------------------------------
// Empty and StubValue
// ---------------------------------------------------------------------------

type emptyBinder struct{}

// EmptyBinder binds the default value of the parameter type.
var EmptyBinder ParameterBinder = emptyBinder{}

func (emptyBinder) AnnotationType() string { return EmptyName }

func (emptyBinder) Bind(_ description.Annotation, index int, _, candidate description.Method,
	_ target.Target, _ assign.Assigner) (bind.ParameterBinding, error) {
	return bind.Anonymous(stack.DefaultValue(candidate.ParameterTypes()[index])), nil
}

type stubValueBinder struct{}

// StubValueBinder binds the default value of the source's return type,
// boxed, to an Object parameter. A void source binds null.
var StubValueBinder ParameterBinder = stubValueBinder{}

func (stubValueBinder) AnnotationType() string { return StubValueName }

func (stubValueBinder) Bind(_ description.Annotation, index int, source, candidate description.Method,
	_ target.Target, assigner assign.Assigner) (bind.ParameterBinding, error) {
	parameter := candidate.ParameterTypes()[index]
	if !description.Represents(parameter, description.ObjectName) {
		return bind.Illegal(), fmt.Errorf("%w: %s parameter %d: stub value needs Object, got %s",
			ErrConfiguration, description.MethodString(candidate), index, parameter.Name())
	}
	ret := source.ReturnType()
	if description.IsVoid(ret) {
		return bind.Anonymous(stack.Null), nil
	}
	return bind.Anonymous(stack.Compound(
		stack.DefaultValue(ret),
		assigner.Assign(ret, parameter, assign.Static),
	)), nil
}
