package description

import "strings"

// Reserved internal names.
const (
	ConstructorName     = "<init>"
	TypeInitializerName = "<clinit>"
)

// Method describes a method, constructor or type initializer.
//
// Only the accessors below are required of an implementation; everything
// else (descriptors, unique signatures, visibility) is derived by the
// package functions in this file.
type Method interface {
	DeclaringType() Type
	// Name returns the internal name: the method name, ConstructorName or
	// TypeInitializerName.
	Name() string
	ParameterTypes() []Type
	// ParameterAnnotations returns one (possibly empty) slice per parameter.
	ParameterAnnotations() [][]Annotation
	ReturnType() Type
	ExceptionTypes() []Type
	Modifiers() Modifiers
	DeclaredAnnotations() []Annotation
	// IsSpecializableFor reports whether the method can be invoked
	// non-virtually (invokespecial) on the given type.
	IsSpecializableFor(target Type) bool
}

// MethodDescriptor returns the JVM method descriptor, e.g. "(ILjava/lang/String;)V".
func MethodDescriptor(m Method) string {
	var b strings.Builder
	b.WriteByte('(')
	for _, p := range m.ParameterTypes() {
		b.WriteString(TypeDescriptor(p))
	}
	b.WriteByte(')')
	b.WriteString(TypeDescriptor(m.ReturnType()))
	return b.String()
}

// UniqueSignature returns the internal name concatenated with the descriptor.
// Two methods with equal unique signatures are signature compatible.
func UniqueSignature(m Method) string {
	return m.Name() + MethodDescriptor(m)
}

// SameMethod reports whether a and b are the same byte code method: equal
// unique signatures on the same declaring type.
func SameMethod(a, b Method) bool {
	return UniqueSignature(a) == UniqueSignature(b) && Same(a.DeclaringType(), b.DeclaringType())
}

func IsConstructor(m Method) bool     { return m.Name() == ConstructorName }
func IsTypeInitializer(m Method) bool { return m.Name() == TypeInitializerName }

// IsMethod reports whether m is neither a constructor nor a type initializer.
func IsMethod(m Method) bool {
	return !IsConstructor(m) && !IsTypeInitializer(m)
}

// IsDefaultMethod reports whether m is a non-abstract, non-bridge, non-static
// method declared by an interface.
func IsDefaultMethod(m Method) bool {
	mod := m.Modifiers()
	return IsMethod(m) &&
		IsInterface(m.DeclaringType()) &&
		!mod.IsAbstract() && !mod.IsBridge() && !mod.IsStatic() && !mod.IsPrivate()
}

// IsVirtual reports whether m takes part in virtual dispatch.
func IsVirtual(m Method) bool {
	mod := m.Modifiers()
	return IsMethod(m) && !mod.IsPrivate() && !mod.IsStatic()
}

// IsVisibleTo reports whether code in t may see m.
func IsVisibleTo(m Method, t Type) bool {
	declaring := m.DeclaringType()
	mod := m.Modifiers()
	switch {
	case Same(declaring, t):
		return true
	case mod.IsPublic() && declaring.Modifiers().IsPublic():
		return true
	case (mod.IsPublic() || mod.IsProtected()) && IsAssignableFrom(declaring, t):
		return true
	case !mod.IsPrivate() && IsSamePackage(declaring, t):
		return true
	}
	return false
}

// Specializable applies the plain specialization rule: static methods never,
// private methods and constructors only on their declaring type, anything
// else when non-abstract and declared by a super type of target.
func Specializable(m Method, target Type) bool {
	mod := m.Modifiers()
	switch {
	case mod.IsStatic():
		return false
	case mod.IsPrivate() || IsConstructor(m):
		return Same(m.DeclaringType(), target)
	default:
		return !mod.IsAbstract() && IsAssignableFrom(m.DeclaringType(), target)
	}
}

// ParameterOffset returns the local variable slot of the parameter at index.
// Slot 0 holds the receiver of non-static methods.
func ParameterOffset(m Method, index int) int {
	offset := 0
	if !m.Modifiers().IsStatic() {
		offset = 1
	}
	for _, p := range m.ParameterTypes()[:index] {
		offset += StackSize(p)
	}
	return offset
}

// MethodString renders m the way java.lang.reflect.Method.toString does,
// e.g. "public int com.example.Foo.bar(java.lang.String)".
func MethodString(m Method) string {
	var b strings.Builder
	if mods := (m.Modifiers() & (Public | Protected | Private | Abstract | Static | Final | Synchronized | Native)).String(); mods != "" {
		b.WriteString(mods)
		b.WriteByte(' ')
	}
	if IsMethod(m) {
		b.WriteString(m.ReturnType().Name())
		b.WriteByte(' ')
		b.WriteString(m.DeclaringType().Name())
		b.WriteByte('.')
		b.WriteString(m.Name())
	} else {
		b.WriteString(m.DeclaringType().Name())
	}
	b.WriteByte('(')
	for i, p := range m.ParameterTypes() {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(p.Name())
	}
	b.WriteByte(')')
	if ex := m.ExceptionTypes(); len(ex) > 0 {
		b.WriteString(" throws ")
		for i, e := range ex {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(e.Name())
		}
	}
	return b.String()
}

// FindMethod returns the first method in methods with the given unique signature.
func FindMethod(methods []Method, uniqueSignature string) (Method, bool) {
	for _, m := range methods {
		if UniqueSignature(m) == uniqueSignature {
			return m, true
		}
	}
	return nil, false
}
