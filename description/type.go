package description

import "strings"

// Type describes a JVM type: a class, interface, array or primitive.
//
// Implementations must be immutable. Identity is by binary name; use Same
// rather than comparing interface values.
type Type interface {
	// Name returns the binary name, e.g. "java.lang.String", "int" or
	// "java.lang.Object[]".
	Name() string
	Modifiers() Modifiers
	IsPrimitive() bool
	IsArray() bool
	// ComponentType returns the element type of an array, nil otherwise.
	ComponentType() Type
	// SuperClass returns nil for java.lang.Object, interfaces, primitives.
	SuperClass() Type
	// Interfaces returns the directly implemented (or extended) interfaces.
	Interfaces() []Type
	DeclaredMethods() []Method
	DeclaredAnnotations() []Annotation
}

// Same reports whether a and b describe the same type.
func Same(a, b Type) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Name() == b.Name()
}

// Represents reports whether t has the given binary name.
func Represents(t Type, name string) bool {
	return t != nil && t.Name() == name
}

// IsVoid reports whether t is the void pseudo type.
func IsVoid(t Type) bool { return Represents(t, "void") }

// IsInterface reports whether t is an interface (annotation types included).
func IsInterface(t Type) bool {
	return t != nil && !t.IsPrimitive() && !t.IsArray() && t.Modifiers().IsInterface()
}

// StackSize returns the number of operand stack slots a value of t uses.
func StackSize(t Type) int {
	switch t.Name() {
	case "void":
		return 0
	case "long", "double":
		return 2
	default:
		return 1
	}
}

var primitiveDescriptors = map[string]string{
	"void":    "V",
	"boolean": "Z",
	"byte":    "B",
	"short":   "S",
	"char":    "C",
	"int":     "I",
	"long":    "J",
	"float":   "F",
	"double":  "D",
}

// TypeDescriptor returns the JVM field descriptor of t, e.g.
// "Ljava/lang/String;", "I" or "[J".
func TypeDescriptor(t Type) string {
	if t.IsPrimitive() {
		return primitiveDescriptors[t.Name()]
	}
	if t.IsArray() {
		return "[" + TypeDescriptor(t.ComponentType())
	}
	return "L" + InternalName(t) + ";"
}

// InternalName returns the slash separated name of a class or interface.
// Arrays use their descriptor, as in the class file format.
func InternalName(t Type) string {
	if t.IsArray() {
		return TypeDescriptor(t)
	}
	return strings.ReplaceAll(t.Name(), ".", "/")
}

// PackageName returns the package of t, empty for the default package,
// primitives and arrays.
func PackageName(t Type) string {
	if t.IsPrimitive() || t.IsArray() {
		return ""
	}
	name := t.Name()
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[:i]
	}
	return ""
}

// IsSamePackage reports whether a and b live in the same package.
func IsSamePackage(a, b Type) bool {
	return PackageName(a) == PackageName(b)
}

// SimpleName returns the name without its package.
func SimpleName(t Type) string {
	name := t.Name()
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[i+1:]
	}
	return name
}

// ---------------------------------------------------------------------------
// Assignability
// ---------------------------------------------------------------------------

// IsAssignableFrom reports whether a value of type source may be stored in
// a variable of type t without conversion.
func IsAssignableFrom(t, source Type) bool {
	if t == nil || source == nil {
		return false
	}
	if Same(t, source) {
		return true
	}
	if t.IsPrimitive() || source.IsPrimitive() {
		return false
	}
	if Represents(t, ObjectName) {
		return true
	}
	if source.IsArray() {
		if t.IsArray() {
			sc, tc := source.ComponentType(), t.ComponentType()
			if sc.IsPrimitive() || tc.IsPrimitive() {
				return Same(sc, tc)
			}
			return IsAssignableFrom(tc, sc)
		}
		return Represents(t, CloneableName) || Represents(t, SerializableName)
	}
	if t.IsArray() {
		return false
	}
	return isSubtype(source, t)
}

// IsAssignableTo is IsAssignableFrom with the arguments swapped.
func IsAssignableTo(t, target Type) bool {
	return IsAssignableFrom(target, t)
}

// isSubtype walks the superclass chain of source and every interface on
// the way, using an explicit worklist to bound stack depth.
func isSubtype(source, target Type) bool {
	seen := make(map[string]bool)
	work := []Type{source}
	for len(work) > 0 {
		current := work[len(work)-1]
		work = work[:len(work)-1]
		if current == nil || seen[current.Name()] {
			continue
		}
		seen[current.Name()] = true
		if Same(current, target) {
			return true
		}
		if super := current.SuperClass(); super != nil {
			work = append(work, super)
		}
		work = append(work, current.Interfaces()...)
	}
	return false
}

// SuperClasses returns t followed by each of its super classes, most
// specific first.
func SuperClasses(t Type) []Type {
	var chain []Type
	for current := t; current != nil; current = current.SuperClass() {
		chain = append(chain, current)
	}
	return chain
}
