package description

// Binary names of the bootstrap types.
const (
	ObjectName       = "java.lang.Object"
	StringName       = "java.lang.String"
	ClassName        = "java.lang.Class"
	CloneableName    = "java.lang.Cloneable"
	SerializableName = "java.io.Serializable"
	RunnableName     = "java.lang.Runnable"
	CallableName     = "java.util.concurrent.Callable"
	NumberName       = "java.lang.Number"
	ThrowableName    = "java.lang.Throwable"
	ExceptionName    = "java.lang.Exception"
	MethodTypeName   = "java.lang.reflect.Method"
	AnnotationName   = "java.lang.annotation.Annotation"
)

// Primitive types, void included.
var (
	Void    Type = primitiveType{"void"}
	Boolean Type = primitiveType{"boolean"}
	Byte    Type = primitiveType{"byte"}
	Short   Type = primitiveType{"short"}
	Char    Type = primitiveType{"char"}
	Int     Type = primitiveType{"int"}
	Long    Type = primitiveType{"long"}
	Float   Type = primitiveType{"float"}
	Double  Type = primitiveType{"double"}
)

var interfaceModifiers = Public | Interface | Abstract

// The java.lang bootstrap types. Their members are declared in init and
// nothing changes them afterwards.
var (
	Object        = &LatentType{name: ObjectName, modifiers: Public}
	Serializable  = &LatentType{name: SerializableName, modifiers: interfaceModifiers}
	Cloneable     = &LatentType{name: CloneableName, modifiers: interfaceModifiers}
	Runnable      = &LatentType{name: RunnableName, modifiers: interfaceModifiers}
	Callable      = &LatentType{name: CallableName, modifiers: interfaceModifiers}
	String        = &LatentType{name: StringName, modifiers: Public | Final, superClass: Object, interfaces: []Type{Serializable}}
	Class         = &LatentType{name: ClassName, modifiers: Public | Final, superClass: Object, interfaces: []Type{Serializable}}
	Number        = &LatentType{name: NumberName, modifiers: Public | Abstract, superClass: Object, interfaces: []Type{Serializable}}
	Throwable     = &LatentType{name: ThrowableName, modifiers: Public, superClass: Object, interfaces: []Type{Serializable}}
	Exception     = &LatentType{name: ExceptionName, modifiers: Public, superClass: Throwable}
	ReflectMethod = &LatentType{name: MethodTypeName, modifiers: Public | Final, superClass: Object}

	annotationInterface = &LatentType{name: AnnotationName, modifiers: interfaceModifiers}

	cloneNotSupported = &LatentType{name: "java.lang.CloneNotSupportedException", modifiers: Public, superClass: Exception}
	interrupted       = &LatentType{name: "java.lang.InterruptedException", modifiers: Public, superClass: Exception}
)

// Wrapper classes of the primitive types.
var (
	BoxedBoolean   = &LatentType{name: "java.lang.Boolean", modifiers: Public | Final, superClass: Object, interfaces: []Type{Serializable}}
	BoxedByte      = &LatentType{name: "java.lang.Byte", modifiers: Public | Final, superClass: Number}
	BoxedShort     = &LatentType{name: "java.lang.Short", modifiers: Public | Final, superClass: Number}
	BoxedCharacter = &LatentType{name: "java.lang.Character", modifiers: Public | Final, superClass: Object, interfaces: []Type{Serializable}}
	BoxedInteger   = &LatentType{name: "java.lang.Integer", modifiers: Public | Final, superClass: Number}
	BoxedLong      = &LatentType{name: "java.lang.Long", modifiers: Public | Final, superClass: Number}
	BoxedFloat     = &LatentType{name: "java.lang.Float", modifiers: Public | Final, superClass: Number}
	BoxedDouble    = &LatentType{name: "java.lang.Double", modifiers: Public | Final, superClass: Number}
	BoxedVoid      = &LatentType{name: "java.lang.Void", modifiers: Public | Final, superClass: Object}
)

var (
	wrappers   map[string]Type
	unwrappers map[string]Type
)

func init() {
	Object.Constructor(Public)
	Object.Method("getClass", Public|Final|Native, Class)
	Object.Method("hashCode", Public|Native, Int)
	Object.Method("equals", Public, Boolean, Object)
	Object.Method("clone", Protected|Native, Object).Throws(cloneNotSupported)
	Object.Method("toString", Public, String)
	Object.Method("notify", Public|Final|Native, Void)
	Object.Method("notifyAll", Public|Final|Native, Void)
	Object.Method("wait", Public|Final, Void).Throws(interrupted)
	Object.Method("wait", Public|Final|Native, Void, Long).Throws(interrupted)
	Object.Method("wait", Public|Final, Void, Long, Int).Throws(interrupted)
	Object.Method("finalize", Protected, Void).Throws(Throwable)

	Runnable.Method("run", Public|Abstract, Void)
	Callable.Method("call", Public|Abstract, Object).Throws(Exception)

	String.Method("length", Public, Int)
	String.Method("valueOf", Public|Static, String, Object)
	Class.Method("getName", Public, String)
	ReflectMethod.Method("getName", Public, String)

	for _, name := range []string{"intValue", "longValue", "floatValue", "doubleValue"} {
		Number.Method(name, Public|Abstract, primitiveFor(name))
	}
	Number.Method("byteValue", Public, Byte)
	Number.Method("shortValue", Public, Short)

	pairs := []struct {
		primitive Type
		wrapper   *LatentType
	}{
		{Boolean, BoxedBoolean},
		{Byte, BoxedByte},
		{Short, BoxedShort},
		{Char, BoxedCharacter},
		{Int, BoxedInteger},
		{Long, BoxedLong},
		{Float, BoxedFloat},
		{Double, BoxedDouble},
	}
	wrappers = make(map[string]Type, len(pairs))
	unwrappers = make(map[string]Type, len(pairs))
	for _, p := range pairs {
		wrappers[p.primitive.Name()] = p.wrapper
		unwrappers[p.wrapper.Name()] = p.primitive
		p.wrapper.Method("valueOf", Public|Static, p.wrapper, p.primitive)
		p.wrapper.Method(UnboxingMethod(p.primitive), Public, p.primitive)
	}
}

func primitiveFor(accessor string) Type {
	switch accessor {
	case "intValue":
		return Int
	case "longValue":
		return Long
	case "floatValue":
		return Float
	default:
		return Double
	}
}

// Wrapper returns the wrapper class of a primitive type.
func Wrapper(primitive Type) (Type, bool) {
	if primitive == nil {
		return nil, false
	}
	if IsVoid(primitive) {
		return BoxedVoid, true
	}
	w, ok := wrappers[primitive.Name()]
	return w, ok
}

// Unwrap returns the primitive type wrapped by a wrapper class.
func Unwrap(wrapper Type) (Type, bool) {
	if wrapper == nil {
		return nil, false
	}
	p, ok := unwrappers[wrapper.Name()]
	return p, ok
}

// UnboxingMethod returns the accessor name that unboxes a wrapper into
// primitive, e.g. "intValue".
func UnboxingMethod(primitive Type) string {
	return primitive.Name() + "Value"
}

// Bootstrap returns every predeclared type, primitives first.
func Bootstrap() []Type {
	return []Type{
		Void, Boolean, Byte, Short, Char, Int, Long, Float, Double,
		Object, String, Class, Cloneable, Serializable, Runnable, Callable,
		Number, Throwable, Exception, ReflectMethod, annotationInterface,
		cloneNotSupported, interrupted,
		BoxedBoolean, BoxedByte, BoxedShort, BoxedCharacter, BoxedInteger,
		BoxedLong, BoxedFloat, BoxedDouble, BoxedVoid,
	}
}
