package description

// ---------------------------------------------------------------------------
// Latent types
// ---------------------------------------------------------------------------

// LatentType is a declared type that is not backed by a loaded class.
// It is assembled with the builder methods below and must not be changed
// once handed to a Pool or an Engine.
type LatentType struct {
	name        string
	modifiers   Modifiers
	superClass  Type
	interfaces  []Type
	methods     []Method
	annotations []Annotation
}

// NewClass creates a class. A nil super class defaults to java.lang.Object
// unless the class is java.lang.Object itself.
func NewClass(name string, modifiers Modifiers, superClass Type, interfaces ...Type) *LatentType {
	if superClass == nil && name != ObjectName {
		superClass = Object
	}
	return &LatentType{
		name:       name,
		modifiers:  modifiers &^ Interface,
		superClass: superClass,
		interfaces: interfaces,
	}
}

// NewInterface creates an interface extending the given interfaces.
func NewInterface(name string, modifiers Modifiers, interfaces ...Type) *LatentType {
	return &LatentType{
		name:       name,
		modifiers:  modifiers | Interface | Abstract,
		interfaces: interfaces,
	}
}

// NewAnnotationType creates an annotation interface.
func NewAnnotationType(name string) *LatentType {
	t := NewInterface(name, Public|AnnotationType)
	t.interfaces = []Type{annotationInterface}
	return t
}

func (t *LatentType) Name() string                      { return t.name }
func (t *LatentType) String() string                    { return t.name }
func (t *LatentType) Modifiers() Modifiers              { return t.modifiers }
func (t *LatentType) IsPrimitive() bool                 { return false }
func (t *LatentType) IsArray() bool                     { return false }
func (t *LatentType) ComponentType() Type               { return nil }
func (t *LatentType) SuperClass() Type                  { return t.superClass }
func (t *LatentType) Interfaces() []Type                { return t.interfaces }
func (t *LatentType) DeclaredMethods() []Method         { return t.methods }
func (t *LatentType) DeclaredAnnotations() []Annotation { return t.annotations }

// Extend replaces the super class.
func (t *LatentType) Extend(superClass Type) *LatentType {
	t.superClass = superClass
	return t
}

// Implement appends directly implemented interfaces.
func (t *LatentType) Implement(interfaces ...Type) *LatentType {
	t.interfaces = append(t.interfaces, interfaces...)
	return t
}

// Annotate appends type annotations.
func (t *LatentType) Annotate(annotations ...Annotation) *LatentType {
	t.annotations = append(t.annotations, annotations...)
	return t
}

// DefineMethod adopts m as a declared method of t.
func (t *LatentType) DefineMethod(m *LatentMethod) *LatentType {
	m.declaringType = t
	t.methods = append(t.methods, m)
	return t
}

// Method declares a method and returns it for further decoration.
func (t *LatentType) Method(name string, modifiers Modifiers, returnType Type, parameters ...Type) *LatentMethod {
	m := NewMethod(name, modifiers, returnType, parameters...)
	t.DefineMethod(m)
	return m
}

// Constructor declares a constructor and returns it.
func (t *LatentType) Constructor(modifiers Modifiers, parameters ...Type) *LatentMethod {
	m := NewConstructor(modifiers, parameters...)
	t.DefineMethod(m)
	return m
}

// ---------------------------------------------------------------------------
// Latent methods
// ---------------------------------------------------------------------------

// LatentMethod is a declared method description. The declaring type is set
// when the method is adopted by a LatentType.
type LatentMethod struct {
	declaringType        Type
	name                 string
	modifiers            Modifiers
	returnType           Type
	parameters           []Type
	parameterAnnotations [][]Annotation
	exceptions           []Type
	annotations          []Annotation
}

// NewMethod creates a method that is not yet declared by any type.
func NewMethod(name string, modifiers Modifiers, returnType Type, parameters ...Type) *LatentMethod {
	if returnType == nil {
		returnType = Void
	}
	return &LatentMethod{
		name:                 name,
		modifiers:            modifiers,
		returnType:           returnType,
		parameters:           parameters,
		parameterAnnotations: make([][]Annotation, len(parameters)),
	}
}

// NewConstructor creates a constructor.
func NewConstructor(modifiers Modifiers, parameters ...Type) *LatentMethod {
	return NewMethod(ConstructorName, modifiers, Void, parameters...)
}

func (m *LatentMethod) DeclaringType() Type                  { return m.declaringType }
func (m *LatentMethod) Name() string                         { return m.name }
func (m *LatentMethod) ParameterTypes() []Type               { return m.parameters }
func (m *LatentMethod) ParameterAnnotations() [][]Annotation { return m.parameterAnnotations }
func (m *LatentMethod) ReturnType() Type                     { return m.returnType }
func (m *LatentMethod) ExceptionTypes() []Type               { return m.exceptions }
func (m *LatentMethod) Modifiers() Modifiers                 { return m.modifiers }
func (m *LatentMethod) DeclaredAnnotations() []Annotation    { return m.annotations }
func (m *LatentMethod) String() string                       { return MethodString(m) }

func (m *LatentMethod) IsSpecializableFor(target Type) bool {
	return Specializable(m, target)
}

// Annotate appends method annotations.
func (m *LatentMethod) Annotate(annotations ...Annotation) *LatentMethod {
	m.annotations = append(m.annotations, annotations...)
	return m
}

// AnnotateParameter appends annotations to the parameter at index.
// It panics when index is out of range.
func (m *LatentMethod) AnnotateParameter(index int, annotations ...Annotation) *LatentMethod {
	m.parameterAnnotations[index] = append(m.parameterAnnotations[index], annotations...)
	return m
}

// Throws appends declared exception types.
func (m *LatentMethod) Throws(exceptions ...Type) *LatentMethod {
	m.exceptions = append(m.exceptions, exceptions...)
	return m
}

// ---------------------------------------------------------------------------
// Primitive and array types
// ---------------------------------------------------------------------------

type primitiveType struct {
	name string
}

func (t primitiveType) Name() string                      { return t.name }
func (t primitiveType) String() string                    { return t.name }
func (t primitiveType) Modifiers() Modifiers              { return Public | Final | Abstract }
func (t primitiveType) IsPrimitive() bool                 { return true }
func (t primitiveType) IsArray() bool                     { return false }
func (t primitiveType) ComponentType() Type               { return nil }
func (t primitiveType) SuperClass() Type                  { return nil }
func (t primitiveType) Interfaces() []Type                { return nil }
func (t primitiveType) DeclaredMethods() []Method         { return nil }
func (t primitiveType) DeclaredAnnotations() []Annotation { return nil }

type arrayType struct {
	component Type
}

// ArrayOf returns the array type with the given component type.
func ArrayOf(component Type) Type {
	return arrayType{component: component}
}

func (t arrayType) Name() string                      { return t.component.Name() + "[]" }
func (t arrayType) String() string                    { return t.Name() }
func (t arrayType) Modifiers() Modifiers              { return Public | Final | Abstract }
func (t arrayType) IsPrimitive() bool                 { return false }
func (t arrayType) IsArray() bool                     { return true }
func (t arrayType) ComponentType() Type               { return t.component }
func (t arrayType) SuperClass() Type                  { return Object }
func (t arrayType) Interfaces() []Type                { return []Type{Cloneable, Serializable} }
func (t arrayType) DeclaredMethods() []Method         { return nil }
func (t arrayType) DeclaredAnnotations() []Annotation { return nil }
