// Package stack describes operand stack manipulations. A manipulation is a
// validity flag plus a recipe that appends abstract instructions to a
// Listing; turning listings into class file bytes is the business of an
// emission layer outside this module.
package stack

import (
	"strings"

	"github.com/chazu/bytebind/description"
)

// Manipulation is a stack manipulation handed to the emission layer.
type Manipulation interface {
	// IsValid reports whether the manipulation can be applied.
	IsValid() bool
	// Apply appends instructions and returns the stack size effect.
	// Applying an invalid manipulation panics.
	Apply(l *Listing) Size
}

// Size is the effect of a manipulation on the operand stack: the net change
// and the maximum growth reached while applying it.
type Size struct {
	Change  int
	Maximum int
}

func sizeOf(change int) Size {
	return Size{Change: change, Maximum: max(change, 0)}
}

// Aggregate combines s with the size of a manipulation applied after it.
func (s Size) Aggregate(next Size) Size {
	return Size{
		Change:  s.Change + next.Change,
		Maximum: max(s.Maximum, s.Change+next.Maximum),
	}
}

// kind returns the value category of t as used by load, store and return.
func kind(t description.Type) string {
	switch t.Name() {
	case "void":
		return "void"
	case "boolean", "byte", "short", "char", "int":
		return "int"
	case "long", "float", "double":
		return t.Name()
	default:
		return "reference"
	}
}

// fixed is a manipulation with a fixed instruction sequence and size.
type fixed struct {
	ins    []Instruction
	change int
}

func (f fixed) IsValid() bool { return true }

func (f fixed) Apply(l *Listing) Size {
	l.Emit(f.ins...)
	return sizeOf(f.change)
}

func emit(change int, ins ...Instruction) Manipulation {
	return fixed{ins: ins, change: change}
}

// ---------------------------------------------------------------------------
// Trivial, Illegal, Compound
// ---------------------------------------------------------------------------

type trivial struct{}

func (trivial) IsValid() bool       { return true }
func (trivial) Apply(*Listing) Size { return Size{} }
func (trivial) String() string      { return "trivial" }

type illegal struct{}

func (illegal) IsValid() bool { return false }
func (illegal) Apply(*Listing) Size {
	panic("stack: cannot apply an illegal manipulation")
}
func (illegal) String() string { return "illegal" }

// Trivial changes nothing.
var Trivial Manipulation = trivial{}

// Illegal marks an impossible manipulation.
var Illegal Manipulation = illegal{}

type compound struct {
	parts []Manipulation
}

// Compound concatenates manipulations. Nested compounds are flattened and
// trivial parts dropped. It is valid when every part is valid.
func Compound(parts ...Manipulation) Manipulation {
	var flat []Manipulation
	for _, p := range parts {
		switch v := p.(type) {
		case nil, trivial:
		case compound:
			flat = append(flat, v.parts...)
		default:
			flat = append(flat, p)
		}
	}
	switch len(flat) {
	case 0:
		return Trivial
	case 1:
		return flat[0]
	}
	return compound{parts: flat}
}

func (c compound) IsValid() bool {
	for _, p := range c.parts {
		if !p.IsValid() {
			return false
		}
	}
	return true
}

func (c compound) Apply(l *Listing) Size {
	var size Size
	for _, p := range c.parts {
		size = size.Aggregate(p.Apply(l))
	}
	return size
}

// Parts returns the flattened parts of m; a non-compound is its own part.
func Parts(m Manipulation) []Manipulation {
	if c, ok := m.(compound); ok {
		return c.parts
	}
	if m == Trivial {
		return nil
	}
	return []Manipulation{m}
}

// ---------------------------------------------------------------------------
// Constants and variables
// ---------------------------------------------------------------------------

// LoadVariable loads the local variable at slot offset, typed as t.
func LoadVariable(t description.Type, offset int) Manipulation {
	if description.IsVoid(t) {
		return Illegal
	}
	return emit(description.StackSize(t), Instruction{Op: OpLoad, Kind: kind(t), Int: int64(offset)})
}

// LoadThis loads the receiver of an instance method.
func LoadThis() Manipulation {
	return emit(1, Instruction{Op: OpLoad, Kind: "reference", Int: 0})
}

// Null pushes the null reference.
var Null Manipulation = emit(1, Instruction{Op: OpNull})

// DefaultValue pushes the zero value of t: 0 of the matching category for
// primitives, null for references, nothing for void.
func DefaultValue(t description.Type) Manipulation {
	switch k := kind(t); k {
	case "void":
		return Trivial
	case "reference":
		return Null
	default:
		return emit(description.StackSize(t), Instruction{Op: OpConst, Kind: k, Int: 0})
	}
}

// IntegerConstant pushes an int.
func IntegerConstant(v int) Manipulation {
	return emit(1, Instruction{Op: OpConst, Kind: "int", Int: int64(v)})
}

// TextConstant pushes a string literal.
func TextConstant(s string) Manipulation {
	return emit(1, Instruction{Op: OpLdc, Kind: "reference", Owner: description.StringName, Text: s})
}

// ClassConstant pushes the class literal of t. Primitive class literals are
// read from the TYPE field of the wrapper.
func ClassConstant(t description.Type) Manipulation {
	if t.IsPrimitive() {
		w, _ := description.Wrapper(t)
		return emit(1, Instruction{
			Op: OpGetStatic, Owner: description.InternalName(w), Name: "TYPE",
			Descriptor: "Ljava/lang/Class;",
		})
	}
	return emit(1, Instruction{Op: OpLdc, Kind: "reference", Descriptor: description.TypeDescriptor(t)})
}

// MethodConstant pushes the java.lang.reflect.Method instance describing m.
func MethodConstant(m description.Method) Manipulation {
	if !description.IsMethod(m) {
		return Illegal
	}
	return emit(1, Instruction{
		Op:         OpMethodConst,
		Owner:      description.InternalName(m.DeclaringType()),
		Name:       m.Name(),
		Descriptor: description.MethodDescriptor(m),
	})
}

// ---------------------------------------------------------------------------
// Conversions
// ---------------------------------------------------------------------------

// TypeCast checks the reference on top of the stack against t.
func TypeCast(t description.Type) Manipulation {
	if t.IsPrimitive() {
		return Illegal
	}
	if description.Represents(t, description.ObjectName) {
		return Trivial
	}
	return emit(0, Instruction{Op: OpCheckcast, Owner: description.InternalName(t)})
}

var wideningRank = map[string]int{
	"byte": 0, "short": 1, "char": 1, "int": 2, "long": 3, "float": 4, "double": 5,
}

// Widening converts a primitive by widening primitive conversion. Pairs the
// language does not allow to widen are illegal.
func Widening(from, to description.Type) Manipulation {
	if description.Same(from, to) {
		return Trivial
	}
	fr, okFrom := wideningRank[from.Name()]
	tr, okTo := wideningRank[to.Name()]
	switch {
	case !okFrom || !okTo || fr > tr:
		return Illegal
	case from.Name() == "char" && tr < 2, to.Name() == "char":
		return Illegal
	}
	fk, tk := kind(from), kind(to)
	if fk == tk {
		return Trivial
	}
	return emit(description.StackSize(to)-description.StackSize(from), Instruction{
		Op:   OpConvert,
		Name: fk[:1] + "2" + tk[:1],
	})
}

// Box wraps the primitive on top of the stack with its wrapper's valueOf.
func Box(primitive description.Type) Manipulation {
	w, ok := description.Wrapper(primitive)
	if !ok || description.IsVoid(primitive) {
		return Illegal
	}
	return emit(1-description.StackSize(primitive), Instruction{
		Op:         OpInvoke,
		Style:      "static",
		Owner:      description.InternalName(w),
		Name:       "valueOf",
		Descriptor: "(" + description.TypeDescriptor(primitive) + ")" + description.TypeDescriptor(w),
	})
}

// Unbox reads the primitive out of the wrapper on top of the stack.
func Unbox(primitive description.Type) Manipulation {
	w, ok := description.Wrapper(primitive)
	if !ok || description.IsVoid(primitive) {
		return Illegal
	}
	return emit(description.StackSize(primitive)-1, Instruction{
		Op:         OpInvoke,
		Style:      "virtual",
		Owner:      description.InternalName(w),
		Name:       description.UnboxingMethod(primitive),
		Descriptor: "()" + description.TypeDescriptor(primitive),
	})
}

// ---------------------------------------------------------------------------
// Invocations
// ---------------------------------------------------------------------------

func invocationSize(m description.Method) int {
	size := description.StackSize(m.ReturnType())
	if !m.Modifiers().IsStatic() {
		size--
	}
	for _, p := range m.ParameterTypes() {
		size -= description.StackSize(p)
	}
	return size
}

func invocation(m description.Method, style string, owner description.Type) Manipulation {
	return emit(invocationSize(m), Instruction{
		Op:         OpInvoke,
		Style:      style,
		Owner:      description.InternalName(owner),
		Name:       m.Name(),
		Descriptor: description.MethodDescriptor(m),
		Flag:       style == "special" && description.IsInterface(owner),
	})
}

// Invoke calls m with the invocation style its declaration demands.
// Type initializers cannot be invoked.
func Invoke(m description.Method) Manipulation {
	mod := m.Modifiers()
	switch {
	case description.IsTypeInitializer(m):
		return Illegal
	case mod.IsStatic():
		return invocation(m, "static", m.DeclaringType())
	case mod.IsPrivate() || description.IsConstructor(m):
		return invocation(m, "special", m.DeclaringType())
	case description.IsInterface(m.DeclaringType()):
		return invocation(m, "interface", m.DeclaringType())
	default:
		return invocation(m, "virtual", m.DeclaringType())
	}
}

// InvokeOn calls the virtual method m on a receiver of type owner.
func InvokeOn(m description.Method, owner description.Type) Manipulation {
	if !description.IsVirtual(m) || !description.IsAssignableFrom(m.DeclaringType(), owner) {
		return Illegal
	}
	if description.IsInterface(owner) {
		return invocation(m, "interface", owner)
	}
	return invocation(m, "virtual", owner)
}

// SpecialInvoke calls m non-virtually on owner. The method must be
// specializable for owner.
func SpecialInvoke(m description.Method, owner description.Type) Manipulation {
	if !m.IsSpecializableFor(owner) {
		return Illegal
	}
	return invocation(m, "special", owner)
}

// ---------------------------------------------------------------------------
// Returns, removal, arrays, proxies
// ---------------------------------------------------------------------------

// Return leaves the method returning a value of type t.
func Return(t description.Type) Manipulation {
	return emit(-description.StackSize(t), Instruction{Op: OpReturn, Kind: kind(t)})
}

// Removal pops a value of type t.
func Removal(t description.Type) Manipulation {
	switch description.StackSize(t) {
	case 0:
		return Trivial
	case 2:
		return emit(-2, Instruction{Op: OpPop2})
	default:
		return emit(-1, Instruction{Op: OpPop})
	}
}

type arrayFactory struct {
	component description.Type
	values    []Manipulation
}

// ArrayFactory creates an array of component filled with the values each
// manipulation pushes.
func ArrayFactory(component description.Type, values []Manipulation) Manipulation {
	if description.IsVoid(component) {
		return Illegal
	}
	return arrayFactory{component: component, values: values}
}

func (a arrayFactory) IsValid() bool {
	for _, v := range a.values {
		if !v.IsValid() {
			return false
		}
	}
	return true
}

func (a arrayFactory) Apply(l *Listing) Size {
	size := IntegerConstant(len(a.values)).Apply(l)
	l.Emit(Instruction{Op: OpNewArray, Kind: kind(a.component), Descriptor: description.TypeDescriptor(a.component)})
	elem := description.StackSize(a.component)
	for i, v := range a.values {
		size = size.Aggregate(emit(1, Instruction{Op: OpDup}).Apply(l))
		size = size.Aggregate(IntegerConstant(i).Apply(l))
		size = size.Aggregate(v.Apply(l))
		l.Emit(Instruction{Op: OpArrayStore, Kind: kind(a.component)})
		size = size.Aggregate(sizeOf(-2 - elem))
	}
	return size
}

type methodCallProxy struct {
	method       description.Method
	owner        description.Type
	serializable bool
}

// MethodCallProxy creates an instance of an auxiliary Runnable and Callable
// that performs the special invocation of m on owner. The proxy captures
// the receiver and every argument of the intercepted frame, which shares
// m's signature.
func MethodCallProxy(m description.Method, owner description.Type, serializable bool) Manipulation {
	if m.Modifiers().IsStatic() || !m.IsSpecializableFor(owner) {
		return Illegal
	}
	return methodCallProxy{method: m, owner: owner, serializable: serializable}
}

// ProxyName returns the internal name of the auxiliary proxy class.
func ProxyName(m description.Method, owner description.Type) string {
	return description.InternalName(owner) + "$" + strings.TrimPrefix(m.Name(), "<") + "$proxy"
}

func (p methodCallProxy) IsValid() bool { return true }

func (p methodCallProxy) Apply(l *Listing) Size {
	name := ProxyName(p.method, p.owner)
	l.Emit(Instruction{
		Op:         OpProxy,
		Owner:      description.InternalName(p.owner),
		Name:       p.method.Name(),
		Descriptor: description.MethodDescriptor(p.method),
		Text:       name,
		Flag:       p.serializable,
	})
	size := sizeOf(2)
	args := LoadThis().Apply(l)
	ctor := strings.Builder{}
	ctor.WriteString("(")
	ctor.WriteString(description.TypeDescriptor(p.owner))
	for i, t := range p.method.ParameterTypes() {
		args = args.Aggregate(LoadVariable(t, description.ParameterOffset(p.method, i)).Apply(l))
		ctor.WriteString(description.TypeDescriptor(t))
	}
	ctor.WriteString(")V")
	size = size.Aggregate(args)
	l.Emit(Instruction{Op: OpInvoke, Style: "special", Owner: name, Name: description.ConstructorName, Descriptor: ctor.String()})
	return size.Aggregate(sizeOf(-args.Change - 1))
}
