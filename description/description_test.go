package description

import (
	"strings"
	"testing"
)

func TestTypeDescriptors(t *testing.T) {
	tests := []struct {
		typ  Type
		want string
	}{
		{Int, "I"},
		{Void, "V"},
		{Long, "J"},
		{Boolean, "Z"},
		{String, "Ljava/lang/String;"},
		{ArrayOf(Int), "[I"},
		{ArrayOf(ArrayOf(Object)), "[[Ljava/lang/Object;"},
	}
	for _, tt := range tests {
		if got := TypeDescriptor(tt.typ); got != tt.want {
			t.Errorf("TypeDescriptor(%s) = %q, want %q", tt.typ.Name(), got, tt.want)
		}
	}
}

func TestUniqueSignature(t *testing.T) {
	foo := NewClass("com.example.Foo", Public, nil)
	m := foo.Method("bar", Public, Void, Int, String)
	if got := UniqueSignature(m); got != "bar(ILjava/lang/String;)V" {
		t.Errorf("UniqueSignature = %q", got)
	}
	c := foo.Constructor(Public)
	if got := UniqueSignature(c); got != "<init>()V" {
		t.Errorf("constructor signature = %q", got)
	}
	if !IsConstructor(c) || IsMethod(c) {
		t.Error("constructor classification wrong")
	}
}

func TestParameterOffset(t *testing.T) {
	foo := NewClass("Foo", Public, nil)
	m := foo.Method("m", Public, Void, Long, Int, Double, Object)
	want := []int{1, 3, 4, 6}
	for i, w := range want {
		if got := ParameterOffset(m, i); got != w {
			t.Errorf("offset(%d) = %d, want %d", i, got, w)
		}
	}
	s := foo.Method("s", Public|Static, Void, Int, Int)
	if got := ParameterOffset(s, 1); got != 1 {
		t.Errorf("static offset(1) = %d, want 1", got)
	}
}

func TestAssignability(t *testing.T) {
	iface := NewInterface("IFoo", Public)
	base := NewClass("Base", Public, nil, iface)
	sub := NewClass("Sub", Public, base)

	tests := []struct {
		name   string
		target Type
		source Type
		want   bool
	}{
		{"same", sub, sub, true},
		{"superclass", base, sub, true},
		{"subclass", sub, base, false},
		{"transitive interface", iface, sub, true},
		{"interface to object", Object, iface, true},
		{"array to object", Object, ArrayOf(Int), true},
		{"array to cloneable", Cloneable, ArrayOf(Int), true},
		{"array to serializable", Serializable, ArrayOf(String), true},
		{"covariant array", ArrayOf(base), ArrayOf(sub), true},
		{"contravariant array", ArrayOf(sub), ArrayOf(base), false},
		{"primitive array exact", ArrayOf(Int), ArrayOf(Int), true},
		{"primitive array mismatch", ArrayOf(Long), ArrayOf(Int), false},
		{"primitive to itself", Int, Int, true},
		{"primitive widening is not assignment", Long, Int, false},
		{"primitive to object", Object, Int, false},
		{"object to string", String, Object, false},
	}
	for _, tt := range tests {
		if got := IsAssignableFrom(tt.target, tt.source); got != tt.want {
			t.Errorf("%s: IsAssignableFrom(%s, %s) = %v, want %v",
				tt.name, tt.target.Name(), tt.source.Name(), got, tt.want)
		}
	}
}

func TestSpecializable(t *testing.T) {
	base := NewClass("a.Base", Public, nil)
	sub := NewClass("a.Sub", Public, base)
	concrete := base.Method("run", Public, Void)
	abstract := base.Method("plan", Public|Abstract, Void)
	private := base.Method("hide", Private, Void)
	static := base.Method("util", Public|Static, Void)
	ctor := base.Constructor(Public)

	if !concrete.IsSpecializableFor(sub) {
		t.Error("concrete method should be specializable for subclass")
	}
	if abstract.IsSpecializableFor(sub) {
		t.Error("abstract method should not be specializable")
	}
	if private.IsSpecializableFor(sub) || !private.IsSpecializableFor(base) {
		t.Error("private method specializable only on declaring type")
	}
	if static.IsSpecializableFor(base) {
		t.Error("static method is never specializable")
	}
	if ctor.IsSpecializableFor(sub) || !ctor.IsSpecializableFor(base) {
		t.Error("constructor specializable only on declaring type")
	}
}

func TestVisibility(t *testing.T) {
	base := NewClass("a.Base", Public, nil)
	samePkg := NewClass("a.Other", Public, nil)
	sub := NewClass("b.Sub", Public, base)
	stranger := NewClass("b.Stranger", Public, nil)

	pkgPrivate := base.Method("local", 0, Void)
	protected := base.Method("guarded", Protected, Void)
	private := base.Method("hidden", Private, Void)

	if !IsVisibleTo(pkgPrivate, samePkg) || IsVisibleTo(pkgPrivate, sub) {
		t.Error("package-private visibility wrong")
	}
	if !IsVisibleTo(protected, sub) || IsVisibleTo(protected, stranger) {
		t.Error("protected visibility wrong")
	}
	if IsVisibleTo(private, samePkg) || !IsVisibleTo(private, base) {
		t.Error("private visibility wrong")
	}
}

func TestIsDefaultMethod(t *testing.T) {
	iface := NewInterface("IFoo", Public)
	def := iface.Method("def", Public, Void)
	abs := iface.Method("abs", Public|Abstract, Void)
	bridge := iface.Method("br", Public|Bridge|Synthetic, Void)
	cls := NewClass("Foo", Public, nil)
	impl := cls.Method("def", Public, Void)

	if !IsDefaultMethod(def) {
		t.Error("non-abstract interface method should be default")
	}
	if IsDefaultMethod(abs) || IsDefaultMethod(bridge) || IsDefaultMethod(impl) {
		t.Error("abstract, bridge or class methods are not default")
	}
}

func TestMethodString(t *testing.T) {
	foo := NewClass("com.example.Foo", Public, nil)
	m := foo.Method("bar", Public|Static, Int, String, Long).Throws(Exception)
	want := "public static int com.example.Foo.bar(java.lang.String,long) throws java.lang.Exception"
	if got := MethodString(m); got != want {
		t.Errorf("MethodString = %q, want %q", got, want)
	}
}

func TestWrappers(t *testing.T) {
	w, ok := Wrapper(Int)
	if !ok || w.Name() != "java.lang.Integer" {
		t.Fatalf("Wrapper(int) = %v, %v", w, ok)
	}
	p, ok := Unwrap(w)
	if !ok || !Same(p, Int) {
		t.Fatalf("Unwrap(Integer) = %v, %v", p, ok)
	}
	if _, ok := Unwrap(String); ok {
		t.Error("String is not a wrapper")
	}
	if !IsAssignableFrom(Number, BoxedLong) {
		t.Error("Long should be a Number")
	}
	if _, ok := FindMethod(BoxedInteger.DeclaredMethods(), "intValue()I"); !ok {
		t.Error("Integer should declare intValue()I")
	}
}

func TestPool(t *testing.T) {
	foo := NewClass("com.example.Foo", Public, nil)
	p, err := NewPool(foo)
	if err != nil {
		t.Fatalf("NewPool: %v", err)
	}
	if got, ok := p.Lookup("com.example.Foo"); !ok || got != Type(foo) {
		t.Errorf("Lookup(Foo) = %v, %v", got, ok)
	}
	arr, ok := p.Lookup("com.example.Foo[][]")
	if !ok || !arr.IsArray() || !arr.ComponentType().IsArray() {
		t.Fatalf("array lookup failed: %v", arr)
	}
	if arr.Name() != "com.example.Foo[][]" {
		t.Errorf("array name = %q", arr.Name())
	}
	if _, ok := p.Lookup("void[]"); ok {
		t.Error("void[] must not resolve")
	}
	if _, ok := p.Lookup("int"); !ok {
		t.Error("primitives must resolve")
	}
	if err := p.Register(NewClass("com.example.Foo", Public, nil)); err == nil ||
		!strings.Contains(err.Error(), "duplicate") {
		t.Errorf("duplicate register error = %v", err)
	}
	if user := p.UserTypes(); len(user) != 1 || user[0].Name() != "com.example.Foo" {
		t.Errorf("UserTypes = %v", user)
	}
}

func TestAnnotationValues(t *testing.T) {
	argument := NewAnnotationType("bytebind.Argument")
	a := NewAnnotation(argument, map[string]any{
		"value":           int64(2),
		"bindingMechanic": "ANONYMOUS",
		"flag":            true,
		"targetType":      "java.lang.Runnable",
	})
	if a.Int("value", -1) != 2 {
		t.Errorf("Int(value) = %d", a.Int("value", -1))
	}
	if a.Int("missing", 7) != 7 {
		t.Error("Int default not applied")
	}
	if a.String("bindingMechanic", "UNIQUE") != "ANONYMOUS" {
		t.Error("String(bindingMechanic) wrong")
	}
	if !a.Bool("flag", false) {
		t.Error("Bool(flag) wrong")
	}
	p, _ := NewPool()
	if tv, ok := a.TypeValue("targetType", p.Lookup); !ok || !Same(tv, Runnable) {
		t.Errorf("TypeValue = %v, %v", tv, ok)
	}
	if !IsInterface(argument) {
		t.Error("annotation types are interfaces")
	}
	if got := a.Render(); !strings.HasPrefix(got, "@bytebind.Argument(") {
		t.Errorf("Render = %q", got)
	}
	if _, ok := FindAnnotation([]Annotation{a}, "bytebind.Argument"); !ok {
		t.Error("FindAnnotation missed")
	}
}

func TestParseModifiers(t *testing.T) {
	m, unknown := ParseModifiers([]string{"public", "abstract", "bogus"})
	if m != Public|Abstract {
		t.Errorf("modifiers = %v", m)
	}
	if len(unknown) != 1 || unknown[0] != "bogus" {
		t.Errorf("unknown = %v", unknown)
	}
}
