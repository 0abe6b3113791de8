package assign

import (
	"testing"

	"github.com/chazu/bytebind/description"
	"github.com/chazu/bytebind/stack"
)

func TestReferenceAssigner(t *testing.T) {
	base := description.NewClass("Base", description.Public, nil)
	sub := description.NewClass("Sub", description.Public, base)

	if got := Reference.Assign(sub, base, Static); got != stack.Trivial {
		t.Errorf("upcast = %v, want trivial", got)
	}
	if Reference.Assign(base, sub, Static).IsValid() {
		t.Error("static downcast must be illegal")
	}
	down := Reference.Assign(base, sub, Dynamic)
	if !down.IsValid() {
		t.Fatal("dynamic downcast must be valid")
	}
	if ins := stack.Assemble(down).Instructions; len(ins) != 1 || ins[0].Op != stack.OpCheckcast {
		t.Errorf("dynamic downcast = %v, want checkcast", ins)
	}
	if Reference.Assign(description.Int, description.Long, Dynamic).IsValid() {
		t.Error("reference assigner must not widen")
	}
}

func TestPrimitiveAssigner(t *testing.T) {
	tests := []struct {
		name           string
		source, target description.Type
		typing         Typing
		valid          bool
	}{
		{"widening", description.Int, description.Long, Static, true},
		{"narrowing", description.Long, description.Int, Static, false},
		{"boxing to wrapper", description.Int, description.BoxedInteger, Static, true},
		{"boxing to object", description.Int, description.Object, Static, true},
		{"boxing to number", description.Double, description.Number, Static, true},
		{"boxing to unrelated", description.Int, description.String, Static, false},
		{"unboxing", description.BoxedInteger, description.Int, Static, true},
		{"unboxing with widening", description.BoxedInteger, description.Long, Static, true},
		{"unboxing object static", description.Object, description.Int, Static, false},
		{"unboxing object dynamic", description.Object, description.Int, Dynamic, true},
		{"boolean to int", description.Boolean, description.Int, Static, false},
	}
	a := Primitive(Reference)
	for _, tt := range tests {
		if got := a.Assign(tt.source, tt.target, tt.typing).IsValid(); got != tt.valid {
			t.Errorf("%s: valid = %v, want %v", tt.name, got, tt.valid)
		}
	}
}

func TestUnboxingDynamicCastsFirst(t *testing.T) {
	m := Default.Assign(description.Object, description.Int, Dynamic)
	ins := stack.Assemble(m).Instructions
	if len(ins) != 2 {
		t.Fatalf("instructions = %v", ins)
	}
	if ins[0].Op != stack.OpCheckcast || ins[0].Owner != "java/lang/Integer" {
		t.Errorf("first instruction = %v, want checkcast java/lang/Integer", ins[0])
	}
	if ins[1].Name != "intValue" {
		t.Errorf("second instruction = %v, want intValue", ins[1])
	}
}

func TestVoidAware(t *testing.T) {
	if Default.Assign(description.Void, description.Void, Static) != stack.Trivial {
		t.Error("void to void must be trivial")
	}
	pop := Default.Assign(description.Long, description.Void, Static)
	if ins := stack.Assemble(pop).Instructions; len(ins) != 1 || ins[0].Op != stack.OpPop2 {
		t.Errorf("long to void = %v, want pop2", ins)
	}
	if Default.Assign(description.Void, description.Int, Static).IsValid() {
		t.Error("void to value must be illegal by default")
	}
	withDefault := VoidAware(Primitive(Reference), true)
	if !withDefault.Assign(description.Void, description.Object, Static).IsValid() {
		t.Error("void to value with default value must be valid")
	}
}

func TestFuncAdapter(t *testing.T) {
	calls := 0
	f := Func(func(source, target description.Type, typing Typing) stack.Manipulation {
		calls++
		return stack.Illegal
	})
	if f.Assign(description.Int, description.Int, Static).IsValid() || calls != 1 {
		t.Error("Func adapter did not delegate")
	}
}
