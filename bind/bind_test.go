package bind

import (
	"errors"
	"strings"
	"testing"

	"github.com/chazu/bytebind/assign"
	d "github.com/chazu/bytebind/description"
	"github.com/chazu/bytebind/stack"
	"github.com/chazu/bytebind/target"
)

// binding builds a valid method binding of m whose i-th parameter is bound
// to source argument args[i]; a negative index binds anonymously.
func binding(t *testing.T, m d.Method, args ...int) MethodBinding {
	t.Helper()
	b := NewBuilder(SimpleInvoker, m)
	for i, arg := range args {
		load := stack.LoadVariable(m.ParameterTypes()[i], i+1)
		pb := Anonymous(load)
		if arg >= 0 {
			pb = Unique(load, ParameterIndexToken{Index: arg})
		}
		if !b.Append(pb) {
			t.Fatalf("append %d rejected", i)
		}
	}
	mb, err := b.Build(stack.Trivial)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return mb
}

func TestResolutionMerge(t *testing.T) {
	tests := []struct {
		a, b, want Resolution
	}{
		{Unknown, Left, Left},
		{Unknown, Ambiguous, Ambiguous},
		{Left, Unknown, Left},
		{Left, Left, Left},
		{Left, Right, Ambiguous},
		{Right, Ambiguous, Ambiguous},
		{Ambiguous, Left, Ambiguous},
	}
	for _, tt := range tests {
		if got := tt.a.Merge(tt.b); got != tt.want {
			t.Errorf("%v.Merge(%v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
	if !Unknown.IsUnresolved() || !Ambiguous.IsUnresolved() || Left.IsUnresolved() {
		t.Error("IsUnresolved wrong")
	}
	if Left.Invert() != Right || Ambiguous.Invert() != Ambiguous {
		t.Error("Invert wrong")
	}
}

func TestBuilderRejectsDuplicateTokens(t *testing.T) {
	host := d.NewClass("p.Host", d.Public, nil)
	m := host.Method("g", d.Public, d.Void, d.Int, d.Int)
	b := NewBuilder(SimpleInvoker, m)
	if !b.Append(Unique(stack.LoadVariable(d.Int, 1), ParameterIndexToken{Index: 0})) {
		t.Fatal("first append rejected")
	}
	if b.Append(Unique(stack.LoadVariable(d.Int, 1), ParameterIndexToken{Index: 0})) {
		t.Error("duplicate unique token accepted")
	}

	anon := NewBuilder(SimpleInvoker, m)
	if !anon.Append(Anonymous(stack.Trivial)) || !anon.Append(Anonymous(stack.Trivial)) {
		t.Error("anonymous bindings never collide")
	}
}

func TestBuilderParameterCount(t *testing.T) {
	host := d.NewClass("p.Host", d.Public, nil)
	m := host.Method("g", d.Public, d.Void, d.Int)
	if _, err := NewBuilder(SimpleInvoker, m).Build(stack.Trivial); err == nil {
		t.Error("building with missing parameters must fail")
	}
}

func TestMethodBindingApply(t *testing.T) {
	host := d.NewClass("p.Host", d.Public, nil)
	m := host.Method("g", d.Public|d.Static, d.Int, d.String)
	source := host.Method("f", d.Public, d.Long, d.Int, d.String)
	b := NewBuilder(SimpleInvoker, m)
	b.Append(Unique(stack.LoadVariable(d.String, 2), ParameterIndexToken{Index: 1}))
	mb, err := b.Build(Returning.Resolve(assign.Default, assign.Static, source, m))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !mb.IsValid() {
		t.Fatal("binding should be valid")
	}
	if i, ok := mb.TargetParameterIndex(ParameterIndexToken{Index: 1}); !ok || i != 0 {
		t.Errorf("TargetParameterIndex = %d, %v", i, ok)
	}
	ops := stack.Assemble(mb).Ops()
	want := []stack.Opcode{stack.OpLoad, stack.OpInvoke, stack.OpConvert, stack.OpReturn}
	if len(ops) != len(want) {
		t.Fatalf("ops = %v, want %v", ops, want)
	}
	for i := range want {
		if ops[i] != want[i] {
			t.Errorf("op %d = %s, want %s", i, ops[i], want[i])
		}
	}
}

func TestTerminationHandlers(t *testing.T) {
	host := d.NewClass("p.Host", d.Public, nil)
	source := host.Method("f", d.Public, d.Void)
	target := host.Method("g", d.Public, d.String)
	ctor := host.Constructor(d.Public)
	objSource := host.Method("make", d.Public, d.Object)

	if !Returning.Resolve(assign.Default, assign.Static, source, target).IsValid() {
		t.Error("returning a value into void pops it")
	}
	if !Returning.Resolve(assign.Default, assign.Static, objSource, ctor).IsValid() {
		t.Error("constructor yields its declaring type")
	}
	narrow := host.Method("name", d.Public, d.String)
	if Returning.Resolve(assign.Default, assign.Static, narrow, objSource).IsValid() {
		t.Error("Object to String needs runtime typing")
	}
	if !Returning.Resolve(assign.Default, assign.Dynamic, narrow, objSource).IsValid() {
		t.Error("Object to String with runtime typing is a cast")
	}
	pop := stack.Assemble(Dropping.Resolve(assign.Default, assign.Static, source, host.Method("l", d.Public, d.Long)))
	if len(pop.Instructions) != 1 || pop.Instructions[0].Op != stack.OpPop2 {
		t.Errorf("dropping long = %v", pop.Instructions)
	}
}

func TestCompoundResolver(t *testing.T) {
	calls := 0
	count := ResolverFunc(func(d.Method, MethodBinding, MethodBinding) Resolution {
		calls++
		return Ambiguous
	})
	r := Compound(NoOp, Compound(count, Directional(Left)), count)
	if got := r.Resolve(nil, nil, nil); got != Left {
		t.Errorf("compound = %v, want left", got)
	}
	if calls != 1 {
		t.Errorf("resolvers after a decision must not run, calls = %d", calls)
	}
	if n := len(r.(compound).Resolvers()); n != 3 {
		t.Errorf("flattened chain length = %d, want 3", n)
	}
	if Compound().Resolve(nil, nil, nil) != Unknown {
		t.Error("empty compound is unknown")
	}
}

func TestDeclaringTypeResolver(t *testing.T) {
	base := d.NewClass("p.Base", d.Public, nil)
	sub := d.NewClass("p.Sub", d.Public, base)
	other := d.NewClass("p.Other", d.Public, nil)
	a := binding(t, base.Method("a", d.Public, d.Void))
	b := binding(t, sub.Method("b", d.Public, d.Void))
	c := binding(t, other.Method("c", d.Public, d.Void))
	src := base.Method("src", d.Public, d.Void)

	if got := DeclaringTypeResolver.Resolve(src, a, b); got != Right {
		t.Errorf("base vs sub = %v, want right", got)
	}
	if got := DeclaringTypeResolver.Resolve(src, b, a); got != Left {
		t.Errorf("sub vs base = %v, want left", got)
	}
	if got := DeclaringTypeResolver.Resolve(src, a, c); got != Ambiguous {
		t.Errorf("unrelated = %v, want ambiguous", got)
	}
}

func TestMethodNameAndLengthResolvers(t *testing.T) {
	host := d.NewClass("p.Host", d.Public, nil)
	src := host.Method("foo", d.Public, d.Void, d.Int)
	same := binding(t, host.Method("foo", d.Public|d.Static, d.Void))
	other := binding(t, host.Method("bar", d.Public|d.Static, d.Void, d.Int), 0)

	if got := MethodNameEqualityResolver.Resolve(src, same, other); got != Left {
		t.Errorf("name = %v, want left", got)
	}
	if got := ParameterLengthResolver.Resolve(src, same, other); got != Right {
		t.Errorf("length = %v, want right", got)
	}
	if got := ParameterLengthResolver.Resolve(src, same, same); got != Ambiguous {
		t.Errorf("equal length = %v, want ambiguous", got)
	}
}

func TestArgumentTypeResolver(t *testing.T) {
	host := d.NewClass("p.Host", d.Public, nil)
	intSource := host.Method("f", d.Public, d.Void, d.Int)
	objSource := host.Method("h", d.Public, d.Void, d.Object)
	twoSource := host.Method("k", d.Public, d.Void, d.Int, d.Int)

	long := binding(t, host.Method("g", d.Public|d.Static, d.Void, d.Long), 0)
	integer := binding(t, host.Method("g", d.Public|d.Static, d.Void, d.Int), 0)
	boxed := binding(t, host.Method("g", d.Public|d.Static, d.Void, d.Object), 0)
	str := binding(t, host.Method("g", d.Public|d.Static, d.Void, d.String), 0)
	num := binding(t, host.Method("g", d.Public|d.Static, d.Void, d.Number), 0)
	both := binding(t, host.Method("g", d.Public|d.Static, d.Void, d.Int, d.Int), 0, 1)
	anon := binding(t, host.Method("g", d.Public|d.Static, d.Void, d.Int), -1)

	tests := []struct {
		name        string
		source      d.Method
		left, right MethodBinding
		want        Resolution
	}{
		{"narrower primitive wins", intSource, long, integer, Right},
		{"primitive wins for primitive source", intSource, integer, boxed, Left},
		{"reference wins for reference source", objSource, integer, boxed, Right},
		{"more specific reference wins", objSource, boxed, str, Right},
		{"unrelated references", objSource, str, num, Ambiguous},
		{"same type", intSource, integer, integer, Ambiguous},
		{"more bound arguments wins", twoSource, integer, both, Right},
		{"anonymous counts for nobody", intSource, anon, integer, Right},
	}
	for _, tt := range tests {
		got := ArgumentTypeResolver.Resolve(tt.source, tt.left, tt.right)
		if got != tt.want {
			t.Errorf("%s: %v, want %v", tt.name, got, tt.want)
		}
		if back := ArgumentTypeResolver.Resolve(tt.source, tt.right, tt.left); back != got.Invert() {
			t.Errorf("%s: swapped = %v, want %v", tt.name, back, got.Invert())
		}
	}
}

func TestAmbiguitySymmetry(t *testing.T) {
	base := d.NewClass("p.Base", d.Public, nil)
	sub := d.NewClass("p.Sub", d.Public, base)
	src := sub.Method("run", d.Public, d.Void, d.Int, d.Object)
	bindings := []MethodBinding{
		binding(t, base.Method("run", d.Public, d.Void, d.Int), 0),
		binding(t, sub.Method("exec", d.Public, d.Void, d.Long, d.Object), 0, 1),
		binding(t, sub.Method("run", d.Public, d.Void, d.Object), 1),
		binding(t, base.Method("go", d.Public, d.Void, d.Object, d.Int), 1, 0),
		binding(t, base.Method("none", d.Public, d.Void)),
	}
	resolvers := map[string]AmbiguityResolver{
		"declaring-type":   DeclaringTypeResolver,
		"argument-type":    ArgumentTypeResolver,
		"method-name":      MethodNameEqualityResolver,
		"parameter-length": ParameterLengthResolver,
		"chain": Compound(DeclaringTypeResolver, ArgumentTypeResolver,
			MethodNameEqualityResolver, ParameterLengthResolver),
	}
	for name, r := range resolvers {
		for i, x := range bindings {
			for j, y := range bindings {
				if i == j {
					continue
				}
				if a, b := r.Resolve(src, x, y), r.Resolve(src, y, x); a != b.Invert() {
					t.Errorf("%s(%d, %d) = %v but swapped = %v", name, i, j, a, b)
				}
			}
		}
	}
}

type fakeBinder map[string]MethodBinding

func (f fakeBinder) Bind(_ target.Target, _, candidate d.Method) (MethodBinding, error) {
	if b, ok := f[candidate.Name()]; ok {
		return b, nil
	}
	if candidate.Name() == "broken" {
		return nil, errors.New("misconfigured")
	}
	return IllegalMethodBinding, nil
}

func TestProcessorTournament(t *testing.T) {
	host := d.NewClass("p.Host", d.Public, nil)
	src := host.Method("src", d.Public, d.Void)
	a := host.Method("a", d.Public, d.Void)
	b := host.Method("b", d.Public, d.Void)
	c := host.Method("c", d.Public, d.Void)
	illegal := host.Method("x", d.Public, d.Void)
	ba, bb, bc := binding(t, a), binding(t, b), binding(t, c)
	binder := fakeBinder{"a": ba, "b": bb, "c": bc}

	// c beats everything, a and b tie.
	rank := map[string]int{"a": 1, "b": 1, "c": 2}
	byRank := ResolverFunc(func(_ d.Method, l, r MethodBinding) Resolution {
		switch lr, rr := rank[l.Target().Name()], rank[r.Target().Name()]; {
		case lr > rr:
			return Left
		case lr < rr:
			return Right
		}
		return Ambiguous
	})

	p := NewProcessor(binder, byRank, nil)
	got, err := p.Process(nil, src, []d.Method{a, illegal, b, c})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if got.Target().Name() != "c" {
		t.Errorf("winner = %s, want c", got.Target().Name())
	}

	_, err = p.Process(nil, src, []d.Method{a, b})
	var amb *AmbiguousError
	if !errors.As(err, &amb) {
		t.Fatalf("tie error = %v, want *AmbiguousError", err)
	}
	if amb.Left.Name() != "a" || amb.Right.Name() != "b" {
		t.Errorf("ambiguous pair = %s, %s", amb.Left.Name(), amb.Right.Name())
	}

	_, err = p.Process(nil, src, []d.Method{illegal})
	var none *NoBindingError
	if !errors.As(err, &none) || !strings.Contains(err.Error(), "allows for delegation") {
		t.Errorf("no binding error = %v", err)
	}

	if _, err := p.Process(nil, src, []d.Method{a, host.Method("broken", d.Public, d.Void)}); err == nil ||
		!strings.Contains(err.Error(), "misconfigured") {
		t.Errorf("binder error not propagated: %v", err)
	}

	only, err := NewProcessor(binder, nil, UniqueBindingResolver).Process(nil, src, []d.Method{illegal, b})
	if err != nil || only.Target().Name() != "b" {
		t.Errorf("unique = %v, %v", only, err)
	}
	if _, err := NewProcessor(binder, nil, UniqueBindingResolver).Process(nil, src, []d.Method{a, b}); err == nil {
		t.Error("unique resolver must reject two bindings")
	}

	logged, err := NewProcessor(binder, byRank, LoggingBindingResolver(DefaultBindingResolver)).Process(nil, src, []d.Method{c, a})
	if err != nil || logged.Target().Name() != "c" {
		t.Errorf("logging resolver = %v, %v", logged, err)
	}
}

func TestTournamentTieLosesToRest(t *testing.T) {
	host := d.NewClass("p.Host", d.Public, nil)
	src := host.Method("src", d.Public, d.Void)
	bindings := []MethodBinding{
		binding(t, host.Method("a", d.Public, d.Void)),
		binding(t, host.Method("b", d.Public, d.Void)),
		binding(t, host.Method("c", d.Public, d.Void)),
	}
	// a and b tie; a beats c, so c may not break the tie.
	r := ResolverFunc(func(_ d.Method, l, rr MethodBinding) Resolution {
		switch ln, rn := l.Target().Name(), rr.Target().Name(); {
		case ln == "a" && rn == "c":
			return Left
		case ln == "c" && rn == "a":
			return Right
		}
		return Ambiguous
	})
	if _, err := DefaultBindingResolver.Resolve(r, src, bindings); err == nil {
		t.Error("a tie whose member beats the rest must stay ambiguous")
	}
}
