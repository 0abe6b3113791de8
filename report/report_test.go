package report

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/chazu/bytebind/bind"
	"github.com/chazu/bytebind/bind/annotation"
	d "github.com/chazu/bytebind/description"
	"github.com/chazu/bytebind/lookup"
	"github.com/chazu/bytebind/target"
)

func sampleFinding() Finding {
	greet := d.NewInterface("p.IGreet", d.Public)
	greet.Method("greet", d.Public, d.Void)
	base := d.NewClass("p.Base", d.Public, nil)
	base.Method("run", d.Public, d.Void)
	sub := d.NewClass("p.Sub", d.Public, base, greet)
	sub.Method("run", d.Public, d.Void)
	return NewFinding(lookup.NewEngine(true).Process(sub))
}

func TestParseFormat(t *testing.T) {
	for _, s := range []string{"text", "YAML"} {
		if _, err := ParseFormat(s); err != nil {
			t.Errorf("ParseFormat(%q): %v", s, err)
		}
	}
	if _, err := ParseFormat("json"); err == nil {
		t.Error("json is not a report format")
	}
}

func TestFindingText(t *testing.T) {
	f := sampleFinding()
	var run *Method
	for i := range f.Methods {
		if f.Methods[i].Signature == "run()V" {
			run = &f.Methods[i]
		}
	}
	if run == nil || run.Kind != "override-chain" || len(run.DeclaredBy) != 2 || run.DeclaredBy[0] != "p.Sub" {
		t.Fatalf("run entry = %+v", run)
	}
	if len(f.Defaults) != 1 || f.Defaults[0].Interface != "p.IGreet" {
		t.Errorf("defaults = %+v", f.Defaults)
	}

	var buf bytes.Buffer
	if err := Write(&buf, Text, f); err != nil {
		t.Fatalf("Write: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"p.Sub:", "override-chain", "run()V", "<- p.Sub, p.Base", "defaults of p.IGreet: p.IGreet.greet()V"} {
		if !strings.Contains(out, want) {
			t.Errorf("text output missing %q:\n%s", want, out)
		}
	}
}

func TestFindingYAML(t *testing.T) {
	f := sampleFinding()
	var buf bytes.Buffer
	if err := Write(&buf, YAML, []Finding{f}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	var back []Finding
	if err := yaml.Unmarshal(buf.Bytes(), &back); err != nil {
		t.Fatalf("yaml output does not parse: %v", err)
	}
	if len(back) != 1 || back[0].Type != "p.Sub" || len(back[0].Methods) != len(f.Methods) {
		t.Errorf("round trip = %+v", back)
	}
}

func TestBindingReport(t *testing.T) {
	host := d.NewClass("p.Host", d.Public, nil)
	source := host.Method("f", d.Public, d.Void, d.Int, d.String)
	delegate := d.NewClass("p.Delegate", d.Public, nil)
	g := delegate.Method("g", d.Public|d.Static, d.Void, d.String).
		AnnotateParameter(0, annotation.Argument(1, annotation.Unique))
	binder, err := annotation.NewBinder(annotation.Standard(), annotation.NextUnbound, nil, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	tgt := target.ForSubclass(host, lookup.NewEngine(true))
	mb, err := bind.NewProcessor(binder, annotation.DefaultAmbiguityResolver(), nil).
		Process(tgt, source, []d.Method{g})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	b := NewBinding(source, mb, nil)
	if len(b.Arguments) != 1 || b.Arguments[0] != (Argument{Source: 1, Parameter: 0}) {
		t.Errorf("arguments = %+v", b.Arguments)
	}
	if len(b.Listing) != 3 {
		t.Errorf("listing = %v", b.Listing)
	}
	failed := NewBinding(source, nil, errors.New("no target"))

	var buf bytes.Buffer
	if err := Write(&buf, Text, []Binding{b, failed}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"-> public static void p.Delegate.g(java.lang.String)", "argument 1 -> parameter 0", "error: no target"} {
		if !strings.Contains(out, want) {
			t.Errorf("text output missing %q:\n%s", want, out)
		}
	}

	if err := Write(&buf, Text, 42); err == nil {
		t.Error("unsupported values must fail in text format")
	}
}
