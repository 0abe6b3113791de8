// Package report renders lookup findings and delegation outcomes as plain
// text or YAML.
package report

import (
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/chazu/bytebind/bind"
	"github.com/chazu/bytebind/description"
	"github.com/chazu/bytebind/lookup"
	"github.com/chazu/bytebind/stack"
)

// Format selects the output rendering.
type Format string

const (
	Text Format = "text"
	YAML Format = "yaml"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case Text, YAML:
		return f, nil
	}
	return "", fmt.Errorf("report: unknown format %q", s)
}

// Finding is the rendering of a lookup.Finding.
type Finding struct {
	Type     string          `yaml:"type"`
	Methods  []Method        `yaml:"methods"`
	Defaults []DefaultMethod `yaml:"defaults,omitempty"`
}

// Method is one invokable method of a finding.
type Method struct {
	Signature  string   `yaml:"signature"`
	Kind       string   `yaml:"kind"`
	Modifiers  string   `yaml:"modifiers,omitempty"`
	DeclaredBy []string `yaml:"declared-by"`
}

// DefaultMethod is one entry of the default method map.
type DefaultMethod struct {
	Interface string   `yaml:"interface"`
	Methods   []string `yaml:"methods"`
}

// NewFinding renders f.
func NewFinding(f *lookup.Finding) Finding {
	out := Finding{Type: f.Type().Name()}
	for _, m := range f.Methods() {
		entry := Method{
			Signature: m.UniqueSignature(),
			Kind:      m.Kind().String(),
			Modifiers: m.Modifiers().String(),
		}
		for _, member := range m.Members() {
			entry.DeclaredBy = append(entry.DeclaredBy, member.DeclaringType().Name())
		}
		out.Methods = append(out.Methods, entry)
	}
	for _, iface := range f.DefaultInterfaces() {
		methods, _ := f.DefaultMethods(iface)
		entry := DefaultMethod{Interface: iface.Name()}
		for _, m := range methods {
			entry.Methods = append(entry.Methods, m.DeclaringType().Name()+"."+description.UniqueSignature(m))
		}
		out.Defaults = append(out.Defaults, entry)
	}
	return out
}

// Binding is the outcome of delegating one source method.
type Binding struct {
	Source    string     `yaml:"source"`
	Target    string     `yaml:"target,omitempty"`
	Arguments []Argument `yaml:"arguments,omitempty"`
	Listing   []string   `yaml:"listing,omitempty"`
	Error     string     `yaml:"error,omitempty"`
}

// Argument maps a source argument to the target parameter it is bound to.
type Argument struct {
	Source    int `yaml:"source"`
	Parameter int `yaml:"parameter"`
}

// NewBinding renders the result of bind.Processor.Process.
func NewBinding(source description.Method, mb bind.MethodBinding, err error) Binding {
	out := Binding{Source: description.MethodString(source)}
	if err != nil {
		out.Error = err.Error()
		return out
	}
	out.Target = description.MethodString(mb.Target())
	for i := range source.ParameterTypes() {
		if p, ok := mb.TargetParameterIndex(bind.ParameterIndexToken{Index: i}); ok {
			out.Arguments = append(out.Arguments, Argument{Source: i, Parameter: p})
		}
	}
	for _, ins := range stack.Assemble(mb).Instructions {
		out.Listing = append(out.Listing, ins.String())
	}
	return out
}

// Write renders v, a Finding, a Binding or a slice of either, in format.
func Write(w io.Writer, format Format, v any) error {
	if format == YAML {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("report: encode yaml: %w", err)
		}
		return enc.Close()
	}
	switch r := v.(type) {
	case Finding:
		return writeFinding(w, r)
	case []Finding:
		for i, f := range r {
			if i > 0 {
				fmt.Fprintln(w)
			}
			if err := writeFinding(w, f); err != nil {
				return err
			}
		}
		return nil
	case Binding:
		return writeBinding(w, r)
	case []Binding:
		for _, b := range r {
			if err := writeBinding(w, b); err != nil {
				return err
			}
		}
		return nil
	}
	return fmt.Errorf("report: cannot render %T", v)
}

func writeFinding(w io.Writer, f Finding) error {
	if _, err := fmt.Fprintf(w, "%s: %d invokable methods\n", f.Type, len(f.Methods)); err != nil {
		return err
	}
	for _, m := range f.Methods {
		line := fmt.Sprintf("  %-14s %s", m.Kind, m.Signature)
		if m.Modifiers != "" {
			line += " [" + m.Modifiers + "]"
		}
		line += " <- " + strings.Join(m.DeclaredBy, ", ")
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	for _, d := range f.Defaults {
		if _, err := fmt.Fprintf(w, "  defaults of %s: %s\n", d.Interface, strings.Join(d.Methods, ", ")); err != nil {
			return err
		}
	}
	return nil
}

func writeBinding(w io.Writer, b Binding) error {
	if b.Error != "" {
		_, err := fmt.Fprintf(w, "%s\n  error: %s\n", b.Source, b.Error)
		return err
	}
	if _, err := fmt.Fprintf(w, "%s\n  -> %s\n", b.Source, b.Target); err != nil {
		return err
	}
	for _, a := range b.Arguments {
		if _, err := fmt.Fprintf(w, "  argument %d -> parameter %d\n", a.Source, a.Parameter); err != nil {
			return err
		}
	}
	for _, ins := range b.Listing {
		if _, err := fmt.Fprintf(w, "    %s\n", ins); err != nil {
			return err
		}
	}
	return nil
}
