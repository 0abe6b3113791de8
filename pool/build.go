package pool

import (
	"fmt"
	"strings"

	"github.com/chazu/bytebind/bind/annotation"
	"github.com/chazu/bytebind/description"
)

// Build validates f and builds its declarations into a pool holding the
// java.lang bootstrap types and the binder annotation types. Declarations
// may reference each other in any order. An annotation type that is
// neither predeclared nor declared in f is created on first use.
func Build(f *File) (*description.Pool, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	p, err := description.NewPool(annotation.Types()...)
	if err != nil {
		return nil, err
	}
	b := &builder{pool: p, declared: make(map[string]*description.LatentType, len(f.Types))}

	for _, decl := range f.Types {
		t, err := b.declare(decl)
		if err != nil {
			return nil, err
		}
		if err := p.Register(t); err != nil {
			return nil, err
		}
		b.declared[decl.Name] = t
	}
	for _, decl := range f.Types {
		if err := b.define(decl); err != nil {
			return nil, fmt.Errorf("pool: %s: %w", decl.Name, err)
		}
	}
	for _, decl := range f.Types {
		if err := checkHierarchy(b.declared[decl.Name]); err != nil {
			return nil, err
		}
	}
	log.Debugf("built pool with %d declared types", len(f.Types))
	return p, nil
}

// Load reads, merges and builds pool files.
func Load(paths ...string) (*description.Pool, error) {
	f, err := ReadFiles(paths...)
	if err != nil {
		return nil, err
	}
	return Build(f)
}

type builder struct {
	pool     *description.Pool
	declared map[string]*description.LatentType
}

func modifiers(words []string) (description.Modifiers, error) {
	m, unknown := description.ParseModifiers(words)
	if len(unknown) > 0 {
		return 0, fmt.Errorf("unknown modifiers %s", strings.Join(unknown, ", "))
	}
	return m, nil
}

// declare creates the shell of a declared type.
func (b *builder) declare(decl TypeDecl) (*description.LatentType, error) {
	mods, err := modifiers(decl.Modifiers)
	if err != nil {
		return nil, fmt.Errorf("pool: %s: %w", decl.Name, err)
	}
	switch decl.Kind {
	case "", "class":
		return description.NewClass(decl.Name, mods, nil), nil
	case "interface":
		if decl.Super != "" {
			return nil, fmt.Errorf("pool: interface %s cannot extend class %s", decl.Name, decl.Super)
		}
		return description.NewInterface(decl.Name, mods), nil
	default:
		return description.NewAnnotationType(decl.Name), nil
	}
}

// define resolves the references of a declared type and adds its members.
func (b *builder) define(decl TypeDecl) error {
	t := b.declared[decl.Name]
	if decl.Super != "" {
		super, err := b.resolve(decl.Super)
		if err != nil {
			return err
		}
		if description.IsInterface(super) || super.IsPrimitive() || super.IsArray() {
			return fmt.Errorf("cannot extend %s", super.Name())
		}
		if super.Modifiers().IsFinal() {
			return fmt.Errorf("cannot extend final %s", super.Name())
		}
		t.Extend(super)
	}
	for _, name := range decl.Interfaces {
		iface, err := b.resolve(name)
		if err != nil {
			return err
		}
		if !description.IsInterface(iface) {
			return fmt.Errorf("%s is not an interface", name)
		}
		t.Implement(iface)
	}
	annotations, err := b.annotations(decl.Annotations)
	if err != nil {
		return err
	}
	t.Annotate(annotations...)
	for _, md := range decl.Methods {
		m, err := b.method(md)
		if err != nil {
			return fmt.Errorf("method %s: %w", md.Name, err)
		}
		t.DefineMethod(m)
	}
	return nil
}

func (b *builder) method(md MethodDecl) (*description.LatentMethod, error) {
	mods, err := modifiers(md.Modifiers)
	if err != nil {
		return nil, err
	}
	params := make([]description.Type, len(md.Parameters))
	for i, pd := range md.Parameters {
		if params[i], err = b.resolve(pd.Type); err != nil {
			return nil, err
		}
		if description.IsVoid(params[i]) {
			return nil, fmt.Errorf("parameter %d cannot be void", i)
		}
	}
	var m *description.LatentMethod
	if md.Name == description.ConstructorName {
		if md.Returns != "" && md.Returns != "void" {
			return nil, fmt.Errorf("constructor cannot return %s", md.Returns)
		}
		m = description.NewConstructor(mods, params...)
	} else {
		ret := description.Type(description.Void)
		if md.Returns != "" {
			if ret, err = b.resolve(md.Returns); err != nil {
				return nil, err
			}
		}
		m = description.NewMethod(md.Name, mods, ret, params...)
	}
	for i, pd := range md.Parameters {
		annotations, err := b.annotations(pd.Annotations)
		if err != nil {
			return nil, err
		}
		m.AnnotateParameter(i, annotations...)
	}
	annotations, err := b.annotations(md.Annotations)
	if err != nil {
		return nil, err
	}
	m.Annotate(annotations...)
	for _, name := range md.Throws {
		ex, err := b.resolve(name)
		if err != nil {
			return nil, err
		}
		m.Throws(ex)
	}
	return m, nil
}

func (b *builder) annotations(decls []AnnotationDecl) ([]description.Annotation, error) {
	out := make([]description.Annotation, 0, len(decls))
	for _, ad := range decls {
		t, ok := b.pool.Lookup(ad.Type)
		if !ok {
			created := description.NewAnnotationType(ad.Type)
			if err := b.pool.Register(created); err != nil {
				return nil, err
			}
			log.Debugf("created annotation type %s", ad.Type)
			t = created
		}
		if !t.Modifiers().Is(description.AnnotationType) {
			return nil, fmt.Errorf("%s is not an annotation type", ad.Type)
		}
		out = append(out, description.NewAnnotation(t, ad.Values))
	}
	return out, nil
}

func (b *builder) resolve(name string) (description.Type, error) {
	t, ok := b.pool.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("unknown type %s", name)
	}
	return t, nil
}

// checkHierarchy rejects cyclic super class and interface chains.
func checkHierarchy(t description.Type) error {
	var visit func(description.Type, map[string]bool) error
	visit = func(current description.Type, path map[string]bool) error {
		if current == nil {
			return nil
		}
		if path[current.Name()] {
			return fmt.Errorf("pool: cyclic inheritance involving %s", current.Name())
		}
		path[current.Name()] = true
		defer delete(path, current.Name())
		if err := visit(current.SuperClass(), path); err != nil {
			return err
		}
		for _, iface := range current.Interfaces() {
			if err := visit(iface, path); err != nil {
				return err
			}
		}
		return nil
	}
	return visit(t, make(map[string]bool))
}
