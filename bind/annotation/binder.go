package annotation

import (
	"fmt"
	"sort"

	"github.com/chazu/bytebind/assign"
	"github.com/chazu/bytebind/bind"
	"github.com/chazu/bytebind/description"
	"github.com/chazu/bytebind/target"
)

// ParameterBinder binds target parameters carrying one annotation type.
// An unbindable parameter yields bind.Illegal(); an error wrapping
// ErrConfiguration reports an annotation that is wrong for its parameter.
type ParameterBinder interface {
	// AnnotationType returns the name of the handled annotation type.
	AnnotationType() string
	Bind(a description.Annotation, index int, source, candidate description.Method,
		tgt target.Target, assigner assign.Assigner) (bind.ParameterBinding, error)
}

// ---------------------------------------------------------------------------
// Defaults providers
// ---------------------------------------------------------------------------

// DefaultsProvider supplies implicit annotations for target parameters
// without a recognized annotation, consumed in order.
type DefaultsProvider interface {
	Defaults(tgt target.Target, source, candidate description.Method) []description.Annotation
}

type emptyDefaults struct{}

func (emptyDefaults) Defaults(target.Target, description.Method, description.Method) []description.Annotation {
	return nil
}

func (emptyDefaults) String() string { return "empty" }

// EmptyDefaults supplies nothing: unannotated parameters are unbindable.
var EmptyDefaults DefaultsProvider = emptyDefaults{}

type nextUnbound struct{}

// NextUnbound supplies UNIQUE Argument annotations for the source
// parameter indices no explicit Argument annotation of the candidate
// refers to, in ascending order.
var NextUnbound DefaultsProvider = nextUnbound{}

func (nextUnbound) Defaults(_ target.Target, source, candidate description.Method) []description.Annotation {
	bound := make(map[int]bool)
	for _, annotations := range candidate.ParameterAnnotations() {
		if a, ok := description.FindAnnotation(annotations, ArgumentName); ok {
			bound[a.Int("value", -1)] = true
		}
	}
	var out []description.Annotation
	for i := range source.ParameterTypes() {
		if !bound[i] {
			out = append(out, Argument(i, Unique))
		}
	}
	return out
}

func (nextUnbound) String() string { return "next-unbound" }

// ---------------------------------------------------------------------------
// Registry
// ---------------------------------------------------------------------------

// Processor maps annotation type names to their binders.
type Processor struct {
	binders map[string]ParameterBinder
}

// NewProcessor registers binders. Two binders for one annotation type are
// a configuration error.
func NewProcessor(binders ...ParameterBinder) (*Processor, error) {
	p := &Processor{binders: make(map[string]ParameterBinder, len(binders))}
	for _, b := range binders {
		name := b.AnnotationType()
		if _, exists := p.binders[name]; exists {
			return nil, fmt.Errorf("%w: two binders for %s", ErrConfiguration, name)
		}
		p.binders[name] = b
	}
	return p, nil
}

// Handled returns the registered annotation type names in order.
func (p *Processor) Handled() []string {
	names := make([]string, 0, len(p.binders))
	for n := range p.binders {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// handler returns the binder and annotation for a target parameter: the one
// registered annotation it carries or else the next default. ok is false
// when neither applies.
func (p *Processor) handler(annotations []description.Annotation, next func() (description.Annotation, bool)) (ParameterBinder, description.Annotation, bool, error) {
	var (
		found      ParameterBinder
		annotation description.Annotation
	)
	for _, a := range annotations {
		b, ok := p.binders[a.Type.Name()]
		if !ok {
			continue
		}
		if found != nil {
			return nil, description.Annotation{}, false, fmt.Errorf(
				"%w: ambiguous binding for parameter annotated with two handled annotation types", ErrConfiguration)
		}
		found, annotation = b, a
	}
	if found != nil {
		return found, annotation, true, nil
	}
	a, ok := next()
	if !ok {
		return nil, description.Annotation{}, false, nil
	}
	found, ok = p.binders[a.Type.Name()]
	return found, a, ok, nil
}

// ---------------------------------------------------------------------------
// Binder
// ---------------------------------------------------------------------------

// Binder binds a source method to a candidate by the annotations on the
// candidate's parameters. It implements bind.Binder.
type Binder struct {
	processor   *Processor
	defaults    DefaultsProvider
	termination bind.TerminationHandler
	assigner    assign.Assigner
	invoker     bind.MethodInvoker
}

// NewBinder returns a binder over binders. Nil collaborators default to
// EmptyDefaults, bind.Returning, assign.Default and bind.SimpleInvoker.
func NewBinder(binders []ParameterBinder, defaults DefaultsProvider, termination bind.TerminationHandler,
	assigner assign.Assigner, invoker bind.MethodInvoker) (*Binder, error) {
	processor, err := NewProcessor(binders...)
	if err != nil {
		return nil, err
	}
	if defaults == nil {
		defaults = EmptyDefaults
	}
	if termination == nil {
		termination = bind.Returning
	}
	if assigner == nil {
		assigner = assign.Default
	}
	if invoker == nil {
		invoker = bind.SimpleInvoker
	}
	return &Binder{
		processor:   processor,
		defaults:    defaults,
		termination: termination,
		assigner:    assigner,
		invoker:     invoker,
	}, nil
}

// Processor returns the binder registry.
func (b *Binder) Processor() *Processor { return b.processor }

// Bind returns the binding of source to candidate, or
// bind.IllegalMethodBinding when candidate cannot take the delegation.
func (b *Binder) Bind(tgt target.Target, source, candidate description.Method) (bind.MethodBinding, error) {
	if IsIgnored(candidate) {
		return bind.IllegalMethodBinding, nil
	}
	termination := b.termination.Resolve(b.assigner, ReturnTyping(candidate), source, candidate)
	if !termination.IsValid() {
		log.Debugf("result of %s not assignable to %s",
			description.MethodString(candidate), description.MethodString(source))
		return bind.IllegalMethodBinding, nil
	}
	defaults := b.defaults.Defaults(tgt, source, candidate)
	next := func() (description.Annotation, bool) {
		if len(defaults) == 0 {
			return description.Annotation{}, false
		}
		a := defaults[0]
		defaults = defaults[1:]
		return a, true
	}
	builder := bind.NewBuilder(b.invoker, candidate)
	for i, annotations := range candidate.ParameterAnnotations() {
		binder, annotation, ok, err := b.processor.handler(annotations, next)
		if err != nil {
			return nil, fmt.Errorf("%s parameter %d: %w", description.MethodString(candidate), i, err)
		}
		if !ok {
			return bind.IllegalMethodBinding, nil
		}
		pb, err := binder.Bind(annotation, i, source, candidate, tgt, b.assigner)
		if err != nil {
			return nil, err
		}
		if !pb.IsValid() || !builder.Append(pb) {
			return bind.IllegalMethodBinding, nil
		}
	}
	return builder.Build(termination)
}
