package bind

import (
	"fmt"
	"strings"

	"github.com/tliron/commonlog"

	"github.com/chazu/bytebind/description"
	"github.com/chazu/bytebind/target"
)

var log = commonlog.GetLogger("bytebind.bind")

// ---------------------------------------------------------------------------
// Errors
// ---------------------------------------------------------------------------

// AmbiguousError reports two legal bindings no resolver could order.
type AmbiguousError struct {
	Source      description.Method
	Left, Right description.Method
}

func (e *AmbiguousError) Error() string {
	return fmt.Sprintf("bind: cannot resolve ambiguous delegation of %s to %s or %s",
		description.MethodString(e.Source),
		description.MethodString(e.Left),
		description.MethodString(e.Right))
}

// NoBindingError reports that no candidate accepts a delegation.
type NoBindingError struct {
	Source     description.Method
	Candidates []description.Method
}

func (e *NoBindingError) Error() string {
	names := make([]string, len(e.Candidates))
	for i, c := range e.Candidates {
		names[i] = description.MethodString(c)
	}
	return fmt.Sprintf("bind: none of [%s] allows for delegation from %s",
		strings.Join(names, ", "), description.MethodString(e.Source))
}

// MultipleBindingsError reports more than one legal binding to a resolver
// requiring exactly one.
type MultipleBindingsError struct {
	Source   description.Method
	Bindings []MethodBinding
}

func (e *MultipleBindingsError) Error() string {
	return fmt.Sprintf("bind: %s allowed for %d bindings, expected one",
		description.MethodString(e.Source), len(e.Bindings))
}

// ---------------------------------------------------------------------------
// Binding resolvers
// ---------------------------------------------------------------------------

// BindingResolver picks one binding out of several legal ones.
type BindingResolver interface {
	Resolve(ambiguity AmbiguityResolver, source description.Method, bindings []MethodBinding) (MethodBinding, error)
}

type defaultBindingResolver struct{}

// DefaultBindingResolver runs a pairwise tournament. Two bindings are
// compared directly. With more, the first two are compared and the loser
// dropped; when they tie, both must lose against the best of the rest.
var DefaultBindingResolver BindingResolver = defaultBindingResolver{}

func (defaultBindingResolver) Resolve(ambiguity AmbiguityResolver, source description.Method, bindings []MethodBinding) (MethodBinding, error) {
	if len(bindings) == 0 {
		return nil, fmt.Errorf("bind: no bindings to resolve for %s", description.MethodString(source))
	}
	pool := make([]MethodBinding, len(bindings))
	copy(pool, bindings)
	return tournament(ambiguity, source, pool)
}

func tournament(ambiguity AmbiguityResolver, source description.Method, bindings []MethodBinding) (MethodBinding, error) {
	if len(bindings) == 1 {
		return bindings[0], nil
	}
	left, right := bindings[0], bindings[1]
	verdict := ambiguity.Resolve(source, left, right)
	if len(bindings) == 2 {
		switch verdict {
		case Left:
			return left, nil
		case Right:
			return right, nil
		}
		return nil, ambiguous(source, left, right)
	}
	switch verdict {
	case Left:
		return tournament(ambiguity, source, append([]MethodBinding{left}, bindings[2:]...))
	case Right:
		return tournament(ambiguity, source, bindings[1:])
	}
	rest, err := tournament(ambiguity, source, bindings[2:])
	if err != nil {
		return nil, err
	}
	if ambiguity.Resolve(source, left, rest).Merge(ambiguity.Resolve(source, right, rest)) == Right {
		return rest, nil
	}
	return nil, ambiguous(source, left, right)
}

func ambiguous(source description.Method, left, right MethodBinding) error {
	return &AmbiguousError{Source: source, Left: left.Target(), Right: right.Target()}
}

type uniqueBindingResolver struct{}

// UniqueBindingResolver accepts exactly one legal binding.
var UniqueBindingResolver BindingResolver = uniqueBindingResolver{}

func (uniqueBindingResolver) Resolve(_ AmbiguityResolver, source description.Method, bindings []MethodBinding) (MethodBinding, error) {
	if len(bindings) != 1 {
		return nil, &MultipleBindingsError{Source: source, Bindings: bindings}
	}
	return bindings[0], nil
}

type loggingBindingResolver struct {
	delegate BindingResolver
}

// LoggingBindingResolver logs every decision of delegate at info level.
func LoggingBindingResolver(delegate BindingResolver) BindingResolver {
	return loggingBindingResolver{delegate: delegate}
}

func (l loggingBindingResolver) Resolve(ambiguity AmbiguityResolver, source description.Method, bindings []MethodBinding) (MethodBinding, error) {
	binding, err := l.delegate.Resolve(ambiguity, source, bindings)
	if err != nil {
		log.Warningf("%s", err)
		return nil, err
	}
	log.Infof("binding %s as delegation to %s",
		description.MethodString(source), description.MethodString(binding.Target()))
	return binding, nil
}

// ---------------------------------------------------------------------------
// Processor
// ---------------------------------------------------------------------------

// Binder binds a source method to one candidate target method. An
// unbindable candidate yields IllegalMethodBinding; errors report
// misconfiguration.
type Binder interface {
	Bind(tgt target.Target, source, candidate description.Method) (MethodBinding, error)
}

// Processor binds a source method against a list of candidates and picks
// the best legal binding.
type Processor struct {
	binder    Binder
	ambiguity AmbiguityResolver
	resolver  BindingResolver
}

// NewProcessor returns a processor. A nil resolver means
// DefaultBindingResolver.
func NewProcessor(binder Binder, ambiguity AmbiguityResolver, resolver BindingResolver) *Processor {
	if ambiguity == nil {
		ambiguity = NoOp
	}
	if resolver == nil {
		resolver = DefaultBindingResolver
	}
	return &Processor{binder: binder, ambiguity: ambiguity, resolver: resolver}
}

// Process binds source to every candidate and resolves the legal bindings.
func (p *Processor) Process(tgt target.Target, source description.Method, candidates []description.Method) (MethodBinding, error) {
	legal, err := p.Bindings(tgt, source, candidates)
	if err != nil {
		return nil, err
	}
	if len(legal) == 0 {
		return nil, &NoBindingError{Source: source, Candidates: candidates}
	}
	return p.resolver.Resolve(p.ambiguity, source, legal)
}

// Bindings binds source to every candidate and returns the legal bindings
// without resolving them.
func (p *Processor) Bindings(tgt target.Target, source description.Method, candidates []description.Method) ([]MethodBinding, error) {
	var legal []MethodBinding
	for _, candidate := range candidates {
		binding, err := p.binder.Bind(tgt, source, candidate)
		if err != nil {
			return nil, fmt.Errorf("bind: %s: %w", description.MethodString(candidate), err)
		}
		if !binding.IsValid() {
			log.Debugf("%s cannot take delegation from %s",
				description.MethodString(candidate), description.MethodString(source))
			continue
		}
		legal = append(legal, binding)
	}
	return legal, nil
}
