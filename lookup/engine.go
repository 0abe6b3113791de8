// Package lookup computes the invokable methods of a type: the methods of
// its class hierarchy with overrides merged, the methods of every reachable
// interface with diamonds folded into conflicts, and optionally the default
// methods invokable through each directly declared interface.
package lookup

import (
	"github.com/tliron/commonlog"

	"github.com/chazu/bytebind/description"
)

var log = commonlog.GetLogger("bytebind.lookup")

// Engine resolves Findings. An Engine holds no state between calls and is
// safe for concurrent use.
type Engine struct {
	extractDefaults bool
}

// NewEngine returns an engine. When extractDefaults is set, Findings carry
// the default methods of the subject's directly declared interfaces.
func NewEngine(extractDefaults bool) *Engine {
	return &Engine{extractDefaults: extractDefaults}
}

// ExtractsDefaults reports whether default methods are extracted.
func (e *Engine) ExtractsDefaults() bool { return e.extractDefaults }

// Process computes the Finding of subject.
func (e *Engine) Process(subject description.Type) *Finding {
	b := newBucket(subject)

	// Class walk, subject first; the subject itself was seeded with all of
	// its declared methods.
	var interfaces []description.Type
	seen := make(map[string]bool)
	for _, t := range description.SuperClasses(subject) {
		b.pushClass(t, b.virtual)
		for _, iface := range t.Interfaces() {
			if !seen[iface.Name()] {
				seen[iface.Name()] = true
				interfaces = append(interfaces, iface)
			}
		}
	}

	var (
		order    []description.Type
		defaults map[string][]description.Method
	)
	if e.extractDefaults {
		declared := subject.Interfaces()
		isDeclared := make(map[string]bool, len(declared))
		for _, iface := range declared {
			isDeclared[iface.Name()] = true
		}
		var rest []description.Type
		for _, iface := range interfaces {
			if !isDeclared[iface.Name()] {
				rest = append(rest, iface)
			}
		}
		collector := newCollectingDefaults()
		b.pushInterfaces(declared, collector)
		order, defaults = collector.materialize(declared)
		interfaces = rest
	}
	b.pushInterfaces(interfaces, noDefaults{})

	finding := newFinding(subject, b.invokable(), order, defaults)
	log.Debugf("%s: %d invokable methods, %d default interfaces",
		subject.Name(), len(finding.methods), len(order))
	return finding
}
