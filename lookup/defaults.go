package lookup

import (
	"github.com/chazu/bytebind/description"
)

// defaultLookup observes the interface traversal. begin is called when an
// interface is entered, register for every virtual method it declares and
// complete once all of its super interfaces were processed.
type defaultLookup interface {
	begin(iface description.Type)
	register(m description.Method)
	complete(iface description.Type)
}

type noDefaults struct{}

func (noDefaults) begin(description.Type)      {}
func (noDefaults) register(description.Method) {}
func (noDefaults) complete(description.Type)   {}

// methodSet is an insertion ordered set of methods keyed by declaring type
// and unique signature.
type methodSet struct {
	seen  map[string]bool
	items []description.Method
}

func newMethodSet() *methodSet {
	return &methodSet{seen: make(map[string]bool)}
}

func (s *methodSet) add(m description.Method) {
	key := m.DeclaringType().Name() + "#" + description.UniqueSignature(m)
	if s.seen[key] {
		return
	}
	s.seen[key] = true
	s.items = append(s.items, m)
}

// collectingDefaults gathers, per interface, the default methods invokable
// through it: its own default methods plus those of its super interfaces
// that it does not redeclare.
type collectingDefaults struct {
	defaults     map[string]*methodSet
	declarations map[string]map[string]bool
}

func newCollectingDefaults() *collectingDefaults {
	return &collectingDefaults{
		defaults:     make(map[string]*methodSet),
		declarations: make(map[string]map[string]bool),
	}
}

func (c *collectingDefaults) begin(iface description.Type) {
	c.defaults[iface.Name()] = newMethodSet()
	c.declarations[iface.Name()] = make(map[string]bool)
}

func (c *collectingDefaults) register(m description.Method) {
	owner := m.DeclaringType().Name()
	if decls, ok := c.declarations[owner]; ok {
		decls[description.UniqueSignature(m)] = true
	}
	if set, ok := c.defaults[owner]; ok && description.IsDefaultMethod(m) {
		set.add(m)
	}
}

func (c *collectingDefaults) complete(iface description.Type) {
	decls := c.declarations[iface.Name()]
	own := c.defaults[iface.Name()]
	for _, super := range iface.Interfaces() {
		inherited, ok := c.defaults[super.Name()]
		if !ok {
			continue
		}
		for _, m := range inherited.items {
			if !decls[description.UniqueSignature(m)] {
				own.add(m)
			}
		}
	}
}

// materialize keeps the entries of the given interfaces, in their order.
func (c *collectingDefaults) materialize(declared []description.Type) ([]description.Type, map[string][]description.Method) {
	var order []description.Type
	out := make(map[string][]description.Method)
	for _, iface := range declared {
		set, ok := c.defaults[iface.Name()]
		if !ok {
			continue
		}
		if _, dup := out[iface.Name()]; dup {
			continue
		}
		order = append(order, iface)
		out[iface.Name()] = set.items
	}
	return order, out
}
