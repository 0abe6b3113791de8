package lookup

import (
	"github.com/chazu/bytebind/description"
)

// orderedMethods maps unique signatures to methods and remembers the order
// in which signatures were first seen.
type orderedMethods struct {
	index map[string]int
	items []*Method
}

func newOrderedMethods() *orderedMethods {
	return &orderedMethods{index: make(map[string]int)}
}

func (o *orderedMethods) get(sig string) (*Method, bool) {
	i, ok := o.index[sig]
	if !ok {
		return nil, false
	}
	return o.items[i], true
}

func (o *orderedMethods) put(sig string, m *Method) {
	if i, ok := o.index[sig]; ok {
		o.items[i] = m
		return
	}
	o.index[sig] = len(o.items)
	o.items = append(o.items, m)
}

func (o *orderedMethods) signatures() map[string]bool {
	out := make(map[string]bool, len(o.index))
	for sig := range o.index {
		out[sig] = true
	}
	return out
}

// bucket collects the invokable methods of one subject type. It lives for
// a single Process call.
type bucket struct {
	subject   description.Type
	classes   *orderedMethods
	ifaces    *orderedMethods
	processed map[string]bool
}

func newBucket(subject description.Type) *bucket {
	b := &bucket{
		subject:   subject,
		classes:   newOrderedMethods(),
		ifaces:    newOrderedMethods(),
		processed: make(map[string]bool),
	}
	b.pushClass(subject, func(description.Method) bool { return true })
	return b
}

// virtual reports whether m can be inherited by the subject: a method, not
// private, not static, and visible when package-private.
func (b *bucket) virtual(m description.Method) bool {
	mod := m.Modifiers()
	if !description.IsMethod(m) || mod.IsPrivate() || mod.IsStatic() {
		return false
	}
	return !mod.IsPackagePrivate() || description.IsVisibleTo(m, b.subject)
}

// visit marks t processed and reports whether it was new.
func (b *bucket) visit(t description.Type) bool {
	if b.processed[t.Name()] {
		return false
	}
	b.processed[t.Name()] = true
	return true
}

// pushClass merges the declared methods of a class accepted by filter. A
// signature already known belongs to a more derived class; the new
// declaration extends its override chain.
func (b *bucket) pushClass(t description.Type, filter func(description.Method) bool) {
	if !b.visit(t) {
		return
	}
	for _, m := range t.DeclaredMethods() {
		if !filter(m) {
			continue
		}
		sig := description.UniqueSignature(m)
		if existing, ok := b.classes.get(sig); ok {
			b.classes.put(sig, overriddenBy(existing, m))
			log.Debugf("%s: %s overridden along %s", b.subject.Name(), sig, t.Name())
			continue
		}
		b.classes.put(sig, plainMethod(m))
	}
}

// pushInterfaces processes interfaces in order. Signatures owned by the
// class hierarchy are claimed up front and never taken by an interface.
func (b *bucket) pushInterfaces(interfaces []description.Type, defaults defaultLookup) {
	claimed := b.classes.signatures()
	for _, iface := range interfaces {
		b.pushInterface(iface, claimed, defaults)
	}
}

// frame is one entry of the interface traversal stack.
type frame struct {
	iface   description.Type
	claimed map[string]bool
	next    int
}

// pushInterface walks iface and its super interfaces depth first. Each
// frame owns a copy of the signatures claimed on the path from the root, so
// a declaration claims its signature for its own super interfaces only.
func (b *bucket) pushInterface(root description.Type, inherited map[string]bool, defaults defaultLookup) {
	var frames []*frame
	enter := func(iface description.Type, parent map[string]bool) {
		if !b.visit(iface) {
			return
		}
		claimed := make(map[string]bool, len(parent))
		for sig := range parent {
			claimed[sig] = true
		}
		defaults.begin(iface)
		for _, m := range iface.DeclaredMethods() {
			if !b.virtual(m) {
				continue
			}
			sig := description.UniqueSignature(m)
			if !claimed[sig] {
				claimed[sig] = true
				b.registerInterfaceMethod(iface, sig, m)
			}
			defaults.register(m)
		}
		frames = append(frames, &frame{iface: iface, claimed: claimed})
	}

	enter(root, inherited)
	for len(frames) > 0 {
		top := frames[len(frames)-1]
		supers := top.iface.Interfaces()
		if top.next < len(supers) {
			super := supers[top.next]
			top.next++
			enter(super, top.claimed)
			continue
		}
		defaults.complete(top.iface)
		frames = frames[:len(frames)-1]
	}
}

// registerInterfaceMethod stores m unless a method of an unrelated
// interface already holds the signature, in which case both merge into a
// conflict. A registration by a super interface of iface is replaced.
func (b *bucket) registerInterfaceMethod(iface description.Type, sig string, m description.Method) {
	existing, ok := b.ifaces.get(sig)
	if !ok || description.IsAssignableFrom(existing.DeclaringType(), iface) {
		b.ifaces.put(sig, plainMethod(m))
		return
	}
	b.ifaces.put(sig, conflictWith(b.subject, existing, m))
	log.Debugf("%s: %s conflicts between %s and %s", b.subject.Name(), sig, existing.DeclaringType().Name(), iface.Name())
}

// invokable returns class methods then interface methods, each in first
// seen order.
func (b *bucket) invokable() []*Method {
	out := make([]*Method, 0, len(b.classes.items)+len(b.ifaces.items))
	out = append(out, b.classes.items...)
	out = append(out, b.ifaces.items...)
	return out
}
