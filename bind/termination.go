package bind

import (
	"github.com/chazu/bytebind/assign"
	"github.com/chazu/bytebind/description"
	"github.com/chazu/bytebind/stack"
)

// TerminationHandler produces the manipulation run after the target method
// returned.
type TerminationHandler interface {
	Resolve(assigner assign.Assigner, typing assign.Typing, source, target description.Method) stack.Manipulation
}

type returning struct{}

type dropping struct{}

// Returning assigns the target's result to the source's return type and
// returns it. A constructor target yields its declaring type.
var Returning TerminationHandler = returning{}

// Dropping discards the target's result.
var Dropping TerminationHandler = dropping{}

func resultType(m description.Method) description.Type {
	if description.IsConstructor(m) {
		return m.DeclaringType()
	}
	return m.ReturnType()
}

func (returning) Resolve(assigner assign.Assigner, typing assign.Typing, source, target description.Method) stack.Manipulation {
	return stack.Compound(
		assigner.Assign(resultType(target), source.ReturnType(), typing),
		stack.Return(source.ReturnType()),
	)
}

func (dropping) Resolve(_ assign.Assigner, _ assign.Typing, _, target description.Method) stack.Manipulation {
	return stack.Removal(resultType(target))
}

func (returning) String() string { return "returning" }
func (dropping) String() string  { return "dropping" }

// MethodInvoker produces the invocation of a bound target.
type MethodInvoker interface {
	Invoke(m description.Method) stack.Manipulation
}

type simpleInvoker struct{}

// SimpleInvoker invokes the target the way its declaration demands.
var SimpleInvoker MethodInvoker = simpleInvoker{}

func (simpleInvoker) Invoke(m description.Method) stack.Manipulation { return stack.Invoke(m) }

type virtualInvoker struct {
	owner description.Type
}

// VirtualInvoker invokes targets virtually on a receiver of type owner.
func VirtualInvoker(owner description.Type) MethodInvoker {
	return virtualInvoker{owner: owner}
}

func (v virtualInvoker) Invoke(m description.Method) stack.Manipulation {
	return stack.InvokeOn(m, v.owner)
}
