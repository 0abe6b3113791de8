package description

import "strings"

// Modifiers is the JVM access flag word of a type or method.
type Modifiers uint16

// Access flags, using the class file encoding.
const (
	Public         Modifiers = 0x0001
	Private        Modifiers = 0x0002
	Protected      Modifiers = 0x0004
	Static         Modifiers = 0x0008
	Final          Modifiers = 0x0010
	Synchronized   Modifiers = 0x0020
	Bridge         Modifiers = 0x0040
	Varargs        Modifiers = 0x0080
	Native         Modifiers = 0x0100
	Interface      Modifiers = 0x0200
	Abstract       Modifiers = 0x0400
	Strict         Modifiers = 0x0800
	Synthetic      Modifiers = 0x1000
	AnnotationType Modifiers = 0x2000
	Enum           Modifiers = 0x4000
)

// Is returns true if every flag in other is set.
func (m Modifiers) Is(other Modifiers) bool { return m&other == other }

func (m Modifiers) IsPublic() bool    { return m.Is(Public) }
func (m Modifiers) IsPrivate() bool   { return m.Is(Private) }
func (m Modifiers) IsProtected() bool { return m.Is(Protected) }
func (m Modifiers) IsStatic() bool    { return m.Is(Static) }
func (m Modifiers) IsFinal() bool     { return m.Is(Final) }
func (m Modifiers) IsAbstract() bool  { return m.Is(Abstract) }
func (m Modifiers) IsBridge() bool    { return m.Is(Bridge) }
func (m Modifiers) IsSynthetic() bool { return m.Is(Synthetic) }
func (m Modifiers) IsInterface() bool { return m.Is(Interface) }

// IsPackagePrivate returns true if none of public, protected or private is set.
func (m Modifiers) IsPackagePrivate() bool {
	return m&(Public|Protected|Private) == 0
}

var modifierNames = []struct {
	flag Modifiers
	name string
}{
	{Public, "public"},
	{Protected, "protected"},
	{Private, "private"},
	{Abstract, "abstract"},
	{Static, "static"},
	{Final, "final"},
	{Synchronized, "synchronized"},
	{Native, "native"},
	{Strict, "strictfp"},
	{Bridge, "bridge"},
	{Varargs, "varargs"},
	{Synthetic, "synthetic"},
	{Interface, "interface"},
	{AnnotationType, "annotation"},
	{Enum, "enum"},
}

// String renders the flags in source order, e.g. "public abstract".
func (m Modifiers) String() string {
	var parts []string
	for _, n := range modifierNames {
		if m.Is(n.flag) {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, " ")
}

// ParseModifiers converts modifier keywords back into flags.
// Unknown keywords are returned as the second result.
func ParseModifiers(words []string) (Modifiers, []string) {
	var m Modifiers
	var unknown []string
outer:
	for _, w := range words {
		for _, n := range modifierNames {
			if n.name == w {
				m |= n.flag
				continue outer
			}
		}
		unknown = append(unknown, w)
	}
	return m, unknown
}
