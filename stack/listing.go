package stack

import (
	"fmt"
	"strings"

	"github.com/fxamacker/cbor/v2"
)

// Opcode is the mnemonic of an abstract instruction. Most mnemonics are JVM
// opcodes; a few (methodconst, proxy) stand for short fixed sequences the
// emission layer expands.
type Opcode string

const (
	OpNop         Opcode = "nop"
	OpNull        Opcode = "aconst_null"
	OpConst       Opcode = "const"
	OpLdc         Opcode = "ldc"
	OpLoad        Opcode = "load"
	OpReturn      Opcode = "return"
	OpPop         Opcode = "pop"
	OpPop2        Opcode = "pop2"
	OpDup         Opcode = "dup"
	OpCheckcast   Opcode = "checkcast"
	OpConvert     Opcode = "convert"
	OpInvoke      Opcode = "invoke"
	OpNew         Opcode = "new"
	OpNewArray    Opcode = "newarray"
	OpArrayStore  Opcode = "astore_element"
	OpGetStatic   Opcode = "getstatic"
	OpMethodConst Opcode = "methodconst"
	OpProxy       Opcode = "proxy"
)

// Instruction is one abstract instruction. Which fields are set depends on
// the opcode.
type Instruction struct {
	Op Opcode `cbor:"1,keyasint"`
	// Kind is the value category: "int", "long", "float", "double",
	// "reference" or "void".
	Kind string `cbor:"2,keyasint,omitempty"`
	// Invocation style for OpInvoke: "static", "virtual", "interface" or
	// "special".
	Style      string `cbor:"3,keyasint,omitempty"`
	Owner      string `cbor:"4,keyasint,omitempty"`
	Name       string `cbor:"5,keyasint,omitempty"`
	Descriptor string `cbor:"6,keyasint,omitempty"`
	Int        int64  `cbor:"7,keyasint,omitempty"`
	Text       string `cbor:"8,keyasint,omitempty"`
	Flag       bool   `cbor:"9,keyasint,omitempty"`
}

// String renders the instruction as one line of assembler text.
func (i Instruction) String() string {
	var b strings.Builder
	b.WriteString(string(i.Op))
	add := func(s string) {
		if s != "" {
			b.WriteByte(' ')
			b.WriteString(s)
		}
	}
	add(i.Kind)
	add(i.Style)
	if i.Owner != "" && i.Name != "" {
		add(i.Owner + "." + i.Name + i.Descriptor)
	} else {
		add(i.Owner)
		add(i.Name)
		add(i.Descriptor)
	}
	switch i.Op {
	case OpConst, OpLoad:
		add(fmt.Sprint(i.Int))
	}
	if i.Text != "" {
		add(fmt.Sprintf("%q", i.Text))
	}
	if i.Flag {
		add("serializable")
	}
	return b.String()
}

// Listing is the instruction sequence a manipulation appends to.
type Listing struct {
	Instructions []Instruction `cbor:"1,keyasint"`
	MaxStack     int           `cbor:"2,keyasint"`
}

// NewListing returns an empty listing.
func NewListing() *Listing {
	return &Listing{}
}

// Emit appends instructions.
func (l *Listing) Emit(ins ...Instruction) {
	l.Instructions = append(l.Instructions, ins...)
}

// Len returns the number of instructions.
func (l *Listing) Len() int { return len(l.Instructions) }

// Ops returns the opcodes in order.
func (l *Listing) Ops() []Opcode {
	ops := make([]Opcode, len(l.Instructions))
	for i, ins := range l.Instructions {
		ops[i] = ins.Op
	}
	return ops
}

// String renders the listing, one instruction per line.
func (l *Listing) String() string {
	var b strings.Builder
	for _, ins := range l.Instructions {
		b.WriteString(ins.String())
		b.WriteByte('\n')
	}
	return b.String()
}

// Assemble applies m to a fresh listing and records its maximum depth.
// It panics if m is not valid.
func Assemble(m Manipulation) *Listing {
	l := NewListing()
	size := m.Apply(l)
	l.MaxStack = size.Maximum
	return l
}

// ---------------------------------------------------------------------------
// CBOR codec
// ---------------------------------------------------------------------------

var encMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("stack: failed to create CBOR enc mode: %v", err))
	}
	encMode = em
}

// MarshalListing serializes a listing to canonical CBOR.
func MarshalListing(l *Listing) ([]byte, error) {
	return encMode.Marshal(l)
}

// UnmarshalListing deserializes a listing from CBOR.
func UnmarshalListing(data []byte) (*Listing, error) {
	var l Listing
	if err := cbor.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("stack: unmarshal listing: %w", err)
	}
	return &l, nil
}
