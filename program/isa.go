// Package program holds the instruction table: which layout each
// mnemonic uses and the fixed opcode/funct bits that identify it.
package program

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownMnemonic is returned when a mnemonic is not in the table.
var ErrUnknownMnemonic = errors.New("unknown mnemonic")

// ISA is a struct that represents an Instruction Set Architecture. It is
// filled once at construction and read-only afterwards.
type ISA struct {
	// name of the ISA.
	isaName string
	// map from instruction name to the layout of the instruction.
	nameToFormat map[string]Format
}

// NewISA creates an ISA holding the given instructions. It panics when
// the same mnemonic is registered twice.
func NewISA(name string, insts map[string]Format) *ISA {
	isa := &ISA{
		isaName:      name,
		nameToFormat: make(map[string]Format, len(insts)),
	}

	for mnemonic, f := range insts {
		isa.registerNewInst(mnemonic, f)
	}

	return isa
}

func (isa *ISA) registerNewInst(name string, f Format) {
	if _, ok := isa.nameToFormat[name]; ok {
		panic(fmt.Sprintf("instruction %q registered twice in %s", name, isa.isaName))
	}

	if f == nil {
		panic(fmt.Sprintf("instruction %q has no format", name))
	}

	isa.nameToFormat[name] = f
}

// Name returns the name of the ISA.
func (isa *ISA) Name() string {
	return isa.isaName
}

// Lookup returns the layout of a mnemonic.
func (isa *ISA) Lookup(mnemonic string) (Format, error) {
	f, ok := isa.nameToFormat[mnemonic]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownMnemonic, mnemonic)
	}

	return f, nil
}

// Mnemonics lists all registered mnemonics in sorted order.
func (isa *ISA) Mnemonics() []string {
	names := make([]string, 0, len(isa.nameToFormat))
	for name := range isa.nameToFormat {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// Len returns the number of instructions in the ISA.
func (isa *ISA) Len() int {
	return len(isa.nameToFormat)
}
