package core

import (
	"github.com/mariocodesforfun/risc-v-to-machine/program"
)

// Builder can create new assemblers.
type Builder struct {
	isa      InstructionTable
	abiNames bool
}

// NewBuilder returns a builder for the RV32IM instruction table.
func NewBuilder() Builder {
	return Builder{
		isa: program.RV32IM(),
	}
}

// WithISA sets the instruction table.
func (b Builder) WithISA(isa InstructionTable) Builder {
	b.isa = isa
	return b
}

// WithABINames lets register operands use ABI names such as sp or a0.
func (b Builder) WithABINames(enabled bool) Builder {
	b.abiNames = enabled
	return b
}

// Build creates an assembler.
func (b Builder) Build() *Assembler {
	isa := b.isa
	if isa == nil {
		isa = program.RV32IM()
	}

	return &Assembler{
		encoder: Encoder{
			ISA:      isa,
			Resolver: Resolver{ABINames: b.abiNames},
		},
	}
}
