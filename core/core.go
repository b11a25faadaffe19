// Package core is the two-pass RV32I/M assembler engine. Pass one assigns
// a PC to every instruction and an address to every label; pass two
// encodes each instruction into its 32-bit word once all labels,
// including forward references, are known.
package core

import (
	"github.com/mariocodesforfun/risc-v-to-machine/instr"
)

// Assembler runs both passes over a statement list.
type Assembler struct {
	encoder Encoder
}

// Encoder returns the encoder used in the second pass.
func (a *Assembler) Encoder() Encoder {
	return a.encoder
}

// Assemble translates stmts into machine words. The first error aborts
// the run; no partial result is returned.
func (a *Assembler) Assemble(stmts []instr.Statement) (*Result, error) {
	layout, err := AssignAddresses(stmts)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Layout: layout,
		Insts:  make([]EncodedInst, 0, layout.Size/InstSize),
	}

	for _, s := range layout.Statements {
		if !s.IsInst() {
			continue
		}

		enc, err := a.encoder.Encode(s, layout.Labels)
		if err != nil {
			return nil, err
		}

		Trace("Encode",
			"pc", s.PC,
			"inst", s.String(),
			"format", enc.Format.Kind().Name(),
			"word", enc.Breakdown.Hex,
		)

		res.Insts = append(res.Insts, enc)
	}

	return res, nil
}
