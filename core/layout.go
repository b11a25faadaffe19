package core

import (
	"github.com/mariocodesforfun/risc-v-to-machine/instr"
)

// InstSize is the size of every RV32 instruction in bytes.
const InstSize = 4

// LabelTable maps label names to byte addresses from program start.
type LabelTable map[string]uint32

// Lookup returns the address of a label.
func (t LabelTable) Lookup(name string) (uint32, bool) {
	addr, ok := t[name]
	return addr, ok
}

// Layout is the outcome of the address assignment pass.
type Layout struct {
	// Statements is a copy of the input with PCs stamped on instructions.
	Statements []instr.Statement
	Labels     LabelTable
	// Size is the program size in bytes.
	Size uint32
}

// Insts returns the instruction statements in source order.
func (l *Layout) Insts() []instr.Statement {
	insts := make([]instr.Statement, 0, len(l.Statements))
	for _, s := range l.Statements {
		if s.IsInst() {
			insts = append(insts, s)
		}
	}

	return insts
}

// AssignAddresses is the first pass. Labels take the PC of whatever
// follows them; every instruction takes the current PC and advances it
// by four.
func AssignAddresses(stmts []instr.Statement) (*Layout, error) {
	layout := &Layout{
		Statements: make([]instr.Statement, len(stmts)),
		Labels:     make(LabelTable),
	}

	var pc uint32
	for i, s := range stmts {
		switch s.Kind {
		case instr.KindLabel:
			if _, dup := layout.Labels[s.Label]; dup {
				s.PC = pc
				return nil, attach(newOperandError(ErrDuplicateLabel, "%q", s.Label), s)
			}

			layout.Labels[s.Label] = pc
			s.PC = pc
			Trace("Label", "name", s.Label, "pc", pc)
		case instr.KindInst:
			s.PC = pc
			pc += InstSize
		}

		layout.Statements[i] = s
	}

	layout.Size = pc

	return layout, nil
}
