// Package instr defines the statements an assembly program is made of.
package instr

import (
	"fmt"
	"strings"
)

// Kind tells a label declaration apart from an instruction occurrence.
type Kind int

const (
	KindLabel Kind = iota
	KindInst
)

// Name returns the name of the kind.
func (k Kind) Name() string {
	switch k {
	case KindLabel:
		return "label"
	case KindInst:
		return "inst"
	default:
		panic("invalid statement kind")
	}
}

// Statement is either a label declaration or an instruction occurrence.
type Statement struct {
	Kind Kind

	// Label is set for KindLabel.
	Label string

	// Mnemonic and Operands are set for KindInst. Operands hold the raw
	// tokens, e.g. "x5", "-1", "8(x1)" or a label name.
	Mnemonic string
	Operands []string

	// Line is the 1-based source line, 0 when the statement was not read
	// from text.
	Line int

	// PC is stamped by the address assignment pass. For a label it is
	// the address the label binds to.
	PC uint32
}

// NewLabel creates a label declaration.
func NewLabel(name string) Statement {
	return Statement{Kind: KindLabel, Label: name}
}

// NewInst creates an instruction occurrence.
func NewInst(mnemonic string, operands ...string) Statement {
	return Statement{Kind: KindInst, Mnemonic: mnemonic, Operands: operands}
}

// AtLine returns a copy of the statement tagged with a source line.
func (s Statement) AtLine(line int) Statement {
	s.Line = line
	return s
}

// IsLabel reports whether the statement declares a label.
func (s Statement) IsLabel() bool {
	return s.Kind == KindLabel
}

// IsInst reports whether the statement is an instruction.
func (s Statement) IsInst() bool {
	return s.Kind == KindInst
}

// String renders the statement the way it would appear in source.
func (s Statement) String() string {
	if s.Kind == KindLabel {
		return s.Label + ":"
	}

	if len(s.Operands) == 0 {
		return s.Mnemonic
	}

	return fmt.Sprintf("%s %s", s.Mnemonic, strings.Join(s.Operands, ", "))
}
