package core

import (
	"encoding/binary"
	"fmt"

	"github.com/mariocodesforfun/risc-v-to-machine/instr"
	"github.com/mariocodesforfun/risc-v-to-machine/program"
)

// Field is one named bit-field of an instruction word.
type Field struct {
	Name  string
	Width int
	Value uint32
}

// Bits renders the field value zero-padded to its width.
func (f Field) Bits() string {
	return fmt.Sprintf("%0*b", f.Width, f.Value)
}

// Breakdown describes an instruction word field by field, high bits
// first, together with the whole word in binary, hex and decimal.
type Breakdown struct {
	Fields  []Field
	Binary  string
	Hex     string
	Decimal uint32
}

// Field returns the named field.
func (b Breakdown) Field(name string) (Field, bool) {
	for _, f := range b.Fields {
		if f.Name == name {
			return f, true
		}
	}

	return Field{}, false
}

// EncodedInst is an instruction statement with its machine word.
type EncodedInst struct {
	Stmt      instr.Statement
	Format    program.Format
	Word      uint32
	Breakdown Breakdown
}

// Result is the output of a full assembly run.
type Result struct {
	Layout *Layout
	Insts  []EncodedInst
}

// Words returns the machine words in program order.
func (r *Result) Words() []uint32 {
	words := make([]uint32, len(r.Insts))
	for i, inst := range r.Insts {
		words[i] = inst.Word
	}

	return words
}

// Bytes returns the program image, little-endian as RISC-V stores it.
func (r *Result) Bytes() []byte {
	buf := make([]byte, 0, len(r.Insts)*InstSize)
	for _, inst := range r.Insts {
		buf = binary.LittleEndian.AppendUint32(buf, inst.Word)
	}

	return buf
}

// packFields concatenates fields high to low into a word. The widths
// must sum to 32.
func packFields(fields []Field) (uint32, Breakdown) {
	var word uint32
	total := 0

	for _, f := range fields {
		mask := uint32(1)<<f.Width - 1
		word = word<<f.Width | f.Value&mask
		total += f.Width
	}

	if total != 32 {
		panic(fmt.Sprintf("instruction layout is %d bits wide", total))
	}

	return word, Breakdown{
		Fields:  fields,
		Binary:  fmt.Sprintf("%032b", word),
		Hex:     fmt.Sprintf("0x%08x", word),
		Decimal: word,
	}
}
