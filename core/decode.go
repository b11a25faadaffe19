package core

import (
	"fmt"

	"github.com/mariocodesforfun/risc-v-to-machine/program"
)

// Operands are the variable fields recovered from a machine word. Imm is
// sign-extended for I, S, B and J words, the raw upper 20 bits for U
// words, and the shift amount for I-shift words.
type Operands struct {
	Rd  uint32
	Rs1 uint32
	Rs2 uint32
	Imm int32
}

// FixedFields are the discriminator bits of a machine word.
type FixedFields struct {
	Opcode uint32
	Funct3 uint32
	Funct7 uint32
}

// ExtractFixed slices opcode, funct3 and funct7 out of a word. Formats
// that lack a field leave it zero.
func ExtractFixed(word uint32, f program.Format) FixedFields {
	fixed := FixedFields{Opcode: word & 0x7F}

	switch f.Kind() {
	case program.FormatR, program.FormatIShift:
		fixed.Funct3 = word >> 12 & 0x7
		fixed.Funct7 = word >> 25
	case program.FormatI, program.FormatS, program.FormatB:
		fixed.Funct3 = word >> 12 & 0x7
	case program.FormatU, program.FormatJ:
	default:
		panic(fmt.Sprintf("unhandled format %T", f))
	}

	return fixed
}

// Decode reverses the bit slicing the encoder applies for format f.
func Decode(word uint32, f program.Format) Operands {
	rd := word >> 7 & 0x1F
	rs1 := word >> 15 & 0x1F
	rs2 := word >> 20 & 0x1F

	switch f.(type) {
	case program.RType:
		return Operands{Rd: rd, Rs1: rs1, Rs2: rs2}
	case program.IType:
		return Operands{Rd: rd, Rs1: rs1, Imm: signExtend(word>>20, 12)}
	case program.IShiftType:
		return Operands{Rd: rd, Rs1: rs1, Imm: int32(word >> 20 & 0x1F)}
	case program.SType:
		imm := word>>25<<5 | word>>7&0x1F
		return Operands{Rs1: rs1, Rs2: rs2, Imm: signExtend(imm, 12)}
	case program.BType:
		imm := word>>31&0x1<<12 |
			word>>7&0x1<<11 |
			word>>25&0x3F<<5 |
			word>>8&0xF<<1
		return Operands{Rs1: rs1, Rs2: rs2, Imm: signExtend(imm, 13)}
	case program.UType:
		return Operands{Rd: rd, Imm: int32(word >> 12)}
	case program.JType:
		imm := word>>31&0x1<<20 |
			word>>12&0xFF<<12 |
			word>>20&0x1<<11 |
			word>>21&0x3FF<<1
		return Operands{Rd: rd, Imm: signExtend(imm, 21)}
	default:
		panic(fmt.Sprintf("unhandled format %T", f))
	}
}

func signExtend(v uint32, bits int) int32 {
	shift := 32 - bits
	return int32(v<<shift) >> shift
}
