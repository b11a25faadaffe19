package core

import (
	"fmt"

	"github.com/mariocodesforfun/risc-v-to-machine/instr"
	"github.com/mariocodesforfun/risc-v-to-machine/program"
)

// Immediate and displacement limits of the RV32 layouts.
const (
	imm12Min = -2048
	imm12Max = 4095 // 2048..4095 truncate to the negative patterns

	shamtMax = 31
	imm20Max = 0xFFFFF

	branchMin = -4096
	branchMax = 4094
	jumpMin   = -1 << 20
	jumpMax   = 1<<20 - 2
)

// InstructionTable looks up the layout of a mnemonic.
type InstructionTable interface {
	Lookup(mnemonic string) (program.Format, error)
}

// Encoder turns one instruction statement into its machine word.
type Encoder struct {
	ISA      InstructionTable
	Resolver Resolver
}

// Encode encodes stmt, whose PC must already be assigned, against a
// complete label table.
func (e Encoder) Encode(stmt instr.Statement, labels LabelTable) (EncodedInst, error) {
	f, err := e.ISA.Lookup(stmt.Mnemonic)
	if err != nil {
		return EncodedInst{}, attach(err, stmt)
	}

	fields, err := e.fields(f, stmt, labels)
	if err != nil {
		return EncodedInst{}, attach(err, stmt)
	}

	word, breakdown := packFields(fields)

	return EncodedInst{
		Stmt:      stmt,
		Format:    f,
		Word:      word,
		Breakdown: breakdown,
	}, nil
}

func (e Encoder) fields(
	f program.Format,
	stmt instr.Statement,
	labels LabelTable,
) ([]Field, error) {
	switch f := f.(type) {
	case program.RType:
		return e.rFields(f, stmt)
	case program.IType:
		return e.iFields(f, stmt, labels)
	case program.IShiftType:
		return e.iShiftFields(f, stmt, labels)
	case program.SType:
		return e.sFields(f, stmt, labels)
	case program.BType:
		return e.bFields(f, stmt, labels)
	case program.UType:
		return e.uFields(f, stmt, labels)
	case program.JType:
		return e.jFields(f, stmt, labels)
	default:
		panic(fmt.Sprintf("unhandled format %T", f))
	}
}

func (e Encoder) rFields(f program.RType, stmt instr.Statement) ([]Field, error) {
	if err := wantOperands(stmt, 3, "rd, rs1, rs2"); err != nil {
		return nil, err
	}

	regs, err := e.registers(stmt.Operands...)
	if err != nil {
		return nil, err
	}

	return []Field{
		{"funct7", 7, f.Funct7},
		{"rs2", 5, regs[2]},
		{"rs1", 5, regs[1]},
		{"funct3", 3, f.Funct3},
		{"rd", 5, regs[0]},
		{"opcode", 7, f.Opcode},
	}, nil
}

func (e Encoder) iFields(
	f program.IType,
	stmt instr.Statement,
	labels LabelTable,
) ([]Field, error) {
	var rdTok, rs1Tok, immTok string

	switch len(stmt.Operands) {
	case 3:
		rdTok, rs1Tok, immTok = stmt.Operands[0], stmt.Operands[1], stmt.Operands[2]
	case 2:
		off, reg, ok := SplitOffset(stmt.Operands[1])
		if !ok {
			return nil, newOperandError(ErrInvalidImmediate,
				"%q, expected offset(register)", stmt.Operands[1])
		}
		rdTok, rs1Tok, immTok = stmt.Operands[0], reg, off
		if immTok == "" {
			immTok = "0"
		}
	default:
		return nil, operandCountError(stmt, "rd, rs1, imm or rd, imm(rs1)")
	}

	regs, err := e.registers(rdTok, rs1Tok)
	if err != nil {
		return nil, err
	}

	imm, err := e.signed12(immTok, labels)
	if err != nil {
		return nil, err
	}

	return []Field{
		{"imm[11:0]", 12, imm},
		{"rs1", 5, regs[1]},
		{"funct3", 3, f.Funct3},
		{"rd", 5, regs[0]},
		{"opcode", 7, f.Opcode},
	}, nil
}

func (e Encoder) iShiftFields(
	f program.IShiftType,
	stmt instr.Statement,
	labels LabelTable,
) ([]Field, error) {
	if err := wantOperands(stmt, 3, "rd, rs1, shamt"); err != nil {
		return nil, err
	}

	regs, err := e.registers(stmt.Operands[0], stmt.Operands[1])
	if err != nil {
		return nil, err
	}

	v, err := e.plainValue(stmt.Operands[2], labels)
	if err != nil {
		return nil, err
	}

	shamt, err := unsignedField("shamt", v, shamtMax)
	if err != nil {
		return nil, err
	}

	return []Field{
		{"funct7", 7, f.Funct7},
		{"shamt", 5, shamt},
		{"rs1", 5, regs[1]},
		{"funct3", 3, f.Funct3},
		{"rd", 5, regs[0]},
		{"opcode", 7, f.Opcode},
	}, nil
}

func (e Encoder) sFields(
	f program.SType,
	stmt instr.Statement,
	labels LabelTable,
) ([]Field, error) {
	if err := wantOperands(stmt, 2, "rs2, imm(rs1)"); err != nil {
		return nil, err
	}

	off, reg, ok := SplitOffset(stmt.Operands[1])
	if !ok {
		return nil, newOperandError(ErrInvalidImmediate,
			"%q, expected offset(register)", stmt.Operands[1])
	}
	if off == "" {
		off = "0"
	}

	regs, err := e.registers(stmt.Operands[0], reg)
	if err != nil {
		return nil, err
	}

	imm, err := e.signed12(off, labels)
	if err != nil {
		return nil, err
	}

	return []Field{
		{"imm[11:5]", 7, imm >> 5},
		{"rs2", 5, regs[0]},
		{"rs1", 5, regs[1]},
		{"funct3", 3, f.Funct3},
		{"imm[4:0]", 5, imm & 0x1F},
		{"opcode", 7, f.Opcode},
	}, nil
}

func (e Encoder) bFields(
	f program.BType,
	stmt instr.Statement,
	labels LabelTable,
) ([]Field, error) {
	if err := wantOperands(stmt, 3, "rs1, rs2, target"); err != nil {
		return nil, err
	}

	regs, err := e.registers(stmt.Operands[0], stmt.Operands[1])
	if err != nil {
		return nil, err
	}

	disp, err := e.displacement(stmt, stmt.Operands[2], labels, branchMin, branchMax)
	if err != nil {
		return nil, err
	}

	return []Field{
		{"imm[12]", 1, disp >> 12 & 0x1},
		{"imm[10:5]", 6, disp >> 5 & 0x3F},
		{"rs2", 5, regs[1]},
		{"rs1", 5, regs[0]},
		{"funct3", 3, f.Funct3},
		{"imm[4:1]", 4, disp >> 1 & 0xF},
		{"imm[11]", 1, disp >> 11 & 0x1},
		{"opcode", 7, f.Opcode},
	}, nil
}

func (e Encoder) uFields(
	f program.UType,
	stmt instr.Statement,
	labels LabelTable,
) ([]Field, error) {
	if err := wantOperands(stmt, 2, "rd, imm"); err != nil {
		return nil, err
	}

	rd, err := e.Resolver.ResolveRegister(stmt.Operands[0])
	if err != nil {
		return nil, err
	}

	v, err := e.plainValue(stmt.Operands[1], labels)
	if err != nil {
		return nil, err
	}

	imm, err := unsignedField("imm[31:12]", v, imm20Max)
	if err != nil {
		return nil, err
	}

	return []Field{
		{"imm[31:12]", 20, imm},
		{"rd", 5, rd},
		{"opcode", 7, f.Opcode},
	}, nil
}

func (e Encoder) jFields(
	f program.JType,
	stmt instr.Statement,
	labels LabelTable,
) ([]Field, error) {
	if err := wantOperands(stmt, 2, "rd, target"); err != nil {
		return nil, err
	}

	rd, err := e.Resolver.ResolveRegister(stmt.Operands[0])
	if err != nil {
		return nil, err
	}

	disp, err := e.displacement(stmt, stmt.Operands[1], labels, jumpMin, jumpMax)
	if err != nil {
		return nil, err
	}

	return []Field{
		{"imm[20]", 1, disp >> 20 & 0x1},
		{"imm[10:1]", 10, disp >> 1 & 0x3FF},
		{"imm[11]", 1, disp >> 11 & 0x1},
		{"imm[19:12]", 8, disp >> 12 & 0xFF},
		{"rd", 5, rd},
		{"opcode", 7, f.Opcode},
	}, nil
}

func (e Encoder) registers(toks ...string) ([]uint32, error) {
	regs := make([]uint32, len(toks))
	for i, tok := range toks {
		r, err := e.Resolver.ResolveRegister(tok)
		if err != nil {
			return nil, err
		}
		regs[i] = r
	}

	return regs, nil
}

// signed12 resolves a 12-bit immediate and truncates it to its two's
// complement pattern.
func (e Encoder) signed12(tok string, labels LabelTable) (uint32, error) {
	v, err := e.plainValue(tok, labels)
	if err != nil {
		return 0, err
	}

	if v < imm12Min || v > imm12Max {
		return 0, newOperandError(ErrImmediateOutOfRange,
			"%d does not fit in 12 bits", v)
	}

	return uint32(v) & 0xFFF, nil
}

// displacement resolves a branch or jump target and returns the byte
// offset from the instruction, as a two's complement bit pattern.
func (e Encoder) displacement(
	stmt instr.Statement,
	tok string,
	labels LabelTable,
	lo, hi int64,
) (uint32, error) {
	target, err := e.plainValue(tok, labels)
	if err != nil {
		return 0, err
	}

	disp := target - int64(stmt.PC)
	if disp%2 != 0 {
		return 0, newOperandError(ErrMisalignedTarget,
			"offset %d to %s is odd", disp, tok)
	}

	if disp < lo || disp > hi {
		return 0, newOperandError(ErrDisplacementOutOfRange,
			"offset %d to %s, allowed %d..%d", disp, tok, lo, hi)
	}

	return uint32(disp), nil
}

// plainValue resolves a token that must not carry a base register.
func (e Encoder) plainValue(tok string, labels LabelTable) (int64, error) {
	if _, _, ok := SplitOffset(tok); ok {
		return 0, newOperandError(ErrInvalidImmediate,
			"%q, offset(register) not allowed here", tok)
	}

	return e.Resolver.ResolveValue(tok, labels)
}

func unsignedField(name string, v int64, limit int64) (uint32, error) {
	if v < 0 {
		return 0, newOperandError(ErrNegativeUnsignedValue, "%s = %d", name, v)
	}

	if v > limit {
		return 0, newOperandError(ErrImmediateOutOfRange,
			"%s = %d, max %d", name, v, limit)
	}

	return uint32(v), nil
}

func wantOperands(stmt instr.Statement, n int, shape string) error {
	if len(stmt.Operands) != n {
		return operandCountError(stmt, shape)
	}

	return nil
}

func operandCountError(stmt instr.Statement, shape string) error {
	return newOperandError(ErrOperandCount,
		"%s takes %s, got %d", stmt.Mnemonic, shape, len(stmt.Operands))
}
