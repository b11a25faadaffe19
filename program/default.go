package program

import "sync"

const (
	opLoad   uint32 = 0b0000011
	opImm    uint32 = 0b0010011
	opAUIPC  uint32 = 0b0010111
	opStore  uint32 = 0b0100011
	opReg    uint32 = 0b0110011
	opLUI    uint32 = 0b0110111
	opBranch uint32 = 0b1100011
	opJALR   uint32 = 0b1100111
	opJAL    uint32 = 0b1101111

	funct7Base   uint32 = 0b0000000
	funct7Alt    uint32 = 0b0100000
	funct7MulDiv uint32 = 0b0000001
)

var defaultISA = sync.OnceValue(func() *ISA {
	return NewISA("RV32IM", rv32imInsts())
})

// RV32IM returns the shared RV32I base plus M extension table.
func RV32IM() *ISA {
	return defaultISA()
}

func rv32imInsts() map[string]Format {
	return map[string]Format{
		"add":  RType{Opcode: opReg, Funct3: 0b000, Funct7: funct7Base},
		"sub":  RType{Opcode: opReg, Funct3: 0b000, Funct7: funct7Alt},
		"sll":  RType{Opcode: opReg, Funct3: 0b001, Funct7: funct7Base},
		"slt":  RType{Opcode: opReg, Funct3: 0b010, Funct7: funct7Base},
		"sltu": RType{Opcode: opReg, Funct3: 0b011, Funct7: funct7Base},
		"xor":  RType{Opcode: opReg, Funct3: 0b100, Funct7: funct7Base},
		"srl":  RType{Opcode: opReg, Funct3: 0b101, Funct7: funct7Base},
		"sra":  RType{Opcode: opReg, Funct3: 0b101, Funct7: funct7Alt},
		"or":   RType{Opcode: opReg, Funct3: 0b110, Funct7: funct7Base},
		"and":  RType{Opcode: opReg, Funct3: 0b111, Funct7: funct7Base},

		"mul":    RType{Opcode: opReg, Funct3: 0b000, Funct7: funct7MulDiv},
		"mulh":   RType{Opcode: opReg, Funct3: 0b001, Funct7: funct7MulDiv},
		"mulhsu": RType{Opcode: opReg, Funct3: 0b010, Funct7: funct7MulDiv},
		"mulhu":  RType{Opcode: opReg, Funct3: 0b011, Funct7: funct7MulDiv},
		"div":    RType{Opcode: opReg, Funct3: 0b100, Funct7: funct7MulDiv},
		"divu":   RType{Opcode: opReg, Funct3: 0b101, Funct7: funct7MulDiv},
		"rem":    RType{Opcode: opReg, Funct3: 0b110, Funct7: funct7MulDiv},
		"remu":   RType{Opcode: opReg, Funct3: 0b111, Funct7: funct7MulDiv},

		"addi":  IType{Opcode: opImm, Funct3: 0b000},
		"slti":  IType{Opcode: opImm, Funct3: 0b010},
		"sltiu": IType{Opcode: opImm, Funct3: 0b011},
		"xori":  IType{Opcode: opImm, Funct3: 0b100},
		"ori":   IType{Opcode: opImm, Funct3: 0b110},
		"andi":  IType{Opcode: opImm, Funct3: 0b111},

		"slli": IShiftType{Opcode: opImm, Funct3: 0b001, Funct7: funct7Base},
		"srli": IShiftType{Opcode: opImm, Funct3: 0b101, Funct7: funct7Base},
		"srai": IShiftType{Opcode: opImm, Funct3: 0b101, Funct7: funct7Alt},

		"lb":  IType{Opcode: opLoad, Funct3: 0b000},
		"lh":  IType{Opcode: opLoad, Funct3: 0b001},
		"lw":  IType{Opcode: opLoad, Funct3: 0b010},
		"lbu": IType{Opcode: opLoad, Funct3: 0b100},
		"lhu": IType{Opcode: opLoad, Funct3: 0b101},

		"jalr": IType{Opcode: opJALR, Funct3: 0b000},

		"sb": SType{Opcode: opStore, Funct3: 0b000},
		"sh": SType{Opcode: opStore, Funct3: 0b001},
		"sw": SType{Opcode: opStore, Funct3: 0b010},

		"beq":  BType{Opcode: opBranch, Funct3: 0b000},
		"bne":  BType{Opcode: opBranch, Funct3: 0b001},
		"blt":  BType{Opcode: opBranch, Funct3: 0b100},
		"bge":  BType{Opcode: opBranch, Funct3: 0b101},
		"bltu": BType{Opcode: opBranch, Funct3: 0b110},
		"bgeu": BType{Opcode: opBranch, Funct3: 0b111},

		"lui":   UType{Opcode: opLUI},
		"auipc": UType{Opcode: opAUIPC},

		"jal": JType{Opcode: opJAL},
	}
}
