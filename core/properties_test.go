package core_test

import (
	"fmt"
	"strconv"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/mariocodesforfun/risc-v-to-machine/core"
	"github.com/mariocodesforfun/risc-v-to-machine/instr"
	"github.com/mariocodesforfun/risc-v-to-machine/program"
)

// sampleOperands returns operands that are valid for format f at pc 0.
func sampleOperands(f program.Format) []string {
	switch f.(type) {
	case program.RType:
		return []string{"x1", "x2", "x3"}
	case program.IType:
		return []string{"x1", "x2", "5"}
	case program.IShiftType:
		return []string{"x1", "x2", "3"}
	case program.SType:
		return []string{"x1", "4(x2)"}
	case program.BType:
		return []string{"x1", "x2", "8"}
	case program.UType:
		return []string{"x1", "5"}
	case program.JType:
		return []string{"x1", "8"}
	default:
		panic(fmt.Sprintf("unhandled format %T", f))
	}
}

func expectedFixed(f program.Format) core.FixedFields {
	switch f := f.(type) {
	case program.RType:
		return core.FixedFields{Opcode: f.Opcode, Funct3: f.Funct3, Funct7: f.Funct7}
	case program.IType:
		return core.FixedFields{Opcode: f.Opcode, Funct3: f.Funct3}
	case program.IShiftType:
		return core.FixedFields{Opcode: f.Opcode, Funct3: f.Funct3, Funct7: f.Funct7}
	case program.SType:
		return core.FixedFields{Opcode: f.Opcode, Funct3: f.Funct3}
	case program.BType:
		return core.FixedFields{Opcode: f.Opcode, Funct3: f.Funct3}
	case program.UType:
		return core.FixedFields{Opcode: f.Opcode}
	case program.JType:
		return core.FixedFields{Opcode: f.Opcode}
	default:
		panic(fmt.Sprintf("unhandled format %T", f))
	}
}

func itoa(v int) string {
	return strconv.Itoa(v)
}

var _ = Describe("Encoding properties", func() {
	var (
		isa *program.ISA
		enc core.Encoder
	)

	BeforeEach(func() {
		isa = program.RV32IM()
		enc = core.NewBuilder().Build().Encoder()
	})

	encodeAt := func(pc uint32, mnemonic string, operands ...string) core.EncodedInst {
		stmt := instr.NewInst(mnemonic, operands...)
		stmt.PC = pc
		inst, err := enc.Encode(stmt, core.LabelTable{})
		Expect(err).NotTo(HaveOccurred(), stmt.String())
		return inst
	}

	It("should reproduce the table's fixed fields for every mnemonic", func() {
		for _, name := range isa.Mnemonics() {
			f, err := isa.Lookup(name)
			Expect(err).NotTo(HaveOccurred())

			inst := encodeAt(0, name, sampleOperands(f)...)
			Expect(inst.Format).To(Equal(f))
			Expect(core.ExtractFixed(inst.Word, f)).To(Equal(expectedFixed(f)), name)
			Expect(inst.Word & 0x7F).To(Equal(f.OpcodeBits()), name)
		}
	})

	It("should always produce 32-bit breakdowns", func() {
		for _, name := range isa.Mnemonics() {
			f, _ := isa.Lookup(name)
			inst := encodeAt(0, name, sampleOperands(f)...)

			width := 0
			for _, field := range inst.Breakdown.Fields {
				width += field.Width
			}
			Expect(width).To(Equal(32), name)
			Expect(inst.Breakdown.Binary).To(HaveLen(32))
			Expect(inst.Breakdown.Decimal).To(Equal(inst.Word))
		}
	})

	Context("round trip", func() {
		It("should recover R-type registers", func() {
			for rd := 0; rd < 32; rd += 5 {
				for rs1 := 0; rs1 < 32; rs1 += 3 {
					for rs2 := 0; rs2 < 32; rs2 += 7 {
						inst := encodeAt(0, "xor", "x"+itoa(rd), "x"+itoa(rs1), "x"+itoa(rs2))
						Expect(core.Decode(inst.Word, inst.Format)).To(Equal(core.Operands{
							Rd: uint32(rd), Rs1: uint32(rs1), Rs2: uint32(rs2),
						}))
					}
				}
			}
		})

		It("should recover I-type immediates", func() {
			for imm := -2048; imm <= 2047; imm += 13 {
				inst := encodeAt(0, "addi", "x7", "x9", itoa(imm))
				Expect(core.Decode(inst.Word, inst.Format)).To(Equal(core.Operands{
					Rd: 7, Rs1: 9, Imm: int32(imm),
				}))

				load := encodeAt(0, "lh", "x3", itoa(imm)+"(x4)")
				Expect(core.Decode(load.Word, load.Format)).To(Equal(core.Operands{
					Rd: 3, Rs1: 4, Imm: int32(imm),
				}))
			}
		})

		It("should recover shift amounts", func() {
			for shamt := 0; shamt < 32; shamt++ {
				inst := encodeAt(0, "srai", "x1", "x2", itoa(shamt))
				Expect(core.Decode(inst.Word, inst.Format)).To(Equal(core.Operands{
					Rd: 1, Rs1: 2, Imm: int32(shamt),
				}))
			}
		})

		It("should recover S-type offsets", func() {
			for imm := -2048; imm <= 2047; imm += 11 {
				inst := encodeAt(0, "sh", "x12", itoa(imm)+"(x13)")
				Expect(core.Decode(inst.Word, inst.Format)).To(Equal(core.Operands{
					Rs1: 13, Rs2: 12, Imm: int32(imm),
				}))
			}
		})

		It("should recover U-type immediates", func() {
			for imm := 0; imm <= 0xFFFFF; imm += 0x1111 {
				inst := encodeAt(0, "lui", "x31", itoa(imm))
				Expect(core.Decode(inst.Word, inst.Format)).To(Equal(core.Operands{
					Rd: 31, Imm: int32(imm),
				}))
			}
		})
	})

	It("should give v and v-4096 the same 12-bit pattern", func() {
		for v := 2048; v <= 4095; v += 7 {
			a := encodeAt(0, "xori", "x1", "x2", itoa(v))
			b := encodeAt(0, "xori", "x1", "x2", itoa(v-4096))
			Expect(a.Word).To(Equal(b.Word), itoa(v))
		}
	})

	Context("displacements", func() {
		pcs := []uint32{0, 4, 128, 2048, 40000}

		It("should decode branch offsets as target minus pc", func() {
			for _, pc := range pcs {
				for disp := -4096; disp <= 4094; disp += 34 {
					target := int64(pc) + int64(disp)
					if target < 0 {
						continue
					}
					inst := encodeAt(pc, "bltu", "x5", "x6", strconv.FormatInt(target, 10))
					ops := core.Decode(inst.Word, inst.Format)
					Expect(ops.Imm).To(Equal(int32(disp)))
					Expect(ops.Rs1).To(Equal(uint32(5)))
					Expect(ops.Rs2).To(Equal(uint32(6)))
				}
			}
		})

		It("should decode jump offsets as target minus pc", func() {
			for _, pc := range pcs {
				for disp := -(1 << 20); disp <= 1<<20-2; disp += 4098 {
					target := int64(pc) + int64(disp)
					if target < 0 {
						continue
					}
					inst := encodeAt(pc, "jal", "x1", strconv.FormatInt(target, 10))
					ops := core.Decode(inst.Word, inst.Format)
					Expect(ops.Imm).To(Equal(int32(disp)))
					Expect(ops.Rd).To(Equal(uint32(1)))
				}
			}
		})

		It("should resolve label targets the same way as addresses", func() {
			labels := core.LabelTable{"far": 3000}
			stmt := instr.NewInst("bge", "x1", "x2", "far")
			stmt.PC = 100
			inst, err := enc.Encode(stmt, labels)
			Expect(err).NotTo(HaveOccurred())
			Expect(core.Decode(inst.Word, inst.Format).Imm).To(Equal(int32(2900)))
		})
	})
})
