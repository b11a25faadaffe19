package core_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/mariocodesforfun/risc-v-to-machine/core"
	"github.com/mariocodesforfun/risc-v-to-machine/instr"
)

var _ = Describe("AssignAddresses", func() {
	It("should give labels the address of what follows them", func() {
		stmts := []instr.Statement{
			instr.NewLabel("start"),
			instr.NewInst("addi", "x1", "x0", "1"),
			instr.NewInst("addi", "x2", "x0", "2"),
			instr.NewLabel("mid"),
			instr.NewLabel("alias"),
			instr.NewInst("add", "x3", "x1", "x2"),
			instr.NewLabel("end"),
		}

		layout, err := core.AssignAddresses(stmts)
		Expect(err).NotTo(HaveOccurred())
		Expect(layout.Labels).To(Equal(core.LabelTable{
			"start": 0, "mid": 8, "alias": 8, "end": 12,
		}))
		Expect(layout.Size).To(Equal(uint32(12)))

		insts := layout.Insts()
		Expect(insts).To(HaveLen(3))
		Expect(insts[0].PC).To(Equal(uint32(0)))
		Expect(insts[1].PC).To(Equal(uint32(4)))
		Expect(insts[2].PC).To(Equal(uint32(8)))
	})

	It("should not touch the input statements", func() {
		stmts := []instr.Statement{
			instr.NewInst("addi", "x1", "x0", "1"),
			instr.NewInst("addi", "x1", "x0", "1"),
		}

		_, err := core.AssignAddresses(stmts)
		Expect(err).NotTo(HaveOccurred())
		Expect(stmts[1].PC).To(Equal(uint32(0)))
	})

	It("should handle an empty program", func() {
		layout, err := core.AssignAddresses(nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(layout.Size).To(BeZero())
		Expect(layout.Labels).To(BeEmpty())
	})

	It("should place every label at four times the preceding instruction count", func() {
		var stmts []instr.Statement
		expected := core.LabelTable{}
		count := 0
		for i := 0; i < 40; i++ {
			if i%3 == 0 {
				name := "l" + string(rune('a'+i%26)) + string(rune('a'+i/26))
				stmts = append(stmts, instr.NewLabel(name))
				expected[name] = uint32(count * 4)
			}
			if i%5 != 0 {
				stmts = append(stmts, instr.NewInst("add", "x1", "x1", "x1"))
				count++
			}
		}

		layout, err := core.AssignAddresses(stmts)
		Expect(err).NotTo(HaveOccurred())
		Expect(layout.Labels).To(Equal(expected))
		Expect(layout.Size).To(Equal(uint32(count * 4)))
	})

	It("should reject duplicate labels with their position", func() {
		stmts := []instr.Statement{
			instr.NewLabel("loop").AtLine(1),
			instr.NewInst("addi", "x1", "x1", "1").AtLine(2),
			instr.NewLabel("loop").AtLine(3),
		}

		_, err := core.AssignAddresses(stmts)
		Expect(err).To(MatchError(core.ErrDuplicateLabel))

		var asmErr *core.AsmError
		Expect(errors.As(err, &asmErr)).To(BeTrue())
		Expect(asmErr.Line).To(Equal(3))
		Expect(asmErr.PC).To(Equal(uint32(4)))
		Expect(err.Error()).To(Equal(`line 3 (pc 0x4): duplicate label "loop"`))
	})

	It("should treat labels as case-sensitive", func() {
		layout, err := core.AssignAddresses([]instr.Statement{
			instr.NewLabel("Loop"),
			instr.NewInst("add", "x1", "x1", "x1"),
			instr.NewLabel("loop"),
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(layout.Labels).To(HaveLen(2))
	})
})
