package verify

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/mariocodesforfun/risc-v-to-machine/core"
)

const everyFormat = `
start:
    add  x1, x2, x3
    mul  x4, x5, x6
    addi x5, x0, -1
    andi x6, x6, 4095
    slli x7, x7, 31
    srai x8, x8, 3
    lw   x9, -4(x2)
    jalr x1, 0(x9)
    sw   x9, 2047(x2)
    sb   x1, -2048(x2)
back:
    beq  x1, x2, start
    bge  x3, x4, fwd
    lui  x10, 0xFFFFF
    auipc x11, 1
    jal  x1, back
fwd:
    jal  x0, start
`

var _ = Describe("CheckRoundTrip", func() {
	var (
		asm *core.Assembler
		res *core.Result
	)

	BeforeEach(func() {
		asm = core.NewBuilder().Build()

		stmts, err := core.ParseASM(strings.NewReader(everyFormat))
		Expect(err).NotTo(HaveOccurred())

		res, err = asm.Assemble(stmts)
		Expect(err).NotTo(HaveOccurred())
	})

	It("should decode every word back to its operands", func() {
		Expect(CheckRoundTrip(res, asm.Encoder().Resolver)).To(BeEmpty())
	})

	It("should catch a corrupted register field", func() {
		res.Insts[0].Word ^= 1 << 7

		issues := CheckRoundTrip(res, asm.Encoder().Resolver)
		Expect(issues).To(HaveLen(1))
		Expect(issues[0].Type).To(Equal(IssueEncoding))
		Expect(issues[0].Source).To(Equal("add x1, x2, x3"))
		Expect(issues[0].Message).To(HavePrefix("decoded"))
	})

	It("should catch a corrupted opcode", func() {
		res.Insts[10].Word ^= 1 << 2

		issues := CheckRoundTrip(res, asm.Encoder().Resolver)
		Expect(issues).To(HaveLen(1))
		Expect(issues[0].PC).To(Equal(uint32(40)))
		Expect(issues[0].Message).To(HavePrefix("fixed fields"))
	})

	It("should catch a corrupted branch displacement", func() {
		res.Insts[11].Word ^= 1 << 8

		issues := CheckRoundTrip(res, asm.Encoder().Resolver)
		Expect(issues).To(HaveLen(1))
		Expect(issues[0].Source).To(HavePrefix("bge"))
	})
})

var _ = Describe("VerificationReport", func() {
	var asm *core.Assembler

	BeforeEach(func() {
		asm = core.NewBuilder().Build()
	})

	It("should pass a clean program", func() {
		stmts, err := core.ParseASM(strings.NewReader(everyFormat))
		Expect(err).NotTo(HaveOccurred())
		res, err := asm.Assemble(stmts)
		Expect(err).NotTo(HaveOccurred())

		report := GenerateReport(stmts, res, asm.Encoder())
		Expect(report.Passed()).To(BeTrue())
		Expect(report.InstCount).To(Equal(16))
		Expect(report.Size).To(Equal(uint32(64)))
		Expect(report.LintIssues).To(BeEmpty())

		var buf bytes.Buffer
		report.WriteReport(&buf)
		Expect(buf.String()).To(ContainSubstring("STAGE 1: STATIC LINT CHECKS"))
		Expect(buf.String()).To(ContainSubstring("PASSED (0 lint warnings)"))
	})

	It("should list lint findings without failing", func() {
		stmts, err := core.ParseASM(strings.NewReader("unused:\nadd x0, x1, x2\n"))
		Expect(err).NotTo(HaveOccurred())
		res, err := asm.Assemble(stmts)
		Expect(err).NotTo(HaveOccurred())

		report := GenerateReport(stmts, res, asm.Encoder())
		Expect(report.Passed()).To(BeTrue())
		Expect(report.LintIssues).To(HaveLen(2))

		var buf bytes.Buffer
		report.WriteReport(&buf)
		Expect(buf.String()).To(ContainSubstring(`label "unused" is never referenced`))
		Expect(buf.String()).To(ContainSubstring("REGISTER"))
		Expect(buf.String()).To(ContainSubstring("PASSED (2 lint warnings)"))
	})

	It("should fail on round-trip issues", func() {
		stmts, err := core.ParseASM(strings.NewReader("addi x1, x0, 5\n"))
		Expect(err).NotTo(HaveOccurred())
		res, err := asm.Assemble(stmts)
		Expect(err).NotTo(HaveOccurred())
		res.Insts[0].Word ^= 1 << 20

		report := GenerateReport(stmts, res, asm.Encoder())
		Expect(report.Passed()).To(BeFalse())

		var buf bytes.Buffer
		report.WriteReport(&buf)
		Expect(buf.String()).To(ContainSubstring("FAILED: 1 words"))
	})

	It("should lint without a result", func() {
		stmts, err := core.ParseASM(strings.NewReader("beq x0, x0, nowhere\n"))
		Expect(err).NotTo(HaveOccurred())

		report := GenerateReport(stmts, nil, asm.Encoder())
		Expect(report.Passed()).To(BeTrue())
		Expect(report.InstCount).To(BeZero())
	})

	It("should save to a file", func() {
		report := GenerateReport(nil, nil, asm.Encoder())
		path := filepath.Join(GinkgoT().TempDir(), "report.txt")

		Expect(report.SaveReportToFile(path)).To(Succeed())
		data, err := os.ReadFile(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(HavePrefix(strings.Repeat("=", 60)))
	})
})
