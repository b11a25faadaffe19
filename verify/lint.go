package verify

import (
	"errors"
	"sort"

	"github.com/mariocodesforfun/risc-v-to-machine/core"
	"github.com/mariocodesforfun/risc-v-to-machine/instr"
	"github.com/mariocodesforfun/risc-v-to-machine/program"
)

// RunLint performs static checks on a statement list. It reports labels
// that nothing references or that sit past the last instruction, results
// written to x0, and instructions that follow an unconditional jump
// without a label. Statements the assembler would reject are skipped;
// Assemble reports those. Returns an empty list if no issues are found.
func RunLint(stmts []instr.Statement, enc core.Encoder) []Issue {
	layout, err := core.AssignAddresses(stmts)
	if err != nil {
		return []Issue{layoutIssue(err)}
	}

	var issues []Issue
	issues = append(issues, lintLabels(layout, enc)...)
	issues = append(issues, lintRegisters(layout, enc)...)
	issues = append(issues, lintFlow(layout, enc)...)

	sort.SliceStable(issues, func(i, j int) bool {
		return issues[i].PC < issues[j].PC
	})

	return issues
}

func layoutIssue(err error) Issue {
	issue := Issue{Type: IssueStruct, Message: err.Error()}

	var asmErr *core.AsmError
	if errors.As(err, &asmErr) {
		issue.Line = asmErr.Line
		issue.PC = asmErr.PC
		issue.Details = map[string]interface{}{"error": asmErr.Err.Error()}
	}

	return issue
}

func lintLabels(layout *core.Layout, enc core.Encoder) []Issue {
	var issues []Issue

	// Only immediate and target slots can name a label.
	referenced := make(map[string]bool)
	for _, s := range layout.Insts() {
		f, err := enc.ISA.Lookup(s.Mnemonic)
		if err != nil {
			continue
		}

		_, _, _, imm, _ := splitOperands(s, f)
		if off, _, ok := core.SplitOffset(imm); ok {
			imm = off
		}
		if imm != "" {
			referenced[imm] = true
		}
	}

	for _, s := range layout.Statements {
		if !s.IsLabel() {
			continue
		}

		if !referenced[s.Label] {
			issues = append(issues, newIssue(IssueLabel, s,
				"label %q is never referenced", s.Label))
		}

		if s.PC >= layout.Size {
			issue := newIssue(IssueLabel, s,
				"label %q is bound past the last instruction", s.Label)
			issue.Details = map[string]interface{}{"size": layout.Size}
			issues = append(issues, issue)
		}
	}

	return issues
}

func lintRegisters(layout *core.Layout, enc core.Encoder) []Issue {
	var issues []Issue

	for _, s := range layout.Insts() {
		f, err := enc.ISA.Lookup(s.Mnemonic)
		if err != nil {
			continue
		}

		if !writesZero(s, f, enc.Resolver) || isJump(s, f) || isNop(s, enc.Resolver) {
			continue
		}

		issues = append(issues, newIssue(IssueRegister, s,
			"result of %s is written to x0 (%s) and discarded",
			s.Mnemonic, program.ABINames().Name(0)))
	}

	return issues
}

func lintFlow(layout *core.Layout, enc core.Encoder) []Issue {
	var issues []Issue

	afterJump := false
	for _, s := range layout.Statements {
		if s.IsLabel() {
			afterJump = false
			continue
		}

		if afterJump {
			issues = append(issues, newIssue(IssueFlow, s,
				"unreachable: follows an unconditional jump and has no label"))
		}

		f, err := enc.ISA.Lookup(s.Mnemonic)
		afterJump = err == nil && isJump(s, f) && writesZero(s, f, enc.Resolver)
	}

	return issues
}

func writesZero(s instr.Statement, f program.Format, r core.Resolver) bool {
	rd, _, _, _, ok := splitOperands(s, f)
	if !ok || rd == "" {
		return false
	}

	reg, err := r.ResolveRegister(rd)

	return err == nil && reg == 0
}

func isJump(s instr.Statement, f program.Format) bool {
	return f.Kind() == program.FormatJ || s.Mnemonic == "jalr"
}

// isNop matches the canonical nop, addi x0, x0, 0.
func isNop(s instr.Statement, r core.Resolver) bool {
	if s.Mnemonic != "addi" || len(s.Operands) != 3 || s.Operands[2] != "0" {
		return false
	}

	rd, err1 := r.ResolveRegister(s.Operands[0])
	rs1, err2 := r.ResolveRegister(s.Operands[1])

	return err1 == nil && err2 == nil && rd == 0 && rs1 == 0
}
