// Package verify statically checks assembly programs and the machine
// code produced for them.
package verify

import (
	"fmt"
	"strings"

	"github.com/mariocodesforfun/risc-v-to-machine/core"
	"github.com/mariocodesforfun/risc-v-to-machine/instr"
	"github.com/mariocodesforfun/risc-v-to-machine/program"
)

// IssueType classifies an Issue.
type IssueType string

const (
	IssueStruct   IssueType = "STRUCT"   // Program layout could not be built
	IssueLabel    IssueType = "LABEL"    // Label defined but never referenced, or bound past the end
	IssueRegister IssueType = "REGISTER" // Result written to x0 and discarded
	IssueFlow     IssueType = "FLOW"     // Instruction cannot be reached
	IssueEncoding IssueType = "ENCODING" // Machine word does not decode back to its operands
)

// Issue represents a single finding.
type Issue struct {
	Type    IssueType
	Line    int    // Source line (0 if unknown)
	PC      uint32 // Address of the statement
	Source  string // Statement text
	Message string
	Details map[string]interface{}
}

func (i Issue) String() string {
	var b strings.Builder

	fmt.Fprintf(&b, "[%s] ", i.Type)
	if i.Line > 0 {
		fmt.Fprintf(&b, "line %d ", i.Line)
	}
	fmt.Fprintf(&b, "pc 0x%x: %s", i.PC, i.Message)

	return b.String()
}

func newIssue(t IssueType, stmt instr.Statement, format string, args ...interface{}) Issue {
	issue := Issue{
		Type:    t,
		Line:    stmt.Line,
		PC:      stmt.PC,
		Message: fmt.Sprintf(format, args...),
	}
	if stmt.IsInst() {
		issue.Source = stmt.String()
	}

	return issue
}

// splitOperands sorts the operand tokens of stmt into register and
// immediate slots for format f. Slots the format lacks are empty; ok is
// false when the operand shape does not fit the format.
func splitOperands(stmt instr.Statement, f program.Format) (rd, rs1, rs2, imm string, ok bool) {
	ops := stmt.Operands
	at := func(i int) string {
		if i < len(ops) {
			return ops[i]
		}
		return ""
	}

	switch f.Kind() {
	case program.FormatR:
		return at(0), at(1), at(2), "", len(ops) == 3
	case program.FormatI:
		if len(ops) == 2 {
			off, reg, split := core.SplitOffset(ops[1])
			if off == "" {
				off = "0"
			}
			return ops[0], reg, "", off, split
		}
		return at(0), at(1), "", at(2), len(ops) == 3
	case program.FormatIShift:
		return at(0), at(1), "", at(2), len(ops) == 3
	case program.FormatS:
		off, reg, split := core.SplitOffset(at(1))
		if off == "" {
			off = "0"
		}
		return "", reg, at(0), off, split && len(ops) == 2
	case program.FormatB:
		return "", at(0), at(1), at(2), len(ops) == 3
	case program.FormatU, program.FormatJ:
		return at(0), "", "", at(1), len(ops) == 2
	}

	return "", "", "", "", false
}
