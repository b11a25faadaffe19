package verify

import (
	"fmt"

	"github.com/mariocodesforfun/risc-v-to-machine/core"
	"github.com/mariocodesforfun/risc-v-to-machine/program"
)

// CheckRoundTrip decodes every word of res and compares the fixed fields
// with the instruction table and the operand fields with the operands
// resolved again from source. r must be the resolver the program was
// assembled with.
func CheckRoundTrip(res *core.Result, r core.Resolver) []Issue {
	var issues []Issue

	for _, inst := range res.Insts {
		if got, want := core.ExtractFixed(inst.Word, inst.Format), fixedOf(inst.Format); got != want {
			issue := newIssue(IssueEncoding, inst.Stmt,
				"fixed fields %+v, want %+v", got, want)
			issue.Details = map[string]interface{}{"word": inst.Breakdown.Hex}
			issues = append(issues, issue)
		}

		want, err := expectedOperands(inst, r, res.Layout.Labels)
		if err != nil {
			issues = append(issues, newIssue(IssueEncoding, inst.Stmt,
				"operands do not resolve: %v", err))
			continue
		}

		if got := core.Decode(inst.Word, inst.Format); got != want {
			issue := newIssue(IssueEncoding, inst.Stmt,
				"decoded %+v, want %+v", got, want)
			issue.Details = map[string]interface{}{"word": inst.Breakdown.Hex}
			issues = append(issues, issue)
		}
	}

	return issues
}

func fixedOf(f program.Format) core.FixedFields {
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

func expectedOperands(
	inst core.EncodedInst,
	r core.Resolver,
	labels core.LabelTable,
) (core.Operands, error) {
	rdTok, rs1Tok, rs2Tok, immTok, ok := splitOperands(inst.Stmt, inst.Format)
	if !ok {
		return core.Operands{}, fmt.Errorf("operand shape does not match format %s",
			inst.Format.Kind().Name())
	}

	var (
		want core.Operands
		err  error
	)

	reg := func(tok string, dst *uint32) {
		if tok == "" || err != nil {
			return
		}
		*dst, err = r.ResolveRegister(tok)
	}
	reg(rdTok, &want.Rd)
	reg(rs1Tok, &want.Rs1)
	reg(rs2Tok, &want.Rs2)
	if err != nil {
		return core.Operands{}, err
	}

	if immTok == "" {
		return want, nil
	}

	v, err := r.ResolveValue(immTok, labels)
	if err != nil {
		return core.Operands{}, err
	}

	switch inst.Format.Kind() {
	case program.FormatI, program.FormatS:
		want.Imm = int32(uint32(v)&0xFFF<<20) >> 20
	case program.FormatB, program.FormatJ:
		want.Imm = int32(v - int64(inst.Stmt.PC))
	default:
		want.Imm = int32(v)
	}

	return want, nil
}
