package core

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mariocodesforfun/risc-v-to-machine/instr"
	"github.com/mariocodesforfun/risc-v-to-machine/program"
)

// Errors reported by the assembler. Every error returned from an assembly
// run wraps exactly one of these and can be matched with errors.Is.
var (
	ErrUnknownMnemonic        = program.ErrUnknownMnemonic
	ErrInvalidRegister        = errors.New("invalid register")
	ErrInvalidImmediate       = errors.New("invalid immediate")
	ErrUndefinedLabel         = errors.New("undefined label")
	ErrDuplicateLabel         = errors.New("duplicate label")
	ErrNegativeUnsignedValue  = errors.New("negative value in unsigned field")
	ErrImmediateOutOfRange    = errors.New("immediate out of range")
	ErrDisplacementOutOfRange = errors.New("displacement out of range")
	ErrMisalignedTarget       = errors.New("misaligned target")
	ErrOperandCount           = errors.New("wrong number of operands")
)

// AsmError ties an error to the statement that caused it.
type AsmError struct {
	Err    error
	Line   int
	PC     uint32
	HasPC  bool
	Source string
	Detail string
}

func (e *AsmError) Error() string {
	var b strings.Builder

	switch {
	case e.Line > 0 && e.HasPC:
		fmt.Fprintf(&b, "line %d (pc 0x%x): ", e.Line, e.PC)
	case e.Line > 0:
		fmt.Fprintf(&b, "line %d: ", e.Line)
	case e.HasPC:
		fmt.Fprintf(&b, "pc 0x%x: ", e.PC)
	}

	if e.Source != "" {
		b.WriteString(e.Source)
		b.WriteString(": ")
	}

	b.WriteString(e.Err.Error())
	if e.Detail != "" {
		b.WriteString(" ")
		b.WriteString(e.Detail)
	}

	return b.String()
}

func (e *AsmError) Unwrap() error {
	return e.Err
}

// operandError is produced below the statement level and gets the
// statement position attached by attach.
type operandError struct {
	err    error
	detail string
}

func (e *operandError) Error() string {
	if e.detail == "" {
		return e.err.Error()
	}

	return e.err.Error() + " " + e.detail
}

func (e *operandError) Unwrap() error {
	return e.err
}

func newOperandError(err error, format string, args ...any) error {
	return &operandError{err: err, detail: fmt.Sprintf(format, args...)}
}

// attach wraps err with the position of stmt. Errors that already carry
// a position are returned unchanged.
func attach(err error, stmt instr.Statement) error {
	var asmErr *AsmError
	if errors.As(err, &asmErr) {
		return err
	}

	e := &AsmError{
		Err:   err,
		Line:  stmt.Line,
		PC:    stmt.PC,
		HasPC: true,
	}
	if stmt.IsInst() {
		e.Source = stmt.String()
	}

	var opErr *operandError
	if errors.As(err, &opErr) {
		e.Err = opErr.err
		e.Detail = opErr.detail
	}

	return e
}
