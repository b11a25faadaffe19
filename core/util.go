package core

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// LevelTrace sits below debug and reports every label binding and
// encoded word.
const LevelTrace slog.Level = slog.LevelDebug - 4

func Trace(msg string, args ...any) {
	slog.Log(context.Background(), LevelTrace, msg, args...)
}

var (
	colorPC     = text.Colors{text.FgCyan}
	colorFixed  = text.Colors{text.FgGreen}
	colorReg    = text.Colors{text.FgBlue, text.Bold}
	colorImm    = text.Colors{text.FgMagenta}
	colorHex    = text.Colors{text.FgYellow, text.Bold}
	colorHeader = text.Colors{text.FgHiWhite, text.Bold}
)

// NewBreakdownTable creates the table PrintBreakdown and the table sink
// fill in.
func NewBreakdownTable(title string, color bool) table.Writer {
	t := table.NewWriter()
	if title != "" {
		t.SetTitle(title)
	}

	t.AppendHeader(table.Row{"PC", "Source", "Format", "Fields", "Binary", "Hex", "Decimal"})

	style := table.StyleLight
	if color {
		style.Color.Header = colorHeader
	}
	t.SetStyle(style)

	return t
}

// AppendBreakdown adds one instruction row.
func AppendBreakdown(t table.Writer, inst EncodedInst, color bool) {
	paint := func(c text.Colors, s string) string {
		if !color {
			return s
		}
		return c.Sprint(s)
	}

	fields := make([]string, 0, len(inst.Breakdown.Fields))
	for _, f := range inst.Breakdown.Fields {
		fields = append(fields, fmt.Sprintf("%-10s %s", f.Name, paint(fieldColor(f.Name), f.Bits())))
	}

	t.AppendRow(table.Row{
		paint(colorPC, fmt.Sprintf("0x%04x", inst.Stmt.PC)),
		inst.Stmt.String(),
		inst.Format.Kind().Name(),
		strings.Join(fields, "\n"),
		inst.Breakdown.Binary,
		paint(colorHex, inst.Breakdown.Hex),
		inst.Breakdown.Decimal,
	})
	t.AppendSeparator()
}

// PrintBreakdown writes a field-by-field table of insts to w.
func PrintBreakdown(w io.Writer, insts []EncodedInst, color bool) {
	t := NewBreakdownTable("Machine code", color)
	for _, inst := range insts {
		AppendBreakdown(t, inst, color)
	}

	fmt.Fprintln(w, t.Render())
}

func fieldColor(name string) text.Colors {
	switch {
	case name == "opcode" || strings.HasPrefix(name, "funct"):
		return colorFixed
	case name == "rd" || name == "rs1" || name == "rs2":
		return colorReg
	default:
		return colorImm
	}
}
