package verify

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/mariocodesforfun/risc-v-to-machine/core"
	"github.com/mariocodesforfun/risc-v-to-machine/instr"
)

// VerificationReport represents a complete verification report
type VerificationReport struct {
	StatementCount  int
	InstCount       int
	Size            uint32
	LintIssues      []Issue
	RoundTripIssues []Issue
}

// GenerateReport runs lint over stmts and, when res is not nil, the
// round-trip check over the words assembled from them.
func GenerateReport(stmts []instr.Statement, res *core.Result, enc core.Encoder) *VerificationReport {
	report := &VerificationReport{
		StatementCount: len(stmts),
		LintIssues:     RunLint(stmts, enc),
	}

	if res != nil {
		report.InstCount = len(res.Insts)
		report.Size = res.Layout.Size
		report.RoundTripIssues = CheckRoundTrip(res, enc.Resolver)
	}

	return report
}

// Passed reports whether the machine code decoded back cleanly. Lint
// findings are advisory and do not fail a report.
func (r *VerificationReport) Passed() bool {
	return len(r.RoundTripIssues) == 0
}

// WriteReport writes a formatted report to a writer
func (r *VerificationReport) WriteReport(w io.Writer) {
	separator := strings.Repeat("=", 60)

	fmt.Fprintln(w, separator)
	fmt.Fprintln(w, "RV32IM PROGRAM VERIFICATION REPORT")
	fmt.Fprintln(w, separator)
	fmt.Fprintf(w, "Statements: %d, instructions: %d, size: %d bytes\n",
		r.StatementCount, r.InstCount, r.Size)

	writeStage(w, "STAGE 1: STATIC LINT CHECKS", r.LintIssues)
	writeStage(w, "STAGE 2: ROUND-TRIP DECODE", r.RoundTripIssues)

	fmt.Fprintln(w, separator)
	if r.Passed() {
		fmt.Fprintf(w, "PASSED (%d lint warnings)\n", len(r.LintIssues))
	} else {
		fmt.Fprintf(w, "FAILED: %d words do not decode to their operands\n",
			len(r.RoundTripIssues))
	}
}

func writeStage(w io.Writer, title string, issues []Issue) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, title)

	if len(issues) == 0 {
		fmt.Fprintln(w, "No issues found")
		fmt.Fprintln(w)
		return
	}

	t := table.NewWriter()
	t.AppendHeader(table.Row{"Type", "Line", "PC", "Source", "Message"})
	for _, issue := range issues {
		t.AppendRow(table.Row{
			issue.Type,
			issue.Line,
			fmt.Sprintf("0x%04x", issue.PC),
			issue.Source,
			issue.Message,
		})
	}
	t.SetStyle(table.StyleLight)

	fmt.Fprintln(w, t.Render())
	fmt.Fprintln(w)
}

// SaveReportToFile saves the report to a file
func (r *VerificationReport) SaveReportToFile(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer file.Close()

	r.WriteReport(file)
	return nil
}
