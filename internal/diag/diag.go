// Package diag renders ferrors.Report values as coloured, span-highlighted
// terminal diagnostics for the CLI — a caret line under the offending
// column, in the same palette convention the rest of the toolchain uses.
package diag

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/BenSimner/starling-tool/internal/ast"
	"github.com/BenSimner/starling-tool/internal/ferrors"
)

var (
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

// Print writes one formatted report to w. source is the original program
// text the report's span refers to; pass "" to skip snippet rendering
// (e.g. when source isn't available, such as over JSON-only callers).
func Print(w io.Writer, rep *ferrors.Report, source string) {
	fmt.Fprintf(w, "%s %s [%s]: %s\n", red("error"), bold(rep.Code), cyan(string(rep.Stage)), rep.Message)
	if rep.Span == nil || source == "" {
		return
	}
	fmt.Fprintf(w, "  %s %s\n", cyan("-->"), rep.Span.Start.String())
	snippet(w, source, *rep.Span)
}

// PrintAll writes every report in errs, in order.
func PrintAll(w io.Writer, errs []*ferrors.Report, source string) {
	for _, rep := range errs {
		Print(w, rep, source)
	}
}

// snippet prints the source line the span starts on, followed by a caret
// line under the columns the span covers.
func snippet(w io.Writer, source string, span ast.Span) {
	lines := strings.Split(source, "\n")
	lineNo := span.Start.Line
	if lineNo < 1 || lineNo > len(lines) {
		return
	}
	line := lines[lineNo-1]
	fmt.Fprintf(w, "  %s | %s\n", pad(lineNo), line)

	start := span.Start.Column
	end := span.End.Column
	if end <= start {
		end = start + 1
	}
	if start < 1 {
		start = 1
	}
	if end > len(line)+1 {
		end = len(line) + 1
	}
	caretLine := strings.Repeat(" ", start-1) + strings.Repeat("^", end-start)
	fmt.Fprintf(w, "  %s | %s\n", strings.Repeat(" ", len(pad(lineNo))), yellow(caretLine))
}

func pad(lineNo int) string {
	return fmt.Sprintf("%d", lineNo)
}
