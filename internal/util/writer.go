// Package util provides the ambient pieces every compiler stage needs:
// CLI options, an assembly-formatting output buffer and a monotonic label
// generator. It mirrors the layout of the teacher repository's own util
// package (Options in args.go, Writer in io.go, the label generator in
// label.go) but drops the teacher's channel-based multi-writer fan-in: spec
// §5 mandates charmcc run strictly single-threaded, so Writer here is a
// plain buffering convenience, not a concurrency primitive.
package util

import (
	"fmt"
	"strings"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Writer accumulates the assembly listing for one compilation in a
// strings.Builder and exposes instruction-shaped helpers so call sites in
// codegen read as assembly rather than as Sprintf calls.
type Writer struct {
	sb strings.Builder
}

// ---------------------
// ----- Functions -----
// ---------------------

// Write appends a formatted line verbatim (no automatic tab/newline), for
// directives and blank-line spacing.
func (w *Writer) Write(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(&w.sb, format, args...)
}

// WriteString appends a plain string verbatim.
func (w *Writer) WriteString(s string) {
	w.sb.WriteString(s)
}

// Ins1 writes a one-operand instruction: "\top\toperand\n".
func (w *Writer) Ins1(op, operand string) {
	w.Write("\t%s\t%s\n", op, operand)
}

// Ins2 writes a two-operand instruction: "\top\tdst, src\n".
func (w *Writer) Ins2(op, dst, src string) {
	w.Write("\t%s\t%s, %s\n", op, dst, src)
}

// Ins2imm writes a two-operand-plus-immediate instruction:
// "\top\tdst, src, #imm\n".
func (w *Writer) Ins2imm(op, dst, src string, imm int) {
	w.Write("\t%s\t%s, %s, #%d\n", op, dst, src, imm)
}

// Ins3 writes a three-operand instruction: "\top\tdst, src1, src2\n".
func (w *Writer) Ins3(op, dst, src1, src2 string) {
	w.Write("\t%s\t%s, %s, %s\n", op, dst, src1, src2)
}

// LoadStore writes a load or store instruction addressing an offset from a
// base register, e.g. "\tldr\tr0, [fp, #-8]\n".
func (w *Writer) LoadStore(op, reg string, base string, offset int) {
	w.Write("\t%s\t%s, [%s, #%d]\n", op, reg, base, offset)
}

// Label writes a bare label line: "name:\n".
func (w *Writer) Label(name string) {
	w.Write("%s:\n", name)
}

// String returns everything written so far.
func (w *Writer) String() string {
	return w.sb.String()
}
