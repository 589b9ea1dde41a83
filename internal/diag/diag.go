// Package diag implements charmcc's error handling design (spec §7): a
// small taxonomy of fatal errors (lex, parse, semantic, codegen, usage),
// each terminating the process after a single-line diagnostic on stderr. A
// diagnostic with a known source offset is rendered as the offending source
// line followed by a caret under the bad byte.
package diag

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Error is a fatal, source-anchored compiler diagnostic.
type Error struct {
	Message string
	Src     string // Full source buffer, or "" if this diagnostic has no source anchor (e.g. usage errors).
	Offset  int    // Byte offset into Src the diagnostic is anchored at.
	Anchor  bool   // True if Offset/Src should be rendered as a source line + caret.
}

// ---------------------
// ----- Functions -----
// ---------------------

// NewError returns a source-anchored diagnostic at byte offset in src.
func NewError(src string, offset int, message string) *Error {
	return &Error{Message: message, Src: src, Offset: offset, Anchor: true}
}

// NewUsageError returns a diagnostic with no source anchor, for CLI usage
// errors (spec §7's Usage error category).
func NewUsageError(message string) *Error {
	return &Error{Message: message}
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// Print writes the diagnostic to w: the message on its own line, and, when
// the error carries a source anchor, the offending source line followed by
// a caret under the bad byte. Output is colorized unless color.NoColor is
// set; the fatih/color package sets it from whether the process's stdout is
// a terminal, regardless of w.
func (e *Error) Print(w io.Writer) {
	red := color.New(color.FgRed, color.Bold)
	_, _ = red.Fprintln(w, e.Message)
	if !e.Anchor {
		return
	}
	line, col, text := lineAt(e.Src, e.Offset)
	yellow := color.New(color.FgYellow)
	_, _ = fmt.Fprintf(w, "  line %d:\n", line)
	_, _ = fmt.Fprintf(w, "    %s\n", text)
	_, _ = yellow.Fprintf(w, "    %s^\n", strings.Repeat(" ", col))
}

// lineAt returns the 1-indexed line number, 0-indexed column, and full text
// of the line containing byte offset in src.
func lineAt(src string, offset int) (line, col int, text string) {
	line = 1
	lineStart := 0
	for i := 0; i < offset && i < len(src); i++ {
		if src[i] == '\n' {
			line++
			lineStart = i + 1
		}
	}
	lineEnd := len(src)
	if idx := strings.IndexByte(src[lineStart:], '\n'); idx >= 0 {
		lineEnd = lineStart + idx
	}
	col = offset - lineStart
	return line, col, src[lineStart:lineEnd]
}
