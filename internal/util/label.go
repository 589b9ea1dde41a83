package util

import "fmt"

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Labeler generates the internal control-flow labels codegen needs (spec
// §4.4): one monotonic counter per compilation run, shared across every
// function so that nested constructs across the whole program never
// collide. The teacher's label.go makes this a goroutine behind a channel;
// charmcc keeps a plain counter since spec §5 mandates single-threaded
// execution.
type Labeler struct {
	n int
}

// ---------------------
// ----- Functions -----
// ---------------------

// NewLabeler returns a fresh, zeroed label counter for one compilation.
func NewLabeler() *Labeler {
	return &Labeler{}
}

// Next returns the next unused numeric suffix, namespaced by the caller
// into a label like "<fn>.if.else.<N>" (spec §4.4).
func (l *Labeler) Next() int {
	n := l.n
	l.n++
	return n
}

// FuncLabel formats one of the function-scoped internal labels spec §4.4
// and §6 require: "<fn>.if.else.<N>", "<fn>.loop.begin.<N>", etc.
func FuncLabel(fn, kind string, n int) string {
	return fmt.Sprintf("%s.%s.%d", fn, kind, n)
}

// ReturnLabel formats a function's unique return label, "<fn>.return".
func ReturnLabel(fn string) string {
	return fn + ".return"
}
