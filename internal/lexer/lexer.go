// Package lexer scans charmcc source text into the token.Token stream
// contract described in spec §6. The scanner is written in the Pike-style
// state-function form used by the teacher's frontend/lexer.go
// ("This lexer is based on, and copied from, Rob Pike's excellent talk on
// Go scanners"), but runs synchronously rather than on a goroutine: spec §5
// mandates the whole compiler be strictly single-threaded, so there is no
// concurrent producer/consumer pair here, only the state-function shape.
package lexer

import (
	"fmt"

	"charmcc/internal/diag"
	"charmcc/internal/token"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// stateFunc defines the lexer's current scanning state. A state returns the
// next state to run, or nil to stop.
type stateFunc func(*lexer) stateFunc

// lexer traverses a source buffer byte by byte and appends token.Tokens to
// an output list.
type lexer struct {
	src   string
	start int // Start offset of the token currently being scanned.
	pos   int // Current scan position.
	head  *token.Token
	tail  *token.Token
	err   *diag.Error
}

// ---------------------
// ----- Functions -----
// ---------------------

// Lex scans src in full and returns the head of its token.Token list. The
// list is always terminated by a token of kind token.EOF. An error is
// returned for the first unrecognized byte encountered (spec §7 Lex error).
func Lex(src string) (*token.Token, error) {
	l := &lexer{src: src}
	for state := stateGlobal; state != nil; {
		state = state(l)
	}
	if l.err != nil {
		return nil, l.err
	}
	return l.head, nil
}

// emit appends a token of kind k spanning [l.start, l.pos) to the output
// list and advances l.start past it.
func (l *lexer) emit(k token.Kind) {
	l.emitVal(k, l.src[l.start:l.pos], 0)
}

// emitVal appends a token of kind k with an explicit string/int payload.
func (l *lexer) emitVal(k token.Kind, s string, val int) {
	t := &token.Token{
		Kind:   k,
		Str:    s,
		Val:    val,
		Offset: l.start,
		Len:    l.pos - l.start,
	}
	if l.head == nil {
		l.head = t
		l.tail = t
	} else {
		l.tail.Next = t
		l.tail = t
	}
	l.start = l.pos
}

// errorf records a lex error anchored at the current scan position and
// halts the state machine.
func (l *lexer) errorf(format string, args ...interface{}) stateFunc {
	l.err = diag.NewError(l.src, l.pos, fmt.Sprintf(format, args...))
	return nil
}

// peek returns the byte at l.pos without consuming it, or 0 at end of input.
func (l *lexer) peek() byte {
	if l.pos >= len(l.src) {
		return 0
	}
	return l.src[l.pos]
}

// peekAt returns the byte n bytes past l.pos without consuming anything.
func (l *lexer) peekAt(n int) byte {
	if l.pos+n >= len(l.src) {
		return 0
	}
	return l.src[l.pos+n]
}

// ----------------------------
// ----- Helper functions -----
// ----------------------------

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

// -----------------------
// ----- lexer states -----
// -----------------------

// stateGlobal is the default scanning state. It dispatches to a dedicated
// state on encountering the first character of a word or number, and emits
// single- and multi-character punctuators inline.
func stateGlobal(l *lexer) stateFunc {
	for {
		if l.pos >= len(l.src) {
			l.emit(token.EOF)
			return nil
		}
		c := l.src[l.pos]
		switch {
		case isSpace(c):
			l.pos++
			l.start = l.pos
		case isAlpha(c):
			return stateWord
		case isDigit(c):
			return stateNumber
		case c == '=' && l.peekAt(1) == '=':
			l.pos += 2
			l.emit(token.RESERVED)
		case c == '!' && l.peekAt(1) == '=':
			l.pos += 2
			l.emit(token.RESERVED)
		case c == '<' && l.peekAt(1) == '=':
			l.pos += 2
			l.emit(token.RESERVED)
		case c == '>' && l.peekAt(1) == '=':
			l.pos += 2
			l.emit(token.RESERVED)
		case isPunct(c):
			l.pos++
			l.emit(token.RESERVED)
		default:
			return l.errorf("unrecognized byte %q", c)
		}
	}
}

// isPunct reports whether c is one of the single-character punctuators the
// grammar (spec §4.2) ever reads as a standalone RESERVED token.
func isPunct(c byte) bool {
	switch c {
	case '+', '-', '*', '/', '(', ')', '{', '}', '[', ']', ';', '=', '<', '>', ',', '&':
		return true
	}
	return false
}

// stateWord scans an identifier or keyword.
func stateWord(l *lexer) stateFunc {
	for l.pos < len(l.src) && (isAlpha(l.src[l.pos]) || isDigit(l.src[l.pos])) {
		l.pos++
	}
	word := l.src[l.start:l.pos]
	if token.Keywords[word] {
		l.emit(token.RESERVED)
	} else {
		l.emit(token.IDENT)
	}
	return stateGlobal
}

// stateNumber scans a decimal integer literal.
func stateNumber(l *lexer) stateFunc {
	for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
		l.pos++
	}
	s := l.src[l.start:l.pos]
	n := 0
	for i := 0; i < len(s); i++ {
		n = n*10 + int(s[i]-'0')
	}
	l.emitVal(token.NUM, s, n)
	return stateGlobal
}
