// Package sema implements charmcc's type elaborator (spec §4.3): a
// post-walk, add_type(node), that fills the Type field of every expression
// Node. It is grounded directly on original_source/type.c's add_type
// function, keeping the same walk order (children first) and the same
// per-kind classification table.
package sema

import (
	"fmt"

	"charmcc/internal/arena"
	"charmcc/internal/ast"
	"charmcc/internal/diag"
	"charmcc/internal/types"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Elaborator threads the arena (pointer types synthesized by Addr are
// arena-owned, per spec §3) and the source buffer (for diagnostics) through
// every add_type call of one compilation.
type Elaborator struct {
	arena *arena.Arena
	src   string
}

// ---------------------
// ----- Functions -----
// ---------------------

// New returns an Elaborator for one compilation's arena and source text.
func New(a *arena.Arena, src string) *Elaborator {
	return &Elaborator{arena: a, src: src}
}

// AddType walks n's subtree, filling in n.Type (and every descendant's
// Type) for expression nodes. It is a no-op when n is already typed, so
// repeated calls across overlapping subtrees (the parser calls this once
// per completed statement, and again implicitly through newAdd/newSub on
// pieces of an in-progress expression) never redo work or diverge.
func (e *Elaborator) AddType(n *ast.Node) {
	if n == nil || n.Type != nil {
		return
	}

	// Children first (spec §4.3 walk order).
	e.AddType(n.Lhs)
	e.AddType(n.Rhs)
	e.AddType(n.Cond)
	e.AddType(n.Then)
	e.AddType(n.Els)
	e.AddType(n.Init)
	e.AddType(n.Inc)
	for c := n.Body; c != nil; c = c.Next {
		e.AddType(c)
	}
	for c := n.Args; c != nil; c = c.Next {
		e.AddType(c)
	}

	switch n.Kind {
	case ast.Add, ast.Sub, ast.Mul, ast.Div, ast.Neg:
		// Already adjusted for pointer cases by the parser's newAdd/newSub;
		// every other arithmetic kind just inherits its operand's type.
		n.Type = n.Lhs.Type

	case ast.Assign:
		if n.Lhs.Type != nil && n.Lhs.Type.Kind == types.Array {
			e.fail(n, "not an lvalue")
		}
		n.Type = n.Lhs.Type

	case ast.Eq, ast.Neq, ast.Lt, ast.Lte, ast.Num, ast.FnCall:
		n.Type = types.IntType

	case ast.Var:
		n.Type = n.Obj.Type

	case ast.Addr:
		if n.Lhs.Type.Kind == types.Array {
			n.Type = types.NewPointer(e.arena, n.Lhs.Type.Base)
		} else {
			n.Type = types.NewPointer(e.arena, n.Lhs.Type)
		}

	case ast.Deref:
		if !n.Lhs.Type.IsPointerlike() {
			e.fail(n, "invalid pointer dereference")
		}
		n.Type = n.Lhs.Type.Base

	case ast.If, ast.Loop, ast.Return, ast.Block, ast.ExprStmt:
		// Statement kinds remain untyped (spec §4.3).
	}
}

// fail aborts elaboration with a diagnostic anchored at n's representative
// token (spec §7: Semantic error).
func (e *Elaborator) fail(n *ast.Node, format string, args ...interface{}) {
	offset := len(e.src)
	if n.Tok != nil {
		offset = n.Tok.Offset
	}
	panic(diag.NewError(e.src, offset, fmt.Sprintf(format, args...)))
}
