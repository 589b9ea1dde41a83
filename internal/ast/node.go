// Package ast implements charmcc's Node and Obj data model (spec §3): the
// typed abstract syntax tree the parser produces, the type elaborator
// annotates, and the code generator lowers to assembly.
//
// Node keeps the teacher's tagged-variant shape (ir.NodeType + a single
// struct carrying every kind's fields, ir/nodetype.go) but replaces its
// Children []*Node + Data interface{} bag with named, typed fields per
// DESIGN NOTES in spec §9 ("replace the kind-enum + optional-field bag with
// proper sum types... removes whole classes of field-populated-for-wrong-
// kind bugs"), matching the shape of the chibicc-style Node struct this
// specification was distilled from.
package ast

import (
	"charmcc/internal/token"
	"charmcc/internal/types"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Kind differentiates the AST node variants named in spec §3.
type Kind int

const (
	Add Kind = iota
	Sub
	Mul
	Div
	Neg
	Eq
	Neq
	Lt
	Lte
	Addr
	Deref
	Num
	Var
	Assign
	If
	Loop
	Return
	Block
	ExprStmt
	FnCall
)

var kindNames = [...]string{
	"Add", "Sub", "Mul", "Div", "Neg", "Eq", "Neq", "Lt", "Lte",
	"Addr", "Deref", "Num", "Var", "Assign", "If", "Loop", "Return",
	"Block", "ExprStmt", "FnCall",
}

// Node is charmcc's single AST node type. Exactly one field group is
// populated for a given Kind (spec §3 invariant); the comment on each field
// names the kinds that use it.
type Node struct {
	Kind Kind
	Tok  *token.Token // Representative token, for error reporting.
	Next *Node        // Sibling link: statements in a Block, arguments in a FnCall.
	Type *types.Type  // Elaborated type; non-nil for every expression node after sema (spec §4.3).

	Lhs *Node // Add,Sub,Mul,Div,Neg,Eq,Neq,Lt,Lte,Addr,Deref,Assign (lhs side); Return, ExprStmt (their expression).
	Rhs *Node // Add,Sub,Mul,Div,Eq,Neq,Lt,Lte,Assign (rhs side).

	Val int // Num.

	Obj *Obj // Var.

	Cond *Node // If, Loop: the controlling condition (Loop's may be nil: infinite loop).
	Then *Node // If: consequence. Loop: body.
	Els  *Node // If: alternative, or nil.
	Init *Node // Loop: initializer statement, or nil.
	Inc  *Node // Loop: increment expression, or nil.

	Body *Node // Block: head of the statement list (chained via Next).

	FnName string // FnCall.
	Args   *Node  // FnCall: head of the argument list (chained via Next).
}

// ---------------------
// ----- Functions -----
// ---------------------

// String renders the node's kind name for debug dumps.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "UNKNOWN"
	}
	return kindNames[k]
}

// IsLvalue reports whether n denotes a memory location (spec GLOSSARY:
// Var or Deref).
func (n *Node) IsLvalue() bool {
	return n != nil && (n.Kind == Var || n.Kind == Deref)
}
