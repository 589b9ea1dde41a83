package ast

import "charmcc/internal/types"

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Obj is a variable or function declaration (spec §3 Obj). Variables add an
// Offset, assigned once by codegen before any reference to them is emitted.
// Functions add Params (whose identity is also the head of Locals), Body,
// Locals and StackSize.
type Obj struct {
	Name       string // Interned identifier.
	Type       *types.Type
	IsLocal    bool
	IsFunction bool

	Offset int // Stack-frame offset in bytes from fp, toward lower addresses. Variables only.

	Params    []*Obj // Ordered parameters, max 4. Functions only.
	Body      *Node  // Root Block node of the function body. Functions only.
	Locals    []*Obj // Every Obj introduced in the body, params first. Functions only.
	StackSize int    // 16-byte-aligned total frame size. Functions only.

	HasInit bool // True if this global carries an initializer value (supplemented feature, SPEC_FULL §"Supplemented features" item 2).
	Init    int  // Initializer value for an int-typed global with HasInit set.
}

// ---------------------
// ----- Functions -----
// ---------------------

// NewLocal returns an Obj marked as a local variable of type t.
func NewLocal(name string, t *types.Type) *Obj {
	return &Obj{Name: name, Type: t, IsLocal: true}
}

// NewGlobal returns an Obj marked as a global variable of type t.
func NewGlobal(name string, t *types.Type) *Obj {
	return &Obj{Name: name, Type: t, IsLocal: false}
}

// NewFunction returns an Obj marked as a function declaration.
func NewFunction(name string, t *types.Type) *Obj {
	return &Obj{Name: name, Type: t, IsFunction: true}
}
