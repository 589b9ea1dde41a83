// Package lir implements the small linear intermediate representation spec
// §2 mentions the code generator may optionally lower through
// ("lowers the AST (optionally through a small linear intermediate
// representation) to ARM assembly"). It is grounded on
// original_source/codegen_ir.c and debug.c, which show this was a real,
// exercised path upstream: a flat, three-address-ish instruction list with
// its own dump format, rather than a purely hypothetical one.
//
// charmcc's ARM backend (package codegen) lowers the AST to assembly
// directly, for the reasons given in DESIGN.md; this package gives the
// --debug CLI flag (spec §6) a second, independent rendering of a
// function's body to inspect alongside the AST dump, and is unit tested on
// its own lowering rules.
package lir

import (
	"fmt"

	"charmcc/internal/ast"
	"charmcc/internal/types"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Op enumerates the linear IR's instruction opcodes: enough to express
// every expression and control-flow shape charmcc's grammar produces,
// without any register or stack-offset detail (those are an ARM backend
// concern, not an IR concern).
type Op int

const (
	OpConst  Op = iota // Push a constant.
	OpLoad             // Load the value addressed by the top of stack.
	OpAddr             // Push the address of a Var.
	OpBin              // Pop two, push the result of applying Sym to them.
	OpNeg              // Negate the top of stack.
	OpStore            // Pop address (top), then value; store value at address.
	OpJmp              // Unconditional jump to Label.
	OpJmpZ             // Pop condition; jump to Label if zero.
	OpLabel            // Define Label at this point.
	OpCall             // Call Sym with Argc arguments already pushed, push result.
	OpRet              // Pop return value and return from the function.
	OpPop              // Discard the top of stack (ExprStmt's result).
)

var opNames = [...]string{
	"const", "load", "addr", "bin", "neg", "store",
	"jmp", "jmpz", "label", "call", "ret", "pop",
}

// Instr is one linear IR instruction.
type Instr struct {
	Op    Op
	Val   int    // OpConst.
	Sym   string // OpBin (operator spelling), OpCall (callee name), OpAddr (variable name).
	Label string // OpJmp, OpJmpZ, OpLabel.
	Argc  int    // OpCall.
}

// Program is one function's body lowered to a flat instruction sequence.
type Program struct {
	Func  string
	Instr []Instr
}

// ---------------------
// ----- Functions -----
// ---------------------

// String renders one instruction for debug dumps.
func (i Instr) String() string {
	switch i.Op {
	case OpConst:
		return fmt.Sprintf("const %d", i.Val)
	case OpAddr:
		return fmt.Sprintf("addr  %s", i.Sym)
	case OpBin:
		return fmt.Sprintf("bin   %s", i.Sym)
	case OpJmp:
		return fmt.Sprintf("jmp   %s", i.Label)
	case OpJmpZ:
		return fmt.Sprintf("jmpz  %s", i.Label)
	case OpLabel:
		return fmt.Sprintf("%s:", i.Label)
	case OpCall:
		return fmt.Sprintf("call  %s/%d", i.Sym, i.Argc)
	default:
		return opNames[i.Op]
	}
}

// Lower flattens fn's body into a Program. fn must be a function Obj (spec
// §3) with a non-nil Body.
func Lower(fn *ast.Obj) *Program {
	p := &Program{Func: fn.Name}
	l := &lowerer{p: p}
	l.stmt(fn.Body)
	return p
}

// lowerer carries the monotonic label counter used while flattening one
// function.
type lowerer struct {
	p   *Program
	seq int
}

func (l *lowerer) label(prefix string) string {
	l.seq++
	return fmt.Sprintf("%s.%d", prefix, l.seq)
}

func (l *lowerer) emit(i Instr) {
	l.p.Instr = append(l.p.Instr, i)
}

func (l *lowerer) stmt(n *ast.Node) {
	if n == nil {
		return
	}
	switch n.Kind {
	case ast.Block:
		for c := n.Body; c != nil; c = c.Next {
			l.stmt(c)
		}
	case ast.ExprStmt:
		l.expr(n.Lhs)
		l.emit(Instr{Op: OpPop})
	case ast.Return:
		l.expr(n.Lhs)
		l.emit(Instr{Op: OpRet})
	case ast.If:
		elseLabel := l.label("if.else")
		endLabel := l.label("if.end")
		l.expr(n.Cond)
		l.emit(Instr{Op: OpJmpZ, Label: elseLabel})
		l.stmt(n.Then)
		l.emit(Instr{Op: OpJmp, Label: endLabel})
		l.emit(Instr{Op: OpLabel, Label: elseLabel})
		if n.Els != nil {
			l.stmt(n.Els)
		}
		l.emit(Instr{Op: OpLabel, Label: endLabel})
	case ast.Loop:
		begin := l.label("loop.begin")
		end := l.label("loop.end")
		if n.Init != nil {
			l.stmt(n.Init)
		}
		l.emit(Instr{Op: OpLabel, Label: begin})
		if n.Cond != nil {
			l.expr(n.Cond)
			l.emit(Instr{Op: OpJmpZ, Label: end})
		}
		l.stmt(n.Then)
		if n.Inc != nil {
			l.expr(n.Inc)
			l.emit(Instr{Op: OpPop})
		}
		l.emit(Instr{Op: OpJmp, Label: begin})
		l.emit(Instr{Op: OpLabel, Label: end})
	default:
		// A bare expression used as a statement (e.g. a declaration's
		// initializer, itself an ExprStmt already handled above).
		l.expr(n)
		l.emit(Instr{Op: OpPop})
	}
}

func (l *lowerer) expr(n *ast.Node) {
	if n == nil {
		return
	}
	switch n.Kind {
	case ast.Num:
		l.emit(Instr{Op: OpConst, Val: n.Val})
	case ast.Var:
		l.emit(Instr{Op: OpAddr, Sym: n.Obj.Name})
		if n.Type == nil || n.Type.Kind != types.Array {
			l.emit(Instr{Op: OpLoad})
		}
	case ast.Neg:
		l.expr(n.Lhs)
		l.emit(Instr{Op: OpNeg})
	case ast.Addr:
		l.lvalue(n.Lhs)
	case ast.Deref:
		l.expr(n.Lhs)
		l.emit(Instr{Op: OpLoad})
	case ast.Assign:
		l.expr(n.Rhs)
		l.lvalue(n.Lhs)
		l.emit(Instr{Op: OpStore})
	case ast.Add, ast.Sub, ast.Mul, ast.Div, ast.Eq, ast.Neq, ast.Lt, ast.Lte:
		l.expr(n.Lhs)
		l.expr(n.Rhs)
		l.emit(Instr{Op: OpBin, Sym: n.Kind.String()})
	case ast.FnCall:
		argc := 0
		for a := n.Args; a != nil; a = a.Next {
			l.expr(a)
			argc++
		}
		l.emit(Instr{Op: OpCall, Sym: n.FnName, Argc: argc})
	}
}

// lvalue emits the address-computation form of n (spec GLOSSARY gen_addr):
// Var pushes the variable's address, Deref evaluates its operand (which is
// already an address).
func (l *lowerer) lvalue(n *ast.Node) {
	switch n.Kind {
	case ast.Var:
		l.emit(Instr{Op: OpAddr, Sym: n.Obj.Name})
	case ast.Deref:
		l.expr(n.Lhs)
	default:
		l.emit(Instr{Op: OpAddr, Sym: "<invalid-lvalue>"})
	}
}
