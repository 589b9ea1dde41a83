// Package codegen implements charmcc's ARM code generator (spec §4.4): it
// lowers a typed AST directly to ARM/GAS assembly text. It is grounded on
// original_source/codegen.c's gen_expr/gen_stmt/gen_addr/gen_div shape, and
// on the teacher's backend/arm package for how a Go ARM backend is
// structured around a Writer and a Labeler (backend/arm/function.go,
// armv8.go).
//
// The generator does not route through package lir on its main path: the
// AST already carries everything gen_addr/gen_expr need (types, Obj
// offsets), and a second lowering stage between them would only be two
// representations of the same nine rewrite rules to keep in sync. lir is
// exercised instead by the --debug dump (see cmd/charmcc), where a second,
// independent rendering of a function's body is exactly what it's for.
package codegen

import (
	"fmt"

	"charmcc/internal/ast"
	"charmcc/internal/diag"
	"charmcc/internal/types"
	"charmcc/internal/util"
)

// ---------------------
// ----- Constants -----
// ---------------------

const (
	ptrSize   = 4  // Every scalar/pointer/stack slot unit, spec §4.1 "PTR_SIZE".
	frameAlign = 16 // Stack frames are 16-byte aligned, spec §4.4 and §6 ("sp 8-byte aligned at call boundaries").
)

// argRegs names the up-to-4 argument registers, spec §4.4/§6.
var argRegs = [...]string{"r0", "r1", "r2", "r3"}

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// generator carries the per-run state spec §5 scopes to one codegen call:
// the output buffer, the shared label counter, the function currently being
// emitted, and the push/pop depth counter (spec §8 invariant 1).
type generator struct {
	w       *util.Writer
	src     string
	labeler *util.Labeler
	fn      *ast.Obj
	depth   int
	hasDiv  bool
}

// ---------------------
// ----- Functions -----
// ---------------------

// Generate lowers objs (the parser's top-level declaration list, spec §4.2)
// to a complete assembly listing (spec §4.4 public contract). src is the
// original source text, threaded through only so codegen-level failures can
// be anchored like parser/sema diagnostics.
func Generate(objs []*ast.Obj, src string) (asm string, err error) {
	g := &generator{w: &util.Writer{}, src: src, labeler: util.NewLabeler()}
	defer func() {
		if r := recover(); r != nil {
			if de, ok := r.(*diag.Error); ok {
				err = de
				return
			}
			panic(r)
		}
	}()

	g.emitGlobals(objs)

	var functions []*ast.Obj
	for _, o := range objs {
		if o.IsFunction {
			functions = append(functions, o)
		}
	}

	g.w.WriteString(".global main\n")
	for _, fn := range functions {
		if fn.Name != "main" {
			g.w.Write(".global %s\n", fn.Name)
		}
	}
	g.w.WriteString(".text\n")

	for _, fn := range functions {
		g.assignOffsets(fn)
		g.genFunction(fn)
	}

	if g.hasDiv {
		g.genDivHelper()
	}

	return g.w.String(), nil
}

// fail panics a source-anchored diagnostic (spec §7: "Codegen error ...
// treated as a semantic error"). It should be unreachable on output of a
// correctly elaborated tree.
func (g *generator) fail(n *ast.Node, format string, args ...interface{}) {
	offset := 0
	if n != nil && n.Tok != nil {
		offset = n.Tok.Offset
	}
	panic(diag.NewError(g.src, offset, fmt.Sprintf(format, args...)))
}

// --------------------------------
// ----- Global data emission -----
// --------------------------------

// emitGlobals writes the .data/.bss entries for every non-function Obj in
// objs (SPEC_FULL.md supplemented feature: spec §9's Open Question on
// global emission). int-typed globals without an initializer, and every
// array-typed global, reserve zeroed storage in .bss; a global carrying an
// initializer (Obj.HasInit) is emitted as an initialized word in .data.
func (g *generator) emitGlobals(objs []*ast.Obj) {
	var data, bss []*ast.Obj
	for _, o := range objs {
		if o.IsFunction {
			continue
		}
		if o.HasInit {
			data = append(data, o)
		} else {
			bss = append(bss, o)
		}
	}
	if len(data) == 0 && len(bss) == 0 {
		return
	}
	if len(data) > 0 {
		g.w.WriteString(".data\n")
		for _, o := range data {
			g.w.Write("%s:\n", o.Name)
			g.w.Write("\t.word\t%d\n", o.Init)
		}
	}
	if len(bss) > 0 {
		g.w.WriteString(".bss\n")
		for _, o := range bss {
			g.w.Write("%s:\n", o.Name)
			g.w.Write("\t.zero\t%d\n", o.Type.Size())
		}
	}
}

// --------------------------------
// ----- Stack frame layout --------
// --------------------------------

// assignOffsets computes fn.StackSize and every local's Obj.Offset, per the
// rule in spec §4.4 and §3's Obj invariants: offsets start at PTR_SIZE and
// grow by each local's size in declaration order; the frame size is that
// running total aligned up to 16.
func (g *generator) assignOffsets(fn *ast.Obj) {
	off := ptrSize
	for _, lv := range fn.Locals {
		off += lv.Type.Size()
		lv.Offset = off
	}
	fn.StackSize = alignTo(off, frameAlign)
}

func alignTo(n, align int) int {
	return (n + align - 1) / align * align
}

// -----------------------------
// ----- Function emission -----
// -----------------------------

// genFunction emits one function's label, prologue, body, return label and
// epilogue (spec §4.4's three-state {prologue, body, epilogue} machine).
func (g *generator) genFunction(fn *ast.Obj) {
	g.fn = fn
	g.depth = 0

	g.w.WriteString("\n")
	g.w.Label(fn.Name)
	g.w.Ins1("push", "{fp, lr}")
	g.w.Ins2imm("add", "fp", "sp", 4)
	g.w.Ins2imm("sub", "sp", "sp", fn.StackSize)

	for i, p := range fn.Params {
		g.w.LoadStore("str", argRegs[i], "fp", -p.Offset)
	}

	g.genStmt(fn.Body)

	g.w.Label(util.ReturnLabel(fn.Name))
	g.w.Ins2imm("sub", "sp", "fp", 4)
	g.w.Ins1("pop", "{fp, pc}")
}

// --------------------------
// ----- Statement codegen -----
// --------------------------

// genStmt emits n (a statement node) and checks the push/pop depth
// invariant afterward (spec §8 invariant 1).
func (g *generator) genStmt(n *ast.Node) {
	if n == nil {
		return
	}
	switch n.Kind {
	case ast.Block:
		for c := n.Body; c != nil; c = c.Next {
			g.genStmt(c)
		}
		return
	case ast.ExprStmt:
		if n.Lhs != nil {
			g.genExpr(n.Lhs)
		}
	case ast.Return:
		g.genExpr(n.Lhs)
		g.w.Write("\tb\t%s\n", util.ReturnLabel(g.fn.Name))
	case ast.If:
		g.genIf(n)
	case ast.Loop:
		g.genLoop(n)
	default:
		g.fail(n, "codegen: %s is not a statement", n.Kind)
	}
	if g.depth != 0 {
		g.fail(n, "codegen: internal error: unbalanced stack depth (%d)", g.depth)
	}
}

// genIf implements spec §4.4's If lowering, with or without an else branch.
func (g *generator) genIf(n *ast.Node) {
	seq := g.labeler.Next()
	elseLabel := util.FuncLabel(g.fn.Name, "if.else", seq)
	endLabel := util.FuncLabel(g.fn.Name, "if.end", seq)

	g.genExpr(n.Cond)
	g.w.Ins2("cmp", "r0", "#0")
	g.w.Write("\tbeq\t%s\n", elseLabel)
	g.genStmt(n.Then)
	g.w.Write("\tb\t%s\n", endLabel)
	g.w.Label(elseLabel)
	if n.Els != nil {
		g.genStmt(n.Els)
	}
	g.w.Label(endLabel)
}

// genLoop implements spec §4.4's Loop lowering, shared by `for` and `while`
// (the parser leaves no trace of which surface form produced the node).
func (g *generator) genLoop(n *ast.Node) {
	seq := g.labeler.Next()
	begin := util.FuncLabel(g.fn.Name, "loop.begin", seq)
	end := util.FuncLabel(g.fn.Name, "loop.end", seq)

	if n.Init != nil {
		g.genStmt(n.Init)
	}
	g.w.Label(begin)
	if n.Cond != nil {
		g.genExpr(n.Cond)
		g.w.Ins2("cmp", "r0", "#0")
		g.w.Write("\tbeq\t%s\n", end)
	}
	g.genStmt(n.Then)
	if n.Inc != nil {
		g.genExpr(n.Inc)
	}
	g.w.Write("\tb\t%s\n", begin)
	g.w.Label(end)
}

// --------------------------
// ----- Expression codegen -----
// --------------------------

// push spills r0 onto the machine stack and advances the depth counter.
func (g *generator) push() {
	g.w.Ins1("push", "{r0}")
	g.depth++
}

// pop restores the top of the machine stack into reg and retires the depth
// counter.
func (g *generator) pop(reg string) {
	g.w.Ins1("pop", "{"+reg+"}")
	g.depth--
}

// genExpr emits n, leaving its value in r0 (spec §4.4's single-accumulator
// discipline).
func (g *generator) genExpr(n *ast.Node) {
	switch n.Kind {
	case ast.Num:
		g.w.Write("\tldr\tr0, =%d\n", n.Val)
	case ast.Var:
		g.genAddr(n)
		if n.Type == nil || n.Type.Kind != types.Array {
			g.w.Write("\tldr\tr0, [r0]\n")
		}
	case ast.Deref:
		g.genExpr(n.Lhs)
		if n.Type == nil || n.Type.Kind != types.Array {
			g.w.Write("\tldr\tr0, [r0]\n")
		}
	case ast.Addr:
		g.genAddr(n.Lhs)
	case ast.Neg:
		g.genExpr(n.Lhs)
		g.w.Ins2imm("rsb", "r0", "r0", 0)
	case ast.Assign:
		g.genExpr(n.Rhs)
		g.push()
		g.genAddr(n.Lhs)
		g.pop("r1")
		g.w.WriteString("\tstr\tr1, [r0]\n")
		g.w.WriteString("\tmov\tr0, r1\n")
	case ast.Add, ast.Sub, ast.Mul, ast.Div, ast.Eq, ast.Neq, ast.Lt, ast.Lte:
		g.genBinary(n)
	case ast.FnCall:
		g.genCall(n)
	default:
		g.fail(n, "codegen: %s is not an expression", n.Kind)
	}
}

// genBinary implements spec §4.4's "evaluate rhs first into r0, push it,
// evaluate lhs into r0, pop into r1, then combine" discipline for every
// arithmetic and comparison operator.
func (g *generator) genBinary(n *ast.Node) {
	g.genExpr(n.Rhs)
	g.push()
	g.genExpr(n.Lhs)
	g.pop("r1")

	switch n.Kind {
	case ast.Add:
		g.w.Ins3("add", "r0", "r0", "r1")
	case ast.Sub:
		g.w.Ins3("sub", "r0", "r0", "r1")
	case ast.Mul:
		g.w.Ins3("mul", "r0", "r0", "r1")
	case ast.Div:
		g.hasDiv = true
		g.w.Ins1("bl", "__div")
	case ast.Eq:
		g.genCompare("eq", "ne")
	case ast.Neq:
		g.genCompare("ne", "eq")
	case ast.Lt:
		g.genCompare("lt", "ge")
	case ast.Lte:
		g.genCompare("le", "gt")
	}
}

// genCompare emits spec §4.4's "cmp r0, r1 followed by conditional
// moveq/movne/movlt/movge/movle/movgt" sequence, materializing 1/0 in r0.
func (g *generator) genCompare(trueCond, falseCond string) {
	g.w.Ins2("cmp", "r0", "r1")
	g.w.Write("\tmov%s\tr0, #1\n", trueCond)
	g.w.Write("\tmov%s\tr0, #0\n", falseCond)
}

// genCall implements spec §4.4's call convention: evaluate arguments
// left-to-right pushing each onto the stack, then pop back into
// r(n-1)..r0 in reverse so r0 carries the first argument.
func (g *generator) genCall(n *ast.Node) {
	argc := 0
	for a := n.Args; a != nil; a = a.Next {
		g.genExpr(a)
		g.push()
		argc++
	}
	for i := argc - 1; i >= 0; i-- {
		g.pop(argRegs[i])
	}
	g.w.Ins1("bl", n.FnName)
}

// genAddr implements gen_addr (spec §4.4): Var yields a local's frame
// address or a global's symbol address; Deref's operand value is already
// an address. Anything else is not an lvalue.
func (g *generator) genAddr(n *ast.Node) {
	switch n.Kind {
	case ast.Var:
		if n.Obj.IsLocal {
			g.w.Write("\tsub\tr0, fp, #%d\n", n.Obj.Offset)
		} else {
			g.w.Write("\tldr\tr0, =%s\n", n.Obj.Name)
		}
	case ast.Deref:
		g.genExpr(n.Lhs)
	default:
		g.fail(n, "not an lvalue")
	}
}

// -----------------------------
// ----- Division helper -------
// -----------------------------

// genDivHelper emits __div exactly once, strictly after every user
// function (spec §4.4, §5, §8 invariant 5): a 32-bit unsigned
// shift-and-subtract (restoring) division. r0 = dividend, r1 = divisor in;
// r0 = quotient, r1 = remainder out. When the divisor is zero the helper
// falls through to the return without touching r0/r1 (spec §9's documented
// undefined-on-zero behavior, matching original_source/codegen.c's
// unresolved @TODO exactly rather than inventing a trap).
func (g *generator) genDivHelper() {
	g.w.WriteString("\n")
	g.w.Label("__div")
	g.w.Ins2("cmp", "r1", "#0")
	g.w.Write("\tbeq\t__div.ret\n")
	g.w.Ins1("push", "{r4, r5}")
	g.w.Ins2("mov", "r2", "r0")
	g.w.Ins2("mov", "r3", "#0")
	g.w.Ins2("mov", "r4", "#0")
	g.w.Ins2("mov", "r5", "#32")
	g.w.Label("__div.loop")
	g.w.Ins2("cmp", "r5", "#0")
	g.w.Write("\tbeq\t__div.finish\n")
	g.w.Write("\tlsls\tr2, r2, #1\n")
	g.w.Ins3("adc", "r3", "r3", "r3")
	g.w.Ins2imm("lsl", "r4", "r4", 1)
	g.w.Ins2("cmp", "r3", "r1")
	g.w.Write("\tblo\t__div.skip\n")
	g.w.Ins3("sub", "r3", "r3", "r1")
	g.w.Ins2imm("add", "r4", "r4", 1)
	g.w.Label("__div.skip")
	g.w.Ins2imm("sub", "r5", "r5", 1)
	g.w.Write("\tb\t__div.loop\n")
	g.w.Label("__div.finish")
	g.w.Ins2("mov", "r0", "r4")
	g.w.Ins2("mov", "r1", "r3")
	g.w.Ins1("pop", "{r4, r5}")
	g.w.Label("__div.ret")
	g.w.Ins1("bx", "lr")
}
