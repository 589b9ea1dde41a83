// Package parser implements charmcc's recursive-descent grammar driver
// (spec §4.2): it consumes the token.Token stream in one left-to-right pass
// with one-token lookahead and produces a tree of ast.Node plus the list of
// ast.Obj declarations (globals and per-function locals) in source order.
//
// The grammar below is grounded directly on original_source/parser.c, the
// chibicc-style reference this specification was distilled from; variable
// and function names here mirror its static functions one-for-one
// (typespec, declarator, type_suffix, func_params, declaration,
// compound_stmt, stmt, expr_stmt, expr, assign, equality, relational, add,
// mul, unary, postfix, primary, new_add, new_sub, find_var, is_function).
package parser

import (
	"fmt"

	"charmcc/internal/arena"
	"charmcc/internal/ast"
	"charmcc/internal/diag"
	"charmcc/internal/sema"
	"charmcc/internal/token"
	"charmcc/internal/types"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Parser holds the mutable state threaded through every grammar function:
// the current token cursor and the two identifier scopes (spec §4.2
// "Identifier resolution"). Encapsulating this in a value rather than
// module-level globals, per spec §9's DESIGN NOTES, makes the parser
// trivially re-entrant.
type Parser struct {
	arena *arena.Arena
	src   string
	tok   *token.Token

	locals  []*ast.Obj // Current function's locals, declaration order; search scans from the tail.
	globals []*ast.Obj // Module-level declarations, declaration order; search scans from the tail.

	elab *sema.Elaborator
}

// ---------------------
// ----- Functions -----
// ---------------------

// Parse runs the full program grammar over tok and returns the list of
// top-level declarations in source order (spec §4.2 public contract).
func Parse(tok *token.Token, src string, a *arena.Arena) ([]*ast.Obj, error) {
	p := &Parser{arena: a, src: src, tok: tok}
	p.elab = sema.New(a, src)
	return p.program()
}

// program :: (function-def | global-var)*
func (p *Parser) program() (decls []*ast.Obj, err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(*diag.Error); ok {
				err = e
				return
			}
			panic(r)
		}
	}()

	for !p.tok.IsEOF() {
		base := p.typespec()
		if p.isFunction(base) {
			p.function(base)
		} else {
			p.globalVariable(base)
		}
	}
	return p.globals, nil
}

// -----------------------------------
// ----- token stream primitives -----
// -----------------------------------

// errorAt aborts parsing with a diagnostic anchored at tok (spec §7: Parse
// error, anchored at the offending token).
func (p *Parser) errorAt(tok *token.Token, format string, args ...interface{}) {
	offset := len(p.src)
	if tok != nil {
		offset = tok.Offset
	}
	panic(diag.NewError(p.src, offset, fmt.Sprintf(format, args...)))
}

// is reports whether the current token is a RESERVED token spelled s.
func (p *Parser) is(s string) bool {
	return p.tok.Is(s)
}

// skip requires the current token be spelled s and advances past it,
// aborting with a diagnostic otherwise (spec §6 skip(tok, s)).
func (p *Parser) skip(s string) {
	if !p.is(s) {
		p.errorAt(p.tok, "expected %q", s)
	}
	p.tok = p.tok.Next
}

// consume advances past the current token and returns true if it is spelled
// s, otherwise leaves the cursor untouched and returns false (spec §6
// consume(out_rest, tok, s)).
func (p *Parser) consume(s string) bool {
	if p.is(s) {
		p.tok = p.tok.Next
		return true
	}
	return false
}

// number requires the current token be a numeric literal, returns its value
// and advances past it.
func (p *Parser) number() int {
	if p.tok.Kind != token.NUM {
		p.errorAt(p.tok, "expected a number")
	}
	v := p.tok.Val
	p.tok = p.tok.Next
	return v
}

// -------------------------
// ----- type grammar -------
// -------------------------

// typespec :: "int"
func (p *Parser) typespec() *types.Type {
	p.skip("int")
	return types.IntType
}

// declarator :: "*"* ident type-suffix
func (p *Parser) declarator(base *types.Type) *types.Type {
	t := base
	for p.consume("*") {
		t = types.NewPointer(p.arena, t)
	}
	if p.tok.Kind != token.IDENT {
		p.errorAt(p.tok, "expected a variable name")
	}
	nameTok := p.tok
	p.tok = p.tok.Next
	t = p.typeSuffix(t)
	t.NameTok = nameTok
	return t
}

// type-suffix :: "(" func-params
//              | "[" NUM "]" type-suffix
//              | ε
func (p *Parser) typeSuffix(base *types.Type) *types.Type {
	if p.consume("(") {
		return p.funcParams(base)
	}
	if p.consume("[") {
		size := p.number()
		p.skip("]")
		elem := p.typeSuffix(base)
		return types.NewArray(p.arena, elem, size)
	}
	return base
}

// func-params :: (param ("," param)*)? ")"
// param       :: typespec declarator
func (p *Parser) funcParams(ret *types.Type) *types.Type {
	var params []*types.Type
	for !p.is(")") {
		if len(params) > 0 {
			p.skip(",")
		}
		base := p.typespec()
		// Copy the declarator's type by value: a plain int declarator is the
		// shared IntType singleton, whose NameTok the next declarator overwrites.
		param := arena.Allocate[types.Type](p.arena)
		*param = *p.declarator(base)
		params = append(params, param)
	}
	p.skip(")")
	if len(params) > maxParams {
		p.errorAt(p.tok, "function has more than %d parameters", maxParams)
	}
	return types.NewFunction(p.arena, ret, params)
}

// ---------------------
// ----- Constants -----
// ---------------------

const maxParams = 4 // Up to four register arguments, per spec §4.4 calling convention.

// ----------------------------------------
// ----- identifier scope resolution ------
// ----------------------------------------

// newLocal declares name as a local of type t in the current function scope
// and returns its Obj.
func (p *Parser) newLocal(name string, t *types.Type) *ast.Obj {
	o := ast.NewLocal(name, t)
	p.locals = append(p.locals, o)
	return o
}

// newGlobal declares name as a module-level Obj (variable or function) of
// type t and returns its Obj.
func (p *Parser) newGlobal(name string, t *types.Type) *ast.Obj {
	o := ast.NewGlobal(name, t)
	p.globals = append(p.globals, o)
	return o
}

// findVar resolves tok's identifier text against locals, then globals,
// searching each from the most recently declared entry backward so that a
// later declaration of the same name shadows an earlier one (spec §4.2:
// "push-front, linear search").
func (p *Parser) findVar(tok *token.Token) *ast.Obj {
	for i := len(p.locals) - 1; i >= 0; i-- {
		if p.locals[i].Name == tok.Str {
			return p.locals[i]
		}
	}
	for i := len(p.globals) - 1; i >= 0; i-- {
		if p.globals[i].Name == tok.Str {
			return p.globals[i]
		}
	}
	return nil
}

// --------------------------------------------
// ----- function/global disambiguation --------
// --------------------------------------------

// isFunction implements spec §4.2's disambiguation: parse a declarator
// against a throwaway type and inspect its resulting Kind, without
// mutating locals/globals (declarator alone never touches either scope).
func (p *Parser) isFunction(base *types.Type) bool {
	save := p.tok
	t := p.declarator(base)
	p.tok = save
	return t.Kind == types.Function
}

// --------------------------------
// ----- top-level declarations ----
// --------------------------------

// function-def :: typespec declarator "{" compound-stmt
func (p *Parser) function(base *types.Type) {
	t := p.declarator(base)
	fn := p.newGlobal(t.NameTok.Str, t)
	fn.IsFunction = true

	p.locals = nil
	for _, param := range t.Params {
		p.newLocal(param.NameTok.Str, param)
	}
	fn.Params = append([]*ast.Obj(nil), p.locals...)

	p.skip("{")
	fn.Body = p.compoundStmt()
	fn.Locals = p.locals
}

// global-var :: typespec declarator ("," declarator)* ";"
func (p *Parser) globalVariable(base *types.Type) {
	first := true
	for !p.consume(";") {
		if !first {
			p.skip(",")
		}
		first = false
		t := p.declarator(base)
		p.newGlobal(t.NameTok.Str, t)
	}
}

// --------------------
// ----- statements -----
// --------------------

// declaration :: typespec (declarator ("=" assign)? ("," …)*)? ";"
func (p *Parser) declaration() *ast.Node {
	base := p.typespec()

	block := &ast.Node{Kind: ast.Block, Tok: p.tok}
	var head, cur *ast.Node
	i := 0
	for !p.is(";") {
		if i > 0 {
			p.skip(",")
		}
		i++
		t := p.declarator(base)
		v := p.newLocal(t.NameTok.Str, t)

		if !p.consume("=") {
			continue
		}
		lhs := &ast.Node{Kind: ast.Var, Tok: t.NameTok, Obj: v}
		rhs := p.assign()
		assign := &ast.Node{Kind: ast.Assign, Tok: t.NameTok, Lhs: lhs, Rhs: rhs}
		stmt := &ast.Node{Kind: ast.ExprStmt, Tok: t.NameTok, Lhs: assign}
		if cur == nil {
			head = stmt
			cur = stmt
		} else {
			cur.Next = stmt
			cur = stmt
		}
	}
	p.skip(";")
	block.Body = head
	return block
}

// compound-stmt :: (declaration | stmt)* "}"
func (p *Parser) compoundStmt() *ast.Node {
	block := &ast.Node{Kind: ast.Block, Tok: p.tok}
	var head, cur *ast.Node
	for !p.is("}") {
		var n *ast.Node
		if p.is("int") {
			n = p.declaration()
		} else {
			n = p.stmt()
		}
		p.elab.AddType(n)
		if cur == nil {
			head = n
			cur = n
		} else {
			cur.Next = n
			cur = n
		}
	}
	p.skip("}")
	block.Body = head
	return block
}

// stmt :: "return" expr ";"
//       | "if" "(" expr ")" stmt ("else" stmt)?
//       | "for" "(" expr-stmt expr? ";" expr? ")" stmt
//       | "while" "(" expr ")" stmt
//       | "{" compound-stmt
//       | expr-stmt
func (p *Parser) stmt() *ast.Node {
	switch {
	case p.is("return"):
		tok := p.tok
		p.tok = p.tok.Next
		n := &ast.Node{Kind: ast.Return, Tok: tok, Lhs: p.expr()}
		p.skip(";")
		return n

	case p.is("if"):
		tok := p.tok
		p.tok = p.tok.Next
		p.skip("(")
		cond := p.expr()
		p.skip(")")
		then := p.stmt()
		n := &ast.Node{Kind: ast.If, Tok: tok, Cond: cond, Then: then}
		if p.consume("else") {
			n.Els = p.stmt()
		}
		return n

	case p.is("for"):
		tok := p.tok
		p.tok = p.tok.Next
		p.skip("(")
		n := &ast.Node{Kind: ast.Loop, Tok: tok}
		n.Init = p.exprStmt()
		if !p.is(";") {
			n.Cond = p.expr()
		}
		p.skip(";")
		if !p.is(")") {
			n.Inc = p.expr()
		}
		p.skip(")")
		n.Then = p.stmt()
		return n

	case p.is("while"):
		tok := p.tok
		p.tok = p.tok.Next
		p.skip("(")
		cond := p.expr()
		p.skip(")")
		n := &ast.Node{Kind: ast.Loop, Tok: tok, Cond: cond}
		n.Then = p.stmt()
		return n

	case p.is("{"):
		p.tok = p.tok.Next
		return p.compoundStmt()

	default:
		return p.exprStmt()
	}
}

// expr-stmt :: expr? ";"
func (p *Parser) exprStmt() *ast.Node {
	if p.consume(";") {
		return &ast.Node{Kind: ast.Block}
	}
	tok := p.tok
	n := &ast.Node{Kind: ast.ExprStmt, Tok: tok, Lhs: p.expr()}
	p.skip(";")
	return n
}

// ---------------------
// ----- expressions -----
// ---------------------

// expr :: assign
func (p *Parser) expr() *ast.Node {
	return p.assign()
}

// assign :: equality ("=" assign)?
func (p *Parser) assign() *ast.Node {
	n := p.equality()
	if p.consume("=") {
		tok := n.Tok
		n = &ast.Node{Kind: ast.Assign, Tok: tok, Lhs: n, Rhs: p.assign()}
	}
	return n
}

// equality :: relational (("==" | "!=") relational)*
func (p *Parser) equality() *ast.Node {
	n := p.relational()
	for {
		tok := p.tok
		switch {
		case p.consume("=="):
			n = &ast.Node{Kind: ast.Eq, Tok: tok, Lhs: n, Rhs: p.relational()}
		case p.consume("!="):
			n = &ast.Node{Kind: ast.Neq, Tok: tok, Lhs: n, Rhs: p.relational()}
		default:
			return n
		}
	}
}

// relational :: add (("<" | "<=" | ">" | ">=") add)*
//
// ">" and ">=" are synthesized by swapping operands around "<" and "<="
// (spec §4.2).
func (p *Parser) relational() *ast.Node {
	n := p.add()
	for {
		tok := p.tok
		switch {
		case p.consume("<"):
			n = &ast.Node{Kind: ast.Lt, Tok: tok, Lhs: n, Rhs: p.add()}
		case p.consume("<="):
			n = &ast.Node{Kind: ast.Lte, Tok: tok, Lhs: n, Rhs: p.add()}
		case p.consume(">"):
			n = &ast.Node{Kind: ast.Lt, Tok: tok, Lhs: p.add(), Rhs: n}
		case p.consume(">="):
			n = &ast.Node{Kind: ast.Lte, Tok: tok, Lhs: p.add(), Rhs: n}
		default:
			return n
		}
	}
}

// add :: mul (("+" | "-") mul)*
func (p *Parser) add() *ast.Node {
	n := p.mul()
	for {
		tok := p.tok
		switch {
		case p.consume("+"):
			n = p.newAdd(n, p.mul(), tok)
		case p.consume("-"):
			n = p.newSub(n, p.mul(), tok)
		default:
			return n
		}
	}
}

// newAdd implements the `+` operator rewrite table in spec §4.2: plain
// integer addition, or pointer-scaled addition when either side is
// pointer-or-array typed. Both operands are type-elaborated up front since
// the scaling factor depends on the element size known at this point, which
// is why this rewrite lives in the parser and not the elaborator.
func (p *Parser) newAdd(lhs, rhs *ast.Node, tok *token.Token) *ast.Node {
	p.elab.AddType(lhs)
	p.elab.AddType(rhs)

	if lhs.Type.IsInteger() && rhs.Type.IsInteger() {
		return &ast.Node{Kind: ast.Add, Tok: tok, Lhs: lhs, Rhs: rhs}
	}
	if lhs.Type.IsPointerlike() && rhs.Type.IsPointerlike() {
		p.errorAt(tok, "invalid operands")
	}
	if !lhs.Type.IsPointerlike() && rhs.Type.IsPointerlike() {
		lhs, rhs = rhs, lhs
	}
	scale := &ast.Node{Kind: ast.Num, Tok: tok, Val: lhs.Type.Base.Size()}
	scaled := &ast.Node{Kind: ast.Mul, Tok: tok, Lhs: rhs, Rhs: scale}
	return &ast.Node{Kind: ast.Add, Tok: tok, Lhs: lhs, Rhs: scaled}
}

// newSub implements the `-` operator rewrite table in spec §4.2: plain
// integer subtraction, pointer-minus-integer (scaled), or
// pointer-minus-pointer (distance in elements).
func (p *Parser) newSub(lhs, rhs *ast.Node, tok *token.Token) *ast.Node {
	p.elab.AddType(lhs)
	p.elab.AddType(rhs)

	if lhs.Type.IsInteger() && rhs.Type.IsInteger() {
		return &ast.Node{Kind: ast.Sub, Tok: tok, Lhs: lhs, Rhs: rhs}
	}
	if lhs.Type.IsPointerlike() && rhs.Type.IsInteger() {
		scale := &ast.Node{Kind: ast.Num, Tok: tok, Val: lhs.Type.Base.Size()}
		scaled := &ast.Node{Kind: ast.Mul, Tok: tok, Lhs: rhs, Rhs: scale}
		n := &ast.Node{Kind: ast.Sub, Tok: tok, Lhs: lhs, Rhs: scaled}
		n.Type = lhs.Type
		return n
	}
	if lhs.Type.IsPointerlike() && rhs.Type.IsPointerlike() {
		n := &ast.Node{Kind: ast.Sub, Tok: tok, Lhs: lhs, Rhs: rhs}
		n.Type = types.IntType
		scale := &ast.Node{Kind: ast.Num, Tok: tok, Val: lhs.Type.Base.Size()}
		return &ast.Node{Kind: ast.Div, Tok: tok, Lhs: n, Rhs: scale}
	}
	p.errorAt(tok, "invalid operands")
	return nil
}

// mul :: unary (("*" | "/") unary)*
func (p *Parser) mul() *ast.Node {
	n := p.unary()
	for {
		tok := p.tok
		switch {
		case p.consume("*"):
			n = &ast.Node{Kind: ast.Mul, Tok: tok, Lhs: n, Rhs: p.unary()}
		case p.consume("/"):
			n = &ast.Node{Kind: ast.Div, Tok: tok, Lhs: n, Rhs: p.unary()}
		default:
			return n
		}
	}
}

// unary :: ("+" | "-" | "&" | "*") unary | postfix
func (p *Parser) unary() *ast.Node {
	tok := p.tok
	switch {
	case p.consume("+"):
		return p.unary()
	case p.consume("-"):
		return &ast.Node{Kind: ast.Neg, Tok: tok, Lhs: p.unary()}
	case p.consume("&"):
		return &ast.Node{Kind: ast.Addr, Tok: tok, Lhs: p.unary()}
	case p.consume("*"):
		return &ast.Node{Kind: ast.Deref, Tok: tok, Lhs: p.unary()}
	default:
		return p.postfix()
	}
}

// postfix :: primary ("[" expr "]")*
//
// x[y] desugars to Deref(x + y) using the `+` operand-arithmetic rewrite
// (spec §4.2), so a[n] and *(a+n) always produce structurally equal trees.
func (p *Parser) postfix() *ast.Node {
	n := p.primary()
	for p.is("[") {
		tok := p.tok
		p.tok = p.tok.Next
		idx := p.expr()
		p.skip("]")
		n = &ast.Node{Kind: ast.Deref, Tok: tok, Lhs: p.newAdd(n, idx, tok)}
	}
	return n
}

// fn-call :: ident "(" args ")"
// args     :: (assign ("," assign)*)?
func (p *Parser) fnCall() *ast.Node {
	start := p.tok
	name := p.tok.Str
	p.tok = p.tok.Next // identifier
	p.tok = p.tok.Next // "("

	var head, cur *ast.Node
	argc := 0
	for !p.is(")") {
		if head != nil {
			p.skip(",")
		}
		a := p.assign()
		argc++
		if head == nil {
			head = a
			cur = a
		} else {
			cur.Next = a
			cur = a
		}
	}
	if argc > maxParams {
		p.errorAt(start, "call to %s has more than %d arguments", name, maxParams)
	}
	p.skip(")")
	return &ast.Node{Kind: ast.FnCall, Tok: start, FnName: name, Args: head}
}

// primary :: "(" expr ")" | "sizeof" unary | IDENT ("(" args ")")? | NUM
func (p *Parser) primary() *ast.Node {
	switch {
	case p.is("("):
		p.tok = p.tok.Next
		n := p.expr()
		p.skip(")")
		return n

	case p.is("sizeof"):
		tok := p.tok
		p.tok = p.tok.Next
		n := p.unary()
		p.elab.AddType(n)
		return &ast.Node{Kind: ast.Num, Tok: tok, Val: n.Type.Size()}

	case p.tok.Kind == token.IDENT:
		if p.tok.Next != nil && p.tok.Next.Is("(") {
			return p.fnCall()
		}
		tok := p.tok
		v := p.findVar(tok)
		if v == nil {
			p.errorAt(tok, "undefined variable: %s", tok.Str)
		}
		p.tok = p.tok.Next
		return &ast.Node{Kind: ast.Var, Tok: tok, Obj: v}

	case p.tok.Kind == token.NUM:
		tok := p.tok
		n := &ast.Node{Kind: ast.Num, Tok: tok, Val: tok.Val}
		p.tok = p.tok.Next
		return n

	default:
		p.errorAt(p.tok, "expected an expression")
		return nil
	}
}
