package lir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"charmcc/internal/arena"
	"charmcc/internal/ast"
	"charmcc/internal/types"
)

func block(stmts ...*ast.Node) *ast.Node {
	b := &ast.Node{Kind: ast.Block}
	var cur *ast.Node
	for _, s := range stmts {
		if cur == nil {
			b.Body = s
		} else {
			cur.Next = s
		}
		cur = s
	}
	return b
}

func ret(n *ast.Node) *ast.Node {
	return &ast.Node{Kind: ast.Return, Lhs: n}
}

func numNode(v int) *ast.Node {
	return &ast.Node{Kind: ast.Num, Type: types.IntType, Val: v}
}

func TestLowerReturnConstant(t *testing.T) {
	fn := ast.NewFunction("main", types.IntType)
	fn.Body = block(ret(numNode(42)))
	p := Lower(fn)
	require.Len(t, p.Instr, 2)
	assert.Equal(t, OpConst, p.Instr[0].Op)
	assert.Equal(t, 42, p.Instr[0].Val)
	assert.Equal(t, OpRet, p.Instr[1].Op)
}

func TestLowerBinaryEvaluatesBothOperands(t *testing.T) {
	fn := ast.NewFunction("main", types.IntType)
	add := &ast.Node{Kind: ast.Add, Type: types.IntType, Lhs: numNode(1), Rhs: numNode(2)}
	fn.Body = block(ret(add))
	p := Lower(fn)

	var ops []Op
	for _, i := range p.Instr {
		ops = append(ops, i.Op)
	}
	assert.Equal(t, []Op{OpConst, OpConst, OpBin, OpRet}, ops)
}

func TestLowerIfGeneratesMatchingLabels(t *testing.T) {
	fn := ast.NewFunction("main", types.IntType)
	ifNode := &ast.Node{
		Kind: ast.If,
		Cond: numNode(1),
		Then: block(ret(numNode(1))),
		Els:  block(ret(numNode(0))),
	}
	fn.Body = block(ifNode)
	p := Lower(fn)

	var jmpZLabel, elseLabel string
	for _, i := range p.Instr {
		if i.Op == OpJmpZ {
			jmpZLabel = i.Label
		}
		if i.Op == OpLabel && elseLabel == "" && i.Label != "" {
			elseLabel = i.Label
		}
	}
	require.NotEmpty(t, jmpZLabel)
	assert.Equal(t, jmpZLabel, elseLabel)
}

func TestLowerVarLoadsUnlessArray(t *testing.T) {
	fn := ast.NewFunction("main", types.IntType)
	scalar := ast.NewLocal("x", types.IntType)
	ref := &ast.Node{Kind: ast.Var, Type: types.IntType, Obj: scalar}
	fn.Body = block(ret(ref))
	p := Lower(fn)
	require.Len(t, p.Instr, 3)
	assert.Equal(t, OpAddr, p.Instr[0].Op)
	assert.Equal(t, OpLoad, p.Instr[1].Op)
}

func TestLowerArrayVarSuppressesLoad(t *testing.T) {
	fn := ast.NewFunction("main", types.IntType)
	arrType := types.NewArray(arena.New(), types.IntType, 3)
	arr := ast.NewLocal("a", arrType)
	ref := &ast.Node{Kind: ast.Var, Type: arrType, Obj: arr}
	fn.Body = block(ret(ref))
	p := Lower(fn)
	require.Len(t, p.Instr, 2)
	assert.Equal(t, OpAddr, p.Instr[0].Op)
	assert.Equal(t, OpRet, p.Instr[1].Op)
}

func TestInstrStringFormats(t *testing.T) {
	assert.Equal(t, "const 5", Instr{Op: OpConst, Val: 5}.String())
	assert.Equal(t, "loop.begin.1:", Instr{Op: OpLabel, Label: "loop.begin.1"}.String())
}
