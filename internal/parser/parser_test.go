package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"charmcc/internal/arena"
	"charmcc/internal/ast"
	"charmcc/internal/lexer"
	"charmcc/internal/types"
)

func parse(t *testing.T, src string) ([]*ast.Obj, error) {
	t.Helper()
	a := arena.New()
	toks, err := lexer.Lex(src)
	require.NoError(t, err)
	return Parse(toks, src, a)
}

func findFunc(decls []*ast.Obj, name string) *ast.Obj {
	for _, d := range decls {
		if d.IsFunction && d.Name == name {
			return d
		}
	}
	return nil
}

func TestParseFunctionAndGlobalsAreDisambiguated(t *testing.T) {
	decls, err := parse(t, "int g; int add(int a, int b){ return a+b; } int main(){ return add(1,2); }")
	require.NoError(t, err)
	require.Len(t, decls, 3)

	g := decls[0]
	assert.False(t, g.IsFunction)
	assert.Equal(t, "g", g.Name)

	add := findFunc(decls, "add")
	require.NotNil(t, add)
	assert.Len(t, add.Params, 2)
	assert.Equal(t, "a", add.Params[0].Name)
	assert.Equal(t, "b", add.Params[1].Name)

	main := findFunc(decls, "main")
	require.NotNil(t, main)
	assert.Empty(t, main.Params)
}

func TestParseLocalsIncludeParamsFirst(t *testing.T) {
	decls, err := parse(t, "int f(int a){ int b; b=a; return b; }")
	require.NoError(t, err)
	f := findFunc(decls, "f")
	require.NotNil(t, f)
	require.Len(t, f.Locals, 2)
	assert.Equal(t, "a", f.Locals[0].Name)
	assert.Equal(t, "b", f.Locals[1].Name)
}

func TestParsePointerDeclarator(t *testing.T) {
	decls, err := parse(t, "int main(){ int x; int *p; p=&x; return *p; }")
	require.NoError(t, err)
	main := findFunc(decls, "main")
	require.NotNil(t, main)
	p := main.Locals[1]
	assert.Equal(t, types.Pointer, p.Type.Kind)
	assert.Equal(t, types.Int, p.Type.Base.Kind)
}

func TestParseArrayDeclarator(t *testing.T) {
	decls, err := parse(t, "int main(){ int a[3]; return a[0]; }")
	require.NoError(t, err)
	main := findFunc(decls, "main")
	require.NotNil(t, main)
	a := main.Locals[0]
	require.Equal(t, types.Array, a.Type.Kind)
	assert.Equal(t, 3, a.Type.Len)
	assert.Equal(t, 12, a.Type.Size())
}

func TestParsePointerArithmeticScaling(t *testing.T) {
	lhs, err := parse(t, "int main(){ int a[3]; int *p; p=&a[1]; return *p; }")
	require.NoError(t, err)
	rhs, err := parse(t, "int main(){ int a[3]; int *p; p=&a+1; return *p; }")
	require.NoError(t, err)
	assignedValue := func(decls []*ast.Obj) *ast.Node {
		main := findFunc(decls, "main")
		require.NotNil(t, main)
		assign := main.Body.Body.Next.Next.Lhs // skip the declaration blocks for "a" and "p"
		require.Equal(t, ast.Assign, assign.Kind)
		return assign.Rhs
	}
	// &a[1] is Addr(Deref(Add(a, Mul(1, 4)))); &a+1 is Add(&a, Mul(1, 4)).
	lval := assignedValue(lhs)
	require.Equal(t, ast.Addr, lval.Kind)
	require.Equal(t, ast.Deref, lval.Lhs.Kind)
	require.Equal(t, ast.Add, lval.Lhs.Lhs.Kind)
	rval := assignedValue(rhs)
	require.Equal(t, ast.Add, rval.Kind)
	for _, mul := range []*ast.Node{lval.Lhs.Lhs.Rhs, rval.Rhs} {
		assert.Equal(t, ast.Mul, mul.Kind)
		assert.Equal(t, 1, mul.Lhs.Val)
		assert.Equal(t, 4, mul.Rhs.Val)
	}
}

func TestParseSizeof(t *testing.T) {
	decls, err := parse(t, "int main(){ int a[3]; return sizeof(a); }")
	require.NoError(t, err)
	main := findFunc(decls, "main")
	require.NotNil(t, main)
	ret := main.Body.Body.Next // skip the (initializer-less) declaration block for "a"
	require.NotNil(t, ret)
	assert.Equal(t, ast.Return, ret.Kind)
	assert.Equal(t, ast.Num, ret.Lhs.Kind)
	assert.Equal(t, 12, ret.Lhs.Val)
}

func TestParseUndefinedVariable(t *testing.T) {
	_, err := parse(t, "int main(){ return x; }")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "undefined variable")
}

func TestParseMissingSemicolon(t *testing.T) {
	_, err := parse(t, "int main(){ return 1 }")
	require.Error(t, err)
}

func TestParseTooManyCallArgs(t *testing.T) {
	_, err := parse(t, "int f(int a,int b,int c,int d){ return a; } int main(){ return f(1,2,3,4,5); }")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "more than")
}

func TestParseTooManyParams(t *testing.T) {
	_, err := parse(t, "int f(int a,int b,int c,int d,int e){ return a; }")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "more than")
}

func TestParseRelationalSwap(t *testing.T) {
	decls, err := parse(t, "int main(){ return 1>2; }")
	require.NoError(t, err)
	main := findFunc(decls, "main")
	ret := main.Body.Body
	// 1 > 2 is synthesized as Lt(2, 1).
	assert.Equal(t, ast.Lt, ret.Lhs.Kind)
	assert.Equal(t, 2, ret.Lhs.Lhs.Val)
	assert.Equal(t, 1, ret.Lhs.Rhs.Val)
}
