package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"charmcc/internal/types"
)

func TestIsLvalue(t *testing.T) {
	assert.True(t, (&Node{Kind: Var}).IsLvalue())
	assert.True(t, (&Node{Kind: Deref}).IsLvalue())
	assert.False(t, (&Node{Kind: Num}).IsLvalue())
	assert.False(t, (&Node{Kind: Add}).IsLvalue())
	assert.False(t, (*Node)(nil).IsLvalue())
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "Add", Add.String())
	assert.Equal(t, "FnCall", FnCall.String())
	assert.Equal(t, "UNKNOWN", Kind(999).String())
}

func TestObjConstructors(t *testing.T) {
	local := NewLocal("x", types.IntType)
	assert.True(t, local.IsLocal)
	assert.False(t, local.IsFunction)

	global := NewGlobal("g", types.IntType)
	assert.False(t, global.IsLocal)

	fn := NewFunction("f", types.IntType)
	assert.True(t, fn.IsFunction)
}
