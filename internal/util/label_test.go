package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLabelerIsMonotonicAndSharedAcrossFunctions(t *testing.T) {
	l := NewLabeler()
	assert.Equal(t, 0, l.Next())
	assert.Equal(t, 1, l.Next())
	assert.Equal(t, 2, l.Next())
}

func TestFuncLabelFormat(t *testing.T) {
	assert.Equal(t, "main.if.else.0", FuncLabel("main", "if.else", 0))
	assert.Equal(t, "add.loop.begin.3", FuncLabel("add", "loop.begin", 3))
}

func TestReturnLabelFormat(t *testing.T) {
	assert.Equal(t, "main.return", ReturnLabel("main"))
}
