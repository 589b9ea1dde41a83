package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriterInstructionHelpers(t *testing.T) {
	var w Writer
	w.Write(".global main\n")
	w.Label("main")
	w.Ins1("push", "{fp, lr}")
	w.Ins2("mov", "r0", "r1")
	w.Ins2imm("add", "fp", "sp", 4)
	w.Ins3("add", "r0", "r1", "r2")
	w.LoadStore("ldr", "r0", "fp", -8)
	w.LoadStore("str", "r1", "fp", 8)

	got := w.String()
	assert.Contains(t, got, ".global main\n")
	assert.Contains(t, got, "main:\n")
	assert.Contains(t, got, "\tpush\t{fp, lr}\n")
	assert.Contains(t, got, "\tmov\tr0, r1\n")
	assert.Contains(t, got, "\tadd\tfp, sp, #4\n")
	assert.Contains(t, got, "\tadd\tr0, r1, r2\n")
	assert.Contains(t, got, "\tldr\tr0, [fp, #-8]\n")
	assert.Contains(t, got, "\tstr\tr1, [fp, #8]\n")
}

func TestWriterAccumulatesInOrder(t *testing.T) {
	var w Writer
	w.WriteString("a")
	w.WriteString("b")
	assert.Equal(t, "ab", w.String())
}
