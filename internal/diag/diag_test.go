package diag

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessage(t *testing.T) {
	e := NewError("int main(){}", 4, "unexpected token")
	assert.Equal(t, "unexpected token", e.Error())
}

func TestUsageErrorHasNoAnchor(t *testing.T) {
	e := NewUsageError("unknown flag: --bogus")
	assert.False(t, e.Anchor)
	var buf bytes.Buffer
	e.Print(&buf)
	assert.Equal(t, "unknown flag: --bogus\n", buf.String())
}

func TestPrintRendersSourceLineAndCaret(t *testing.T) {
	src := "int main(){\n  return x;\n}"
	offset := bytes.IndexByte([]byte(src), 'x')
	e := NewError(src, offset, "undefined variable: x")
	var buf bytes.Buffer
	e.Print(&buf)
	out := buf.String()
	assert.Contains(t, out, "undefined variable: x")
	assert.Contains(t, out, "return x;")
	assert.Contains(t, out, "^")
}

func TestLineAtTracksMultipleLines(t *testing.T) {
	src := "a\nbb\nccc"
	line, col, text := lineAt(src, 6) // second 'c' of "ccc"
	assert.Equal(t, 3, line)
	assert.Equal(t, 1, col)
	assert.Equal(t, "ccc", text)
}
