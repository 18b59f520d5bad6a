package style

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestForNonTerminalIsPlain(t *testing.T) {
	var buf bytes.Buffer
	p := For(&buf)
	assert.False(t, p.Enabled())
	assert.False(t, IsInteractive(&buf))
	assert.Equal(t, "text", p.Red("text"))
	assert.Equal(t, "text", p.Underline("text"))
}

func TestPlainPalette(t *testing.T) {
	p := Plain()
	assert.Equal(t, "a", p.Green("a"))
	assert.Equal(t, "b", p.Cyan("b"))
	assert.Equal(t, "c", p.Dim("c"))
	assert.Equal(t, "d", p.Yellow("d"))
}
