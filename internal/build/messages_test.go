package build

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeMessagesPrefersSyntaxErrors(t *testing.T) {
	got := NormalizeMessages(RawMessages{
		Errors: []string{
			"./src/a.js\nCould not resolve \"./b\"",
			"./src/c.js\nSyntaxError: Unexpected token (1:4)",
		},
		Warnings: []string{"w1"},
	})
	assert.Equal(t, []string{"./src/c.js\nSyntax error: Unexpected token (1:4)"}, got.Errors)
	assert.Equal(t, []string{"w1"}, got.Warnings)
}

func TestNormalizeMessagesKeepsAllWithoutSyntaxErrors(t *testing.T) {
	got := NormalizeMessages(RawMessages{Errors: []string{"e1", "e2"}})
	assert.Equal(t, []string{"e1", "e2"}, got.Errors)
	assert.Nil(t, got.Warnings)
}

func TestFormatMessage(t *testing.T) {
	in := "Error: boom\n    at run (/app/node_modules/x/index.js:10:5)\n    at main.js:1:1\n\n\n\nsee above\r\n"
	assert.Equal(t, "Error: boom\n\nsee above", formatMessage(in))
	assert.Equal(t, "", formatMessage("   \n"))
}
