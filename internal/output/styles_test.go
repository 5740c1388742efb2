package output

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatCheckmark(t *testing.T) {
	got := FormatCheckmark("3 plugins loaded")
	assert.Contains(t, got, "✔")
	assert.Contains(t, got, "3 plugins loaded")
}

func TestFormatSlotKey(t *testing.T) {
	got := FormatSlotKey("shell-sidebar-footer", 2)
	assert.Contains(t, got, "shell-sidebar-footer")
	assert.Contains(t, got, "-2")
}

func TestSemanticStyles(t *testing.T) {
	assert.Equal(t, ColorCyan, StyleNoun.GetForeground())
	assert.Equal(t, ColorYellow, StyleOverride.GetForeground())
	assert.True(t, StyleDim.GetFaint())
	assert.True(t, StyleSummary.GetBold())
}
