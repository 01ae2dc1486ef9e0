package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeField(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "empty", input: "", expected: ""},
		{name: "trims whitespace", input: "  Brand \n", expected: "Brand"},
		{name: "decodes named entities", input: "Tom &amp; Jerry&#39;s", expected: "Tom & Jerry's"},
		{name: "decodes numeric entities", input: "caf&#233;", expected: "café"},
		{name: "unknown entity passes through", input: "a &bogus; b", expected: "a &bogus; b"},
		{name: "lone ampersand passes through", input: "R&D ", expected: "R&D"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeField(tt.input))
		})
	}
}

func TestNormalizeCell(t *testing.T) {
	assert.Equal(t, "", NormalizeCell(nil))
	assert.Equal(t, "x", NormalizeCell(" x "))
	assert.Equal(t, "42", NormalizeCell(42))
	assert.Equal(t, "1.5", NormalizeCell(1.5))
}
