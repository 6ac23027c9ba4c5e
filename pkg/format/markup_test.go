package format_test

import (
	"html/template"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fraudguard/console/pkg/format"
)

func TestMarkup(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected template.HTML
	}{
		{
			name:     "bold policy then new line",
			input:    "**POL-001**\nmatched rule",
			expected: "<strong>POL-001</strong><br>matched rule",
		},
		{
			name:     "heading becomes section label",
			input:    "## Resumen\nsin riesgos",
			expected: `<strong class="section-label">Resumen</strong><br>sin riesgos`,
		},
		{
			name:     "html is escaped",
			input:    "<script>alert(1)</script>",
			expected: "&lt;script&gt;alert(1)&lt;/script&gt;",
		},
		{
			name:     "several bold spans on one line",
			input:    "**A** y **B**",
			expected: "<strong>A</strong> y <strong>B</strong>",
		},
		{
			name:     "windows line endings",
			input:    "uno\r\ndos",
			expected: "uno<br>dos",
		},
		{
			name:     "hash inside a line is not a heading",
			input:    "regla #4",
			expected: "regla #4",
		},
		{
			name:     "empty",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, format.Markup(tt.input))
		})
	}
}
