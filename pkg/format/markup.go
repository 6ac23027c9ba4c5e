package format

import (
	"html/template"
	"regexp"
	"strings"
)

var (
	boldPattern    = regexp.MustCompile(`\*\*(.*?)\*\*`)
	headingPattern = regexp.MustCompile(`^#+\s*(.*)$`)
)

// Markup expands the lightweight markup used in decision explanations into safe HTML.
// The input is escaped first; then **x** becomes bold, a line starting with # becomes a
// section label and line breaks are preserved.
func Markup(text string) template.HTML {
	if text == "" {
		return ""
	}

	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	for i, line := range lines {
		line = boldPattern.ReplaceAllString(template.HTMLEscapeString(line), "<strong>$1</strong>")
		if m := headingPattern.FindStringSubmatch(line); m != nil {
			line = `<strong class="section-label">` + m[1] + `</strong>`
		}
		lines[i] = line
	}

	return template.HTML(strings.Join(lines, "<br>"))
}
