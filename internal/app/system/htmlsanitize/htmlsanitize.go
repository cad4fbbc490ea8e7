// Package htmlsanitize cleans catalog prose before it is rendered as HTML.
//
// Catalog text is authored in YAML and may carry light inline markup
// (<em>, <strong>, <br>) and character entities such as &ldquo;. Everything
// else is stripped so a hand-edited catalog override cannot inject script or
// layout into the planner pages or the exported PDF.
package htmlsanitize

import (
	"html"
	"html/template"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var policy = newPolicy()

func newPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("em", "strong", "b", "i", "u", "sub", "sup", "br", "span", "p")
	p.AllowAttrs("class").Matching(regexp.MustCompile(`^[a-zA-Z0-9_\- ]+$`)).OnElements("span", "p")
	return p
}

// tagPattern detects anything that looks like an HTML tag or entity.
var tagPattern = regexp.MustCompile(`<[a-zA-Z/][^>]*>|&[a-zA-Z#][a-zA-Z0-9]*;`)

// Sanitize removes everything outside the inline prose policy.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	return policy.Sanitize(s)
}

// SanitizeToHTML is Sanitize typed for direct use in templates.
func SanitizeToHTML(s string) template.HTML {
	return template.HTML(Sanitize(s))
}

// IsPlainText reports whether s contains no markup or entities.
func IsPlainText(s string) bool {
	return !tagPattern.MatchString(s)
}

// PlainTextToHTML escapes s and turns newlines into <br>.
func PlainTextToHTML(s string) template.HTML {
	if s == "" {
		return ""
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, line := range lines {
		lines[i] = html.EscapeString(line)
	}
	return template.HTML(strings.Join(lines, "<br>"))
}

// PrepareForDisplay picks PlainTextToHTML for plain text and SanitizeToHTML
// for text with markup.
func PrepareForDisplay(s string) template.HTML {
	if IsPlainText(s) {
		return PlainTextToHTML(s)
	}
	return SanitizeToHTML(s)
}
