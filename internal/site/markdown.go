package site

import (
	"html"
	"html/template"
	"strings"

	"github.com/russross/blackfriday"
)

const (
	markdownHTMLFlags = blackfriday.HTML_SKIP_HTML |
		blackfriday.HTML_SKIP_STYLE |
		blackfriday.HTML_SAFELINK |
		blackfriday.HTML_NOFOLLOW_LINKS |
		blackfriday.HTML_HREF_TARGET_BLANK

	markdownExtensions = blackfriday.EXTENSION_NO_INTRA_EMPHASIS |
		blackfriday.EXTENSION_TABLES |
		blackfriday.EXTENSION_FENCED_CODE |
		blackfriday.EXTENSION_AUTOLINK |
		blackfriday.EXTENSION_STRIKETHROUGH |
		blackfriday.EXTENSION_SPACE_HEADERS |
		blackfriday.EXTENSION_HARD_LINE_BREAK
)

// RenderMarkdown turns a model answer into HTML. Raw HTML in the input is
// dropped.
func RenderMarkdown(text string) template.HTML {
	renderer := blackfriday.HtmlRenderer(markdownHTMLFlags, "", "")
	out := blackfriday.Markdown([]byte(text), renderer, markdownExtensions)
	return template.HTML(strings.TrimSpace(string(out)))
}

// RenderPlain escapes user text for display.
func RenderPlain(text string) template.HTML {
	return template.HTML(html.EscapeString(text))
}
