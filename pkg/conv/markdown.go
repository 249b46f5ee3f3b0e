// Package conv renders assistant Markdown for the different outputs.
package conv

import (
	"sync"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/microcosm-cc/bluemonday"
)

const extensions = parser.CommonExtensions | parser.NoEmptyLineBeforeBlock

// Tags Telegram accepts in HTML parse mode.
var telegramPolicy = sync.OnceValue(func() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("b", "strong", "i", "em", "u", "ins", "s", "strike", "del", "code", "pre", "blockquote")
	p.AllowAttrs("href").OnElements("a")
	p.AllowAttrs("class").OnElements("code")
	return p
})

// renderHTML builds a fresh parser per call, gomarkdown parsers are not
// reusable.
func renderHTML(md []byte, flags html.Flags) []byte {
	p := parser.NewWithExtensions(extensions)
	renderer := html.NewRenderer(html.RendererOptions{Flags: flags})
	return markdown.Render(p.Parse(md), renderer)
}

func MarkdownToTelegramHTML(md []byte) string {
	unsafe := renderHTML(md, html.CommonFlags|html.HrefTargetBlank)
	return string(telegramPolicy().SanitizeBytes(unsafe))
}
