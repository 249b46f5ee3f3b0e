package conv

import (
	"strings"

	"github.com/gomarkdown/markdown/html"
	"github.com/inbucket/html2text"
)

// MarkdownToSpeech flattens Markdown into plain text suitable for a
// terminal line or a TTS engine. On conversion failure md is returned
// unchanged.
func MarkdownToSpeech(md []byte) string {
	rendered := renderHTML(md, html.CommonFlags)

	text, err := html2text.FromString(string(rendered), html2text.Options{
		OmitLinks: true,
		TextOnly:  true,
	})
	if err != nil {
		return strings.TrimSpace(string(md))
	}
	return strings.TrimSpace(text)
}
