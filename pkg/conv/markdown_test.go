package conv

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMarkdownToTelegramHTML(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "plain", in: "Battery is at 80%.", want: "Battery is at 80%.\n"},
		{name: "bold", in: "**Model changed**", want: "<strong>Model changed</strong>\n"},
		{name: "inline code", in: "`get_time`", want: "<code>get_time</code>\n"},
		{
			name: "fenced code keeps language class",
			in:   "```go\nx := 1\n```",
			want: "<pre><code class=\"language-go\">x := 1\n</code></pre>\n",
		},
		{name: "heading flattened", in: "# Functions", want: "Functions\n"},
		{name: "link keeps href only", in: "[docs](https://example.com)", want: "<a href=\"https://example.com\">docs</a>\n"},
		{name: "script removed", in: "<script>alert(1)</script>", want: "\n"},
		{name: "strikethrough", in: "~~old~~", want: "<del>old</del>\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MarkdownToTelegramHTML([]byte(tt.in)))
		})
	}
}
