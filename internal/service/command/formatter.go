package command

import (
	"fmt"
	"strings"
)

// reply collects the markdown sections of a command answer. The output bus
// cleans markdown for speech, so nothing beyond bold, code and lists is used.
type reply struct {
	sections []string
}

func (r *reply) add(s string) *reply {
	r.sections = append(r.sections, strings.TrimRight(s, "\n"))
	return r
}

func (r *reply) title(s string) *reply {
	return r.add("**" + s + "**")
}

func (r *reply) field(label, value string) *reply {
	return r.add(fmt.Sprintf("**%s**: `%s`", label, value))
}

func (r *reply) usage(syntax string) *reply {
	return r.field("Usage", syntax)
}

func (r *reply) examples(lines ...string) *reply {
	quoted := make([]string, len(lines))
	for i, l := range lines {
		quoted[i] = "`" + l + "`"
	}
	return r.add("**Examples**:\n" + bullets(quoted))
}

func (r *reply) list(items []string) *reply {
	return r.add(bullets(items))
}

func (r *reply) String() string {
	return strings.TrimSpace(strings.Join(r.sections, "\n\n"))
}

func bullets(items []string) string {
	var sb strings.Builder
	for _, it := range items {
		sb.WriteString("- ")
		sb.WriteString(it)
		sb.WriteByte('\n')
	}
	return sb.String()
}
