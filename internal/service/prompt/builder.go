// Package prompt assembles the system messages sent to the model.
package prompt

import (
	"fmt"
	"strings"
	"time"

	"github.com/sandevgo/jarvis/internal/core"
)

const (
	defaultCategory = "General"
	chatFunction    = "chat_with_chatbot"
)

// Builder renders the function-calling instructions. It is a pure
// function of the specs it was created with and the time passed to Build.
type Builder struct {
	specs     []core.FunctionSpec
	assistant string
}

func NewBuilder(specs []core.FunctionSpec, assistant string) *Builder {
	cp := make([]core.FunctionSpec, len(specs))
	copy(cp, specs)
	return &Builder{specs: cp, assistant: assistant}
}

func (b *Builder) Build(now time.Time) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "You are the function router of %s, a personal voice assistant. ", b.assistant)
	sb.WriteString("Decide which function fulfils the user's latest request.\n\n")

	sb.WriteString("Respond with ONLY a JSON object in exactly this format:\n")
	sb.WriteString(`{"function": "function_name", "query": "user_query"}`)
	sb.WriteString("\n\nRules:\n")
	sb.WriteString("- \"function\" must be one of the function names listed below, spelled exactly.\n")
	sb.WriteString("- \"query\" is the argument described for that function. Use \"\" when it takes none.\n")
	sb.WriteString("- Output nothing else. No markdown, no code fences, no explanation.\n")
	if b.has(chatFunction) {
		fmt.Fprintf(&sb, "- For conversation, opinions or anything no other function covers, use %q with the user's full request as the query.\n", chatFunction)
	}

	sb.WriteString("\nAvailable functions:\n")
	if len(b.specs) == 0 {
		sb.WriteString("(no functions available)\n")
	}
	for _, group := range b.groups() {
		fmt.Fprintf(&sb, "\n## %s\n", group.name)
		for _, s := range group.specs {
			fmt.Fprintf(&sb, "- %s: %s", s.Name, s.Description)
			if s.Argument != "" {
				fmt.Fprintf(&sb, " Argument: %s", s.Argument)
			}
			sb.WriteString("\n")
		}
	}

	sb.WriteString("\n")
	sb.WriteString(RealtimeInformation(now))
	return sb.String()
}

func (b *Builder) has(name string) bool {
	for _, s := range b.specs {
		if s.Name == name {
			return true
		}
	}
	return false
}

type group struct {
	name  string
	specs []core.FunctionSpec
}

// groups keeps categories in order of first appearance.
func (b *Builder) groups() []group {
	var out []group
	idx := make(map[string]int)
	for _, s := range b.specs {
		cat := s.Category
		if cat == "" {
			cat = defaultCategory
		}
		i, ok := idx[cat]
		if !ok {
			i = len(out)
			idx[cat] = i
			out = append(out, group{name: cat})
		}
		out[i].specs = append(out[i].specs, s)
	}
	return out
}

// RealtimeInformation is the live date and time block.
func RealtimeInformation(now time.Time) string {
	return fmt.Sprintf(
		"Use this real-time information if needed:\nDay: %s\nDate: %s\nMonth: %s\nYear: %s\nTime: %s hours, %s minutes, %s seconds.\n",
		now.Format("Monday"),
		now.Format("02"),
		now.Format("January"),
		now.Format("2006"),
		now.Format("15"),
		now.Format("04"),
		now.Format("05"),
	)
}
