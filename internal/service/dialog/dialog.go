// Package dialog renders the assistant's fixed spoken lines.
package dialog

import (
	"bytes"
	"fmt"
	"math/rand/v2"
	"text/template"

	"github.com/sandevgo/jarvis/configs"
	"gopkg.in/yaml.v3"
)

type Key string

const (
	Greetings       Key = "greetings"
	WakeAck         Key = "wake_ack"
	WakeReject      Key = "wake_reject"
	WakeFarewell    Key = "wake_farewell"
	Farewells       Key = "farewells"
	Reprompt        Key = "reprompt"
	UIReprompt      Key = "ui_reprompt"
	Apology         Key = "apology"
	Shutdown        Key = "shutdown"
	Dormant         Key = "dormant"
	BatteryCritical Key = "battery_critical"
	BatteryLow      Key = "battery_low"
	BatteryFull     Key = "battery_full"
	BatteryOK       Key = "battery_ok"
	PlugIn          Key = "plug_in"
	PlugOut         Key = "plug_out"
	DriveIn         Key = "drive_in"
	DriveOut        Key = "drive_out"
)

type vars struct {
	User      string
	Assistant string
	Detail    string
}

// Book holds the parsed line templates.
type Book struct {
	lines map[Key][]*template.Template
	user  string
	name  string
	pick  func(n int) int
}

// Load reads the embedded dialogs.yaml.
func Load(user, assistant string) (*Book, error) {
	data, err := configs.FS.ReadFile("dialogs.yaml")
	if err != nil {
		return nil, fmt.Errorf("read dialogs: %w", err)
	}
	return Parse(data, user, assistant)
}

func Parse(data []byte, user, assistant string) (*Book, error) {
	raw := make(map[Key][]string)
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse dialogs: %w", err)
	}

	b := &Book{
		lines: make(map[Key][]*template.Template, len(raw)),
		user:  user,
		name:  assistant,
		pick:  rand.IntN,
	}
	for key, lines := range raw {
		for i, line := range lines {
			tpl, err := template.New(fmt.Sprintf("%s.%d", key, i)).Parse(line)
			if err != nil {
				return nil, fmt.Errorf("dialog %s[%d]: %w", key, i, err)
			}
			b.lines[key] = append(b.lines[key], tpl)
		}
	}
	return b, nil
}

// Say renders a random line for key. Unknown keys render empty.
func (b *Book) Say(key Key) string {
	return b.Sayf(key, "")
}

// Sayf is Say with a detail value available as {{.Detail}}.
func (b *Book) Sayf(key Key, detail string) string {
	tpls := b.lines[key]
	if len(tpls) == 0 {
		return ""
	}
	return b.render(tpls[b.pick(len(tpls))], detail)
}

// All renders every line for key in file order.
func (b *Book) All(key Key) []string {
	out := make([]string, 0, len(b.lines[key]))
	for _, tpl := range b.lines[key] {
		out = append(out, b.render(tpl, ""))
	}
	return out
}

func (b *Book) render(tpl *template.Template, detail string) string {
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, vars{User: b.user, Assistant: b.name, Detail: detail}); err != nil {
		return tpl.Root.String()
	}
	return buf.String()
}
