package prompt

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/sandevgo/jarvis/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var frozen = time.Date(2024, time.March, 5, 14, 7, 9, 0, time.UTC)

func sampleSpecs() []core.FunctionSpec {
	return []core.FunctionSpec{
		{Name: "open_website", Description: "Open a website.", Argument: "site name or URL", Category: "Browser"},
		{Name: "get_time", Description: "Tell the current time.", Category: "System"},
		{Name: "browser_refresh", Description: "Reload the current tab.", Category: "Browser"},
		{Name: "chat_with_chatbot", Description: "General conversation.", Argument: "the full request"},
	}
}

func TestBuilder_Idempotent(t *testing.T) {
	b := NewBuilder(sampleSpecs(), "Jarvis")

	first := b.Build(frozen)
	second := b.Build(frozen)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("prompt changed between calls (-first +second):\n%s", diff)
	}

	assert.NotEqual(t, first, b.Build(frozen.Add(time.Second)), "prompt must embed live time")
}

func TestBuilder_Content(t *testing.T) {
	out := NewBuilder(sampleSpecs(), "Jarvis").Build(frozen)

	assert.Contains(t, out, `{"function": "function_name", "query": "user_query"}`)
	assert.Contains(t, out, "- open_website: Open a website. Argument: site name or URL\n")
	assert.Contains(t, out, "- get_time: Tell the current time.\n")
	assert.Contains(t, out, `use "chat_with_chatbot"`)

	// categories in first-appearance order, members grouped
	browser := strings.Index(out, "## Browser")
	system := strings.Index(out, "## System")
	general := strings.Index(out, "## General")
	require.True(t, browser > 0 && system > browser && general > system)
	assert.Less(t, strings.Index(out, "browser_refresh"), system)

	assert.Contains(t, out, "Day: Tuesday\nDate: 05\nMonth: March\nYear: 2024\nTime: 14 hours, 07 minutes, 09 seconds.\n")
}

func TestBuilder_EmptySpecs(t *testing.T) {
	out := NewBuilder(nil, "Jarvis").Build(frozen)
	assert.Contains(t, out, "(no functions available)")
	assert.Contains(t, out, `{"function": "function_name", "query": "user_query"}`)
	assert.NotContains(t, out, "chat_with_chatbot")
}

func TestBuilder_CopiesSpecs(t *testing.T) {
	specs := sampleSpecs()
	b := NewBuilder(specs, "Jarvis")
	before := b.Build(frozen)

	specs[0].Name = "mutated"
	assert.Equal(t, before, b.Build(frozen))
}

func TestLoadPersona(t *testing.T) {
	t.Run("embedded default", func(t *testing.T) {
		out, err := LoadPersona(filepath.Join(t.TempDir(), "PERSONA.md"), "Tony", "Jarvis")
		require.NoError(t, err)
		assert.Contains(t, out, "I am Tony")
		assert.Contains(t, out, "You are Jarvis")
		assert.Contains(t, out, "Hinglish")
	})

	t.Run("override file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "PERSONA.md")
		require.NoError(t, os.WriteFile(path, []byte("Be {{.Assistant}} for {{.User}}."), 0o644))

		out, err := LoadPersona(path, "Tony", "Friday")
		require.NoError(t, err)
		assert.Equal(t, "Be Friday for Tony.", out)
	})

	t.Run("broken template", func(t *testing.T) {
		_, err := RenderPersona("{{.User", "a", "b")
		assert.Error(t, err)
	})
}

func TestSearchResults(t *testing.T) {
	assert.Equal(t,
		"The search results for 'go' are:\n[start]\nresult\n[end]",
		SearchResults("go", "result"),
	)
}
