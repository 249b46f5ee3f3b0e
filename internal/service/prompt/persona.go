package prompt

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"text/template"

	"github.com/sandevgo/jarvis/configs"
)

type personaVars struct {
	User      string
	Assistant string
}

// LoadPersona renders the persona prompt from path, falling back to the
// embedded default when the file does not exist.
func LoadPersona(path, user, assistant string) (string, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) || path == "" {
		data, err = configs.FS.ReadFile("persona.md")
	}
	if err != nil {
		return "", fmt.Errorf("read persona: %w", err)
	}
	return RenderPersona(string(data), user, assistant)
}

func RenderPersona(text, user, assistant string) (string, error) {
	tpl, err := template.New("persona").Parse(text)
	if err != nil {
		return "", fmt.Errorf("parse persona: %w", err)
	}

	var buf bytes.Buffer
	if err := tpl.Execute(&buf, personaVars{User: user, Assistant: assistant}); err != nil {
		return "", fmt.Errorf("render persona: %w", err)
	}
	return buf.String(), nil
}

// SearchSystem instructs the model to answer from injected search results.
func SearchSystem(user, assistant string) string {
	return fmt.Sprintf(
		"Hello, I am %s. You are %s, a voice assistant with real-time information from the internet.\n"+
			"*** Answer the question using the provided search results. ***\n"+
			"*** Be brief, use proper grammar and punctuation, the answer is read aloud. ***\n"+
			"*** If the results do not contain the answer, say so in one sentence. ***",
		user, assistant,
	)
}

// SearchResults wraps raw result text for injection into the prompt.
func SearchResults(query, results string) string {
	return fmt.Sprintf("The search results for '%s' are:\n[start]\n%s\n[end]", query, results)
}
