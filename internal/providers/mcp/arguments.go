package mcp

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	mcpproto "github.com/mark3labs/mcp-go/mcp"
)

// parameter names tried, in order, when a schema has several candidates
var commonParams = []string{"query", "q", "text", "input", "url", "prompt"}

// arguments maps the single query string of a registry call onto the
// structured arguments of an MCP tool.
type arguments struct {
	props    map[string]any
	required []string
	target   string
}

func newArguments(schema mcpproto.ToolInputSchema) arguments {
	a := arguments{props: schema.Properties, required: schema.Required}
	a.target = a.pickTarget()
	return a
}

func (a arguments) pickTarget() string {
	if len(a.required) == 1 {
		return a.required[0]
	}
	if len(a.props) == 1 {
		for name := range a.props {
			return name
		}
	}
	for _, name := range commonParams {
		if _, ok := a.props[name]; ok {
			return name
		}
	}
	return ""
}

// Map builds the call arguments. A query holding a JSON object is passed
// through, anything else goes into the target parameter.
func (a arguments) Map(query string) (map[string]any, error) {
	q := strings.TrimSpace(query)
	if strings.HasPrefix(q, "{") {
		args := make(map[string]any)
		if err := json.Unmarshal([]byte(q), &args); err == nil {
			return args, nil
		}
	}

	if len(a.props) == 0 {
		return map[string]any{}, nil
	}
	if a.target == "" {
		return nil, fmt.Errorf("tool expects a JSON object with: %s", strings.Join(a.names(), ", "))
	}

	v, err := convert(q, a.typeOf(a.target))
	if err != nil {
		return nil, fmt.Errorf("argument %s: %w", a.target, err)
	}
	return map[string]any{a.target: v}, nil
}

// Describe renders the argument hint shown in the function listing.
func (a arguments) Describe() string {
	if len(a.props) == 0 {
		return "none"
	}
	if a.target != "" && len(a.props) == 1 {
		return a.describeParam(a.target)
	}

	parts := make([]string, 0, len(a.props))
	for _, name := range a.names() {
		parts = append(parts, fmt.Sprintf("%s (%s)", name, a.typeOf(name)))
	}
	hint := "JSON object with " + strings.Join(parts, ", ")
	if a.target != "" {
		hint += ", or plain text for " + a.target
	}
	return hint
}

func (a arguments) describeParam(name string) string {
	if prop, ok := a.props[name].(map[string]any); ok {
		if d, ok := prop["description"].(string); ok && d != "" {
			return d
		}
	}
	return name
}

func (a arguments) typeOf(name string) string {
	if prop, ok := a.props[name].(map[string]any); ok {
		if t, ok := prop["type"].(string); ok {
			return t
		}
	}
	return "string"
}

func (a arguments) names() []string {
	names := make([]string, 0, len(a.props))
	for name := range a.props {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func convert(value, typ string) (any, error) {
	switch typ {
	case "integer":
		return strconv.ParseInt(value, 10, 64)
	case "number":
		return strconv.ParseFloat(value, 64)
	case "boolean":
		return strconv.ParseBool(value)
	case "array":
		return []any{value}, nil
	}
	return value, nil
}
