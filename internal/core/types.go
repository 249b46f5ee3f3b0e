package core

const (
	JarvisName          = "Jarvis"
	JarvisUserAgent     = "Jarvis-Assistant/0.1"
	JarvisRepositoryURL = "https://github.com/sandevgo/jarvis"
	JarvisVersion       = "0.1.0"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single conversation turn. The same shape is sent to the
// model and persisted to the conversation log.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// FunctionSpec describes a callable collaborator. Name is the unique key.
type FunctionSpec struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Argument    string `json:"argument"`
	Category    string `json:"category,omitempty"`
}

type Model struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	ContextLength int    `json:"context_length,omitempty"`
}

// DispatchResult carries the outcome of a function invocation. Output is
// always displayable, also on failure.
type DispatchResult struct {
	Success bool
	Output  string
}
