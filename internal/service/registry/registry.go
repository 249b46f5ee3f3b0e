// Package registry holds the immutable table of callable functions. The
// same table feeds the prompt listing, the intent schema and dispatch.
package registry

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sandevgo/jarvis/internal/core"
)

var (
	ErrEmptyName     = errors.New("function name is empty")
	ErrInvalidName   = errors.New("function name has surrounding whitespace")
	ErrDuplicateName = errors.New("function already registered")
	ErrNilHandler    = errors.New("function handler is nil")
)

type Function struct {
	Spec    core.FunctionSpec
	Handler Handler
}

// Builder collects functions during startup.
type Builder struct {
	funcs  []Function
	byName map[string]int
}

func NewBuilder() *Builder {
	return &Builder{byName: make(map[string]int)}
}

func (b *Builder) Register(spec core.FunctionSpec, h Handler) error {
	name := strings.TrimSpace(spec.Name)
	if name == "" {
		return fmt.Errorf("%w: %q", ErrEmptyName, spec.Name)
	}
	if name != spec.Name {
		return fmt.Errorf("%w: %q", ErrInvalidName, spec.Name)
	}
	if h == nil {
		return fmt.Errorf("%w: %s", ErrNilHandler, name)
	}
	if _, ok := b.byName[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateName, name)
	}

	b.byName[name] = len(b.funcs)
	b.funcs = append(b.funcs, Function{Spec: spec, Handler: h})
	return nil
}

// Build freezes the collected functions. The builder may keep being used;
// later registrations do not affect registries already built.
func (b *Builder) Build() (*Registry, error) {
	r := &Registry{
		funcs:  make([]Function, len(b.funcs)),
		byName: make(map[string]Function, len(b.funcs)),
	}
	copy(r.funcs, b.funcs)
	for _, f := range r.funcs {
		r.byName[f.Spec.Name] = f
	}

	schema, err := buildIntentSchema(r.Names())
	if err != nil {
		return nil, fmt.Errorf("build intent schema: %w", err)
	}
	r.schema = schema
	return r, nil
}

// Registry is read-only after Build and safe for concurrent use.
type Registry struct {
	funcs  []Function
	byName map[string]Function
	schema []byte
}

// Lookup is an exact, case-sensitive match.
func (r *Registry) Lookup(name string) (Function, bool) {
	f, ok := r.byName[name]
	return f, ok
}

// Specs returns the function specs in registration order.
func (r *Registry) Specs() []core.FunctionSpec {
	specs := make([]core.FunctionSpec, len(r.funcs))
	for i, f := range r.funcs {
		specs[i] = f.Spec
	}
	return specs
}

func (r *Registry) Names() []string {
	names := make([]string, len(r.funcs))
	for i, f := range r.funcs {
		names[i] = f.Spec.Name
	}
	return names
}

func (r *Registry) Len() int {
	return len(r.funcs)
}

// IntentSchema is the JSON schema a function-call reply must satisfy.
func (r *Registry) IntentSchema() []byte {
	out := make([]byte, len(r.schema))
	copy(out, r.schema)
	return out
}
