// Package tool holds the registry of callable operations shared by the
// servicedesk services. A service registers its tools once at startup; the
// registry is read-only afterwards. The Dispatcher validates arguments
// against the declared schemas before any handler runs.
package tool

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownTool           = errors.New("unknown tool")
	ErrToolAlreadyRegistered = errors.New("tool already registered")
)

// Handler executes one tool call with arguments the registry has already
// validated and defaulted. A returned error is a domain failure (record not
// found, bad state), not a validation failure.
type Handler func(ctx context.Context, args map[string]any) (any, error)

// Descriptor advertises one tool: its name, a human-readable description,
// and the schema its arguments are validated against.
type Descriptor struct {
	Name        string
	Description string
	Schema      Schema
}

type registration struct {
	desc    Descriptor
	handler Handler
}

// Registry maps tool names to their descriptor and handler. Registration
// order is preserved for List.
type Registry struct {
	byName map[string]int
	tools  []registration
}

func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]int)}
}

// Register binds a descriptor to its handler. Names are registered at most
// once; a duplicate is a startup bug, not a runtime condition.
func (r *Registry) Register(desc Descriptor, handler Handler) error {
	name := strings.TrimSpace(desc.Name)
	if name == "" || handler == nil {
		return fmt.Errorf("register tool: name and handler are required")
	}
	if _, exists := r.byName[name]; exists {
		return fmt.Errorf("%w: %s", ErrToolAlreadyRegistered, name)
	}
	desc.Name = name
	r.byName[name] = len(r.tools)
	r.tools = append(r.tools, registration{desc: desc, handler: handler})
	return nil
}

// MustRegister is Register for process initialization, where a duplicate
// name means the binary is miswired.
func (r *Registry) MustRegister(desc Descriptor, handler Handler) {
	if err := r.Register(desc, handler); err != nil {
		panic(err)
	}
}

// List returns the descriptors in registration order.
func (r *Registry) List() []Descriptor {
	out := make([]Descriptor, len(r.tools))
	for i, reg := range r.tools {
		out[i] = reg.desc
	}
	return out
}

// Resolve returns the descriptor and handler bound to name.
func (r *Registry) Resolve(name string) (Descriptor, Handler, error) {
	idx, ok := r.byName[name]
	if !ok {
		return Descriptor{}, nil, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}
	reg := r.tools[idx]
	return reg.desc, reg.handler, nil
}
