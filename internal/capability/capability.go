// Package capability exposes research operations as named, self-describing
// tools that take string arguments and return text.
package capability

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/webresearch/internal/failure"
)

// ErrUnknown is returned when no capability has the requested name.
var ErrUnknown = errors.New("unknown capability")

// Args are the string arguments of one invocation.
type Args map[string]string

// Param describes one argument a capability accepts.
type Param struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Required    bool   `json:"required" yaml:"required"`
}

// Capability is one invocable research operation.
type Capability interface {
	Name() string
	Description() string
	Params() []Param
	Invoke(ctx context.Context, args Args) (string, error)
}

// Registry holds capabilities by name.
type Registry struct {
	byName map[string]Capability
}

// NewRegistry creates a Registry. A later capability replaces an earlier
// one with the same name.
func NewRegistry(caps ...Capability) *Registry {
	r := &Registry{byName: make(map[string]Capability, len(caps))}
	for _, c := range caps {
		r.byName[c.Name()] = c
	}
	return r
}

// Get returns the capability called name.
func (r *Registry) Get(name string) (Capability, bool) {
	c, ok := r.byName[name]
	return c, ok
}

// List returns all capabilities sorted by name.
func (r *Registry) List() []Capability {
	out := make([]Capability, 0, len(r.byName))
	for _, c := range r.byName {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

// Invoke checks args against the capability's required params and runs it.
func (r *Registry) Invoke(ctx context.Context, name string, args Args) (string, error) {
	c, ok := r.Get(name)
	if !ok {
		return "", eris.Wrapf(ErrUnknown, "capability: %q", name)
	}
	if err := checkArgs(c, args); err != nil {
		return "", err
	}
	return c.Invoke(ctx, args)
}

func checkArgs(c Capability, args Args) error {
	var missing []string
	for _, p := range c.Params() {
		if p.Required && strings.TrimSpace(args[p.Name]) == "" {
			missing = append(missing, p.Name)
		}
	}
	if len(missing) > 0 {
		return failure.Input("capability: "+c.Name(),
			eris.Errorf("missing required argument(s): %s", strings.Join(missing, ", ")))
	}
	return nil
}
