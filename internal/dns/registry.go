// =============================================================================
// internal/dns/registry.go - Named resolver target registry
// =============================================================================
package dns

import "fmt"

// Registry is an immutable, named set of resolver targets. It is built once
// from configuration and passed into the Orchestrator; there is no
// process-wide registry state.
type Registry struct {
	targets map[string]Target
	order   []string
}

// NewRegistry builds a registry from targets, preserving their order.
func NewRegistry(targets []Target) (*Registry, error) {
	reg := &Registry{
		targets: make(map[string]Target, len(targets)),
		order:   make([]string, 0, len(targets)),
	}
	for _, t := range targets {
		if t.Name == "" {
			return nil, fmt.Errorf("resolver target with empty name")
		}
		if _, exists := reg.targets[t.Name]; exists {
			return nil, fmt.Errorf("duplicate resolver target %q", t.Name)
		}
		switch t.Kind {
		case TargetUDP:
			if t.Address == "" {
				return nil, fmt.Errorf("udp target %q has no address", t.Name)
			}
		case TargetDoH:
			if t.URL == "" {
				return nil, fmt.Errorf("doh target %q has no url", t.Name)
			}
		case TargetSystem:
		default:
			return nil, fmt.Errorf("target %q has unknown kind %q", t.Name, t.Kind)
		}
		reg.targets[t.Name] = t
		reg.order = append(reg.order, t.Name)
	}
	return reg, nil
}

// Get looks up a target by name.
func (r *Registry) Get(name string) (Target, bool) {
	t, ok := r.targets[name]
	return t, ok
}

// Names returns all target names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// NamesOfKind returns the names of all targets of the given kinds, in
// registration order.
func (r *Registry) NamesOfKind(kinds ...TargetKind) []string {
	var names []string
	for _, name := range r.order {
		for _, kind := range kinds {
			if r.targets[name].Kind == kind {
				names = append(names, name)
				break
			}
		}
	}
	return names
}
