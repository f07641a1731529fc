package petalskill

import "sync"

var (
	global     *Registry
	globalOnce sync.Once
)

// Global returns the process-wide skill registry. Skill packages register
// their definitions here (typically from init) so hosts and the CLI can
// discover them by name.
func Global() *Registry {
	globalOnce.Do(func() {
		global = NewRegistry()
	})
	return global
}

// Registry holds skill definitions keyed by skill name, preserving
// registration order for listing.
type Registry struct {
	mu     sync.RWMutex
	skills map[string]*Definition
	order  []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		skills: make(map[string]*Definition),
	}
}

// Register adds a definition. Registering a name twice overwrites the
// previous definition; in-skill duplicate detection happens at Build time,
// while the registry is a host-side directory.
func (r *Registry) Register(def *Definition) {
	r.mu.Lock()
	defer r.mu.Unlock()
	name := def.meta.Name
	if _, exists := r.skills[name]; !exists {
		r.order = append(r.order, name)
	}
	r.skills[name] = def
}

// Get returns a definition by skill name.
func (r *Registry) Get(name string) (*Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.skills[name]
	return def, ok
}

// All returns all definitions in registration order.
func (r *Registry) All() []*Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Definition, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.skills[name])
	}
	return out
}

// Len returns the number of registered skills.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.skills)
}
