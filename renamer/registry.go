package renamer

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Factory builds a new, independent renamer
type Factory func() Renamer

// Registry maps the renaming modes accepted in the configuration to the
// strategies that implement them
type Registry struct {
	factories map[string]Factory
}

func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// DefaultRegistry contains every built-in strategy
func DefaultRegistry() *Registry {
	registry := NewRegistry()
	registry.Register("serial", func() Renamer { return NewSerial() })
	registry.Register("shorten", func() Renamer { return NewShorten() })
	registry.Register("space", func() Renamer { return NewSpace() })
	registry.Register("md5", func() Renamer { return NewMD5() })
	return registry
}

func (r *Registry) Register(mode string, factory Factory) {
	r.factories[mode] = factory
}

// New builds a renamer for the mode, or returns false if the mode is unknown
func (r *Registry) New(mode string) (Renamer, bool) {
	factory, ok := r.factories[mode]
	if !ok {
		return nil, false
	}
	return factory(), true
}

// Modes lists every registered mode, sorted
func (r *Registry) Modes() []string {
	modes := maps.Keys(r.factories)
	slices.Sort(modes)
	return modes
}
