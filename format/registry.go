package format

import "sort"

// Registry maps format names to formats. It is not safe for concurrent
// mutation; register everything before editors are built.
type Registry struct {
	formats map[string]Format
}

func NewRegistry() *Registry {
	return &Registry{formats: map[string]Format{}}
}

// DefaultRegistry returns a fresh registry holding the built-in formats.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, f := range []Format{
		Bold(), Italic(), Underline(), Strike(), Code(), Link(), List(), NewHighlight(),
	} {
		r.Register(f)
	}
	return r
}

// Register adds f, replacing any format already registered under its name.
func (r *Registry) Register(f Format) {
	if f == nil || f.Name() == "" {
		return
	}
	r.formats[f.Name()] = f
}

func (r *Registry) Lookup(name string) (Format, bool) {
	if r == nil {
		return nil, false
	}
	f, ok := r.formats[name]
	return f, ok
}

func (r *Registry) Has(name string) bool {
	_, ok := r.Lookup(name)
	return ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	out := make([]string, 0, len(r.formats))
	for name := range r.formats {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// BlockNames returns the registered block-scoped format names.
func (r *Registry) BlockNames() []string {
	out := []string{}
	for _, name := range r.Names() {
		if r.formats[name].Scope() == ScopeBlock {
			out = append(out, name)
		}
	}
	return out
}
