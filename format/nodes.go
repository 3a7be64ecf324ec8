package format

import (
	"reflect"
	"sort"

	"github.com/iw2rmb/richbridge/delta"
)

// Nodes creates one node per maximal run of an inline format with an equal
// value. Unregistered and block formats are skipped. Nodes are ordered by
// position, then by name.
func (r *Registry) Nodes(d delta.Delta) []Node {
	if r == nil {
		return nil
	}
	type run struct {
		name string
		span Span
	}
	var (
		done   []run
		open   = map[string]*run{}
		offset int
	)
	closeRun := func(name string) {
		if ru, ok := open[name]; ok {
			done = append(done, *ru)
			delete(open, name)
		}
	}

	for _, op := range d.Ops() {
		if op.Kind() != delta.KindInsert {
			continue
		}
		n := op.Len()
		for name := range open {
			if !op.Attributes.Has(name) {
				closeRun(name)
			}
		}
		for name, value := range op.Attributes {
			if !op.Attributes.Has(name) {
				continue
			}
			f, ok := r.Lookup(name)
			if !ok || f.Scope() != ScopeInline {
				continue
			}
			if ru, ok := open[name]; ok && reflect.DeepEqual(ru.span.Value, value) && ru.span.End() == offset {
				ru.span.Length += n
				continue
			}
			closeRun(name)
			open[name] = &run{name: name, span: Span{Index: offset, Length: n, Value: value}}
		}
		offset += n
	}
	for name := range open {
		closeRun(name)
	}

	sort.Slice(done, func(i, j int) bool {
		if done[i].span.Index != done[j].span.Index {
			return done[i].span.Index < done[j].span.Index
		}
		return done[i].name < done[j].name
	})

	out := make([]Node, 0, len(done))
	for _, ru := range done {
		f, _ := r.Lookup(ru.name)
		node := f.Create(ru.span)
		node.Format = ru.name
		node.Span = ru.span
		out = append(out, node)
	}
	return out
}
