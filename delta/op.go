package delta

import (
	"reflect"
	"unicode/utf8"
)

type Kind string

const (
	KindInsert Kind = "insert"
	KindRetain Kind = "retain"
	KindDelete Kind = "delete"
)

// AttributeMap holds the formats applied to an op. A nil value removes the
// attribute when composed.
type AttributeMap map[string]any

// Op is one delta operation. Exactly one of Insert, Embed, Retain or Delete is
// set.
type Op struct {
	Insert     string
	Embed      map[string]any
	Retain     int
	Delete     int
	Attributes AttributeMap
}

func (o Op) Kind() Kind {
	switch {
	case o.Delete > 0:
		return KindDelete
	case o.Retain > 0:
		return KindRetain
	default:
		return KindInsert
	}
}

// Len returns the op length in document offsets.
func (o Op) Len() int {
	switch {
	case o.Delete > 0:
		return o.Delete
	case o.Retain > 0:
		return o.Retain
	case o.Embed != nil:
		return 1
	default:
		return utf8.RuneCountInString(o.Insert)
	}
}

func (o Op) isTextInsert() bool {
	return o.Delete == 0 && o.Retain == 0 && o.Embed == nil
}

func (o Op) isEmbed() bool {
	return o.Delete == 0 && o.Retain == 0 && o.Embed != nil
}

func (o Op) clone() Op {
	out := o
	out.Attributes = o.Attributes.clone()
	if o.Embed != nil {
		out.Embed = make(map[string]any, len(o.Embed))
		for k, v := range o.Embed {
			out.Embed[k] = v
		}
	}
	return out
}

func (a AttributeMap) clone() AttributeMap {
	if len(a) == 0 {
		return nil
	}
	out := make(AttributeMap, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// Equal reports whether a and b carry the same attributes. Nil and empty maps
// are equal.
func (a AttributeMap) Equal(b AttributeMap) bool {
	if len(a) != len(b) {
		return false
	}
	for k, av := range a {
		bv, ok := b[k]
		if !ok || !reflect.DeepEqual(av, bv) {
			return false
		}
	}
	return true
}

// Has reports whether name is set to a value other than nil or false.
func (a AttributeMap) Has(name string) bool {
	v, ok := a[name]
	if !ok || v == nil {
		return false
	}
	if b, isBool := v.(bool); isBool && !b {
		return false
	}
	return true
}

func composeAttributes(a, b AttributeMap, keepNull bool) AttributeMap {
	attrs := make(AttributeMap, len(a)+len(b))
	for k, v := range b {
		if v == nil && !keepNull {
			continue
		}
		attrs[k] = v
	}
	for k, v := range a {
		if _, ok := b[k]; !ok {
			attrs[k] = v
		}
	}
	if len(attrs) == 0 {
		return nil
	}
	return attrs
}

func diffAttributes(a, b AttributeMap) AttributeMap {
	attrs := make(AttributeMap)
	for k, av := range a {
		bv, ok := b[k]
		if !ok {
			attrs[k] = nil
			continue
		}
		if !reflect.DeepEqual(av, bv) {
			attrs[k] = bv
		}
	}
	for k, bv := range b {
		if _, ok := a[k]; !ok {
			attrs[k] = bv
		}
	}
	if len(attrs) == 0 {
		return nil
	}
	return attrs
}
