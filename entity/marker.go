package entity

import (
	"reflect"
	"strings"
	"sync"

	"entity-mapper/internal/common"
)

// TagName is the struct tag read by TagMarker and by member table builders.
const TagName = "mapper"

// Descriptor marks a type as an entity and lists its key members in order.
type Descriptor struct {
	Keys []string
}

// Marker decides whether a type is an entity.
type Marker interface {
	Describe(t reflect.Type) (Descriptor, bool)
}

// MarkerFunc adapts a function to Marker.
type MarkerFunc func(t reflect.Type) (Descriptor, bool)

// Describe calls f.
func (f MarkerFunc) Describe(t reflect.Type) (Descriptor, bool) { return f(t) }

// Registry holds explicit entity marks. It is safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	byType map[reflect.Type]Descriptor
	byName map[string]Descriptor
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		byType: make(map[reflect.Type]Descriptor),
		byName: make(map[string]Descriptor),
	}
}

// Mark registers t (pointers are stripped) as an entity keyed by the named members.
func (r *Registry) Mark(t reflect.Type, keys ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byType[common.BaseType(t)] = Descriptor{Keys: append([]string(nil), keys...)}
}

// MarkName registers an entity by name, either "import/path.Name" or "alias.Name".
func (r *Registry) MarkName(name string, keys ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byName[name] = Descriptor{Keys: append([]string(nil), keys...)}
}

// Describe implements Marker.
func (r *Registry) Describe(t reflect.Type) (Descriptor, bool) {
	t = common.BaseType(t)

	r.mu.RLock()
	defer r.mu.RUnlock()

	if d, ok := r.byType[t]; ok {
		return d, true
	}

	if len(r.byName) == 0 {
		return Descriptor{}, false
	}

	if d, ok := r.byName[common.FullTypeName(t)]; ok {
		return d, true
	}

	d, ok := r.byName[common.ShortTypeName(t)]

	return d, ok
}

// Len returns the number of marks.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.byType) + len(r.byName)
}

// Mark is a typed shorthand for r.Mark(reflect.TypeFor[T](), keys...).
func Mark[T any](r *Registry, keys ...string) {
	r.Mark(reflect.TypeFor[T](), keys...)
}

// TagMarker marks struct types that have at least one field tagged `mapper:",key"`.
// Key order follows field order.
type TagMarker struct{}

// Describe implements Marker.
func (TagMarker) Describe(t reflect.Type) (Descriptor, bool) {
	t = common.BaseType(t)
	if t.Kind() != reflect.Struct {
		return Descriptor{}, false
	}

	var keys []string

	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}

		if ParseTag(f.Tag).Key {
			keys = append(keys, f.Name)
		}
	}

	if len(keys) == 0 {
		return Descriptor{}, false
	}

	return Descriptor{Keys: keys}, true
}

// Chain asks each marker in order and returns the first match.
type Chain []Marker

// Describe implements Marker.
func (c Chain) Describe(t reflect.Type) (Descriptor, bool) {
	for _, m := range c {
		if m == nil {
			continue
		}

		if d, ok := m.Describe(t); ok {
			return d, true
		}
	}

	return Descriptor{}, false
}

// TagOptions is the parsed `mapper` struct tag.
//
// Format: `mapper:"[name][,key][,owned][,associated]"`, or `mapper:"-"` to skip the member.
type TagOptions struct {
	// Name is the member name to pair with on the other side; empty keeps the field name.
	Name       string
	Ignore     bool
	Key        bool
	Owned      bool
	Associated bool
}

// ParseTag parses the `mapper` tag of a struct field.
func ParseTag(tag reflect.StructTag) TagOptions {
	raw, ok := tag.Lookup(TagName)
	if !ok {
		return TagOptions{}
	}

	if raw == "-" {
		return TagOptions{Ignore: true}
	}

	name, rest, _ := strings.Cut(raw, ",")
	opts := TagOptions{Name: strings.TrimSpace(name)}

	for flag := range strings.SplitSeq(rest, ",") {
		switch strings.TrimSpace(flag) {
		case "key":
			opts.Key = true
		case "owned":
			opts.Owned = true
		case "associated":
			opts.Associated = true
		}
	}

	return opts
}
