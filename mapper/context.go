package mapper

import (
	"reflect"

	"github.com/google/uuid"

	"entity-mapper/entity"
	"entity-mapper/internal/common"
)

// Entry is the identity record of one entity reached during a mapping call.
type Entry struct {
	// Type is the base target type.
	Type reflect.Type
	Key  entity.Key
	// Target is a pointer to the target instance.
	Target reflect.Value
	Action Action

	// allocated is set when Target was created by the mapper rather than taken
	// from the caller's target graph.
	allocated bool
}

// Instance returns the target instance (a pointer).
func (e *Entry) Instance() any {
	return e.Target.Interface()
}

func (e *Entry) String() string {
	return common.ShortTypeName(e.Type) + e.Key.String() + " " + e.Action.String()
}

type entryID struct {
	typ reflect.Type
	key entity.Key
}

// Context records the entities of one top-level mapping call.
// It is not safe for concurrent use.
type Context struct {
	id      uuid.UUID
	entries map[entryID]*Entry
	order   []*Entry
}

// NewContext creates an empty context with a fresh correlation id.
func NewContext() *Context {
	return &Context{
		id:      uuid.New(),
		entries: make(map[entryID]*Entry),
	}
}

// ID returns the correlation id used in log events.
func (c *Context) ID() uuid.UUID { return c.id }

// TryGetEntry returns the entry of a persisted identity. Transient (zero) keys are never found.
func (c *Context) TryGetEntry(t reflect.Type, key entity.Key) (*Entry, bool) {
	if key.IsZero() {
		return nil, false
	}

	e, ok := c.entries[entryID{common.BaseType(t), key}]

	return e, ok
}

// Register records target under (t, key).
//
// Registering the same instance again returns the existing entry with the stronger
// of both actions. A different instance for a known identity is a *KeyConflictError.
// Zero keys are transient: every registration creates a new entry.
func (c *Context) Register(t reflect.Type, key entity.Key, target reflect.Value, action Action) (*Entry, error) {
	t = common.BaseType(t)
	target = instancePointer(target)

	if !key.IsZero() {
		if e, ok := c.entries[entryID{t, key}]; ok {
			if !sameInstance(e.Target, target) {
				return nil, &KeyConflictError{
					Type:     t,
					Key:      key,
					Existing: e.Instance(),
					Incoming: target.Interface(),
				}
			}

			if action.outranks(e.Action) {
				e.Action = action
			}

			return e, nil
		}
	}

	e := &Entry{Type: t, Key: key, Target: target, Action: action}
	if !key.IsZero() {
		c.entries[entryID{t, key}] = e
	}

	c.order = append(c.order, e)

	return e, nil
}

// Entries returns every entry in registration order, transient ones included.
func (c *Context) Entries() []*Entry {
	res := make([]*Entry, len(c.order))
	copy(res, c.order)

	return res
}

// Len returns the number of entries.
func (c *Context) Len() int { return len(c.order) }

// Count returns the number of entries with the given action.
func (c *Context) Count(action Action) int {
	n := 0

	for _, e := range c.order {
		if e.Action == action {
			n++
		}
	}

	return n
}

// instancePointer returns a pointer to the struct held by v.
func instancePointer(v reflect.Value) reflect.Value {
	for v.Kind() == reflect.Pointer && v.Elem().Kind() == reflect.Pointer {
		v = v.Elem()
	}

	if v.Kind() == reflect.Pointer {
		return v
	}

	if v.CanAddr() {
		return v.Addr()
	}

	p := reflect.New(v.Type())
	p.Elem().Set(v)

	return p
}

func sameInstance(a, b reflect.Value) bool {
	return a.Type() == b.Type() && a.Pointer() == b.Pointer()
}
