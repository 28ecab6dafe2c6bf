package typeplan

import (
	"errors"
	"reflect"
	"sync"

	"entity-mapper/entity"
	"entity-mapper/internal/common"
)

var ErrNilType = errors.New("nil type")

// Classifier resolves types to plans and caches them.
//
// Resolve is safe for concurrent use. Prepend must not race with Resolve.
type Classifier struct {
	marker    entity.Marker
	factories []Factory
	onBuild   func(*Plan)

	plans sync.Map // reflect.Type -> *Plan
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithMarker sets the entity marker. The default reads `mapper:",key"` struct tags.
func WithMarker(m entity.Marker) Option {
	return func(c *Classifier) { c.marker = m }
}

// WithFactories puts factories ahead of the built-in chain.
func WithFactories(f ...Factory) Option {
	return func(c *Classifier) { c.Prepend(f...) }
}

// WithBuildHook calls fn once for every plan stored in the cache.
func WithBuildHook(fn func(*Plan)) Option {
	return func(c *Classifier) { c.onBuild = fn }
}

// New creates a Classifier with the built-in factory chain.
func New(opts ...Option) *Classifier {
	c := &Classifier{
		marker:    entity.TagMarker{},
		factories: DefaultFactories(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Marker returns the entity marker in use.
func (c *Classifier) Marker() entity.Marker { return c.marker }

// Prepend adds factories that take priority over every factory already registered.
func (c *Classifier) Prepend(f ...Factory) {
	c.factories = append(append([]Factory(nil), f...), c.factories...)
}

// Resolve returns the plan of t. Pointer types resolve to the plan of their base type.
func (c *Classifier) Resolve(t reflect.Type) (*Plan, error) {
	t = common.BaseType(t)
	if t == nil {
		return nil, ErrNilType
	}

	if p, ok := c.plans.Load(t); ok {
		return p.(*Plan), nil
	}

	p, err := c.build(t)
	if err != nil {
		return nil, err
	}

	actual, loaded := c.plans.LoadOrStore(t, p)
	if !loaded && c.onBuild != nil {
		c.onBuild(p)
	}

	return actual.(*Plan), nil
}

// Len returns the number of cached plans.
func (c *Classifier) Len() int {
	n := 0
	c.plans.Range(func(_, _ any) bool {
		n++
		return true
	})

	return n
}

func (c *Classifier) build(t reflect.Type) (*Plan, error) {
	for _, f := range c.factories {
		p, err := f.Build(c, t)
		if err != nil {
			return nil, err
		}

		if p != nil {
			return p, nil
		}
	}

	switch t.Kind() {
	case reflect.Func, reflect.Chan, reflect.UnsafePointer, reflect.Invalid:
		return nil, &UnresolvedTypeError{Type: t}
	}

	return &Plan{Kind: KindScalar, Type: t}, nil
}

// Warm resolves the given types and every type reachable through their members,
// elements and dictionary values.
func (c *Classifier) Warm(types ...reflect.Type) error {
	var d dealer
	for _, t := range types {
		d.Needs(t)
	}

	for {
		t, ok := d.Next()
		if !ok {
			return nil
		}

		p, err := c.Resolve(t)
		if err != nil {
			return err
		}

		for _, m := range p.Members {
			if !m.Ignored {
				d.Needs(m.Type)
			}
		}

		if p.Elem != nil {
			d.Needs(p.Elem)
		}
	}
}

// dealer is a worklist that hands out every needed type exactly once.
type dealer struct {
	needs map[reflect.Type]struct{}
	done  map[reflect.Type]struct{}
}

func (d *dealer) Next() (reflect.Type, bool) {
	for t := range d.needs {
		delete(d.needs, t)
		d.Done(t)

		return t, true
	}

	return nil, false
}

func (d *dealer) Needs(t reflect.Type) {
	t = common.BaseType(t)
	if t == nil {
		return
	}

	if d.needs == nil {
		d.needs = make(map[reflect.Type]struct{})
	}

	if _, exists := d.done[t]; !exists {
		d.needs[t] = struct{}{}
	}
}

func (d *dealer) Done(t reflect.Type) {
	if d.done == nil {
		d.done = make(map[reflect.Type]struct{})
	}

	delete(d.needs, t)
	d.done[t] = struct{}{}
}
