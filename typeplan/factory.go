package typeplan

import (
	"fmt"
	"reflect"

	"entity-mapper/entity"
	"entity-mapper/internal/common"
	"entity-mapper/primitive"
)

// Factory builds the plan of a pointer-stripped type, or returns (nil, nil) to decline it.
type Factory interface {
	Build(c *Classifier, t reflect.Type) (*Plan, error)
}

// FactoryFunc adapts a function to Factory.
type FactoryFunc func(c *Classifier, t reflect.Type) (*Plan, error)

// Build calls f.
func (f FactoryFunc) Build(c *Classifier, t reflect.Type) (*Plan, error) { return f(c, t) }

// DefaultFactories returns the built-in chain in priority order.
func DefaultFactories() []Factory {
	return []Factory{
		EntityFactory,
		DictionaryFactory,
		CollectionFactory,
		ScalarFactory,
		ComplexFactory,
	}
}

// EntityFactory claims struct types the classifier's marker describes as entities.
var EntityFactory = FactoryFunc(func(c *Classifier, t reflect.Type) (*Plan, error) {
	if t.Kind() != reflect.Struct || c.marker == nil {
		return nil, nil
	}

	desc, ok := c.marker.Describe(t)
	if !ok {
		return nil, nil
	}

	if common.IsEmpty(desc.Keys) {
		return nil, fmt.Errorf("%w: %s has no key members", ErrInvalidEntity, t)
	}

	if len(desc.Keys) > entity.MaxKeyParts {
		return nil, fmt.Errorf("%w: %s has %d key members, at most %d allowed",
			ErrInvalidEntity, t, len(desc.Keys), entity.MaxKeyParts)
	}

	plan := &Plan{Kind: KindEntity, Type: t, Members: members(t)}

	for _, name := range desc.Keys {
		m, ok := plan.Member(name)
		if !ok {
			return nil, fmt.Errorf("%w: %s has no exported key member %q", ErrInvalidEntity, t, name)
		}

		if !m.Type.Comparable() {
			return nil, fmt.Errorf("%w: key member %s.%s of type %s is not comparable", ErrInvalidEntity, t, name, m.Type)
		}

		plan.Keys = append(plan.Keys, m)
	}

	return plan, nil
})

// DictionaryFactory claims maps keyed by a string kind.
var DictionaryFactory = FactoryFunc(func(_ *Classifier, t reflect.Type) (*Plan, error) {
	if t.Kind() != reflect.Map || t.Key().Kind() != reflect.String {
		return nil, nil
	}

	return &Plan{Kind: KindDictionary, Type: t, KeyType: t.Key(), Elem: t.Elem()}, nil
})

// CollectionFactory claims slices and arrays, except byte sequences.
var CollectionFactory = FactoryFunc(func(_ *Classifier, t reflect.Type) (*Plan, error) {
	if t.Kind() != reflect.Slice && t.Kind() != reflect.Array {
		return nil, nil
	}

	if isBytes(t) {
		return nil, nil
	}

	return &Plan{Kind: KindCollection, Type: t, Elem: t.Elem()}, nil
})

// ScalarFactory claims primitive kinds, their named variants, time values and byte sequences.
var ScalarFactory = FactoryFunc(func(_ *Classifier, t reflect.Type) (*Plan, error) {
	if !primitive.IsScalar(t) && !isBytes(t) {
		return nil, nil
	}

	return &Plan{Kind: KindScalar, Type: t}, nil
})

// ComplexFactory claims structs with at least one exported member.
var ComplexFactory = FactoryFunc(func(_ *Classifier, t reflect.Type) (*Plan, error) {
	if t.Kind() != reflect.Struct {
		return nil, nil
	}

	ms := members(t)
	if len(ms) == 0 {
		return nil, nil
	}

	return &Plan{Kind: KindComplex, Type: t, Members: ms}, nil
})

func isBytes(t reflect.Type) bool {
	return (t.Kind() == reflect.Slice || t.Kind() == reflect.Array) && t.Elem().Kind() == reflect.Uint8
}

// members lists exported fields, including the ones promoted from embedded
// structs held by value. Fields promoted through embedded pointers are skipped.
func members(t reflect.Type) []Member {
	var res []Member

	for _, f := range reflect.VisibleFields(t) {
		if !f.IsExported() || (f.Anonymous && f.Type.Kind() == reflect.Struct) {
			continue
		}

		if viaPointer(t, f.Index) {
			continue
		}

		tag := entity.ParseTag(f.Tag)
		m := Member{
			Name:       f.Name,
			Pair:       f.Name,
			Index:      f.Index,
			Type:       f.Type,
			Key:        tag.Key,
			Owned:      tag.Owned,
			Associated: tag.Associated,
			Ignored:    tag.Ignore,
		}

		if tag.Name != "" {
			m.Pair = tag.Name
		}

		res = append(res, m)
	}

	return res
}

func viaPointer(t reflect.Type, index []int) bool {
	for _, i := range index[:len(index)-1] {
		t = t.Field(i).Type
		if t.Kind() == reflect.Pointer {
			return true
		}
	}

	return false
}
