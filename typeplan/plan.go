package typeplan

import (
	"fmt"
	"reflect"

	"entity-mapper/entity"
	"entity-mapper/internal/common"
)

// Plan is the immutable description of how values of one type are mapped.
type Plan struct {
	Kind KindEnum
	// Type is the pointer-stripped type the plan describes.
	Type reflect.Type

	// Members lists exported struct fields for KindComplex and KindEntity.
	Members []Member
	// Keys lists the key members of KindEntity in key order.
	Keys []Member

	// Elem is the element type of KindCollection and the value type of KindDictionary.
	Elem reflect.Type
	// KeyType is the key type of KindDictionary.
	KeyType reflect.Type

	// Converters holds custom scalar converters by pointer-stripped source type.
	Converters map[reflect.Type]Caster
}

// Member is one exported struct field of a Complex or Entity plan.
type Member struct {
	// Name is the Go field name.
	Name string
	// Pair is the name used to find the counterpart member; the tag name when set.
	Pair  string
	Index []int
	Type  reflect.Type

	Key        bool
	Owned      bool
	Associated bool
	Ignored    bool
}

// Member returns the member with the given Go name.
func (p *Plan) Member(name string) (Member, bool) {
	for _, m := range p.Members {
		if m.Name == name {
			return m, true
		}
	}

	return Member{}, false
}

// Converter returns the custom converter accepting src, if any.
func (p *Plan) Converter(src reflect.Type) (Caster, bool) {
	if p.Converters == nil {
		return Caster{}, false
	}

	c, ok := p.Converters[common.BaseType(src)]

	return c, ok
}

// IsEntity reports whether the plan describes an entity type.
func (p *Plan) IsEntity() bool { return p.Kind == KindEntity }

// KeyOf reads the entity key of v, which must be a value (or pointer to a value) of p.Type.
func (p *Plan) KeyOf(v reflect.Value) (entity.Key, error) {
	if p.Kind != KindEntity {
		return entity.Key{}, fmt.Errorf("%s is not an entity", p)
	}

	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return entity.Key{}, nil
		}

		v = v.Elem()
	}

	values := make([]reflect.Value, len(p.Keys))
	for i, k := range p.Keys {
		values[i] = v.FieldByIndex(k.Index)
	}

	return entity.KeyOf(values...)
}

func (p *Plan) String() string {
	return p.Kind.String() + "(" + common.ShortTypeName(p.Type) + ")"
}

// Value returns the member of v (an addressable struct value) described by m.
func (m Member) Value(v reflect.Value) reflect.Value {
	return v.FieldByIndex(m.Index)
}
