package match

import (
	"reflect"

	"entity-mapper/internal/common"
	"entity-mapper/primitive"
)

// CompatEnum is how well a source member type fits a target member type.
type CompatEnum int

const (
	// CompatNone means no mapping exists between the types.
	CompatNone CompatEnum = iota
	// CompatMapped means the values are mapped structurally or through an allowed scalar conversion.
	CompatMapped
	// CompatConvertible means a Go conversion between the base types exists.
	CompatConvertible
	// CompatAssignable means the base source type is assignable to the base target type.
	CompatAssignable
	// CompatIdentical means both types are the same, pointer levels included.
	CompatIdentical
)

func (c CompatEnum) String() string {
	switch c {
	case CompatNone:
		return "none"
	case CompatMapped:
		return "mapped"
	case CompatConvertible:
		return "convertible"
	case CompatAssignable:
		return "assignable"
	case CompatIdentical:
		return "identical"
	default:
		return common.UnknownStr
	}
}

// weight normalizes the level into [0, 1].
func (c CompatEnum) weight() float64 {
	return float64(c) / float64(CompatIdentical)
}

// Compat scores src against dst. Pointer levels are ignored except for CompatIdentical,
// scalar conversions count only when allowed includes their category.
func Compat(src, dst reflect.Type, allowed primitive.CategoryEnum) CompatEnum {
	if src == nil || dst == nil {
		return CompatNone
	}

	if src == dst {
		return CompatIdentical
	}

	s, d := common.BaseType(src), common.BaseType(dst)

	switch {
	case s == d, s.AssignableTo(d):
		return CompatAssignable
	case s.Kind() == d.Kind() && s.ConvertibleTo(d) && s.Kind() != reflect.Struct:
		return CompatConvertible
	}

	if mapped(s, d, allowed) {
		return CompatMapped
	}

	return CompatNone
}

func mapped(s, d reflect.Type, allowed primitive.CategoryEnum) bool {
	switch {
	case s.Kind() == reflect.Struct && d.Kind() == reflect.Struct:
		return true
	case isList(s) && isList(d):
		return Compat(s.Elem(), d.Elem(), allowed) != CompatNone
	case s.Kind() == reflect.Map && d.Kind() == reflect.Map:
		return Compat(s.Key(), d.Key(), allowed) != CompatNone && Compat(s.Elem(), d.Elem(), allowed) != CompatNone
	}

	from, to := primitive.FromUnderlying(s), primitive.FromUnderlying(d)
	if from == 0 || to == 0 {
		return false
	}

	return from == to || allowed.Allows(primitive.ConversionPair{From: from, To: to})
}

func isList(t reflect.Type) bool {
	return t.Kind() == reflect.Slice || t.Kind() == reflect.Array
}
