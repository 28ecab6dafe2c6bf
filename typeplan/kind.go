package typeplan

//go:generate go tool stringer -type=KindEnum -output=kind_string.go

// KindEnum is the mapping shape of a type.
type KindEnum int

const (
	_ KindEnum = iota // zero value marks an unclassified plan

	KindScalar     // assigned or converted as a whole
	KindComplex    // struct mapped member by member, no identity
	KindDictionary // map with string-like keys, merged key by key
	KindCollection // slice or array, reconciled element by element
	KindEntity     // struct with identity defined by its key members

	// KindTotal is a constant that represents the total number of kinds defined
	KindTotal = int(iota)
)

// HasMembers reports whether plans of this kind carry a member table.
func (k KindEnum) HasMembers() bool {
	return k == KindComplex || k == KindEntity
}
