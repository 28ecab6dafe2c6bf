package plan

import (
	"fmt"
	"reflect"
	"strings"

	"entity-mapper/internal/common"
	"entity-mapper/internal/diagnostic"
	"entity-mapper/typeplan"
)

// MappingSource indicates where a binding rule originated.
type MappingSource int

const (
	// MappingSourceYAML121 - from YAML 121 shorthand (highest priority).
	MappingSourceYAML121 MappingSource = iota
	// MappingSourceYAMLFields - from YAML explicit fields section.
	MappingSourceYAMLFields
	// MappingSourceTag - from a `mapper` struct tag name on either side.
	MappingSourceTag
	// MappingSourceName - equal member names, or names equal after normalization.
	MappingSourceName
	// MappingSourceAutoMatched - fuzzy name match.
	MappingSourceAutoMatched
)

// String returns a human-readable source name.
func (s MappingSource) String() string {
	switch s {
	case MappingSourceYAML121:
		return "yaml:121"
	case MappingSourceYAMLFields:
		return "yaml:fields"
	case MappingSourceTag:
		return "tag"
	case MappingSourceName:
		return "name"
	case MappingSourceAutoMatched:
		return "auto"
	default:
		return common.UnknownStr
	}
}

// Step is one member hop of a source path.
type Step struct {
	Name  string
	Index []int
}

// Binding connects one target member to a source member path.
type Binding struct {
	Target typeplan.Member
	Source []Step
	// SourceType is the declared type of the last member of Source.
	SourceType reflect.Type
	Origin     MappingSource
	// Score is the name similarity for auto-matched bindings, 1 otherwise.
	Score float64

	// Associated and Owned are the effective relationship flags of the target member.
	Associated bool
	Owned      bool
}

// SourcePath renders the source path ("Customer.Email").
func (b *Binding) SourcePath() string {
	names := make([]string, len(b.Source))
	for i, s := range b.Source {
		names[i] = s.Name
	}

	return strings.Join(names, ".")
}

// Read returns the source member value of src. ok is false when a nil pointer
// along a nested path hides the member.
func (b *Binding) Read(src reflect.Value) (reflect.Value, bool) {
	v := src
	for _, step := range b.Source {
		for v.Kind() == reflect.Pointer {
			if v.IsNil() {
				return reflect.Value{}, false
			}

			v = v.Elem()
		}

		f, err := v.FieldByIndexErr(step.Index)
		if err != nil {
			return reflect.Value{}, false
		}

		v = f
	}

	return v, true
}

func (b *Binding) String() string {
	return fmt.Sprintf("%s <- %s (%s)", b.Target.Name, b.SourcePath(), b.Origin)
}

// TypePair is the resolved member table of one source/target pair.
type TypePair struct {
	Source, Target reflect.Type
	Bindings       []Binding
	// Unmapped lists target members that no rule bound.
	Unmapped []string
	// Ignored lists target members excluded by tag or mapping file.
	Ignored []string

	Diagnostics diagnostic.Diagnostics
}

// String returns "store.Order->warehouse.Order".
func (p *TypePair) String() string {
	return pairName(p.Source, p.Target)
}

// Binding returns the binding of the named target member.
func (p *TypePair) Binding(target string) (*Binding, bool) {
	for i := range p.Bindings {
		if p.Bindings[i].Target.Name == target {
			return &p.Bindings[i], true
		}
	}

	return nil, false
}

func pairName(src, dst reflect.Type) string {
	return common.ShortTypeName(src) + "->" + common.ShortTypeName(dst)
}
