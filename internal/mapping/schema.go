package mapping

import (
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"
)

// CurrentVersion is the schema version written by this package.
const CurrentVersion = "1"

// File represents the root of a YAML mapping file.
type File struct {
	// Version of the mapping schema.
	Version string `yaml:"version,omitempty" validate:"omitempty,oneof=1"`

	// Options override the engine defaults.
	Options *OptionsDef `yaml:"options,omitempty"`

	// Entities marks types as entities and names their key members.
	Entities []EntityDef `yaml:"entities,omitempty" validate:"dive"`

	// TypeMappings customizes member binding per source/target type pair.
	TypeMappings []TypeMapping `yaml:"mappings,omitempty" validate:"dive"`
}

// OptionsDef mirrors options.Options in configuration form.
type OptionsDef struct {
	Update       string        `yaml:"update,omitempty"         validate:"omitempty,oneof=overwrite skip_zero"`
	Conversions  StringOrArray `yaml:"conversions,omitempty"    validate:"dive,required"`
	AutoMatch    *bool         `yaml:"auto_match,omitempty"`
	MinNameScore *float64      `yaml:"min_name_score,omitempty" validate:"omitempty,gt=0,lte=1"`
}

// EntityDef marks one type as an entity.
type EntityDef struct {
	// Type identifier (e.g., "warehouse.Customer" or full path).
	Type string `yaml:"type" validate:"required"`
	// Keys are the key member names in key order.
	Keys StringOrArray `yaml:"keys" validate:"required,min=1,max=4,dive,required"`
}

// TypeMapping defines how to map one source type to one target type.
type TypeMapping struct {
	// Source type identifier (e.g., "store.Order" or full path).
	Source string `yaml:"source" validate:"required"`
	// Target type identifier (e.g., "warehouse.Order" or full path).
	Target string `yaml:"target" validate:"required"`

	// OneToOne maps source member names to target member names.
	// Priority: highest.
	OneToOne map[string]string `yaml:"121,omitempty" validate:"dive,keys,required,endkeys,required"`

	// Fields binds target members to source paths ("Customer.Email").
	// Priority: second.
	Fields []FieldMapping `yaml:"fields,omitempty" validate:"dive"`

	// Ignore lists target members that are never written.
	// Priority: third.
	Ignore StringOrArray `yaml:"ignore,omitempty" validate:"dive,required"`

	// Associated lists entity members resolved by key without touching their content.
	Associated StringOrArray `yaml:"associated,omitempty" validate:"dive,required"`
	// Owned lists entity members whose content is mapped together with the parent.
	Owned StringOrArray `yaml:"owned,omitempty" validate:"dive,required"`
}

// FieldMapping binds one target member to a source member path.
type FieldMapping struct {
	Target string `yaml:"target" validate:"required"`
	Source string `yaml:"source" validate:"required"`
}

// String returns "source->target".
func (tm *TypeMapping) String() string {
	return fmt.Sprintf("%s->%s", tm.Source, tm.Target)
}

// SourceFor returns the source path bound to target by the 121 or fields sections.
func (tm *TypeMapping) SourceFor(target string) (path string, fromOneToOne bool, ok bool) {
	// sorted for a deterministic pick when a target is listed twice
	sources := make([]string, 0, len(tm.OneToOne))
	for src, dst := range tm.OneToOne {
		if dst == target {
			sources = append(sources, src)
		}
	}

	if len(sources) > 0 {
		slices.Sort(sources)
		return sources[0], true, true
	}

	for _, fm := range tm.Fields {
		if fm.Target == target {
			return fm.Source, false, true
		}
	}

	return "", false, false
}

// IsIgnored reports whether target is in the ignore list.
func (tm *TypeMapping) IsIgnored(target string) bool {
	return slices.Contains(tm.Ignore, target)
}

// StringOrArray accepts both "field" and ["field1", "field2"] in YAML.
type StringOrArray []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *StringOrArray) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var str string
		if err := node.Decode(&str); err != nil {
			return err
		}

		*s = StringOrArray{}
		if str != "" {
			*s = StringOrArray{str}
		}

		return nil

	case yaml.SequenceNode:
		var arr []string
		if err := node.Decode(&arr); err != nil {
			return err
		}

		*s = arr

		return nil

	default:
		return fmt.Errorf("line %d: expected string or array of strings", node.Line)
	}
}

// MarshalYAML implements yaml.Marshaler: a single value is written as a plain string.
func (s StringOrArray) MarshalYAML() (any, error) {
	if len(s) == 1 {
		return s[0], nil
	}

	return []string(s), nil
}
