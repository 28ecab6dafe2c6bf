package mapping

import (
	"fmt"
	"reflect"

	"entity-mapper/entity"
	"entity-mapper/internal/common"
	"entity-mapper/options"
	"entity-mapper/primitive"
)

// ApplyOptions returns base overridden by the options section.
func (f *File) ApplyOptions(base options.Options) (options.Options, error) {
	if f == nil || f.Options == nil {
		return base, nil
	}

	def := f.Options
	res := base

	if def.Update != "" {
		mode, err := options.ParseUpdateMode(def.Update)
		if err != nil {
			return base, err
		}

		res.Update = mode
	}

	if len(def.Conversions) > 0 {
		conv, err := primitive.ParseCategories(def.Conversions...)
		if err != nil {
			return base, err
		}

		res.Conversions = conv
	}

	if def.AutoMatch != nil {
		res.AutoMatch = *def.AutoMatch
	}

	if def.MinNameScore != nil {
		res.MinNameScore = *def.MinNameScore
	}

	return res, nil
}

// Registry returns an entity registry holding the marks of the entities section.
func (f *File) Registry() *entity.Registry {
	r := entity.NewRegistry()
	if f == nil {
		return r
	}

	for _, e := range f.Entities {
		r.MarkName(e.Type, e.Keys...)
	}

	return r
}

// Lookup returns the mapping configured for the src/dst pair, matching
// identifiers by full import path or by package alias.
func (f *File) Lookup(src, dst reflect.Type) (*TypeMapping, bool) {
	if f == nil {
		return nil, false
	}

	for i := range f.TypeMappings {
		tm := &f.TypeMappings[i]
		if nameMatches(tm.Source, src) && nameMatches(tm.Target, dst) {
			return tm, true
		}
	}

	return nil, false
}

func nameMatches(id string, t reflect.Type) bool {
	return id == common.FullTypeName(t) || id == common.ShortTypeName(t)
}

// Summary renders a one line description of the file content.
func (f *File) Summary() string {
	return fmt.Sprintf("version %s: %d entities, %d mappings", f.Version, len(f.Entities), len(f.TypeMappings))
}
