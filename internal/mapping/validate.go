package mapping

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"entity-mapper/internal/diagnostic"
	"entity-mapper/primitive"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
			if name == "" || name == "-" {
				return f.Name
			}

			return name
		})
	})

	return validate
}

// Validate checks the structure of a mapping file: required values, option
// names, member paths and conflicting or duplicated rules.
// Member and type existence is checked separately by Check.
func Validate(f *File) *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}
	if f == nil {
		res.AddError(diagnostic.CodeMappingIsNil, "mapping file is nil", "", "")
		return res
	}

	validateStruct(res, f)
	validateOptions(res, f.Options)
	validateEntities(res, f.Entities)

	seenPairs := make(map[string]struct{}, len(f.TypeMappings))

	for i := range f.TypeMappings {
		tm := &f.TypeMappings[i]
		tp := tm.String()

		if _, ok := seenPairs[tp]; ok {
			res.AddError(diagnostic.CodeDuplicateMapping, fmt.Sprintf("mapping %s is defined more than once", tp), tp, "")
			continue
		}

		seenPairs[tp] = struct{}{}

		validateTypeMapping(res, tm)
	}

	return res
}

func validateStruct(res *diagnostic.Diagnostics, f *File) {
	err := structValidator().Struct(f)
	if err == nil {
		return
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		res.AddError(diagnostic.CodeInvalidFile, err.Error(), "", "")
		return
	}

	for _, fe := range verrs {
		path := strings.TrimPrefix(fe.Namespace(), "File.")
		msg := fmt.Sprintf("value %v fails %q", fe.Value(), fe.Tag())
		if fe.Param() != "" {
			msg = fmt.Sprintf("value %v fails %q (%s)", fe.Value(), fe.Tag(), fe.Param())
		}

		res.AddError(diagnostic.CodeInvalidValue, msg, "", path)
	}
}

func validateOptions(res *diagnostic.Diagnostics, def *OptionsDef) {
	if def == nil || len(def.Conversions) == 0 {
		return
	}

	if _, err := primitive.ParseCategories(def.Conversions...); err != nil {
		res.AddError(diagnostic.CodeInvalidConversion, err.Error(), "", "options.conversions")
	}
}

func validateEntities(res *diagnostic.Diagnostics, defs []EntityDef) {
	seen := make(map[string]struct{}, len(defs))

	for _, e := range defs {
		if _, ok := seen[e.Type]; ok && e.Type != "" {
			res.AddError(diagnostic.CodeDuplicateEntity, fmt.Sprintf("entity %q is declared more than once", e.Type), "", e.Type)
		}

		seen[e.Type] = struct{}{}

		keys := make(map[string]struct{}, len(e.Keys))
		for _, k := range e.Keys {
			if _, ok := keys[k]; ok {
				res.AddError(diagnostic.CodeDuplicateKey, fmt.Sprintf("key member %q is listed twice", k), "", e.Type)
			}

			keys[k] = struct{}{}
		}
	}
}

func validateTypeMapping(res *diagnostic.Diagnostics, tm *TypeMapping) {
	tp := tm.String()

	// 121
	targets := make(map[string]string, len(tm.OneToOne))
	for src, dst := range tm.OneToOne {
		if prev, ok := targets[dst]; ok {
			res.AddError(diagnostic.CodeDuplicateTarget,
				fmt.Sprintf("target %q is bound to both %q and %q in 121", dst, prev, src), tp, dst)
		}

		targets[dst] = src

		validateMember(res, tp, src, "121 source")
		validateMember(res, tp, dst, "121 target")
	}

	// fields
	seenFields := make(map[string]struct{}, len(tm.Fields))
	for _, fm := range tm.Fields {
		if _, ok := targets[fm.Target]; ok {
			res.AddWarning(diagnostic.CodeShadowedField,
				fmt.Sprintf("target %q is also bound in 121, the fields entry is unused", fm.Target), tp, fm.Target)
		}

		if _, ok := seenFields[fm.Target]; ok {
			res.AddError(diagnostic.CodeDuplicateTarget, fmt.Sprintf("target %q is listed twice in fields", fm.Target), tp, fm.Target)
		}

		seenFields[fm.Target] = struct{}{}

		validatePath(res, tp, fm.Source, "fields source")
		validateMember(res, tp, fm.Target, "fields target")
	}

	// ignore
	for _, name := range tm.Ignore {
		_, in121 := targets[name]
		_, inFields := seenFields[name]

		if in121 || inFields {
			res.AddWarning(diagnostic.CodeIgnoredMapped,
				fmt.Sprintf("target %q is ignored but also mapped explicitly, the explicit rule wins", name), tp, name)
		}

		validateMember(res, tp, name, "ignore")
	}

	// associated / owned
	for _, name := range tm.Associated {
		validateMember(res, tp, name, "associated")

		for _, owned := range tm.Owned {
			if owned == name {
				res.AddError(diagnostic.CodeAssociationConflict,
					fmt.Sprintf("member %q is listed as both associated and owned", name), tp, name)
			}
		}
	}

	for _, name := range tm.Owned {
		validateMember(res, tp, name, "owned")
	}
}

func validatePath(res *diagnostic.Diagnostics, tp, path, where string) {
	if _, err := ParsePath(path); err != nil {
		res.AddError(diagnostic.CodeInvalidPath, fmt.Sprintf("%s: %v", where, err), tp, path)
	}
}

// validateMember accepts direct member names only.
func validateMember(res *diagnostic.Diagnostics, tp, name, where string) {
	parts, err := ParsePath(name)
	if err != nil {
		res.AddError(diagnostic.CodeInvalidPath, fmt.Sprintf("%s: %v", where, err), tp, name)
		return
	}

	if len(parts) > 1 {
		res.AddError(diagnostic.CodeNestedTarget, fmt.Sprintf("%s: %q must be a direct member", where, name), tp, name)
	}
}
