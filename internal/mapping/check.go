package mapping

import (
	"fmt"

	"entity-mapper/internal/analyze"
	"entity-mapper/internal/diagnostic"
)

// Check resolves the type and member names of a mapping file against a
// statically loaded type graph.
func Check(f *File, graph *analyze.TypeGraph) *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}
	if f == nil || graph == nil {
		res.AddError(diagnostic.CodeMappingIsNil, "mapping file or type graph is nil", "", "")
		return res
	}

	for _, e := range f.Entities {
		info, ok := lookupStruct(res, graph, e.Type, "", "entity")
		if !ok {
			continue
		}

		for _, k := range e.Keys {
			if lookupField(info, k) == nil {
				res.AddError(diagnostic.CodeUnknownMember, fmt.Sprintf("entity %s has no key member %q", e.Type, k), "", e.Type)
			}
		}
	}

	for i := range f.TypeMappings {
		checkTypeMapping(res, graph, &f.TypeMappings[i])
	}

	return res
}

func checkTypeMapping(res *diagnostic.Diagnostics, graph *analyze.TypeGraph, tm *TypeMapping) {
	tp := tm.String()

	src, srcOK := lookupStruct(res, graph, tm.Source, tp, "source")
	dst, dstOK := lookupStruct(res, graph, tm.Target, tp, "target")

	if !srcOK || !dstOK {
		return
	}

	for s, d := range tm.OneToOne {
		checkPath(res, tp, src, s)
		checkTarget(res, tp, dst, d)
	}

	for _, fm := range tm.Fields {
		checkPath(res, tp, src, fm.Source)
		checkTarget(res, tp, dst, fm.Target)
	}

	for _, name := range tm.Ignore {
		checkTarget(res, tp, dst, name)
	}

	for _, name := range append(append([]string{}, tm.Associated...), tm.Owned...) {
		field := checkTarget(res, tp, dst, name)
		if field == nil {
			continue
		}

		if !holdsStruct(field.Type) {
			res.AddWarning(diagnostic.CodeNotAnEntityMember,
				fmt.Sprintf("member %q does not hold a struct, association rules have no effect", name), tp, name)
		}
	}
}

func lookupStruct(res *diagnostic.Diagnostics, graph *analyze.TypeGraph, id, tp, role string) (*analyze.TypeInfo, bool) {
	info, ok := graph.Find(id)
	if !ok {
		res.AddError(diagnostic.CodeTypeNotFound.Role(role), fmt.Sprintf("%s type %q not found", role, id), tp, id)
		return nil, false
	}

	if info.Kind != analyze.TypeKindStruct {
		res.AddError(diagnostic.CodeTypeNotStruct.Role(role), fmt.Sprintf("%s type %q is a %s, not a struct", role, id, info.Kind), tp, id)
		return nil, false
	}

	return info, true
}

func checkTarget(res *diagnostic.Diagnostics, tp string, dst *analyze.TypeInfo, name string) *analyze.FieldInfo {
	field := lookupField(dst, name)
	if field == nil {
		res.AddError(diagnostic.CodeUnknownMember, fmt.Sprintf("target %s has no member %q", dst.ID, name), tp, name)
	}

	return field
}

func checkPath(res *diagnostic.Diagnostics, tp string, src *analyze.TypeInfo, path string) {
	parts, err := ParsePath(path)
	if err != nil {
		// reported by Validate
		return
	}

	cur := src
	for i, part := range parts {
		field := lookupField(cur, part)
		if field == nil {
			res.AddError(diagnostic.CodeUnknownMember, fmt.Sprintf("source %s has no member %q", cur.ID, part), tp, path)
			return
		}

		if i == len(parts)-1 {
			return
		}

		cur = field.Type.Base()
		if cur == nil || cur.Kind != analyze.TypeKindStruct {
			res.AddError(diagnostic.CodeInvalidPath, fmt.Sprintf("member %q of path %q is not a struct", part, path), tp, path)
			return
		}
	}
}

// lookupField finds a direct or promoted exported field.
func lookupField(info *analyze.TypeInfo, name string) *analyze.FieldInfo {
	if field, ok := info.Field(name); ok {
		return field
	}

	for i := range info.Fields {
		f := &info.Fields[i]
		if !f.Embedded {
			continue
		}

		if inner := f.Type.Base(); inner != nil && inner.Kind == analyze.TypeKindStruct {
			if found := lookupField(inner, name); found != nil {
				return found
			}
		}
	}

	return nil
}

func holdsStruct(t *analyze.TypeInfo) bool {
	t = t.Base()
	for t != nil && (t.Kind == analyze.TypeKindSlice || t.Kind == analyze.TypeKindArray || t.Kind == analyze.TypeKindMap) {
		t = t.ElemType.Base()
	}

	return t != nil && t.Kind == analyze.TypeKindStruct
}
