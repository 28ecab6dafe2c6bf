package common

import (
	"path"
	"reflect"
)

// UnknownStr is returned by String methods for out-of-range enum values.
const UnknownStr = "unknown"

// PkgAlias returns the package alias (last element of path) for a given package path.
// Returns empty string if pkgPath is empty.
func PkgAlias(pkgPath string) string {
	if pkgPath == "" {
		return ""
	}

	return path.Base(pkgPath)
}

// BaseType strips every pointer level from t.
func BaseType(t reflect.Type) reflect.Type {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	return t
}

// ShortTypeName returns "alias.Name" for named types (e.g. "warehouse.Order"),
// or the reflect string for unnamed ones.
func ShortTypeName(t reflect.Type) string {
	t = BaseType(t)
	if t == nil {
		return "<nil>"
	}

	if t.Name() == "" || t.PkgPath() == "" {
		return t.String()
	}

	return PkgAlias(t.PkgPath()) + "." + t.Name()
}

// FullTypeName returns "import/path.Name" for named types, or the reflect string otherwise.
func FullTypeName(t reflect.Type) string {
	t = BaseType(t)
	if t == nil {
		return "<nil>"
	}

	if t.Name() == "" || t.PkgPath() == "" {
		return t.String()
	}

	return t.PkgPath() + "." + t.Name()
}
