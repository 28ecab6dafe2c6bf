// Package analyze loads Go packages with golang.org/x/tools/go/packages and
// builds a static model of their named types.
//
// The model lets tools check mapping files and find entity types without
// importing the packages that declare them.
//
// Key types:
//   - TypeID: package import path + type name
//   - TypeInfo: kind (struct/basic/alias/pointer/slice/array/map/external) and fields
//   - FieldInfo: field name, type, tags, and embedding
//   - EntityInfo: a struct with `mapper:",key"` members
package analyze
