// Package entity describes identity: which types are entities, which members form
// their key, and the Key value that identifies one instance.
//
// Marking is data supplied by the caller through a Marker. Three markers are
// provided:
//   - Registry: explicit marks by reflect.Type or by "pkg.Name" string
//   - TagMarker: struct fields tagged `mapper:",key"`
//   - Chain: the first marker that recognizes a type wins
package entity
