// Package match pairs source and target struct members whose names differ.
//
// Names are normalized (case, separators, common suffixes) and compared with a
// Levenshtein similarity; candidates are ranked by name similarity and by how
// well the member types fit together.
package match
