// Package plan binds the members of a target struct to members of a source
// struct for one source/target type pair.
//
// Binding rules, highest priority first: mapping file "121", mapping file
// "fields", mapping file "ignore", struct tags, equal names, and fuzzy
// auto-matching when enabled. Every decision is recorded with its origin so
// it can be explained.
package plan
