// Package mapper copies object graphs between two type hierarchies while
// tracking entity identity.
//
// A Mapper walks the target type plans produced by a typeplan.Classifier.
// Scalars are assigned or converted, complex values are deep-copied, dictionaries
// are merged by key and collections of entities are reconciled by key. Every
// entity reached during one top-level call is recorded in a Context together with
// the lifecycle action decided for it:
//
//	ActionAdd     the entity is new
//	ActionUpdate  an existing target instance was refreshed from the source
//	ActionAttach  the entity is only referenced, its fields were not copied
//	ActionRemove  the entity was dropped from an owned collection
//
// A persistence layer enumerates Context.Entries after mapping and translates
// the actions into store operations.
//
// Single entity members are associations unless tagged `mapper:",owned"`:
// only their key members are copied. Collections of entities are owned unless
// tagged `mapper:",associated"`.
package mapper
