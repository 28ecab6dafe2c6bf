// Package typeplan classifies Go types into the shapes the mapper walks.
//
// A Classifier resolves every reflect.Type to an immutable Plan through a chain
// of factories. Plans are cached per type for the lifetime of the Classifier.
package typeplan
