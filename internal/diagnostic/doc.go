// Package diagnostic provides structured errors, warnings and notes produced
// while checking mapping files and resolving member bindings.
package diagnostic
