// Package telemetry exposes Prometheus collectors for the mapper.
//
// A nil *Metrics is valid and records nothing, so callers never check for it.
package telemetry
