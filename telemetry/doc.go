// Package telemetry provides observability primitives for cache operations.
//
// It is a pure instrumentation library: no storage, no eviction, no I/O
// beyond exporter setup. Consumers build an Observer and either pull its
// logger into a cache chain or wrap a built chain with Instrument.
package telemetry
