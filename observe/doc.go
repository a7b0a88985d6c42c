// Package observe provides observability primitives for outbound API calls.
//
// It is a pure instrumentation library: no execution, no transport, no I/O
// beyond exporter setup. The resilience layer wires an Observer's logger,
// meter, and tracer around every dispatched call; collaborators never talk
// to telemetry providers directly.
package observe
