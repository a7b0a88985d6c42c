// Package forge wraps the source-control API behind the resilience stack.
//
// Every exported method is an explicitly decorated operation: it names its
// namespace and operation, runs through the dispatcher's scheduler and
// backoff, and reaches the upstream via the credential-fallback gateway.
// The wrapped surface is the fixed allow-list of namespaces; anything the
// upstream client can do beyond it is deliberately unreachable here.
package forge
