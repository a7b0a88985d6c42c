// Package resilience is the outbound call layer every upstream API request
// passes through.
//
// It coordinates four composable pieces:
//
//   - Scheduler: bounded-concurrency, minimum-interval, quota-reservoir
//     admission queue. Strictly FIFO; it never fails for capacity reasons,
//     it defers.
//
//   - Backoff: retry-delay computation and failure classification. Transient
//     failures (429, 5xx, network) are retried with growing delay; a
//     provider-supplied rate-limit hint overrides the computed schedule.
//
//   - Gateway: credential fallback for a namespace-bearing client. A call
//     denied on the primary credential is re-issued exactly once with the
//     secondary credential, if one is configured.
//
//   - Dispatcher: the composition root collaborators call. A dispatch is
//     scheduler admission hosting the full backoff loop, with the gateway
//     innermost:
//
//	err := d.Dispatch(ctx, "pulls.create", func(ctx context.Context) error {
//	    return gw.Invoke(ctx, resilience.NamespacePulls, "create", createPR)
//	})
//
// Collaborators must not embed their own retry logic; retrying outside this
// layer defeats the admission accounting.
package resilience
