package resilience

import (
	"context"
	"fmt"

	"github.com/openlocalize/docbridge/observe"
)

// Namespace identifies an allow-listed group of upstream operations. The
// gateway refuses anything outside this fixed set; new operation groups are
// added here, never at runtime.
type Namespace string

const (
	NamespaceContents  Namespace = "contents"   // content access
	NamespacePulls     Namespace = "pulls"      // change requests
	NamespaceGit       Namespace = "git"        // reference management
	NamespaceIssues    Namespace = "issues"     // issue tracking
	NamespaceRateLimit Namespace = "rate_limit" // quota introspection
	NamespaceRequest   Namespace = "request"    // generic request
)

var allowedNamespaces = map[Namespace]bool{
	NamespaceContents:  true,
	NamespacePulls:     true,
	NamespaceGit:       true,
	NamespaceIssues:    true,
	NamespaceRateLimit: true,
	NamespaceRequest:   true,
}

// Gateway re-issues a permission-denied call once with a secondary
// credential. C is the underlying client type; the gateway holds one client
// per credential and hands the right one to each operation. Invocation is
// identical whether or not a secondary credential is configured.
type Gateway[C any] struct {
	primary      C
	secondary    C
	hasSecondary bool
	logger       observe.Logger
	metrics      observe.Metrics
}

// GatewayOption configures a Gateway.
type GatewayOption[C any] func(*Gateway[C])

// WithSecondary installs the fallback client. Without it, permission
// denials propagate untouched.
func WithSecondary[C any](secondary C) GatewayOption[C] {
	return func(g *Gateway[C]) {
		g.secondary = secondary
		g.hasSecondary = true
	}
}

// WithGatewayLogger sets the structured logger for fallback events.
func WithGatewayLogger[C any](logger observe.Logger) GatewayOption[C] {
	return func(g *Gateway[C]) {
		g.logger = logger
	}
}

// WithGatewayMetrics sets the metrics sink for fallback counts.
func WithGatewayMetrics[C any](metrics observe.Metrics) GatewayOption[C] {
	return func(g *Gateway[C]) {
		g.metrics = metrics
	}
}

// NewGateway creates a gateway around the primary client.
func NewGateway[C any](primary C, opts ...GatewayOption[C]) *Gateway[C] {
	g := &Gateway[C]{
		primary: primary,
		logger:  observe.NopLogger(),
		metrics: observe.NopMetrics(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Invoke runs fn against the primary client. If the primary credential is
// denied and a secondary is configured, the identical call is re-issued
// exactly once with the secondary client; the fallback result, whatever it
// is, is final. Any other failure propagates untouched.
func (g *Gateway[C]) Invoke(ctx context.Context, ns Namespace, operation string, fn func(context.Context, C) error) error {
	if !allowedNamespaces[ns] {
		return fmt.Errorf("%w: %q", ErrUnknownNamespace, ns)
	}

	err := fn(ctx, g.primary)
	if err == nil || !g.hasSecondary || Classify(err) != ClassPermissionDenied {
		return err
	}

	meta := observe.CallMeta{Operation: operation, Namespace: string(ns)}
	code, _ := StatusCode(err)
	g.logger.Warn(ctx, "primary credential denied, retrying with secondary",
		observe.Field{Key: "call.namespace", Value: string(ns)},
		observe.Field{Key: "call.operation", Value: operation},
		observe.Field{Key: "status_code", Value: code},
	)
	g.metrics.RecordFallback(ctx, meta)

	return fn(ctx, g.secondary)
}

// InvokeValue runs a value-returning operation through g.
func InvokeValue[C, T any](ctx context.Context, g *Gateway[C], ns Namespace, operation string, fn func(context.Context, C) (T, error)) (T, error) {
	var out T
	err := g.Invoke(ctx, ns, operation, func(ctx context.Context, client C) error {
		v, err := fn(ctx, client)
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	return out, err
}
