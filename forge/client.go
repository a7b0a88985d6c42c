package forge

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v68/github"

	"github.com/openlocalize/docbridge/observe"
	"github.com/openlocalize/docbridge/resilience"
)

// Options configures a forge client.
type Options struct {
	Owner string
	Repo  string

	// Token is the primary credential.
	Token string

	// FallbackToken, when set, enables the one-shot credential fallback on
	// permission denials.
	FallbackToken string

	// BaseURL overrides the upstream API root. Used by tests and
	// self-hosted installs. Must be left empty for the public API.
	BaseURL string

	// HTTPClient overrides the underlying transport.
	HTTPClient *http.Client
}

// Client is the resilient source-control client for one repository.
type Client struct {
	owner      string
	repo       string
	gateway    *resilience.Gateway[*github.Client]
	dispatcher *resilience.Dispatcher
}

// NewClient builds a client whose every call runs through dispatcher.
func NewClient(opts Options, dispatcher *resilience.Dispatcher, instruments observe.Instruments) (*Client, error) {
	if opts.Owner == "" || opts.Repo == "" {
		return nil, errors.New("forge: owner and repo are required")
	}
	if dispatcher == nil {
		return nil, errors.New("forge: dispatcher is required")
	}

	primary, err := newUpstream(opts, opts.Token)
	if err != nil {
		return nil, err
	}

	gwOpts := []resilience.GatewayOption[*github.Client]{
		resilience.WithGatewayLogger[*github.Client](instruments.Logger),
		resilience.WithGatewayMetrics[*github.Client](instruments.Metrics),
	}
	if opts.FallbackToken != "" {
		secondary, err := newUpstream(opts, opts.FallbackToken)
		if err != nil {
			return nil, err
		}
		gwOpts = append(gwOpts, resilience.WithSecondary(secondary))
	}

	return &Client{
		owner:      opts.Owner,
		repo:       opts.Repo,
		gateway:    resilience.NewGateway(primary, gwOpts...),
		dispatcher: dispatcher,
	}, nil
}

func newUpstream(opts Options, token string) (*github.Client, error) {
	client := github.NewClient(opts.HTTPClient)
	if token != "" {
		client = client.WithAuthToken(token)
	}
	if opts.BaseURL != "" {
		base, err := url.Parse(strings.TrimSuffix(opts.BaseURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("forge: parsing base URL: %w", err)
		}
		client.BaseURL = base
	}
	return client, nil
}

// invoke is the single decoration point: dispatcher (scheduling + backoff)
// around gateway (credential fallback) around one upstream call.
func invoke[T any](ctx context.Context, c *Client, ns resilience.Namespace, op string, fn func(context.Context, *github.Client) (T, error)) (T, error) {
	return resilience.DispatchValue(ctx, c.dispatcher, string(ns)+"."+op, func(ctx context.Context) (T, error) {
		return resilience.InvokeValue(ctx, c.gateway, ns, op, fn)
	})
}
