package forge

import (
	"context"
	"fmt"
	"time"

	"github.com/google/go-github/v68/github"

	"github.com/openlocalize/docbridge/resilience"
)

// Quota is the core API quota at one point in time.
type Quota struct {
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// Quota reads the current core rate limit.
func (c *Client) Quota(ctx context.Context) (Quota, error) {
	quota, err := invoke(ctx, c, resilience.NamespaceRateLimit, "get", func(ctx context.Context, gh *github.Client) (Quota, error) {
		limits, _, err := gh.RateLimit.Get(ctx)
		if err != nil {
			return Quota{}, err
		}
		core := limits.GetCore()
		if core == nil {
			return Quota{}, fmt.Errorf("quota response missing core resource")
		}
		return Quota{
			Limit:     core.Limit,
			Remaining: core.Remaining,
			ResetAt:   core.Reset.Time,
		}, nil
	})
	if err != nil {
		return Quota{}, fmt.Errorf("forge: quota: %w", err)
	}
	return quota, nil
}

// RawJSON issues an arbitrary API request and decodes the JSON response into
// out. The escape hatch for endpoints without a decorated operation; it still
// runs through the full resilience stack.
func (c *Client) RawJSON(ctx context.Context, method, urlStr string, body, out any) error {
	_, err := invoke(ctx, c, resilience.NamespaceRequest, "raw", func(ctx context.Context, gh *github.Client) (struct{}, error) {
		req, err := gh.NewRequest(method, urlStr, body)
		if err != nil {
			return struct{}{}, err
		}
		_, err = gh.Do(ctx, req, out)
		return struct{}{}, err
	})
	if err != nil {
		return fmt.Errorf("forge: %s %s: %w", method, urlStr, err)
	}
	return nil
}
