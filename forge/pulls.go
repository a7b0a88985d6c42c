package forge

import (
	"context"
	"fmt"

	"github.com/google/go-github/v68/github"

	"github.com/openlocalize/docbridge/resilience"
)

// PullRequest is the slice of an upstream change request docbridge cares about.
type PullRequest struct {
	Number int
	Title  string
	URL    string
	Head   string
	Base   string
}

func fromUpstreamPull(pr *github.PullRequest) PullRequest {
	return PullRequest{
		Number: pr.GetNumber(),
		Title:  pr.GetTitle(),
		URL:    pr.GetHTMLURL(),
		Head:   pr.GetHead().GetRef(),
		Base:   pr.GetBase().GetRef(),
	}
}

// PullRequestSpec describes a change request to open.
type PullRequestSpec struct {
	Title string
	Body  string
	Head  string
	Base  string
}

// CreatePullRequest opens a change request from spec.Head into spec.Base.
func (c *Client) CreatePullRequest(ctx context.Context, spec PullRequestSpec) (PullRequest, error) {
	pr, err := invoke(ctx, c, resilience.NamespacePulls, "create", func(ctx context.Context, gh *github.Client) (PullRequest, error) {
		created, _, err := gh.PullRequests.Create(ctx, c.owner, c.repo, &github.NewPullRequest{
			Title: github.String(spec.Title),
			Body:  github.String(spec.Body),
			Head:  github.String(spec.Head),
			Base:  github.String(spec.Base),
		})
		if err != nil {
			return PullRequest{}, err
		}
		return fromUpstreamPull(created), nil
	})
	if err != nil {
		return PullRequest{}, fmt.Errorf("forge: create pull request: %w", err)
	}
	return pr, nil
}

// ListOpenPullRequests lists open change requests, optionally filtered by
// head branch ("owner:branch" form, empty for all).
func (c *Client) ListOpenPullRequests(ctx context.Context, head string) ([]PullRequest, error) {
	prs, err := invoke(ctx, c, resilience.NamespacePulls, "list", func(ctx context.Context, gh *github.Client) ([]PullRequest, error) {
		listed, _, err := gh.PullRequests.List(ctx, c.owner, c.repo, &github.PullRequestListOptions{
			State: "open",
			Head:  head,
		})
		if err != nil {
			return nil, err
		}
		out := make([]PullRequest, 0, len(listed))
		for _, pr := range listed {
			out = append(out, fromUpstreamPull(pr))
		}
		return out, nil
	})
	if err != nil {
		return nil, fmt.Errorf("forge: list pull requests: %w", err)
	}
	return prs, nil
}
