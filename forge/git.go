package forge

import (
	"context"
	"fmt"

	"github.com/google/go-github/v68/github"

	"github.com/openlocalize/docbridge/resilience"
)

// BranchHead returns the commit SHA a branch points at.
func (c *Client) BranchHead(ctx context.Context, branch string) (string, error) {
	sha, err := invoke(ctx, c, resilience.NamespaceGit, "get_ref", func(ctx context.Context, gh *github.Client) (string, error) {
		ref, _, err := gh.Git.GetRef(ctx, c.owner, c.repo, "heads/"+branch)
		if err != nil {
			return "", err
		}
		return ref.GetObject().GetSHA(), nil
	})
	if err != nil {
		return "", fmt.Errorf("forge: head of %s: %w", branch, err)
	}
	return sha, nil
}

// CreateBranch creates a branch pointing at fromSHA.
func (c *Client) CreateBranch(ctx context.Context, name, fromSHA string) error {
	_, err := invoke(ctx, c, resilience.NamespaceGit, "create_ref", func(ctx context.Context, gh *github.Client) (struct{}, error) {
		_, _, err := gh.Git.CreateRef(ctx, c.owner, c.repo, &github.Reference{
			Ref:    github.String("refs/heads/" + name),
			Object: &github.GitObject{SHA: github.String(fromSHA)},
		})
		return struct{}{}, err
	})
	if err != nil {
		return fmt.Errorf("forge: create branch %s: %w", name, err)
	}
	return nil
}
