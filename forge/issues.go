package forge

import (
	"context"
	"fmt"

	"github.com/google/go-github/v68/github"

	"github.com/openlocalize/docbridge/resilience"
)

// CommentOnIssue posts a comment on an issue or change request.
func (c *Client) CommentOnIssue(ctx context.Context, number int, body string) error {
	_, err := invoke(ctx, c, resilience.NamespaceIssues, "comment", func(ctx context.Context, gh *github.Client) (struct{}, error) {
		_, _, err := gh.Issues.CreateComment(ctx, c.owner, c.repo, number, &github.IssueComment{
			Body: github.String(body),
		})
		return struct{}{}, err
	})
	if err != nil {
		return fmt.Errorf("forge: comment on #%d: %w", number, err)
	}
	return nil
}
