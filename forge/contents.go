package forge

import (
	"context"
	"fmt"

	"github.com/google/go-github/v68/github"

	"github.com/openlocalize/docbridge/resilience"
)

// File is one repository file's decoded content.
type File struct {
	Path    string
	SHA     string
	Content string
}

// GetFile fetches and decodes one file at ref (branch, tag, or commit SHA;
// empty means the default branch).
func (c *Client) GetFile(ctx context.Context, path, ref string) (File, error) {
	file, err := invoke(ctx, c, resilience.NamespaceContents, "get", func(ctx context.Context, gh *github.Client) (File, error) {
		var opts *github.RepositoryContentGetOptions
		if ref != "" {
			opts = &github.RepositoryContentGetOptions{Ref: ref}
		}
		content, _, _, err := gh.Repositories.GetContents(ctx, c.owner, c.repo, path, opts)
		if err != nil {
			return File{}, err
		}
		if content == nil {
			return File{}, fmt.Errorf("%q is a directory, not a file", path)
		}
		decoded, err := content.GetContent()
		if err != nil {
			return File{}, err
		}
		return File{Path: path, SHA: content.GetSHA(), Content: decoded}, nil
	})
	if err != nil {
		return File{}, fmt.Errorf("forge: get file %s: %w", path, err)
	}
	return file, nil
}

// PutFileRequest describes one file write.
type PutFileRequest struct {
	Path    string
	Branch  string
	Message string
	Content []byte

	// SHA is the blob SHA of the file being replaced. Empty creates a new
	// file; set updates an existing one.
	SHA string
}

// PutFile creates or updates one file on a branch and returns the new blob SHA.
func (c *Client) PutFile(ctx context.Context, req PutFileRequest) (string, error) {
	op := "create"
	if req.SHA != "" {
		op = "update"
	}

	sha, err := invoke(ctx, c, resilience.NamespaceContents, op, func(ctx context.Context, gh *github.Client) (string, error) {
		fileOpts := &github.RepositoryContentFileOptions{
			Message: github.String(req.Message),
			Content: req.Content,
		}
		if req.Branch != "" {
			fileOpts.Branch = github.String(req.Branch)
		}

		var (
			resp *github.RepositoryContentResponse
			err  error
		)
		if req.SHA != "" {
			fileOpts.SHA = github.String(req.SHA)
			resp, _, err = gh.Repositories.UpdateFile(ctx, c.owner, c.repo, req.Path, fileOpts)
		} else {
			resp, _, err = gh.Repositories.CreateFile(ctx, c.owner, c.repo, req.Path, fileOpts)
		}
		if err != nil {
			return "", err
		}
		return resp.GetContent().GetSHA(), nil
	})
	if err != nil {
		return "", fmt.Errorf("forge: put file %s: %w", req.Path, err)
	}
	return sha, nil
}
