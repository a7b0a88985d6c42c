package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/openlocalize/docbridge/forge"
	"github.com/openlocalize/docbridge/resilience"
	"github.com/openlocalize/docbridge/translate"
)

func newSyncCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Translate the docs tree and open a pull request with the result",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext()
			defer stop()

			app, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer app.shutdown()

			return runSync(ctx, app)
		},
	}
}

func runSync(ctx context.Context, app *app) error {
	sync := app.cfg.Sync

	docs, err := collectDocs(sync.DocsDir)
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		fmt.Printf("no Markdown files under %s, nothing to do\n", sync.DocsDir)
		return nil
	}
	fmt.Printf("translating %d documents into %s\n", len(docs), sync.TargetLanguage)

	translated, err := app.translator.TranslateTree(ctx, docs, sync.TargetLanguage, sync.Concurrency)
	if err != nil {
		return err
	}

	base := app.cfg.GitHub.BaseBranch
	head, err := app.forge.BranchHead(ctx, base)
	if err != nil {
		return err
	}

	branch := fmt.Sprintf("%s-%d", sync.BranchPrefix, time.Now().Unix())
	if err := app.forge.CreateBranch(ctx, branch, head); err != nil {
		return err
	}

	for _, doc := range translated {
		target := path.Join(sync.OutputPrefix, filepath.ToSlash(doc.Source.Path))
		if err := putTranslated(ctx, app.forge, branch, base, target, doc); err != nil {
			return err
		}
	}

	pr, err := app.forge.CreatePullRequest(ctx, forge.PullRequestSpec{
		Title: fmt.Sprintf("Sync %s documentation", sync.TargetLanguage),
		Body: fmt.Sprintf("Automated translation of %d documents under `%s` into %s.",
			len(translated), sync.DocsDir, sync.TargetLanguage),
		Head: branch,
		Base: base,
	})
	if err != nil {
		return err
	}

	fmt.Printf("opened pull request #%d: %s\n", pr.Number, pr.URL)
	return nil
}

// collectDocs gathers Markdown files under root, paths relative to root.
func collectDocs(root string) ([]translate.Document, error) {
	var docs []translate.Document

	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".md") {
			return nil
		}
		content, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		docs = append(docs, translate.Document{Path: rel, Content: string(content)})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("collecting docs: %w", err)
	}
	return docs, nil
}

// putTranslated writes one translated file to branch, carrying the existing
// blob SHA when the file already exists on base so the write is an update.
func putTranslated(ctx context.Context, client *forge.Client, branch, base, target string, doc translate.Translated) error {
	sha := ""
	existing, err := client.GetFile(ctx, target, base)
	switch {
	case err == nil:
		sha = existing.SHA
	case isNotFound(err):
	default:
		return err
	}

	_, err = client.PutFile(ctx, forge.PutFileRequest{
		Path:    target,
		Branch:  branch,
		Message: fmt.Sprintf("docs: translate %s", doc.Source.Path),
		Content: []byte(doc.Content),
		SHA:     sha,
	})
	return err
}

func isNotFound(err error) bool {
	code, ok := resilience.StatusCode(err)
	return ok && code == 404
}
