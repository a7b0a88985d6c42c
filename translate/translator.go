package translate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/sync/errgroup"

	"github.com/openlocalize/docbridge/resilience"
)

const systemPrompt = `You are a professional technical translator.
Translate the user's Markdown document into %s.
Preserve Markdown structure exactly: headings, lists, tables, links, and
front matter keys stay as they are. Never translate code blocks, inline
code, URLs, or identifiers. Reply with the translated document only.`

// Document is one source file to translate.
type Document struct {
	Path    string
	Content string
}

// Translated pairs a source document with its translation.
type Translated struct {
	Source  Document
	Content string
}

// Config configures a Translator.
type Config struct {
	APIKey string
	Model  string

	// BaseURL overrides the model API root. Used by tests.
	BaseURL string

	// Temperature for completions. The low default keeps translations
	// stable across runs.
	Temperature float32
}

// Translator translates documents through one model dispatcher.
type Translator struct {
	client      *openai.Client
	dispatcher  *resilience.Dispatcher
	model       string
	temperature float32
}

// NewTranslator builds a translator whose calls run through dispatcher.
func NewTranslator(cfg Config, dispatcher *resilience.Dispatcher) (*Translator, error) {
	if cfg.Model == "" {
		return nil, errors.New("translate: model is required")
	}
	if dispatcher == nil {
		return nil, errors.New("translate: dispatcher is required")
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = 0.2
	}

	return &Translator{
		client:      openai.NewClientWithConfig(clientCfg),
		dispatcher:  dispatcher,
		model:       cfg.Model,
		temperature: temperature,
	}, nil
}

// TranslateDocument translates one document into language.
func (t *Translator) TranslateDocument(ctx context.Context, doc Document, language string) (string, error) {
	if strings.TrimSpace(doc.Content) == "" {
		return doc.Content, nil
	}

	out, err := resilience.DispatchValue(ctx, t.dispatcher, "chat.translate", func(ctx context.Context) (string, error) {
		resp, err := t.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:       t.model,
			Temperature: t.temperature,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: fmt.Sprintf(systemPrompt, language)},
				{Role: openai.ChatMessageRoleUser, Content: doc.Content},
			},
		})
		if err != nil {
			return "", err
		}
		if len(resp.Choices) == 0 {
			return "", errors.New("completion returned no choices")
		}
		return resp.Choices[0].Message.Content, nil
	})
	if err != nil {
		return "", fmt.Errorf("translate: %s: %w", doc.Path, err)
	}
	return out, nil
}

// TranslateTree translates docs concurrently. concurrency caps the waiting
// goroutines; actual pacing against the model API stays with the scheduler.
// The first failure cancels the remaining work.
func (t *Translator) TranslateTree(ctx context.Context, docs []Document, language string, concurrency int) ([]Translated, error) {
	if concurrency < 1 {
		concurrency = 1
	}

	out := make([]Translated, len(docs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, doc := range docs {
		g.Go(func() error {
			content, err := t.TranslateDocument(ctx, doc, language)
			if err != nil {
				return err
			}
			out[i] = Translated{Source: doc, Content: content}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
