package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/openlocalize/docbridge/config"
	"github.com/openlocalize/docbridge/forge"
	"github.com/openlocalize/docbridge/observe"
	"github.com/openlocalize/docbridge/resilience"
	"github.com/openlocalize/docbridge/translate"
)

var configPath string

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "docbridge",
		Short:         "Translate documentation and publish it as pull requests",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default docbridge.yaml)")

	root.AddCommand(newSyncCommand())
	root.AddCommand(newQuotaCommand())
	return root
}

// app holds the wired call path: config, telemetry, one dispatcher per
// upstream, and the clients built on them.
type app struct {
	cfg        *config.Config
	observer   observe.Observer
	schedulers []*resilience.Scheduler
	forge      *forge.Client
	translator *translate.Translator
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(ctx, configPath)
	if err != nil {
		return nil, err
	}

	observer, err := observe.NewObserver(ctx, cfg.Observe.Observer(version))
	if err != nil {
		return nil, err
	}
	instruments, err := observe.InstrumentsFromObserver(observer)
	if err != nil {
		observer.Shutdown(ctx)
		return nil, err
	}

	ghScheduler := resilience.NewScheduler(cfg.GitHub.Scheduler.Apply(resilience.SourceControlPreset()))
	ghDispatcher := resilience.NewDispatcher("github", ghScheduler, cfg.Backoff.Resilience(),
		resilience.WithInstruments(instruments))

	modelPreset := resilience.ModelFreeTierPreset()
	if cfg.OpenAI.Tier == "paid" {
		modelPreset = resilience.ModelPaidTierPreset()
	}
	modelScheduler := resilience.NewScheduler(cfg.OpenAI.Scheduler.Apply(modelPreset))
	modelDispatcher := resilience.NewDispatcher("openai", modelScheduler, cfg.Backoff.Resilience(),
		resilience.WithInstruments(instruments))

	forgeClient, err := forge.NewClient(forge.Options{
		Owner:         cfg.GitHub.Owner,
		Repo:          cfg.GitHub.Repo,
		Token:         cfg.GitHub.Token,
		FallbackToken: cfg.GitHub.FallbackToken,
	}, ghDispatcher, instruments)
	if err != nil {
		observer.Shutdown(ctx)
		return nil, err
	}

	translator, err := translate.NewTranslator(translate.Config{
		APIKey: cfg.OpenAI.APIKey,
		Model:  cfg.OpenAI.Model,
	}, modelDispatcher)
	if err != nil {
		observer.Shutdown(ctx)
		return nil, err
	}

	return &app{
		cfg:        cfg,
		observer:   observer,
		schedulers: []*resilience.Scheduler{ghScheduler, modelScheduler},
		forge:      forgeClient,
		translator: translator,
	}, nil
}

// shutdown drains the schedulers, then flushes telemetry. Runs even after a
// failed command so queued work settles instead of leaking.
func (a *app) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	for _, s := range a.schedulers {
		if err := s.Shutdown(ctx); err != nil {
			fmt.Println("scheduler shutdown:", err)
		}
	}
	if err := a.observer.Shutdown(ctx); err != nil {
		fmt.Println("telemetry shutdown:", err)
	}
}

// signalContext cancels on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
