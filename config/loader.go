package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/openlocalize/docbridge/secret"
)

// Load reads configuration from path (or docbridge.yaml on the search path
// when path is empty), overlays DOCBRIDGE_* environment variables, and
// resolves credential secret references.
func Load(ctx context.Context, path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("docbridge")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/docbridge")
	}

	v.SetEnvPrefix("DOCBRIDGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// A missing file is fine when no explicit path was given; env vars
		// and defaults still apply.
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := resolveSecrets(ctx, &cfg); err != nil {
		return nil, err
	}
	applyDerived(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("github.base_branch", "main")

	v.SetDefault("openai.model", "gpt-4o-mini")
	v.SetDefault("openai.tier", "free")

	v.SetDefault("backoff.initial_delay", time.Second)
	v.SetDefault("backoff.max_delay", 60*time.Second)
	v.SetDefault("backoff.max_retries", 3)
	v.SetDefault("backoff.multiplier", 2.0)
	v.SetDefault("backoff.jitter", true)

	v.SetDefault("observe.log_level", "info")
	v.SetDefault("observe.tracing_exporter", "none")
	v.SetDefault("observe.metrics_exporter", "none")
	v.SetDefault("observe.sample_pct", 1.0)

	v.SetDefault("sync.docs_dir", "docs")
	v.SetDefault("sync.target_language", "Spanish")
	v.SetDefault("sync.branch_prefix", "docbridge/sync")
	v.SetDefault("sync.concurrency", 4)
}

func resolveSecrets(ctx context.Context, cfg *Config) error {
	r := secret.NewResolver(true)

	resolved, err := r.ResolveMap(ctx, map[string]string{
		"github.token":          cfg.GitHub.Token,
		"github.fallback_token": cfg.GitHub.FallbackToken,
		"openai.api_key":        cfg.OpenAI.APIKey,
	})
	if err != nil {
		return fmt.Errorf("resolving credentials: %w", err)
	}

	cfg.GitHub.Token = resolved["github.token"]
	cfg.GitHub.FallbackToken = resolved["github.fallback_token"]
	cfg.OpenAI.APIKey = resolved["openai.api_key"]
	return nil
}

func applyDerived(cfg *Config) {
	if cfg.Sync.OutputPrefix == "" && cfg.Sync.TargetLanguage != "" {
		cfg.Sync.OutputPrefix = "docs/" + strings.ToLower(cfg.Sync.TargetLanguage)
	}
}

// Validate checks required fields and enum values.
func (c *Config) Validate() error {
	var problems []string

	if c.GitHub.Owner == "" {
		problems = append(problems, "github.owner is required")
	}
	if c.GitHub.Repo == "" {
		problems = append(problems, "github.repo is required")
	}
	switch c.OpenAI.Tier {
	case "free", "paid":
	default:
		problems = append(problems, fmt.Sprintf("openai.tier must be free or paid, got %q", c.OpenAI.Tier))
	}
	if c.Backoff.MaxRetries < 0 {
		problems = append(problems, "backoff.max_retries must be >= 0")
	}
	if c.Backoff.Multiplier < 1 && c.Backoff.Multiplier != 0 {
		problems = append(problems, "backoff.multiplier must be >= 1")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}
