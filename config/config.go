// Package config loads docbridge configuration: credentials, per-API
// scheduler presets, the backoff envelope, and observability settings.
package config

import (
	"time"

	"github.com/openlocalize/docbridge/observe"
	"github.com/openlocalize/docbridge/resilience"
)

// Config is the full docbridge configuration.
type Config struct {
	GitHub  GitHubConfig  `mapstructure:"github"`
	OpenAI  OpenAIConfig  `mapstructure:"openai"`
	Backoff BackoffConfig `mapstructure:"backoff"`
	Observe ObserveConfig `mapstructure:"observe"`
	Sync    SyncConfig    `mapstructure:"sync"`
}

// GitHubConfig configures the source-control side.
type GitHubConfig struct {
	// Token is the primary credential. Accepts secretref values.
	Token string `mapstructure:"token"`

	// FallbackToken, when set, is the secondary credential used after a
	// permission denial on the primary. Accepts secretref values.
	FallbackToken string `mapstructure:"fallback_token"`

	Owner      string `mapstructure:"owner"`
	Repo       string `mapstructure:"repo"`
	BaseBranch string `mapstructure:"base_branch"`

	Scheduler SchedulerConfig `mapstructure:"scheduler"`
}

// OpenAIConfig configures the language-model side.
type OpenAIConfig struct {
	// APIKey accepts secretref values.
	APIKey string `mapstructure:"api_key"`

	Model string `mapstructure:"model"`

	// Tier selects the scheduler preset: "free" or "paid".
	Tier string `mapstructure:"tier"`

	Scheduler SchedulerConfig `mapstructure:"scheduler"`
}

// SchedulerConfig overrides fields of a named preset. Zero fields keep the
// preset's value.
type SchedulerConfig struct {
	MaxConcurrent  int           `mapstructure:"max_concurrent"`
	MinInterval    time.Duration `mapstructure:"min_interval"`
	Reservoir      int           `mapstructure:"reservoir"`
	RefillInterval time.Duration `mapstructure:"refill_interval"`
	RefillAmount   int           `mapstructure:"refill_amount"`
	DrainTimeout   time.Duration `mapstructure:"drain_timeout"`
}

// Apply overlays non-zero override fields onto preset.
func (c SchedulerConfig) Apply(preset resilience.SchedulerConfig) resilience.SchedulerConfig {
	if c.MaxConcurrent > 0 {
		preset.MaxConcurrent = c.MaxConcurrent
	}
	if c.MinInterval > 0 {
		preset.MinInterval = c.MinInterval
	}
	if c.Reservoir > 0 {
		preset.Reservoir = c.Reservoir
	}
	if c.RefillInterval > 0 {
		preset.RefillInterval = c.RefillInterval
	}
	if c.RefillAmount > 0 {
		preset.RefillAmount = c.RefillAmount
	}
	if c.DrainTimeout > 0 {
		preset.DrainTimeout = c.DrainTimeout
	}
	return preset
}

// BackoffConfig is the retry envelope shared by both dispatchers.
type BackoffConfig struct {
	InitialDelay time.Duration `mapstructure:"initial_delay"`
	MaxDelay     time.Duration `mapstructure:"max_delay"`

	// MaxRetries is the number of retries after the initial attempt.
	// An explicit 0 disables retries; the loader defaults it to 3.
	MaxRetries int `mapstructure:"max_retries"`

	Multiplier float64 `mapstructure:"multiplier"`
	Jitter     bool    `mapstructure:"jitter"`
}

// Resilience converts the envelope to the resilience package's type.
func (c BackoffConfig) Resilience() resilience.BackoffConfig {
	retries := c.MaxRetries
	if retries == 0 {
		// The engine treats zero as unset; negative is its "no retries" form.
		retries = -1
	}
	return resilience.BackoffConfig{
		InitialDelay: c.InitialDelay,
		MaxDelay:     c.MaxDelay,
		MaxRetries:   retries,
		Multiplier:   c.Multiplier,
		Jitter:       c.Jitter,
	}
}

// ObserveConfig configures telemetry.
type ObserveConfig struct {
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `mapstructure:"log_level"`

	// TracingExporter is one of otlp, jaeger, stdout, none. jaeger speaks
	// OTLP and takes its endpoint from OTEL_EXPORTER_JAEGER_ENDPOINT.
	TracingExporter string `mapstructure:"tracing_exporter"`

	// MetricsExporter is one of otlp, prometheus, stdout, none.
	MetricsExporter string `mapstructure:"metrics_exporter"`

	// SamplePct is the trace sampling ratio in [0, 1].
	SamplePct float64 `mapstructure:"sample_pct"`
}

// Observer converts telemetry settings to an observe.Config.
func (c ObserveConfig) Observer(version string) observe.Config {
	return observe.Config{
		ServiceName: "docbridge",
		Version:     version,
		Tracing: observe.TracingConfig{
			Enabled:   c.TracingExporter != "" && c.TracingExporter != "none",
			Exporter:  c.TracingExporter,
			SamplePct: c.SamplePct,
		},
		Metrics: observe.MetricsConfig{
			Enabled:  c.MetricsExporter != "" && c.MetricsExporter != "none",
			Exporter: c.MetricsExporter,
		},
		Logging: observe.LoggingConfig{
			Enabled: true,
			Level:   c.LogLevel,
		},
	}
}

// SyncConfig configures the translation sync run.
type SyncConfig struct {
	// DocsDir is the root of the Markdown tree to translate.
	DocsDir string `mapstructure:"docs_dir"`

	// TargetLanguage is the language documents are translated into.
	TargetLanguage string `mapstructure:"target_language"`

	// OutputPrefix is the repository path translated files land under,
	// e.g. "docs/es". Defaults to "docs/<language>".
	OutputPrefix string `mapstructure:"output_prefix"`

	// BranchPrefix prefixes the generated branch name.
	BranchPrefix string `mapstructure:"branch_prefix"`

	// Concurrency bounds the translation fan-out. Admission is still the
	// scheduler's job; this only caps the number of waiting goroutines.
	Concurrency int `mapstructure:"concurrency"`
}
