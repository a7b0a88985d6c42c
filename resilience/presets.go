package resilience

import "time"

// Named scheduler presets, one per target API. Config may override any
// field; these are the shipped defaults.

// SourceControlPreset suits the source-control API: generous authenticated
// quota, so tight spacing and real concurrency, with the reservoir sized to
// stay under the hourly budget.
func SourceControlPreset() SchedulerConfig {
	return SchedulerConfig{
		MaxConcurrent:  10,
		MinInterval:    100 * time.Millisecond,
		Reservoir:      900,
		RefillInterval: 15 * time.Minute,
		RefillAmount:   900,
		DrainTimeout:   30 * time.Second,
	}
}

// ModelFreeTierPreset suits a free-tier language model: one call at a time,
// long spacing, a small per-minute reservoir.
func ModelFreeTierPreset() SchedulerConfig {
	return SchedulerConfig{
		MaxConcurrent:  1,
		MinInterval:    20 * time.Second,
		Reservoir:      3,
		RefillInterval: time.Minute,
		RefillAmount:   3,
		DrainTimeout:   60 * time.Second,
	}
}

// ModelPaidTierPreset suits a paid-tier language model: moderate concurrency
// and a per-minute reservoir matching the paid quota.
func ModelPaidTierPreset() SchedulerConfig {
	return SchedulerConfig{
		MaxConcurrent:  4,
		MinInterval:    1200 * time.Millisecond,
		Reservoir:      50,
		RefillInterval: time.Minute,
		RefillAmount:   50,
		DrainTimeout:   60 * time.Second,
	}
}
