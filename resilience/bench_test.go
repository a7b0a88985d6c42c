package resilience

import (
	"context"
	"testing"
)

func BenchmarkSchedulerAdmission(b *testing.B) {
	s := NewScheduler(SchedulerConfig{MaxConcurrent: 64})
	defer s.Shutdown(context.Background())

	op := func(ctx context.Context) error { return nil }

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Schedule(context.Background(), op)
	}
}

func BenchmarkClassifyKind(b *testing.B) {
	err := &StatusError{Code: 429}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ClassifyKind(err)
	}
}

func BenchmarkBackoffDelay(b *testing.B) {
	engine := NewBackoff(BackoffConfig{Jitter: true})
	err := &StatusError{Code: 503}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		engine.delay(3, err)
	}
}
