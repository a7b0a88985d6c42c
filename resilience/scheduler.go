package resilience

import (
	"context"
	"sync"
	"time"
)

// SchedulerConfig configures one admission queue. Each target API gets its
// own scheduler built from a named preset (see presets.go).
type SchedulerConfig struct {
	// MaxConcurrent is the number of operations allowed in flight at once.
	// Default: 1
	MaxConcurrent int

	// MinInterval is the minimum wall-clock spacing between successive
	// admissions. Zero disables spacing.
	MinInterval time.Duration

	// Reservoir is the quota of admissions available per refill window.
	// Zero disables the reservoir entirely.
	Reservoir int

	// RefillInterval is how often RefillAmount is added back to the
	// reservoir, capped at Reservoir.
	RefillInterval time.Duration

	// RefillAmount is the quota restored per refill tick.
	RefillAmount int

	// DrainTimeout bounds how long Shutdown waits for running operations.
	// Default: 30s
	DrainTimeout time.Duration
}

// SchedulerMetrics is a point-in-time snapshot of scheduler counters.
// Metrics() returns it by value; callers cannot reach the live counters.
type SchedulerMetrics struct {
	TotalRequests   int64
	QueuedRequests  int64
	RunningRequests int64
	FailedRequests  int64
	LastRequestTime time.Time
}

type entryState int

const (
	stateQueued entryState = iota
	stateRunning
	stateDone
	stateFailed
)

// queueEntry is owned exclusively by the scheduler: created on submit,
// settled exactly once, never reused.
type queueEntry struct {
	id          uint64
	submittedAt time.Time
	state       entryState

	// admit receives nil on admission or a settlement error on rejection.
	// Buffered so the coordinator never blocks on a caller.
	admit chan error
}

// Scheduler is a bounded-concurrency, minimum-interval, quota-reservoir
// admission queue. Admission is strictly first-come-first-served; the
// scheduler never fails a submission for capacity reasons, it defers.
//
// One coordinator goroutine drains the queue; a second goroutine refills the
// reservoir. Both stop at Shutdown.
type Scheduler struct {
	config SchedulerConfig

	mu           sync.Mutex
	queue        []*queueEntry
	nextID       uint64
	running      int
	reservoir    int
	lastDispatch time.Time
	closed       bool
	metrics      SchedulerMetrics
	drained      chan struct{} // closed once closed && running == 0

	wake chan struct{} // nudges the coordinator, capacity 1
	done chan struct{} // closed on shutdown, stops both goroutines

	shutdownOnce sync.Once
}

// NewScheduler creates a scheduler and starts its coordinator. The scheduler
// lives for the process lifetime; call Shutdown to release its goroutines.
func NewScheduler(config SchedulerConfig) *Scheduler {
	if config.MaxConcurrent <= 0 {
		config.MaxConcurrent = 1
	}
	if config.DrainTimeout <= 0 {
		config.DrainTimeout = 30 * time.Second
	}

	s := &Scheduler{
		config:    config,
		reservoir: config.Reservoir,
		drained:   make(chan struct{}),
		wake:      make(chan struct{}, 1),
		done:      make(chan struct{}),
	}

	go s.coordinate()
	if config.Reservoir > 0 && config.RefillInterval > 0 && config.RefillAmount > 0 {
		go s.refill()
	}

	return s
}

// Config returns the scheduler configuration.
func (s *Scheduler) Config() SchedulerConfig {
	return s.config
}

// Schedule submits op and blocks until it settles. The operation's result
// propagates unchanged; capacity pressure only ever delays it. A queued
// entry is abandoned if ctx is cancelled before admission.
func (s *Scheduler) Schedule(ctx context.Context, op func(context.Context) error) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSchedulerClosed
	}
	e := &queueEntry{
		id:          s.nextID,
		submittedAt: time.Now(),
		state:       stateQueued,
		admit:       make(chan error, 1),
	}
	s.nextID++
	s.queue = append(s.queue, e)
	s.metrics.TotalRequests++
	s.metrics.QueuedRequests++
	s.mu.Unlock()
	s.kick()

	select {
	case err := <-e.admit:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		s.mu.Lock()
		if e.state == stateQueued {
			s.removeLocked(e)
			e.state = stateFailed
			s.metrics.QueuedRequests--
			s.metrics.FailedRequests++
			s.mu.Unlock()
			return ctx.Err()
		}
		s.mu.Unlock()
		// The entry settled while we were cancelling. Only an admission (nil)
		// holds a slot that must be given back; a rejection already settled
		// the entry and the counters, so it propagates untouched.
		if err := <-e.admit; err != nil {
			return err
		}
		s.settle(e, ctx.Err())
		return ctx.Err()
	}

	err := op(ctx)
	s.settle(e, err)
	return err
}

// ScheduleValue submits a value-returning operation through s.
func ScheduleValue[T any](ctx context.Context, s *Scheduler, op func(context.Context) (T, error)) (T, error) {
	var out T
	err := s.Schedule(ctx, func(ctx context.Context) error {
		v, err := op(ctx)
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	return out, err
}

// ClearQueue rejects every still-queued entry with ErrQueueCancelled.
// Running operations are unaffected and run to completion.
func (s *Scheduler) ClearQueue() {
	s.mu.Lock()
	cancelled := s.queue
	s.queue = nil
	for _, e := range cancelled {
		e.state = stateFailed
		s.metrics.QueuedRequests--
		s.metrics.FailedRequests++
	}
	s.mu.Unlock()

	for _, e := range cancelled {
		e.admit <- ErrQueueCancelled
	}
}

// Shutdown stops admission, waits for running operations bounded by the
// drain timeout (or ctx, whichever ends first), then rejects anything still
// queued. Safe to call multiple times.
func (s *Scheduler) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		idle := s.running == 0
		s.mu.Unlock()
		if idle {
			s.signalDrained()
		}

		timer := time.NewTimer(s.config.DrainTimeout)
		defer timer.Stop()

		select {
		case <-s.drained:
		case <-timer.C:
		case <-ctx.Done():
			err = ctx.Err()
		}

		s.ClearQueue()
		close(s.done)
	})
	return err
}

// Metrics returns a snapshot of the counters. Every call returns a fresh
// value; mutating it has no effect on the scheduler.
func (s *Scheduler) Metrics() SchedulerMetrics {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.metrics
}

// ReservoirLevel returns the quota currently available.
func (s *Scheduler) ReservoirLevel() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reservoir
}

// settle reconciles counters after an admitted operation finishes. Runs on
// every exit path so failure never leaves the counters inconsistent.
func (s *Scheduler) settle(e *queueEntry, err error) {
	s.mu.Lock()
	s.running--
	s.metrics.RunningRequests--
	if err != nil {
		e.state = stateFailed
		s.metrics.FailedRequests++
	} else {
		e.state = stateDone
	}
	idle := s.closed && s.running == 0
	s.mu.Unlock()

	if idle {
		s.signalDrained()
	}
	s.kick()
}

func (s *Scheduler) signalDrained() {
	// Guarded close: settle and Shutdown can both observe the drained state.
	s.mu.Lock()
	select {
	case <-s.drained:
	default:
		close(s.drained)
	}
	s.mu.Unlock()
}

// removeLocked drops e from the queue. Caller holds s.mu.
func (s *Scheduler) removeLocked(target *queueEntry) {
	for i, e := range s.queue {
		if e == target {
			s.queue = append(s.queue[:i], s.queue[i+1:]...)
			return
		}
	}
}

// kick nudges the coordinator without blocking.
func (s *Scheduler) kick() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// coordinate is the sole arbiter of admission. It admits the queue head
// when a concurrency slot is free, the reservoir has quota, and the minimum
// interval since the previous admission has elapsed.
func (s *Scheduler) coordinate() {
	for {
		s.mu.Lock()
		var next *queueEntry
		var wait time.Duration = -1

		if !s.closed && len(s.queue) > 0 &&
			s.running < s.config.MaxConcurrent &&
			(s.config.Reservoir == 0 || s.reservoir > 0) {
			since := time.Since(s.lastDispatch)
			if s.lastDispatch.IsZero() || since >= s.config.MinInterval {
				next = s.queue[0]
				s.queue = s.queue[1:]
				next.state = stateRunning
				s.running++
				if s.config.Reservoir > 0 {
					s.reservoir--
				}
				s.lastDispatch = time.Now()
				s.metrics.QueuedRequests--
				s.metrics.RunningRequests++
				s.metrics.LastRequestTime = s.lastDispatch
			} else {
				wait = s.config.MinInterval - since
			}
		}
		s.mu.Unlock()

		if next != nil {
			next.admit <- nil
			continue
		}

		if wait >= 0 {
			timer := time.NewTimer(wait)
			select {
			case <-timer.C:
			case <-s.wake:
				timer.Stop()
			case <-s.done:
				timer.Stop()
				return
			}
			continue
		}

		select {
		case <-s.wake:
		case <-s.done:
			return
		}
	}
}

// refill restores reservoir quota on a fixed cadence, capped at the
// configured reservoir size.
func (s *Scheduler) refill() {
	ticker := time.NewTicker(s.config.RefillInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.mu.Lock()
			s.reservoir += s.config.RefillAmount
			if s.reservoir > s.config.Reservoir {
				s.reservoir = s.config.Reservoir
			}
			s.mu.Unlock()
			s.kick()
		case <-s.done:
			return
		}
	}
}
