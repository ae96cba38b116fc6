package scroll

import (
	"sync"
	"time"
)

// Policy decides when a burst of events is allowed to trigger work.
type Policy int

const (
	// Coalesce runs once per window: the first event of a burst opens the
	// window and later events ride along. Use it for frame-rate updates.
	Coalesce Policy = iota
	// Debounce restarts the window on every event and runs once things go
	// quiet.
	Debounce
)

// FrameInterval approximates one animation frame at 60Hz.
const FrameInterval = 16 * time.Millisecond

// DefaultDebounce is the quiet period used when none is configured.
const DefaultDebounce = 150 * time.Millisecond

// Scheduler throttles a recomputation callback. Both policies fire on the
// trailing edge, so the last event of a burst is always reflected. The
// callback never runs concurrently with itself; events that arrive while it
// runs cause exactly one more run.
type Scheduler struct {
	fn     func()
	window time.Duration
	policy Policy

	mu      sync.Mutex
	timer   *time.Timer
	gen     uint64
	running bool
	again   bool
	closed  bool
}

// NewScheduler returns a Scheduler that calls fn at most once per window.
// A non-positive window falls back to FrameInterval for Coalesce and
// DefaultDebounce for Debounce.
func NewScheduler(window time.Duration, policy Policy, fn func()) *Scheduler {
	if window <= 0 {
		window = DefaultDebounce
		if policy == Coalesce {
			window = FrameInterval
		}
	}
	return &Scheduler{fn: fn, window: window, policy: policy}
}

// Window returns the configured window.
func (s *Scheduler) Window() time.Duration { return s.window }

// Schedule records that inputs changed.
func (s *Scheduler) Schedule() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	if s.running {
		s.again = true
		return
	}
	if s.timer != nil && s.policy == Coalesce {
		return
	}
	s.arm()
}

// Cancel drops any pending run. A run already in progress finishes.
func (s *Scheduler) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.disarm()
	s.again = false
}

// Close cancels pending work and ignores every later Schedule.
func (s *Scheduler) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.disarm()
	s.again = false
	s.closed = true
}

// Pending reports whether a run is waiting on its window.
func (s *Scheduler) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timer != nil || s.again
}

// arm must be called with mu held.
func (s *Scheduler) arm() {
	s.disarm()
	gen := s.gen
	s.timer = time.AfterFunc(s.window, func() { s.fire(gen) })
}

// disarm must be called with mu held. Bumping gen turns a timer that has
// already fired but not yet taken the lock into a no-op.
func (s *Scheduler) disarm() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.gen++
}

func (s *Scheduler) fire(gen uint64) {
	s.mu.Lock()
	if s.closed || gen != s.gen {
		s.mu.Unlock()
		return
	}
	s.timer = nil
	s.running = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		if s.again && !s.closed {
			s.again = false
			s.arm()
		}
		s.mu.Unlock()
	}()
	s.fn()
}
