// Package engagement runs one scroll tracker per reader and records which
// sections they settle on.
//
// The browser posts a beacon with the current layout whenever it scrolls or
// resizes. Each beacon is resolved on the spot for the response and also
// nudges the session's tracker, whose debounced update writes a section view
// when the resolved section changes. Sessions end on page unload or idle.
package engagement

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Zachkp/portfolio/internal/scroll"
	"github.com/Zachkp/portfolio/internal/store"
)

var (
	ErrInvalidSession  = errors.New("invalid session id")
	ErrTooManySessions = errors.New("too many tracking sessions")
)

// DefaultMaxSessions bounds memory held by idle trackers.
const DefaultMaxSessions = 10000

// minReapInterval keeps the reaper ticker sane for very short ttls.
const minReapInterval = time.Second

// Recorder persists section views.
type Recorder interface {
	RecordSectionView(ctx context.Context, v store.SectionView) error
}

// Beacon is one layout report from the browser.
type Beacon struct {
	SessionID string           `json:"session" binding:"required,max=64"`
	Viewport  scroll.Viewport  `json:"viewport"`
	Sections  []scroll.Section `json:"sections" binding:"max=64"`
}

// NewSessionID returns a fresh id for a tracking cookie.
func NewSessionID() string { return uuid.NewString() }

type session struct {
	geometry *scroll.SnapshotGeometry
	tracker  *scroll.Tracker
	lastSeen time.Time // guarded by Registry.mu

	mu     sync.Mutex
	closed bool
}

func (s *session) stop() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.tracker.Close()
}

// Registry owns the live sessions.
type Registry struct {
	opts        scroll.Options
	ttl         time.Duration
	maxSessions int
	rec         Recorder
	log         *slog.Logger
	now         func() time.Time

	mu       sync.Mutex
	sessions map[string]*session
}

// NewRegistry checks opts once so that sessions can't fail to start later.
func NewRegistry(opts scroll.Options, ttl time.Duration, rec Recorder, log *slog.Logger) (*Registry, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("tracker options: %w", err)
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("session ttl must be positive")
	}
	return &Registry{
		opts:        opts,
		ttl:         ttl,
		maxSessions: DefaultMaxSessions,
		rec:         rec,
		log:         log,
		now:         time.Now,
		sessions:    make(map[string]*session),
	}, nil
}

// Observe applies a beacon, starting a session on first sight, and returns
// the section the beacon's layout resolves to. Section views are recorded
// later, once the session's scrolling settles.
func (r *Registry) Observe(b Beacon) (string, error) {
	if _, err := uuid.Parse(b.SessionID); err != nil {
		return "", ErrInvalidSession
	}

	for {
		s, err := r.touch(b.SessionID)
		if err != nil {
			return "", err
		}

		s.mu.Lock()
		if s.closed {
			// ended between lookup and use; the next touch starts a new one
			s.mu.Unlock()
			continue
		}
		s.geometry.Set(b.Viewport, b.Sections)
		u := s.tracker.Compute()
		s.tracker.Notify()
		s.mu.Unlock()
		return u.SectionID, nil
	}
}

// touch returns the live session for id, starting it if needed, and marks
// it as seen.
func (r *Registry) touch(id string) (*session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		if len(r.sessions) >= r.maxSessions {
			return nil, ErrTooManySessions
		}
		var err error
		if s, err = r.start(id); err != nil {
			return nil, err
		}
		r.sessions[id] = s
	}
	s.lastSeen = r.now()
	return s, nil
}

// start must be called with mu held.
func (r *Registry) start(id string) (*session, error) {
	g := scroll.NewSnapshotGeometry(scroll.Viewport{})
	now := r.now
	var last string
	tr, err := scroll.NewTracker(g, r.opts, func(u scroll.Update) {
		// runs on the tracker's scheduler, one at a time per session
		if u.SectionID == "" || u.SectionID == last {
			return
		}
		last = u.SectionID
		err := r.rec.RecordSectionView(context.Background(), store.SectionView{
			SessionID: id,
			SectionID: u.SectionID,
			Progress:  u.Progress.Percent,
			Timestamp: now(),
		})
		if err != nil {
			r.log.Error("recording section view", "section", u.SectionID, "error", err)
		}
	})
	if err != nil {
		return nil, err
	}
	r.log.Debug("tracking session started", "session", id)
	return &session{geometry: g, tracker: tr}, nil
}

// Current returns the section a session is on.
func (r *Registry) Current(id string) (string, bool) {
	r.mu.Lock()
	s, ok := r.sessions[id]
	r.mu.Unlock()
	if !ok {
		return "", false
	}
	return s.tracker.Current(), true
}

// End stops a session and drops its pending update.
func (r *Registry) End(id string) bool {
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()
	if ok {
		s.stop()
	}
	return ok
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Reap ends sessions not seen since ttl before now.
func (r *Registry) Reap(now time.Time) int {
	cutoff := now.Add(-r.ttl)
	var idle []*session

	r.mu.Lock()
	for id, s := range r.sessions {
		if s.lastSeen.Before(cutoff) {
			idle = append(idle, s)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()

	for _, s := range idle {
		s.stop()
	}
	return len(idle)
}

// Run reaps idle sessions until ctx is done, then ends every session.
func (r *Registry) Run(ctx context.Context) {
	ticker := time.NewTicker(max(r.ttl/2, minReapInterval))
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			r.Close()
			return
		case <-ticker.C:
			if n := r.Reap(r.now()); n > 0 {
				r.log.Info("reaped idle tracking sessions", "count", n)
			}
		}
	}
}

// Close ends every session.
func (r *Registry) Close() {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[string]*session)
	r.mu.Unlock()

	for _, s := range sessions {
		s.stop()
	}
}
