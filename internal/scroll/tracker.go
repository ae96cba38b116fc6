package scroll

import (
	"errors"
	"fmt"
	"math"
	"time"
)

var (
	ErrNegativeHysteresis = errors.New("hysteresis must be non-negative")
	ErrSectionRequired    = errors.New("section mode requires a section id")
	ErrUnknownMode        = errors.New("unknown progress mode")
	ErrNoCandidates       = errors.New("no candidate sections")
)

// DefaultHysteresisPx is the dead zone around section boundaries.
const DefaultHysteresisPx = 50

// Options configures a Tracker.
type Options struct {
	Candidates     []string
	HysteresisPx   float64
	Mode           Mode
	SectionID      string
	Debounce       time.Duration
	Policy         Policy
	VisibleAfterPx float64
}

// DefaultOptions returns page-mode options for the given candidates.
func DefaultOptions(candidates ...string) Options {
	return Options{
		Candidates:     candidates,
		HysteresisPx:   DefaultHysteresisPx,
		Mode:           ModePage,
		Debounce:       DefaultDebounce,
		Policy:         Debounce,
		VisibleAfterPx: DefaultVisibleAfterPx,
	}
}

// Validate reports the first problem with o. A missing candidate list is
// reported last so callers that allow an empty layout can still check the
// rest.
func (o Options) Validate() error {
	if o.HysteresisPx < 0 || math.IsNaN(o.HysteresisPx) {
		return fmt.Errorf("%w: got %v", ErrNegativeHysteresis, o.HysteresisPx)
	}
	switch o.Mode {
	case ModePage, "":
	case ModeSection:
		if o.SectionID == "" {
			return ErrSectionRequired
		}
	default:
		return fmt.Errorf("%w %q: must be page or section", ErrUnknownMode, o.Mode)
	}
	if len(o.Candidates) == 0 {
		return ErrNoCandidates
	}
	return nil
}

// Update is what a Tracker hands to its consumer.
type Update struct {
	SectionID string   `json:"section"`
	Progress  Progress `json:"progress"`
}

// Tracker wires host events through a Scheduler into a Resolver and a
// Calculator and reports the result. Each Tracker owns its own state.
type Tracker struct {
	resolver   *Resolver
	calculator Calculator
	scheduler  *Scheduler
	onUpdate   func(Update)
}

// NewTracker validates opts and returns an idle Tracker. onUpdate is called
// from the scheduler's goroutine, never concurrently with itself.
func NewTracker(g Geometry, opts Options, onUpdate func(Update)) (*Tracker, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if opts.Mode == "" {
		opts.Mode = ModePage
	}
	r, err := NewResolver(g, opts.Candidates, opts.HysteresisPx)
	if err != nil {
		return nil, err
	}
	t := &Tracker{
		resolver: r,
		calculator: Calculator{
			Geometry:       g,
			Mode:           opts.Mode,
			SectionID:      opts.SectionID,
			VisibleAfterPx: opts.VisibleAfterPx,
		},
		onUpdate: onUpdate,
	}
	t.scheduler = NewScheduler(opts.Debounce, opts.Policy, t.run)
	return t, nil
}

// Notify tells the tracker that the host scrolled or resized.
func (t *Tracker) Notify() { t.scheduler.Schedule() }

// Compute recomputes immediately, bypassing the scheduler.
func (t *Tracker) Compute() Update {
	return Update{
		SectionID: t.resolver.Update(),
		Progress:  t.calculator.Compute(),
	}
}

// Current returns the last resolved section.
func (t *Tracker) Current() string { return t.resolver.Current() }

// Pending reports whether a recomputation is scheduled.
func (t *Tracker) Pending() bool { return t.scheduler.Pending() }

// Close stops tracking. Pending recomputations are dropped.
func (t *Tracker) Close() { t.scheduler.Close() }

func (t *Tracker) run() {
	u := t.Compute()
	if t.onUpdate != nil {
		t.onUpdate(u)
	}
}
