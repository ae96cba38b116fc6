package scroll

import (
	"math"
	"sync"
)

// Resolve picks the section the viewport center is closest to among
// candidateIDs, as read from g. It returns "" when none of them are mounted.
func Resolve(g Geometry, candidateIDs []string, previous string, hysteresisPx float64) string {
	if g == nil {
		return ""
	}
	return ResolveSections(g.Snapshot(), Descriptors(g, candidateIDs), previous, hysteresisPx)
}

// ResolveSections is the geometry-free core of Resolve. sections must already
// be in candidate order; on equal distances the earlier one wins.
//
// When previous is still present and the nearest section differs from it,
// the result only moves once the viewport center has passed the boundary
// between the two by more than hysteresisPx.
func ResolveSections(vp Viewport, sections []Section, previous string, hysteresisPx float64) string {
	if len(sections) == 0 {
		return ""
	}
	center := vp.Center()

	raw := -1
	best := math.Inf(1)
	prev := -1
	for i, s := range sections {
		d := math.Abs(center - s.Center())
		if d < best || raw < 0 {
			best = d
			raw = i
		}
		if previous != "" && s.ID == previous && prev < 0 {
			prev = i
		}
	}

	if prev < 0 || prev == raw {
		return sections[raw].ID
	}
	if hysteresisPx < 0 || math.IsNaN(hysteresisPx) {
		hysteresisPx = 0
	}
	if past(center, sections[prev], sections[raw]) > hysteresisPx {
		return sections[raw].ID
	}
	return sections[prev].ID
}

// past returns how far center has travelled beyond the boundary separating
// from and to, measured in the direction of to. Negative means it has not
// reached the boundary yet.
func past(center float64, from, to Section) float64 {
	if to.Center() >= from.Center() {
		boundary := (from.Bottom() + to.Top) / 2
		return center - boundary
	}
	boundary := (from.Top + to.Bottom()) / 2
	return boundary - center
}

// Resolver owns the current-section state for one navigation context.
// Two navs (desktop and mobile, say) each get their own Resolver.
type Resolver struct {
	geometry   Geometry
	candidates []string
	hysteresis float64

	mu      sync.Mutex
	current string
}

// NewResolver returns a Resolver with no current section.
func NewResolver(g Geometry, candidates []string, hysteresisPx float64) (*Resolver, error) {
	if hysteresisPx < 0 || math.IsNaN(hysteresisPx) {
		return nil, ErrNegativeHysteresis
	}
	ids := make([]string, len(candidates))
	copy(ids, candidates)
	return &Resolver{geometry: g, candidates: ids, hysteresis: hysteresisPx}, nil
}

// Update re-reads geometry, stores the resolved section and returns it.
func (r *Resolver) Update() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.current = Resolve(r.geometry, r.candidates, r.current, r.hysteresis)
	return r.current
}

// Current returns the last resolved section, or "" if there is none.
func (r *Resolver) Current() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Reset forgets the current section.
func (r *Resolver) Reset() {
	r.mu.Lock()
	r.current = ""
	r.mu.Unlock()
}
