// Package scroll tracks which page section a reader is looking at and how
// far through the page (or one section) they have scrolled.
//
// Nothing here touches a UI runtime. Geometry comes in through the Geometry
// interface, so the same code runs against browser beacons on the server and
// against fixed layouts in tests and the sweep command.
package scroll

import (
	"math"
	"sync"
)

// Section describes one vertically stacked page region, in document pixels.
type Section struct {
	ID     string  `json:"id"`
	Top    float64 `json:"top"`
	Height float64 `json:"height"`
}

// Bottom returns the document offset of the section's lower edge.
func (s Section) Bottom() float64 { return s.Top + s.Height }

// Center returns the document offset of the section's vertical midpoint.
func (s Section) Center() float64 { return s.Top + s.Height/2 }

// Viewport is a point-in-time reading of the scroll container.
type Viewport struct {
	ScrollOffset   float64 `json:"scrollOffset"`
	ViewportHeight float64 `json:"viewportHeight"`
	DocumentHeight float64 `json:"documentHeight"`
}

// Center returns the document offset of the viewport's vertical midpoint.
func (v Viewport) Center() float64 { return v.ScrollOffset + v.ViewportHeight/2 }

// Geometry reads layout from the host.
type Geometry interface {
	Snapshot() Viewport
	// SectionDescriptors returns descriptors for the ids currently present.
	// Ids that are not mounted are left out.
	SectionDescriptors(ids []string) []Section
}

// Descriptors asks g for the given ids and normalizes the answer: one
// descriptor per resolvable id, in the order of ids. Unknown ids, duplicates
// and sections with unusable geometry are dropped.
func Descriptors(g Geometry, ids []string) []Section {
	if g == nil || len(ids) == 0 {
		return nil
	}
	byID := make(map[string]Section, len(ids))
	for _, s := range g.SectionDescriptors(ids) {
		if !validSection(s) {
			continue
		}
		if _, dup := byID[s.ID]; !dup {
			byID[s.ID] = s
		}
	}

	out := make([]Section, 0, len(byID))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if s, ok := byID[id]; ok {
			out = append(out, s)
		}
	}
	return out
}

func validSection(s Section) bool {
	if s.ID == "" {
		return false
	}
	if !finite(s.Top) || !finite(s.Height) {
		return false
	}
	return s.Height >= 0
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// SnapshotGeometry is a Geometry backed by the last layout pushed into it.
// It is safe for concurrent use: beacons write while trackers read.
type SnapshotGeometry struct {
	mu       sync.RWMutex
	viewport Viewport
	sections map[string]Section
}

// NewSnapshotGeometry returns a provider seeded with the given layout.
func NewSnapshotGeometry(vp Viewport, sections ...Section) *SnapshotGeometry {
	g := &SnapshotGeometry{}
	g.Set(vp, sections)
	return g
}

// Set replaces the viewport and the full section layout.
func (g *SnapshotGeometry) Set(vp Viewport, sections []Section) {
	m := make(map[string]Section, len(sections))
	for _, s := range sections {
		m[s.ID] = s
	}
	g.mu.Lock()
	g.viewport = vp
	g.sections = m
	g.mu.Unlock()
}

// ScrollTo moves the viewport without touching the section layout.
func (g *SnapshotGeometry) ScrollTo(offset float64) {
	g.mu.Lock()
	g.viewport.ScrollOffset = offset
	g.mu.Unlock()
}

// SetViewport replaces the viewport without touching the section layout.
func (g *SnapshotGeometry) SetViewport(vp Viewport) {
	g.mu.Lock()
	g.viewport = vp
	g.mu.Unlock()
}

// Remove unmounts a section.
func (g *SnapshotGeometry) Remove(id string) {
	g.mu.Lock()
	delete(g.sections, id)
	g.mu.Unlock()
}

func (g *SnapshotGeometry) Snapshot() Viewport {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.viewport
}

func (g *SnapshotGeometry) SectionDescriptors(ids []string) []Section {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]Section, 0, len(ids))
	for _, id := range ids {
		if s, ok := g.sections[id]; ok {
			out = append(out, s)
		}
	}
	return out
}

// Stack lays sections out one after another from offset 0, the way the
// single-page layout stacks hero, résumé and contact.
func Stack(ids []string, heights []float64) []Section {
	n := len(ids)
	if len(heights) < n {
		n = len(heights)
	}
	out := make([]Section, 0, n)
	top := 0.0
	for i := 0; i < n; i++ {
		out = append(out, Section{ID: ids[i], Top: top, Height: heights[i]})
		top += heights[i]
	}
	return out
}
