package scroll

import "math"

// Mode selects what a Calculator measures progress through.
type Mode string

const (
	ModePage    Mode = "page"
	ModeSection Mode = "section"
)

// DefaultVisibleAfterPx is how far the page must be scrolled before a page
// progress indicator is shown.
const DefaultVisibleAfterPx = 100

// Progress is a percentage in [0,100] and whether the indicator should show.
type Progress struct {
	Percent float64 `json:"percent"`
	Visible bool    `json:"visible"`
}

// PageProgress measures how far the document has been scrolled.
// A document that fits in the viewport reports 0.
func PageProgress(vp Viewport, visibleAfterPx float64) Progress {
	p := Progress{Visible: vp.ScrollOffset > visibleAfterPx}
	scrollable := vp.DocumentHeight - vp.ViewportHeight
	if !(scrollable > 0) {
		return p
	}
	p.Percent = percent(vp.ScrollOffset, scrollable)
	return p
}

// SectionProgress measures how far the viewport has travelled through the
// part of s that cannot be shown at once. A section no taller than the
// viewport has no such range and reports 0.
func SectionProgress(vp Viewport, s Section) Progress {
	p := Progress{Visible: Intersects(vp, s)}
	span := math.Max(0, s.Height-vp.ViewportHeight)
	if !(span > 0) {
		return p
	}
	p.Percent = percent(vp.ScrollOffset-s.Top, span)
	return p
}

// Intersects reports whether any part of s is inside the viewport.
func Intersects(vp Viewport, s Section) bool {
	return s.Top < vp.ScrollOffset+vp.ViewportHeight && s.Bottom() > vp.ScrollOffset
}

func percent(n, d float64) float64 {
	return clamp(n / d * 100)
}

func clamp(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return 0
	case v < 0:
		return 0
	case v > 100:
		return 100
	}
	return v
}

// Calculator binds a progress mode to a Geometry.
type Calculator struct {
	Geometry       Geometry
	Mode           Mode
	SectionID      string
	VisibleAfterPx float64
}

// Compute reads geometry and returns the current progress. In section mode a
// section that is not mounted yields a zero, hidden Progress.
func (c Calculator) Compute() Progress {
	if c.Geometry == nil {
		return Progress{}
	}
	vp := c.Geometry.Snapshot()
	if c.Mode != ModeSection {
		return PageProgress(vp, c.VisibleAfterPx)
	}
	sections := Descriptors(c.Geometry, []string{c.SectionID})
	if len(sections) == 0 {
		return Progress{}
	}
	return SectionProgress(vp, sections[0])
}
