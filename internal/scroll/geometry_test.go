package scroll

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fixedGeometry struct {
	vp       Viewport
	sections []Section
}

func (f fixedGeometry) Snapshot() Viewport { return f.vp }

func (f fixedGeometry) SectionDescriptors([]string) []Section { return f.sections }

func TestDescriptors_CandidateOrderAndFiltering(t *testing.T) {
	g := fixedGeometry{sections: []Section{
		{ID: "contact", Top: 2000, Height: 1000},
		{ID: "hero", Top: 0, Height: 1000},
		{ID: "hero", Top: 50, Height: 10},
		{ID: "broken", Top: 0, Height: -1},
		{ID: "nan", Top: math.NaN(), Height: 100},
		{ID: "", Top: 0, Height: 100},
		{ID: "stray", Top: 0, Height: 100},
	}}

	got := Descriptors(g, []string{"hero", "resume", "contact", "hero", "broken", "nan", "stray"})
	assert.Equal(t, []Section{
		{ID: "hero", Top: 0, Height: 1000},
		{ID: "contact", Top: 2000, Height: 1000},
		{ID: "stray", Top: 0, Height: 100},
	}, got)
}

func TestDescriptors_Empty(t *testing.T) {
	assert.Nil(t, Descriptors(nil, []string{"hero"}))
	assert.Nil(t, Descriptors(fixedGeometry{}, nil))
	assert.Empty(t, Descriptors(fixedGeometry{}, []string{"hero"}))
}

func TestSnapshotGeometry(t *testing.T) {
	g := NewSnapshotGeometry(viewportAt(0), pageLayout()...)

	g.ScrollTo(300)
	assert.Equal(t, 300.0, g.Snapshot().ScrollOffset)
	assert.Equal(t, 800.0, g.Snapshot().ViewportHeight)

	g.SetViewport(Viewport{ScrollOffset: 10, ViewportHeight: 600, DocumentHeight: 3000})
	assert.Equal(t, 600.0, g.Snapshot().ViewportHeight)

	g.Remove("resume")
	assert.Len(t, g.SectionDescriptors(pageIDs), 2)

	g.Set(viewportAt(0), nil)
	assert.Empty(t, g.SectionDescriptors(pageIDs))
}

func TestStack(t *testing.T) {
	got := Stack([]string{"a", "b", "c"}, []float64{100, 250})
	assert.Equal(t, []Section{
		{ID: "a", Top: 0, Height: 100},
		{ID: "b", Top: 100, Height: 250},
	}, got)
	assert.Equal(t, 350.0, got[1].Bottom())
	assert.Equal(t, 225.0, got[1].Center())
}
