package seeker

import (
	"github.com/hupe1980/waypoint/search"
)

// Modifier hooks into the request pipeline of a Seeker.
type Modifier interface {
	// Order sorts modifiers. Lower values run first.
	Order() int
	// PreProcess is called before the request is queued.
	PreProcess(r *search.Request)
	// Apply is called after the search unless it failed.
	Apply(r *search.Request)
}

// Exactness selects which point an endpoint of the path is moved to.
type Exactness uint8

const (
	// SnapToNode keeps the position of the endpoint node.
	SnapToNode Exactness = iota
	// Original uses the point passed when the path was requested.
	Original
	// ClosestOnNode uses the point on the endpoint node closest to the
	// requested point.
	ClosestOnNode
)

// StartEndModifier replaces the first and last path points.
type StartEndModifier struct {
	Start, End Exactness
}

// Order implements Modifier. It runs before other modifiers.
func (m *StartEndModifier) Order() int { return 0 }

// PreProcess implements Modifier.
func (m *StartEndModifier) PreProcess(*search.Request) {}

// Apply implements Modifier.
func (m *StartEndModifier) Apply(r *search.Request) {
	pts := r.Points()
	if len(pts) == 0 {
		return
	}

	switch m.Start {
	case Original:
		pts[0] = r.RawStart()
	case ClosestOnNode:
		pts[0] = r.StartPoint()
	}

	last := len(pts) - 1
	switch m.End {
	case Original:
		pts[last] = r.RawEnd()
	case ClosestOnNode:
		pts[last] = r.EndPoint()
	}
}
