package search

import (
	"math"
	"strings"
	"testing"

	"github.com/hupe1980/waypoint/geom"
	"github.com/hupe1980/waypoint/graph"
	"github.com/hupe1980/waypoint/graph/grid"
	"github.com/stretchr/testify/require"
)

// lineGraph is a chain of nodes one world unit apart along X. It does not
// implement graph.ApproximateTargetResolver.
type lineGraph struct {
	walkable         []bool
	nearestRange     float64
	ignoreConstraint bool
	index            uint32
}

func newLineGraph(n int) *lineGraph {
	w := make([]bool, n)
	for i := range w {
		w[i] = true
	}
	return &lineGraph{walkable: w, nearestRange: math.Inf(1)}
}

func (l *lineGraph) NodeCount() int     { return len(l.walkable) }
func (l *lineGraph) GraphIndex() uint32 { return l.index }
func (l *lineGraph) Position(n graph.NodeID) geom.Int3 {
	return geom.Int3{X: int32(n) * geom.Precision}
}
func (l *lineGraph) Walkable(n graph.NodeID) bool { return l.walkable[n] }
func (l *lineGraph) Tag(graph.NodeID) uint32      { return 0 }
func (l *lineGraph) Penalty(graph.NodeID) uint32  { return 0 }

func (l *lineGraph) Area(n graph.NodeID) uint32 {
	if l.walkable[n] {
		return 1
	}
	return 0
}

func (l *lineGraph) Open(n graph.NodeID, t graph.Traversal) {
	for _, m := range []int{int(n) - 1, int(n) + 1} {
		if m < 0 || m >= len(l.walkable) || !l.walkable[m] {
			continue
		}
		if t.CanTraverse(graph.NodeID(m)) {
			t.Relax(n, graph.NodeID(m), geom.Precision)
		}
	}
}

func (l *lineGraph) Nearest(p geom.Vec3, c graph.Constraint) graph.NearestInfo {
	best := graph.NoNode
	bestDist := math.Inf(1)
	for i := range l.walkable {
		n := graph.NodeID(i)
		if !l.ignoreConstraint && !c.Accepts(n) {
			continue
		}
		d := math.Abs(p.X - float64(i))
		if d <= l.nearestRange && d < bestDist {
			best, bestDist = n, d
		}
	}
	if !best.Valid() {
		return graph.NearestInfo{Node: graph.NoNode}
	}
	x := math.Min(math.Max(p.X, float64(best)-0.5), float64(best)+0.5)
	return graph.NearestInfo{Node: best, Position: geom.V3(x, 0, 0)}
}

func parseGrid(t *testing.T, m string, opts grid.Options) (*grid.Graph, grid.Markers) {
	t.Helper()
	g, mk, err := grid.ParseASCII(strings.NewReader(m), opts)
	require.NoError(t, err)
	return g, mk
}

// center returns the world position of the grid cell (x, z).
func center(g *grid.Graph, x, z int) geom.Vec3 {
	return g.Position(g.NodeAt(x, z)).Vec3()
}

// flagsClear reports whether no record in the store carries a flag.
func flagsClear(s *RecordStore) bool {
	for i := range s.records {
		if s.records[i].Flags != 0 {
			return false
		}
	}
	return true
}
